package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/location"
	"github.com/mirasocial/mira-client/internal/model"
)

// watchProvider hands out watch samples only while the watch context given to
// it is still live.
type watchProvider struct {
	mu       sync.Mutex
	watchFn  func(model.Position, error)
	watchCtx context.Context
}

func (p *watchProvider) CurrentPosition(_ context.Context, _ location.PositionOptions) (model.Position, error) {
	return model.Position{}, nil
}

func (p *watchProvider) WatchPosition(ctx context.Context, _ location.PositionOptions, fn func(model.Position, error)) (func(), error) {
	p.mu.Lock()
	p.watchFn = fn
	p.watchCtx = ctx
	p.mu.Unlock()
	return func() {}, nil
}

func (p *watchProvider) emit(pos model.Position) {
	p.mu.Lock()
	fn, ctx := p.watchFn, p.watchCtx
	p.mu.Unlock()
	if fn != nil && ctx.Err() == nil {
		fn(pos, nil)
	}
}

func TestWatchSurvivesRequestCompletion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name":"Somewhere"}`))
	}))
	t.Cleanup(geo.Close)

	provider := &watchProvider{}
	svc := location.NewService(provider, location.NewGeocoder(geo.URL), location.Config{
		FixTimeout:   time.Second,
		WatchTimeout: time.Second,
	}, zap.NewNop())
	h := NewLocationHandler(svc)

	r := gin.New()
	r.POST("/location/watch", h.StartWatch)
	r.GET("/location/last", h.Last)

	// The request context dies when this handler returns; the watch must not.
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/location/watch", nil).WithContext(reqCtx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cancel()

	provider.emit(model.Position{Latitude: 48.85, Longitude: 2.35})

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/location/last", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var fix model.LocationFix
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fix))
	require.Equal(t, 48.85, fix.Latitude)

	svc.StopWatching()
}

func TestDistanceEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLocationHandler(nil) // Distance is pure, no service needed
	r.GET("/location/distance", h.Distance)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/location/distance?lat1=0&lon1=0&lat2=0&lon2=180", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.InDelta(t, 20015.0, body["distance_km"], 1.0)
}

func TestDistanceEndpointRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLocationHandler(nil)
	r.GET("/location/distance", h.Distance)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/location/distance?lat1=abc", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
