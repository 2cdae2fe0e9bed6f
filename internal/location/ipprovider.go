package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// DefaultIPLookupURL is the public IP-geolocation endpoint used by the
// built-in provider.
const DefaultIPLookupURL = "http://ip-api.com/json"

// IPProvider is the built-in PositionProvider: it approximates the device
// position from the public IP address. Platform integrations replace it with
// a real GPS bridge. Samples younger than MaximumAge are served from cache.
type IPProvider struct {
	lookupURL string
	http      *http.Client

	mu     sync.Mutex
	cached *model.Position
}

// NewIPProvider creates an IP-based position provider against lookupURL
// (DefaultIPLookupURL when empty).
func NewIPProvider(lookupURL string) *IPProvider {
	if lookupURL == "" {
		lookupURL = DefaultIPLookupURL
	}
	return &IPProvider{
		lookupURL: lookupURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition returns one sample, reusing a cached one within
// opts.MaximumAge and honoring opts.Timeout.
func (p *IPProvider) CurrentPosition(ctx context.Context, opts PositionOptions) (model.Position, error) {
	p.mu.Lock()
	if p.cached != nil && opts.MaximumAge > 0 && time.Since(p.cached.Timestamp) < opts.MaximumAge {
		pos := *p.cached
		p.mu.Unlock()
		return pos, nil
	}
	p.mu.Unlock()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.lookupURL, nil)
	if err != nil {
		return model.Position{}, err
	}
	res, err := p.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return model.Position{}, errs.ErrLocationTimeout
		}
		return model.Position{}, fmt.Errorf("%w: %v", errs.ErrGeolocationUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusForbidden {
		return model.Position{}, errs.ErrPermissionDenied
	}
	if res.StatusCode != http.StatusOK {
		return model.Position{}, fmt.Errorf("%w: status %d", errs.ErrGeolocationUnavailable, res.StatusCode)
	}

	var body ipLookupResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", errs.ErrGeolocationUnavailable, err)
	}
	if body.Status != "" && body.Status != "success" {
		return model.Position{}, fmt.Errorf("%w: %s", errs.ErrGeolocationUnavailable, body.Message)
	}

	pos := model.Position{
		Latitude:  body.Lat,
		Longitude: body.Lon,
		Accuracy:  50000, // IP geolocation is city-level at best
		Timestamp: time.Now(),
	}
	p.mu.Lock()
	p.cached = &pos
	p.mu.Unlock()
	return pos, nil
}

// WatchPosition polls CurrentPosition on an interval derived from
// opts.MaximumAge and delivers each result to fn until stop is called.
func (p *IPProvider) WatchPosition(ctx context.Context, opts PositionOptions, fn func(model.Position, error)) (func(), error) {
	interval := opts.MaximumAge
	if interval <= 0 {
		interval = time.Minute
	}
	watchCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		fn(p.CurrentPosition(watchCtx, opts))
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-ticker.C:
				fn(p.CurrentPosition(watchCtx, opts))
			}
		}
	}()
	return cancel, nil
}
