package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/api"
	"github.com/mirasocial/mira-client/internal/appstate"
	"github.com/mirasocial/mira-client/internal/config"
	"github.com/mirasocial/mira-client/internal/handler"
	"github.com/mirasocial/mira-client/internal/location"
	"github.com/mirasocial/mira-client/internal/media"
	"github.com/mirasocial/mira-client/internal/model"
	"github.com/mirasocial/mira-client/internal/notification"
	"github.com/mirasocial/mira-client/internal/post"
	"github.com/mirasocial/mira-client/internal/router"
	"github.com/mirasocial/mira-client/internal/socket"
	"github.com/mirasocial/mira-client/internal/storage"
	"github.com/mirasocial/mira-client/internal/stream"
)

// App is the client companion daemon: it owns the session, the signaling
// socket and the domain managers, and serves the local control API.
type App struct {
	cfg     *config.Config
	srv     *http.Server
	logger  *zap.Logger
	state   *appstate.State
	sock    *socket.Client
	streams *stream.Manager
	locSvc  *location.Service
	notifs  *notification.Manager
}

// NewApp wires the application: config, store, app state, API client, socket
// and the managers behind the control API.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}

	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	state, err := appstate.New(store)
	if err != nil {
		return nil, fmt.Errorf("app state: %w", err)
	}

	apiClient := api.New(cfg.APIBaseURL, state, logger)
	sock := socket.New(logger)
	apiClient.OnForcedLogout(func() {
		// Session is gone; the realtime channel dies with it.
		_ = sock.Close()
	})

	processor := media.NewProcessor(cfg.MaxFileSize, cfg.MaxImageSide, cfg.JPEGQuality, logger)
	posts := post.NewManager(processor, apiClient, logger)

	locSvc := location.NewService(
		location.NewIPProvider(""),
		location.NewGeocoder(cfg.GeocodeBaseURL),
		location.Config{
			FixTimeout:   cfg.FixTimeout,
			FixMaxAge:    cfg.FixMaxAge,
			WatchTimeout: cfg.WatchTimeout,
			WatchMaxAge:  cfg.WatchMaxAge,
		},
		logger,
	)

	notifMgr := notification.NewManager(apiClient, notification.NewLogNotifier(logger), logger)
	streamMgr := stream.NewManager(apiClient, stream.SampleDevice{}, sock, &stream.CollectorSink{}, cfg.STUNServers, logger)

	sock.OnSignal(streamMgr.HandleSignal)
	sock.OnNotification(notifMgr.HandleRealtime)

	connectSocket := func(sess *model.Session) {
		if err := sock.Connect(context.Background(), cfg.SocketURL, sess.AuthToken); err != nil {
			logger.Warn("socket connect failed", zap.Error(err))
		}
	}

	r := router.New(
		handler.NewAuthHandler(apiClient, state, connectSocket),
		handler.NewPostHandler(posts),
		handler.NewStreamHandler(streamMgr),
		handler.NewLocationHandler(locSvc),
		handler.NewNotificationHandler(notifMgr),
		handler.NewHealthHandler(),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:     cfg,
		srv:     srv,
		logger:  logger,
		state:   state,
		sock:    sock,
		streams: streamMgr,
		locSvc:  locSvc,
		notifs:  notifMgr,
	}, nil
}

// Run starts the control API and blocks until ctx is cancelled; then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.logger.Sync()

	if !a.notifs.RequestPermission() {
		a.logger.Info("desktop notification permission not granted")
	}

	// Resume the realtime channel when a persisted session survives restart.
	if sess := a.state.Session(); sess != nil {
		if err := a.sock.Connect(ctx, a.cfg.SocketURL, sess.AuthToken); err != nil {
			a.logger.Warn("socket connect failed", zap.Error(err))
		}
	}

	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("control API listening on %s", a.srv.Addr)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Session:       %s/session", base)
	log.Printf("  Posts:         %s/posts", base)
	log.Printf("  Stream:        %s/stream", base)
	log.Printf("  Notifications: %s/notifications", base)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.streams.StopStream(stopCtx); err != nil {
		a.logger.Warn("stop stream on shutdown", zap.Error(err))
	}
	a.locSvc.StopWatching()
	_ = a.sock.Close()

	if err := a.srv.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
