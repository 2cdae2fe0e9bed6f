// Package location acquires device position fixes, reverse-geocodes them and
// computes great-circle distances.
package location

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/model"
)

// PositionOptions control one acquisition from the device.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration // cached fixes younger than this may be reused
}

// PositionProvider is the narrow geolocation device contract. Implementations
// map hardware or platform failures onto the errs device sentinels.
type PositionProvider interface {
	// CurrentPosition returns one sample, honoring opts.Timeout.
	CurrentPosition(ctx context.Context, opts PositionOptions) (model.Position, error)
	// WatchPosition delivers continuous samples to fn until stop is called.
	// Errors are delivered through fn with a zero position.
	WatchPosition(ctx context.Context, opts PositionOptions, fn func(model.Position, error)) (stop func(), err error)
}

// Options for the one-shot and the continuous fix paths.
type Config struct {
	FixTimeout   time.Duration
	FixMaxAge    time.Duration
	WatchTimeout time.Duration
	WatchMaxAge  time.Duration
}

// Service produces LocationFix values for post tagging.
type Service struct {
	provider PositionProvider
	geocoder *Geocoder
	cfg      Config
	log      *zap.Logger

	mu        sync.Mutex
	lastFix   *model.LocationFix
	stopWatch func()
}

// NewService creates a location service.
func NewService(provider PositionProvider, geocoder *Geocoder, cfg Config, log *zap.Logger) *Service {
	return &Service{provider: provider, geocoder: geocoder, cfg: cfg, log: log}
}

// GetCurrentLocation takes one high-accuracy position sample and reverse
// geocodes it. Device errors propagate; a geocode failure is swallowed and the
// fix resolves with the address-unavailable marker.
func (s *Service) GetCurrentLocation(ctx context.Context) (*model.LocationFix, error) {
	pos, err := s.provider.CurrentPosition(ctx, PositionOptions{
		HighAccuracy: true,
		Timeout:      s.cfg.FixTimeout,
		MaximumAge:   s.cfg.FixMaxAge,
	})
	if err != nil {
		return nil, err
	}
	fix := s.resolve(ctx, pos)
	s.mu.Lock()
	s.lastFix = fix
	s.mu.Unlock()
	return fix, nil
}

// StartWatching maintains a continuous low-latency fix, overwriting the last
// known fix on every sample. The service owns the watch lifetime: it runs
// until StopWatching, independent of any caller's context. Watch errors are
// logged, not propagated. Calling it while already watching restarts the
// watch.
func (s *Service) StartWatching() error {
	s.StopWatching()
	ctx, cancel := context.WithCancel(context.Background())
	stop, err := s.provider.WatchPosition(ctx, PositionOptions{
		HighAccuracy: true,
		Timeout:      s.cfg.WatchTimeout,
		MaximumAge:   s.cfg.WatchMaxAge,
	}, func(pos model.Position, err error) {
		if err != nil {
			s.log.Warn("watch position error", zap.Error(err))
			return
		}
		fix := s.resolve(ctx, pos)
		s.mu.Lock()
		s.lastFix = fix
		s.mu.Unlock()
	})
	if err != nil {
		cancel()
		return err
	}
	s.mu.Lock()
	s.stopWatch = func() {
		stop()
		cancel()
	}
	s.mu.Unlock()
	return nil
}

// StopWatching ends the continuous fix. No-op when not watching.
func (s *Service) StopWatching() {
	s.mu.Lock()
	stop := s.stopWatch
	s.stopWatch = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// LastFix returns the most recent fix, or nil.
func (s *Service) LastFix() *model.LocationFix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFix
}

// resolve attaches the reverse-geocoded address to a position sample.
func (s *Service) resolve(ctx context.Context, pos model.Position) *model.LocationFix {
	fix := &model.LocationFix{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Address:   model.AddressUnavailable,
	}
	addr, err := s.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		s.log.Warn("reverse geocode failed", zap.Error(err))
		return fix
	}
	fix.Address = addr.Address
	fix.City = addr.City
	fix.Country = addr.Country
	return fix
}
