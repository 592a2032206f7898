package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wherehouse/gate/internal/gate/store"
)

// HousekeepingService periodically purges lapsed vault entries, rate
// counters, and bans. The sqlite driver only treats expired rows as absent;
// something still has to delete them.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes expired rows. Each target is independent; one failure
// doesn't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if err := s.Store.Keys().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to purge expired vault entries", "error", err)
	}
	if err := s.Store.Counters().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to purge expired rate counters", "error", err)
	}
	if err := s.Store.Bans().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to purge expired bans", "error", err)
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
