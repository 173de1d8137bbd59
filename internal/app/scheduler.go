package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	completionInterval = 15 * time.Minute
	pruneInterval      = 10 * time.Minute
	sessionMaxIdle     = 2 * time.Hour
)

// BookingCompleter closes bookings whose slots have all ended
type BookingCompleter interface {
	CompletePastBookings(ctx context.Context) (int64, error)
}

// SessionPruner drops dialog state of users who went quiet
type SessionPruner interface {
	PruneIdle(maxIdle time.Duration) int
}

// Scheduler runs background jobs
type Scheduler struct {
	bookings BookingCompleter
	sessions SessionPruner
	logger   *zap.Logger

	completionInterval time.Duration
	pruneInterval      time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(bookings BookingCompleter, sessions SessionPruner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookings:           bookings,
		sessions:           sessions,
		logger:             logger,
		completionInterval: completionInterval,
		pruneInterval:      pruneInterval,
		stopChan:           make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	s.wg.Add(2)
	go s.runEvery(ctx, "booking completion", s.completionInterval, s.completeBookings)
	go s.runEvery(ctx, "session pruning", s.pruneInterval, s.pruneSessions)
}

// Stop ends all jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runEvery(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	defer s.wg.Done()

	// first run right away
	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			job(ctx)
		case <-s.stopChan:
			s.logger.Info("Background task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", name))
			return
		}
	}
}

func (s *Scheduler) completeBookings(ctx context.Context) {
	n, err := s.bookings.CompletePastBookings(ctx)
	if err != nil {
		s.logger.Error("Failed to complete past bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Debug("Past bookings completed", zap.Int64("count", n))
	}
}

func (s *Scheduler) pruneSessions(context.Context) {
	if n := s.sessions.PruneIdle(sessionMaxIdle); n > 0 {
		s.logger.Debug("Idle sessions pruned", zap.Int("count", n))
	}
}
