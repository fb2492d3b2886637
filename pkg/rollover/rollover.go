// Package rollover runs the start-of-month housekeeping: the finished
// month's rota moves into history and the working set is cleared for the
// next planning round.
package rollover

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/planning"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

// Outcome describes what one check did
type Outcome struct {
	// Ran is false when the rollover was not due
	Ran bool `json:"ran"`
	// ArchivedID is the history id of the archived month, empty when there
	// was no schedule to archive
	ArchivedID string `json:"archived_id,omitempty"`
	CheckedOn  string `json:"checked_on"`
}

// Service checks for and performs the monthly rollover
type Service struct {
	store        storage.Store
	interval     time.Duration
	historyLimit int
	logger       *zap.Logger

	// Now is the clock, in the planning time zone
	Now func() time.Time
	// OnRollover is called after the working set changed
	OnRollover func()

	mu sync.Mutex
}

// NewService creates a rollover service
func NewService(store storage.Store, cfg config.PlanningConfig, logger *zap.Logger) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	interval := cfg.RolloverInterval
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		interval:     interval,
		historyLimit: cfg.HistoryLimit,
		logger:       logger,
		Now:          func() time.Time { return time.Now().In(loc) },
	}
}

// CheckOnce performs the rollover if it is due today. A stored schedule is
// archived under its own month; the schedule and availability are then
// cleared and today's date is recorded so the rollover runs once per day.
func (s *Service) CheckOnce(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	out := Outcome{CheckedOn: planning.DateString(now)}

	last, err := storage.LastArchiveCheck(ctx, s.store)
	if err != nil {
		return out, err
	}
	if !planning.ShouldArchive(last, now) {
		return out, nil
	}

	schedule, err := storage.LoadSchedule(ctx, s.store)
	if err != nil {
		return out, err
	}
	if !schedule.Empty() {
		history, err := storage.LoadHistory(ctx, s.store)
		if err != nil {
			return out, err
		}
		history = planning.Archive(history, schedule, now, s.historyLimit)
		if err := storage.SaveHistory(ctx, s.store, history); err != nil {
			return out, err
		}
		out.ArchivedID = history[0].ID
	}

	if err := storage.ClearWorkingSet(ctx, s.store); err != nil {
		return out, fmt.Errorf("failed to clear working set: %w", err)
	}
	if err := storage.SetLastArchiveCheck(ctx, s.store, out.CheckedOn); err != nil {
		return out, err
	}
	out.Ran = true

	s.logger.Info("monthly rollover complete",
		zap.String("date", out.CheckedOn),
		zap.String("archived", out.ArchivedID))
	if s.OnRollover != nil {
		s.OnRollover()
	}
	return out, nil
}

// Run checks immediately and then every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("starting rollover worker", zap.Duration("interval", s.interval))
	s.check(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rollover worker shutting down")
			return
		case <-timer.C:
			s.check(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Service) check(ctx context.Context) {
	if _, err := s.CheckOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("rollover check failed", zap.Error(err))
	}
}
