package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// schedulerTimeout bounds one scheduled sync run.
const schedulerTimeout = 5 * time.Minute

// Scheduler runs Recent on a cron cadence so the dashboard stays current
// without manual sync calls.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers a recent sync on the given cron spec
// (standard five-field syntax).
func NewScheduler(svc *Service, spec string, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), schedulerTimeout)
		defer cancel()

		count, err := svc.Recent(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "scheduled sync failed", "error", err.Error())
			return
		}
		logger.InfoContext(ctx, "scheduled sync complete", "records", count)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
