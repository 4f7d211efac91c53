// Package sync pulls time entries from the Toggl API into the local store.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JosephStocks/toggl-entry-annotator/internal/entry"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/metrics"
	"github.com/JosephStocks/toggl-entry-annotator/internal/toggl"
	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
)

// fullSyncConcurrency bounds parallel report spans during a backfill.
const fullSyncConcurrency = 3

// TogglClient is the slice of the Toggl API the sync service uses.
type TogglClient interface {
	SearchTimeEntries(ctx context.Context, startDate, endDate time.Time) ([]entry.TimeEntry, error)
	CurrentEntry(ctx context.Context) (*toggl.RunningEntry, error)
	RefreshProjects(ctx context.Context) error
}

// Service orchestrates entry syncs from Toggl into the store.
type Service struct {
	toggl        TogglClient
	store        entry.Store
	metrics      *metrics.Metrics
	logger       *slog.Logger
	startDate    time.Time
	lookbackDays int
	now          func() time.Time
}

// NewService wires the sync service. startDate anchors full backfills;
// lookbackDays sets how far Recent reaches back.
func NewService(client TogglClient, store entry.Store, startDate time.Time, lookbackDays int, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		toggl:        client,
		store:        store,
		metrics:      m,
		logger:       logger,
		startDate:    startDate,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// WithClock overrides the date source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Recent syncs the trailing lookback window plus tomorrow, so entries created
// in any timezone ahead of the server are still caught.
func (s *Service) Recent(ctx context.Context) (int, error) {
	today := s.today()
	start := today.AddDate(0, 0, -s.lookbackDays)
	end := today.AddDate(0, 0, 1)

	count, err := s.syncSpan(ctx, start, end)
	s.metrics.RecordSyncRun("recent", err)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeUnavailable, "recent sync failed", err)
	}
	s.metrics.AddEntriesSynced(count)

	s.logger.InfoContext(ctx, "recent sync complete",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"records", count,
	)
	return count, nil
}

// Full backfills every entry from the configured start date through today,
// chunked into spans the reports API accepts. Spans run concurrently; the
// project-name cache refreshes alongside them.
func (s *Service) Full(ctx context.Context) (int, error) {
	spans := SplitDateSpans(s.startDate, s.today())

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fullSyncConcurrency)

	g.Go(func() error {
		if err := s.toggl.RefreshProjects(gctx); err != nil {
			// An entry backfill is still useful with a stale name cache.
			s.logger.WarnContext(gctx, "project refresh failed", "error", err.Error())
		}
		return nil
	})

	for _, span := range spans {
		span := span
		g.Go(func() error {
			count, err := s.syncSpan(gctx, span.Start, span.End)
			if err != nil {
				return fmt.Errorf("span %s..%s: %w",
					span.Start.Format("2006-01-02"), span.End.Format("2006-01-02"), err)
			}
			total.Add(int64(count))
			return nil
		})
	}

	err := g.Wait()
	s.metrics.RecordSyncRun("full", err)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeUnavailable, "full sync failed", err)
	}

	count := int(total.Load())
	s.metrics.AddEntriesSynced(count)

	s.logger.InfoContext(ctx, "full sync complete",
		"spans", len(spans),
		"records", count,
	)
	return count, nil
}

// Current returns the running timer, or nil when no timer is running.
func (s *Service) Current(ctx context.Context) (*toggl.RunningEntry, error) {
	running, err := s.toggl.CurrentEntry(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "fetch current entry", err)
	}
	return running, nil
}

func (s *Service) syncSpan(ctx context.Context, start, end time.Time) (int, error) {
	entries, err := s.toggl.SearchTimeEntries(ctx, start, end)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := s.store.Upsert(ctx, e); err != nil {
			return 0, fmt.Errorf("upsert entry %d: %w", e.EntryID, err)
		}
	}
	return len(entries), nil
}

// today truncates the clock to a civil date in UTC.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
