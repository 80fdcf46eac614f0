// Package worker hosts background loops owned by the composition root.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/coinrush/internal/progress"
)

// StatsReporter periodically logs store aggregates so operators can
// watch progress volume without a metrics stack. Read-only over the
// store; it takes snapshots and never blocks request handling.
type StatsReporter struct {
	store    *progress.Store
	interval time.Duration
}

// NewStatsReporter creates a reporter ticking at the given interval.
func NewStatsReporter(store *progress.Store, interval time.Duration) *StatsReporter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsReporter{
		store:    store,
		interval: interval,
	}
}

// Run starts the reporter loop. It blocks until ctx is cancelled.
// The first report waits a full interval; an empty store at startup
// has nothing worth logging.
func (s *StatsReporter) Run(ctx context.Context) {
	slog.Info("stats reporter started",
		"component", "worker",
		"worker", "stats-reporter",
		"interval", s.interval.String(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stats reporter stopped",
				"component", "worker",
				"worker", "stats-reporter",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			s.report()
		}
	}
}

// report logs one snapshot of the store aggregates.
func (s *StatsReporter) report() {
	records := s.store.Snapshot()

	var totalCoins int64
	var leaderID string
	var leaderCoins int64 = -1
	for _, rec := range records {
		totalCoins += rec.TotalCoins
		if rec.TotalCoins > leaderCoins || (rec.TotalCoins == leaderCoins && rec.UserID < leaderID) {
			leaderID = rec.UserID
			leaderCoins = rec.TotalCoins
		}
	}

	slog.Info("progress stats",
		"component", "worker",
		"worker", "stats-reporter",
		"users", len(records),
		"total_coins", totalCoins,
		"leader", leaderID,
	)
}
