// Package sync turns untrusted client tap reports into safe state
// mutations against the progress store.
package sync

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hyperengineering/coinrush/internal/progress"
	"github.com/hyperengineering/coinrush/internal/types"
	"github.com/hyperengineering/coinrush/internal/validation"
)

// DefaultMaxDeltaPerSync is the anti-cheat ceiling on how many coins a
// single sync may credit, independent of real elapsed time or
// client-side tap rate.
const DefaultMaxDeltaPerSync = 50

// PayloadVerifier proves a signed payload came from the trusted
// launcher. Implemented by auth.Verifier.
type PayloadVerifier interface {
	Verify(payload string) bool
}

// UserLimiter throttles per-user sync frequency. Implemented by
// ratelimit.Limiter.
type UserLimiter interface {
	Allow(userID string) bool
}

// Processor validates and merges incoming deltas. Every gate is
// fail-closed: a rejection short-circuits before any mutation, so
// partial merges cannot occur.
type Processor struct {
	store    *progress.Store
	journal  *progress.Journal
	verifier PayloadVerifier
	limiter  UserLimiter
	maxDelta int64
	now      func() time.Time
}

// NewProcessor wires the pipeline. maxDelta falls back to
// DefaultMaxDeltaPerSync when non-positive.
func NewProcessor(
	store *progress.Store,
	journal *progress.Journal,
	verifier PayloadVerifier,
	limiter UserLimiter,
	maxDelta int64,
) *Processor {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDeltaPerSync
	}
	return &Processor{
		store:    store,
		journal:  journal,
		verifier: verifier,
		limiter:  limiter,
		maxDelta: maxDelta,
		now:      time.Now,
	}
}

// WithClock overrides the time source for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Apply runs the full sync pipeline for one tap report.
func (p *Processor) Apply(req types.TapRequest) (types.ProgressRecord, error) {
	// 1. Structural validation
	var collector validation.Collector
	collector.Add(validation.ValidateUserID("userId", req.UserID))
	collector.Add(validation.ValidateDisplayName("userName", req.UserName))
	collector.Add(validation.ValidatePositive("coins", req.Coins))
	if collector.HasErrors() {
		return types.ProgressRecord{}, fmt.Errorf("%w: %s", ErrValidation, collector.Errors()[0].Field)
	}

	// 2. Launcher signature
	if !p.verifier.Verify(req.InitData) {
		return types.ProgressRecord{}, ErrUnauthorized
	}

	// 3. Per-user cooldown
	if !p.limiter.Allow(req.UserID) {
		return types.ProgressRecord{}, ErrRateLimited
	}

	// 4. Clamp the reported delta to maxDelta. The bound is applied in
	// the float domain before conversion: int64(f) is unspecified when f
	// is out of range, so a huge report must never reach the conversion.
	// Validation already guarantees the value is positive.
	var delta int64
	if *req.Coins >= float64(p.maxDelta) {
		delta = p.maxDelta
	} else {
		delta = int64(math.Floor(*req.Coins))
	}

	// 5. Merge
	now := p.now()
	rec := p.store.Credit(req.UserID, req.UserName, delta, now)
	syncID := p.journal.Record(req.UserID, delta, rec.TotalCoins, now)

	slog.Debug("sync applied",
		"component", "sync",
		"sync_id", syncID,
		"user_id", req.UserID,
		"delta", delta,
		"total_coins", rec.TotalCoins,
		"level", rec.Level,
	)

	return rec, nil
}
