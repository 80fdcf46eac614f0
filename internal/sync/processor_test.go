package sync

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hyperengineering/coinrush/internal/progress"
	"github.com/hyperengineering/coinrush/internal/types"
)

// --- Fakes ---

type fakeVerifier struct {
	ok    bool
	calls int
}

func (f *fakeVerifier) Verify(payload string) bool {
	f.calls++
	return f.ok
}

type fakeLimiter struct {
	ok    bool
	calls int
}

func (f *fakeLimiter) Allow(userID string) bool {
	f.calls++
	return f.ok
}

func coins(v float64) *float64 { return &v }

func newTestProcessor(verifier *fakeVerifier, limiter *fakeLimiter) (*Processor, *progress.Store) {
	store := progress.NewStore()
	journal := progress.NewJournal(16)
	p := NewProcessor(store, journal, verifier, limiter, 50)
	return p, store
}

func TestApplyValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  types.TapRequest
	}{
		{"empty user id", types.TapRequest{UserID: "", Coins: coins(10)}},
		{"invalid user id chars", types.TapRequest{UserID: "u1!@#", Coins: coins(10)}},
		{"missing coins", types.TapRequest{UserID: "u1"}},
		{"zero coins", types.TapRequest{UserID: "u1", Coins: coins(0)}},
		{"negative coins", types.TapRequest{UserID: "u1", Coins: coins(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{ok: true}
			limiter := &fakeLimiter{ok: true}
			p, store := newTestProcessor(verifier, limiter)

			_, err := p.Apply(tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			// Rejection must short-circuit before any downstream gate or mutation
			if verifier.calls != 0 || limiter.calls != 0 {
				t.Errorf("expected no downstream calls, got verifier=%d limiter=%d", verifier.calls, limiter.calls)
			}
			if store.Len() != 0 {
				t.Errorf("expected store untouched, got %d records", store.Len())
			}
		})
	}
}

func TestApplyAuthFailure(t *testing.T) {
	verifier := &fakeVerifier{ok: false}
	limiter := &fakeLimiter{ok: true}
	p, store := newTestProcessor(verifier, limiter)

	_, err := p.Apply(types.TapRequest{UserID: "u1", Coins: coins(10), InitData: "bogus"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	// Auth runs before the limiter; a forged request must not consume
	// the user's cooldown slot.
	if limiter.calls != 0 {
		t.Errorf("expected limiter untouched after auth failure, got %d calls", limiter.calls)
	}
	if store.Len() != 0 {
		t.Errorf("expected store untouched, got %d records", store.Len())
	}
}

func TestApplyRateLimited(t *testing.T) {
	verifier := &fakeVerifier{ok: true}
	limiter := &fakeLimiter{ok: false}
	p, store := newTestProcessor(verifier, limiter)

	_, err := p.Apply(types.TapRequest{UserID: "u1", Coins: coins(10)})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected store untouched, got %d records", store.Len())
	}
}

func TestApplyClampCeiling(t *testing.T) {
	tests := []struct {
		name     string
		reported float64
		want     int64
	}{
		{"under ceiling", 30, 30},
		{"at ceiling", 50, 50},
		{"over ceiling", 9999, 50},
		{"fractional floors", 10.9, 10},
		{"fractional under one", 0.5, 0},
		{"beyond int64 range", 1e30, 50},
		{"largest float", math.MaxFloat64, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProcessor(&fakeVerifier{ok: true}, &fakeLimiter{ok: true})

			rec, err := p.Apply(types.TapRequest{UserID: "u1", Coins: coins(tt.reported)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.TotalCoins != tt.want {
				t.Errorf("reported %v: expected %d coins, got %d", tt.reported, tt.want, rec.TotalCoins)
			}
		})
	}
}

func TestApplyMerge(t *testing.T) {
	p, store := newTestProcessor(&fakeVerifier{ok: true}, &fakeLimiter{ok: true})
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.WithClock(func() time.Time { return at })

	rec, err := p.Apply(types.TapRequest{UserID: "u1", UserName: "Alice", Coins: coins(30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.TotalCoins != 30 || rec.TotalDelta != 30 {
		t.Errorf("expected 30/30 counters, got %d/%d", rec.TotalCoins, rec.TotalDelta)
	}
	if rec.DisplayName != "Alice" {
		t.Errorf("expected display name Alice, got %q", rec.DisplayName)
	}
	if rec.Level != 1 {
		t.Errorf("expected level 1, got %d", rec.Level)
	}
	if !rec.LastSyncAt.Equal(at) {
		t.Errorf("expected lastSyncAt %v, got %v", at, rec.LastSyncAt)
	}

	stored := store.GetOrCreate("u1")
	if stored.TotalCoins != 30 {
		t.Errorf("expected store to reflect merge, got %d", stored.TotalCoins)
	}
}

func TestApplyRecordsJournal(t *testing.T) {
	store := progress.NewStore()
	journal := progress.NewJournal(16)
	p := NewProcessor(store, journal, &fakeVerifier{ok: true}, &fakeLimiter{ok: true}, 50)

	if _, err := p.Apply(types.TapRequest{UserID: "u1", Coins: coins(25)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recent := journal.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(recent))
	}
	if recent[0].UserID != "u1" || recent[0].Delta != 25 || recent[0].TotalCoins != 25 {
		t.Errorf("unexpected journal entry: %+v", recent[0])
	}
}

func TestNewProcessorDefaultCeiling(t *testing.T) {
	store := progress.NewStore()
	p := NewProcessor(store, progress.NewJournal(4), &fakeVerifier{ok: true}, &fakeLimiter{ok: true}, 0)
	if p.maxDelta != DefaultMaxDeltaPerSync {
		t.Errorf("expected default ceiling %d, got %d", DefaultMaxDeltaPerSync, p.maxDelta)
	}
}
