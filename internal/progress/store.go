package progress

import (
	"sort"
	"sync"
	"time"

	"github.com/hyperengineering/coinrush/internal/types"
)

// Level thresholds for the coin-based progression curve. LevelFor is a
// pure step function of total coins; Level is never set independently.
const (
	levelTwoThreshold   = 1_000
	levelThreeThreshold = 10_000
	levelFourThreshold  = 50_000
	levelFiveThreshold  = 100_000
)

// DefaultDisplayName is assigned to records created on first reference.
const DefaultDisplayName = "Player"

// LevelFor maps total coins to the discrete level scale.
func LevelFor(totalCoins int64) int {
	switch {
	case totalCoins < levelTwoThreshold:
		return 1
	case totalCoins < levelThreeThreshold:
		return 2
	case totalCoins < levelFourThreshold:
		return 3
	case totalCoins < levelFiveThreshold:
		return 4
	default:
		return 5
	}
}

// Store is the authoritative in-memory mapping from user ID to progress
// record. State is volatile and resets on process restart. All access
// goes through the store mutex; per-user merges are atomic with respect
// to concurrent syncs for the same user.
type Store struct {
	mu      sync.RWMutex
	records map[string]*types.ProgressRecord
}

// NewStore creates an empty progress store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*types.ProgressRecord),
	}
}

// newRecord returns the default record assigned on first reference.
func newRecord(userID string) *types.ProgressRecord {
	return &types.ProgressRecord{
		UserID:      userID,
		DisplayName: DefaultDisplayName,
		TotalCoins:  0,
		TotalDelta:  0,
		Level:       1,
		TapPower:    1,
	}
}

// GetOrCreate returns a copy of the record for userID, lazily creating
// the default record on first reference.
func (s *Store) GetOrCreate(userID string) types.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = newRecord(userID)
		s.records[userID] = rec
	}
	return *rec
}

// Credit merges an accepted delta into the user's record under the
// store lock: the display name is overwritten only when non-empty,
// delta is added to both coin counters, the level is recomputed, and
// lastSyncAt is stamped. The updated record is returned by value.
// delta must already be validated and clamped by the caller.
func (s *Store) Credit(userID, displayName string, delta int64, at time.Time) types.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = newRecord(userID)
		s.records[userID] = rec
	}

	if displayName != "" {
		rec.DisplayName = displayName
	}
	rec.TotalCoins += delta
	rec.TotalDelta += delta
	rec.Level = LevelFor(rec.TotalCoins)
	rec.LastSyncAt = at

	return *rec
}

// Len reports the number of known users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a consistent copy of every record. The result is
// detached from the live store and safe to read without locking.
func (s *Store) Snapshot() []types.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ProgressRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out
}

// TopN returns up to n leaderboard entries ordered by total coins
// descending, ties broken by ascending user ID so equal inputs rank
// identically run-to-run. Read-only; never mutates the store.
func (s *Store) TopN(n int) []types.LeaderboardEntry {
	if n <= 0 {
		return []types.LeaderboardEntry{}
	}

	records := s.Snapshot()
	sort.Slice(records, func(i, j int) bool {
		if records[i].TotalCoins != records[j].TotalCoins {
			return records[i].TotalCoins > records[j].TotalCoins
		}
		return records[i].UserID < records[j].UserID
	})

	if len(records) > n {
		records = records[:n]
	}

	entries := make([]types.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, types.LeaderboardEntry{
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			TotalCoins:  rec.TotalCoins,
			Level:       rec.Level,
		})
	}
	return entries
}
