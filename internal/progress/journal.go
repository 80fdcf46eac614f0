package progress

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hyperengineering/coinrush/internal/types"
)

// DefaultJournalSize is the ring capacity used when none is configured.
const DefaultJournalSize = 256

// Journal keeps a bounded ring of the most recent accepted syncs for
// audit visibility. Like the store it is volatile; totalDelta on the
// record remains the durable audit counter.
type Journal struct {
	mu      sync.Mutex
	entries []types.JournalEntry
	next    int
	full    bool
	entropy *rand.Rand
}

// NewJournal creates a journal holding at most capacity entries.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalSize
	}
	return &Journal{
		entries: make([]types.JournalEntry, capacity),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Record appends an accepted sync and returns its assigned sync ID.
func (j *Journal) Record(userID string, delta, totalCoins int64, at time.Time) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	syncID := ulid.MustNew(ulid.Timestamp(at), j.entropy).String()
	j.entries[j.next] = types.JournalEntry{
		SyncID:     syncID,
		UserID:     userID,
		Delta:      delta,
		TotalCoins: totalCoins,
		AppliedAt:  at,
	}
	j.next++
	if j.next == len(j.entries) {
		j.next = 0
		j.full = true
	}
	return syncID
}

// Recent returns the retained entries, newest first.
func (j *Journal) Recent() []types.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	size := j.next
	if j.full {
		size = len(j.entries)
	}

	out := make([]types.JournalEntry, 0, size)
	for i := 0; i < size; i++ {
		idx := j.next - 1 - i
		if idx < 0 {
			idx += len(j.entries)
		}
		out = append(out, j.entries[idx])
	}
	return out
}
