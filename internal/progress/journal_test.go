package progress

import (
	"testing"
	"time"
)

func TestJournalRecordAndRecent(t *testing.T) {
	j := NewJournal(8)
	now := time.Now()

	id1 := j.Record("u1", 10, 10, now)
	id2 := j.Record("u2", 20, 20, now.Add(time.Second))
	if id1 == "" || id2 == "" || id1 == id2 {
		t.Fatalf("expected distinct non-empty sync IDs, got %q and %q", id1, id2)
	}

	recent := j.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	// Newest first
	if recent[0].SyncID != id2 || recent[1].SyncID != id1 {
		t.Errorf("expected newest-first order, got %s, %s", recent[0].SyncID, recent[1].SyncID)
	}
	if recent[0].UserID != "u2" || recent[0].Delta != 20 {
		t.Errorf("unexpected newest entry: %+v", recent[0])
	}
}

func TestJournalRingWrap(t *testing.T) {
	j := NewJournal(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		j.Record("u1", int64(i), int64(i), now.Add(time.Duration(i)*time.Second))
	}

	recent := j.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected ring to retain 3 entries, got %d", len(recent))
	}
	// Entries 4, 3, 2 survive, newest first
	for i, wantDelta := range []int64{4, 3, 2} {
		if recent[i].Delta != wantDelta {
			t.Errorf("entry %d: expected delta %d, got %d", i, wantDelta, recent[i].Delta)
		}
	}
}

func TestJournalEmpty(t *testing.T) {
	j := NewJournal(4)
	if got := j.Recent(); len(got) != 0 {
		t.Errorf("expected empty journal, got %d entries", len(got))
	}
}
