package scoring

import (
	"fmt"
	"testing"
	"time"
)

func TestAlertFeedKeepsMostRecent(t *testing.T) {
	feed := NewAlertFeed(5)
	base := time.Unix(0, 0)
	for i := 0; i < 8; i++ {
		feed.Push(Alert{Message: fmt.Sprintf("alert-%d", i), OccurredAt: base.Add(time.Duration(i) * time.Second)})
	}
	got := feed.Snapshot()
	if len(got) != 5 {
		t.Fatalf("expected 5 alerts, got %d", len(got))
	}
	for i, a := range got {
		want := fmt.Sprintf("alert-%d", i+3)
		if a.Message != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, a.Message)
		}
	}
}

func TestAlertFeedSnapshotIsCopy(t *testing.T) {
	feed := NewAlertFeed(2)
	feed.Push(Alert{Message: "a"})
	snap := feed.Snapshot()
	snap[0].Message = "changed"
	if feed.Snapshot()[0].Message != "a" {
		t.Fatalf("snapshot should not alias feed storage")
	}
}

func TestAlertFeedDefaultsAndReset(t *testing.T) {
	feed := NewAlertFeed(0)
	for i := 0; i < 10; i++ {
		feed.Push(Alert{Message: "x"})
	}
	if feed.Len() != DefaultAlertRetention {
		t.Fatalf("expected default retention, got %d", feed.Len())
	}
	feed.Reset()
	if feed.Len() != 0 {
		t.Fatalf("expected empty feed after reset")
	}
}
