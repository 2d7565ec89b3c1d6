package trip

import (
	"context"
	"errors"
	"testing"

	"backend-safedrive/internal/kvstore"
)

type failingStore struct {
	getErr error
	setErr error
	sets   int
}

func (s *failingStore) GetString(context.Context, string) (string, bool, error) {
	return "", false, s.getErr
}

func (s *failingStore) SetString(context.Context, string, string) error {
	s.sets++
	return s.setErr
}

type countingRecorder struct {
	noopRecorder
	failures map[string]int
}

func (r *countingRecorder) PersistenceFailure(op string) { r.failures[op]++ }

func TestScoreBookFold(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	book := NewScoreBook(store, nil)

	if got := book.Record(ctx, 75); got != 75 {
		t.Fatalf("first overall = %d, want 75", got)
	}

	_ = store.SetString(ctx, KeySafetyScore, "60")
	if got := book.Record(ctx, 80); got != 70 {
		t.Fatalf("overall = %d, want 70", got)
	}
	if v, _, _ := store.GetString(ctx, KeyLastDriveScore); v != "80" {
		t.Fatalf("last drive = %q", v)
	}
}

func TestScoreBookIgnoresMalformedOverall(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	_ = store.SetString(ctx, KeySafetyScore, "not-a-number")

	if got := NewScoreBook(store, nil).Record(ctx, 40); got != 40 {
		t.Fatalf("overall = %d, want 40", got)
	}
}

func TestScoreBookStoreFailures(t *testing.T) {
	rec := &countingRecorder{failures: map[string]int{}}
	store := &failingStore{getErr: errors.New("read"), setErr: errors.New("write")}

	got := NewScoreBook(store, rec).Record(context.Background(), 55)
	if got != 55 {
		t.Fatalf("overall = %d", got)
	}
	if store.sets != 2 {
		t.Fatalf("expected both writes attempted, got %d", store.sets)
	}
	if rec.failures["write"] != 2 || rec.failures["read"] != 1 {
		t.Fatalf("failures = %v", rec.failures)
	}
}

func TestScoreBookScores(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	book := NewScoreBook(store, nil)

	empty := book.Scores(ctx)
	if empty.Overall != nil || empty.LastDrive != nil || empty.Rating != "" {
		t.Fatalf("expected empty scores, got %+v", empty)
	}

	book.Record(ctx, 90)
	scores := book.Scores(ctx)
	if scores.Overall == nil || *scores.Overall != 90 || scores.LastDrive == nil || *scores.LastDrive != 90 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
	if scores.Rating != "Excellent driving!" {
		t.Fatalf("rating = %q", scores.Rating)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:    "0h 0m 0s",
		59:   "0h 0m 59s",
		61:   "0h 1m 1s",
		3725: "1h 2m 5s",
		-4:   "0h 0m 0s",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
