package trip

import (
	"context"
	"log"
	"strconv"
	"strings"

	"backend-safedrive/internal/kvstore"
	"backend-safedrive/internal/scoring"
)

const (
	KeyLastDriveScore = "lastDriveScore"
	KeySafetyScore    = "safetyScore"
)

// ScoreBook persists trip scores in the key-value store. Store failures are
// logged and never abort a trip.
type ScoreBook struct {
	store   kvstore.Store
	metrics Recorder
}

func NewScoreBook(store kvstore.Store, metrics Recorder) *ScoreBook {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &ScoreBook{store: store, metrics: metrics}
}

// Record stores score as the last drive score and folds it into the overall
// score. It returns the overall score that was (or would have been) written.
func (b *ScoreBook) Record(ctx context.Context, score int) int {
	if err := b.store.SetString(ctx, KeyLastDriveScore, strconv.Itoa(score)); err != nil {
		log.Printf("[trip] save last drive score: %v", err)
		b.metrics.PersistenceFailure("write")
	}

	prev, ok := b.read(ctx, KeySafetyScore)
	overall := scoring.FoldOverall(prev, ok, score)

	if err := b.store.SetString(ctx, KeySafetyScore, strconv.Itoa(overall)); err != nil {
		log.Printf("[trip] save safety score: %v", err)
		b.metrics.PersistenceFailure("write")
	}
	return overall
}

// Scores reads the persisted values; missing ones are left nil.
func (b *ScoreBook) Scores(ctx context.Context) Scores {
	var out Scores
	if v, ok := b.read(ctx, KeySafetyScore); ok {
		out.Overall = &v
		out.Rating = scoring.Rating(v)
	}
	if v, ok := b.read(ctx, KeyLastDriveScore); ok {
		out.LastDrive = &v
	}
	return out
}

func (b *ScoreBook) read(ctx context.Context, key string) (int, bool) {
	raw, ok, err := b.store.GetString(ctx, key)
	if err != nil {
		log.Printf("[trip] read %s: %v", key, err)
		b.metrics.PersistenceFailure("read")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[trip] ignoring malformed %s %q", key, raw)
		return 0, false
	}
	return v, true
}
