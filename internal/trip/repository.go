package trip

import (
	"context"
	"fmt"

	"backend-safedrive/internal/db"
)

const defaultHistoryLimit = 20

// Repository appends finished trips to the trip_summaries table.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trip_summaries (
			trip_id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL,
			score INT NOT NULL,
			overall_score INT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			duration_seconds BIGINT NOT NULL,
			average_speed_kmh DOUBLE PRECISION NOT NULL,
			sample_count INT NOT NULL,
			harsh_braking INT NOT NULL,
			harsh_acceleration INT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create trip_summaries: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, s Summary) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO trip_summaries (trip_id, started_at, ended_at, score, overall_score, distance_km,
		                            duration_seconds, average_speed_kmh, sample_count, harsh_braking, harsh_acceleration)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (trip_id) DO NOTHING
	`, s.TripID, s.StartedAt, s.EndedAt, s.Score, s.OverallScore, s.DistanceKm,
		s.DurationSeconds, s.AverageSpeedKmh, s.SampleCount, s.HarshEvents.Braking, s.HarshEvents.Acceleration)
	return err
}

// Recent returns the latest finished trips, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT trip_id, started_at, ended_at, score, overall_score, distance_km,
		       duration_seconds, average_speed_kmh, sample_count, harsh_braking, harsh_acceleration
		FROM trip_summaries
		ORDER BY ended_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.TripID, &s.StartedAt, &s.EndedAt, &s.Score, &s.OverallScore, &s.DistanceKm,
			&s.DurationSeconds, &s.AverageSpeedKmh, &s.SampleCount, &s.HarshEvents.Braking, &s.HarshEvents.Acceleration); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
