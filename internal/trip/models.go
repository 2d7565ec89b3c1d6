package trip

import (
	"time"

	"backend-safedrive/internal/scoring"
)

// TripInfo identifies the trip returned by Start.
type TripInfo struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	// AlreadyActive is set when Start was called during a running trip.
	AlreadyActive bool `json:"already_active"`
}

// Snapshot is the live view of the recorder read by the presentation layer.
type Snapshot struct {
	Seq             uint64              `json:"seq"`
	Active          bool                `json:"active"`
	TripID          string              `json:"trip_id,omitempty"`
	StartedAt       time.Time           `json:"started_at,omitempty"`
	CurrentSpeedKmh int                 `json:"current_speed_kmh"`
	DistanceKm      float64             `json:"distance_km"`
	DurationSeconds int64               `json:"duration_seconds"`
	HarshEvents     scoring.HarshEvents `json:"harsh_events"`
	Alerts          []scoring.Alert     `json:"alerts"`
}

// Summary is reported when a trip is stopped.
type Summary struct {
	TripID          string              `json:"trip_id"`
	StartedAt       time.Time           `json:"started_at"`
	EndedAt         time.Time           `json:"ended_at"`
	Score           int                 `json:"score"`
	OverallScore    int                 `json:"overall_score"`
	DistanceKm      float64             `json:"distance_km"`
	DurationSeconds int64               `json:"duration_seconds"`
	AverageSpeedKmh float64             `json:"average_speed_kmh"`
	SampleCount     int                 `json:"sample_count"`
	HarshEvents     scoring.HarshEvents `json:"harsh_events"`
}

// Scores are the persisted score values shown on the home screen.
type Scores struct {
	Overall   *int   `json:"overall_score"`
	LastDrive *int   `json:"last_drive_score"`
	Rating    string `json:"rating,omitempty"`
}

type streamMessage struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Summary  *Summary  `json:"summary,omitempty"`
}
