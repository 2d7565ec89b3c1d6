package scoring

import "time"

// GeoSample is one position fix reported by the device. Altitude and speed
// are optional: the location provider omits them when it has no fix.
type GeoSample struct {
	TimestampMs int64    `json:"timestamp_ms" yaml:"timestamp_ms"`
	Latitude    float64  `json:"latitude" yaml:"latitude"`
	Longitude   float64  `json:"longitude" yaml:"longitude"`
	AltitudeM   *float64 `json:"altitude_m,omitempty" yaml:"altitude_m,omitempty"`
	SpeedMps    *float64 `json:"speed_mps,omitempty" yaml:"speed_mps,omitempty"`
}

// RecordedAt converts the sample timestamp to a time.Time.
func (s GeoSample) RecordedAt() time.Time {
	return time.UnixMilli(s.TimestampMs)
}

// HarshEvents counts abrupt speed changes within a trip.
type HarshEvents struct {
	Braking      int `json:"braking"`
	Acceleration int `json:"acceleration"`
}

type EventKind int

const (
	EventNone EventKind = iota
	EventHarshBraking
	EventHarshAcceleration
)

func (k EventKind) String() string {
	switch k {
	case EventHarshBraking:
		return "harsh_braking"
	case EventHarshAcceleration:
		return "harsh_acceleration"
	default:
		return "none"
	}
}

type AlertKind string

const (
	AlertHarshBraking      AlertKind = "harsh_braking"
	AlertHarshAcceleration AlertKind = "harsh_acceleration"
	AlertUrbanSpeed        AlertKind = "urban_speed"
	AlertRuralSpeed        AlertKind = "rural_speed"
)

var alertMessages = map[AlertKind]string{
	AlertHarshBraking:      "Harsh braking detected! Keep safe distance",
	AlertHarshAcceleration: "Rapid acceleration detected! Drive smoothly",
	AlertUrbanSpeed:        "Speed limit reminder: Urban areas typically 50 km/h",
	AlertRuralSpeed:        "High speed detected! Romanian rural roads: max 90 km/h",
}

// Message returns the user-facing text shown for the alert kind.
func (k AlertKind) Message() string {
	return alertMessages[k]
}

// Alert is a single advisory entry in the trip's alert feed.
type Alert struct {
	Kind       AlertKind `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAlert builds an alert of the given kind stamped at t.
func NewAlert(kind AlertKind, t time.Time) Alert {
	return Alert{Kind: kind, Message: kind.Message(), OccurredAt: t}
}

// Thresholds groups every fixed rule constant used while scoring a trip.
type Thresholds struct {
	HarshBrakingMps2      float64
	HarshAccelerationMps2 float64
	UrbanSpeedKmh         float64
	UrbanAltitudeM        float64
	RuralSpeedKmh         float64
	AlertRetention        int
}

const DefaultAlertRetention = 5

// DefaultThresholds returns the production rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HarshBrakingMps2:      -4,
		HarshAccelerationMps2: 3,
		UrbanSpeedKmh:         50,
		UrbanAltitudeM:        100,
		RuralSpeedKmh:         90,
		AlertRetention:        DefaultAlertRetention,
	}
}
