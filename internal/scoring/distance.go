package scoring

import (
	"math"

	"backend-safedrive/internal/shared/geo"
)

// Accumulate returns the distance in km travelled from previous to current.
// The first sample of a trip (previous == nil) only establishes the baseline.
// Fixes with unusable coordinates contribute nothing.
func Accumulate(previous *GeoSample, current GeoSample) float64 {
	if previous == nil {
		return 0
	}
	if !geo.ValidCoordinate(previous.Latitude, previous.Longitude) ||
		!geo.ValidCoordinate(current.Latitude, current.Longitude) {
		return 0
	}
	d := geo.HaversineKm(previous.Latitude, previous.Longitude, current.Latitude, current.Longitude)
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

// SpeedKmh converts the sample speed to km/h. Missing, negative or
// non-finite speeds are reported as 0.
func SpeedKmh(s GeoSample) float64 {
	if s.SpeedMps == nil {
		return 0
	}
	v := *s.SpeedMps
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v * 3.6
}
