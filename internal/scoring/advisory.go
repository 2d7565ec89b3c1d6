package scoring

// Advise applies the static speed rules to one sample. There is no speed
// limit map: low altitude stands in for "urban". A sample without altitude
// is treated as being at 0 m.
func Advise(th Thresholds, s GeoSample, speedKmh float64) (AlertKind, bool) {
	altitude := 0.0
	if s.AltitudeM != nil {
		altitude = *s.AltitudeM
	}

	if speedKmh > th.UrbanSpeedKmh && altitude < th.UrbanAltitudeM {
		return AlertUrbanSpeed, true
	}
	if speedKmh > th.RuralSpeedKmh {
		return AlertRuralSpeed, true
	}
	return "", false
}
