package scoring

// Classify inspects the two most recent speeds (km/h) in history and reports
// whether the change between them is a harsh event.
func Classify(th Thresholds, history []float64) EventKind {
	if len(history) < 2 {
		return EventNone
	}
	prev := history[len(history)-2]
	cur := history[len(history)-1]
	accel := (cur - prev) / 3.6 // m/s² over the ~1s sample interval

	switch {
	case accel < th.HarshBrakingMps2:
		return EventHarshBraking
	case accel > th.HarshAccelerationMps2:
		return EventHarshAcceleration
	default:
		return EventNone
	}
}

// AlertKind maps a harsh event to the alert pushed for it.
func (k EventKind) AlertKind() (AlertKind, bool) {
	switch k {
	case EventHarshBraking:
		return AlertHarshBraking, true
	case EventHarshAcceleration:
		return AlertHarshAcceleration, true
	default:
		return "", false
	}
}

// Record increments the counter matching kind.
func (h *HarshEvents) Record(kind EventKind) {
	switch kind {
	case EventHarshBraking:
		h.Braking++
	case EventHarshAcceleration:
		h.Acceleration++
	}
}
