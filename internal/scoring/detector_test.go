package scoring

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		history []float64
		want    EventKind
	}{
		{nil, EventNone},
		{[]float64{50}, EventNone},
		{[]float64{50, 50}, EventNone},
		{[]float64{50, 30}, EventHarshBraking},
		{[]float64{50, 70}, EventHarshAcceleration},
		{[]float64{10, 50, 70}, EventHarshAcceleration},
		{[]float64{50, 36}, EventNone},
		{[]float64{50, 60}, EventNone},
	}
	for _, tc := range cases {
		if got := Classify(th, tc.history); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.history, got, tc.want)
		}
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.HarshBrakingMps2 = -1
	if got := Classify(th, []float64{50, 45}); got != EventHarshBraking {
		t.Fatalf("expected braking with tighter threshold, got %v", got)
	}
}

func TestHarshEventsRecord(t *testing.T) {
	var h HarshEvents
	h.Record(EventHarshBraking)
	h.Record(EventHarshBraking)
	h.Record(EventHarshAcceleration)
	h.Record(EventNone)
	if h.Braking != 2 || h.Acceleration != 1 {
		t.Fatalf("unexpected counters: %+v", h)
	}
}

func TestEventAlertKind(t *testing.T) {
	if k, ok := EventHarshBraking.AlertKind(); !ok || k != AlertHarshBraking {
		t.Fatalf("unexpected alert kind for braking")
	}
	if k, ok := EventHarshAcceleration.AlertKind(); !ok || k != AlertHarshAcceleration {
		t.Fatalf("unexpected alert kind for acceleration")
	}
	if _, ok := EventNone.AlertKind(); ok {
		t.Fatalf("expected no alert for none")
	}
}
