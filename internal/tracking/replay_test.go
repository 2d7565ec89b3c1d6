package tracking

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"backend-safedrive/internal/scoring"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadRecordingJSONLines(t *testing.T) {
	path := writeFile(t, "trip.jsonl", `# recorded on A1
{"timestamp_ms": 1000, "latitude": 44.43, "longitude": 26.10, "speed_mps": 13.9}

{"timestamp_ms": 2000, "latitude": 44.44, "longitude": 26.10, "altitude_m": 80}
`)
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].SpeedMps == nil || *samples[0].SpeedMps != 13.9 {
		t.Fatalf("expected speed on first sample")
	}
	if samples[1].SpeedMps != nil || samples[1].AltitudeM == nil {
		t.Fatalf("expected missing speed and present altitude on second sample")
	}
}

func TestLoadRecordingJSONLinesError(t *testing.T) {
	path := writeFile(t, "trip.jsonl", "{not json}\n")
	if _, err := LoadRecording(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadRecording(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLoadRecordingYAML(t *testing.T) {
	path := writeFile(t, "trip.yaml", `samples:
  - timestamp_ms: 1000
    latitude: 44.43
    longitude: 26.10
    speed_mps: 10
  - timestamp_ms: 2000
    latitude: 44.431
    longitude: 26.10
`)
	samples, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(samples) != 2 || samples[0].SpeedMps == nil || *samples[0].SpeedMps != 10 {
		t.Fatalf("unexpected samples: %+v", samples)
	}

	bad := writeFile(t, "bad.yml", "samples: [:")
	if _, err := LoadRecording(bad); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestReplaySourcePlay(t *testing.T) {
	src := NewReplaySource([]scoring.GeoSample{{TimestampMs: 1}, {TimestampMs: 2}, {TimestampMs: 3}})
	granted, _ := src.RequestPermission(context.Background())
	if !granted {
		t.Fatalf("replay should always be granted")
	}
	var got []int64
	_, _ = src.Subscribe(func(s scoring.GeoSample) { got = append(got, s.TimestampMs) })

	played, err := src.Play(context.Background(), time.Millisecond)
	if err != nil || played != 3 {
		t.Fatalf("expected 3 played, got %d err=%v", played, err)
	}
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestReplaySourcePlayCancelled(t *testing.T) {
	src := NewReplaySource([]scoring.GeoSample{{TimestampMs: 1}, {TimestampMs: 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	played, err := src.Play(ctx, 0)
	if err == nil || played != 0 {
		t.Fatalf("expected cancellation before any sample, got %d %v", played, err)
	}
}

func TestReplaySourceClockFollowsSamples(t *testing.T) {
	src := NewReplaySource([]scoring.GeoSample{{TimestampMs: 5000}, {TimestampMs: 9000}})
	if got := src.Now(); !got.Equal(time.UnixMilli(5000)) {
		t.Fatalf("clock before play = %v", got)
	}
	if _, err := src.Play(context.Background(), 0); err != nil {
		t.Fatalf("play: %v", err)
	}
	if got := src.Now(); !got.Equal(time.UnixMilli(9000)) {
		t.Fatalf("clock after play = %v", got)
	}
}
