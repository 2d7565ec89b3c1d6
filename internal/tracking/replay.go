package tracking

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"backend-safedrive/internal/scoring"

	"gopkg.in/yaml.v3"
)

// recording is the YAML layout of a recorded trip.
type recording struct {
	Samples []scoring.GeoSample `yaml:"samples"`
}

// LoadRecording reads a recorded trip. Files ending in .yaml/.yml hold a
// `samples:` list; anything else is read as one JSON sample per line.
func LoadRecording(path string) ([]scoring.GeoSample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read recording: %w", err)
		}
		var rec recording
		if err := yaml.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parse yaml recording: %w", err)
		}
		return rec.Samples, nil
	default:
		return loadJSONLines(path)
	}
}

func loadJSONLines(path string) ([]scoring.GeoSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	var samples []scoring.GeoSample
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var s scoring.GeoSample
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan recording: %w", err)
	}
	return samples, nil
}

// ReplaySource plays a recorded trip through the same delivery path as a
// live device. Permission is always granted.
type ReplaySource struct {
	*DeviceSource
	samples []scoring.GeoSample

	mu    sync.Mutex
	clock time.Time
}

func NewReplaySource(samples []scoring.GeoSample) *ReplaySource {
	src := &ReplaySource{DeviceSource: NewDeviceSource(DefaultOptions()), samples: samples}
	src.SetPermission(true)
	return src
}

// Play publishes every sample in order, waiting pace between samples when
// pace is positive. It stops early when ctx is cancelled.
func (r *ReplaySource) Play(ctx context.Context, pace time.Duration) (int, error) {
	played := 0
	for i, s := range r.samples {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		if i > 0 && pace > 0 {
			select {
			case <-ctx.Done():
				return played, ctx.Err()
			case <-time.After(pace):
			}
		}
		r.mu.Lock()
		r.clock = s.RecordedAt()
		r.mu.Unlock()
		r.Publish(s)
		played++
	}
	return played, nil
}

// Now is the recording's clock: the time of the last played sample, or of the
// first sample before playback starts.
func (r *ReplaySource) Now() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clock.IsZero() && len(r.samples) > 0 {
		return r.samples[0].RecordedAt()
	}
	return r.clock
}
