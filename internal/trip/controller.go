package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"backend-safedrive/internal/scoring"
	"backend-safedrive/internal/shared/geo"
	"backend-safedrive/internal/tracking"

	"github.com/google/uuid"
)

var ErrPermissionDenied = errors.New("background location permission denied")

// Recorder receives trip recording counters.
type Recorder interface {
	SampleApplied()
	SampleDropped()
	HarshEvent(kind string)
	AlertPushed(kind string)
	PersistenceFailure(op string)
	TripFinalized(score int)
}

// Publisher fans live snapshots out to viewers of a trip.
type Publisher interface {
	Broadcast(tripID string, payload []byte)
}

// Journal keeps a record of finished trips.
type Journal interface {
	Save(ctx context.Context, s Summary) error
}

type Options struct {
	Thresholds   scoring.Thresholds
	TickInterval time.Duration
	Now          func() time.Time
	Publisher    Publisher
	Metrics      Recorder
	Journal      Journal
}

type session struct {
	id              string
	startedAt       time.Time
	distanceKm      float64
	previous        *scoring.GeoSample
	events          scoring.HarshEvents
	speedHistory    []float64
	alerts          *scoring.AlertFeed
	currentSpeedKmh float64
	elapsed         time.Duration
}

// Controller records one trip at a time. Sample callbacks, the duration tick
// and API calls may arrive on different goroutines; every mutation of the
// active session happens under mu, and Start/Stop are serialised by
// lifecycle so permission checks and persistence never block samples.
type Controller struct {
	source tracking.Source
	scores *ScoreBook
	th     scoring.Thresholds
	tick   time.Duration
	now    func() time.Time

	publisher Publisher
	metrics   Recorder
	journal   Journal

	lifecycle sync.Mutex

	mu       sync.Mutex
	session  *session
	sub      tracking.Subscription
	seq      uint64
	stopTick chan struct{}
	tickDone chan struct{}
}

func NewController(source tracking.Source, scores *ScoreBook, opts Options) *Controller {
	if opts.Thresholds == (scoring.Thresholds{}) {
		opts.Thresholds = scoring.DefaultThresholds()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = noopRecorder{}
	}
	return &Controller{
		source:    source,
		scores:    scores,
		th:        opts.Thresholds,
		tick:      opts.TickInterval,
		now:       opts.Now,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		journal:   opts.Journal,
	}
}

// Start begins a trip. It fails with ErrPermissionDenied, leaving the
// recorder idle, when background location is not granted. Calling Start
// during a trip changes nothing and reports the running trip.
func (c *Controller) Start(ctx context.Context) (TripInfo, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if s := c.session; s != nil {
		c.mu.Unlock()
		return TripInfo{ID: s.id, StartedAt: s.startedAt, AlreadyActive: true}, nil
	}
	c.mu.Unlock()

	granted, err := c.source.RequestPermission(ctx)
	if err != nil {
		return TripInfo{}, fmt.Errorf("request location permission: %w", err)
	}
	if !granted {
		return TripInfo{}, ErrPermissionDenied
	}

	s := &session{
		id:        uuid.NewString(),
		startedAt: c.now(),
		alerts:    scoring.NewAlertFeed(c.th.AlertRetention),
	}

	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	sub, err := c.source.Subscribe(c.OnSample)
	if err != nil {
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		return TripInfo{}, fmt.Errorf("subscribe to location updates: %w", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	c.mu.Lock()
	c.sub = sub
	c.stopTick = stop
	c.tickDone = done
	c.mu.Unlock()
	go c.runTicker(stop, done)

	log.Printf("[trip] started %s", s.id)
	return TripInfo{ID: s.id, StartedAt: s.startedAt}, nil
}

// OnSample applies one location fix to the active trip. Samples that arrive
// while no trip is active, including late callbacks after Stop, are dropped.
func (c *Controller) OnSample(sample scoring.GeoSample) {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		c.metrics.SampleDropped()
		return
	}

	speed := scoring.SpeedKmh(sample)
	s.currentSpeedKmh = speed
	s.distanceKm += scoring.Accumulate(s.previous, sample)
	s.speedHistory = append(s.speedHistory, speed)

	var pushed []scoring.AlertKind
	event := scoring.Classify(c.th, s.speedHistory)
	if kind, ok := event.AlertKind(); ok {
		s.events.Record(event)
		s.alerts.Push(scoring.NewAlert(kind, c.now()))
		pushed = append(pushed, kind)
	}
	if kind, ok := scoring.Advise(c.th, sample, speed); ok {
		s.alerts.Push(scoring.NewAlert(kind, c.now()))
		pushed = append(pushed, kind)
	}

	if geo.ValidCoordinate(sample.Latitude, sample.Longitude) {
		prev := sample
		s.previous = &prev
	}

	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.SampleApplied()
	if event != scoring.EventNone {
		c.metrics.HarshEvent(event.String())
	}
	for _, kind := range pushed {
		c.metrics.AlertPushed(string(kind))
	}
	c.publish(snap.TripID, streamMessage{Type: "snapshot", Snapshot: &snap})
}

// Stop finishes the active trip: it detaches from the location source before
// anything else, scores the trip and persists the score. ok is false when no
// trip was active, in which case nothing is computed or written.
func (c *Controller) Stop(ctx context.Context) (summary Summary, ok bool) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return Summary{}, false
	}
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.session = nil
	stop, done := c.stopTick, c.tickDone
	c.stopTick, c.tickDone = nil, nil
	endedAt := c.now()
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	score := scoring.ComputeScore(s.events, s.speedHistory)
	overall := score
	if c.scores != nil {
		overall = c.scores.Record(ctx, score)
	}

	summary = Summary{
		TripID:          s.id,
		StartedAt:       s.startedAt,
		EndedAt:         endedAt,
		Score:           score,
		OverallScore:    overall,
		DistanceKm:      s.distanceKm,
		DurationSeconds: int64(endedAt.Sub(s.startedAt) / time.Second),
		AverageSpeedKmh: scoring.MeanSpeed(s.speedHistory),
		SampleCount:     len(s.speedHistory),
		HarshEvents:     s.events,
	}

	if c.journal != nil {
		if err := c.journal.Save(ctx, summary); err != nil {
			log.Printf("[trip] journal %s: %v", s.id, err)
			c.metrics.PersistenceFailure("journal")
		}
	}
	c.metrics.TripFinalized(score)
	c.publish(s.id, streamMessage{Type: "finished", Summary: &summary})

	log.Printf("[trip] stopped %s score=%d distance=%.2fkm duration=%s",
		s.id, score, summary.DistanceKm, FormatDuration(summary.DurationSeconds))
	return summary, true
}

// Snapshot returns the live view of the recorder.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

func (c *Controller) snapshotLocked() Snapshot {
	c.seq++
	s := c.session
	if s == nil {
		return Snapshot{Seq: c.seq, Alerts: []scoring.Alert{}}
	}
	return Snapshot{
		Seq:             c.seq,
		Active:          true,
		TripID:          s.id,
		StartedAt:       s.startedAt,
		CurrentSpeedKmh: int(math.Round(s.currentSpeedKmh)),
		DistanceKm:      s.distanceKm,
		DurationSeconds: int64(s.elapsed / time.Second),
		HarshEvents:     s.events,
		Alerts:          s.alerts.Snapshot(),
	}
}

func (c *Controller) runTicker(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.onTick()
		}
	}
}

func (c *Controller) onTick() {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return
	}
	s.elapsed = c.now().Sub(s.startedAt)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap.TripID, streamMessage{Type: "snapshot", Snapshot: &snap})
}

func (c *Controller) publish(tripID string, msg streamMessage) {
	if c.publisher == nil || tripID == "" {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[trip] encode %s message: %v", msg.Type, err)
		return
	}
	c.publisher.Broadcast(tripID, payload)
}

type noopRecorder struct{}

func (noopRecorder) SampleApplied()            {}
func (noopRecorder) SampleDropped()            {}
func (noopRecorder) HarshEvent(string)         {}
func (noopRecorder) AlertPushed(string)        {}
func (noopRecorder) PersistenceFailure(string) {}
func (noopRecorder) TripFinalized(int)         {}
