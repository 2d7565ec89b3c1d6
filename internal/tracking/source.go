package tracking

import (
	"context"
	"sync"

	"backend-safedrive/internal/scoring"
)

// Handler receives samples in delivery order.
type Handler func(scoring.GeoSample)

// Subscription is the handle returned by Subscribe. Unsubscribe is
// synchronous: once it returns, no new delivery starts for the handler.
type Subscription interface {
	Unsubscribe()
}

// Source is the device location capability the trip recorder consumes.
type Source interface {
	RequestPermission(ctx context.Context) (bool, error)
	Subscribe(h Handler) (Subscription, error)
}

// Options are the location request knobs handed to the device.
type Options struct {
	Accuracy          string  `json:"accuracy"`
	TimeIntervalMs    int     `json:"time_interval_ms"`
	DistanceIntervalM float64 `json:"distance_interval_m"`
}

func DefaultOptions() Options {
	return Options{Accuracy: "high", TimeIntervalMs: 1000, DistanceIntervalM: 5}
}

// DeviceSource is fed by the device over the local gateway: the device
// reports its background-location permission and posts fixes as they arrive.
type DeviceSource struct {
	mu       sync.Mutex
	granted  bool
	nextID   uint64
	handlers map[uint64]Handler
	options  Options

	// deliverMu keeps deliveries one at a time and in order.
	deliverMu sync.Mutex
	lastTS    int64
}

func NewDeviceSource(opts Options) *DeviceSource {
	return &DeviceSource{handlers: map[uint64]Handler{}, options: opts}
}

func (d *DeviceSource) Options() Options {
	return d.options
}

func (d *DeviceSource) SetPermission(granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.granted = granted
}

func (d *DeviceSource) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.granted, nil
}

func (d *DeviceSource) Subscribe(h Handler) (Subscription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.handlers[id] = h
	return &subscription{source: d, id: id}, nil
}

func (d *DeviceSource) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handlers, id)
}

// Subscribers reports how many handlers are currently attached.
func (d *DeviceSource) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}

// Publish hands one sample to every subscriber and returns how many received
// it. A sample older than the last delivered one is dropped so subscribers
// always observe a time-ordered stream.
func (d *DeviceSource) Publish(s scoring.GeoSample) int {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	if s.TimestampMs < d.lastTS {
		return 0
	}
	d.lastTS = s.TimestampMs

	d.mu.Lock()
	targets := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		targets = append(targets, h)
	}
	d.mu.Unlock()

	for _, h := range targets {
		h(s)
	}
	return len(targets)
}

type subscription struct {
	source *DeviceSource
	once   sync.Once
	id     uint64
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.source.unsubscribe(s.id) })
}
