// Package metrics exposes Prometheus counters for trip recording.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry            *prometheus.Registry
	samplesTotal        prometheus.Counter
	droppedSamplesTotal prometheus.Counter
	harshEventsTotal    *prometheus.CounterVec
	alertsTotal         *prometheus.CounterVec
	tripsFinalized      prometheus.Counter
	tripScore           prometheus.Histogram
	persistenceFailures *prometheus.CounterVec
}

// New registers every collector on a private registry so several instances
// can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safedrive_samples_total",
			Help: "Location samples applied to an active trip.",
		}),
		droppedSamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safedrive_samples_dropped_total",
			Help: "Location samples received while no trip was active.",
		}),
		harshEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safedrive_harsh_events_total",
			Help: "Harsh braking and acceleration events by kind.",
		}, []string{"kind"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safedrive_alerts_total",
			Help: "Safety alerts pushed to the alert feed by kind.",
		}, []string{"kind"}),
		tripsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "safedrive_trips_finalized_total",
			Help: "Trips stopped and scored.",
		}),
		tripScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "safedrive_trip_score",
			Help:    "Distribution of final trip scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safedrive_persistence_failures_total",
			Help: "Score store reads and writes that failed.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		m.samplesTotal,
		m.droppedSamplesTotal,
		m.harshEventsTotal,
		m.alertsTotal,
		m.tripsFinalized,
		m.tripScore,
		m.persistenceFailures,
	)
	return m
}

func (m *Metrics) SampleApplied()               { m.samplesTotal.Inc() }
func (m *Metrics) SampleDropped()               { m.droppedSamplesTotal.Inc() }
func (m *Metrics) HarshEvent(kind string)       { m.harshEventsTotal.WithLabelValues(kind).Inc() }
func (m *Metrics) AlertPushed(kind string)      { m.alertsTotal.WithLabelValues(kind).Inc() }
func (m *Metrics) PersistenceFailure(op string) { m.persistenceFailures.WithLabelValues(op).Inc() }

func (m *Metrics) TripFinalized(score int) {
	m.tripsFinalized.Inc()
	m.tripScore.Observe(float64(score))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format on a fiber route.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
