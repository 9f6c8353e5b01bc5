package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAcked  = "acked"
	outcomeFailed = "failed"
)

// Metrics counts handler outcomes per topic. A nil *Metrics records nothing.
type Metrics struct {
	handled  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the event delivery metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		handled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Messages processed per topic, by outcome after retries.",
		}, []string{"topic", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "events_handler_duration_seconds",
			Help:    "Time spent handling one message, retries included.",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15},
		}, []string{"topic"}),
	}
}

func (m *Metrics) observe(topic, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.handled.WithLabelValues(topic, outcome).Inc()
	m.duration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
}
