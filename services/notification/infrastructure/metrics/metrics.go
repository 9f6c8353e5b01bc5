// Package metrics holds the Prometheus instruments of the notification module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Created      *prometheus.CounterVec
	Duplicates   prometheus.Counter
	PushFailures prometheus.Counter
}

// New registers the notification metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications stored by kind",
		}, []string{"kind"}),
		Duplicates: f.NewCounter(prometheus.CounterOpts{
			Name: "notifications_duplicate_total",
			Help: "Notifications skipped because the event was already delivered",
		}),
		PushFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "notifications_push_failures_total",
			Help: "Live pushes that failed after the notification was stored",
		}),
	}
}

func (m *Metrics) IncrementCreated(kind string) { m.Created.WithLabelValues(kind).Inc() }
func (m *Metrics) IncrementDuplicate()          { m.Duplicates.Inc() }
func (m *Metrics) IncrementPushFailure()        { m.PushFailures.Inc() }
