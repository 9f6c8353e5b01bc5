// Package metrics holds the Prometheus instruments of the auction module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks bid outcomes, closures and sweep latency.
type Metrics struct {
	BidsAccepted   prometheus.Counter
	BidsRejected   *prometheus.CounterVec
	AuctionsClosed *prometheus.CounterVec
	SweepDuration  prometheus.Histogram
	PlaceBidTime   prometheus.Histogram
}

// New registers the auction metrics on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BidsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "auction_bids_accepted_total",
			Help: "Total number of accepted bids",
		}),
		BidsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_bids_rejected_total",
			Help: "Total number of rejected bids by reason",
		}, []string{"reason"}),
		AuctionsClosed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_closed_total",
			Help: "Total number of auctions closed by trigger",
		}, []string{"trigger"}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "auction_sweep_duration_seconds",
			Help:    "Duration of expiration sweeps",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		PlaceBidTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "auction_place_bid_duration_seconds",
			Help:    "Duration of PlaceBid including the auction lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementBidAccepted records an accepted bid.
func (m *Metrics) IncrementBidAccepted() {
	m.BidsAccepted.Inc()
}

// IncrementBidRejected records a rejected bid under reason.
func (m *Metrics) IncrementBidRejected(reason string) {
	m.BidsRejected.WithLabelValues(reason).Inc()
}

// AddClosed records n closures caused by trigger.
func (m *Metrics) AddClosed(trigger string, n int) {
	m.AuctionsClosed.WithLabelValues(trigger).Add(float64(n))
}

// ObserveSweep records the duration of a sweep started at start.
func (m *Metrics) ObserveSweep(start time.Time) {
	m.SweepDuration.Observe(time.Since(start).Seconds())
}

// ObservePlaceBid records the duration of a PlaceBid call started at start.
func (m *Metrics) ObservePlaceBid(start time.Time) {
	m.PlaceBidTime.Observe(time.Since(start).Seconds())
}
