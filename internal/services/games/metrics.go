package games

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SettleRuns        *prometheus.CounterVec
	SettleLatency     prometheus.Histogram
	TransfersCreated  *prometheus.CounterVec
	NotificationsSent prometheus.Counter
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		SettleRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_settle_runs_total",
				Help: "Settle attempts by outcome.",
			},
			[]string{"outcome"},
		),
		SettleLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_settle_duration_seconds",
				Help:    "Time to settle a game, including the database transaction.",
				Buckets: prometheus.DefBuckets,
			},
		),
		TransfersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_created_total",
				Help: "Stored transfers by kind.",
			},
			[]string{"kind"},
		),
		NotificationsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_notifications_total",
				Help: "Composed settlement notifications handed to the notifier.",
			},
		),
	}

	registry.MustRegister(m.SettleRuns, m.SettleLatency, m.TransfersCreated, m.NotificationsSent)

	return m
}

func (m *Metrics) ObserveSettle(outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	m.SettleRuns.WithLabelValues(outcome).Inc()
	m.SettleLatency.Observe(duration.Seconds())
}

func (m *Metrics) ObserveTransfers(kind string, count int) {
	if m == nil || count == 0 {
		return
	}

	m.TransfersCreated.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) ObserveNotifications(count int) {
	if m == nil {
		return
	}

	m.NotificationsSent.Add(float64(count))
}
