package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_events_created_total",
		Help: "Total number of events created over the HTTP API.",
	})

	EventsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_events_completed_total",
		Help: "Total number of events completed and journaled by the scheduler.",
	})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_notifications_sent_total",
		Help: "Total number of reminder messages emitted by the scheduler.",
	})

	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reminder_subscribers_connected",
		Help: "Number of currently connected real-time subscribers.",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_scheduler_tick_duration_ms",
		Help:    "Duration of one scheduler sweep in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
)
