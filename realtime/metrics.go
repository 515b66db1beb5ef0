package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_ticks_delivered_total",
			Help: "Total number of merge ticks delivered to subscription callbacks",
		},
		[]string{"kind"},
	)

	ticksDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_ticks_dropped_total",
			Help: "Total number of change notifications dropped on a full subscription queue",
		},
		[]string{"kind"},
	)

	activeSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "realtime_active_subscriptions",
			Help: "Number of currently active subscriptions",
		},
		[]string{"kind"},
	)
)
