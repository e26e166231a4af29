// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebSocketBackpressureDrops counts messages dropped because an observer's
// send buffer was full or its channel was already closed.
var WebSocketBackpressureDrops = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ripple_websocket_backpressure_drops_total",
		Help: "Messages dropped due to websocket client backpressure",
	},
	[]string{"hub", "reason"},
)

// ActiveWebSockets tracks the number of currently connected websocket observers.
var ActiveWebSockets = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "ripple_websocket_active_connections",
		Help: "Currently open websocket connections",
	},
)

// RedisErrors counts failed Redis commands by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Redis command errors",
	},
	[]string{"command"},
)

// FanoutDeliveries counts fan-out pushes by outcome.
var FanoutDeliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ripple_fanout_deliveries_total",
		Help: "New-message fan-out deliveries by outcome",
	},
	[]string{"outcome"},
)
