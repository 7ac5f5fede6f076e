// Package metrics holds the process-wide Prometheus collectors, exposed
// on /metrics by the HTTP adapter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpenRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "classmeet",
		Subsystem: "sfu",
		Name:      "open_rooms",
		Help:      "Rooms currently registered.",
	})

	ConnectedPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "classmeet",
		Subsystem: "sfu",
		Name:      "connected_peers",
		Help:      "Peers currently joined to a room.",
	})

	ProducersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classmeet",
		Subsystem: "sfu",
		Name:      "producers_created_total",
		Help:      "Producers created since start.",
	})
)
