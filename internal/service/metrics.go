package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// routeQueries counts route requests by outcome.
	routeQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_route_queries_total",
		Help: "Total route queries by outcome",
	}, []string{"outcome"})

	routeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campus_route_duration_seconds",
		Help:    "Route query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	topologyReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_topology_reloads_total",
		Help: "Total topology reloads by result",
	}, []string{"result"})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campus_graph_nodes",
		Help: "Nodes in the current routing graph",
	})

	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campus_graph_edges",
		Help: "Edges in the current routing graph",
	})

	graphSkipped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campus_graph_skipped_walkways",
		Help: "Walkways ignored because they reference unknown buildings",
	})
)

// Route outcomes.
const (
	outcomeOK              = "ok"
	outcomeSameBuilding    = "same_building"
	outcomeUnknownBuilding = "unknown_building"
	outcomeNoAnchors       = "no_anchors"
	outcomeNoPath          = "no_path"
	outcomeError           = "error"
)
