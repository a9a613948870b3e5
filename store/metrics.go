package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// storeOpsTotal counts store operations by operation and result
	storeOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfgraph_store_operations_total",
		Help: "Total store operations by operation and result",
	}, []string{"operation", "result"})

	// storeOpDuration tracks store operation latency
	storeOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rdfgraph_store_operation_duration_seconds",
		Help:    "Store operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"operation"})

	// queryRows tracks the number of rows produced per SELECT
	queryRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rdfgraph_query_rows",
		Help:    "Rows produced per SELECT query",
		Buckets: []float64{0, 1, 10, 100, 1000, 10000},
	})

	// loadedTriples counts triples inserted by loads, per graph
	loadedTriples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdfgraph_loaded_triples_total",
		Help: "Triples inserted by file loads",
	}, []string{"graph"})

	// activeScopes is the number of entered and not yet exited graph scopes
	activeScopes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rdfgraph_active_graph_scopes",
		Help: "Graph scopes currently entered",
	})
)

// observe records one operation. Use as: defer observe("match", time.Now(), &err).
func observe(op string, start time.Time, err *error) {
	storeOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "success"
	if err != nil && *err != nil {
		result = "error"
	}
	storeOpsTotal.WithLabelValues(op, result).Inc()
}
