package metrics

import (
	"mercator-hq/tvprovider/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks record store maintenance.
type StoreMetrics struct {
	checkpointsTotal *prometheus.CounterVec
}

// NewStoreMetrics creates and registers store metrics with the provided registry.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		checkpointsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "store_checkpoints_total",
				Help:      "Total number of WAL checkpoints by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(sm.checkpointsTotal)

	return sm
}

// RecordCheckpoint records a checkpoint attempt.
func (sm *StoreMetrics) RecordCheckpoint(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	sm.checkpointsTotal.WithLabelValues(result).Inc()
}
