package metrics

import (
	"time"

	"mercator-hq/tvprovider/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RetentionMetrics tracks the transient row purge.
type RetentionMetrics struct {
	decisionsTotal *prometheus.CounterVec
	rowsDeleted    *prometheus.CounterVec
	purgeDuration  prometheus.Histogram
	watermark      prometheus.Gauge
	bootEpoch      prometheus.Gauge
}

// NewRetentionMetrics creates and registers retention metrics with the provided registry.
func NewRetentionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_decisions_total",
				Help:      "Total number of transient purge decisions by outcome",
			},
			[]string{"outcome"},
		),

		rowsDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_rows_deleted_total",
				Help:      "Total number of transient rows deleted by table",
			},
			[]string{"table"},
		),

		purgeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_purge_duration_seconds",
				Help:      "Duration of the transient purge check in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8), // 0.5ms to ~8s
			},
		),

		watermark: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_watermark_timestamp_seconds",
				Help:      "Unix time of the last completed transient purge",
			},
		),

		bootEpoch: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_boot_epoch_timestamp_seconds",
				Help:      "Unix time of the current boot as derived from the wall and boot clocks",
			},
		),
	}

	registry.MustRegister(
		rm.decisionsTotal,
		rm.rowsDeleted,
		rm.purgeDuration,
		rm.watermark,
		rm.bootEpoch,
	)

	return rm
}

// RecordDecision records one guard decision.
func (rm *RetentionMetrics) RecordDecision(outcome string, duration time.Duration) {
	rm.decisionsTotal.WithLabelValues(outcome).Inc()
	rm.purgeDuration.Observe(duration.Seconds())
}

// RecordRowsDeleted adds n to the deleted row count of table.
func (rm *RetentionMetrics) RecordRowsDeleted(table string, n int64) {
	if n <= 0 {
		return
	}
	rm.rowsDeleted.WithLabelValues(table).Add(float64(n))
}

// SetWatermark publishes the watermark in effect (milliseconds since epoch).
func (rm *RetentionMetrics) SetWatermark(millis int64) {
	rm.watermark.Set(millisToSeconds(millis))
}

// SetBootEpoch publishes the boot epoch (milliseconds since epoch).
func (rm *RetentionMetrics) SetBootEpoch(millis int64) {
	rm.bootEpoch.Set(millisToSeconds(millis))
}

func millisToSeconds(millis int64) float64 {
	return float64(millis) / 1000
}
