package metrics

import (
	"time"

	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/tv"
	"mercator-hq/tvprovider/pkg/tv/transient"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every metric of the process.
// It implements transient.Observer.
//
// When metrics are disabled in the config every Record method is a no-op.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	retentionMetrics *RetentionMetrics
	storeMetrics     *StoreMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "tvprovider",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "tvprovider"
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		retentionMetrics: NewRetentionMetrics(cfg, registry),
		storeMetrics:     NewStoreMetrics(cfg, registry),
	}
}

// ObservePurge records the outcome of a guard check.
func (c *Collector) ObservePurge(status transient.Status, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.retentionMetrics.RecordDecision(string(status.Outcome), duration)
	c.retentionMetrics.RecordRowsDeleted(tv.TablePrograms, status.ProgramsDeleted)
	c.retentionMetrics.RecordRowsDeleted(tv.TableChannels, status.ChannelsDeleted)

	if status.BootEpoch != 0 {
		c.retentionMetrics.SetBootEpoch(status.BootEpoch)
	}
	switch {
	case status.NewWatermark != 0:
		c.retentionMetrics.SetWatermark(status.NewWatermark)
	case status.Watermark != 0:
		c.retentionMetrics.SetWatermark(status.Watermark)
	}
}

// RecordBootEpoch publishes a boot epoch sample (milliseconds since epoch).
func (c *Collector) RecordBootEpoch(millis int64) {
	if !c.config.Enabled {
		return
	}

	c.retentionMetrics.SetBootEpoch(millis)
}

// RecordCheckpoint records a WAL checkpoint attempt.
func (c *Collector) RecordCheckpoint(err error) {
	if !c.config.Enabled {
		return
	}

	c.storeMetrics.RecordCheckpoint(err)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
