// Package metrics exposes Prometheus metrics for the transient row purge and
// the record store maintenance jobs.
//
// # Metrics
//
// Retention (namespace and subsystem come from telemetry.metrics config):
//   - retention_decisions_total{outcome}: guard decisions by outcome
//     (skipped, purged, failed)
//   - retention_rows_deleted_total{table}: transient rows deleted per table
//   - retention_purge_duration_seconds: time spent in the once-per-process check
//   - retention_watermark_timestamp_seconds: purge watermark in effect
//   - retention_boot_epoch_timestamp_seconds: last sampled boot epoch
//
// Store:
//   - store_checkpoints_total{result}: WAL checkpoints by result (ok, error)
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	guard := transient.NewGuard(store, watermark, transient.WithObserver(collector))
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Every collector uses its own registry, so tests can create as many as they
// like without duplicate registration panics.
package metrics
