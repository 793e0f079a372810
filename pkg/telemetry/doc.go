// Package telemetry groups the observability packages of tvprovider.
//
//   - logging: slog process logger with a reloadable level
//   - metrics: Prometheus collector for purge decisions and maintenance jobs
//   - health: liveness and readiness checks
//   - tracing: OpenTelemetry spans for the purge check and provider operations
package telemetry
