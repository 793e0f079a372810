// Package tracing builds the OpenTelemetry tracer provider for tvprovider.
//
// Tracing is off by default. When enabled, spans are exported either as
// pretty-printed JSON on stderr (exporter "stdout") or over OTLP/gRPC to a
// collector (exporter "otlp"):
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    exporter: otlp
//	    endpoint: localhost:4317
//	    insecure: true
//
// The retention guard and the provider take a trace.TracerProvider. A purge
// check shows up as a transient.EnsurePurged span with one child per step
// (read_watermark, boot_epoch, delete_programs, delete_channels,
// write_watermark), nested under the provider operation that triggered it.
//
// The provider must be shut down before exit so that batched spans are
// flushed:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
package tracing
