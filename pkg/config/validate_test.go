package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(NewDefaultConfig()); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing driver", func(c *Config) { c.Store.Driver = "" }, "store.driver"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"missing path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"negative busy timeout", func(c *Config) { c.Store.BusyTimeout = -1 }, "store.busy_timeout"},
		{"zero conns", func(c *Config) { c.Store.MaxOpenConns = 0 }, "store.max_open_conns"},
		{"unknown backend", func(c *Config) { c.Preferences.Backend = "redis" }, "preferences.backend"},
		{"file backend without path", func(c *Config) { c.Preferences.Path = "" }, "preferences.path"},
		{"bad checkpoint cron", func(c *Config) { c.Maintenance.CheckpointSchedule = "* * *" }, "maintenance.checkpoint_schedule"},
		{"bad drift cron", func(c *Config) { c.Maintenance.DriftSchedule = "61 * * * *" }, "maintenance.drift_schedule"},
		{"negative tolerance", func(c *Config) { c.Maintenance.DriftTolerance = -1 }, "maintenance.drift_tolerance"},
		{"bad level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"bad listen address", func(c *Config) { c.Telemetry.Metrics.ListenAddress = "localhost" }, "telemetry.metrics.listen_address"},
		{"unknown exporter", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Exporter = "zipkin" }, "telemetry.tracing.exporter"},
		{"bad otlp endpoint", func(c *Config) {
			c.Telemetry.Tracing.Enabled = true
			c.Telemetry.Tracing.Exporter = "otlp"
			c.Telemetry.Tracing.Endpoint = "collector"
		}, "telemetry.tracing.endpoint"},
		{"unknown sampler", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio above one", func(c *Config) { c.Telemetry.Tracing.Enabled = true; c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_DisabledJobsAndMetrics(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Maintenance.CheckpointSchedule = ""
	cfg.Maintenance.DriftSchedule = ""
	cfg.Telemetry.Metrics.Enabled = false
	cfg.Telemetry.Metrics.ListenAddress = "not an address"
	cfg.Preferences.Backend = "sqlite"
	cfg.Preferences.Path = ""
	cfg.Telemetry.Tracing.Exporter = "zipkin"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "store.path", Message: "path is required"}}}
	if got := single.Error(); got != "configuration validation failed: store.path: path is required" {
		t.Errorf("unexpected single error message: %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "store.path", Message: "path is required"},
		{Field: "store.driver", Message: "driver is required"},
	}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "store.driver") {
		t.Errorf("unexpected multi error message: %q", got)
	}

	if (ValidationError{}).Error() != "configuration validation failed" {
		t.Error("unexpected empty error message")
	}
}
