package config

import "time"

// Config is the root configuration structure for tvprovider.
type Config struct {
	// Store configures the channel and program record store.
	Store StoreConfig `yaml:"store"`

	// Preferences configures where the purge watermark is persisted.
	Preferences PreferencesConfig `yaml:"preferences"`

	// Maintenance configures the background jobs of `tvprovider run`.
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig contains record store configuration.
type StoreConfig struct {
	// Driver selects the database/sql driver.
	// Options: "sqlite" (modernc.org/sqlite, pure Go), "sqlite3" (mattn/go-sqlite3, cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/tv.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a statement waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// MaxOpenConns is the connection pool size.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`
}

// PreferencesConfig contains preferences store configuration.
type PreferencesConfig struct {
	// Backend selects the preferences store.
	// Options: "file" (YAML document), "sqlite" (table in the record store database)
	// Default: "file"
	Backend string `yaml:"backend"`

	// Path is the preferences file path, used by the file backend.
	// Default: "data/preferences.yaml"
	Path string `yaml:"path"`
}

// MaintenanceConfig contains scheduler configuration.
type MaintenanceConfig struct {
	// CheckpointSchedule is a cron expression for WAL checkpoints.
	// Empty disables the job.
	// Default: "*/15 * * * *"
	CheckpointSchedule string `yaml:"checkpoint_schedule"`

	// DriftSchedule is a cron expression for boot epoch drift sampling.
	// Empty disables the job.
	// Default: "* * * * *"
	DriftSchedule string `yaml:"drift_schedule"`

	// DriftTolerance is how far the boot epoch may move between two samples
	// before a warning is logged.
	// Default: 2s
	DriftTolerance time.Duration `yaml:"drift_tolerance"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where `tvprovider run` serves the metrics endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "tvprovider"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Exporter selects where spans are sent.
	// Options: "stdout" (pretty JSON on stderr), "otlp" (OTLP over gRPC)
	// Default: "stdout"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector address, used by the otlp exporter.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each OTLP export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled by the ratio sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is the service.name resource attribute.
	// Default: "tvprovider"
	ServiceName string `yaml:"service_name"`
}
