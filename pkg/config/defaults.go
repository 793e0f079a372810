package config

import "time"

// Default values for configuration fields.
const (
	// Store defaults
	DefaultStoreDriver       = "sqlite"
	DefaultStorePath         = "data/tv.db"
	DefaultStoreBusyTimeout  = 5 * time.Second
	DefaultStoreWALMode      = true
	DefaultStoreMaxOpenConns = 4

	// Preferences defaults
	DefaultPreferencesBackend = "file"
	DefaultPreferencesPath    = "data/preferences.yaml"

	// Maintenance defaults
	DefaultCheckpointSchedule = "*/15 * * * *"
	DefaultDriftSchedule      = "* * * * *"
	DefaultDriftTolerance     = 2 * time.Second

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "tvprovider"
	DefaultTracingExporter      = "stdout"
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingTimeout       = 10 * time.Second
	DefaultTracingSampler       = "always"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingServiceName   = "tvprovider"
)

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	seedDefaults(cfg)
	ApplyDefaults(cfg)
	return cfg
}

// seedDefaults sets the fields whose zero value is meaningful: booleans that
// default to true, schedules where "" disables the job, and the sample ratio.
// It runs before the YAML document is decoded so that an explicit false, ""
// or 0 survives.
func seedDefaults(cfg *Config) {
	cfg.Store.WALMode = DefaultStoreWALMode
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Maintenance.CheckpointSchedule = DefaultCheckpointSchedule
	cfg.Maintenance.DriftSchedule = DefaultDriftSchedule
	cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
}

// ApplyDefaults fills every zero-valued field with its default.
func ApplyDefaults(cfg *Config) {
	// Store defaults
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultStoreMaxOpenConns
	}

	// Preferences defaults
	if cfg.Preferences.Backend == "" {
		cfg.Preferences.Backend = DefaultPreferencesBackend
	}
	if cfg.Preferences.Path == "" {
		cfg.Preferences.Path = DefaultPreferencesPath
	}

	// Maintenance defaults
	if cfg.Maintenance.DriftTolerance == 0 {
		cfg.Maintenance.DriftTolerance = DefaultDriftTolerance
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}
