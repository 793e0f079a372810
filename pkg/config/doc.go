// Package config provides configuration management for tvprovider.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("tvprovider.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("tvprovider.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TVPROVIDER_SECTION_FIELD.
// For example:
//
//   - TVPROVIDER_STORE_PATH overrides store.path
//   - TVPROVIDER_PREFERENCES_BACKEND overrides preferences.backend
//   - TVPROVIDER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	store:
//	  driver: sqlite
//	  path: /var/lib/tvprovider/tv.db
//	  wal_mode: true
//	preferences:
//	  backend: file
//	  path: /var/lib/tvprovider/preferences.yaml
//	maintenance:
//	  checkpoint_schedule: "*/15 * * * *"
//	  drift_schedule: ""          # disabled
//	telemetry:
//	  logging:
//	    level: info
//	    format: console
//	  metrics:
//	    enabled: true
//	    listen_address: 127.0.0.1:9464
//
// # Reloading
//
// Watcher observes the configuration file and calls back after a debounce
// interval. `tvprovider run` uses it together with ReloadConfig to apply a
// new log level without restarting.
package config
