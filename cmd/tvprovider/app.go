package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/preferences"
	"mercator-hq/tvprovider/pkg/telemetry/metrics"
	"mercator-hq/tvprovider/pkg/telemetry/tracing"
	"mercator-hq/tvprovider/pkg/tv/provider"
	"mercator-hq/tvprovider/pkg/tv/storage"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

// app is everything a command needs, built from the configuration. One app
// is one process lifetime as far as the retention guard is concerned.
type app struct {
	cfg       *config.Config
	store     *storage.SQLiteStorage
	prefs     preferences.Store
	watermark *transient.PreferenceWatermark
	collector *metrics.Collector
	tracer    *tracing.Tracer
	guard     *transient.Guard
	provider  *provider.Provider
}

// appOption customizes the guard, mainly for tests.
type appOption = transient.Option

func newApp(ctx context.Context, cfg *config.Config, opts ...appOption) (*app, error) {
	store, err := storage.NewSQLiteStorage(ctx, &storage.SQLiteConfig{
		Path:         cfg.Store.Path,
		Driver:       cfg.Store.Driver,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		WALMode:      cfg.Store.WALMode,
		BusyTimeout:  cfg.Store.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	var prefs preferences.Store
	switch cfg.Preferences.Backend {
	case "sqlite":
		prefs, err = preferences.NewSQLiteStore(ctx, store.DB())
	default:
		prefs, err = preferences.NewFileStore(cfg.Preferences.Path)
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		prefs.Close()
		store.Close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	watermark := transient.NewPreferenceWatermark(prefs)

	guardOpts := append([]transient.Option{
		transient.WithObserver(collector),
		transient.WithTracerProvider(tracer.Provider()),
	}, opts...)
	guard := transient.NewGuard(store, watermark, guardOpts...)

	return &app{
		cfg:       cfg,
		store:     store,
		prefs:     prefs,
		watermark: watermark,
		collector: collector,
		tracer:    tracer,
		guard:     guard,
		provider:  provider.New(store, guard, provider.WithTracerProvider(tracer.Provider())),
	}, nil
}

// tracerShutdownTimeout bounds the span flush on Close.
const tracerShutdownTimeout = 5 * time.Second

// Close flushes pending spans and releases the preferences and the record
// store.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
	defer cancel()
	return errors.Join(a.tracer.Shutdown(ctx), a.prefs.Close(), a.store.Close())
}
