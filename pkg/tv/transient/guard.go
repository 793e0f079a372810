package transient

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/tvprovider/pkg/sysclock"
	"mercator-hq/tvprovider/pkg/telemetry/tracing"
	"mercator-hq/tvprovider/pkg/tv"
)

const instrumentationName = "mercator-hq/tvprovider/pkg/tv/transient"

// Guard runs the transient row purge at most once per instance.
// It is safe for concurrent use.
type Guard struct {
	store     Store
	watermark Watermark
	clock     Clock
	observer  Observer
	logger    *slog.Logger
	tracer    trace.Tracer

	// mu is held for the whole check so concurrent callers wait for the
	// first one to finish before returning. Checked and Status read the
	// atomics below and never take mu.
	mu      sync.Mutex
	checked atomic.Bool
	status  atomic.Pointer[Status]
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(g *Guard) { g.clock = c }
}

// WithObserver registers an observer notified after the check.
func WithObserver(o Observer) Option {
	return func(g *Guard) { g.observer = o }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithTracerProvider sets the provider used for purge spans. Default: noop.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Guard) { g.tracer = tp.Tracer(instrumentationName) }
}

// NewGuard creates a guard over store using watermark as the durable record
// of the last purge.
func NewGuard(store Store, watermark Watermark, opts ...Option) *Guard {
	g := &Guard{
		store:     store,
		watermark: watermark,
		clock:     sysclock.System,
		logger:    slog.Default().With("component", "tv.transient"),
		tracer:    noop.NewTracerProvider().Tracer(instrumentationName),
	}
	g.status.Store(&Status{Outcome: OutcomeUnchecked})
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EnsurePurged deletes transient programs and channels if no purge has
// completed since the host booted. Only the first call per Guard does any
// work; later calls return nil immediately, even if the first call failed.
func (g *Guard) EnsurePurged(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.checked.Load() {
		return nil
	}
	g.checked.Store(true)

	start := time.Now()
	status := Status{
		Checked:   true,
		Outcome:   OutcomeUnchecked,
		RunID:     uuid.NewString(),
		CheckedAt: g.clock.Now(),
	}
	g.publish(status)

	ctx, span := g.tracer.Start(ctx, "transient.EnsurePurged",
		trace.WithAttributes(attribute.String(tracing.AttrRunID, status.RunID)))
	defer span.End()

	logger := g.logger.With("run_id", status.RunID)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}

	err := g.run(ctx, &status, logger)
	if err != nil {
		status.Outcome = OutcomeFailed
		status.Err = err
		logger.Error("transient purge failed",
			"error", err,
			"watermark", status.Watermark,
			"boot_epoch", status.BootEpoch,
		)
	}

	span.SetAttributes(
		attribute.String(tracing.AttrOutcome, string(status.Outcome)),
		attribute.Int64(tracing.AttrWatermark, status.Watermark),
		attribute.Int64(tracing.AttrBootEpoch, status.BootEpoch),
		attribute.Int64(tracing.AttrProgramsDeleted, status.ProgramsDeleted),
		attribute.Int64(tracing.AttrChannelsDeleted, status.ChannelsDeleted),
	)
	if status.NewWatermark != 0 {
		span.SetAttributes(attribute.Int64(tracing.AttrNewWatermark, status.NewWatermark))
	}
	tracing.SetStatus(span, err)

	g.publish(status)
	if g.observer != nil {
		g.observer.ObservePurge(status, time.Since(start))
	}
	return err
}

func (g *Guard) run(ctx context.Context, status *Status, logger *slog.Logger) error {
	err := g.step(ctx, tv.StepReadWatermark, func(ctx context.Context) (err error) {
		status.Watermark, err = g.watermark.LastPurge(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = g.step(ctx, tv.StepBootEpoch, func(context.Context) (err error) {
		status.BootEpoch, err = g.bootEpoch()
		return err
	})
	if err != nil {
		return err
	}

	if !Decide(status.Watermark, status.BootEpoch) {
		status.Outcome = OutcomeSkipped
		logger.Debug("transient rows already purged for this boot",
			"watermark", status.Watermark,
			"boot_epoch", status.BootEpoch,
		)
		return nil
	}

	logger.Info("purging transient rows",
		"watermark", status.Watermark,
		"boot_epoch", status.BootEpoch,
	)

	err = g.step(ctx, tv.StepDeletePrograms, func(ctx context.Context) (err error) {
		status.ProgramsDeleted, err = g.store.DeleteTransientPrograms(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64(tracing.AttrRows, status.ProgramsDeleted))
		return err
	})
	if err != nil {
		return err
	}

	err = g.step(ctx, tv.StepDeleteChannels, func(ctx context.Context) (err error) {
		status.ChannelsDeleted, err = g.store.DeleteTransientChannels(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64(tracing.AttrRows, status.ChannelsDeleted))
		return err
	})
	if err != nil {
		return err
	}

	now := g.clock.Now().UnixMilli()
	err = g.step(ctx, tv.StepWriteWatermark, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64(tracing.AttrNewWatermark, now))
		return g.watermark.SetLastPurge(ctx, now)
	})
	if err != nil {
		return err
	}
	status.NewWatermark = now
	status.Outcome = OutcomePurged

	logger.Info("transient rows purged",
		"programs_deleted", status.ProgramsDeleted,
		"channels_deleted", status.ChannelsDeleted,
		"new_watermark", now,
	)
	return nil
}

// step runs fn inside a child span named after the step and wraps any error
// as a PurgeError for that step.
func (g *Guard) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "transient."+name,
		trace.WithAttributes(attribute.String(tracing.AttrStep, name)))
	defer span.End()

	err := fn(ctx)
	tracing.SetStatus(span, err)
	if err != nil {
		return tv.NewPurgeError(name, err)
	}
	return nil
}

func (g *Guard) publish(s Status) {
	g.status.Store(&s)
}

func (g *Guard) bootEpoch() (int64, error) {
	since, err := g.clock.SinceBoot()
	if err != nil {
		return 0, err
	}
	return sysclock.BootEpoch(g.clock.Now(), since), nil
}

// Checked reports whether the check has started. It does not wait for a
// check in progress.
func (g *Guard) Checked() bool {
	return g.checked.Load()
}

// Status returns a snapshot of the guard's state without waiting for a check
// in progress. Before the first EnsurePurged call the outcome is
// OutcomeUnchecked; while the check runs, Checked is true and the outcome is
// still OutcomeUnchecked.
func (g *Guard) Status() Status {
	return *g.status.Load()
}

// Predict computes the decision EnsurePurged would make now without deleting
// rows, writing the watermark or marking the guard checked.
func (g *Guard) Predict(ctx context.Context) (Decision, error) {
	watermark, err := g.watermark.LastPurge(ctx)
	if err != nil {
		return Decision{}, tv.NewPurgeError(tv.StepReadWatermark, err)
	}
	bootEpoch, err := g.bootEpoch()
	if err != nil {
		return Decision{}, tv.NewPurgeError(tv.StepBootEpoch, err)
	}
	return Decision{
		Watermark: watermark,
		BootEpoch: bootEpoch,
		Purge:     Decide(watermark, bootEpoch),
	}, nil
}
