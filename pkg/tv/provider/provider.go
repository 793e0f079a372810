// Package provider exposes the channel and program records and makes sure
// stale transient rows are gone before any of them is read or written.
package provider

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/tvprovider/pkg/telemetry/tracing"
	"mercator-hq/tvprovider/pkg/tv"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

const instrumentationName = "mercator-hq/tvprovider/pkg/tv/provider"

// Provider is the entry point for channel and program access. Every
// operation runs the retention guard first; a guard error aborts it.
type Provider struct {
	store  tv.Store
	guard  *transient.Guard
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Provider.
type Option func(*Provider)

// WithTracerProvider sets the provider used for operation spans. The guard's
// purge span nests under the span of the operation that triggered it when
// both use the same provider. Default: noop.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Provider) { p.tracer = tp.Tracer(instrumentationName) }
}

// New creates a provider over store. The guard must be built over the same
// store.
func New(store tv.Store, guard *transient.Guard, opts ...Option) *Provider {
	p := &Provider{
		store:  store,
		guard:  guard,
		logger: slog.Default().With("component", "tv.provider"),
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Guard returns the retention guard.
func (p *Provider) Guard() *transient.Guard {
	return p.guard
}

// guarded runs fn inside an operation span after the retention guard.
func guarded[T any](ctx context.Context, p *Provider, op string, fn func(ctx context.Context) (T, error), attrs ...attribute.KeyValue) (T, error) {
	ctx, span := p.tracer.Start(ctx, "provider."+op,
		trace.WithAttributes(append(attrs, attribute.String(tracing.AttrOperation, op))...))
	defer span.End()

	if err := p.guard.EnsurePurged(ctx); err != nil {
		tracing.SetStatus(span, err)
		var zero T
		return zero, err
	}

	v, err := fn(ctx)
	tracing.SetStatus(span, err)
	return v, err
}

// InsertChannel stores a channel and returns its ID.
func (p *Provider) InsertChannel(ctx context.Context, ch *tv.Channel) (int64, error) {
	return guarded(ctx, p, "InsertChannel", func(ctx context.Context) (int64, error) {
		id, err := p.store.InsertChannel(ctx, ch)
		if err != nil {
			return 0, err
		}
		p.logger.Debug("channel inserted", "id", id, "transient", ch.Transient)
		return id, nil
	}, attribute.Bool(tracing.AttrTransient, ch.Transient))
}

// InsertProgram stores a program and returns its ID.
func (p *Provider) InsertProgram(ctx context.Context, prog *tv.Program) (int64, error) {
	return guarded(ctx, p, "InsertProgram", func(ctx context.Context) (int64, error) {
		id, err := p.store.InsertProgram(ctx, prog)
		if err != nil {
			return 0, err
		}
		p.logger.Debug("program inserted", "id", id, "channel_id", prog.ChannelID, "transient", prog.Transient)
		return id, nil
	}, attribute.Bool(tracing.AttrTransient, prog.Transient))
}

// Channels returns all channels.
func (p *Provider) Channels(ctx context.Context) ([]*tv.Channel, error) {
	return guarded(ctx, p, "Channels", func(ctx context.Context) ([]*tv.Channel, error) {
		channels, err := p.store.Channels(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrRows, len(channels)))
		return channels, err
	})
}

// Programs returns all programs.
func (p *Provider) Programs(ctx context.Context) ([]*tv.Program, error) {
	return guarded(ctx, p, "Programs", func(ctx context.Context) ([]*tv.Program, error) {
		programs, err := p.store.Programs(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrRows, len(programs)))
		return programs, err
	})
}

// CountChannels returns the number of channels.
func (p *Provider) CountChannels(ctx context.Context) (int64, error) {
	return guarded(ctx, p, "CountChannels", p.store.CountChannels)
}

// CountPrograms returns the number of programs.
func (p *Provider) CountPrograms(ctx context.Context) (int64, error) {
	return guarded(ctx, p, "CountPrograms", p.store.CountPrograms)
}

// Close closes the underlying store.
func (p *Provider) Close() error {
	return p.store.Close()
}
