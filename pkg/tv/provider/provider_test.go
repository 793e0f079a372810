package provider

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/tvprovider/internal/testutil"
	"mercator-hq/tvprovider/pkg/preferences"
	"mercator-hq/tvprovider/pkg/telemetry/tracing"
	"mercator-hq/tvprovider/pkg/tv"
	"mercator-hq/tvprovider/pkg/tv/storage"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

var testBoot = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// newTestSQLite opens an on-disk store that survives simulated restarts.
func newTestSQLite(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	cfg := storage.DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "tv.db")

	store, err := storage.NewSQLiteStorage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestProvider_PurgeAfterReboot runs the full scenario: rows written during
// one boot, then a new process after a reboot reads through the provider.
func TestProvider_PurgeAfterReboot(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLite(t)

	prefs, err := preferences.NewSQLiteStore(ctx, store.DB())
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	watermark := transient.NewPreferenceWatermark(prefs)
	clock := testutil.NewFakeClock(testBoot, testBoot.Add(time.Hour))

	// First process of the boot: nothing to purge yet.
	first := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)))

	c1, err := first.InsertChannel(ctx, &tv.Channel{InputID: "input", DisplayName: "C1", Transient: true})
	if err != nil {
		t.Fatalf("InsertChannel failed: %v", err)
	}
	c2, err := first.InsertChannel(ctx, &tv.Channel{InputID: "input", DisplayName: "C2"})
	if err != nil {
		t.Fatalf("InsertChannel failed: %v", err)
	}
	var p4 int64
	for i, p := range []*tv.Program{
		{ChannelID: c1, Title: "P1", Transient: true},
		{ChannelID: c1, Title: "P2"},
		{ChannelID: c2, Title: "P3", Transient: true},
		{ChannelID: c2, Title: "P4"},
	} {
		id, err := first.InsertProgram(ctx, p)
		if err != nil {
			t.Fatalf("InsertProgram failed: %v", err)
		}
		if i == 3 {
			p4 = id
		}
	}

	if n, _ := first.CountChannels(ctx); n != 2 {
		t.Fatalf("Expected 2 channels before reboot, got %d", n)
	}
	if n, _ := first.CountPrograms(ctx); n != 4 {
		t.Fatalf("Expected 4 programs before reboot, got %d", n)
	}

	// A restart within the same boot keeps everything.
	clock.Advance(time.Minute)
	sameBoot := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)))
	if n, _ := sameBoot.CountPrograms(ctx); n != 4 {
		t.Errorf("Expected 4 programs after restart in same boot, got %d", n)
	}

	clock.Reboot(10*time.Minute, time.Minute)
	second := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)))

	channels, err := second.Channels(ctx)
	if err != nil {
		t.Fatalf("Channels failed: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != c2 {
		t.Errorf("Expected only C2 to remain, got %+v", channels)
	}

	programs, err := second.Programs(ctx)
	if err != nil {
		t.Fatalf("Programs failed: %v", err)
	}
	if len(programs) != 1 || programs[0].ID != p4 {
		t.Errorf("Expected only P4 to remain, got %+v", programs)
	}

	if got, _ := watermark.LastPurge(ctx); got != clock.Now().UnixMilli() {
		t.Errorf("Expected watermark %d, got %d", clock.Now().UnixMilli(), got)
	}
	if status := second.Guard().Status(); status.Outcome != transient.OutcomePurged {
		t.Errorf("Expected purged outcome, got %s", status.Outcome)
	}
}

// TestProvider_GuardRunsBeforeEveryOperation verifies each entry point
// triggers the guard before touching the store.
func TestProvider_GuardRunsBeforeEveryOperation(t *testing.T) {
	ops := map[string]func(ctx context.Context, p *Provider) error{
		"InsertChannel": func(ctx context.Context, p *Provider) error {
			_, err := p.InsertChannel(ctx, &tv.Channel{InputID: "in"})
			return err
		},
		"InsertProgram": func(ctx context.Context, p *Provider) error {
			_, err := p.InsertProgram(ctx, &tv.Program{ChannelID: 1})
			return err
		},
		"Channels": func(ctx context.Context, p *Provider) error {
			_, err := p.Channels(ctx)
			return err
		},
		"Programs": func(ctx context.Context, p *Provider) error {
			_, err := p.Programs(ctx)
			return err
		},
		"CountChannels": func(ctx context.Context, p *Provider) error {
			_, err := p.CountChannels(ctx)
			return err
		},
		"CountPrograms": func(ctx context.Context, p *Provider) error {
			_, err := p.CountPrograms(ctx)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := testutil.NewRecordingStore(storage.NewMemoryStorage())
			watermark := testutil.NewWatermark(0)
			clock := testutil.NewFakeClock(testBoot, testBoot.Add(time.Hour))
			p := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)))

			_ = op(ctx, p)

			if !p.Guard().Checked() {
				t.Error("Expected guard to have run")
			}
			if progs, chans := store.DeleteCalls(); progs != 1 || chans != 1 {
				t.Errorf("Expected one purge, got %d/%d delete calls", progs, chans)
			}
		})
	}
}

// TestProvider_GuardErrorAborts verifies a failing purge is surfaced and the
// store is not touched by that call.
func TestProvider_GuardErrorAborts(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewRecordingStore(storage.NewMemoryStorage())
	watermark := testutil.NewWatermark(0)
	watermark.FailReads(errors.New("prefs unavailable"))
	clock := testutil.NewFakeClock(testBoot, testBoot.Add(time.Hour))
	p := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)))

	_, err := p.InsertChannel(ctx, &tv.Channel{InputID: "in"})
	var purgeErr *tv.PurgeError
	if !errors.As(err, &purgeErr) || purgeErr.Step != tv.StepReadWatermark {
		t.Fatalf("Expected read_watermark PurgeError, got %v", err)
	}
	if n, _ := store.CountChannels(ctx); n != 0 {
		t.Errorf("Expected insert to be aborted, found %d channels", n)
	}

	// Later calls proceed without retrying the purge.
	if _, err := p.InsertChannel(ctx, &tv.Channel{InputID: "in"}); err != nil {
		t.Fatalf("Expected second insert to succeed, got %v", err)
	}
	if watermark.Reads() != 1 {
		t.Errorf("Expected a single watermark read, got %d", watermark.Reads())
	}
}

// TestProvider_Tracing verifies each operation opens a span and the purge
// span nests under the first one.
func TestProvider_Tracing(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(ctx)

	store := storage.NewMemoryStorage()
	clock := testutil.NewFakeClock(testBoot, testBoot.Add(time.Hour))
	guard := transient.NewGuard(store, testutil.NewWatermark(0),
		transient.WithClock(clock), transient.WithTracerProvider(tp))
	p := New(store, guard, WithTracerProvider(tp))

	if _, err := p.InsertChannel(ctx, &tv.Channel{InputID: "in", Transient: true}); err != nil {
		t.Fatalf("InsertChannel failed: %v", err)
	}
	if _, err := p.Channels(ctx); err != nil {
		t.Fatalf("Channels failed: %v", err)
	}

	spans := make(map[string]sdktrace.ReadOnlySpan)
	for _, span := range sr.Ended() {
		spans[span.Name()] = span
	}

	insert, ok := spans["provider.InsertChannel"]
	if !ok {
		t.Fatal("missing provider.InsertChannel span")
	}
	purge, ok := spans["transient.EnsurePurged"]
	if !ok {
		t.Fatal("missing transient.EnsurePurged span")
	}
	if purge.Parent().SpanID() != insert.SpanContext().SpanID() {
		t.Error("purge span should be a child of the first operation span")
	}
	if purge.SpanContext().TraceID() != insert.SpanContext().TraceID() {
		t.Error("purge span should share the operation trace")
	}

	list, ok := spans["provider.Channels"]
	if !ok {
		t.Fatal("missing provider.Channels span")
	}
	attrs := make(map[string]int64)
	for _, kv := range list.Attributes() {
		if kv.Value.Type() == attribute.INT64 {
			attrs[string(kv.Key)] = kv.Value.AsInt64()
		}
	}
	if attrs[tracing.AttrRows] != 1 {
		t.Errorf("Channels rows = %d, want 1", attrs[tracing.AttrRows])
	}
	if list.Status().Code != codes.Ok {
		t.Errorf("Channels status = %v, want Ok", list.Status().Code)
	}

	// The purge runs once, so only the first operation has a purge child.
	purges := 0
	for _, span := range sr.Ended() {
		if span.Name() == "transient.EnsurePurged" {
			purges++
		}
	}
	if purges != 1 {
		t.Errorf("Expected one purge span, got %d", purges)
	}
}

func TestProvider_TracesGuardError(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(ctx)

	store := storage.NewMemoryStorage()
	watermark := testutil.NewWatermark(0)
	watermark.FailReads(errors.New("prefs unavailable"))
	clock := testutil.NewFakeClock(testBoot, testBoot.Add(time.Hour))
	p := New(store, transient.NewGuard(store, watermark, transient.WithClock(clock)), WithTracerProvider(tp))

	if _, err := p.CountPrograms(ctx); err == nil {
		t.Fatal("Expected guard error")
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "provider.CountPrograms" {
		t.Fatalf("Expected only the operation span, got %d spans", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
}
