package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/tv/transient"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "tv",
	}
}

// TestCollector_NewCollector tests collector creation
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	// A second collector on its own registry must not panic.
	_ = NewCollector(testConfig(), nil)
}

// TestCollector_DefaultNamespace verifies the namespace default.
func TestCollector_DefaultNamespace(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	_ = NewCollector(cfg, nil)
	if cfg.Namespace != "tvprovider" {
		t.Errorf("Expected default namespace tvprovider, got %q", cfg.Namespace)
	}
}

// TestCollector_ObservePurge tests recording of guard outcomes
func TestCollector_ObservePurge(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	rm := collector.retentionMetrics

	collector.ObservePurge(transient.Status{
		Checked:         true,
		Outcome:         transient.OutcomePurged,
		Watermark:       1_000,
		BootEpoch:       5_000,
		NewWatermark:    9_000,
		ProgramsDeleted: 3,
		ChannelsDeleted: 1,
	}, 15*time.Millisecond)

	collector.ObservePurge(transient.Status{
		Checked:   true,
		Outcome:   transient.OutcomeSkipped,
		Watermark: 9_000,
		BootEpoch: 5_000,
	}, time.Millisecond)

	if got := testutil.ToFloat64(rm.decisionsTotal.WithLabelValues("purged")); got != 1 {
		t.Errorf("Expected 1 purged decision, got %v", got)
	}
	if got := testutil.ToFloat64(rm.decisionsTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("Expected 1 skipped decision, got %v", got)
	}
	if got := testutil.ToFloat64(rm.rowsDeleted.WithLabelValues("programs")); got != 3 {
		t.Errorf("Expected 3 programs deleted, got %v", got)
	}
	if got := testutil.ToFloat64(rm.rowsDeleted.WithLabelValues("channels")); got != 1 {
		t.Errorf("Expected 1 channel deleted, got %v", got)
	}
	if got := testutil.ToFloat64(rm.watermark); got != 9 {
		t.Errorf("Expected watermark 9s, got %v", got)
	}
	if got := testutil.ToFloat64(rm.bootEpoch); got != 5 {
		t.Errorf("Expected boot epoch 5s, got %v", got)
	}
	if got := testutil.CollectAndCount(rm.purgeDuration); got != 1 {
		t.Errorf("Expected one histogram series, got %d", got)
	}
}

// TestCollector_RecordCheckpoint tests checkpoint results
func TestCollector_RecordCheckpoint(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordCheckpoint(nil)
	collector.RecordCheckpoint(nil)
	collector.RecordCheckpoint(errors.New("database is locked"))

	sm := collector.storeMetrics
	if got := testutil.ToFloat64(sm.checkpointsTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok checkpoints, got %v", got)
	}
	if got := testutil.ToFloat64(sm.checkpointsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed checkpoint, got %v", got)
	}
}

// TestCollector_Disabled tests that nothing is recorded when disabled
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.ObservePurge(transient.Status{Outcome: transient.OutcomePurged, ProgramsDeleted: 5}, time.Second)
	collector.RecordCheckpoint(nil)
	collector.RecordBootEpoch(1_000)

	if got := testutil.CollectAndCount(collector.retentionMetrics.decisionsTotal); got != 0 {
		t.Errorf("Expected no decision series, got %d", got)
	}
	if got := testutil.ToFloat64(collector.retentionMetrics.bootEpoch); got != 0 {
		t.Errorf("Expected boot epoch unset, got %v", got)
	}
}

// TestCollector_Handler tests the exposition endpoint
func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordBootEpoch(1_700_000_000_000)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "test_tv_retention_boot_epoch_timestamp_seconds") {
		t.Errorf("Expected boot epoch metric in output, got:\n%s", body)
	}
}
