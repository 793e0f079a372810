package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_DefaultTimeout(t *testing.T) {
	if got := New(0).checkTimeout; got != 5*time.Second {
		t.Errorf("default timeout = %v, want 5s", got)
	}
	if got := New(time.Second).checkTimeout; got != time.Second {
		t.Errorf("timeout = %v, want 1s", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{
			name: "no checks",
			want: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"store":     func(ctx context.Context) error { return nil },
				"retention": func(ctx context.Context) error { return nil },
			},
			want: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"store":     func(ctx context.Context) error { return nil },
				"retention": func(ctx context.Context) error { return errors.New("purge failed") },
			},
			want: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != "health check timeout" {
		t.Errorf("slow check result = %+v, want timeout", result)
	}
}

func TestListChecks_Sorted(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("retention", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })

	got := checker.ListChecks()
	if len(got) != 2 || got[0] != "retention" || got[1] != "store" {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	healthy := true
	checker.RegisterCheck("retention", func(ctx context.Context) error {
		if !healthy {
			return errors.New("purge failed")
		}
		return nil
	})

	mux := http.NewServeMux()
	Register(mux, checker)

	tests := []struct {
		name     string
		method   string
		path     string
		healthy  bool
		wantCode int
	}{
		{"liveness", http.MethodGet, LivenessPath, false, http.StatusOK},
		{"ready", http.MethodGet, ReadinessPath, true, http.StatusOK},
		{"not ready", http.MethodGet, ReadinessPath, false, http.StatusServiceUnavailable},
		{"head", http.MethodHead, ReadinessPath, true, http.StatusOK},
		{"post rejected", http.MethodPost, LivenessPath, true, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy = tt.healthy
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Error("HEAD response has a body")
			}
			if tt.method == http.MethodGet {
				var status HealthStatus
				if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
					t.Fatalf("invalid JSON body: %v", err)
				}
			}
		})
	}
}
