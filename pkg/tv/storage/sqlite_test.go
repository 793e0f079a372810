package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mercator-hq/tvprovider/pkg/tv"
)

// newTestSQLiteStorage creates a SQLite store in a temp directory.
func newTestSQLiteStorage(t *testing.T, driver string) *SQLiteStorage {
	t.Helper()

	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "tv.db")
	cfg.Driver = driver

	store, err := NewSQLiteStorage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage(%s) failed: %v", driver, err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// TestSQLiteStorage_Drivers runs the shared store checks on both drivers.
func TestSQLiteStorage_Drivers(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverMattn} {
		t.Run(driver, func(t *testing.T) {
			runStoreChecks(t, newTestSQLiteStorage(t, driver))
		})
	}
}

// TestMemoryStorage_Checks runs the shared store checks on the memory backend.
func TestMemoryStorage_Checks(t *testing.T) {
	runStoreChecks(t, NewMemoryStorage())
}

// runStoreChecks exercises the behaviour every tv.Store must share.
func runStoreChecks(t *testing.T, store tv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("InsertAndQuery", func(t *testing.T) {
		ch := &tv.Channel{InputID: "hdmi1", DisplayNumber: "1", DisplayName: "One"}
		id, err := store.InsertChannel(ctx, ch)
		if err != nil {
			t.Fatalf("InsertChannel failed: %v", err)
		}
		if id <= 0 || ch.ID != id {
			t.Fatalf("Expected positive id assigned to channel, got id=%d ch.ID=%d", id, ch.ID)
		}

		start := time.UnixMilli(1_700_000_000_000)
		p := &tv.Program{ChannelID: id, Title: "News", StartTime: start, EndTime: start.Add(time.Hour)}
		if _, err := store.InsertProgram(ctx, p); err != nil {
			t.Fatalf("InsertProgram failed: %v", err)
		}

		channels, err := store.Channels(ctx)
		if err != nil {
			t.Fatalf("Channels failed: %v", err)
		}
		if len(channels) != 1 {
			t.Fatalf("Expected 1 channel, got %d", len(channels))
		}
		if channels[0].Type != tv.TypeOther {
			t.Errorf("Expected default type %s, got %s", tv.TypeOther, channels[0].Type)
		}
		if channels[0].DisplayName != "One" {
			t.Errorf("Expected display name One, got %q", channels[0].DisplayName)
		}

		programs, err := store.Programs(ctx)
		if err != nil {
			t.Fatalf("Programs failed: %v", err)
		}
		if len(programs) != 1 {
			t.Fatalf("Expected 1 program, got %d", len(programs))
		}
		if !programs[0].StartTime.Equal(start) {
			t.Errorf("Expected start %v, got %v", start, programs[0].StartTime)
		}
	})

	t.Run("InsertProgramUnknownChannel", func(t *testing.T) {
		_, err := store.InsertProgram(ctx, &tv.Program{ChannelID: 9999})
		if !errors.Is(err, tv.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("InvalidRecords", func(t *testing.T) {
		if _, err := store.InsertChannel(ctx, &tv.Channel{}); !errors.Is(err, tv.ErrInvalidRecord) {
			t.Errorf("Expected ErrInvalidRecord for empty input id, got %v", err)
		}
		if _, err := store.InsertProgram(ctx, &tv.Program{}); !errors.Is(err, tv.ErrInvalidRecord) {
			t.Errorf("Expected ErrInvalidRecord for missing channel id, got %v", err)
		}
	})

	t.Run("DeleteTransientIsIdempotent", func(t *testing.T) {
		transientID, _ := store.InsertChannel(ctx, &tv.Channel{InputID: "tuner", Transient: true})
		_, _ = store.InsertProgram(ctx, &tv.Program{ChannelID: transientID, Transient: true})

		deleted, err := store.DeleteTransientPrograms(ctx)
		if err != nil {
			t.Fatalf("DeleteTransientPrograms failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted program, got %d", deleted)
		}

		deleted, err = store.DeleteTransientPrograms(ctx)
		if err != nil {
			t.Fatalf("second DeleteTransientPrograms failed: %v", err)
		}
		if deleted != 0 {
			t.Errorf("Expected second delete to be a no-op, got %d", deleted)
		}

		deleted, err = store.DeleteTransientChannels(ctx)
		if err != nil {
			t.Fatalf("DeleteTransientChannels failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted channel, got %d", deleted)
		}
	})
}

// TestSQLiteStorage_TransientSelectivity checks that the predicate deletes only
// touch transient rows and that the channel delete cascades to its programs.
func TestSQLiteStorage_TransientSelectivity(t *testing.T) {
	stores := map[string]tv.Store{
		"sqlite":  newTestSQLiteStorage(t, DriverModernc),
		"sqlite3": newTestSQLiteStorage(t, DriverMattn),
		"memory":  NewMemoryStorage(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c1, _ := store.InsertChannel(ctx, &tv.Channel{InputID: "in", Transient: true})
			c2, _ := store.InsertChannel(ctx, &tv.Channel{InputID: "in", Transient: false})
			_, _ = store.InsertProgram(ctx, &tv.Program{ChannelID: c1, Transient: true})
			_, _ = store.InsertProgram(ctx, &tv.Program{ChannelID: c1, Transient: false})
			_, _ = store.InsertProgram(ctx, &tv.Program{ChannelID: c2, Transient: true})
			p4, _ := store.InsertProgram(ctx, &tv.Program{ChannelID: c2, Transient: false})

			programs, err := store.DeleteTransientPrograms(ctx)
			if err != nil {
				t.Fatalf("DeleteTransientPrograms failed: %v", err)
			}
			if programs != 2 {
				t.Errorf("Expected 2 transient programs deleted, got %d", programs)
			}

			// The permanent program in c1 is still there until its channel goes.
			if n, _ := store.CountPrograms(ctx); n != 2 {
				t.Errorf("Expected 2 programs after program delete, got %d", n)
			}

			channels, err := store.DeleteTransientChannels(ctx)
			if err != nil {
				t.Fatalf("DeleteTransientChannels failed: %v", err)
			}
			if channels != 1 {
				t.Errorf("Expected 1 transient channel deleted, got %d", channels)
			}

			remainingChannels, _ := store.Channels(ctx)
			if len(remainingChannels) != 1 || remainingChannels[0].ID != c2 {
				t.Errorf("Expected only channel %d to remain, got %+v", c2, remainingChannels)
			}

			remainingPrograms, _ := store.Programs(ctx)
			if len(remainingPrograms) != 1 || remainingPrograms[0].ID != p4 {
				t.Errorf("Expected only program %d to remain, got %+v", p4, remainingPrograms)
			}
		})
	}
}

// TestSQLiteStorage_Reopen verifies rows and schema survive closing the store.
func TestSQLiteStorage_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tv.db")

	cfg := DefaultSQLiteConfig()
	cfg.Path = path

	store, err := NewSQLiteStorage(ctx, cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	if _, err := store.InsertChannel(ctx, &tv.Channel{InputID: "hdmi1"}); err != nil {
		t.Fatalf("InsertChannel failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := store.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	cfg2 := DefaultSQLiteConfig()
	cfg2.Path = path
	reopened, err := NewSQLiteStorage(ctx, cfg2)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.CountChannels(ctx)
	if err != nil {
		t.Fatalf("CountChannels failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 channel after reopen, got %d", n)
	}
}

// TestSQLiteStorage_Checkpoint runs a checkpoint on a WAL database.
func TestSQLiteStorage_Checkpoint(t *testing.T) {
	store := newTestSQLiteStorage(t, DriverModernc)
	if err := store.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint failed: %v", err)
	}
}

// TestNewSQLiteStorage_InvalidConfig covers configuration errors.
func TestNewSQLiteStorage_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *SQLiteConfig
	}{
		{
			name: "empty path",
			cfg:  &SQLiteConfig{Driver: DriverModernc},
		},
		{
			name: "unknown driver",
			cfg:  &SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "postgres"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLiteStorage(context.Background(), tt.cfg)
			var storageErr *tv.StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("Expected StorageError, got %v", err)
			}
			if storageErr.Operation != "open" {
				t.Errorf("Expected operation open, got %s", storageErr.Operation)
			}
		})
	}
}

// TestSQLiteStorage_ConcurrentInserts checks inserts from several goroutines.
func TestSQLiteStorage_ConcurrentInserts(t *testing.T) {
	store := newTestSQLiteStorage(t, DriverModernc)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.InsertChannel(ctx, &tv.Channel{InputID: "in", Transient: i%2 == 0}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent insert failed: %v", err)
	}

	n, _ := store.CountChannels(ctx)
	if n != 20 {
		t.Errorf("Expected 20 channels, got %d", n)
	}
}

// TestSQLiteStorage_MigrationsCreateSchema verifies every table in the
// database file is owned by the embedded migrations.
func TestSQLiteStorage_MigrationsCreateSchema(t *testing.T) {
	for _, driver := range []string{DriverModernc, DriverMattn} {
		t.Run(driver, func(t *testing.T) {
			store := newTestSQLiteStorage(t, driver)

			for _, table := range []string{"channels", "programs", "preferences"} {
				var name string
				err := store.DB().QueryRow(
					`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
				).Scan(&name)
				if err != nil {
					t.Errorf("table %s missing after migration: %v", table, err)
				}
			}
		})
	}
}
