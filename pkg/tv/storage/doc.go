// Package storage provides the channel and program storage backends.
//
// # Backends
//
//   - SQLite: durable on-device store used in production
//   - Memory: in-memory store for tests
//
// # SQLite Backend
//
// The SQLite backend can run on either driver:
//
//   - "sqlite": modernc.org/sqlite, pure Go (default)
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// The schema is versioned with goose migrations embedded in the binary and is
// brought up to date when the store is opened. Every connection enables
// foreign keys, so deleting a channel cascades to its programs.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(ctx, &storage.SQLiteConfig{
//	    Path:        "data/tv.db",
//	    Driver:      storage.DriverModernc,
//	    WALMode:     true,
//	    BusyTimeout: 5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	id, err := store.InsertChannel(ctx, &tv.Channel{InputID: "hdmi1", Transient: true})
//
// # Transient Deletes
//
// DeleteTransientPrograms and DeleteTransientChannels each run a single
// DELETE statement matching the transient flag. They are atomic per table and
// idempotent. The two calls are not wrapped in one transaction.
package storage
