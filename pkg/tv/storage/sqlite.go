package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo SQLite driver ("sqlite3")
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go SQLite driver ("sqlite")

	"mercator-hq/tvprovider/pkg/tv"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite" (modernc.org/sqlite)
	// or "sqlite3" (github.com/mattn/go-sqlite3).
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/tv.db",
		Driver:       DriverModernc,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements tv.Store on top of SQLite.
type SQLiteStorage struct {
	db        *sql.DB
	config    *SQLiteConfig
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewSQLiteStorage opens the database, applies pending migrations and returns
// a ready store.
func NewSQLiteStorage(ctx context.Context, config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, tv.NewStorageError("sqlite", "open", errors.New("db path cannot be empty"))
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "tv.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, tv.NewStorageError("sqlite", "open", err)
		}
	}

	dsn, err := buildDSN(config)
	if err != nil {
		return nil, tv.NewStorageError("sqlite", "open", err)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, tv.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// buildDSN encodes the connection pragmas in the form each driver expects.
// Foreign keys are enabled on every connection so that deleting a channel
// cascades to its programs.
func buildDSN(config *SQLiteConfig) (string, error) {
	busyMs := config.BusyTimeout.Milliseconds()
	q := url.Values{}

	switch config.Driver {
	case DriverModernc:
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyMs))
		if config.WALMode {
			q.Add("_pragma", "journal_mode(WAL)")
			q.Add("_pragma", "synchronous(NORMAL)")
		}
	case DriverMattn:
		q.Set("_foreign_keys", "on")
		q.Set("_busy_timeout", fmt.Sprintf("%d", busyMs))
		if config.WALMode {
			q.Set("_journal_mode", "WAL")
			q.Set("_synchronous", "NORMAL")
		}
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", config.Driver)
	}

	return "file:" + config.Path + "?" + q.Encode(), nil
}

// migrate applies the embedded goose migrations.
func (s *SQLiteStorage) migrate(ctx context.Context) error {
	fsys, err := migrationsFS()
	if err != nil {
		return tv.NewStorageError("sqlite", "migrate", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return tv.NewStorageError("sqlite", "migrate", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return tv.NewStorageError("sqlite", "migrate", err)
	}

	for _, r := range results {
		s.logger.Debug("migration applied",
			"version", r.Source.Version,
			"duration", r.Duration,
		)
	}

	return nil
}

// DB returns the underlying database handle so that other components (the
// SQLite preferences store) can share the same file.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

// Driver returns the database/sql driver name in use.
func (s *SQLiteStorage) Driver() string {
	return s.config.Driver
}

// InsertChannel stores a channel and returns its assigned ID.
func (s *SQLiteStorage) InsertChannel(ctx context.Context, ch *tv.Channel) (int64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	if ch.Type == "" {
		ch.Type = tv.TypeOther
	}
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, insertChannelSQL,
		ch.InputID,
		ch.Type,
		ch.DisplayNumber,
		ch.DisplayName,
		ch.InternalProviderID,
		boolToInt(ch.Transient),
		ch.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_channel", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_channel", err)
	}
	ch.ID = id

	return id, nil
}

// InsertProgram stores a program and returns its assigned ID. It returns an
// error wrapping tv.ErrNotFound if the channel does not exist.
func (s *SQLiteStorage) InsertProgram(ctx context.Context, p *tv.Program) (int64, error) {
	if err := validateProgram(p); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_program", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, channelExistsSQL, p.ChannelID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("channel %d: %w", p.ChannelID, tv.ErrNotFound)
	}
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_program", err)
	}

	res, err := tx.ExecContext(ctx, insertProgramSQL,
		p.ChannelID,
		p.Title,
		nullableMillis(p.StartTime),
		nullableMillis(p.EndTime),
		boolToInt(p.Transient),
	)
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_program", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_program", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, tv.NewStorageError("sqlite", "insert_program", err)
	}
	p.ID = id

	return id, nil
}

// Channels returns all channels ordered by ID.
func (s *SQLiteStorage) Channels(ctx context.Context) ([]*tv.Channel, error) {
	rows, err := s.db.QueryContext(ctx, selectChannelsSQL)
	if err != nil {
		return nil, tv.NewStorageError("sqlite", "query_channels", err)
	}
	defer rows.Close()

	channels := []*tv.Channel{}
	for rows.Next() {
		var (
			ch                                     tv.Channel
			displayNumber, displayName, internalID sql.NullString
			transient                              int
			createdAt                              int64
		)
		if err := rows.Scan(&ch.ID, &ch.InputID, &ch.Type, &displayNumber, &displayName, &internalID, &transient, &createdAt); err != nil {
			return nil, tv.NewStorageError("sqlite", "scan_channel", err)
		}
		ch.DisplayNumber = displayNumber.String
		ch.DisplayName = displayName.String
		ch.InternalProviderID = internalID.String
		ch.Transient = transient == 1
		ch.CreatedAt = time.UnixMilli(createdAt)
		channels = append(channels, &ch)
	}

	if err := rows.Err(); err != nil {
		return nil, tv.NewStorageError("sqlite", "query_channels", err)
	}

	return channels, nil
}

// Programs returns all programs ordered by ID.
func (s *SQLiteStorage) Programs(ctx context.Context) ([]*tv.Program, error) {
	rows, err := s.db.QueryContext(ctx, selectProgramsSQL)
	if err != nil {
		return nil, tv.NewStorageError("sqlite", "query_programs", err)
	}
	defer rows.Close()

	programs := []*tv.Program{}
	for rows.Next() {
		var (
			p          tv.Program
			title      sql.NullString
			start, end sql.NullInt64
			transient  int
		)
		if err := rows.Scan(&p.ID, &p.ChannelID, &title, &start, &end, &transient); err != nil {
			return nil, tv.NewStorageError("sqlite", "scan_program", err)
		}
		p.Title = title.String
		if start.Valid {
			p.StartTime = time.UnixMilli(start.Int64)
		}
		if end.Valid {
			p.EndTime = time.UnixMilli(end.Int64)
		}
		p.Transient = transient == 1
		programs = append(programs, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, tv.NewStorageError("sqlite", "query_programs", err)
	}

	return programs, nil
}

// CountChannels returns the number of channels.
func (s *SQLiteStorage) CountChannels(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countChannelsSQL).Scan(&n); err != nil {
		return 0, tv.NewStorageError("sqlite", "count_channels", err)
	}
	return n, nil
}

// CountPrograms returns the number of programs.
func (s *SQLiteStorage) CountPrograms(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countProgramsSQL).Scan(&n); err != nil {
		return 0, tv.NewStorageError("sqlite", "count_programs", err)
	}
	return n, nil
}

// DeleteTransientChannels deletes every transient channel in one statement.
// Programs of the deleted channels are removed by the foreign key cascade.
func (s *SQLiteStorage) DeleteTransientChannels(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, "delete_transient_channels", deleteTransientChannelsSQL)
}

// DeleteTransientPrograms deletes every transient program in one statement.
func (s *SQLiteStorage) DeleteTransientPrograms(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, "delete_transient_programs", deleteTransientProgramsSQL)
}

func (s *SQLiteStorage) deleteWhere(ctx context.Context, op, query string) (int64, error) {
	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, tv.NewStorageError("sqlite", op, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, tv.NewStorageError("sqlite", op, err)
	}

	return deleted, nil
}

// Checkpoint runs a passive WAL checkpoint.
func (s *SQLiteStorage) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)"); err != nil {
		return tv.NewStorageError("sqlite", "checkpoint", err)
	}
	return nil
}

// Close closes the database. Close is idempotent.
func (s *SQLiteStorage) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.config.WALMode {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		}
		closeErr = s.db.Close()
	})

	return closeErr
}

func validateChannel(ch *tv.Channel) error {
	if ch == nil {
		return fmt.Errorf("channel cannot be nil: %w", tv.ErrInvalidRecord)
	}
	if ch.InputID == "" {
		return fmt.Errorf("channel input id cannot be empty: %w", tv.ErrInvalidRecord)
	}
	return nil
}

func validateProgram(p *tv.Program) error {
	if p == nil {
		return fmt.Errorf("program cannot be nil: %w", tv.ErrInvalidRecord)
	}
	if p.ChannelID <= 0 {
		return fmt.Errorf("program channel id must be positive: %w", tv.ErrInvalidRecord)
	}
	if !p.StartTime.IsZero() && !p.EndTime.IsZero() && p.EndTime.Before(p.StartTime) {
		return fmt.Errorf("program ends before it starts: %w", tv.ErrInvalidRecord)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableMillis(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}
