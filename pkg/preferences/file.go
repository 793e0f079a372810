package preferences

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of a FileStore.
type document struct {
	InstallationID string           `yaml:"installation_id"`
	UpdatedAt      time.Time        `yaml:"updated_at"`
	Values         map[string]int64 `yaml:"values"`
}

// FileStore persists preferences in a single YAML file. Every read goes to
// disk so that other processes of the same installation see the latest
// value; writes replace the file atomically.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore returns a FileStore backed by path. The parent directory is
// created if needed; the file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	return &FileStore{
		path:   path,
		logger: slog.Default().With("component", "preferences.file"),
	}, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Int64 returns the stored value or def.
func (f *FileStore) Int64(ctx context.Context, key string, def int64) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return 0, err
	}

	if v, ok := doc.Values[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetInt64 stores value under key and rewrites the file.
func (f *FileStore) SetInt64(ctx context.Context, key string, value int64) error {
	if key == "" {
		return ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	if doc.InstallationID == "" {
		doc.InstallationID = uuid.New().String()
		f.logger.Info("created installation id", "installation_id", doc.InstallationID, "path", f.path)
	}
	doc.Values[key] = value
	doc.UpdatedAt = time.Now().UTC()

	return f.save(doc)
}

// InstallationID returns the installation identifier, or "" if nothing has
// been written yet.
func (f *FileStore) InstallationID() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", err
	}
	return doc.InstallationID, nil
}

// Close is a no-op; the file is not held open between calls.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) load() (*document, error) {
	doc := &document{Values: make(map[string]int64)}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences file %q: %w", f.path, err)
	}

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse preferences file %q: %w", f.path, err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]int64)
	}

	return doc, nil
}

// save writes doc to a temp file in the same directory, syncs it and renames
// it over the old file.
func (f *FileStore) save(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp preferences file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preferences: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}

	return nil
}
