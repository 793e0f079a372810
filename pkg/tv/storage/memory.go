package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mercator-hq/tvprovider/pkg/tv"
)

// MemoryStorage is an in-memory tv.Store for tests. It mirrors the SQLite
// backend, including the cascade from channels to their programs.
type MemoryStorage struct {
	mu            sync.RWMutex
	channels      map[int64]*tv.Channel
	programs      map[int64]*tv.Program
	nextChannelID int64
	nextProgramID int64
	closed        bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		channels: make(map[int64]*tv.Channel),
		programs: make(map[int64]*tv.Program),
	}
}

// InsertChannel stores a copy of the channel.
func (m *MemoryStorage) InsertChannel(ctx context.Context, ch *tv.Channel) (int64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("insert_channel"); err != nil {
		return 0, err
	}

	if ch.Type == "" {
		ch.Type = tv.TypeOther
	}
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now()
	}

	m.nextChannelID++
	ch.ID = m.nextChannelID
	stored := *ch
	m.channels[stored.ID] = &stored

	return stored.ID, nil
}

// InsertProgram stores a copy of the program.
func (m *MemoryStorage) InsertProgram(ctx context.Context, p *tv.Program) (int64, error) {
	if err := validateProgram(p); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("insert_program"); err != nil {
		return 0, err
	}
	if _, ok := m.channels[p.ChannelID]; !ok {
		return 0, fmt.Errorf("channel %d: %w", p.ChannelID, tv.ErrNotFound)
	}

	m.nextProgramID++
	p.ID = m.nextProgramID
	stored := *p
	m.programs[stored.ID] = &stored

	return stored.ID, nil
}

// Channels returns copies of all channels ordered by ID.
func (m *MemoryStorage) Channels(ctx context.Context) ([]*tv.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkOpen("query_channels"); err != nil {
		return nil, err
	}

	channels := make([]*tv.Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		c := *ch
		channels = append(channels, &c)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })

	return channels, nil
}

// Programs returns copies of all programs ordered by ID.
func (m *MemoryStorage) Programs(ctx context.Context) ([]*tv.Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkOpen("query_programs"); err != nil {
		return nil, err
	}

	programs := make([]*tv.Program, 0, len(m.programs))
	for _, p := range m.programs {
		c := *p
		programs = append(programs, &c)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].ID < programs[j].ID })

	return programs, nil
}

// CountChannels returns the number of channels.
func (m *MemoryStorage) CountChannels(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkOpen("count_channels"); err != nil {
		return 0, err
	}
	return int64(len(m.channels)), nil
}

// CountPrograms returns the number of programs.
func (m *MemoryStorage) CountPrograms(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkOpen("count_programs"); err != nil {
		return 0, err
	}
	return int64(len(m.programs)), nil
}

// DeleteTransientChannels deletes transient channels and cascades to their
// programs.
func (m *MemoryStorage) DeleteTransientChannels(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("delete_transient_channels"); err != nil {
		return 0, err
	}

	var deleted int64
	for id, ch := range m.channels {
		if !ch.Transient {
			continue
		}
		delete(m.channels, id)
		deleted++

		for pid, p := range m.programs {
			if p.ChannelID == id {
				delete(m.programs, pid)
			}
		}
	}

	return deleted, nil
}

// DeleteTransientPrograms deletes transient programs.
func (m *MemoryStorage) DeleteTransientPrograms(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("delete_transient_programs"); err != nil {
		return 0, err
	}

	var deleted int64
	for id, p := range m.programs {
		if p.Transient {
			delete(m.programs, id)
			deleted++
		}
	}

	return deleted, nil
}

// Close marks the store closed. Later calls fail with a StorageError.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryStorage) checkOpen(op string) error {
	if m.closed {
		return tv.NewStorageError("memory", op, fmt.Errorf("storage is closed"))
	}
	return nil
}
