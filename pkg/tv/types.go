package tv

import (
	"context"
	"time"
)

// Channel types. Preview channels are surfaced by launcher rows; every other
// channel uses TypeOther.
const (
	TypeOther   = "TYPE_OTHER"
	TypePreview = "TYPE_PREVIEW"
)

// Channel is a row of the channels table.
type Channel struct {
	ID                 int64     `json:"id"`
	InputID            string    `json:"input_id"`
	Type               string    `json:"type"`
	DisplayNumber      string    `json:"display_number"`
	DisplayName        string    `json:"display_name"`
	InternalProviderID string    `json:"internal_provider_id"`
	Transient          bool      `json:"transient"`
	CreatedAt          time.Time `json:"created_at"`
}

// Program is a row of the programs table.
type Program struct {
	ID        int64     `json:"id"`
	ChannelID int64     `json:"channel_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Transient bool      `json:"transient"`
}

// Store is the record store consumed by the provider and the retention guard.
// Implementations must be safe for concurrent use.
type Store interface {
	// InsertChannel stores a channel and returns its assigned ID.
	InsertChannel(ctx context.Context, ch *Channel) (int64, error)

	// InsertProgram stores a program and returns its assigned ID.
	// The referenced channel must exist.
	InsertProgram(ctx context.Context, p *Program) (int64, error)

	// Channels returns all channels ordered by ID.
	Channels(ctx context.Context) ([]*Channel, error)

	// Programs returns all programs ordered by ID.
	Programs(ctx context.Context) ([]*Program, error)

	// CountChannels returns the number of channels.
	CountChannels(ctx context.Context) (int64, error)

	// CountPrograms returns the number of programs.
	CountPrograms(ctx context.Context) (int64, error)

	// DeleteTransientChannels deletes every channel with the transient flag set
	// and returns the number of deleted channels.
	DeleteTransientChannels(ctx context.Context) (int64, error)

	// DeleteTransientPrograms deletes every program with the transient flag set
	// and returns the number of deleted programs.
	DeleteTransientPrograms(ctx context.Context) (int64, error)

	// Close releases the resources held by the store.
	Close() error
}

// Table names, used in errors, logs and metric labels.
const (
	TableChannels = "channels"
	TablePrograms = "programs"
)
