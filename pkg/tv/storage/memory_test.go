package storage

import (
	"context"
	"errors"
	"testing"

	"mercator-hq/tvprovider/pkg/tv"
)

// TestMemoryStorage_ReturnsCopies verifies callers cannot mutate stored rows.
func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	id, _ := store.InsertChannel(ctx, &tv.Channel{InputID: "hdmi1", Transient: true})

	channels, _ := store.Channels(ctx)
	channels[0].Transient = false

	deleted, err := store.DeleteTransientChannels(ctx)
	if err != nil {
		t.Fatalf("DeleteTransientChannels failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected channel %d to still be transient and deleted, got %d deletions", id, deleted)
	}
}

// TestMemoryStorage_Closed verifies operations fail after Close.
func TestMemoryStorage_Closed(t *testing.T) {
	store := NewMemoryStorage()
	_ = store.Close()

	_, err := store.DeleteTransientPrograms(context.Background())
	var storageErr *tv.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
	if storageErr.Backend != "memory" {
		t.Errorf("Expected backend memory, got %s", storageErr.Backend)
	}
}
