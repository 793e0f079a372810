package testutil

import (
	"context"
	"sync"
)

// Watermark is an in-memory purge watermark with injectable failures.
type Watermark struct {
	mu       sync.Mutex
	value    int64
	readErr  error
	writeErr error
	reads    int
	writes   int
}

// NewWatermark creates a watermark holding value.
func NewWatermark(value int64) *Watermark {
	return &Watermark{value: value}
}

// LastPurge returns the stored value.
func (w *Watermark) LastPurge(ctx context.Context) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reads++
	if w.readErr != nil {
		return 0, w.readErr
	}
	return w.value, nil
}

// SetLastPurge stores the value.
func (w *Watermark) SetLastPurge(ctx context.Context, millis int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	if w.writeErr != nil {
		return w.writeErr
	}
	w.value = millis
	return nil
}

// Value returns the stored value without counting a read.
func (w *Watermark) Value() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// FailReads makes LastPurge return err.
func (w *Watermark) FailReads(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.readErr = err
}

// FailWrites makes SetLastPurge return err.
func (w *Watermark) FailWrites(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeErr = err
}

// Reads returns the number of LastPurge calls.
func (w *Watermark) Reads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reads
}

// Writes returns the number of SetLastPurge calls.
func (w *Watermark) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
