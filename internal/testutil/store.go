package testutil

import (
	"context"
	"sync"
	"time"

	"mercator-hq/tvprovider/pkg/tv"
)

// RecordingStore wraps a tv.Store, counting the transient deletes and
// optionally failing them.
type RecordingStore struct {
	tv.Store

	mu             sync.Mutex
	programDeletes int
	channelDeletes int
	programErr     error
	channelErr     error
	delay          time.Duration
	calls          []string
}

// NewRecordingStore wraps inner.
func NewRecordingStore(inner tv.Store) *RecordingStore {
	return &RecordingStore{Store: inner}
}

// DeleteTransientPrograms records the call and delegates unless failing.
func (s *RecordingStore) DeleteTransientPrograms(ctx context.Context) (int64, error) {
	delay, err := s.record(tv.TablePrograms)
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return 0, err
	}
	return s.Store.DeleteTransientPrograms(ctx)
}

// DeleteTransientChannels records the call and delegates unless failing.
func (s *RecordingStore) DeleteTransientChannels(ctx context.Context) (int64, error) {
	delay, err := s.record(tv.TableChannels)
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return 0, err
	}
	return s.Store.DeleteTransientChannels(ctx)
}

func (s *RecordingStore) record(table string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, table)
	if table == tv.TablePrograms {
		s.programDeletes++
		return s.delay, s.programErr
	}
	s.channelDeletes++
	return s.delay, s.channelErr
}

// FailProgramDeletes makes DeleteTransientPrograms return err.
func (s *RecordingStore) FailProgramDeletes(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programErr = err
}

// FailChannelDeletes makes DeleteTransientChannels return err.
func (s *RecordingStore) FailChannelDeletes(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelErr = err
}

// SetDelay slows down every transient delete, widening race windows.
func (s *RecordingStore) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// DeleteCalls returns the number of program and channel delete calls.
func (s *RecordingStore) DeleteCalls() (programs, channels int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.programDeletes, s.channelDeletes
}

// CallOrder returns the tables deleted from, in call order.
func (s *RecordingStore) CallOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
