package tv

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidRecord is returned when a record fails validation before insert.
var ErrInvalidRecord = errors.New("invalid record")

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("insert_channel", "delete_transient", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// Purge steps reported by PurgeError.
const (
	StepReadWatermark  = "read_watermark"
	StepBootEpoch      = "boot_epoch"
	StepDeletePrograms = "delete_programs"
	StepDeleteChannels = "delete_channels"
	StepWriteWatermark = "write_watermark"
)

// PurgeError represents a failure while deciding on or running the transient
// row purge.
type PurgeError struct {
	Step  string // Step that failed (see the Step constants)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *PurgeError) Error() string {
	return fmt.Sprintf("transient purge failed [step=%s]: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *PurgeError) Unwrap() error {
	return e.Cause
}

// NewPurgeError creates a new PurgeError.
func NewPurgeError(step string, cause error) *PurgeError {
	return &PurgeError{
		Step:  step,
		Cause: cause,
	}
}
