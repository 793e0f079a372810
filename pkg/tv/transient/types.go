package transient

import (
	"context"
	"time"
)

// Clock supplies the wall clock and the time elapsed since the host booted.
type Clock interface {
	Now() time.Time
	SinceBoot() (time.Duration, error)
}

// Watermark persists the wall clock time of the last completed purge in
// milliseconds since the Unix epoch.
type Watermark interface {
	// LastPurge returns the stored watermark, or 0 if none was ever written.
	LastPurge(ctx context.Context) (int64, error)

	// SetLastPurge durably stores the watermark.
	SetLastPurge(ctx context.Context, millis int64) error
}

// Store is the subset of the record store the guard needs.
type Store interface {
	DeleteTransientPrograms(ctx context.Context) (int64, error)
	DeleteTransientChannels(ctx context.Context) (int64, error)
}

// Observer receives the outcome of every decision the guard makes.
type Observer interface {
	ObservePurge(status Status, duration time.Duration)
}

// Outcome is the result of the once-per-process check.
type Outcome string

const (
	OutcomeUnchecked Outcome = "unchecked"
	OutcomeSkipped   Outcome = "skipped"
	OutcomePurged    Outcome = "purged"
	OutcomeFailed    Outcome = "failed"
)

// Status is a snapshot of the guard's state.
type Status struct {
	Checked         bool      `json:"checked"`
	Outcome         Outcome   `json:"outcome"`
	RunID           string    `json:"run_id,omitempty"`
	CheckedAt       time.Time `json:"checked_at,omitzero"`
	Watermark       int64     `json:"watermark"`
	BootEpoch       int64     `json:"boot_epoch"`
	NewWatermark    int64     `json:"new_watermark,omitempty"`
	ProgramsDeleted int64     `json:"programs_deleted"`
	ChannelsDeleted int64     `json:"channels_deleted"`
	Err             error     `json:"-"`
}

// Decision is the comparison the guard bases its work on.
type Decision struct {
	Watermark int64 `json:"watermark"`
	BootEpoch int64 `json:"boot_epoch"`
	Purge     bool  `json:"purge"`
}

// Decide reports whether a purge is owed. A watermark equal to the boot epoch
// does not count as "after boot".
func Decide(watermark, bootEpoch int64) bool {
	return watermark <= bootEpoch
}
