package sysclock

import (
	"time"
)

// processStart is used by platforms without a boot clock.
var processStart = time.Now()

// Clock is a wall clock with access to the time elapsed since boot.
type Clock struct{}

// System is the host clock.
var System = Clock{}

// Now returns the current wall clock time.
func (Clock) Now() time.Time {
	return time.Now()
}

// SinceBoot returns the time elapsed since the host booted.
func (Clock) SinceBoot() (time.Duration, error) {
	return sinceBoot()
}

// BootEpoch returns the wall clock instant of the last boot in milliseconds
// since the Unix epoch.
func BootEpoch(now time.Time, sinceBoot time.Duration) int64 {
	return now.UnixMilli() - sinceBoot.Milliseconds()
}
