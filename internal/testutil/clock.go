package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually driven wall clock plus boot clock.
type FakeClock struct {
	mu        sync.Mutex
	now       time.Time
	sinceBoot time.Duration
	bootErr   error
}

// NewFakeClock creates a clock whose host booted at boot and whose wall
// clock currently reads now.
func NewFakeClock(boot, now time.Time) *FakeClock {
	return &FakeClock{now: now, sinceBoot: now.Sub(boot)}
}

// Now returns the current fake wall clock time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SinceBoot returns the fake uptime or the configured error.
func (c *FakeClock) SinceBoot() (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootErr != nil {
		return 0, c.bootErr
	}
	return c.sinceBoot, nil
}

// BootEpoch returns the boot instant in milliseconds since the Unix epoch.
func (c *FakeClock) BootEpoch() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.UnixMilli() - c.sinceBoot.Milliseconds()
}

// Advance moves both clocks forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sinceBoot += d
}

// Reboot simulates the host being down for downtime and then up for uptime.
func (c *FakeClock) Reboot(downtime, uptime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(downtime + uptime)
	c.sinceBoot = uptime
}

// SetWall moves the wall clock without touching the boot clock, like an
// NTP or user adjustment.
func (c *FakeClock) SetWall(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// FailSinceBoot makes SinceBoot return err. A nil err clears the failure.
func (c *FakeClock) FailSinceBoot(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bootErr = err
}
