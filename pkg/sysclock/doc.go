// Package sysclock reads the host wall clock and the time elapsed since the
// host booted.
//
// The boot clock counts time spent in suspend where the platform allows it,
// so that a boot epoch (wall clock now minus time since boot) stays constant
// for the lifetime of a boot:
//
//   - Linux uses CLOCK_BOOTTIME.
//   - Darwin derives the elapsed time from the kern.boottime sysctl.
//   - Other platforms fall back to the time since this process started,
//     which makes every process start look like a fresh boot.
package sysclock
