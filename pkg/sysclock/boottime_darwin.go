//go:build darwin

package sysclock

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func sinceBoot() (time.Duration, error) {
	tv, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return 0, fmt.Errorf("sysctl kern.boottime: %w", err)
	}
	booted := time.Unix(tv.Unix())
	elapsed := time.Since(booted)
	if elapsed < 0 {
		return 0, fmt.Errorf("kern.boottime %s is in the future", booted.Format(time.RFC3339))
	}
	return elapsed, nil
}
