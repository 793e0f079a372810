//go:build !linux && !darwin

package sysclock

import "time"

func sinceBoot() (time.Duration, error) {
	return time.Since(processStart), nil
}
