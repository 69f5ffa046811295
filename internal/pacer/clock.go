package pacer

import "time"

// Now returns the wall time in milliseconds since the Unix epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / 1e6
}
