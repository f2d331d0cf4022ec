package units

import (
	"math"
	"time"
)

// SecondsToNanos converts floating seconds to integer nanoseconds, rounding to
// the nearest nanosecond so accumulated tick error does not truncate downward.
func SecondsToNanos(seconds float64) int64 {
	return int64(math.Round(seconds * float64(time.Second)))
}

// NanosToSeconds converts integer nanoseconds to floating seconds.
func NanosToSeconds(nanos int64) float64 {
	return float64(nanos) / float64(time.Second)
}
