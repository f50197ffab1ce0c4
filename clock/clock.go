// Package clock provides a process-relative monotonic nanosecond counter.
package clock

import "time"

var epoch = time.Now()

// Nanos returns nanoseconds elapsed since the package was initialised.
// It reads the monotonic clock and never goes backwards.
func Nanos() uint64 {
	return uint64(time.Since(epoch))
}

// Since returns the duration elapsed since a value previously returned by
// Nanos.
func Since(start uint64) time.Duration {
	return time.Duration(Nanos() - start)
}
