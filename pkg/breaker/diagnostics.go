package breaker

import (
	"sync/atomic"
	"time"
)

// Diagnostics throttles summary logging while a circuit is open.
type Diagnostics struct {
	interval time.Duration
	// lastSummaryLogAt is unix nanos; the zero value is the epoch, so the first
	// call always wins.
	lastSummaryLogAt atomic.Int64
}

// NewDiagnostics creates a throttle that allows one summary per interval.
// A non-positive interval falls back to DefaultSummaryLogInterval.
func NewDiagnostics(interval time.Duration) *Diagnostics {
	if interval <= 0 {
		interval = DefaultSummaryLogInterval
	}
	return &Diagnostics{interval: interval}
}

// ShouldEmitSummary returns true, and advances the last-emitted timestamp to
// now, only if more than the interval has passed since the last summary.
// Concurrent callers race on a compare-and-swap; losers return false.
func (d *Diagnostics) ShouldEmitSummary(now time.Time) bool {
	last := d.lastSummaryLogAt.Load()
	ts := now.UnixNano()
	if time.Duration(ts-last) <= d.interval {
		return false
	}
	return d.lastSummaryLogAt.CompareAndSwap(last, ts)
}

// Summary is the content of one rate-limited outage log line.
type Summary struct {
	DroppedSinceOpen int64
	Downtime         time.Duration
	UntilRetry       time.Duration
}

// NewSummary computes downtime and time-to-retry for an outage that began at openedAt.
func NewSummary(dropped int64, openedAt, now time.Time, resetTimeout time.Duration) Summary {
	downtime := now.Sub(openedAt)
	untilRetry := resetTimeout - downtime
	if untilRetry < 0 {
		untilRetry = 0
	}
	return Summary{
		DroppedSinceOpen: dropped,
		Downtime:         downtime,
		UntilRetry:       untilRetry,
	}
}
