// Package breaker implements the lock-free circuit breaker used by the event
// gateway. It performs no I/O: every transition is reported back to the caller,
// which decides what to log.
//
// The gate has two logical states. CLOSED lets every call through. OPEN rejects
// calls until ResetTimeout has elapsed since the circuit opened; the next call
// after that is a trial. A successful trial closes the circuit, a failed trial
// re-opens it immediately. There is no persisted half-open state and no
// background timer: the reset window is checked lazily on TryAcquire.
package breaker

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	// DefaultFailureThreshold is the number of consecutive failures that opens the circuit.
	DefaultFailureThreshold = 5
	// DefaultResetTimeout is how long the circuit stays open before a trial is allowed.
	DefaultResetTimeout = 5 * time.Minute
	// DefaultSummaryLogInterval bounds how often a summary is logged while open.
	DefaultSummaryLogInterval = 5 * time.Minute
)

// Decision is the result of Gate.TryAcquire.
type Decision int

const (
	// Proceed means the caller may dispatch.
	Proceed Decision = iota
	// Rejected means the circuit is open and the call must be dropped.
	Rejected
)

// String returns the string representation of a Decision.
func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Settings configures a Gate.
type Settings struct {
	// FailureThreshold is the consecutive failure count that opens the circuit. Default: 5.
	FailureThreshold int64
	// ResetTimeout is the open window before a trial call is let through. Default: 5m.
	ResetTimeout time.Duration
}

// Validate rejects negative values. Zero values are replaced with defaults by NewGate.
func (s Settings) Validate() error {
	if s.FailureThreshold < 0 {
		return fmt.Errorf("%w: failure threshold %d", ErrInvalidSettings, s.FailureThreshold)
	}
	if s.ResetTimeout < 0 {
		return fmt.Errorf("%w: reset timeout %s", ErrInvalidSettings, s.ResetTimeout)
	}
	return nil
}

func (s Settings) withDefaults() Settings {
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = DefaultFailureThreshold
	}
	if s.ResetTimeout <= 0 {
		s.ResetTimeout = DefaultResetTimeout
	}
	return s
}

// Option configures optional Gate behavior.
type Option func(*Gate)

// WithClock overrides the time source. Tests use it to step through reset windows.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// FailureReport describes the effect of Gate.OnFailure.
type FailureReport struct {
	// ConsecutiveFailures is the failure count after this failure was recorded.
	ConsecutiveFailures int64
	// Opened is true for exactly one caller per CLOSED->OPEN transition.
	Opened bool
	// TrialFailed is true when the failure belonged to a trial after the reset window.
	TrialFailed bool
	// OpenedAt is set when Opened is true.
	OpenedAt time.Time
}

// Recovery describes an OPEN->CLOSED transition reported by Gate.OnSuccess.
type Recovery struct {
	OpenedAt         time.Time
	Downtime         time.Duration
	DroppedWhileOpen int64
}

// Snapshot is a point-in-time view of the gate, for health checks and stats.
type Snapshot struct {
	Open                bool
	OpenedAt            time.Time
	ConsecutiveFailures int64
	DroppedSinceOpen    int64
}

// Gate holds the circuit state. All fields are accessed atomically; no method
// blocks and no method takes a lock.
type Gate struct {
	settings Settings

	consecutiveFailures atomic.Int64
	// openedAt is unix nanos of the last CLOSED->OPEN transition, 0 while closed.
	openedAt atomic.Int64
	// trialOpenedAt keeps the openedAt cleared by a trial until the trial outcome arrives.
	trialOpenedAt    atomic.Int64
	droppedSinceOpen atomic.Int64

	now func() time.Time
}

// NewGate creates a closed Gate. Zero-value settings are replaced with defaults.
func NewGate(settings Settings, opts ...Option) *Gate {
	g := &Gate{
		settings: settings.withDefaults(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Settings returns the effective settings.
func (g *Gate) Settings() Settings {
	return g.settings
}

// TryAcquire decides whether a call may dispatch. While open and inside the
// reset window it returns Rejected. Once the window has elapsed the first caller
// to observe it clears the open marker and the failure count; that caller and
// every later one proceed. Concurrent callers arriving right after the window
// may all proceed: the trial is not single-flight.
func (g *Gate) TryAcquire() Decision {
	opened := g.openedAt.Load()
	if opened == 0 {
		return Proceed
	}

	if time.Duration(g.now().UnixNano()-opened) <= g.settings.ResetTimeout {
		return Rejected
	}

	// 先清零再关闭：看到 CLOSED 的调用方不会在旧的失败计数上重新打开熔断
	g.consecutiveFailures.Store(0)
	if g.openedAt.CompareAndSwap(opened, 0) {
		g.trialOpenedAt.Store(opened)
	}
	return Proceed
}

// OnSuccess records a successful dispatch. It resets the failure count and, if
// the circuit was open or a trial was pending, closes it and reports the
// recovery together with the number of events dropped during the outage.
// Exactly one concurrent caller receives ok == true per recovery.
func (g *Gate) OnSuccess() (Recovery, bool) {
	g.consecutiveFailures.Store(0)

	opened := g.trialOpenedAt.Swap(0)
	if current := g.openedAt.Load(); current != 0 && g.openedAt.CompareAndSwap(current, 0) {
		if opened == 0 || current < opened {
			opened = current
		}
	}
	if opened == 0 {
		return Recovery{}, false
	}

	openedAt := time.Unix(0, opened)
	return Recovery{
		OpenedAt:         openedAt,
		Downtime:         g.now().Sub(openedAt),
		DroppedWhileOpen: g.droppedSinceOpen.Swap(0),
	}, true
}

// OnFailure records a failed dispatch. The circuit opens when the failure
// count reaches the threshold, or immediately when the failure is the outcome
// of a trial. Failures while already open do not move openedAt.
func (g *Gate) OnFailure() FailureReport {
	n := g.consecutiveFailures.Add(1)
	report := FailureReport{ConsecutiveFailures: n}

	trial := g.trialOpenedAt.Swap(0) != 0
	if !trial && n < g.settings.FailureThreshold {
		return report
	}

	now := g.now()
	if g.openedAt.CompareAndSwap(0, now.UnixNano()) {
		report.Opened = true
		report.TrialFailed = trial
		report.OpenedAt = now
	}
	return report
}

// RecordDrop counts an event rejected while open and returns the per-outage total.
func (g *Gate) RecordDrop() int64 {
	return g.droppedSinceOpen.Add(1)
}

// IsOpen reports whether the open marker is set. It does not evaluate the
// reset window.
func (g *Gate) IsOpen() bool {
	return g.openedAt.Load() != 0
}

// OpenedAt returns when the circuit opened, or false while closed.
func (g *Gate) OpenedAt() (time.Time, bool) {
	opened := g.openedAt.Load()
	if opened == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, opened), true
}

// Snapshot returns a view of the gate. Fields are loaded independently, so the
// view is not a consistent cut under concurrent transitions.
func (g *Gate) Snapshot() Snapshot {
	openedAt, open := g.OpenedAt()
	return Snapshot{
		Open:                open,
		OpenedAt:            openedAt,
		ConsecutiveFailures: g.consecutiveFailures.Load(),
		DroppedSinceOpen:    g.droppedSinceOpen.Load(),
	}
}
