package fracwatch

import (
	"time"

	Ft "github.com/trsch/fracwatch/types"
)

// DefaultSustainSecs is how long a Red condition must hold before
// the sustained fracture alert fires.
const DefaultSustainSecs = 2.0

// ReplayPhase is the observable lifecycle of a session.
type ReplayPhase int

const (
	ReplayIdle      ReplayPhase = iota // cursor at 0, nothing consumed
	ReplayAdvancing                    // mid-run
	ReplayExhausted                    // cursor reached the series length, terminal
)

// ReplaySession walks a finished Analysis one sample per tick,
// simulating real-time arrival. It owns the only mutable state in
// the core; one session per ReplayState, never shared.
type ReplaySession struct {
	Analysis *Analysis
	State    Ft.ReplayState
	Windows  []time.Duration // display window cycle, index 0 expected to be 0 (entire)
	Sustain  time.Duration

	windowIdx int
}

// NewReplaySession starts a session at cursor 0 with the first
// configured display window active.
func NewReplaySession(a *Analysis, windows []time.Duration, sustain time.Duration) *ReplaySession {
	if len(windows) == 0 {
		windows = []time.Duration{0, 5 * time.Minute, 10 * time.Minute, 30 * time.Minute}
	}
	return &ReplaySession{
		Analysis: a,
		State:    Ft.ReplayState{Window: windows[0]},
		Windows:  windows,
		Sustain:  sustain,
	}
}

// Phase reports where the session is in its lifecycle.
func (r *ReplaySession) Phase() ReplayPhase {
	switch {
	case r.State.Cursor == 0:
		return ReplayIdle
	case r.State.Cursor >= r.Analysis.Series.Len():
		return ReplayExhausted
	default:
		return ReplayAdvancing
	}
}

// Advance consumes one tick. It reads the severity of the newest
// sample in the current view, runs the alert debounce, then moves the
// cursor. Exhaustion is a terminal observable state, not an error:
// once the cursor reaches the series length every further call is a
// no-op with Done set.
//
// The cursor increment is last, so a session stopped between ticks
// never leaves a partial advance outstanding.
func (r *ReplaySession) Advance() Ft.Snapshot {
	n := r.Analysis.Series.Len()
	if r.State.Cursor >= n {
		return Ft.Snapshot{
			Index:         r.State.Cursor,
			Level:         Ft.SeverityUndefined,
			Derivative:    Undefined(),
			BlockVelDeriv: Undefined(),
			RollingRef:    Undefined(),
			Done:          true,
		}
	}

	snap := Ft.Snapshot{
		Index:         r.State.Cursor,
		Level:         Ft.SeverityUndefined,
		Derivative:    Undefined(),
		BlockVelDeriv: Undefined(),
		RollingRef:    Undefined(),
		WindowActive:  r.State.Window > 0,
		WindowSeconds: r.State.Window.Seconds(),
	}

	// The visible prefix excludes the cursor itself; on the very
	// first tick there is nothing to see yet.
	last := r.State.Cursor - 1
	if last >= 0 {
		snap.ViewStart = r.viewStart(last)
		c := r.Analysis.Classes[last]
		snap.Timestamp = r.Analysis.Series.Stamps[last]
		snap.Level = c.Level
		snap.Derivative = c.Derivative
		snap.RollingRef = r.Analysis.RollingRef[last]
		if r.Analysis.BlockDeriv != nil {
			snap.BlockVelDeriv = r.Analysis.BlockDeriv[last]
		}

		snap.AlertFired = r.debounce(c.Level, snap.Timestamp)
	}

	r.State.Cursor++
	return snap
}

// viewStart returns the first prefix index still inside the active
// display window, measured back from the newest visible timestamp.
func (r *ReplaySession) viewStart(last int) int {
	if r.State.Window <= 0 {
		return 0
	}
	earliest := r.Analysis.Series.Stamps[last].Add(-r.State.Window)
	start := last
	for start > 0 && !r.Analysis.Series.Stamps[start-1].Before(earliest) {
		start--
	}
	return start
}

// debounce tracks an unbroken Red run and fires the sustained alert
// exactly once per run, after the configured duration has elapsed.
// Leaving Red re-arms it.
func (r *ReplaySession) debounce(level Ft.SeverityLevel, ts time.Time) bool {
	if level != Ft.SeverityRed {
		r.State.ActiveAlertSince = time.Time{}
		r.State.AlertLatched = false
		return false
	}

	if r.State.ActiveAlertSince.IsZero() {
		r.State.ActiveAlertSince = ts
		return false
	}

	if !r.State.AlertLatched && ts.Sub(r.State.ActiveAlertSince) > r.Sustain {
		r.State.AlertLatched = true
		return true
	}

	return false
}

// ToggleDisplayWindow cycles to the next configured window choice
// and returns it. The cycle wraps back to entire-history.
func (r *ReplaySession) ToggleDisplayWindow() time.Duration {
	r.windowIdx = (r.windowIdx + 1) % len(r.Windows)
	r.State.Window = r.Windows[r.windowIdx]
	return r.State.Window
}
