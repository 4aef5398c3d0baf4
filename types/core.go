package types

/*

	These are the "immutable" core types of Fracwatch,
	provided for cross-package use (e.g. Plugins) and testing.

	There are no functions defined here.
	Struct constructors are housed in their own packages.
	Methods taking these types should create local aliases,
	for example: type FracturePoints []Ft.FracturePoint

*/

import "time"

// Canonical EDR channel names. Every Series is keyed on these,
// whatever the column headers in the source table were called.
const (
	ChanROP           = "penetration_rate"
	ChanWOB           = "weight_on_bit"
	ChanRPM           = "rotary_rpm"
	ChanDepth         = "hole_depth"
	ChanBlockVelocity = "block_velocity"
	ChanWOBSetpoint   = "autodriller_wob_setpoint"
)

// Sample is one telemetry reading on the shared time axis.
type Sample struct {
	Timestamp time.Time          // absolute time of the reading
	Seconds   float64            // elapsed since the first sample, sub-second precision
	Values    map[string]float64 // channel name -> reading
}

// SeverityLevel is the ordered fracture-risk category.
// Green through Red are totally ordered by escalation.
// Undefined (insufficient data) and Unclassified (no band matched)
// are distinct non-comparable states, never collapsed into Green.
type SeverityLevel int

const (
	SeverityUndefined SeverityLevel = iota - 2
	SeverityUnclassified
	SeverityGreen
	SeverityYellow
	SeverityOrange
	SeverityRed
)

// Classification pairs a severity with the values that produced it.
type Classification struct {
	Level        SeverityLevel
	Derivative   float64 // ROP derivative that was banded
	AuxDeviation float64 // |WOB - setpoint|, NaN when the policy ignores it
}

// FracturePoint is one row of the fracture-points report:
// a sample whose classification reached at least Yellow.
type FracturePoint struct {
	Timestamp  time.Time
	Depth      float64 // hole depth in feet
	Derivative float64 // ROP derivative at the sample
	Level      SeverityLevel
}

// ReplayState is the only mutable session object in the core.
// It is exclusively owned by one ReplaySession and mutated
// only by its Advance operation.
type ReplayState struct {
	Cursor           int           // next unconsumed sample index
	Window           time.Duration // 0 means entire history
	ActiveAlertSince time.Time     // zero when not in a Red run
	AlertLatched     bool          // one sustained alert per Red run
}

// Snapshot is the per-tick read-only projection a front end consumes.
// Undefined readings stay NaN in the core; serialization belongs to
// the serving layer.
type Snapshot struct {
	Index         int
	ViewStart     int // first index inside the active display window
	Timestamp     time.Time
	Level         SeverityLevel
	Derivative    float64
	BlockVelDeriv float64
	RollingRef    float64
	WindowActive  bool
	WindowSeconds float64
	AlertFired    bool
	Done          bool
}
