package fracwatch

import (
	"fmt"
	"math"

	Ft "github.com/trsch/fracwatch/types"
)

// Thresholds are the ordered severity bands for the ROP derivative,
// in units of (ft/hr) per second. A value belongs to a band only when
// strictly greater than its lower bound: exactly-equal lands in the
// band below.
type Thresholds struct {
	Red    float64
	Orange float64
	Yellow float64
	// AuxDeviation gates Red in the combined policy:
	// |WOB - setpoint| must exceed it for Red to fire.
	AuxDeviation float64
}

// DefaultThresholds are the bands observed to work on the 29301709 well.
func DefaultThresholds() Thresholds {
	return Thresholds{Red: 4.0, Orange: 3.5, Yellow: 3.0, AuxDeviation: 3.0}
}

// Policy maps derivative values (and optionally an auxiliary
// deviation) to a severity level. Implementations are pure.
type Policy interface {
	Classify(deriv, auxDev float64) Ft.SeverityLevel
	Type() string
}

// SimplePolicy bands on the derivative alone, defaulting to Green
// below the yellow threshold.
type SimplePolicy struct {
	T Thresholds
}

func (p SimplePolicy) Classify(deriv, _ float64) Ft.SeverityLevel {
	if !Defined(deriv) {
		return Ft.SeverityUndefined
	}
	switch {
	case deriv > p.T.Red:
		return Ft.SeverityRed
	case deriv > p.T.Orange:
		return Ft.SeverityOrange
	case deriv > p.T.Yellow:
		return Ft.SeverityYellow
	default:
		return Ft.SeverityGreen
	}
}

func (p SimplePolicy) Type() string { return "simple" }

// CombinedPolicy additionally requires the auxiliary deviation to
// exceed its threshold before declaring Red. A derivative above the
// red threshold without that confirmation matches no band and comes
// back Unclassified, which downstream reporting filters out.
type CombinedPolicy struct {
	T Thresholds
}

func (p CombinedPolicy) Classify(deriv, auxDev float64) Ft.SeverityLevel {
	if !Defined(deriv) || !Defined(auxDev) {
		return Ft.SeverityUndefined
	}
	switch {
	case deriv > p.T.Red && auxDev > p.T.AuxDeviation:
		return Ft.SeverityRed
	case deriv > p.T.Red:
		return Ft.SeverityUnclassified
	case deriv > p.T.Orange:
		return Ft.SeverityOrange
	case deriv > p.T.Yellow:
		return Ft.SeverityYellow
	default:
		return Ft.SeverityGreen
	}
}

func (p CombinedPolicy) Type() string { return "combined" }

// PolicyLookup resolves a configured policy name.
func PolicyLookup(name string, t Thresholds) (Policy, error) {
	switch name {
	case "", "simple":
		return SimplePolicy{T: t}, nil
	case "combined":
		return CombinedPolicy{T: t}, nil
	default:
		return nil, fmt.Errorf("unknown severity policy: %s", name)
	}
}

// Classify runs a policy over whole channels, pairing every sample
// with the inputs that produced its level. auxDev may be nil when the
// input table has no setpoint column; the combined policy then sees
// NaN and reports Undefined rather than inventing a deviation.
func Classify(p Policy, deriv, auxDev []float64) []Ft.Classification {
	out := make([]Ft.Classification, len(deriv))
	for i, d := range deriv {
		aux := math.NaN()
		if auxDev != nil {
			aux = auxDev[i]
		}
		out[i] = Ft.Classification{
			Level:        p.Classify(d, aux),
			Derivative:   d,
			AuxDeviation: aux,
		}
	}
	return out
}
