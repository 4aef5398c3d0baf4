package fracwatch

import "math"

// Derived channels use NaN as the Undefined marker: it survives
// arithmetic, serializes visibly, and can never be mistaken for a
// real derivative. Defined is the one true way to test for it.
func Defined(v float64) bool { return !math.IsNaN(v) }

// Undefined is the marker value for entries with insufficient history.
func Undefined() float64 { return math.NaN() }

// Gradient estimates the time-derivative of values over the (possibly
// irregular) seconds axis. Interior points use the second-order central
// difference weighted by the actual spacing on each side; the two
// endpoints fall back to one-sided differences.
//
// Fewer than two samples is not an error: every entry comes back
// Undefined. A repeated timestamp adjacent to the differenced point
// yields Undefined for that point instead of an infinity.
func Gradient(values, seconds []float64) []float64 {
	n := len(values)
	out := make([]float64, n)

	if n < 2 || len(seconds) != n {
		for i := range out {
			out[i] = Undefined()
		}
		return out
	}

	// Forward difference at the head
	out[0] = oneSided(values[1], values[0], seconds[1], seconds[0])

	// Weighted central difference for interior points:
	// f'(x1) ~ (hs²·f(x2) + (hd² − hs²)·f(x1) − hd²·f(x0)) / (hs·hd·(hd+hs))
	// where hs = x1−x0, hd = x2−x1. Exact for quadratics, and it
	// collapses to the familiar (f2−f0)/(x2−x0) on a uniform axis.
	for i := 1; i < n-1; i++ {
		hs := seconds[i] - seconds[i-1]
		hd := seconds[i+1] - seconds[i]
		if hs == 0 || hd == 0 {
			out[i] = Undefined()
			continue
		}
		num := hs*hs*values[i+1] + (hd*hd-hs*hs)*values[i] - hd*hd*values[i-1]
		out[i] = num / (hs * hd * (hd + hs))
	}

	// Backward difference at the tail
	out[n-1] = oneSided(values[n-1], values[n-2], seconds[n-1], seconds[n-2])

	return out
}

func oneSided(v1, v0, t1, t0 float64) float64 {
	dt := t1 - t0
	if dt == 0 {
		return Undefined()
	}
	return (v1 - v0) / dt
}
