package fracwatch

// DefaultRollingWindow is the trailing sample count for the dynamic
// ROP reference.
const DefaultRollingWindow = 30

// RollingMean computes, for each sample, the arithmetic mean of the
// trailing window samples ending at (and including) that sample.
// Partial windows at the head average over whatever exists so far,
// so the output has no Undefined entries once one sample exists.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		span := i + 1
		if span > window {
			span = window
		}
		out[i] = sum / float64(span)
	}
	return out
}
