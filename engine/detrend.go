package fracwatch

import "gonum.org/v1/gonum/dsp/fourier"

// DefaultFreqCutoff is the normalized frequency (cycles per sample)
// above which block-velocity content is discarded before its
// derivative is taken.
const DefaultFreqCutoff = 0.022

// Detrend removes slow instrument drift from a channel so a second
// derivative pass isn't biased by it:
//
//  1. subtract the straight line through the first and last value
//  2. real FFT of the detrended signal
//  3. zero every coefficient above the cutoff (low-pass)
//  4. inverse transform
//  5. add the trend line back
//
// It is a pure function of the whole window it is handed; replay
// re-runs it over the full accumulated window. With fewer than three
// samples the trend line is degenerate and the input comes back
// unchanged (copied).
func Detrend(values []float64, cutoff float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	copy(out, values)

	if n < 3 {
		return out
	}

	// Straight line through the endpoints
	slope := (values[n-1] - values[0]) / float64(n-1)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = values[0] + slope*float64(i)
		out[i] -= trend[i]
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, out)
	for i := range coeff {
		if fft.Freq(i) > cutoff {
			coeff[i] = 0
		}
	}

	// Sequence is unnormalized: the round trip scales by n
	out = fft.Sequence(out, coeff)
	for i := range out {
		out[i] = out[i]/float64(n) + trend[i]
	}

	return out
}
