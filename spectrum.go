package main

import (
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
)

// magnitudeSpectrum returns the normalized magnitude spectrum of buf.
func magnitudeSpectrum(buf []float64) []float64 {
	res := fft.FFTReal(buf)
	out := make([]float64, len(res)/2+1)
	for i, c := range res[:len(out)] {
		out[i] = cmplx.Abs(c) / float64(len(buf))
	}
	return out
}

// dominantFrequency returns the frequency of the strongest non-DC bin.
func dominantFrequency(buf []float64, sr float64) float64 {
	mag := magnitudeSpectrum(buf)
	if len(mag) < 2 {
		return 0
	}
	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return float64(best) * sr / float64(len(buf))
}
