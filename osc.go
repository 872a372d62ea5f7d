package main

import (
	"math"
	"sync"
	"time"
)

// glideTC is the retune glide time constant. Short enough to track a control
// change immediately, long enough that the frequency trace never steps.
const glideTC = 25 * time.Millisecond

// Osc is a phase-continuous sine oscillator. Frequency changes slide toward
// the new value with a short time constant instead of jumping, so retuning a
// live oscillator never snaps or clicks.
type Osc struct {
	mu         sync.Mutex
	sampleRate float64
	freq       float64
	target     float64
	glide      float64
	amplitude  float64
	phase      float64
}

func NewOsc(freq, amplitude float64) *Osc {
	return &Osc{
		sampleRate: sampleRate,
		freq:       freq,
		target:     freq,
		glide:      approachCoef(glideTC.Seconds(), sampleRate),
		amplitude:  amplitude,
	}
}

// approachCoef converts a time constant into the per-sample fraction of the
// remaining distance covered by an exponential approach.
func approachCoef(tc, sr float64) float64 {
	return 1 - math.Exp(-1/(tc*sr))
}

// SetFrequency begins a glide toward f.
func (o *Osc) SetFrequency(f float64) {
	o.mu.Lock()
	o.target = f
	o.mu.Unlock()
}

// Frequency reports the instantaneous (possibly mid-glide) frequency.
func (o *Osc) Frequency() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.freq
}

func (o *Osc) Stream(samples [][2]float64) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range samples {
		o.freq += (o.target - o.freq) * o.glide
		_, o.phase = math.Modf(o.phase + o.freq/o.sampleRate)
		v := math.Sin(2*math.Pi*o.phase) * o.amplitude
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (o *Osc) Err() error {
	return nil
}
