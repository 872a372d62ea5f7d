package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// PartialSpec is one harmonic of a tone: a frequency multiple of the base,
// its relative amplitude, and for struck tones its decay time.
type PartialSpec struct {
	Ratio float64
	Amp   float64
	Decay float64
}

// ToneSpec describes one sustained or struck sound. Immutable once built.
type ToneSpec struct {
	Base     float64
	Partials []PartialSpec
}

// droneSpec is the sustained timbre: six harmonic partials with falling
// amplitudes, enough to give the beating between mistuned intervals some
// upper structure to be audible in.
func droneSpec(base float64) ToneSpec {
	return ToneSpec{
		Base: base,
		Partials: []PartialSpec{
			{Ratio: 1, Amp: 1.0},
			{Ratio: 2, Amp: 0.5},
			{Ratio: 3, Amp: 0.35},
			{Ratio: 4, Amp: 0.2},
			{Ratio: 5, Amp: 0.12},
			{Ratio: 6, Amp: 0.08},
		},
	}
}

// Voice is a stack of sine partials summed behind a single sub-mix gain.
// The caller owns the generators: Stop must be called explicitly, a Voice is
// never torn down implicitly.
type Voice struct {
	mu      sync.Mutex
	oscs    []*Osc
	ratios  []float64
	submix  *Ramp
	stopped bool
}

// NewVoice builds the oscillator stack for spec with the sub-mix at level.
// Passing level 0 parks the voice silent but running, ready to be faded in.
func NewVoice(spec ToneSpec, level float64) *Voice {
	v := &Voice{}
	streams := make([]beep.Streamer, 0, len(spec.Partials))
	for _, p := range spec.Partials {
		o := NewOsc(spec.Base*p.Ratio, p.Amp)
		v.oscs = append(v.oscs, o)
		v.ratios = append(v.ratios, p.Ratio)
		streams = append(streams, o)
	}
	v.submix = NewRamp(beep.Mix(streams...), level)
	return v
}

// Retune glides every partial toward base times its harmonic ratio.
func (v *Voice) Retune(base float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, o := range v.oscs {
		o.SetFrequency(base * v.ratios[i])
	}
}

// FadeTo ramps the sub-mix toward level with a time constant.
func (v *Voice) FadeTo(level float64, tc time.Duration) {
	v.submix.SetTarget(level, tc)
}

// Stop kills the generator stack. Safe to call more than once; the mixer
// drops the voice on its next pull.
func (v *Voice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return 0, false
	}
	v.mu.Unlock()
	return v.submix.Stream(samples)
}

func (v *Voice) Err() error {
	return nil
}
