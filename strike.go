package main

import (
	"math"
	"time"
)

// strikeSpec is the struck timbre: six partials detuned from exact integer
// ratios to emulate string stiffness, each with its own amplitude and decay.
func strikeSpec(freq float64) ToneSpec {
	return ToneSpec{
		Base: freq,
		Partials: []PartialSpec{
			{Ratio: 1.0, Amp: 1.0, Decay: 3.0},
			{Ratio: 2.001, Amp: 0.6, Decay: 2.2},
			{Ratio: 3.003, Amp: 0.35, Decay: 1.5},
			{Ratio: 4.007, Amp: 0.2, Decay: 1.0},
			{Ratio: 5.012, Amp: 0.1, Decay: 0.7},
			{Ratio: 6.02, Amp: 0.05, Decay: 0.5},
		},
	}
}

const (
	strikeLevel   = 0.3
	strikeAttack  = 5 * time.Millisecond
	noiseBurst    = 15 * time.Millisecond
	noiseEnvelope = 40 * time.Millisecond
	noiseAmp      = 0.4
	noiseQ        = 2.0
	// Exponential decay curves need a strictly positive floor.
	envFloor = 1e-4
	ringPad  = 100 * time.Millisecond
)

// biquad is a two-pole two-zero filter section.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// newBandpass builds a constant-skirt bandpass centered on freq.
func newBandpass(freq, q, sr float64) *biquad {
	w := 2 * math.Pi * freq / sr
	alpha := math.Sin(w) / (2 * q)
	cosw := math.Cos(w)
	a0 := 1 + alpha

	return &biquad{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

type strikePartial struct {
	phase      float64
	freq       float64
	halfAmp    float64
	attackLeft int
	attackLen  int
	env        float64
	decayCoef  float64
}

// Strike is a self-contained percussive event: a short band-limited hammer
// noise burst plus six decaying inharmonic partials, all scheduled relative
// to an onset delay and self-terminating slightly after the longest envelope
// ends. Nothing retains ownership of a Strike once it is on the mix bus.
type Strike struct {
	pos    int
	delay  int
	length int

	parts []strikePartial

	noiseLeft    int
	noiseEnvLeft int
	noiseLevel   float64
	noiseCoef    float64
	filter       *biquad
	rng          uint32
}

// NewStrike builds a strike of freq whose onset is delayed by at.
func NewStrike(freq float64, at time.Duration) *Strike {
	spec := strikeSpec(freq)
	attackLen := samplesIn(strikeAttack)
	if attackLen < 1 {
		attackLen = 1
	}

	s := &Strike{
		delay:        samplesIn(at),
		noiseLeft:    samplesIn(noiseBurst),
		noiseEnvLeft: samplesIn(noiseEnvelope),
		noiseLevel:   noiseAmp,
		filter:       newBandpass(4*freq, noiseQ, sampleRate),
		rng:          uint32(math.Float64bits(freq)>>11) | 1,
	}
	s.noiseCoef = math.Pow(envFloor/noiseAmp, 1/float64(s.noiseEnvLeft))

	maxDecay := 0
	for _, p := range spec.Partials {
		n := int(p.Decay * sampleRate)
		if n > maxDecay {
			maxDecay = n
		}
		half := p.Amp / 2
		s.parts = append(s.parts, strikePartial{
			freq:       spec.Base * p.Ratio,
			halfAmp:    half,
			attackLeft: attackLen,
			attackLen:  attackLen,
			env:        1,
			decayCoef:  math.Pow(envFloor/half, 1/float64(n)),
		})
	}
	s.length = s.delay + maxDecay + samplesIn(ringPad)
	return s
}

func samplesIn(d time.Duration) int {
	return int(d.Seconds() * sampleRate)
}

// xorshift32 white noise in [-1, 1].
func (s *Strike) noise() float64 {
	s.rng ^= s.rng << 13
	s.rng ^= s.rng >> 17
	s.rng ^= s.rng << 5
	return float64(s.rng)/float64(math.MaxUint32)*2 - 1
}

func (s *Strike) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.length {
		return 0, false
	}

	n := len(samples)
	if rest := s.length - s.pos; rest < n {
		n = rest
	}

	for i := 0; i < n; i++ {
		if s.pos < s.delay {
			samples[i][0] = 0
			samples[i][1] = 0
			s.pos++
			continue
		}

		var v float64

		if s.noiseEnvLeft > 0 {
			var x float64
			if s.noiseLeft > 0 {
				x = s.noise()
				s.noiseLeft--
			}
			v += s.filter.process(x) * s.noiseLevel
			s.noiseLevel *= s.noiseCoef
			s.noiseEnvLeft--
		}

		for pi := range s.parts {
			p := &s.parts[pi]
			var env float64
			if p.attackLeft > 0 {
				env = p.halfAmp * float64(p.attackLen-p.attackLeft) / float64(p.attackLen)
				p.attackLeft--
			} else {
				env = p.halfAmp * p.env
				p.env *= p.decayCoef
			}
			v += math.Sin(2*math.Pi*p.phase) * env
			_, p.phase = math.Modf(p.phase + p.freq/sampleRate)
		}

		v *= strikeLevel
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}

	return n, true
}

func (s *Strike) Err() error {
	return nil
}
