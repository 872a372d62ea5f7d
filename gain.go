package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Ramp is a gain stage whose level always moves smoothly toward its target.
// SetTarget approaches exponentially with a time constant; RampOver crosses
// linearly in a fixed time. Both exist because onset fades want a bounded
// duration while releases and volume nudges want a natural decay tail.
type Ramp struct {
	mu        sync.Mutex
	sub       beep.Streamer
	level     float64
	target    float64
	coef      float64
	step      float64
	stepsLeft int
}

func NewRamp(sub beep.Streamer, level float64) *Ramp {
	return &Ramp{
		sub:    sub,
		level:  level,
		target: level,
	}
}

// SetTarget begins an exponential approach toward v with time constant tc.
func (g *Ramp) SetTarget(v float64, tc time.Duration) {
	g.mu.Lock()
	g.target = v
	g.coef = approachCoef(tc.Seconds(), sampleRate)
	g.stepsLeft = 0
	g.mu.Unlock()
}

// RampOver moves linearly to v across d.
func (g *Ramp) RampOver(v float64, d time.Duration) {
	g.mu.Lock()
	n := int(d.Seconds() * sampleRate)
	if n < 1 {
		n = 1
	}
	g.target = v
	g.step = (v - g.level) / float64(n)
	g.stepsLeft = n
	g.mu.Unlock()
}

// Level reports the instantaneous gain.
func (g *Ramp) Level() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

func (g *Ramp) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.sub.Stream(samples)

	g.mu.Lock()
	for i := range samples[:n] {
		if g.stepsLeft > 0 {
			g.level += g.step
			g.stepsLeft--
			if g.stepsLeft == 0 {
				g.level = g.target
			}
		} else {
			g.level += (g.target - g.level) * g.coef
		}
		samples[i][0] *= g.level
		samples[i][1] *= g.level
	}
	g.mu.Unlock()

	return n, ok
}

func (g *Ramp) Err() error {
	return nil
}
