package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

const (
	// Level each voice sub-mix settles at. Two six-partial voices at this
	// level stay comfortably under the master stage's headroom.
	voiceLevel = 0.35

	// Time constant for fading the interval voice in at the stagger point.
	intervalFadeTC = 80 * time.Millisecond
)

// DroneEngine owns the two sustained voices and the staggered entry of the
// interval voice: the root sounds alone first, then the interval fades in so
// the ear can hear it join. Every timer handle is owned here and cancelled
// synchronously on Stop; a generation counter keeps a stagger that races
// Stop from ever firing late.
type DroneEngine struct {
	mu      sync.Mutex
	sink    Sink
	bus     *beep.Mixer
	onPhase func(Phase)

	Stagger time.Duration

	root     *Voice
	interval *Voice
	stagger  *time.Timer
	gen      int
}

func NewDroneEngine(sink Sink, bus *beep.Mixer, onPhase func(Phase)) *DroneEngine {
	return &DroneEngine{
		sink:    sink,
		bus:     bus,
		onPhase: onPhase,
		Stagger: staggerDelay,
	}
}

// Start builds the root voice at full sub-mix and the interval voice parked
// at zero, puts both on the bus, and schedules the interval's fade-in.
func (d *DroneEngine) Start(rootHz, intervalHz float64) {
	d.mu.Lock()
	d.gen++
	gen := d.gen

	d.root = NewVoice(droneSpec(rootHz), voiceLevel)
	d.interval = NewVoice(droneSpec(intervalHz), 0)

	d.sink.Lock()
	d.bus.Add(d.root, d.interval)
	d.sink.Unlock()

	d.stagger = time.AfterFunc(d.Stagger, func() {
		d.mu.Lock()
		if d.gen != gen || d.interval == nil {
			d.mu.Unlock()
			return
		}
		d.stagger = nil
		d.interval.FadeTo(voiceLevel, intervalFadeTC)
		logger.Debug("interval voice joined", "mode", "drone")
		d.onPhase(PhaseBoth)
		d.mu.Unlock()
	})
	d.onPhase(PhaseRootOnly)
	d.mu.Unlock()
}

// Retune glides both live voices toward the new frequencies.
func (d *DroneEngine) Retune(rootHz, intervalHz float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.root != nil {
		d.root.Retune(rootHz)
	}
	if d.interval != nil {
		d.interval.Retune(intervalHz)
	}
}

// Stop cancels any pending stagger and kills both voices. Idempotent: a
// second Stop, or a Stop racing the stagger timer, is a no-op.
func (d *DroneEngine) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if t := d.stagger; t != nil {
		t.Stop()
		d.stagger = nil
	}
	if d.root != nil {
		d.root.Stop()
		d.root = nil
	}
	if d.interval != nil {
		d.interval.Stop()
		d.interval = nil
	}
}
