package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// PianoEngine re-strikes decaying notes instead of sustaining them: the root
// is struck alone, then after the stagger both notes are struck together and
// re-struck on a fixed period. Stopping cancels the timers but lets in-flight
// strikes ring out, the way lifting a key leaves the dampers off a sounding
// string it no longer controls.
type PianoEngine struct {
	mu      sync.Mutex
	sink    Sink
	bus     *beep.Mixer
	onPhase func(Phase)

	Stagger time.Duration
	Repeat  time.Duration

	rootHz     float64
	intervalHz float64
	both       bool

	stagger *time.Timer
	done    chan struct{}
	gen     int
}

func NewPianoEngine(sink Sink, bus *beep.Mixer, onPhase func(Phase)) *PianoEngine {
	return &PianoEngine{
		sink:    sink,
		bus:     bus,
		onPhase: onPhase,
		Stagger: staggerDelay,
		Repeat:  restrikeEvery,
	}
}

// Start strikes the root immediately and schedules the combined strike plus
// the periodic re-strike loop after the stagger delay.
func (p *PianoEngine) Start(rootHz, intervalHz float64) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.rootHz = rootHz
	p.intervalHz = intervalHz
	p.both = false

	p.strike(p.rootHz)

	p.stagger = time.AfterFunc(p.Stagger, func() {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		p.stagger = nil
		p.both = true
		p.strike(p.rootHz)
		p.strike(p.intervalHz)

		done := make(chan struct{})
		p.done = done
		go p.restrikeLoop(gen, done)
		logger.Debug("interval note joined", "mode", "piano")
		p.onPhase(PhaseBoth)
		p.mu.Unlock()
	})
	p.onPhase(PhaseRootOnly)
	p.mu.Unlock()
}

func (p *PianoEngine) restrikeLoop(gen int, done chan struct{}) {
	tick := time.NewTicker(p.Repeat)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			p.mu.Lock()
			if p.gen != gen {
				p.mu.Unlock()
				return
			}
			p.strike(p.rootHz)
			p.strike(p.intervalHz)
			p.mu.Unlock()
		case <-done:
			return
		}
	}
}

// strike puts a fresh one-shot on the bus. Callers hold p.mu.
func (p *PianoEngine) strike(freq float64) {
	s := NewStrike(freq, 0)
	p.sink.Lock()
	p.bus.Add(s)
	p.sink.Unlock()
}

// Retune stores the new frequencies and, when both notes are already
// sounding, re-strikes them immediately. A percussive note cannot glide, so
// a fresh strike is the only honest way to voice the change.
func (p *PianoEngine) Retune(rootHz, intervalHz float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rootHz = rootHz
	p.intervalHz = intervalHz
	if p.both {
		p.strike(p.rootHz)
		p.strike(p.intervalHz)
	}
}

// Stop cancels the pending stagger and the re-strike loop. In-flight strikes
// are left to decay on the bus. Idempotent.
func (p *PianoEngine) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if t := p.stagger; t != nil {
		t.Stop()
		p.stagger = nil
	}
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	p.both = false
}
