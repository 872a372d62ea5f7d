package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
)

const (
	staggerDelay  = 1200 * time.Millisecond
	restrikeEvery = 3 * time.Second

	fadeInTime     = 300 * time.Millisecond
	fadeOutTC      = 80 * time.Millisecond
	teardownDelay  = 250 * time.Millisecond
	switchSettle   = 300 * time.Millisecond
	volumeRampTime = 50 * time.Millisecond

	maxVolume = 1.0
)

// Phase is the playback lifecycle stage, not waveform phase: the root sounds
// alone before the interval joins it.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRootOnly
	PhaseBoth
)

func (p Phase) String() string {
	switch p {
	case PhaseRootOnly:
		return "root only"
	case PhaseBoth:
		return "both"
	default:
		return "idle"
	}
}

// SoundMode selects the timbre model.
type SoundMode int

const (
	ModeDrone SoundMode = iota
	ModePiano
)

func (m SoundMode) String() string {
	if m == ModePiano {
		return "piano"
	}
	return "drone"
}

// PlaybackState is the observable state surface the UI renders from.
type PlaybackState struct {
	Playing    bool
	Phase      Phase
	Sound      SoundMode
	Tuning     Tuning
	Volume     float64
	RootHz     float64
	IntervalHz float64
}

// Controller owns the master output stage and drives exactly one of the two
// engines at a time. All public operations serialize on one mutex; the state
// snapshot has its own lock so engine timers can report phase changes without
// touching the operation lock.
type Controller struct {
	mu sync.Mutex

	sink   Sink
	bus    *beep.Mixer
	master *Ramp
	tap    *Tap

	drone *DroneEngine
	piano *PianoEngine

	teardown *time.Timer
	settle   *time.Timer
	stopping bool

	stateMu sync.Mutex
	state   PlaybackState
}

func NewController(sink Sink) *Controller {
	c := &Controller{
		sink: sink,
		bus:  &beep.Mixer{},
	}
	c.drone = NewDroneEngine(sink, c.bus, c.setPhase)
	c.piano = NewPianoEngine(sink, c.bus, c.setPhase)

	c.state = PlaybackState{
		Sound:      ModeDrone,
		Tuning:     TuningEqual,
		Volume:     0.5,
		RootHz:     roots[1].Hz,
		IntervalHz: IntervalFrequency(roots[1].Hz, intervals[1], TuningEqual),
	}
	return c
}

// AttachTap routes the master stage through a scope tap. Must be called
// before playback starts.
func (c *Controller) AttachTap(t *Tap) {
	c.mu.Lock()
	c.tap = t
	c.mu.Unlock()
}

// State returns a snapshot of the observable playback state.
func (c *Controller) State() PlaybackState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Controller) setPhase(p Phase) {
	c.stateMu.Lock()
	c.state.Phase = p
	c.stateMu.Unlock()
}

func (c *Controller) setPlaying(b bool) {
	c.stateMu.Lock()
	c.state.Playing = b
	c.stateMu.Unlock()
}

// Toggle starts playback when stopped and stops it when running.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State().Playing {
		c.stop(true)
		return nil
	}
	return c.start()
}

// Start acquires the output stage and begins playback in the current sound
// mode. On failure nothing is left running and the error is returned.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start()
}

// Stop halts playback from any phase. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop(true)
}

func (c *Controller) start() error {
	if c.master != nil && !c.stopping {
		return nil
	}

	// A start during the teardown tail finishes the teardown now.
	if t := c.teardown; t != nil {
		t.Stop()
		c.teardown = nil
		c.stopping = false
		c.releaseOutput()
	}
	if t := c.settle; t != nil {
		t.Stop()
		c.settle = nil
	}

	if err := c.sink.Acquire(beep.SampleRate(sampleRate), outputBuffer); err != nil {
		c.setPlaying(false)
		c.setPhase(PhaseIdle)
		return fmt.Errorf("acquire audio output: %w", err)
	}

	c.bus.Clear()
	c.master = NewRamp(c.bus, 0)

	st := c.State()
	c.master.RampOver(st.Volume, fadeInTime)

	var out beep.Streamer = c.master
	if c.tap != nil {
		c.tap.SetSource(c.master)
		out = c.tap
	}
	c.sink.Play(out)
	c.setPlaying(true)
	c.setPhase(PhaseRootOnly)

	switch st.Sound {
	case ModePiano:
		c.piano.Start(st.RootHz, st.IntervalHz)
	default:
		c.drone.Start(st.RootHz, st.IntervalHz)
	}

	logger.Info("playback started", "sound", st.Sound, "root", st.RootHz, "interval", st.IntervalHz)
	return nil
}

// stop tears playback down. markIdle is false only during a mode switch,
// which keeps the playing flag up across the stop/restart pair.
func (c *Controller) stop(markIdle bool) {
	if c.master == nil || c.stopping {
		// Nothing to fade, but a stop issued mid-switch still has to win
		// against the pending restart.
		if markIdle {
			if t := c.settle; t != nil {
				t.Stop()
				c.settle = nil
			}
			c.setPlaying(false)
			c.setPhase(PhaseIdle)
		}
		return
	}

	// Both engines unconditionally: a mode switch mid-flight may have left
	// either one holding resources, and stopping twice is a no-op.
	c.drone.Stop()
	c.piano.Stop()

	c.master.SetTarget(0, fadeOutTC)
	c.stopping = true

	var t *time.Timer
	t = time.AfterFunc(teardownDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.teardown != t {
			return
		}
		c.teardown = nil
		c.stopping = false
		c.releaseOutput()
	})
	c.teardown = t

	if markIdle {
		c.setPlaying(false)
		c.setPhase(PhaseIdle)
		logger.Info("playback stopped")
	}
}

// releaseOutput destroys the output stage. Callers hold c.mu.
func (c *Controller) releaseOutput() {
	if c.master == nil {
		return
	}
	c.sink.Release()
	c.master = nil
}

// SwitchSoundMode swaps the timbre model. While running this is always a
// full stop and restart, never a live cross-fade: the new engine rejoins
// through its own stagger choreography after the old output stage has had
// time to release.
func (c *Controller) SwitchSoundMode(m SoundMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State().Sound == m {
		return
	}
	c.stateMu.Lock()
	c.state.Sound = m
	c.stateMu.Unlock()

	if !c.State().Playing {
		return
	}

	c.stop(false)
	c.setPhase(PhaseRootOnly)

	var t *time.Timer
	t = time.AfterFunc(switchSettle, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.settle != t {
			return
		}
		c.settle = nil
		if err := c.start(); err != nil {
			logger.Error("restart after mode switch failed", "err", err)
			c.setPlaying(false)
			c.setPhase(PhaseIdle)
		}
	})
	c.settle = t
}

// SetTuning records the tuning mode for display. The boundary recomputes the
// interval frequency and feeds it through SetFrequencies.
func (c *Controller) SetTuning(t Tuning) {
	c.stateMu.Lock()
	c.state.Tuning = t
	c.stateMu.Unlock()
}

// SetFrequencies updates the live frequency inputs and forwards them to the
// active engine: the drone glides, the piano re-strikes.
func (c *Controller) SetFrequencies(rootHz, intervalHz float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stateMu.Lock()
	c.state.RootHz = rootHz
	c.state.IntervalHz = intervalHz
	c.stateMu.Unlock()

	st := c.State()
	if !st.Playing || c.master == nil || c.stopping {
		return
	}
	switch st.Sound {
	case ModePiano:
		c.piano.Retune(rootHz, intervalHz)
	default:
		c.drone.Retune(rootHz, intervalHz)
	}
}

// SetVolume ramps the master gain toward v. Never jumps, regardless of
// whether playback is running.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > maxVolume {
		v = maxVolume
	}
	c.stateMu.Lock()
	c.state.Volume = v
	c.stateMu.Unlock()

	if c.master != nil && !c.stopping {
		c.master.RampOver(v, volumeRampTime)
	}
}
