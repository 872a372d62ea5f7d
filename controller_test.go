package main

import (
	"errors"
	"testing"
	"time"
)

func newControllerUnderTest() (*Controller, *nullSink) {
	sink := &nullSink{}
	c := NewController(sink)
	c.drone.Stagger = 40 * time.Millisecond
	c.piano.Stagger = 40 * time.Millisecond
	c.piano.Repeat = 50 * time.Millisecond
	return c, sink
}

func TestControllerToggleLifecycle(t *testing.T) {
	c, sink := newControllerUnderTest()

	if st := c.State(); st.Playing || st.Phase != PhaseIdle {
		t.Fatalf("fresh controller not idle: %+v", st)
	}

	if err := c.Toggle(); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	if !st.Playing || st.Phase != PhaseRootOnly {
		t.Fatalf("after toggle on: %+v", st)
	}
	if !sink.isAcquired() {
		t.Fatal("output not acquired")
	}

	time.Sleep(150 * time.Millisecond)
	if st := c.State(); st.Phase != PhaseBoth {
		t.Fatalf("interval never joined: %+v", st)
	}

	if err := c.Toggle(); err != nil {
		t.Fatal(err)
	}
	st = c.State()
	if st.Playing || st.Phase != PhaseIdle {
		t.Fatalf("after toggle off: %+v", st)
	}
}

func TestControllerStartFailureLeavesNothingRunning(t *testing.T) {
	c, sink := newControllerUnderTest()
	sink.failWith = errNoDevice

	err := c.Start()
	if !errors.Is(err, errNoDevice) {
		t.Fatalf("expected device error, got %v", err)
	}
	if st := c.State(); st.Playing || st.Phase != PhaseIdle {
		t.Fatalf("failed start left state running: %+v", st)
	}
	if sink.isAcquired() {
		t.Fatal("failed start left output acquired")
	}
}

func TestControllerStopReleasesOutputAfterFade(t *testing.T) {
	c, sink := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.Stop()

	// The output stage lingers while the master gain fades out.
	if !sink.isAcquired() {
		t.Fatal("output released before the fade finished")
	}
	time.Sleep(teardownDelay + 150*time.Millisecond)
	if sink.isAcquired() {
		t.Fatal("output never released after stop")
	}

	c.Stop() // idempotent
}

func TestControllerStopBeforeStaggerNeverReportsBoth(t *testing.T) {
	c, _ := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.Stop()
	time.Sleep(150 * time.Millisecond)

	if st := c.State(); st.Phase != PhaseIdle {
		t.Fatalf("phase after early stop: %v", st.Phase)
	}
}

func TestControllerRestartDuringTeardownReacquires(t *testing.T) {
	c, sink := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.Stop()
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	time.Sleep(teardownDelay + 150*time.Millisecond)
	st := c.State()
	if !st.Playing || !sink.isAcquired() {
		t.Fatalf("restart lost to stale teardown: playing=%v acquired=%v", st.Playing, sink.isAcquired())
	}
	c.Stop()
}

func TestControllerSwitchSoundModeRestarts(t *testing.T) {
	c, sink := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	c.SwitchSoundMode(ModePiano)
	st := c.State()
	if !st.Playing || st.Sound != ModePiano {
		t.Fatalf("mode switch dropped playback: %+v", st)
	}
	if st.Phase != PhaseRootOnly {
		t.Fatalf("mode switch must re-enter through root-only, got %v", st.Phase)
	}

	// Settle window plus the new engine's stagger.
	time.Sleep(switchSettle + 200*time.Millisecond)
	st = c.State()
	if !st.Playing || st.Phase != PhaseBoth || !sink.isAcquired() {
		t.Fatalf("piano never came up after switch: %+v acquired=%v", st, sink.isAcquired())
	}
	c.Stop()
}

func TestControllerSwitchSoundModeWhileStopped(t *testing.T) {
	c, sink := newControllerUnderTest()

	c.SwitchSoundMode(ModePiano)
	if st := c.State(); st.Sound != ModePiano || st.Playing {
		t.Fatalf("switch while stopped: %+v", st)
	}
	if sink.isAcquired() {
		t.Fatal("switch while stopped touched the output")
	}
}

func TestControllerStopDuringSettleWins(t *testing.T) {
	c, sink := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.SwitchSoundMode(ModePiano)
	c.Stop()

	time.Sleep(switchSettle + 200*time.Millisecond)
	st := c.State()
	if st.Playing || st.Phase != PhaseIdle {
		t.Fatalf("settle restart beat an explicit stop: %+v", st)
	}
	if sink.isAcquired() {
		t.Fatal("output still acquired after stop won the settle race")
	}
}

func TestControllerSetVolumeClamps(t *testing.T) {
	c, _ := newControllerUnderTest()

	c.SetVolume(2.5)
	if got := c.State().Volume; got != maxVolume {
		t.Fatalf("volume not clamped high: %v", got)
	}
	c.SetVolume(-1)
	if got := c.State().Volume; got != 0 {
		t.Fatalf("volume not clamped low: %v", got)
	}
}

func TestControllerSetFrequenciesWhileStopped(t *testing.T) {
	c, _ := newControllerUnderTest()

	c.SetFrequencies(440, 660)
	st := c.State()
	if st.RootHz != 440 || st.IntervalHz != 660 {
		t.Fatalf("frequencies not recorded: %+v", st)
	}
	if st.Playing {
		t.Fatal("setting frequencies must not start playback")
	}
}

func TestControllerRetuneForwardsToDrone(t *testing.T) {
	c, sink := newControllerUnderTest()

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()

	c.SetFrequencies(329.63, 415.30)
	lockedChunk(sink, c.master, sampleRate) // stream a second so glides land

	if f := c.drone.root.oscs[0].Frequency(); f < 329 || f > 330.5 {
		t.Fatalf("retune did not reach the drone engine: %v", f)
	}
}
