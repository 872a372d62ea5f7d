package main

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func newPianoUnderTest() (*PianoEngine, *beep.Mixer, *nullSink, *phaseLog) {
	sink := &nullSink{}
	bus := &beep.Mixer{}
	log := &phaseLog{}
	p := NewPianoEngine(sink, bus, log.add)
	p.Stagger = 40 * time.Millisecond
	p.Repeat = 50 * time.Millisecond
	return p, bus, sink, log
}

func TestPianoStrikesRootThenBoth(t *testing.T) {
	p, bus, sink, log := newPianoUnderTest()

	p.Start(293.66, 369.99)
	defer p.Stop()

	if got := mixerLen(sink, bus); got != 1 {
		t.Fatalf("expected a single root strike at start, got %d", got)
	}
	if got := log.list(); len(got) != 1 || got[0] != PhaseRootOnly {
		t.Fatalf("expected root-only right after start, got %v", got)
	}

	time.Sleep(100 * time.Millisecond)

	if got := mixerLen(sink, bus); got < 3 {
		t.Fatalf("expected combined strike after stagger, got %d on bus", got)
	}
	got := log.list()
	if len(got) != 2 || got[1] != PhaseBoth {
		t.Fatalf("expected stagger to report both, got %v", got)
	}
}

func TestPianoRestrikesPeriodically(t *testing.T) {
	p, bus, sink, _ := newPianoUnderTest()

	p.Start(293.66, 369.99)
	defer p.Stop()

	// Stagger plus at least two re-strike periods: 1 root strike, 2 at the
	// stagger, then 2 per tick. Nothing drains because nothing streams.
	time.Sleep(250 * time.Millisecond)
	if got := mixerLen(sink, bus); got < 7 {
		t.Fatalf("expected periodic re-strikes, got %d on bus", got)
	}
}

func TestPianoRetuneRestrikesWhenBothSounding(t *testing.T) {
	p, bus, sink, _ := newPianoUnderTest()
	p.Repeat = time.Hour // keep the loop out of the count

	p.Start(293.66, 369.99)
	defer p.Stop()
	time.Sleep(100 * time.Millisecond)

	before := mixerLen(sink, bus)
	p.Retune(329.63, 415.30)
	if got := mixerLen(sink, bus); got != before+2 {
		t.Fatalf("expected retune to strike both notes, got %d -> %d", before, got)
	}
}

func TestPianoRetuneBeforeStaggerIsSilent(t *testing.T) {
	p, bus, sink, _ := newPianoUnderTest()
	p.Stagger = time.Hour

	p.Start(293.66, 369.99)
	defer p.Stop()

	p.Retune(329.63, 415.30)
	if got := mixerLen(sink, bus); got != 1 {
		t.Fatalf("retune before the interval joins must not strike, got %d", got)
	}
}

func TestPianoStopLetsStrikesRingOut(t *testing.T) {
	p, bus, sink, _ := newPianoUnderTest()

	p.Start(293.66, 369.99)
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	frozen := mixerLen(sink, bus)
	time.Sleep(200 * time.Millisecond)
	if got := mixerLen(sink, bus); got != frozen {
		t.Fatalf("strikes scheduled after stop: %d -> %d", frozen, got)
	}

	// The bus still carries sound while the in-flight strikes decay.
	out := lockedChunk(sink, bus, 4096)
	if rms(out) == 0 {
		t.Fatal("expected in-flight strikes to keep ringing after stop")
	}
}

func TestPianoStopBeforeStaggerCancelsIt(t *testing.T) {
	p, bus, sink, log := newPianoUnderTest()

	p.Start(293.66, 369.99)
	p.Stop()
	time.Sleep(150 * time.Millisecond)

	if got := mixerLen(sink, bus); got != 1 {
		t.Fatalf("stagger strike fired after stop, %d on bus", got)
	}
	for _, ph := range log.list() {
		if ph == PhaseBoth {
			t.Fatal("stagger fired after stop")
		}
	}
	p.Stop() // double stop is a no-op
}

func TestPianoNeverReportsPhaseAfterStop(t *testing.T) {
	p, _, _, log := newPianoUnderTest()
	p.Stagger = time.Millisecond

	for i := 0; i < 100; i++ {
		p.Start(293.66, 369.99)
		time.Sleep(time.Duration(i%3) * time.Millisecond)
		p.Stop()

		n := len(log.list())
		time.Sleep(2 * time.Millisecond)
		if got := log.list(); len(got) != n {
			t.Fatalf("phase reported after stop on round %d: %v", i, got[n:])
		}
	}
}
