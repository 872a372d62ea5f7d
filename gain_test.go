package main

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// unit is a constant full-scale source for driving gain stages in tests.
var unit beep.StreamerFunc = func(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0] = 1
		samples[i][1] = 1
	}
	return len(samples), true
}

func pull(t *testing.T, s beep.Streamer, n int) []float64 {
	t.Helper()
	out := make([]float64, 0, n)
	buf := make([][2]float64, 512)
	for len(out) < n {
		want := n - len(out)
		if want > len(buf) {
			want = len(buf)
		}
		got, ok := s.Stream(buf[:want])
		if !ok {
			break
		}
		for i := 0; i < got; i++ {
			out = append(out, buf[i][0])
		}
	}
	return out
}

func TestRampLinearReachesTargetExactly(t *testing.T) {
	g := NewRamp(unit, 0)
	g.RampOver(0.8, 100*time.Millisecond)

	n := samplesIn(100 * time.Millisecond)
	out := pull(t, g, n+100)

	if got := g.Level(); got != 0.8 {
		t.Fatalf("expected exact target after linear ramp, got %v", got)
	}
	for i, v := range out {
		if v < -1e-9 || v > 0.8+1e-9 {
			t.Fatalf("ramp output out of bounds at %d: %v", i, v)
		}
	}
	// Tail samples sit at the target.
	for _, v := range out[n:] {
		if math.Abs(v-0.8) > 1e-9 {
			t.Fatalf("expected steady 0.8 after ramp, got %v", v)
		}
	}
}

func TestRampExponentialConverges(t *testing.T) {
	g := NewRamp(unit, 0)
	g.SetTarget(0.6, 50*time.Millisecond)

	pull(t, g, sampleRate) // one second, many time constants
	if got := g.Level(); math.Abs(got-0.6) > 1e-3 {
		t.Fatalf("expected convergence to 0.6, got %v", got)
	}
}

func TestRampNeverOvershoots(t *testing.T) {
	g := NewRamp(unit, 0)
	g.SetTarget(1.0, 10*time.Millisecond)
	out := pull(t, g, sampleRate/2)

	prev := -1.0
	for i, v := range out {
		if v > 1.0+1e-9 {
			t.Fatalf("overshoot at %d: %v", i, v)
		}
		if v < prev-1e-9 {
			t.Fatalf("non-monotonic rise at %d: %v -> %v", i, prev, v)
		}
		prev = v
	}
}

func TestRampRetarget(t *testing.T) {
	g := NewRamp(unit, 0)
	g.SetTarget(0.9, 10*time.Millisecond)
	pull(t, g, sampleRate/4)

	g.RampOver(0.2, 50*time.Millisecond)
	pull(t, g, sampleRate/2)
	if got := g.Level(); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected retarget to land on 0.2, got %v", got)
	}
}
