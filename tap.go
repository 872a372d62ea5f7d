package main

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap sits between the master stage and the output device and mirrors the
// most recent mono samples into a ring buffer, so the scope can draw the
// signal without touching the audio path.
type Tap struct {
	mu   sync.Mutex
	src  beep.Streamer
	ring []float64
	pos  int
}

func NewTap(size int) *Tap {
	return &Tap{ring: make([]float64, size)}
}

// SetSource points the tap at a new master stage. The output stage is
// recreated on every start, the tap survives across sessions.
func (t *Tap) SetSource(src beep.Streamer) {
	t.mu.Lock()
	t.src = src
	t.mu.Unlock()
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	src := t.src
	t.mu.Unlock()

	if src == nil {
		for i := range samples {
			samples[i][0] = 0
			samples[i][1] = 0
		}
		return len(samples), true
	}

	n, ok := src.Stream(samples)

	t.mu.Lock()
	for i := range samples[:n] {
		t.ring[t.pos%len(t.ring)] = samples[i][0]
		t.pos++
	}
	t.mu.Unlock()

	return n, ok
}

// Snapshot copies the most recent samples into dst, oldest first, and
// reports how many were written.
func (t *Tap) Snapshot(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(dst)
	if len(t.ring) < n {
		n = len(t.ring)
	}
	start := t.pos + len(t.ring) - n
	for i := 0; i < n; i++ {
		dst[i] = t.ring[(start+i)%len(t.ring)]
	}
	return n
}

func (t *Tap) Err() error {
	return nil
}
