package main

import (
	"fmt"
	"strings"
	"sync"
)

// session is the UI side of the boundary: it tracks the listener's root,
// interval and tuning selections and feeds the controller already-resolved
// frequencies. The controller itself never sees note names or ratios.
type session struct {
	mu          sync.Mutex
	c           *Controller
	rootIdx     int
	intervalIdx int
	tuning      Tuning
}

func newSession(c *Controller) *session {
	s := &session{c: c, rootIdx: 1, intervalIdx: 1}
	s.apply()
	return s
}

// apply resolves the current selections into frequencies and pushes them
// down. Called after every selection change so a running engine retunes.
func (s *session) apply() {
	s.mu.Lock()
	root := roots[s.rootIdx]
	iv := intervals[s.intervalIdx]
	tuning := s.tuning
	s.mu.Unlock()

	s.c.SetTuning(tuning)
	s.c.SetFrequencies(root.Hz, IntervalFrequency(root.Hz, iv, tuning))
}

func (s *session) setRoot(i int) {
	if i < 0 || i >= len(roots) {
		return
	}
	s.mu.Lock()
	s.rootIdx = i
	s.mu.Unlock()
	s.apply()
}

func (s *session) setInterval(i int) {
	if i < 0 || i >= len(intervals) {
		return
	}
	s.mu.Lock()
	s.intervalIdx = i
	s.mu.Unlock()
	s.apply()
}

func (s *session) setTuning(t Tuning) {
	s.mu.Lock()
	s.tuning = t
	s.mu.Unlock()
	s.apply()
}

func (s *session) toggleTuning() {
	s.mu.Lock()
	if s.tuning == TuningEqual {
		s.tuning = TuningPure
	} else {
		s.tuning = TuningEqual
	}
	s.mu.Unlock()
	s.apply()
}

func (s *session) selections() (Root, Interval, Tuning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roots[s.rootIdx], intervals[s.intervalIdx], s.tuning
}

// status renders one line the UIs show as-is.
func (s *session) status() string {
	root, iv, tuning := s.selections()
	st := s.c.State()

	var b strings.Builder
	fmt.Fprintf(&b, "%s + %s (%s)", root.Name, iv.Name, NoteName(root.Name, iv.Semitones))
	if tuning == TuningPure {
		fmt.Fprintf(&b, " pure %s", iv.RatioLabel())
	} else {
		b.WriteString(" equal")
	}
	fmt.Fprintf(&b, " | %.2f Hz / %.2f Hz | %s", st.RootHz, st.IntervalHz, st.Sound)
	if st.Playing {
		fmt.Fprintf(&b, " | playing: %s", st.Phase)
	} else {
		b.WriteString(" | stopped")
	}
	return b.String()
}
