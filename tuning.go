package main

import (
	"fmt"
	"math"
	"strconv"
)

// Tuning selects how the interval frequency is derived from the root.
type Tuning int

const (
	TuningEqual Tuning = iota
	TuningPure
)

func (t Tuning) String() string {
	if t == TuningPure {
		return "pure"
	}
	return "equal"
}

// Root is a selectable root pitch.
type Root struct {
	Name string
	Hz   float64
}

var roots = []Root{
	{"C4", 261.63},
	{"D4", 293.66},
	{"E4", 329.63},
	{"F4", 349.23},
	{"G4", 392.00},
	{"A4", 440.00},
}

// Interval is a selectable harmonic interval: its equal-tempered width in
// semitones and its just-intonation frequency ratio as a small fraction.
type Interval struct {
	Name      string
	Short     string
	Semitones int
	Num, Den  int
}

var intervals = []Interval{
	{"Minor 3rd", "m3", 3, 6, 5},
	{"Major 3rd", "M3", 4, 5, 4},
	{"Perfect 4th", "P4", 5, 4, 3},
	{"Perfect 5th", "P5", 7, 3, 2},
	{"Major 6th", "M6", 9, 5, 3},
	{"Octave", "P8", 12, 2, 1},
}

func (iv Interval) PureRatio() float64 {
	return float64(iv.Num) / float64(iv.Den)
}

func (iv Interval) RatioLabel() string {
	return fmt.Sprintf("%d:%d", iv.Num, iv.Den)
}

// IntervalFrequency resolves the upper pitch of an interval. Equal
// temperament stretches or compresses the pure ratio onto the 12-tone grid,
// which is what makes the two tunings beat differently against each other.
func IntervalFrequency(rootHz float64, iv Interval, t Tuning) float64 {
	if t == TuningPure {
		return rootHz * iv.PureRatio()
	}
	return rootHz * math.Pow(2, float64(iv.Semitones)/12)
}

var noteNames = []string{
	"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B",
}

func noteIndex(name string) (int, bool) {
	for i, n := range noteNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// splitNoteName breaks a label like "F#4" into its letter part and octave.
func splitNoteName(name string) (string, int) {
	letters := name
	octave := 4
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] < '0' || name[i] > '9' {
			letters = name[:i+1]
			if i+1 < len(name) {
				if o, err := strconv.Atoi(name[i+1:]); err == nil {
					octave = o
				}
			}
			break
		}
	}
	return letters, octave
}

// NoteName renders the pitch a number of semitones above a root label, so
// "D4" plus four semitones comes out as "F#4".
func NoteName(root string, semitones int) string {
	letters, octave := splitNoteName(root)
	ix, ok := noteIndex(letters)
	if !ok {
		return root
	}

	total := ix + semitones
	octave += total / 12
	total %= 12
	if total < 0 {
		total += 12
		octave--
	}
	return fmt.Sprintf("%s%d", noteNames[total], octave)
}
