package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	sampleRate   = 44100
	outputBuffer = time.Second / 10
)

// logger is the package-wide structured logger. Safe to use before
// initLogger runs; defaults to slog.Default().
var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	ui := flag.String("ui", "scope", "control surface: scope, console, midi, demo")
	vol := flag.Float64("volume", 0.5, "initial master volume (0..1)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	initLogger(*debug)

	c := NewController(&SpeakerSink{})
	c.SetVolume(*vol)
	sess := newSession(c)

	switch *ui {
	case "console":
		runConsole(sess)
	case "midi":
		in, err := OpenMidi(sess)
		if err != nil {
			fmt.Fprintln(os.Stderr, "midi input:", err)
			os.Exit(1)
		}
		defer in.Close()
		runConsole(sess)
	case "demo":
		runDemo(sess)
	default:
		runScope(sess)
	}
}

// runDemo plays a fixed comparison sequence: the drone in equal temperament,
// the same interval pure, then the piano model, so a listener can hear the
// beating appear and disappear without touching a control.
func runDemo(sess *session) {
	fmt.Println(sess.status())

	if err := sess.c.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	time.Sleep(4 * time.Second)

	fmt.Println("switching to pure tuning")
	sess.setTuning(TuningPure)
	time.Sleep(4 * time.Second)

	fmt.Println("switching to piano model")
	sess.c.SwitchSoundMode(ModePiano)
	time.Sleep(8 * time.Second)

	sess.c.Stop()
	time.Sleep(500 * time.Millisecond)
}
