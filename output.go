package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Sink is the audio output device behind the master stage. The speaker
// implementation drives the platform device; tests substitute a silent one
// so the whole graph can run without audio hardware.
type Sink interface {
	Acquire(sr beep.SampleRate, buf time.Duration) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Release()
}

// SpeakerSink plays through the default audio device.
type SpeakerSink struct{}

func (*SpeakerSink) Acquire(sr beep.SampleRate, buf time.Duration) error {
	return speaker.Init(sr, sr.N(buf))
}

func (*SpeakerSink) Play(s beep.Streamer) { speaker.Play(s) }

func (*SpeakerSink) Lock() { speaker.Lock() }

func (*SpeakerSink) Unlock() { speaker.Unlock() }

func (*SpeakerSink) Release() {
	speaker.Clear()
	speaker.Close()
}
