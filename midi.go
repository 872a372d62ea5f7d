package main

import (
	"time"

	"github.com/rakyll/portmidi"
)

// MidiInput maps a MIDI keyboard onto the session: note-ons pick the root
// pitch by pitch class, the first knob drives master volume. Playback is
// still toggled from the console or scope; a keyboard only steers what the
// comparison is built on.
type MidiInput struct {
	sess   *session
	stream *portmidi.Stream
	done   chan struct{}
}

func OpenMidi(sess *session) (*MidiInput, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, err
	}

	in, err := portmidi.NewInputStream(portmidi.DefaultInputDeviceID(), 1024)
	if err != nil {
		portmidi.Terminate()
		return nil, err
	}

	m := &MidiInput{
		sess:   sess,
		stream: in,
		done:   make(chan struct{}),
	}
	go m.run()
	return m, nil
}

func (m *MidiInput) Close() {
	close(m.done)
	m.stream.Close()
	portmidi.Terminate()
}

func (m *MidiInput) run() {
	for {
		select {
		case <-m.done:
			return
		default:
		}

		events, err := m.stream.Read(1024)
		if err != nil {
			logger.Error("midi read failed", "err", err)
			return
		}
		if len(events) == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		for _, event := range events {
			switch event.Status {
			case 0x90:
				if event.Data2 == 0 {
					continue
				}
				if i, ok := rootForPitchClass(int(event.Data1 % 12)); ok {
					m.sess.setRoot(i)
				}
			case 0xb0:
				m.sess.c.SetVolume(float64(event.Data2) / 127)
			}
		}
	}
}

// rootForPitchClass finds the selectable root matching a MIDI pitch class.
func rootForPitchClass(pc int) (int, bool) {
	for i, r := range roots {
		letters, _ := splitNoteName(r.Name)
		if ix, ok := noteIndex(letters); ok && ix == pc {
			return i, true
		}
	}
	return 0, false
}
