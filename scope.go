package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	scopeWidth  = 1000
	scopeHeight = 600
)

// runScope is the graphical control surface: waveform on top, spectrum
// below, all state shown in the window title. Keys select the root (a..h
// row), the interval (1..6), tuning (t), sound model (m), volume (-/=) and
// space toggles playback.
func runScope(sess *session) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize SDL:", err)
		os.Exit(1)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("tempered", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		scopeWidth, scopeHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create window:", err)
		os.Exit(1)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create renderer:", err)
		os.Exit(1)
	}
	defer renderer.Destroy()

	tap := NewTap(8192)
	sess.c.AttachTap(tap)
	defer sess.c.Stop()

	buf := make([]float64, 2048)

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if event.Type != sdl.KEYDOWN || event.Repeat != 0 {
					continue
				}
				if !scopeKey(sess, event.Keysym.Sym) {
					running = false
				}
			}
		}

		tap.Snapshot(buf)
		spectrum := magnitudeSpectrum(buf)

		renderer.SetDrawColor(16, 16, 24, 255)
		renderer.Clear()

		graphData(renderer, buf[:600], 50, 40, 900, 240, -1, 1)
		graphData(renderer, spectrum[:300], 50, 330, 900, 240, 0, 0.3)

		renderer.Present()
		window.SetTitle("tempered | " + sess.status())
		sdl.Delay(16)
	}
}

// scopeKey applies one key press; reports false when the user quits.
func scopeKey(sess *session, sym sdl.Keycode) bool {
	rootKeys := []sdl.Keycode{sdl.K_a, sdl.K_s, sdl.K_d, sdl.K_f, sdl.K_g, sdl.K_h}
	for i, k := range rootKeys {
		if sym == k {
			sess.setRoot(i)
			return true
		}
	}
	if sym >= sdl.K_1 && sym <= sdl.K_6 {
		sess.setInterval(int(sym - sdl.K_1))
		return true
	}

	switch sym {
	case sdl.K_SPACE:
		if err := sess.c.Toggle(); err != nil {
			logger.Error("start failed", "err", err)
		}
	case sdl.K_t:
		sess.toggleTuning()
	case sdl.K_m:
		if sess.c.State().Sound == ModeDrone {
			sess.c.SwitchSoundMode(ModePiano)
		} else {
			sess.c.SwitchSoundMode(ModeDrone)
		}
	case sdl.K_MINUS:
		sess.c.SetVolume(sess.c.State().Volume - 0.05)
	case sdl.K_EQUALS:
		sess.c.SetVolume(sess.c.State().Volume + 0.05)
	case sdl.K_ESCAPE, sdl.K_q:
		return false
	}
	return true
}

func graphData(renderer *sdl.Renderer, dataPoints []float64, x, y, width, height int32, minval, maxval float64) {
	renderer.SetDrawColor(90, 90, 110, 255)
	renderer.DrawLine(x, y+height/2, x+width, y+height/2)
	renderer.DrawLine(x, y, x, y+height)

	spread := maxval - minval
	if spread <= 0 || len(dataPoints) < 2 {
		return
	}

	renderer.SetDrawColor(120, 220, 160, 255)
	for i := 0; i < len(dataPoints)-1; i++ {
		x1 := x + int32(float64(i)*float64(width)/float64(len(dataPoints)-1))
		y1 := y + height - int32((dataPoints[i]-minval)/spread*float64(height))
		x2 := x + int32(float64(i+1)*float64(width)/float64(len(dataPoints)-1))
		y2 := y + height - int32((dataPoints[i+1]-minval)/spread*float64(height))
		renderer.DrawLine(x1, y1, x2, y2)
	}
}
