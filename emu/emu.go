package emu

import (
	"fmt"
	"sync/atomic"
	"time"

	"nescore/emu/log"
	"nescore/hw/input"
	"nescore/ines"
)

// Emulator runs a console without any window, feeding it scripted input and
// directing its audio to a sink.
type Emulator struct {
	NES *NES

	script *input.Script
	sink   AudioSink
	frame  int64 // frames run since launch

	// Stop can be called from another goroutine.
	quit atomic.Bool
}

// Launch powers up a console with the cartridge for rom, and sets up CPU
// tracing. It doesn't start the emulation loop, call Run for that.
func Launch(rom *ines.Rom, cfg Config) (*Emulator, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	nes, err := PowerUp(rom, cfg.Audio.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	if cfg.TraceOut != nil {
		nes.CPU.SetTraceOutput(cfg.TraceOut)
	}

	return &Emulator{NES: nes}, nil
}

// SetInputScript sets the script providing controllers input. Without
// script, no buttons are pressed.
func (e *Emulator) SetInputScript(s *input.Script) {
	e.script = s
}

// SetAudioSink sets the sink receiving audio samples.
func (e *Emulator) SetAudioSink(sink AudioSink) {
	e.sink = sink
}

// Frames returns the number of frames run so far.
func (e *Emulator) Frames() int64 {
	return e.frame
}

// RunOneFrame applies the scripted input for the current frame, then runs
// the console for one frame.
func (e *Emulator) RunOneFrame() error {
	if e.script != nil {
		e.NES.UpdateInputState(e.script.At(e.frame))
	}
	if err := e.NES.NextFrame(e.sink); err != nil {
		return err
	}
	e.frame++
	return nil
}

// Run runs n frames, or until Stop is called if n <= 0.
func (e *Emulator) Run(n int64) error {
	start := time.Now()
	first := e.frame
	defer func() {
		elapsed := time.Since(start)
		nframes := e.frame - first
		log.ModEmu.InfoZ("emulation stopped").
			Int64("frames", nframes).
			Duration("elapsed", elapsed).
			Int("fps", int(float64(nframes)/max(elapsed.Seconds(), 1e-9))).
			End()
	}()

	for !e.quit.Load() {
		if n > 0 && e.frame-first >= n {
			return nil
		}
		if err := e.RunOneFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Stop makes Run return at the end of the current frame.
func (e *Emulator) Stop() {
	e.quit.Store(true)
}
