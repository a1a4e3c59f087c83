package emu

import (
	"bytes"
	"strings"
	"testing"

	"nescore/hw/input"
)

func TestEmulatorRun(t *testing.T) {
	const script = `
[[event]]
frame = 2
pad1 = "A"

[[event]]
frame = 5
`
	s, err := input.ParseScript(strings.NewReader(script))
	if err != nil {
		t.Fatal(err)
	}

	e, err := Launch(inputProgram.rom(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.SetInputScript(s)
	var sink recordSink
	e.SetAudioSink(&sink)

	if err := e.Run(8); err != nil {
		t.Fatal(err)
	}
	if e.Frames() != 8 {
		t.Errorf("Frames() = %d, want 8", e.Frames())
	}
	if len(sink.frames) != 8 {
		t.Errorf("sink received %d frames, want 8", len(sink.frames))
	}

	// Controller reads stored by the NMI handler: released, then pressed,
	// then released again.
	ram := e.NES.RAM.Data
	reads := ram[0x20 : 0x20+int(ram[0x10])]
	first := bytes.IndexByte(reads, 0x41)
	last := bytes.LastIndexByte(reads, 0x41)
	if first <= 0 || last == len(reads)-1 {
		t.Errorf("unexpected controller reads % x", reads)
	}
	for _, b := range reads[first : last+1] {
		if b != 0x41 {
			t.Errorf("A released while scripted as pressed: % x", reads)
			break
		}
	}
}

func TestEmulatorStop(t *testing.T) {
	e, err := Launch(inputProgram.rom(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	e.Stop()
	if err := e.Run(0); err != nil {
		t.Fatal(err)
	}
	if e.Frames() != 0 {
		t.Errorf("Frames() = %d after Stop, want 0", e.Frames())
	}
}

type nopCloser struct{ bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestEmulatorTrace(t *testing.T) {
	var trace nopCloser
	cfg := DefaultConfig()
	cfg.TraceOut = &trace

	e, err := Launch(inputProgram.rom(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(1); err != nil {
		t.Fatal(err)
	}

	first, _, _ := strings.Cut(trace.String(), "\n")
	if !strings.HasPrefix(first, "8000  A9 80") {
		t.Errorf("unexpected first trace line %q", first)
	}
}

func TestLaunchInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.SampleRate = 0
	if _, err := Launch(inputProgram.rom(t), cfg); err == nil {
		t.Errorf("Launch should fail with an invalid sample rate")
	}
}
