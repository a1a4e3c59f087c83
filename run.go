package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/input"
	"nescore/hw/snapshot"
	"nescore/ines"
)

// runMain runs the emulator headlessly with the given rom.
func runMain(args Run, cfg emu.Config) error {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return err
	}

	trace := args.Trace
	if trace == nil && cfg.General.Trace != "" {
		trace = &outfile{}
		if err := trace.open(cfg.General.Trace); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}
	if trace != nil {
		defer trace.Close()
		cfg.TraceOut = trace
	}
	if args.Scale != 0 {
		cfg.Video.Scale = args.Scale
	}

	e, err := emu.Launch(rom, cfg)
	if err != nil {
		return fmt.Errorf("failed to start emulator: %w", err)
	}

	if args.Input != "" {
		script, err := input.LoadScript(args.Input)
		if err != nil {
			return err
		}
		e.SetInputScript(script)
	}

	if args.WAV != "" {
		f, err := os.Create(args.WAV)
		if err != nil {
			return err
		}
		defer f.Close()

		sink := emu.NewWAVSink(f, cfg.Audio.SampleRate)
		defer func() {
			if err := sink.Close(); err != nil {
				log.ModSound.ErrorZ("failed to finalize wav").Error("err", err).End()
			}
		}()
		e.SetAudioSink(sink)
	}

	if args.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(args.CPUProfile), profile.NoShutdownHook).Stop()
	}

	// Stop cleanly on Ctrl-C, so that the outputs are still written.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		e.Stop()
	}()

	runErr := e.Run(args.Frames)
	if runErr != nil {
		log.ModEmu.ErrorZ("emulation aborted").Int64("frame", e.Frames()).Error("err", runErr).End()
	}

	// Outputs are written even if the emulation aborted, they help
	// understanding what happened.
	if args.Screenshot != "" {
		if err := e.NES.SaveScreenshot(args.Screenshot, cfg.Video.Scale); err != nil {
			return err
		}
	}
	if args.State != "" {
		if err := os.WriteFile(args.State, snapshot.Marshal(e.NES.Snapshot()), 0644); err != nil {
			return fmt.Errorf("state: %w", err)
		}
	}
	return runErr
}
