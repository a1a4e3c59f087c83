package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"nescore/emu"
	"nescore/ines"
)

type checkResult struct {
	path   string
	mapper string
	frames int64
	err    error
}

func (r checkResult) String() string {
	status := "ok"
	if r.err != nil {
		status = "FAIL: " + r.err.Error()
	}
	return fmt.Sprintf("%-40s %-6s %5d frames  %s", r.path, r.mapper, r.frames, status)
}

// checkROM loads and runs a ROM for the given number of frames.
func checkROM(ctx context.Context, path string, frames int64, cfg emu.Config) checkResult {
	res := checkResult{path: path, mapper: "-"}

	rom, err := ines.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	e, err := emu.Launch(rom, cfg)
	if err != nil {
		res.err = err
		return res
	}
	res.mapper = e.NES.Cart.Desc.Name

	for e.Frames() < frames {
		if err := ctx.Err(); err != nil {
			res.err = err
			break
		}
		if err := e.RunOneFrame(); err != nil {
			res.err = err
			break
		}
	}
	res.frames = e.Frames()
	return res
}

// checkMain runs all ROMs in parallel, each on its own console, and reports
// the ones that couldn't be loaded or halted.
func checkMain(args Check, cfg emu.Config) error {
	return runChecks(context.Background(), os.Stdout, args, cfg)
}

func runChecks(ctx context.Context, w io.Writer, args Check, cfg emu.Config) error {
	// Consoles run in parallel, they can't share the trace output.
	cfg.TraceOut = nil

	jobs := args.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	results := make([]checkResult, len(args.RomPaths))
	var mu sync.Mutex
	nfailed := 0
	for i, path := range args.RomPaths {
		g.Go(func() error {
			res := checkROM(ctx, path, args.Frames, cfg)
			results[i] = res
			if res.err != nil {
				mu.Lock()
				nfailed++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintln(w, res)
	}
	if nfailed != 0 {
		return fmt.Errorf("%d/%d roms failed", nfailed, len(args.RomPaths))
	}
	return nil
}
