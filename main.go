package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"nescore/emu"
	"nescore/emu/log"
)

// Set with -ldflags "-X main.version=...".
var version = ""

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case versionMode:
		fmt.Println("nescore", buildVersion())
		return
	case romInfosMode:
		checkf(romInfosMain(os.Stdout, cli.RomInfos), "failed to show rom infos")
		return
	}

	cfg, err := emu.LoadConfigOrDefault(cli.Config)
	checkf(err, "failed to load configuration")

	// The command line has precedence over the configuration file.
	if cli.Log == nil && len(cfg.General.LogModules) > 0 {
		_, err := parseLogModules(cfg.General.LogModules)
		checkf(err, "invalid log modules in configuration")
	}

	switch cli.mode {
	case checkMode:
		checkf(checkMain(cli.Check, cfg), "check failed")
	case runMode:
		checkf(runMain(cli.Run, cfg), "run failed")
	default:
		log.ModEmu.Fatalf("unexpected mode %d", cli.mode)
	}
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}
