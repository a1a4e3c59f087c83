package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM headlessly
	romInfosMode             // Show ROM infos
	checkMode                // Check a set of ROMs
	versionMode              // Show nescore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator, without window."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Check    Check    `cmd:"" help:"Run several ROMs in parallel and report those failing to run."`
		Version  Version  `cmd:"" help:"Show nescore version."`

		Log    *logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string      `help:"Configuration file. (default: config.toml in user config dir)" type:"path" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"${rompath_help}" required:"true" type:"existingfile"`

		Frames     int64    `name:"frames" help:"Number of frames to run, 0 runs until interrupted." default:"600"`
		Screenshot string   `name:"screenshot" help:"Save the last frame as PNG." type:"path" placeholder:"FILE.png"`
		Scale      int      `name:"scale" help:"Screenshot scale factor. (overrides config)"`
		WAV        string   `name:"wav" help:"Record audio into a wav file." type:"path" placeholder:"FILE.wav"`
		Trace      *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		Input      string   `name:"input" help:"Controllers input script." type:"existingfile" placeholder:"SCRIPT.toml"`
		State      string   `name:"state" help:"Save machine state as JSON when the run ends." type:"path" placeholder:"FILE.json"`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path" placeholder:"DIR"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
		JSON    bool   `name:"json" help:"Output infos as JSON."`
	}

	Check struct {
		RomPaths []string `arg:"" name:"/path/to/rom" type:"existingfile"`
		Frames   int64    `name:"frames" help:"Number of frames to run each ROM for." default:"300"`
		Jobs     int      `name:"jobs" short:"j" help:"Number of ROMs run in parallel. (default: number of CPUs)"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"rompath_help":    "ROM to run.",
	"cpuprofile_help": "Write CPU profile into directory.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nescore"),
		kong.Description("Headless NES emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "rom-infos":
		cfg.mode = romInfosMode
	case "check":
		cfg.mode = checkMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	mask, err := parseLogModules(strings.Split(tok.Value.(string), ","))
	if err != nil {
		return err
	}
	*lm = logModMask(mask)
	return nil
}

// parseLogModules parses a list of module names. "no" disables logging
// altogether (returning an empty mask) and "all" enables every module.
func parseLogModules(names []string) (log.ModuleMask, error) {
	nolog := false
	allLogs := false

	var mask log.ModuleMask
	for _, v := range names {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return 0, nil
	}

	if allLogs {
		mask = log.ModuleMaskAll
	}

	log.EnableDebugModules(mask)
	return mask, nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	return f.open(tok.Value.(string))
}

func (f *outfile) open(name string) error {
	f.name = name
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n%s", append(args, err)...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
