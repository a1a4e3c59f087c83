package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw/apu"
)

type Config struct {
	Audio   AudioConfig   `toml:"audio"`
	Video   VideoConfig   `toml:"video"`
	General GeneralConfig `toml:"general"`

	TraceOut io.WriteCloser `toml:"-"`
}

type AudioConfig struct {
	SampleRate int `toml:"sample_rate"`
}

type VideoConfig struct {
	// Scale factor applied to screenshots.
	Scale int `toml:"scale"`
}

type GeneralConfig struct {
	LogModules []string `toml:"log_modules"`
	Trace      string   `toml:"trace"`
}

// DefaultConfig returns the configuration used when no configuration file
// exists.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{SampleRate: apu.DefaultSampleRate},
		Video: VideoConfig{Scale: 2},
	}
}

// Check validates the configuration values.
func (cfg *Config) Check() error {
	if cfg.Audio.SampleRate <= 0 || cfg.Audio.SampleRate > apu.MaxSampleRate {
		return fmt.Errorf("audio.sample_rate: %d out of range (1-%d)", cfg.Audio.SampleRate, apu.MaxSampleRate)
	}
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		return fmt.Errorf("video.scale: %d out of range (1-8)", cfg.Video.Scale)
	}
	for _, name := range cfg.General.LogModules {
		if _, ok := log.ModuleByName(name); !ok {
			return fmt.Errorf("general.log_modules: unknown module %q", name)
		}
	}
	return nil
}

// ConfigDir returns the nescore configuration directory, creating it if
// needed.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// ConfigPath returns the path of the default configuration file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfigOrDefault loads the configuration at path, or the one in the
// nescore config directory if path is empty. Values missing from the file
// keep their default. A missing file is not an error.
func LoadConfigOrDefault(path string) (Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.DebugZ("no config file, using default").String("path", path).End()
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").String("key", key.String()).End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg at path, or into the nescore config directory if path
// is empty.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
