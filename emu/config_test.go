package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.IgnoreFields(Config{}, "TraceOut"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	const content = `
[audio]
sample_rate = 48000

[general]
log_modules = ["cpu", "ppu"]
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Audio.SampleRate = 48000
	want.General.LogModules = []string{"cpu", "ppu"}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(Config{}, "TraceOut"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[audio\n"},
		{"sample rate", "[audio]\nsample_rate = 200000\n"},
		{"scale", "[video]\nscale = 0\n"},
		{"log module", "[general]\nlog_modules = [\"gpu\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfigOrDefault(path); err == nil {
				t.Errorf("LoadConfigOrDefault(%q) should fail", tt.content)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Video.Scale = 3
	cfg.General.Trace = "trace.log"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfigOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.IgnoreFields(Config{}, "TraceOut"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
