package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestModuleByName(t *testing.T) {
	mod, ok := ModuleByName("ppu")
	if !ok || mod != ModPPU {
		t.Fatalf("ModuleByName(ppu) = %v, %t, want %v, true", mod, ok, ModPPU)
	}
	if _, ok := ModuleByName("<error>"); ok {
		t.Fatalf("ModuleByName(<error>) should fail")
	}
	if _, ok := ModuleByName("nope"); ok {
		t.Fatalf("ModuleByName(nope) should fail")
	}

	custom := NewModule("testmod")
	if got, ok := ModuleByName("testmod"); !ok || got != custom {
		t.Fatalf("ModuleByName(testmod) = %v, %t, want %v, true", got, ok, custom)
	}
	if custom.String() != "testmod" {
		t.Errorf("String() = %q, want testmod", custom.String())
	}
}

func TestModuleEnabled(t *testing.T) {
	defer DisableDebugModules(ModuleMaskAll)

	if ModCPU.Enabled(DebugLevel) {
		t.Fatal("debug should be disabled by default")
	}
	if !ModCPU.Enabled(WarnLevel) {
		t.Fatal("warnings should always be enabled")
	}

	EnableDebugModules(ModCPU.Mask())
	if !ModCPU.Enabled(DebugLevel) {
		t.Fatal("debug should be enabled after EnableDebugModules")
	}
	if ModPPU.Enabled(DebugLevel) {
		t.Fatal("debug should only be enabled for the requested modules")
	}
}

func TestEntryZDisabled(t *testing.T) {
	// Must not panic.
	ModPPU.DebugZ("ignored").Hex8("a", 1).Hex16("b", 2).String("c", "d").Error("e", nil).End()
}

func TestEntryZOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	EnableDebugModules(ModCPU.Mask())
	defer DisableDebugModules(ModuleMaskAll)

	ModCPU.DebugZ("halted").
		Hex16("pc", 0xC000).
		Hex8("op", 0x02).
		Error("err", errors.New("jam")).
		End()

	out := buf.String()
	for _, want := range []string{"msg=halted", "_mod=cpu", "pc=c000", "op=02", "err=jam"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}
