package hwio

import (
	"strings"
	"testing"
)

func TestGuard(t *testing.T) {
	g := Guard{Name: "cartridge"}

	g.Enter()
	if !g.Held() {
		t.Fatal("Held() = false after Enter")
	}

	panicked, msg := hasPanicked(g.Enter)
	if !panicked {
		t.Fatal("reentrant Enter should panic")
	}
	if s, _ := msg.(string); !strings.Contains(s, "cartridge") {
		t.Errorf("panic message = %q, want it to name the component", s)
	}

	g.Exit()
	if g.Held() {
		t.Fatal("Held() = true after Exit")
	}
	if panicked, _ := hasPanicked(func() { g.Enter(); g.Exit() }); panicked {
		t.Fatal("Enter after Exit should not panic")
	}
}
