package hwio

import "fmt"

// Guard detects reentrant accesses to a component reachable from several
// buses (a cartridge is seen by both the CPU and the PPU). Only one access
// may be in progress at a time; a nested Enter is a programming error and
// panics.
type Guard struct {
	Name string
	held bool
}

func (g *Guard) Enter() {
	if g.held {
		panic(fmt.Sprintf("hwio: reentrant access to %s", g.Name))
	}
	g.held = true
}

func (g *Guard) Exit() {
	g.held = false
}

// Held reports whether an access is in progress.
func (g *Guard) Held() bool {
	return g.held
}
