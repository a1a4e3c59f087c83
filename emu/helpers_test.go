package emu

import (
	"bytes"
	"io"
	"testing"

	"nescore/emu/log"
	"nescore/ines"
)

func init() {
	log.SetOutput(io.Discard)
}

// program describes the content of a 16KB NROM cartridge, mapped at $8000
// and mirrored at $C000.
type program struct {
	code map[uint16][]byte // code/data at a given CPU address
	nmi  uint16
	irq  uint16
}

// loop is the address of an infinite loop present in every test program.
const loop = 0x9000

func (p program) rom(t testing.TB) *ines.Rom {
	t.Helper()

	prg := make([]byte, 0x4000)
	put := func(addr uint16, b ...byte) {
		copy(prg[int(addr)&0x3FFF:], b)
	}
	for addr, code := range p.code {
		put(addr, code...)
	}
	put(loop, 0x4C, byte(loop&0xFF), byte(loop>>8)) // JMP loop

	le := func(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
	nmi, irq := p.nmi, p.irq
	if nmi == 0 {
		nmi = loop
	}
	if irq == 0 {
		irq = loop
	}
	put(0xFFFA, le(nmi)...)
	put(0xFFFC, le(0x8000)...)
	put(0xFFFE, le(irq)...)

	hdr := make([]byte, 16)
	copy(hdr, ines.Magic)
	hdr[4] = 1 // 16KB PRG
	hdr[5] = 0 // CHR RAM

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(append(hdr, prg...))); err != nil {
		t.Fatal(err)
	}
	return rom
}

func (p program) powerUp(t testing.TB) *NES {
	t.Helper()

	nes, err := PowerUp(p.rom(t), 44100)
	if err != nil {
		t.Fatal(err)
	}
	return nes
}

// stepN runs n steps, failing on error.
func stepN(t testing.TB, nes *NES, n int) {
	t.Helper()

	for range n {
		if _, err := nes.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
}

// runUntilPC steps until the CPU reaches pc.
func runUntilPC(t testing.TB, nes *NES, pc uint16) {
	t.Helper()

	for range 100000 {
		if nes.CPU.PC == pc {
			return
		}
		if _, err := nes.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	t.Fatalf("PC never reached $%04X", pc)
}

// jmpLoop returns JMP to the test program loop.
func jmpLoop() []byte {
	return []byte{0x4C, byte(loop & 0xFF), byte(loop >> 8)}
}

func concat(bs ...[]byte) []byte {
	var out []byte
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
