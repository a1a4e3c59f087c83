package hwio

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/emu/log"
)

func TestBusReadOR(t *testing.T) {
	b := NewBus[uint16]("cpu")
	b.Add(&fixed{rng: Range[uint16]{0x6000, 0x6FFF}, val: 0x0F})
	b.Add(&fixed{rng: Range[uint16]{0x6800, 0x7FFF}, val: 0xA0})

	wantRead8(t, b, 0x6000, 0x0F)
	wantRead8(t, b, 0x6800, 0xAF)
	wantRead8(t, b, 0x6FFF, 0xAF)
	wantRead8(t, b, 0x7000, 0xA0)
	wantRead8(t, b, 0x5FFF, 0x00)
	wantRead8(t, b, 0x8000, 0x00)
}

func TestBusRelativeAddressing(t *testing.T) {
	b := NewBus[uint16]("cpu")
	f := &fixed{rng: Range[uint16]{0x4020, 0xFFFF}}
	b.Add(f)

	b.Read8(0x8000)
	if f.lastoff != 0x3FE0 {
		t.Errorf("read offset = %04X, want 3FE0", f.lastoff)
	}
	b.Write8(0x4020, 0)
	if f.lastoff != 0 {
		t.Errorf("write offset = %04X, want 0000", f.lastoff)
	}
}

func TestBusWriteAllMatches(t *testing.T) {
	b := NewBus[uint16]("cpu")
	f1 := &fixed{rng: Range[uint16]{0x8000, 0xFFFF}}
	f2 := &fixed{rng: Range[uint16]{0xC000, 0xFFFF}}
	b.Add(f1)
	b.Add(f2)

	b.Write8(0x8000, 1)
	b.Write8(0xC000, 1)
	if f1.writes != 2 || f2.writes != 1 {
		t.Errorf("writes = (%d, %d), want (2, 1)", f1.writes, f2.writes)
	}
}

func TestBusHandles(t *testing.T) {
	b := NewBus[uint16]("cpu")
	c1 := &fixed{rng: Range[uint16]{0x0000, 0x00FF}, val: 0x01}
	c2 := &fixed{rng: Range[uint16]{0x0000, 0x00FF}, val: 0x02}
	c3 := &fixed{rng: Range[uint16]{0x0000, 0x00FF}, val: 0x04}

	h1 := b.Add(c1)
	h2 := b.Add(c2)
	h3 := b.Add(c3)
	wantRead8(t, b, 0x0010, 0x07)

	if !b.Remove(h1) {
		t.Fatalf("Remove(%d) = false, want true", h1)
	}
	if b.Remove(h1) {
		t.Fatalf("second Remove(%d) = true, want false", h1)
	}
	wantRead8(t, b, 0x0010, 0x06)

	// Removal must not disturb other handles.
	if !b.Remove(h3) {
		t.Fatalf("Remove(%d) = false, want true", h3)
	}
	wantRead8(t, b, 0x0010, 0x02)

	h4 := b.Add(c1)
	handles := []Handle{h1, h2, h3}
	for _, h := range handles {
		if h4 == h {
			t.Fatalf("handle %d reused", h)
		}
	}
	if got := b.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	wantRead8(t, b, 0x0010, 0x03)
}

func TestBusInvalidRange(t *testing.T) {
	b := NewBus[uint16]("cpu")
	panicked, _ := hasPanicked(func() {
		b.Add(&fixed{rng: Range[uint16]{0x2000, 0x1000}})
	})
	if !panicked {
		t.Fatal("adding component with Start > End should panic")
	}
}

func TestBusPeek(t *testing.T) {
	b := NewBus[uint16]("cpu")
	ram := NewMem[uint16]("ram", 0x0000, 4)
	copy(ram.Data, []byte{1, 2, 3, 4})
	b.Add(ram)
	b.Add(&fixed{rng: Range[uint16]{0x0000, 0x0003}, val: 0x80})

	var got []uint8
	for addr := range uint16(4) {
		got = append(got, b.Peek8(addr))
	}
	if diff := cmp.Diff([]uint8{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("Peek8 mismatch (-want +got):\n%s", diff)
	}
	wantRead8(t, b, 0x0000, 0x81)
}

func TestBusRead16(t *testing.T) {
	b := NewBus[uint16]("cpu")
	rom := NewMem[uint16]("vectors", 0xFFFA, 6)
	copy(rom.Data, []byte{0x00, 0x80, 0x34, 0x12, 0xF0, 0xFF})
	b.Add(rom)

	if got := b.Read16(0xFFFC); got != 0x1234 {
		t.Errorf("Read16(FFFC) = %04X, want 1234", got)
	}
}

func TestBusUnmappedReports(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	log.EnableDebugModules(log.ModHwIo.Mask())
	defer log.DisableDebugModules(log.ModuleMaskAll)

	reports := func() int { return strings.Count(buf.String(), "unmapped access") }

	b := NewBus[uint16]("cpu")
	h := b.Add(&fixed{rng: Range[uint16]{0x8000, 0xFFFF}, val: 1})

	b.Read8(0x4020)
	b.Read8(0x4020)
	b.Write8(0x4020, 0)
	if got := reports(); got != 1 {
		t.Fatalf("got %d reports for the same address, want 1", got)
	}

	b.Read8(0x8000)
	b.Remove(h)
	b.Read8(0x8000)
	b.Read8(0x4020)
	if got := reports(); got != 3 {
		t.Errorf("got %d reports after removal, want 3", got)
	}
}
