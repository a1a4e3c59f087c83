package hwio

import (
	"nescore/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area mapped at Start. Its size is len(Data); use
// Mirror to make it visible over a larger window.
type Mem[A Addr] struct {
	Name    string         // name of the memory area (for debugging)
	Data    []byte         // actual memory buffer
	Start   A              // first address of the area
	Flags   MemFlags       // flags determining how the memory can be accessed
	WriteCb func(A, uint8) // optional write callback (if set, the callback is called instead of writing)
}

// NewMem allocates a zeroed read/write memory area of the given size.
func NewMem[A Addr](name string, start A, size int) *Mem[A] {
	return &Mem[A]{
		Name:  name,
		Data:  make([]byte, size),
		Start: start,
	}
}

func (m *Mem[A]) rng() Range[A] {
	return Range[A]{Start: m.Start, End: m.Start + A(len(m.Data)-1)}
}

func (m *Mem[A]) ReadRange() (Range[A], bool)  { return m.rng(), len(m.Data) > 0 }
func (m *Mem[A]) WriteRange() (Range[A], bool) { return m.rng(), len(m.Data) > 0 }

func (m *Mem[A]) Read8(addr A) uint8 {
	return m.Data[int(addr)]
}

func (m *Mem[A]) Peek8(addr A) uint8 {
	return m.Data[int(addr)]
}

func (m *Mem[A]) Write8(addr A, val uint8) {
	if m.WriteCb != nil {
		m.WriteCb(addr, val)
		return
	}

	switch {
	case m.Flags&MemFlagNoROLog != 0:
		return
	case m.Flags&MemFlagReadOnly != 0:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("name", m.Name).
			Hex8("val", val).
			Hex32("addr", uint32(m.Start+addr)).
			End()
	default:
		m.Data[int(addr)] = val
	}
}
