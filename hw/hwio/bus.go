package hwio

import (
	"fmt"

	"nescore/emu/log"
)

// Addr is the set of unsigned types a bus can be addressed with. Arithmetic
// on these types wraps around, as the address lines of the real chips do.
type Addr interface {
	~uint8 | ~uint16 | ~uint32
}

// Range is an inclusive range of addresses.
type Range[A Addr] struct {
	Start, End A
}

func (r Range[A]) Contains(addr A) bool {
	return addr >= r.Start && addr <= r.End
}

// Len returns the number of addresses in the range.
func (r Range[A]) Len() int {
	return int(r.End-r.Start) + 1
}

func (r Range[A]) String() string {
	return fmt.Sprintf("[%X-%X]", uint32(r.Start), uint32(r.End))
}

// A Component is a chip (or part of a chip) mapped on a bus.
//
// The read and write ranges are independent and both optional: a component
// may be write-only, read-only or, in theory, neither. Read8 and Write8
// receive the address relative to the start of the range that matched.
type Component[A Addr] interface {
	ReadRange() (Range[A], bool)
	WriteRange() (Range[A], bool)
	Read8(addr A) uint8
	Write8(addr A, val uint8)
}

// Peeker is implemented by components that can be read without side
// effects (for debugging or tracing).
type Peeker[A Addr] interface {
	Peek8(addr A) uint8
}

// A Handle identifies a component installed on a bus.
type Handle uint64

type slot[A Addr] struct {
	handle Handle
	comp   Component[A]
	peeker Peeker[A]

	rrange, wrange     Range[A]
	readable, writable bool
}

// Bus connects components sharing the same address and data lines.
//
// A read is dispatched to every component whose read range contains the
// address and the returned values are ORed together, so that overlapping
// chips behave like open-collector outputs driving the same lines. A read
// that no component claims returns 0. A write is dispatched to every
// component whose write range contains the address.
//
// Component ranges are sampled when the component is added.
type Bus[A Addr] struct {
	Name string

	slots []slot[A]
	index map[Handle]int
	next  Handle

	unmapped Bitset // unmapped addresses already reported
}

func NewBus[A Addr](name string) *Bus[A] {
	return &Bus[A]{
		Name:  name,
		index: make(map[Handle]int),
	}
}

// Add installs c on the bus and returns the handle identifying it. Handles
// are never reused during the bus lifetime.
func (b *Bus[A]) Add(c Component[A]) Handle {
	s := slot[A]{comp: c}
	s.rrange, s.readable = c.ReadRange()
	s.wrange, s.writable = c.WriteRange()
	if s.readable && s.rrange.Start > s.rrange.End {
		panic(fmt.Sprintf("hwio: %s: invalid read range %v", b.Name, s.rrange))
	}
	if s.writable && s.wrange.Start > s.wrange.End {
		panic(fmt.Sprintf("hwio: %s: invalid write range %v", b.Name, s.wrange))
	}
	s.peeker, _ = c.(Peeker[A])

	b.next++
	s.handle = b.next
	b.unmapped.Reset()
	b.index[s.handle] = len(b.slots)
	b.slots = append(b.slots, s)

	log.ModHwIo.DebugZ("add component").
		String("bus", b.Name).
		Uint64("handle", uint64(s.handle)).
		Stringer("read", s.rrange).
		Stringer("write", s.wrange).
		End()
	return s.handle
}

// Remove uninstalls the component identified by h. It reports whether such
// component was installed.
func (b *Bus[A]) Remove(h Handle) bool {
	i, ok := b.index[h]
	if !ok {
		return false
	}

	last := len(b.slots) - 1
	if i != last {
		b.slots[i] = b.slots[last]
		b.index[b.slots[i].handle] = i
	}
	b.slots[last] = slot[A]{}
	b.slots = b.slots[:last]
	delete(b.index, h)

	log.ModHwIo.DebugZ("remove component").
		String("bus", b.Name).
		Uint64("handle", uint64(h)).
		Int("unmapped", b.unmapped.Count()).
		End()
	// Addresses the component decoded may now be unmapped.
	b.unmapped.Reset()
	return true
}

// Len returns the number of installed components.
func (b *Bus[A]) Len() int {
	return len(b.slots)
}

func (b *Bus[A]) Read8(addr A) uint8 {
	var val uint8
	hit := false
	for i := range b.slots {
		s := &b.slots[i]
		if s.readable && s.rrange.Contains(addr) {
			val |= s.comp.Read8(addr - s.rrange.Start)
			hit = true
		}
	}
	if !hit {
		b.reportUnmapped("read", addr)
	}
	return val
}

// Peek8 is like Read8 but only queries components implementing Peeker, so
// that it never triggers side effects.
func (b *Bus[A]) Peek8(addr A) uint8 {
	var val uint8
	for i := range b.slots {
		s := &b.slots[i]
		if s.peeker != nil && s.readable && s.rrange.Contains(addr) {
			val |= s.peeker.Peek8(addr - s.rrange.Start)
		}
	}
	return val
}

func (b *Bus[A]) Write8(addr A, val uint8) {
	hit := false
	for i := range b.slots {
		s := &b.slots[i]
		if s.writable && s.wrange.Contains(addr) {
			s.comp.Write8(addr-s.wrange.Start, val)
			hit = true
		}
	}
	if !hit {
		b.reportUnmapped("write", addr)
	}
}

// Read16 reads a little-endian 16-bit word.
func (b *Bus[A]) Read16(addr A) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// log each unmapped address once (many games read from open bus).
func (b *Bus[A]) reportUnmapped(op string, addr A) {
	if !log.ModHwIo.Enabled(log.DebugLevel) || uint64(addr) >= NumBits {
		return
	}
	if b.unmapped.Test(uint(addr)) {
		return
	}
	b.unmapped.Set(uint(addr))
	log.ModHwIo.DebugZ("unmapped access").
		String("bus", b.Name).
		String("op", op).
		Hex32("addr", uint32(addr)).
		End()
}
