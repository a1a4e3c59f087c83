package mappers

import (
	"nescore/hw/snapshot"
	"nescore/ines"
)

// A Mapper translates the CPU and PPU addresses of the cartridge space into
// offsets of the PRG/CHR images, or intercepts them entirely.
type Mapper interface {
	// Mirroring returns the nametable mirroring currently selected by the
	// mapper. false means the header-declared mirroring applies.
	Mirroring() (ines.NTMirroring, bool)

	// IRQ reports whether the mapper asserts the IRQ line.
	IRQ() bool
	AckIRQ()

	// OnScanline is called once per rendered scanline.
	OnScanline()

	CPURead(addr uint16) Access
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) Access

	Reset()
}

type AccessKind uint8

const (
	Unmapped AccessKind = iota // address not decoded by the mapper
	Data                       // mapper provides the value itself
	Offset                     // mapper translated the address into the ROM/RAM image
)

// Access is the result of a mapper read.
type Access struct {
	Kind  AccessKind
	Value uint8
	Off   int
}

func data(v uint8) Access   { return Access{Kind: Data, Value: v} }
func offset(off int) Access { return Access{Kind: Offset, Off: off} }

var unmapped = Access{}

const (
	prgPageSize = 0x2000 // PRG is mapped in 8KB pages at $8000-$FFFF.
	chrPageSize = 0x0400 // CHR is mapped in 1KB pages at $0000-$1FFF.
)

// base provides the default behavior shared by all mappers: fixed 32KB PRG
// and 8KB CHR windows, PRG-RAM at $6000-$7FFF, no IRQ, header mirroring.
type base struct {
	desc MapperDesc
	rom  *ines.Rom

	prglen int // PRG ROM size
	chrlen int // CHR ROM/RAM size
	prgram []byte

	prgPages [4]int // offsets of the 8KB pages at $8000, $A000, $C000, $E000
	chrPages [8]int // offsets of the 1KB pages of the pattern tables

	busConflicts bool
	ramDisabled  bool
}

// bankOffset returns the offset of the bank in a image of the given total
// size. Negative banks count from the end (-1 is the last bank).
func bankOffset(bank, banksz, total int) int {
	n := total / banksz
	if n == 0 {
		return 0
	}
	bank %= n
	if bank < 0 {
		bank += n
	}
	return bank * banksz
}

func (b *base) selectPRGPage8KB(slot, bank int) {
	b.prgPages[slot] = bankOffset(bank, 0x2000, b.prglen)
}

func (b *base) selectPRGPage16KB(slot, bank int) {
	off := bankOffset(bank, 0x4000, b.prglen)
	b.prgPages[slot*2] = off
	b.prgPages[slot*2+1] = off + 0x2000
}

func (b *base) selectPRGPage32KB(bank int) {
	off := bankOffset(bank, 0x8000, b.prglen)
	for i := range b.prgPages {
		b.prgPages[i] = off + i*0x2000
	}
}

func (b *base) selectCHRPage1KB(slot, bank int) {
	b.chrPages[slot] = bankOffset(bank, 0x400, b.chrlen)
}

func (b *base) selectCHRPage4KB(slot, bank int) {
	off := bankOffset(bank, 0x1000, b.chrlen)
	for i := range 4 {
		b.chrPages[slot*4+i] = off + i*0x400
	}
}

func (b *base) selectCHRPage8KB(bank int) {
	off := bankOffset(bank, 0x2000, b.chrlen)
	for i := range b.chrPages {
		b.chrPages[i] = off + i*0x400
	}
}

func (b *base) prgOffset(addr uint16) int {
	addr -= 0x8000
	return b.prgPages[addr/prgPageSize] + int(addr%prgPageSize)
}

// busConflict returns the value actually latched by the mapper when the ROM
// drives the data bus at the same time as the CPU.
func (b *base) busConflict(addr uint16, val uint8) uint8 {
	if !b.busConflicts {
		return val
	}
	off := b.prgOffset(addr)
	return val & b.rom.PRGROM[off%b.prglen]
}

// regsSaver is implemented by mappers having registers of their own.
type regsSaver interface {
	saveRegs(s *snapshot.Cartridge)
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (b *base) saveBanks(s *snapshot.Banks) {
	s.PRG = append(s.PRG[:0], b.prgPages[:]...)
	s.CHR = append(s.CHR[:0], b.chrPages[:]...)
	s.RAMDisabled = b.ramDisabled
}

func (b *base) Mirroring() (ines.NTMirroring, bool) { return 0, false }
func (b *base) IRQ() bool                           { return false }
func (b *base) AckIRQ()                             {}
func (b *base) OnScanline()                         {}
func (b *base) Reset()                              {}

func (b *base) CPURead(addr uint16) Access {
	switch {
	case addr >= 0x8000:
		return offset(b.prgOffset(addr))
	case addr >= 0x6000:
		return b.readPRGRAM(addr)
	}
	return unmapped
}

// CPUWrite of the base mapper only handles PRG-RAM.
func (b *base) CPUWrite(addr uint16, val uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		b.writePRGRAM(addr, val)
	}
}

func (b *base) PPURead(addr uint16) Access {
	if addr >= 0x2000 {
		return unmapped
	}
	return offset(b.chrPages[addr/chrPageSize] + int(addr%chrPageSize))
}

func (b *base) readPRGRAM(addr uint16) Access {
	if len(b.prgram) == 0 || b.ramDisabled {
		return unmapped
	}
	return data(b.prgram[int(addr-0x6000)%len(b.prgram)])
}

func (b *base) writePRGRAM(addr uint16, val uint8) {
	if len(b.prgram) == 0 || b.ramDisabled {
		return
	}
	b.prgram[int(addr-0x6000)%len(b.prgram)] = val
}
