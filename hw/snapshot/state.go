// Package snapshot describes the state of the emulated machine, as saved
// at the end of a headless run.
package snapshot

// Version of the snapshot format.
const Version = 1

type NES struct {
	Version int
	Frames  int64

	CPU       CPU
	RAM       []byte // 2KB internal RAM
	PPU       PPU
	Cartridge Cartridge
}

type CPU struct {
	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Cycles int64
	Halted bool
}

type PPU struct {
	Cycle    int
	Scanline int
	Frames   int64

	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMADDR   uint8

	VRAMAddr   uint16
	VRAMTemp   uint16
	FineX      uint8
	WriteLatch bool
	PPUDataBuf uint8
	OddFrame   bool

	OAM       []byte // 256 bytes
	Palette   []byte // 32 bytes
	Nametable []byte // 2KB
}

type Cartridge struct {
	Mapper    uint16
	Name      string
	Mirroring string
	PRGRAM    []byte
	CHRRAM    []byte

	Banks Banks
	Regs  []uint8    // mapper specific registers
	IRQ   *MapperIRQ // nil for mappers without IRQ
}

// Banks holds the current mapping of PRG and CHR pages.
type Banks struct {
	PRG         []int // offsets of the 8KB pages at $8000-$FFFF
	CHR         []int // offsets of the 1KB pages at $0000-$1FFF
	RAMDisabled bool
}

// MapperIRQ is the state of a scanline counter.
type MapperIRQ struct {
	Latch   uint8
	Counter uint8
	Reload  bool
	Enabled bool
	Pending bool
}
