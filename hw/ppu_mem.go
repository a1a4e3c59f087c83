package hw

import (
	"nescore/hw/hwio"
	"nescore/ines"
)

// nametables is the 2KB of PPU internal VRAM, seen as 4 logical nametables
// at $2000-$2FFF. How the logical nametables map to the 2 physical ones
// depends on the mirroring selected by the cartridge.
type nametables struct {
	ram       [0x800]byte
	mirroring func() ines.NTMirroring
}

var ntRange = hwio.Range[uint16]{Start: 0x2000, End: 0x2FFF}

func (nt *nametables) ReadRange() (hwio.Range[uint16], bool)  { return ntRange, true }
func (nt *nametables) WriteRange() (hwio.Range[uint16], bool) { return ntRange, true }

// physical returns the offset in VRAM of the nametable byte at addr (relative
// to $2000).
func (nt *nametables) physical(addr uint16) uint16 {
	table := (addr >> 10) & 3
	off := addr & 0x3FF

	var phys uint16
	switch nt.mirroring() {
	case ines.HorzMirroring:
		phys = table >> 1
	case ines.VertMirroring:
		phys = table & 1
	case ines.OnlyAScreen:
		phys = 0
	case ines.OnlyBScreen:
		phys = 1
	}
	return phys<<10 | off
}

func (nt *nametables) Read8(addr uint16) uint8 {
	return nt.ram[nt.physical(addr)]
}

func (nt *nametables) Peek8(addr uint16) uint8 {
	return nt.ram[nt.physical(addr)]
}

func (nt *nametables) Write8(addr uint16, val uint8) {
	nt.ram[nt.physical(addr)] = val
}

// paletteRAM holds the 32 palette entries at $3F00-$3F1F. Entry 0 of each
// sprite palette is a mirror of the same entry of the background palettes.
type paletteRAM struct {
	data [0x20]byte
}

var paletteRange = hwio.Range[uint16]{Start: 0x3F00, End: 0x3F1F}

func (pr *paletteRAM) ReadRange() (hwio.Range[uint16], bool)  { return paletteRange, true }
func (pr *paletteRAM) WriteRange() (hwio.Range[uint16], bool) { return paletteRange, true }

func paletteIndex(addr uint16) uint16 {
	addr &= 0x1F
	if addr&0x13 == 0x10 {
		addr &^= 0x10
	}
	return addr
}

func (pr *paletteRAM) Read8(addr uint16) uint8 {
	return pr.data[paletteIndex(addr)]
}

func (pr *paletteRAM) Peek8(addr uint16) uint8 {
	return pr.data[paletteIndex(addr)]
}

func (pr *paletteRAM) Write8(addr uint16, val uint8) {
	pr.data[paletteIndex(addr)] = val & 0x3F
}

// systemPalette holds the RGB values of the 64 colors of the 2C02.
var systemPalette = [64][3]uint8{
	{0x66, 0x66, 0x66}, {0x00, 0x2A, 0x88}, {0x14, 0x12, 0xA7}, {0x3B, 0x00, 0xA4},
	{0x5C, 0x00, 0x7E}, {0x6E, 0x00, 0x40}, {0x6C, 0x06, 0x00}, {0x56, 0x1D, 0x00},
	{0x33, 0x35, 0x00}, {0x0B, 0x48, 0x00}, {0x00, 0x52, 0x00}, {0x00, 0x4F, 0x08},
	{0x00, 0x40, 0x4D}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xAD, 0xAD, 0xAD}, {0x15, 0x5F, 0xD9}, {0x42, 0x40, 0xFF}, {0x75, 0x27, 0xFE},
	{0xA0, 0x1A, 0xCC}, {0xB7, 0x1E, 0x7B}, {0xB5, 0x31, 0x20}, {0x99, 0x4E, 0x00},
	{0x6B, 0x6D, 0x00}, {0x38, 0x87, 0x00}, {0x0C, 0x93, 0x00}, {0x00, 0x8F, 0x32},
	{0x00, 0x7C, 0x8D}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xFF, 0xFE, 0xFF}, {0x64, 0xB0, 0xFF}, {0x92, 0x90, 0xFF}, {0xC6, 0x76, 0xFF},
	{0xF3, 0x6A, 0xFF}, {0xFE, 0x6E, 0xCC}, {0xFE, 0x81, 0x70}, {0xEA, 0x9E, 0x22},
	{0xBC, 0xBE, 0x00}, {0x88, 0xD8, 0x00}, {0x5C, 0xE4, 0x30}, {0x45, 0xE0, 0x82},
	{0x48, 0xCD, 0xDE}, {0x4F, 0x4F, 0x4F}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xFF, 0xFE, 0xFF}, {0xC0, 0xDF, 0xFF}, {0xD3, 0xD2, 0xFF}, {0xE8, 0xC8, 0xFF},
	{0xFB, 0xC2, 0xFF}, {0xFE, 0xC4, 0xEA}, {0xFE, 0xCC, 0xC5}, {0xF7, 0xD8, 0xA5},
	{0xE4, 0xE5, 0x94}, {0xCF, 0xEF, 0x96}, {0xBD, 0xF4, 0xAB}, {0xB3, 0xF3, 0xCC},
	{0xB5, 0xEB, 0xF2}, {0xB8, 0xB8, 0xB8}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
}
