package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	// PPUCTRL bits
	// $2000

	// Base nametable address
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	// Greyscale
	// (0: normal color, 1: produce a greyscale display)
	greyscale = 0

	// Show background in leftmost 8 pixels of screen
	leftmostBg = 1

	// Show sprites in leftmost 8 pixels of screen
	leftmostSprites = 2

	showBg      = 3
	showSprites = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Returns stale PPU bus contents.
	openbusMask = 0b11111

	// Sprite overflow. Set during sprite evaluation when more than eight
	// sprites appear on a scanline, cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 Hit. Set when a nonzero pixel of sprite 0 overlaps a nonzero
	// background pixel; cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	// Set at dot 1 of line 241 (the line *after* the post-render
	// line); cleared after reading $2002 and at dot 1 of the
	// pre-render line.
	vblank = 7
)

// 'Loopy' register, layout of the v and t internal registers:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy uint16

func (l loopy) coarsex() uint8   { return uint8(l) & 0x1F }
func (l loopy) coarsey() uint8   { return uint8(l>>5) & 0x1F }
func (l loopy) nametable() uint8 { return uint8(l>>10) & 0x03 }
func (l loopy) finey() uint8     { return uint8(l>>12) & 0x07 }
func (l loopy) low() uint8       { return uint8(l) }
func (l loopy) high() uint8      { return uint8(l>>8) & 0x7F }
func (l loopy) addr() uint16     { return uint16(l) & 0x3FFF }
func (l loopy) val() uint16      { return uint16(l) & 0x7FFF }

func (l *loopy) setCoarsex(v uint8) {
	*l = *l&^0x001F | loopy(v&0x1F)
}

func (l *loopy) setCoarsey(v uint8) {
	*l = *l&^0x03E0 | loopy(v&0x1F)<<5
}

func (l *loopy) setNametable(v uint8) {
	*l = *l&^0x0C00 | loopy(v&0x03)<<10
}

func (l *loopy) setFiney(v uint8) {
	*l = *l&^0x7000 | loopy(v&0x07)<<12
}

func (l *loopy) setLow(v uint8) {
	*l = *l&^0x00FF | loopy(v)
}

// setHigh sets the 6 low bits of the high byte and clears bit 14.
func (l *loopy) setHigh(v uint8) {
	*l = *l&^0x7F00 | loopy(v&0x3F)<<8
}

// incx increments the horizontal scroll, switching horizontal nametable
// when coarse X wraps around.
func (l *loopy) incx() {
	if l.coarsex() == 31 {
		l.setCoarsex(0)
		*l ^= 0x0400
		return
	}
	*l++
}

// incy increments the vertical scroll. Coarse Y wraps at 29 and switches
// vertical nametable. Coarse Y values 30 and 31 (attribute table) wrap
// to 0 without switching.
func (l *loopy) incy() {
	if fy := l.finey(); fy < 7 {
		l.setFiney(fy + 1)
		return
	}
	l.setFiney(0)
	switch y := l.coarsey(); y {
	case 29:
		l.setCoarsey(0)
		*l ^= 0x0800
	case 31:
		l.setCoarsey(0)
	default:
		l.setCoarsey(y + 1)
	}
}

// copyx copies the horizontal bits of t into l.
func (l *loopy) copyx(t loopy) {
	*l = *l&^0x041F | t&0x041F
}

// copyy copies the vertical bits of t into l.
func (l *loopy) copyy(t loopy) {
	*l = *l&^0x7BE0 | t&0x7BE0
}

func (p *PPU) initRegs() {
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Addr: 0x2000, Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUCTRL}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Addr: 0x2001, Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUMASK}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Addr: 0x2002, Flags: hwio.ReadOnlyFlag, ReadCb: p.ReadPPUSTATUS, PeekCb: p.PeekPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Addr: 0x2003, Flags: hwio.WriteOnlyFlag}
	p.OAMDATA = hwio.Reg8{Name: "OAMDATA", Addr: 0x2004, ReadCb: p.ReadOAMDATA, PeekCb: p.ReadOAMDATA, WriteCb: p.WriteOAMDATA}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Addr: 0x2005, Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Addr: 0x2006, Flags: hwio.WriteOnlyFlag, WriteCb: p.WritePPUADDR}
	p.PPUDATA = hwio.Reg8{Name: "PPUDATA", Addr: 0x2007, ReadCb: p.ReadPPUDATA, PeekCb: p.PeekPPUDATA, WriteCb: p.WritePPUDATA}

	p.regs = [8]*hwio.Reg8{
		&p.PPUCTRL, &p.PPUMASK, &p.PPUSTATUS, &p.OAMADDR,
		&p.OAMDATA, &p.PPUSCROLL, &p.PPUADDR, &p.PPUDATA,
	}
}

// CPUPort returns the component exposing the 8 PPU registers on the CPU bus,
// at $2000-$2007 and mirrored up to $3FFF.
func (p *PPU) CPUPort() hwio.Component[uint16] {
	dev := &hwio.Device{
		Name:  "ppu regs",
		Start: 0x2000,
		Size:  8,
		ReadCb: func(addr uint16) uint8 {
			reg := p.regs[addr&7]
			if reg.Flags&hwio.WriteOnlyFlag != 0 {
				return p.openBus
			}
			p.openBus = reg.Read8(0)
			return p.openBus
		},
		PeekCb: func(addr uint16) uint8 {
			reg := p.regs[addr&7]
			if reg.Flags&hwio.WriteOnlyFlag != 0 {
				return p.openBus
			}
			return reg.Peek8(0)
		},
		WriteCb: func(addr uint16, val uint8) {
			p.openBus = val
			reg := p.regs[addr&7]
			if reg.Flags&hwio.ReadOnlyFlag != 0 {
				return
			}
			reg.Write8(0, val)
		},
	}
	return hwio.Mirror[uint16](dev, 0x2000, 0x3FFF)
}

// PPUCTRL: $2000
func (p *PPU) WritePPUCTRL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	// Enabling NMI during vblank, without reading PPUSTATUS, generates an
	// NMI immediately.
	if !hwio.GetBit(old, nmi) && hwio.GetBit(val, nmi) && p.PPUSTATUS.GetBit(vblank) {
		p.nmi = true
	}

	// Transfer the nametable bits.
	p.vramTmp.setNametable(val & ntselect)
}

// PPUMASK: $2001
func (p *PPU) WritePPUMASK(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
}

// PPUSTATUS: $2002
func (p *PPU) ReadPPUSTATUS(val uint8) uint8 {
	ret := val&^openbusMask | p.openBus&openbusMask

	p.writeLatch = false
	p.PPUSTATUS.ClearBit(vblank)
	return ret
}

func (p *PPU) PeekPPUSTATUS(val uint8) uint8 {
	return val&^openbusMask | p.openBus&openbusMask
}

// OAMDATA: $2004
func (p *PPU) ReadOAMDATA(_ uint8) uint8 {
	return p.OAM[p.OAMADDR.Value]
}

func (p *PPU) WriteOAMDATA(_, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// PPUSCROLL: $2005
func (p *PPU) WritePPUSCROLL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).Bool("latch", p.writeLatch).End()

	if !p.writeLatch { // first write
		p.bg.finex = val & 0b111
		p.vramTmp.setCoarsex(val >> 3)
	} else { // second write
		p.vramTmp.setFiney(val & 0b111)
		p.vramTmp.setCoarsey(val >> 3)
	}

	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) WritePPUADDR(old, val uint8) {
	if !p.writeLatch { // first write
		p.vramTmp.setHigh(val)
	} else { // second write
		p.vramTmp.setLow(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) ReadPPUDATA(_ uint8) uint8 {
	addr := p.vramAddr.addr()

	var val uint8
	switch {
	case addr < 0x3F00:
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(addr)
	default: // $3F00-3FFF
		// Reading palette data is immediate, the read buffer gets the
		// nametable byte 'underneath' the palette.
		val = p.Bus.Read8(addr) | p.openBus&0xC0
		p.ppuDataRbuf = p.Bus.Read8(addr & 0x2FFF)
	}

	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", addr).
		Hex8("val", val).
		End()

	p.incVRAMaddr()
	return val
}

func (p *PPU) PeekPPUDATA(_ uint8) uint8 {
	if addr := p.vramAddr.addr(); addr >= 0x3F00 {
		return p.Bus.Peek8(addr)
	}
	return p.ppuDataRbuf
}

// PPUDATA: $2007
func (p *PPU) WritePPUDATA(old, val uint8) {
	addr := p.vramAddr.addr()
	p.Bus.Write8(addr, val)

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", addr).
		Hex8("val", val).
		End()

	p.incVRAMaddr()
}

// After each i/o on PPUDATA, PPUADDR is incremented.
func (p *PPU) incVRAMaddr() {
	incr := loopy(1)
	if p.PPUCTRL.GetBit(vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7FFF
}
