package hw

import (
	"image"

	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	// Scanline numbers.
	preRenderLine  = -1
	postRenderLine = 240
	vblankLine     = 241
	lastLine       = 260

	ScreenWidth  = 256
	ScreenHeight = 240
)

type PPU struct {
	Bus *hwio.Bus[uint16] // PPU bus

	Cycle    int   // Current cycle/pixel in scanline (0-340)
	Scanline int   // Current scanline being drawn (-1-260)
	Frames   int64 // Number of completed frames

	// Mirroring returns the current nametable mirroring. It's provided by
	// the cartridge, and defaults to horizontal mirroring if nil.
	Mirroring func() ines.NTMirroring

	// OnScanline, if set, is called at dot 260 of each rendered line, while
	// rendering is enabled.
	OnScanline func()

	// CPU-exposed memory-mapped PPU registers
	// mapped from $2000 to $2007, mirrored up to $3fff
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8
	regs      [8]*hwio.Reg8

	OAM [256]byte // Object Attribute Memory: 64 sprites * (Y, tile, attr, X)

	nametables nametables
	palettes   paletteRAM

	front, back *image.RGBA

	// VRAM read/write
	vramAddr    loopy // v
	vramTmp     loopy // t
	writeLatch  bool  // w
	ppuDataRbuf uint8
	openBus     uint8

	oddFrame bool
	nmi      bool // pending NMI edge

	bg      bgPipeline
	sprites spriteLine
}

func NewPPU() *PPU {
	p := &PPU{
		Bus:   hwio.NewBus[uint16]("ppu"),
		front: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		back:  image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
	p.initRegs()
	p.nametables.mirroring = p.mirroring

	// $2000-$2FFF nametables, mirrored up to $3EFF.
	p.Bus.Add(hwio.Mirror[uint16](&p.nametables, 0x2000, 0x3EFF))
	// $3F00-$3F1F palette RAM indexes, mirrored up to $3FFF.
	p.Bus.Add(hwio.Mirror[uint16](&p.palettes, 0x3F00, 0x3FFF))

	p.Reset()
	return p
}

func (p *PPU) mirroring() ines.NTMirroring {
	if p.Mirroring == nil {
		return ines.HorzMirroring
	}
	return p.Mirroring()
}

// Reset puts the PPU in its power-up state. The rendering position is set
// to the pre-render line.
func (p *PPU) Reset() {
	p.Cycle = 0
	p.Scanline = preRenderLine
	p.Frames = 0

	for _, reg := range p.regs {
		reg.Value = 0
	}
	p.vramAddr = 0
	p.vramTmp = 0
	p.writeLatch = false
	p.ppuDataRbuf = 0
	p.openBus = 0
	p.oddFrame = false
	p.nmi = false
	p.bg = bgPipeline{}
	p.sprites = spriteLine{}
}

// Frame returns the last complete frame. The returned image is only valid
// until the end of the next frame.
func (p *PPU) Frame() *image.RGBA {
	return p.front
}

// TakeNMI reports whether the PPU has raised an NMI since the last call.
func (p *PPU) TakeNMI() bool {
	nmi := p.nmi
	p.nmi = false
	return nmi
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

// Run executes n PPU cycles.
func (p *PPU) Run(n int) {
	for range n {
		p.Tick()
	}
}

// Tick executes a single PPU cycle (dot).
func (p *PPU) Tick() {
	switch {
	case p.Scanline == preRenderLine:
		if p.Cycle == 1 {
			// Clear vblank, sprite0Hit and spriteOverflow
			const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
			hwio.ClearBits(&p.PPUSTATUS.Value, mask)
		}
		p.doRenderLine()

	case p.Scanline < postRenderLine:
		p.doRenderLine()

	case p.Scanline == vblankLine:
		if p.Cycle == 1 {
			p.PPUSTATUS.SetBit(vblank)
			if p.PPUCTRL.GetBit(nmi) {
				p.nmi = true
				log.ModPPU.DebugZ("NMI").Int64("frame", p.Frames).End()
			}
		}
	}

	p.Cycle++
	if p.Cycle < NumCycles {
		return
	}

	p.Cycle = 0
	p.Scanline++
	switch p.Scanline {
	case 0:
		// On odd frames, the last dot of the pre-render line is skipped
		// when rendering.
		if p.oddFrame && p.renderingEnabled() {
			p.Cycle = 1
		}
	case lastLine + 1:
		p.Scanline = preRenderLine
		p.Frames++
		p.oddFrame = !p.oddFrame
		p.front, p.back = p.back, p.front
	}
}

// doRenderLine executes one dot of a visible or pre-render line.
func (p *PPU) doRenderLine() {
	if p.renderingEnabled() {
		switch {
		case p.Cycle >= 2 && p.Cycle <= 257, p.Cycle >= 321 && p.Cycle <= 337:
			p.shiftBackground()
			p.fetchBackground((p.Cycle - 1) % 8)
		}

		switch {
		case p.Cycle == 256:
			p.vramAddr.incy()
		case p.Cycle == 257:
			p.vramAddr.copyx(p.vramTmp)
		case p.Cycle == 260:
			if p.OnScanline != nil {
				p.OnScanline()
			}
		case p.Cycle >= 280 && p.Cycle <= 304:
			if p.Scanline == preRenderLine {
				p.vramAddr.copyy(p.vramTmp)
			}
		case p.Cycle == 340:
			p.evaluateSprites()
		}
	}

	if p.Scanline >= 0 && p.Cycle >= 1 && p.Cycle <= 256 {
		p.renderPixel(p.Cycle-1, p.Scanline)
	}
}

// read reads the PPU bus. The address space is 14-bit wide.
func (p *PPU) read(addr uint16) uint8 {
	return p.Bus.Read8(addr & 0x3FFF)
}
