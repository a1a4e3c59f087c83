package hw

import (
	"math/bits"

	"nescore/hw/hwio"
)

// bgPipeline holds the background fetch latches and shift registers.
type bgPipeline struct {
	finex uint8 // fine X scroll (x)

	// latches, filled during the 8-cycle fetch sequence.
	nt, at, lo, hi uint8

	// shift registers, the high byte holds the current tile.
	patlo, pathi uint16
	attlo, atthi uint16
}

const maxSpritesPerLine = 8

// spriteLine holds the sprites selected for the next scanline.
type spriteLine struct {
	n       int
	sprite0 bool // sprite 0 is in the list (always in slot 0 then)

	x     [maxSpritesPerLine]uint8
	attr  [maxSpritesPerLine]uint8
	patlo [maxSpritesPerLine]uint8 // pattern bytes, already flipped
	pathi [maxSpritesPerLine]uint8
}

func (p *PPU) shiftBackground() {
	if !p.PPUMASK.GetBit(showBg) {
		return
	}
	p.bg.patlo <<= 1
	p.bg.pathi <<= 1
	p.bg.attlo <<= 1
	p.bg.atthi <<= 1
}

func (p *PPU) loadBackground() {
	p.bg.patlo = p.bg.patlo&0xFF00 | uint16(p.bg.lo)
	p.bg.pathi = p.bg.pathi&0xFF00 | uint16(p.bg.hi)

	p.bg.attlo &= 0xFF00
	if p.bg.at&0b01 != 0 {
		p.bg.attlo |= 0xFF
	}
	p.bg.atthi &= 0xFF00
	if p.bg.at&0b10 != 0 {
		p.bg.atthi |= 0xFF
	}
}

// fetchBackground performs one step of the 8-cycle background fetch sequence.
func (p *PPU) fetchBackground(phase int) {
	v := p.vramAddr

	switch phase {
	case 0:
		p.loadBackground()
		p.bg.nt = p.read(0x2000 | v.addr()&0x0FFF)

	case 2:
		addr := 0x23C0 | uint16(v.nametable())<<10 | uint16(v.coarsey()>>2)<<3 | uint16(v.coarsex()>>2)
		at := p.read(addr)
		if v.coarsey()&0x02 != 0 {
			at >>= 4
		}
		if v.coarsex()&0x02 != 0 {
			at >>= 2
		}
		p.bg.at = at & 0b11

	case 4:
		p.bg.lo = p.read(p.bgPatternAddr())

	case 6:
		p.bg.hi = p.read(p.bgPatternAddr() + 8)

	case 7:
		p.vramAddr.incx()
	}
}

func (p *PPU) bgPatternAddr() uint16 {
	table := uint16(hwio.GetBiti(p.PPUCTRL.Value, backgroundAddr)) << 12
	return table | uint16(p.bg.nt)<<4 | uint16(p.vramAddr.finey())
}

func (p *PPU) spriteHeight() int {
	if p.PPUCTRL.GetBit(spriteSize) {
		return 16
	}
	return 8
}

// evaluateSprites selects the sprites to draw on the next line, and fetches
// their patterns.
func (p *PPU) evaluateSprites() {
	h := p.spriteHeight()
	sl := &p.sprites
	sl.n = 0
	sl.sprite0 = false

	for i := range 64 {
		y := p.OAM[i*4]
		row := p.Scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if sl.n == maxSpritesPerLine {
			p.PPUSTATUS.SetBit(spriteOverflow)
			break
		}

		tile := p.OAM[i*4+1]
		attr := p.OAM[i*4+2]
		if i == 0 {
			sl.sprite0 = true
		}

		// vertical flip
		if attr&0x80 != 0 {
			row = h - 1 - row
		}

		var addr uint16
		if h == 8 {
			table := uint16(hwio.GetBiti(p.PPUCTRL.Value, spriteAddr)) << 12
			addr = table | uint16(tile)<<4 | uint16(row)
		} else {
			table := uint16(tile&1) << 12
			tile &= 0xFE
			if row >= 8 {
				tile++
				row -= 8
			}
			addr = table | uint16(tile)<<4 | uint16(row)
		}

		lo, hi := p.read(addr), p.read(addr+8)
		// horizontal flip
		if attr&0x40 != 0 {
			lo, hi = bits.Reverse8(lo), bits.Reverse8(hi)
		}

		sl.x[sl.n] = p.OAM[i*4+3]
		sl.attr[sl.n] = attr
		sl.patlo[sl.n] = lo
		sl.pathi[sl.n] = hi
		sl.n++
	}
}

func (p *PPU) bgPixel(x int) (pixel, palette uint8) {
	if !p.PPUMASK.GetBit(showBg) || (x < 8 && !p.PPUMASK.GetBit(leftmostBg)) {
		return 0, 0
	}

	mux := uint16(0x8000) >> p.bg.finex
	if p.bg.patlo&mux != 0 {
		pixel |= 1
	}
	if p.bg.pathi&mux != 0 {
		pixel |= 2
	}
	if p.bg.attlo&mux != 0 {
		palette |= 1
	}
	if p.bg.atthi&mux != 0 {
		palette |= 2
	}
	return pixel, palette
}

// spritePixel returns the pixel of the first opaque sprite at x.
func (p *PPU) spritePixel(x int) (pixel, palette uint8, behind, sprite0 bool) {
	if !p.PPUMASK.GetBit(showSprites) || (x < 8 && !p.PPUMASK.GetBit(leftmostSprites)) {
		return 0, 0, false, false
	}

	sl := &p.sprites
	for i := range sl.n {
		dx := x - int(sl.x[i])
		if dx < 0 || dx > 7 {
			continue
		}
		shift := 7 - dx
		pixel = (sl.patlo[i]>>shift)&1 | ((sl.pathi[i]>>shift)&1)<<1
		if pixel == 0 {
			continue
		}
		palette = sl.attr[i]&0b11 + 4
		behind = sl.attr[i]&0x20 != 0
		sprite0 = i == 0 && sl.sprite0
		return pixel, palette, behind, sprite0
	}
	return 0, 0, false, false
}

// renderPixel computes the color of the pixel at (x, y) and writes it into
// the back buffer.
func (p *PPU) renderPixel(x, y int) {
	bgpix, bgpal := p.bgPixel(x)
	fgpix, fgpal, behind, sprite0 := p.spritePixel(x)

	var pixel, palette uint8
	switch {
	case bgpix == 0 && fgpix == 0:
	case bgpix == 0:
		pixel, palette = fgpix, fgpal
	case fgpix == 0:
		pixel, palette = bgpix, bgpal
	default:
		if behind {
			pixel, palette = bgpix, bgpal
		} else {
			pixel, palette = fgpix, fgpal
		}
		if sprite0 && x != 255 {
			p.PPUSTATUS.SetBit(sprite0Hit)
		}
	}

	color := p.read(0x3F00 | uint16(palette)<<2 | uint16(pixel))
	if p.PPUMASK.GetBit(greyscale) {
		color &= 0x30
	}

	off := y*p.back.Stride + x*4
	rgb := systemPalette[color&0x3F]
	p.back.Pix[off+0] = rgb[0]
	p.back.Pix[off+1] = rgb[1]
	p.back.Pix[off+2] = rgb[2]
	p.back.Pix[off+3] = 0xFF
}
