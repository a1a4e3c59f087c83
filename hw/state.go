package hw

import "nescore/hw/snapshot"

// SaveState copies the CPU registers into s.
func (c *CPU) SaveState(s *snapshot.CPU) {
	s.PC = c.PC
	s.SP = c.SP
	s.P = uint8(c.P)
	s.A = c.A
	s.X = c.X
	s.Y = c.Y
	s.Cycles = c.Cycles
	s.Halted = c.halted
}

// SaveState copies the PPU registers, internal latches and memories into s.
func (p *PPU) SaveState(s *snapshot.PPU) {
	s.Cycle = p.Cycle
	s.Scanline = p.Scanline
	s.Frames = p.Frames

	s.PPUCTRL = p.PPUCTRL.Value
	s.PPUMASK = p.PPUMASK.Value
	s.PPUSTATUS = p.PPUSTATUS.Value
	s.OAMADDR = p.OAMADDR.Value

	s.VRAMAddr = p.vramAddr.val()
	s.VRAMTemp = p.vramTmp.val()
	s.FineX = p.bg.finex
	s.WriteLatch = p.writeLatch
	s.PPUDataBuf = p.ppuDataRbuf
	s.OddFrame = p.oddFrame

	s.OAM = append(s.OAM[:0], p.OAM[:]...)
	s.Palette = append(s.Palette[:0], p.palettes.data[:]...)
	s.Nametable = append(s.Nametable[:0], p.nametables.ram[:]...)
}
