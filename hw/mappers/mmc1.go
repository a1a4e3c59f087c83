package mappers

import (
	"nescore/hw/snapshot"
	"nescore/ines"
)

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	// CHR reg 0 bits
	chrbank0 uint32
	chrbank1 uint32

	// PRG reg bits
	prgbank uint32
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg((val << 4) & 0x10)
	return sr
}

func (m *mmc1) Mirroring() (ines.NTMirroring, bool) {
	switch m.ntm {
	case 0:
		return ines.OnlyAScreen, true
	case 1:
		return ines.OnlyBScreen, true
	case 2:
		return ines.VertMirroring, true
	}
	return ines.HorzMirroring, true
}

func (m *mmc1) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.base.CPUWrite(addr, val)
		return
	}

	if val&0x80 != 0 {
		// if the resetbit is set.
		//	- ignore databit
		//	- reset shift register (so that the next write is the "first" write)
		//	- bits 2,3 of control reg are set (16k PRG mode, $8000 swappable)
		//	- other bits of $8000 (and other regs) are unchanged
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr >> 13) & 3 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	// 4bit0
	// -----
	// CPPMM
	// |||||
	// |||++- Mirroring (0: one-screen, lower bank; 1: one-screen, upper bank;
	// |||               2: vertical; 3: horizontal)
	// |++--- PRG ROM bank mode (0, 1: switch 32 KB at $8000, ignoring low bit of bank number;
	// |                         2: fix first bank at $8000 and switch 16 KB bank at $C000;
	// |                         3: fix last bank at $C000 and switch 16 KB bank at $8000)
	// +----- CHR ROM bank mode (0: switch 8 KB at a time; 1: switch two separate 4 KB banks)
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2
	m.ntm = val & 0x03

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		Uint8("ntm", m.ntm).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("Write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = uint32(val & 0b11111)
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("Write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = uint32(val & 0b11111)
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("Write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()

	// $E000-FFFF:  [...W PPPP]
	// W = WRAM Disable (0=enabled, 1=disabled)
	// P = PRG Reg
	m.ramDisabled = val&0b1_0000 != 0
	m.prgbank = uint32(val & 0b1111)
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// ignore low bit of bank number
		m.selectPRGPage32KB(int(m.prgbank&0xFE) >> 1)
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, int(m.prgbank))
	case 3:
		m.selectPRGPage16KB(0, int(m.prgbank))
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(int(m.chrbank0&0x1E) >> 1)
	case 1:
		m.selectCHRPage4KB(0, int(m.chrbank0))
		m.selectCHRPage4KB(1, int(m.chrbank1))
	}
}

// saveRegs saves the shift register and its bit count, then the control,
// CHR and PRG registers.
func (m *mmc1) saveRegs(s *snapshot.Cartridge) {
	ctrl := m.chrmode<<4 | m.prgmode<<2 | m.ntm
	s.Regs = append(s.Regs,
		uint8(m.serial), m.counter,
		ctrl, uint8(m.chrbank0), uint8(m.chrbank1), uint8(m.prgbank))
}

// Reset puts the mapper in its power-up state. Bits 2,3 of $8000 are set
// (this ensures the $8000 is bank 0, and $C000 is the last bank - needed for
// SEROM/SHROM/SH1ROM which do no support banking).
func (m *mmc1) Reset() {
	m.serial, m.counter = 0, 0
	m.writeREG(0x8000, 0x0C)
	m.writeREG(0xA000, 0)
	m.writeREG(0xC000, 0)
	m.writeREG(0xE000, 0)
	m.remap()
}

func loadMMC1(b *base) (Mapper, error) {
	mmc1 := &mmc1{base: b}
	mmc1.Reset()
	return mmc1, nil
}
