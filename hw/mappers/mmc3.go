package mappers

import (
	"nescore/hw/snapshot"
	"nescore/ines"
)

var MMC3 = MapperDesc{
	Name: "MMC3",
	Load: loadMMC3,
}

type mmc3 struct {
	*base

	regs    [8]uint8 // bank registers R0-R7
	target  uint8    // register updated by the next bank data write
	prgmode uint8
	chrinv  uint8
	ntm     ines.NTMirroring

	ramProtect bool

	// scanline counter
	latch      uint8
	counter    uint8
	reload     bool
	irqEnabled bool
	irqPending bool
}

func (m *mmc3) Mirroring() (ines.NTMirroring, bool) {
	return m.ntm, true
}

func (m *mmc3) IRQ() bool { return m.irqPending }

func (m *mmc3) AckIRQ() { m.irqPending = false }

// OnScanline clocks the scanline counter. When the counter is zero (or a
// reload has been requested) it is reloaded from the latch, otherwise it is
// decremented. An IRQ is raised when it reaches zero while IRQs are enabled.
func (m *mmc3) OnScanline() {
	if m.counter == 0 || m.reload {
		m.counter = m.latch
		m.reload = false
	} else {
		m.counter--
	}
	if m.counter == 0 && m.irqEnabled {
		m.irqPending = true
		modMapper.DebugZ("scanline IRQ").String("mapper", m.desc.Name).End()
	}
}

func (m *mmc3) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr < 0x6000:
		return
	case addr < 0x8000:
		if !m.ramProtect {
			m.writePRGRAM(addr, val)
		}
		return
	}

	switch addr & 0xE001 {
	case 0x8000:
		// 7  bit  0
		// ---- ----
		// CPMx xRRR
		// |||   |||
		// |||   +++- Specify which bank register to update on next write to Bank Data register
		// ||+------- Nothing on the MMC3
		// |+-------- PRG ROM bank mode (0: $8000-$9FFF swappable, $C000-$DFFF fixed to second-last bank;
		// |                            1: $C000-$DFFF swappable, $8000-$9FFF fixed to second-last bank)
		// +--------- CHR A12 inversion (0: two 2 KB banks at $0000-$0FFF, four 1 KB banks at $1000-$1FFF;
		//                               1: two 2 KB banks at $1000-$1FFF, four 1 KB banks at $0000-$0FFF)
		m.target = val & 0x07
		m.prgmode = (val >> 6) & 1
		m.chrinv = (val >> 7) & 1
		m.remap()
	case 0x8001:
		m.regs[m.target] = val
		m.remap()
	case 0xA000:
		if val&1 == 0 {
			m.ntm = ines.VertMirroring
		} else {
			m.ntm = ines.HorzMirroring
		}
	case 0xA001:
		// 7  bit  0
		// ---- ----
		// RWXX xxxx
		// ||
		// |+-------- Write protection (0: allow writes; 1: deny writes)
		// +--------- PRG RAM chip enable (0: disable; 1: enable)
		m.ramDisabled = val&0x80 == 0
		m.ramProtect = val&0x40 != 0
	case 0xC000:
		m.latch = val
	case 0xC001:
		m.counter = 0
		m.reload = true
	case 0xE000:
		m.irqEnabled = false
		m.AckIRQ()
	case 0xE001:
		m.irqEnabled = true
	}
}

func (m *mmc3) remap() {
	r6, r7 := int(m.regs[6]&0x3F), int(m.regs[7]&0x3F)
	if m.prgmode == 0 {
		m.selectPRGPage8KB(0, r6)
		m.selectPRGPage8KB(1, r7)
		m.selectPRGPage8KB(2, -2)
	} else {
		m.selectPRGPage8KB(0, -2)
		m.selectPRGPage8KB(1, r7)
		m.selectPRGPage8KB(2, r6)
	}
	m.selectPRGPage8KB(3, -1)

	// R0 and R1 select 2KB banks, ignoring their low bit.
	banks := [8]int{
		int(m.regs[0] & 0xFE), int(m.regs[0] | 0x01),
		int(m.regs[1] & 0xFE), int(m.regs[1] | 0x01),
		int(m.regs[2]), int(m.regs[3]), int(m.regs[4]), int(m.regs[5]),
	}
	for i, bank := range banks {
		slot := i
		if m.chrinv != 0 {
			slot ^= 4
		}
		m.selectCHRPage1KB(slot, bank)
	}
}

// saveRegs saves R0-R7, then the bank select fields.
func (m *mmc3) saveRegs(s *snapshot.Cartridge) {
	s.Regs = append(s.Regs, m.regs[:]...)
	s.Regs = append(s.Regs, m.target, m.prgmode, m.chrinv, uint8(m.ntm), b2u8(m.ramProtect))
	s.IRQ = &snapshot.MapperIRQ{
		Latch:   m.latch,
		Counter: m.counter,
		Reload:  m.reload,
		Enabled: m.irqEnabled,
		Pending: m.irqPending,
	}
}

func (m *mmc3) Reset() {
	m.regs = [8]uint8{0, 2, 4, 5, 6, 7, 0, 1}
	m.target, m.prgmode, m.chrinv = 0, 0, 0
	m.ntm = m.rom.Mirroring()
	m.ramDisabled, m.ramProtect = false, false
	m.latch, m.counter = 0, 0
	m.reload, m.irqEnabled, m.irqPending = false, false, false
	m.remap()
}

func loadMMC3(b *base) (Mapper, error) {
	mmc3 := &mmc3{base: b}
	mmc3.Reset()
	return mmc3, nil
}
