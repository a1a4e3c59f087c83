package mappers

import (
	"nescore/hw/snapshot"
	"nescore/ines"
)

var AxROM = MapperDesc{
	Name:            "AxROM",
	Load:            loadAxROM,
	HasBusConflicts: submapper2,
}

type axrom struct {
	*base

	ntm     ines.NTMirroring
	prgbank uint32
}

func (m *axrom) Mirroring() (ines.NTMirroring, bool) {
	return m.ntm, true
}

func (m *axrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.base.CPUWrite(addr, val)
		return
	}
	val = m.busConflict(addr, val)

	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	prev := m.prgbank
	m.prgbank = uint32(val & 0x7)
	if prev != m.prgbank {
		m.selectPRGPage32KB(int(m.prgbank))
		modMapper.DebugZ("PRGROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prev).Uint32("new", m.prgbank).End()
	}

	prevntm := m.ntm
	if val&0x10 == 0x10 {
		m.ntm = ines.OnlyBScreen
	} else {
		m.ntm = ines.OnlyAScreen
	}
	if prevntm != m.ntm {
		modMapper.DebugZ("select NT mirroring").String("mapper", m.desc.Name).Stringer("prev", prevntm).Stringer("new", m.ntm).End()
	}
}

func (m *axrom) saveRegs(s *snapshot.Cartridge) {
	s.Regs = append(s.Regs, uint8(m.prgbank), uint8(m.ntm))
}

func (m *axrom) Reset() {
	m.prgbank = 0
	m.ntm = ines.OnlyAScreen
	m.selectCHRPage8KB(0)
	m.selectPRGPage32KB(0)
}

func loadAxROM(b *base) (Mapper, error) {
	axrom := &axrom{base: b}
	axrom.Reset()
	return axrom, nil
}
