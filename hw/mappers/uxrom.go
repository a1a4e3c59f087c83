package mappers

import "nescore/hw/snapshot"

var UxROM = MapperDesc{
	Name:            "UxROM",
	Load:            loadUxROM,
	HasBusConflicts: submapper2,
}

type uxrom struct {
	*base

	prgbank uint32
}

func (m *uxrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.base.CPUWrite(addr, val)
		return
	}
	val = m.busConflict(addr, val)

	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = uint32(val & 0x0F)
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, int(m.prgbank))
		modMapper.DebugZ("PRGROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prev).Uint32("new", m.prgbank).End()
	}
}

func (m *uxrom) saveRegs(s *snapshot.Cartridge) {
	s.Regs = append(s.Regs, uint8(m.prgbank))
}

func (m *uxrom) Reset() {
	m.prgbank = 0
	m.selectCHRPage8KB(0)
	m.selectPRGPage16KB(0, 0)
	m.selectPRGPage16KB(1, -1)
}

func loadUxROM(b *base) (Mapper, error) {
	uxrom := &uxrom{base: b}
	uxrom.Reset()
	return uxrom, nil
}
