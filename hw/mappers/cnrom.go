package mappers

import "nescore/hw/snapshot"

var CNROM = MapperDesc{
	Name:            "CNROM",
	Load:            loadCNROM,
	HasBusConflicts: submapper2,
}

type cnrom struct {
	*base

	chrbank uint32
}

func (m *cnrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.base.CPUWrite(addr, val)
		return
	}
	val = m.busConflict(addr, val)

	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	// Original boards only decode the lowest 2 bits, oversize images
	// use as many bits as they have banks.
	prev := m.chrbank
	m.chrbank = uint32(val) % uint32(max(m.chrlen/0x2000, 1))
	if prev != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
		modMapper.DebugZ("CHRROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prev).Uint32("new", m.chrbank).End()
	}
}

func (m *cnrom) saveRegs(s *snapshot.Cartridge) {
	s.Regs = append(s.Regs, uint8(m.chrbank))
}

func (m *cnrom) Reset() {
	m.chrbank = 0
	m.selectPRGPage16KB(0, 0)
	m.selectPRGPage16KB(1, -1)
	m.selectCHRPage8KB(0)
}

func loadCNROM(b *base) (Mapper, error) {
	cnrom := &cnrom{base: b}
	cnrom.Reset()
	return cnrom, nil
}
