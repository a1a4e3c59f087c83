package mappers

import "nescore/hw/snapshot"

var GxROM = MapperDesc{
	Name: "GxROM",
	Load: loadGxROM,
}

type gxrom struct {
	*base

	chrbank uint32
	prgbank uint32
}

func (m *gxrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.base.CPUWrite(addr, val)
		return
	}

	// 7  bit  0
	// ---- ----
	// xxPP xxCC
	//   ||   ||
	//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	prevchr := m.chrbank
	m.chrbank = uint32(val & 0x3)
	if prevchr != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
		modMapper.DebugZ("CHRROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prevchr).Uint32("new", m.chrbank).End()
	}

	prevprg := m.prgbank
	m.prgbank = uint32((val >> 4) & 0x3)
	if prevprg != m.prgbank {
		m.selectPRGPage32KB(int(m.prgbank))
		modMapper.DebugZ("PRGROM bank switch").String("mapper", m.desc.Name).Uint32("prev", prevprg).Uint32("new", m.prgbank).End()
	}
}

func (m *gxrom) saveRegs(s *snapshot.Cartridge) {
	s.Regs = append(s.Regs, uint8(m.prgbank), uint8(m.chrbank))
}

func (m *gxrom) Reset() {
	m.chrbank, m.prgbank = 0, 0
	m.selectPRGPage32KB(0)
	m.selectCHRPage8KB(0)
}

func loadGxROM(b *base) (Mapper, error) {
	gxrom := &gxrom{base: b}
	gxrom.Reset()
	return gxrom, nil
}
