package mappers

import (
	"nescore/hw/hwio"
	"nescore/hw/snapshot"
	"nescore/ines"
)

// A Cartridge holds the rom images and the mapper translating accesses to
// them. It is visible on both the CPU and the PPU buses, through CPUPort and
// PPUPort; the mapper state is shared by both and only one access at a time
// may reach it.
type Cartridge struct {
	Desc MapperDesc
	Rom  *ines.Rom

	PRG    []byte // PRG ROM
	CHR    []byte // CHR ROM, or CHR RAM
	chrRAM bool

	base   *base
	mapper Mapper
	guard  hwio.Guard
}

func newCartridge(desc MapperDesc, rom *ines.Rom) (*Cartridge, error) {
	c := &Cartridge{
		Desc: desc,
		Rom:  rom,
		PRG:  rom.PRGROM,
		CHR:  rom.CHRROM,
	}
	if rom.HasCHRRAM() {
		c.CHR = make([]byte, 0x2000)
		c.chrRAM = true
	}
	c.guard.Name = "cartridge " + desc.Name

	b, err := newbase(desc, rom, len(c.CHR))
	if err != nil {
		return nil, err
	}
	m, err := desc.Load(b)
	if err != nil {
		return nil, err
	}
	c.base = b
	c.mapper = m

	modMapper.InfoZ("cartridge loaded").
		String("mapper", desc.Name).
		Int("prgrom", len(c.PRG)).
		Int("chr", len(c.CHR)).
		Bool("chrram", c.chrRAM).
		Int("prgram", len(b.prgram)).
		Bool("busconflicts", b.busConflicts).
		End()
	return c, nil
}

// Mirroring returns the current nametable mirroring.
func (c *Cartridge) Mirroring() ines.NTMirroring {
	c.guard.Enter()
	m, ok := c.mapper.Mirroring()
	c.guard.Exit()
	if !ok {
		return c.Rom.Mirroring()
	}
	return m
}

func (c *Cartridge) IRQ() bool {
	c.guard.Enter()
	defer c.guard.Exit()
	return c.mapper.IRQ()
}

func (c *Cartridge) OnScanline() {
	c.guard.Enter()
	defer c.guard.Exit()
	c.mapper.OnScanline()
}

func (c *Cartridge) Reset() {
	c.guard.Enter()
	defer c.guard.Exit()
	c.mapper.Reset()
}

// PRGRAM returns the cartridge work RAM (possibly empty).
func (c *Cartridge) PRGRAM() []byte { return c.base.prgram }

// HasCHRRAM reports whether the pattern tables are writable.
func (c *Cartridge) HasCHRRAM() bool { return c.chrRAM }

func (c *Cartridge) cpuRead(addr uint16) uint8 {
	c.guard.Enter()
	acc := c.mapper.CPURead(addr)
	c.guard.Exit()

	switch acc.Kind {
	case Data:
		return acc.Value
	case Offset:
		return c.PRG[acc.Off%len(c.PRG)]
	}
	return 0
}

func (c *Cartridge) cpuWrite(addr uint16, val uint8) {
	c.guard.Enter()
	c.mapper.CPUWrite(addr, val)
	c.guard.Exit()
}

func (c *Cartridge) ppuRead(addr uint16) uint8 {
	c.guard.Enter()
	acc := c.mapper.PPURead(addr)
	c.guard.Exit()

	switch acc.Kind {
	case Data:
		return acc.Value
	case Offset:
		return c.CHR[acc.Off%len(c.CHR)]
	}
	return 0
}

func (c *Cartridge) ppuWrite(addr uint16, val uint8) {
	if !c.chrRAM {
		return
	}
	c.guard.Enter()
	acc := c.mapper.PPURead(addr)
	c.guard.Exit()

	if acc.Kind == Offset {
		c.CHR[acc.Off%len(c.CHR)] = val
	}
}

// CPUPort returns the bus component exposing the cartridge at $4020-$FFFF.
func (c *Cartridge) CPUPort() hwio.Component[uint16] { return cpuPort{c} }

// PPUPort returns the bus component exposing the cartridge pattern tables at
// $0000-$1FFF.
func (c *Cartridge) PPUPort() hwio.Component[uint16] { return ppuPort{c} }

type cpuPort struct{ c *Cartridge }

var cpuRange = hwio.Range[uint16]{Start: 0x4020, End: 0xFFFF}

func (p cpuPort) ReadRange() (hwio.Range[uint16], bool)  { return cpuRange, true }
func (p cpuPort) WriteRange() (hwio.Range[uint16], bool) { return cpuRange, true }
func (p cpuPort) Read8(addr uint16) uint8                { return p.c.cpuRead(addr + cpuRange.Start) }
func (p cpuPort) Peek8(addr uint16) uint8                { return p.c.cpuRead(addr + cpuRange.Start) }
func (p cpuPort) Write8(addr uint16, val uint8)          { p.c.cpuWrite(addr+cpuRange.Start, val) }

type ppuPort struct{ c *Cartridge }

var ppuRange = hwio.Range[uint16]{Start: 0x0000, End: 0x1FFF}

func (p ppuPort) ReadRange() (hwio.Range[uint16], bool)  { return ppuRange, true }
func (p ppuPort) WriteRange() (hwio.Range[uint16], bool) { return ppuRange, true }
func (p ppuPort) Read8(addr uint16) uint8                { return p.c.ppuRead(addr) }
func (p ppuPort) Peek8(addr uint16) uint8                { return p.c.ppuRead(addr) }
func (p ppuPort) Write8(addr uint16, val uint8)          { p.c.ppuWrite(addr, val) }

// SaveState copies the cartridge writable memories and the mapper registers
// into s.
func (c *Cartridge) SaveState(s *snapshot.Cartridge) {
	s.Mapper = c.Rom.Mapper()
	s.Name = c.Desc.Name
	s.Mirroring = c.Mirroring().String()
	s.PRGRAM = append(s.PRGRAM[:0], c.base.prgram...)
	s.CHRRAM = s.CHRRAM[:0]
	if c.chrRAM {
		s.CHRRAM = append(s.CHRRAM, c.CHR...)
	}

	c.guard.Enter()
	defer c.guard.Exit()
	c.base.saveBanks(&s.Banks)
	s.Regs, s.IRQ = s.Regs[:0], nil
	if rs, ok := c.mapper.(regsSaver); ok {
		rs.saveRegs(s)
	}
}
