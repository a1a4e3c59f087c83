package mappers

import (
	"errors"
	"fmt"

	"nescore/emu/log"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// UnsupportedMapperError is returned when loading a rom using a mapper that
// is not implemented.
type UnsupportedMapperError struct {
	Mapper uint16
}

func (e UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.Mapper)
}

// Load creates the cartridge corresponding to rom.
func Load(rom *ines.Rom) (*Cartridge, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, UnsupportedMapperError{Mapper: rom.Mapper()}
	}
	cart, err := newCartridge(desc, rom)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	return cart, nil
}

type MapperDesc struct {
	Name            string
	Load            func(*base) (Mapper, error)
	HasBusConflicts func(*base) bool
}

func submapper2(b *base) bool { return b.rom.SubMapper() == 2 }

var All = map[uint16]MapperDesc{
	0:  NROM,
	1:  MMC1,
	2:  UxROM,
	3:  CNROM,
	4:  MMC3,
	7:  AxROM,
	66: GxROM,
}

func newbase(desc MapperDesc, rom *ines.Rom, chrlen int) (*base, error) {
	if len(rom.PRGROM) == 0 {
		return nil, errors.New("empty PRGROM")
	}
	if len(rom.PRGROM)%prgPageSize != 0 {
		return nil, fmt.Errorf("PRGROM size must be a multiple of 8KB, got %d", len(rom.PRGROM))
	}

	b := &base{
		desc:   desc,
		rom:    rom,
		prglen: len(rom.PRGROM),
		chrlen: chrlen,
		prgram: make([]byte, rom.PRGRAMSize()),
	}
	if desc.HasBusConflicts != nil {
		b.busConflicts = desc.HasBusConflicts(b)
	}
	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
	return b, nil
}
