package mappers

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

// NROM has no registers: 16KB or 32KB PRG ROM at $8000 (16KB roms are
// mirrored at $C000) and a fixed 8KB CHR.
func loadNROM(b *base) (Mapper, error) {
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return b, nil
}
