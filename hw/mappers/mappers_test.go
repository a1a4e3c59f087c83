package mappers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nescore/hw/hwio"
	"nescore/hw/snapshot"
	"nescore/ines"
)

type romOpts struct {
	mapper    uint16
	submapper uint8
	prg16     int // number of 16KB PRG banks
	chr8      int // number of 8KB CHR banks
	vertical  bool
}

// buildCart builds a cartridge whose 8KB PRG pages and 1KB CHR pages are
// filled with their own index.
func buildCart(t *testing.T, o romOpts) *Cartridge {
	t.Helper()

	hdr := make([]byte, 16)
	copy(hdr, ines.Magic)
	hdr[4] = byte(o.prg16)
	hdr[5] = byte(o.chr8)
	hdr[6] = byte(o.mapper&0x0F) << 4
	if o.vertical {
		hdr[6] |= 0x01
	}
	hdr[7] = byte(o.mapper & 0xF0)
	if o.submapper != 0 {
		hdr[7] |= 0x08
		hdr[8] = o.submapper << 4
		hdr[10] = 0x07 // 8KB PRG RAM
	}

	buf := bytes.NewBuffer(hdr)
	for i := range o.prg16 * 2 {
		buf.Write(bytes.Repeat([]byte{byte(i)}, 0x2000))
	}
	for i := range o.chr8 * 8 {
		buf.Write(bytes.Repeat([]byte{byte(i)}, 0x400))
	}

	rom := new(ines.Rom)
	_, err := rom.ReadFrom(buf)
	require.NoError(t, err)

	cart, err := Load(rom)
	require.NoError(t, err)
	return cart
}

func buses(cart *Cartridge) (cpu, ppu *hwio.Bus[uint16]) {
	cpu = hwio.NewBus[uint16]("cpu")
	cpu.Add(cart.CPUPort())
	ppu = hwio.NewBus[uint16]("ppu")
	ppu.Add(cart.PPUPort())
	return cpu, ppu
}

func wantPages(t *testing.T, bus *hwio.Bus[uint16], pages map[uint16]uint8) {
	t.Helper()
	for addr, want := range pages {
		if got := bus.Read8(addr); got != want {
			t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
		}
	}
}

func TestNROM(t *testing.T) {
	t.Run("16KB", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 0, prg16: 1, chr8: 1})
		cpu, ppu := buses(cart)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xA000: 1, 0xC000: 0, 0xFFFF: 1})
		wantPages(t, ppu, map[uint16]uint8{0x0000: 0, 0x1FFF: 7})

		cpu.Write8(0x6123, 0x42)
		wantPages(t, cpu, map[uint16]uint8{0x6123: 0x42})
	})
	t.Run("32KB", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 0, prg16: 2, chr8: 1})
		cpu, _ := buses(cart)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xC000: 2, 0xE000: 3})
	})
	t.Run("CHR ROM is read-only", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 0, prg16: 1, chr8: 1})
		_, ppu := buses(cart)
		ppu.Write8(0x0000, 0xFF)
		wantPages(t, ppu, map[uint16]uint8{0x0000: 0})
	})
	t.Run("CHR RAM", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 0, prg16: 1})
		assert.True(t, cart.HasCHRRAM())
		_, ppu := buses(cart)
		ppu.Write8(0x1234, 0xAB)
		wantPages(t, ppu, map[uint16]uint8{0x1234: 0xAB})
	})
}

func TestUnsupportedMapper(t *testing.T) {
	buf := bytes.NewBuffer([]byte{'N', 'E', 'S', 0x1A, 1, 0, 0x50, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.Write(make([]byte, 0x4000))
	rom := new(ines.Rom)
	_, err := rom.ReadFrom(buf)
	require.NoError(t, err)

	_, err = Load(rom)
	var unsupported UnsupportedMapperError
	require.ErrorAs(t, err, &unsupported)
	assert.EqualValues(t, 5, unsupported.Mapper)
}

func TestUxROM(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 2, prg16: 8})
	cpu, _ := buses(cart)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xC000: 14, 0xE000: 15})

	cpu.Write8(0x8000, 3)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 6, 0xA000: 7, 0xC000: 14})
}

func TestUxROMBusConflicts(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 2, submapper: 2, prg16: 8})
	cpu, _ := buses(cart)

	// ROM drives 0x0E at $C000: 0x07 & 0x0E selects bank 6.
	cpu.Write8(0xC000, 0x07)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 12})

	// ROM drives 0x0C at $8000 now: 0x03 & 0x0C selects bank 0.
	cpu.Write8(0x8000, 0x03)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 0})
}

func TestCNROM(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 3, prg16: 2, chr8: 4})
	cpu, ppu := buses(cart)

	cpu.Write8(0x8000, 2)
	wantPages(t, ppu, map[uint16]uint8{0x0000: 16, 0x1C00: 23})
	wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xE000: 3})

	// Bank numbers wrap around the number of banks.
	cpu.Write8(0x8000, 5)
	wantPages(t, ppu, map[uint16]uint8{0x0000: 8, 0x1C00: 15})
}

func TestCNROMOversize(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 3, prg16: 2, chr8: 16})
	cpu, ppu := buses(cart)

	cpu.Write8(0x8000, 9)
	wantPages(t, ppu, map[uint16]uint8{0x0000: 72, 0x1C00: 79})
	cpu.Write8(0x8000, 15)
	wantPages(t, ppu, map[uint16]uint8{0x0000: 120, 0x1C00: 127})
}

func TestAxROM(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 7, prg16: 8})
	cpu, _ := buses(cart)
	assert.Equal(t, ines.OnlyAScreen, cart.Mirroring())

	cpu.Write8(0x8000, 0x12)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 8, 0xE000: 11})
	assert.Equal(t, ines.OnlyBScreen, cart.Mirroring())

	cpu.Write8(0x8000, 0x01)
	assert.Equal(t, ines.OnlyAScreen, cart.Mirroring())
}

func TestGxROM(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 66, prg16: 8, chr8: 4, vertical: true})
	cpu, ppu := buses(cart)
	assert.Equal(t, ines.VertMirroring, cart.Mirroring())

	cpu.Write8(0x8000, 0x21)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 8, 0xE000: 11})
	wantPages(t, ppu, map[uint16]uint8{0x0000: 8, 0x1FFF: 15})
}

func mmc1Write(bus *hwio.Bus[uint16], addr uint16, val uint8) {
	for range 5 {
		bus.Write8(addr, val&1)
		val >>= 1
	}
}

func TestMMC1(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 1, prg16: 8, chr8: 4})
	cpu, ppu := buses(cart)

	// Power-up: 16KB mode, last bank fixed at $C000.
	wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xC000: 14})
	assert.Equal(t, ines.OnlyAScreen, cart.Mirroring())

	t.Run("fix last bank", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x0F)
		mmc1Write(cpu, 0xE000, 2)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 4, 0xA000: 5, 0xC000: 14, 0xE000: 15})
		assert.Equal(t, ines.HorzMirroring, cart.Mirroring())
	})
	t.Run("fix first bank", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x0A)
		mmc1Write(cpu, 0xE000, 3)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xC000: 6, 0xE000: 7})
		assert.Equal(t, ines.VertMirroring, cart.Mirroring())
	})
	t.Run("32KB", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x01)
		mmc1Write(cpu, 0xE000, 3)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 4, 0xE000: 7})
		assert.Equal(t, ines.OnlyBScreen, cart.Mirroring())
	})
	t.Run("CHR 4KB", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x10)
		mmc1Write(cpu, 0xA000, 3)
		mmc1Write(cpu, 0xC000, 5)
		wantPages(t, ppu, map[uint16]uint8{0x0000: 12, 0x0C00: 15, 0x1000: 20, 0x1FFF: 23})
	})
	t.Run("CHR 8KB", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x00)
		mmc1Write(cpu, 0xA000, 3)
		wantPages(t, ppu, map[uint16]uint8{0x0000: 8, 0x1FFF: 15})
	})
	t.Run("reset bit", func(t *testing.T) {
		mmc1Write(cpu, 0x8000, 0x00)
		mmc1Write(cpu, 0xE000, 2)

		// Two bits shifted in, then a reset: the next 5 writes form a new value.
		cpu.Write8(0xE000, 1)
		cpu.Write8(0xE000, 1)
		cpu.Write8(0xE000, 0x80)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 4, 0xC000: 14})

		mmc1Write(cpu, 0xE000, 1)
		wantPages(t, cpu, map[uint16]uint8{0x8000: 2, 0xC000: 14})
	})
	t.Run("WRAM disable", func(t *testing.T) {
		cpu.Write8(0x6000, 0x55)
		wantPages(t, cpu, map[uint16]uint8{0x6000: 0x55})
		mmc1Write(cpu, 0xE000, 0x10)
		wantPages(t, cpu, map[uint16]uint8{0x6000: 0x00})
		mmc1Write(cpu, 0xE000, 0x00)
		wantPages(t, cpu, map[uint16]uint8{0x6000: 0x55})
	})
}

func TestMMC3Banks(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 4, prg16: 8, chr8: 8})
	cpu, ppu := buses(cart)

	cpu.Write8(0x8000, 6)
	cpu.Write8(0x8001, 3)
	cpu.Write8(0x8000, 7)
	cpu.Write8(0x8001, 5)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 3, 0xA000: 5, 0xC000: 14, 0xE000: 15})

	cpu.Write8(0x8000, 0x46)
	wantPages(t, cpu, map[uint16]uint8{0x8000: 14, 0xA000: 5, 0xC000: 3, 0xE000: 15})

	cpu.Write8(0x8000, 0)
	cpu.Write8(0x8001, 11)
	cpu.Write8(0x8000, 2)
	cpu.Write8(0x8001, 33)
	wantPages(t, ppu, map[uint16]uint8{0x0000: 10, 0x0400: 11, 0x1000: 33})

	cpu.Write8(0x8000, 0x80)
	wantPages(t, ppu, map[uint16]uint8{0x1000: 10, 0x1400: 11, 0x0000: 33})

	cpu.Write8(0xA000, 1)
	assert.Equal(t, ines.HorzMirroring, cart.Mirroring())
	cpu.Write8(0xA000, 0)
	assert.Equal(t, ines.VertMirroring, cart.Mirroring())
}

func TestMMC3PRGRAM(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 4, prg16: 2, chr8: 1})
	cpu, _ := buses(cart)

	cpu.Write8(0xA001, 0x80)
	cpu.Write8(0x7000, 0x12)
	wantPages(t, cpu, map[uint16]uint8{0x7000: 0x12})

	cpu.Write8(0xA001, 0xC0) // write protect
	cpu.Write8(0x7000, 0x34)
	wantPages(t, cpu, map[uint16]uint8{0x7000: 0x12})

	cpu.Write8(0xA001, 0x00) // disabled
	wantPages(t, cpu, map[uint16]uint8{0x7000: 0x00})
}

func TestMMC3IRQ(t *testing.T) {
	const N = 5

	cart := buildCart(t, romOpts{mapper: 4, prg16: 2, chr8: 1})
	cpu, _ := buses(cart)

	cpu.Write8(0xC000, N) // latch
	cpu.Write8(0xC001, 0) // reload
	cpu.Write8(0xE001, 0) // enable

	count := 0
	for i := range N + 1 {
		cart.OnScanline()
		if cart.IRQ() {
			count++
			require.Equal(t, N, i, "IRQ raised after %d scanlines, want %d", i+1, N+1)
		}
	}
	require.Equal(t, 1, count)

	// Acknowledge and disable.
	cpu.Write8(0xE000, 0)
	require.False(t, cart.IRQ())
	for range 3 * (N + 1) {
		cart.OnScanline()
		require.False(t, cart.IRQ())
	}

	// Re-arm.
	cpu.Write8(0xE001, 0)
	cpu.Write8(0xC001, 0)
	for range N {
		cart.OnScanline()
		require.False(t, cart.IRQ())
	}
	cart.OnScanline()
	require.True(t, cart.IRQ())
	cpu.Write8(0xE000, 0)
	require.False(t, cart.IRQ())
}

func TestCartridgeReentrantAccess(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 0, prg16: 1, chr8: 1})
	cpu, _ := buses(cart)

	cart.guard.Enter()
	defer cart.guard.Exit()

	assert.Panics(t, func() { cpu.Read8(0x8000) })
}

func TestCartridgeReset(t *testing.T) {
	cart := buildCart(t, romOpts{mapper: 2, prg16: 8})
	cpu, _ := buses(cart)

	cpu.Write8(0x8000, 3)
	cart.Reset()
	wantPages(t, cpu, map[uint16]uint8{0x8000: 0, 0xC000: 14})
}

func TestCartridgeSaveState(t *testing.T) {
	t.Run("MMC3", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 4, prg16: 8, chr8: 1})
		cpu, _ := buses(cart)

		cpu.Write8(0x8000, 6) // select R6
		cpu.Write8(0x8001, 3)
		cpu.Write8(0xC000, 5) // latch
		cpu.Write8(0xE001, 0) // enable IRQ

		var s snapshot.Cartridge
		cart.SaveState(&s)

		assert.Equal(t, uint16(4), s.Mapper)
		assert.Equal(t, []int{0x6000, 0x2000, 0x1C000, 0x1E000}, s.Banks.PRG)
		assert.Equal(t, []int{0, 0x400, 0x800, 0xC00, 0x1000, 0x1400, 0x1800, 0x1C00}, s.Banks.CHR)
		assert.Equal(t, []uint8{0, 2, 4, 5, 6, 7, 3, 1, 6, 0, 0, uint8(ines.HorzMirroring), 0}, s.Regs)
		require.NotNil(t, s.IRQ)
		assert.Equal(t, snapshot.MapperIRQ{Latch: 5, Enabled: true}, *s.IRQ)
	})
	t.Run("MMC1", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 1, prg16: 8, chr8: 2})
		cpu, _ := buses(cart)

		cpu.Write8(0x8000, 1) // first bit of a serial write

		var s snapshot.Cartridge
		cart.SaveState(&s)

		assert.Equal(t, []uint8{0x10, 1, 0x0C, 0, 0, 0}, s.Regs)
		assert.Equal(t, []int{0, 0x2000, 0x1C000, 0x1E000}, s.Banks.PRG)
		assert.Nil(t, s.IRQ)
	})
	t.Run("NROM", func(t *testing.T) {
		cart := buildCart(t, romOpts{mapper: 0, prg16: 1, chr8: 1})

		s := snapshot.Cartridge{Regs: []uint8{1}, IRQ: &snapshot.MapperIRQ{}}
		cart.SaveState(&s)

		assert.Empty(t, s.Regs)
		assert.Nil(t, s.IRQ)
		assert.Len(t, s.Banks.CHR, 8)
	})
}
