package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

var modDMA = log.NewModule("dma")

// Cost of an OAM DMA transfer, in CPU cycles. One more cycle is needed when
// the transfer starts on an odd CPU cycle.
const oamDMACycles = 512

// DMA handles the transfer of OAM (sprites attributes) from CPU memory to the
// PPU. The transfer is requested by a write to OAMDMA ($4014) and carried out
// by the system before the next CPU instruction.
type DMA struct {
	OAMDMA hwio.Reg8

	bus *hwio.Bus[uint16]
	oam *[256]byte

	page    uint8
	pending bool
}

func NewDMA(bus *hwio.Bus[uint16], ppu *PPU) *DMA {
	dma := &DMA{bus: bus, oam: &ppu.OAM}
	dma.OAMDMA = hwio.Reg8{
		Name:    "OAMDMA",
		Addr:    0x4014,
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: dma.WriteOAMDMA,
	}
	return dma
}

func (dma *DMA) Reset() {
	dma.page = 0x00
	dma.pending = false
}

// OAMDMA: $4014
func (dma *DMA) WriteOAMDMA(_, val uint8) {
	modDMA.DebugZ("request OAM DMA transfer").Hex8("page", val).End()
	dma.page = val
	dma.pending = true
}

// Pending reports whether a transfer has been requested.
func (dma *DMA) Pending() bool {
	return dma.pending
}

// Transfer copies the 256 bytes of the requested page into OAM and returns
// the number of CPU cycles it took, given the CPU cycle count at which the
// transfer begins.
func (dma *DMA) Transfer(cpuCycles int64) int {
	base := uint16(dma.page) << 8
	for i := range uint16(256) {
		dma.oam[i] = dma.bus.Read8(base + i)
	}
	dma.pending = false

	cycles := oamDMACycles
	if cpuCycles%2 == 1 {
		cycles++
	}

	modDMA.DebugZ("OAM DMA transfer").
		Hex8("page", dma.page).
		Int64("start", cpuCycles).
		Int("cycles", cycles).
		End()
	return cycles
}
