package hw

import (
	"io"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// Fixed costs of the interrupt sequences.
const (
	resetCycles = 8
	nmiCycles   = 8
	irqCycles   = 7
)

type CPU struct {
	Bus *hwio.Bus[uint16]

	PPU *PPU // non-nil when there's a PPU, only used for tracing.

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Cycles int64 // CPU cycles

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	halted bool
	opcode uint8 // last executed opcode
}

// NewCPU creates a new CPU connected to bus. Reset must be called before
// executing instructions.
func NewCPU(bus *hwio.Bus[uint16]) *CPU {
	return &CPU{
		Bus: bus,
		SP:  0xFD,
		P:   Reserved,
	}
}

// Reset puts the CPU in its power-up state and loads PC from the reset
// vector. It returns the number of cycles taken by the reset sequence.
func (c *CPU) Reset() int {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = 0xFD
	c.P = Reserved
	c.halted = false

	c.PC = c.Bus.Read16(ResetVector)
	c.Cycles += resetCycles

	log.ModCPU.DebugZ("reset").Hex16("PC", c.PC).End()
	return resetCycles
}

// NMI services a non-maskable interrupt. A halted CPU ignores it and
// returns 0.
func (c *CPU) NMI() int {
	if c.halted {
		return 0
	}
	c.interrupt(NMIVector)
	c.Cycles += nmiCycles
	return nmiCycles
}

// IRQ services an interrupt request, unless interrupts are disabled or the
// CPU is halted, in which case it returns 0.
func (c *CPU) IRQ() int {
	if c.halted || c.P.I() {
		return 0
	}
	c.interrupt(IRQVector)
	c.Cycles += irqCycles
	return irqCycles
}

func (c *CPU) interrupt(vector uint16) {
	c.push16(c.PC)
	p := c.P
	p.clearFlags(Break)
	p.setFlags(Reserved)
	c.push8(uint8(p))
	c.P.setFlags(Interrupt)
	c.PC = c.Bus.Read16(vector)
}

// Step executes one instruction and returns the number of cycles it took.
// A halted CPU doesn't execute anything and returns 0.
func (c *CPU) Step() int {
	if c.halted {
		return 0
	}
	if c.tracer != nil {
		c.traceOp()
	}

	c.opcode = c.Bus.Read8(c.PC)
	c.PC++

	in := &instructions[c.opcode]
	oper := resolvers[in.mode](c)
	cycles := int(in.cycles)
	if oper.crossed && pagePenalty[in.op] {
		cycles++
	}
	cycles += handlers[in.op](c, oper)

	if c.halted {
		log.ModCPU.WarnZ("CPU halted").
			Hex16("PC", c.PC).
			Hex8("opcode", c.opcode).
			End()
	}

	c.Cycles += int64(cycles)
	return cycles
}

func (c *CPU) halt() {
	c.halted = true
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// Opcode returns the last executed opcode.
func (c *CPU) Opcode() uint8 {
	return c.opcode
}

func (c *CPU) read16(addr uint16) uint16 {
	return c.Bus.Read16(addr)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.Bus.Write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.Bus.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing */

func (c *CPU) traceOp() {
	state := cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
		PC:    c.PC,
	}
	if c.PPU != nil {
		state.PPUCycle = uint32(c.PPU.Cycle)
		state.Scanline = c.PPU.Scanline
	}
	c.tracer.write(state)
}

// SetTraceOutput enables execution tracing to w, in the nestest log format.
// A nil writer disables tracing.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c}
}
