package hw

// handlers executes operations. They return the number of extra cycles taken
// by the operation (only branches have some).
var handlers [numOps]func(c *CPU, o operand) int

func init() {
	handlers = [numOps]func(c *CPU, o operand) int{
		ADC: func(c *CPU, o operand) int { c.adc(c.load(o)); return 0 },
		SBC: func(c *CPU, o operand) int { c.adc(^c.load(o)); return 0 },
		AND: func(c *CPU, o operand) int { c.A &= c.load(o); c.P.checkNZ(c.A); return 0 },
		ORA: func(c *CPU, o operand) int { c.A |= c.load(o); c.P.checkNZ(c.A); return 0 },
		EOR: func(c *CPU, o operand) int { c.A ^= c.load(o); c.P.checkNZ(c.A); return 0 },
		ASL: func(c *CPU, o operand) int { c.modify(o, (*CPU).asl); return 0 },
		LSR: func(c *CPU, o operand) int { c.modify(o, (*CPU).lsr); return 0 },
		ROL: func(c *CPU, o operand) int { c.modify(o, (*CPU).rol); return 0 },
		ROR: func(c *CPU, o operand) int { c.modify(o, (*CPU).ror); return 0 },
		BIT: bit,

		BCC: branch(Carry, false),
		BCS: branch(Carry, true),
		BNE: branch(Zero, false),
		BEQ: branch(Zero, true),
		BPL: branch(Negative, false),
		BMI: branch(Negative, true),
		BVC: branch(Overflow, false),
		BVS: branch(Overflow, true),

		CLC: flagOp(Carry, false),
		SEC: flagOp(Carry, true),
		CLI: flagOp(Interrupt, false),
		SEI: flagOp(Interrupt, true),
		CLD: flagOp(Decimal, false),
		SED: flagOp(Decimal, true),
		CLV: flagOp(Overflow, false),

		CMP: func(c *CPU, o operand) int { c.compare(c.A, c.load(o)); return 0 },
		CPX: func(c *CPU, o operand) int { c.compare(c.X, c.load(o)); return 0 },
		CPY: func(c *CPU, o operand) int { c.compare(c.Y, c.load(o)); return 0 },

		DEC: func(c *CPU, o operand) int { c.modify(o, (*CPU).dec); return 0 },
		INC: func(c *CPU, o operand) int { c.modify(o, (*CPU).inc); return 0 },
		DEX: func(c *CPU, o operand) int { c.X--; c.P.checkNZ(c.X); return 0 },
		DEY: func(c *CPU, o operand) int { c.Y--; c.P.checkNZ(c.Y); return 0 },
		INX: func(c *CPU, o operand) int { c.X++; c.P.checkNZ(c.X); return 0 },
		INY: func(c *CPU, o operand) int { c.Y++; c.P.checkNZ(c.Y); return 0 },

		LDA: func(c *CPU, o operand) int { c.A = c.load(o); c.P.checkNZ(c.A); return 0 },
		LDX: func(c *CPU, o operand) int { c.X = c.load(o); c.P.checkNZ(c.X); return 0 },
		LDY: func(c *CPU, o operand) int { c.Y = c.load(o); c.P.checkNZ(c.Y); return 0 },
		STA: func(c *CPU, o operand) int { c.store(o, c.A); return 0 },
		STX: func(c *CPU, o operand) int { c.store(o, c.X); return 0 },
		STY: func(c *CPU, o operand) int { c.store(o, c.Y); return 0 },

		TAX: func(c *CPU, o operand) int { c.X = c.A; c.P.checkNZ(c.X); return 0 },
		TAY: func(c *CPU, o operand) int { c.Y = c.A; c.P.checkNZ(c.Y); return 0 },
		TSX: func(c *CPU, o operand) int { c.X = c.SP; c.P.checkNZ(c.X); return 0 },
		TXA: func(c *CPU, o operand) int { c.A = c.X; c.P.checkNZ(c.A); return 0 },
		TYA: func(c *CPU, o operand) int { c.A = c.Y; c.P.checkNZ(c.A); return 0 },
		TXS: func(c *CPU, o operand) int { c.SP = c.X; return 0 },

		PHA: func(c *CPU, o operand) int { c.push8(c.A); return 0 },
		PLA: func(c *CPU, o operand) int { c.A = c.pull8(); c.P.checkNZ(c.A); return 0 },
		PHP: php,
		PLP: func(c *CPU, o operand) int { c.pullP(); return 0 },

		JMP: func(c *CPU, o operand) int { c.PC = o.addr; return 0 },
		JSR: func(c *CPU, o operand) int { c.push16(c.PC - 1); c.PC = o.addr; return 0 },
		RTS: func(c *CPU, o operand) int { c.PC = c.pull16() + 1; return 0 },
		RTI: func(c *CPU, o operand) int { c.pullP(); c.PC = c.pull16(); return 0 },
		BRK: brk,

		NOP: func(c *CPU, o operand) int {
			if o.kind != noOperand {
				c.load(o)
			}
			return 0
		},

		// undocumented
		SLO: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).asl); c.A |= v; c.P.checkNZ(c.A); return 0 },
		RLA: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).rol); c.A &= v; c.P.checkNZ(c.A); return 0 },
		SRE: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).lsr); c.A ^= v; c.P.checkNZ(c.A); return 0 },
		RRA: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).ror); c.adc(v); return 0 },
		DCP: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).dec); c.compare(c.A, v); return 0 },
		ISC: func(c *CPU, o operand) int { v := c.modify(o, (*CPU).inc); c.adc(^v); return 0 },
		SAX: func(c *CPU, o operand) int { c.store(o, c.A&c.X); return 0 },
		LAX: func(c *CPU, o operand) int { c.A = c.load(o); c.X = c.A; c.P.checkNZ(c.A); return 0 },
		ANC: func(c *CPU, o operand) int {
			c.A &= c.load(o)
			c.P.checkNZ(c.A)
			c.P.setFlag(Carry, c.P.N())
			return 0
		},
		ALR: func(c *CPU, o operand) int { c.A = c.lsr(c.A & c.load(o)); return 0 },
		ARR: arr,
		ANE: func(c *CPU, o operand) int { c.A = (c.A | 0xEE) & c.X & c.load(o); c.P.checkNZ(c.A); return 0 },
		LXA: func(c *CPU, o operand) int { c.A = (c.A | 0xEE) & c.load(o); c.X = c.A; c.P.checkNZ(c.A); return 0 },
		SBX: func(c *CPU, o operand) int {
			v := c.load(o)
			t := c.A & c.X
			c.P.setFlag(Carry, t >= v)
			c.X = t - v
			c.P.checkNZ(c.X)
			return 0
		},
		LAS: func(c *CPU, o operand) int {
			v := c.load(o) & c.SP
			c.A, c.X, c.SP = v, v, v
			c.P.checkNZ(v)
			return 0
		},
		SHA: func(c *CPU, o operand) int { c.storeHigh(o, c.A&c.X); return 0 },
		SHX: func(c *CPU, o operand) int { c.storeHigh(o, c.X); return 0 },
		SHY: func(c *CPU, o operand) int { c.storeHigh(o, c.Y); return 0 },
		TAS: func(c *CPU, o operand) int { c.SP = c.A & c.X; c.storeHigh(o, c.SP); return 0 },
		JAM: func(c *CPU, o operand) int {
			c.PC--
			c.halt()
			return 0
		},
	}
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v) + uint16(c.P.carry())
	res := uint8(sum)
	c.P.setFlag(Carry, sum > 0xFF)
	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	c.P.setFlag(Overflow, ^(c.A^v)&(c.A^res)&0x80 != 0)
	c.A = res
	c.P.checkNZ(c.A)
}

func (c *CPU) compare(reg, v uint8) {
	c.P.setFlag(Carry, reg >= v)
	c.P.checkNZ(reg - v)
}

func (c *CPU) asl(v uint8) uint8 {
	c.P.setFlag(Carry, v&0x80 != 0)
	v <<= 1
	c.P.checkNZ(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.P.setFlag(Carry, v&0x01 != 0)
	v >>= 1
	c.P.checkNZ(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carry := c.P.carry()
	c.P.setFlag(Carry, v&0x80 != 0)
	v = v<<1 | carry
	c.P.checkNZ(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carry := c.P.carry()
	c.P.setFlag(Carry, v&0x01 != 0)
	v = v>>1 | carry<<7
	c.P.checkNZ(v)
	return v
}

func (c *CPU) dec(v uint8) uint8 {
	v--
	c.P.checkNZ(v)
	return v
}

func (c *CPU) inc(v uint8) uint8 {
	v++
	c.P.checkNZ(v)
	return v
}

func bit(c *CPU, o operand) int {
	v := c.load(o)
	c.P.setFlag(Zero, c.A&v == 0)
	c.P.setFlag(Negative, v&0x80 != 0)
	c.P.setFlag(Overflow, v&0x40 != 0)
	return 0
}

func branch(f uint8, set bool) func(c *CPU, o operand) int {
	return func(c *CPU, o operand) int {
		if (uint8(c.P)&f != 0) != set {
			return 0
		}
		c.PC = o.addr
		if o.crossed {
			return 2
		}
		return 1
	}
}

func flagOp(f uint8, set bool) func(c *CPU, o operand) int {
	return func(c *CPU, o operand) int {
		c.P.setFlag(f, set)
		return 0
	}
}

// php pushes P with B and U set, then clears both in the live register.
func php(c *CPU, _ operand) int {
	p := c.P
	p.setFlags(Break | Reserved)
	c.push8(uint8(p))
	c.P.clearFlags(Break | Reserved)
	return 0
}

func (c *CPU) pullP() {
	c.P = P(c.pull8())
	c.P.clearFlags(Break)
	c.P.setFlags(Reserved)
}

func brk(c *CPU, _ operand) int {
	// skip padding byte.
	c.PC++
	c.push16(c.PC)

	p := c.P
	p.setFlags(Break | Reserved)
	c.push8(uint8(p))
	c.P.setFlags(Interrupt)
	c.PC = c.read16(IRQVector)
	return 0
}

func arr(c *CPU, o operand) int {
	c.A &= c.load(o)
	c.A = c.A>>1 | c.P.carry()<<7
	c.P.checkNZ(c.A)
	bit6 := c.A&0x40 != 0
	bit5 := c.A&0x20 != 0
	c.P.setFlag(Carry, bit6)
	c.P.setFlag(Overflow, bit6 != bit5)
	return 0
}

// storeHigh implements the unstable SHA/SHX/SHY/TAS stores: the value
// written is ANDed with the high byte of the base address plus one. When
// indexing crossed a page, the value also replaces the high byte of the
// target address.
func (c *CPU) storeHigh(o operand, val uint8) {
	val &= uint8(o.base>>8) + 1
	addr := o.addr
	if o.crossed {
		addr = uint16(val)<<8 | addr&0x00FF
	}
	c.Bus.Write8(addr, val)
}
