package hw

type operandKind uint8

const (
	noOperand  operandKind = iota // implied, or accumulator
	immOperand                    // literal value
	zpOperand                     // zero page address
	absOperand                    // absolute address
)

// operand is the result of an addressing mode resolution. Operations access
// it through load and store, and never know which mode produced it.
type operand struct {
	kind operandKind
	val  uint8  // immOperand
	addr uint16 // zpOperand, absOperand

	base    uint16 // address before indexing
	crossed bool   // indexing (or branching) crossed a page
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

var resolvers = [numModes]func(*CPU) operand{
	imp: func(c *CPU) operand {
		return operand{kind: noOperand}
	},
	imm: func(c *CPU) operand {
		v := c.Bus.Read8(c.PC)
		c.PC++
		return operand{kind: immOperand, val: v}
	},
	zpg: func(c *CPU) operand {
		addr := uint16(c.Bus.Read8(c.PC))
		c.PC++
		return operand{kind: zpOperand, addr: addr, base: addr}
	},
	zpx: func(c *CPU) operand {
		zp := c.Bus.Read8(c.PC)
		c.PC++
		return operand{kind: zpOperand, addr: uint16(zp + c.X), base: uint16(zp)}
	},
	zpy: func(c *CPU) operand {
		zp := c.Bus.Read8(c.PC)
		c.PC++
		return operand{kind: zpOperand, addr: uint16(zp + c.Y), base: uint16(zp)}
	},
	rel: func(c *CPU) operand {
		off := int8(c.Bus.Read8(c.PC))
		c.PC++
		target := c.PC + uint16(off)
		return operand{kind: absOperand, addr: target, base: c.PC, crossed: pageCrossed(c.PC, target)}
	},
	abs: func(c *CPU) operand {
		addr := c.read16(c.PC)
		c.PC += 2
		return operand{kind: absOperand, addr: addr, base: addr}
	},
	abx: func(c *CPU) operand {
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		return operand{kind: absOperand, addr: addr, base: base, crossed: pageCrossed(base, addr)}
	},
	aby: func(c *CPU) operand {
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		return operand{kind: absOperand, addr: addr, base: base, crossed: pageCrossed(base, addr)}
	},
	ind: func(c *CPU) operand {
		ptr := c.read16(c.PC)
		c.PC += 2
		// The high byte is fetched from the same page as the low byte: JMP
		// ($02FF) reads $02FF and $0200.
		lo := c.Bus.Read8(ptr)
		hi := c.Bus.Read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
		addr := uint16(hi)<<8 | uint16(lo)
		return operand{kind: absOperand, addr: addr, base: addr}
	},
	izx: func(c *CPU) operand {
		zp := c.Bus.Read8(c.PC) + c.X
		c.PC++
		lo := c.Bus.Read8(uint16(zp))
		hi := c.Bus.Read8(uint16(zp + 1))
		addr := uint16(hi)<<8 | uint16(lo)
		return operand{kind: absOperand, addr: addr, base: addr}
	},
	izy: func(c *CPU) operand {
		zp := c.Bus.Read8(c.PC)
		c.PC++
		lo := c.Bus.Read8(uint16(zp))
		hi := c.Bus.Read8(uint16(zp + 1))
		base := uint16(hi)<<8 | uint16(lo)
		addr := base + uint16(c.Y)
		return operand{kind: absOperand, addr: addr, base: base, crossed: pageCrossed(base, addr)}
	},
}

// load returns the value designated by the operand.
func (c *CPU) load(o operand) uint8 {
	switch o.kind {
	case immOperand:
		return o.val
	case zpOperand, absOperand:
		return c.Bus.Read8(o.addr)
	}
	return c.A
}

// store writes val at the address designated by the operand, or in the
// accumulator if there's no operand.
func (c *CPU) store(o operand, val uint8) {
	switch o.kind {
	case zpOperand, absOperand:
		c.Bus.Write8(o.addr, val)
	default:
		c.A = val
	}
}

// modify performs a read-modify-write operation on the operand.
func (c *CPU) modify(o operand, f func(c *CPU, v uint8) uint8) uint8 {
	v := f(c, c.load(o))
	c.store(o, v)
	return v
}
