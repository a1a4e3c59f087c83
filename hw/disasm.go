package hw

import (
	"fmt"
)

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 15; off++ {
		buf[off] = ' '
	}
	// Undocumented opcodes are prefixed with '*', nestest style.
	if len(d.Opcode) == 4 {
		off += copy(buf[off:], d.Opcode)
	} else {
		buf[off] = ' '
		off++
		off += copy(buf[off:], d.Opcode)
	}
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

// Disasm disassembles the instruction at pc. Memory is accessed with Peek8,
// so disassembling has no side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	peek := c.Bus.Peek8
	// peek16zp reads a pointer from the zero page.
	peek16zp := func(zp uint8) uint16 {
		return uint16(peek(uint16(zp+1)))<<8 | uint16(peek(uint16(zp)))
	}

	opcode := peek(pc)
	in := instructions[opcode]

	d := DisasmOp{PC: pc, Opcode: in.op.String()}
	if undocumented(opcode) {
		d.Opcode = "*" + d.Opcode
	}
	for i := range in.mode.size() {
		d.Buf = append(d.Buf, peek(pc+i))
	}

	var (
		op8  uint8
		op16 uint16
	)
	if len(d.Buf) > 1 {
		op8 = d.Buf[1]
	}
	if len(d.Buf) > 2 {
		op16 = uint16(d.Buf[2])<<8 | uint16(d.Buf[1])
	}

	switch in.mode {
	case imp:
		switch in.op {
		case ASL, LSR, ROL, ROR:
			d.Oper = "A"
		}
	case imm:
		d.Oper = fmt.Sprintf("#$%02X", op8)
	case zpg:
		d.Oper = fmt.Sprintf("$%02X = %02X", op8, peek(uint16(op8)))
	case zpx:
		addr := op8 + c.X
		d.Oper = fmt.Sprintf("$%02X,X @ %02X = %02X", op8, addr, peek(uint16(addr)))
	case zpy:
		addr := op8 + c.Y
		d.Oper = fmt.Sprintf("$%02X,Y @ %02X = %02X", op8, addr, peek(uint16(addr)))
	case rel:
		d.Oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(op8)))
	case abs:
		if in.op == JMP || in.op == JSR {
			d.Oper = fmt.Sprintf("$%04X", op16)
		} else {
			d.Oper = fmt.Sprintf("%s = %02X", formatAddr(op16), peek(op16))
		}
	case abx:
		addr := op16 + uint16(c.X)
		d.Oper = fmt.Sprintf("%s,X @ %04X = %02X", formatAddr(op16), addr, peek(addr))
	case aby:
		addr := op16 + uint16(c.Y)
		d.Oper = fmt.Sprintf("%s,Y @ %04X = %02X", formatAddr(op16), addr, peek(addr))
	case ind:
		dst := uint16(peek(op16&0xFF00|uint16(uint8(op16)+1)))<<8 | uint16(peek(op16))
		d.Oper = fmt.Sprintf("($%04X) = %04X", op16, dst)
	case izx:
		zp := op8 + c.X
		addr := peek16zp(zp)
		d.Oper = fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", op8, zp, addr, peek(addr))
	case izy:
		base := peek16zp(op8)
		addr := base + uint16(c.Y)
		d.Oper = fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", op8, base, addr, peek(addr))
	}
	return d
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4000: "Sq0Duty_4000",
	0x4001: "Sq0Sweep_4001",
	0x4002: "Sq0Timer_4002",
	0x4003: "Sq0Length_4003",
	0x4004: "Sq1Duty_4004",
	0x4005: "Sq1Sweep_4005",
	0x4006: "Sq1Timer_4006",
	0x4007: "Sq1Length_4007",
	0x4008: "TrgLinear_4008",
	0x400A: "TrgTimer_400A",
	0x400B: "TrgLength_400B",
	0x400C: "NoiseVolume_400C",
	0x400E: "NoisePeriod_400E",
	0x400F: "NoiseLength_400F",
	0x4010: "DmcFreq_4010",
	0x4011: "DmcCounter_4011",
	0x4012: "DmcAddress_4012",
	0x4013: "DmcLength_4013",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
