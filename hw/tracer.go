package hw

import (
	"fmt"
	"io"

	"nescore/emu/log"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock    int64
	PPUCycle uint32
	Scanline int
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

// tracer writes one line per executed instruction, in the format of the
// nestest.log reference trace.
type tracer struct {
	d   disasmer
	w   io.Writer
	buf []byte

	werr error // first write error, only reported once
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// appendReg appends "name:XX ".
func appendReg(buf []byte, name byte, v uint8) []byte {
	buf = append(buf, name, ':', 0, 0, ' ')
	hexEncode(buf[len(buf)-3:], v)
	return buf
}

// write the execution trace for current instruction.
func (t *tracer) write(state cpuState) {
	buf := append(t.buf[:0], t.d.Disasm(state.PC).Bytes()...)
	for len(buf) < 49 {
		buf = append(buf, ' ')
	}

	buf = appendReg(buf, 'A', state.A)
	buf = appendReg(buf, 'X', state.X)
	buf = appendReg(buf, 'Y', state.Y)
	buf = appendReg(buf, 'P', byte(state.P))
	buf = appendReg(buf, 'S', state.SP)

	buf = fmt.Appendf(buf, "PPU:%-3d,%-3d %d\n", state.Scanline, state.PPUCycle, state.Clock)
	if _, err := t.w.Write(buf); err != nil && t.werr == nil {
		t.werr = err
		log.ModCPU.WarnZ("trace write failed").Hex16("PC", state.PC).Error("err", err).End()
	}
	t.buf = buf
}
