package hw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/emu/log"
)

// traceProg stores to a PPU register, runs 2 undocumented opcodes then jams.
const traceProg = `
0010: 5a
0600: a9 32 8d 00 20 a7 10 80 44 02 ea`

func traceCPU(t testing.TB, w io.Writer) (*CPU, *PPU) {
	t.Helper()

	cpu := loadCPUWith(t, traceProg)
	ppu := NewPPU()
	cpu.PPU = ppu
	cpu.P = Reserved | Interrupt
	cpu.Cycles = 7
	ppu.Scanline = 0
	ppu.Cycle = 21
	cpu.SetTraceOutput(w)
	return cpu, ppu
}

func TestTrace(t *testing.T) {
	var out bytes.Buffer
	cpu, ppu := traceCPU(t, &out)

	for range 8 {
		ppu.Run(3 * cpu.Step())
	}

	line := func(dis, regs string) string {
		return fmt.Sprintf("%-49s%s", dis, regs)
	}
	want := []string{
		line("0600  A9 32     LDA #$32", "A:00 X:00 Y:00 P:24 S:FD PPU:0  ,21  7"),
		line("0602  8D 00 20  STA PpuControl_2000 = 00", "A:32 X:00 Y:00 P:24 S:FD PPU:0  ,27  9"),
		line("0605  A7 10    *LAX $10 = 5A", "A:32 X:00 Y:00 P:24 S:FD PPU:0  ,39  13"),
		line("0607  80 44    *NOP #$44", "A:5A X:5A Y:00 P:24 S:FD PPU:0  ,48  16"),
		// A halted CPU isn't traced after the jamming opcode.
		line("0609  02       *JAM", "A:5A X:5A Y:00 P:24 S:FD PPU:0  ,54  18"),
	}

	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if !cpu.IsHalted() || cpu.PC != 0x0609 {
		t.Errorf("halted=%t PC=$%04X, want halted at $0609", cpu.IsHalted(), cpu.PC)
	}
}

func TestTraceDisable(t *testing.T) {
	var out bytes.Buffer
	cpu, _ := traceCPU(t, &out)

	cpu.Step()
	cpu.SetTraceOutput(nil)
	cpu.Step()

	if n := strings.Count(out.String(), "\n"); n != 1 {
		t.Errorf("got %d trace lines, want 1", n)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTraceWriteError(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	cpu, _ := traceCPU(t, failWriter{})
	for range 3 {
		cpu.Step()
	}

	if cpu.PC != 0x0607 {
		t.Errorf("PC = $%04X, want $0607", cpu.PC)
	}
	if n := strings.Count(logs.String(), "trace write failed"); n != 1 {
		t.Errorf("write error logged %d times, want 1:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("log output %q doesn't mention the write error", logs.String())
	}
}

func BenchmarkTrace(b *testing.B) {
	cpu := loadCPUWith(b, `0600: a9 32 8d 00 20 4c 00 06`)
	cpu.SetTraceOutput(io.Discard)

	for range b.N {
		cpu.Step()
	}
}

func BenchmarkDisasmOpBytes(b *testing.B) {
	cpu := loadCPUWith(b, traceProg)

	var buf []byte
	for range b.N {
		buf = cpu.Disasm(0x0602).Bytes()
	}
	if len(buf) != 48 {
		b.Fatalf("got %d bytes, want 48", len(buf))
	}
}
