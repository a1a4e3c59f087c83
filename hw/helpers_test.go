package hw

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/hw/hwio"
)

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

/* cpu specific testing helpers */

func wantMem8(t *testing.T, cpu *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := cpu.Bus.Peek8(addr); got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}

func wantMem(t *testing.T, cpu *CPU, dl dumpline) {
	t.Helper()

	mem := []byte{}
	for i := range dl.bytes {
		mem = append(mem, cpu.Bus.Peek8(dl.off+uint16(i)))
	}

	if !bytes.Equal(mem, dl.bytes) {
		hd := hex.Dump(mem)
		got := hd[10 : 10+3*len(mem)]
		hd = hex.Dump(dl.bytes)
		want := hd[10 : 10+3*dl.len]
		t.Errorf("mem mismatch at 0x%04x.\ngot: %s\nwant:%s", dl.off, got, want)
	}
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// runAndCheckState executes n instructions then checks the given states,
// provided as name/value pairs.
func runAndCheckState(t *testing.T, cpu *CPU, n int, states ...any) (cycles int) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	if testing.Verbose() {
		cpu.SetTraceOutput(tbwriter{t})
		defer cpu.SetTraceOutput(nil)
	}
	for range n {
		cycles += cpu.Step()
	}

	checkbool := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=%d, want %d", name, got, want)
		}
	}
	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "A":
			checkuint8("A", cpu.A, uint8(states[i+1].(int)))
		case s == "X":
			checkuint8("X", cpu.X, uint8(states[i+1].(int)))
		case s == "Y":
			checkuint8("Y", cpu.Y, uint8(states[i+1].(int)))
		case s == "SP":
			checkuint8("SP", cpu.SP, uint8(states[i+1].(int)))
		case s == "PC":
			if got, want := cpu.PC, uint16(states[i+1].(int)); got != want {
				t.Errorf("got PC=$%04X, want $%04X", got, want)
			}
		case s == "P":
			if got, want := uint8(cpu.P), uint8(states[i+1].(int)); got != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", got, P(got), want, P(want))
			}
		case len(s) > 1 && s[0] == 'P':
			bit := uint8(states[i+1].(int))
			for j := 1; j < len(s); j++ {
				switch s[j] {
				case 'n':
					checkbool("Pn", b2i(cpu.P.N()), bit)
				case 'v':
					checkbool("Pv", b2i(cpu.P.V()), bit)
				case 'b':
					checkbool("Pb", b2i(cpu.P.B()), bit)
				case 'd':
					checkbool("Pd", b2i(cpu.P.D()), bit)
				case 'i':
					checkbool("Pi", b2i(cpu.P.I()), bit)
				case 'z':
					checkbool("Pz", b2i(cpu.P.Z()), bit)
				case 'c':
					checkbool("Pc", b2i(cpu.P.C()), bit)
				default:
					panic("unknown P bit: " + string(s[j]))
				}
			}
		case s == "mem":
			lines := loadDump(t, states[i+1].(string))
			for _, line := range lines {
				wantMem(t, cpu, line)
			}

		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
	return cycles
}

type dumpline struct {
	off   uint16
	len   uint16 // actual length
	bytes []byte // pow2 sized (padded with 0)
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		var buf []byte
		for _, c := range octets {
			if c != ' ' {
				buf = append(buf, byte(c))
			}
		}
		n, err := hex.Decode(buf, buf)
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		// clear the rest of the buffer
		nbytes := nextpow2(uint64(n))
		if uint64(len(buf)) < nbytes {
			buf = append(buf, make([]byte, int(nbytes)-len(buf))...)
		}
		for i := uint64(n); i < nbytes; i++ {
			buf[i] = 0
		}
		lines = append(lines, dumpline{off: uint16(ioff), len: uint16(n), bytes: buf[:nbytes]})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}

	return lines
}

func nextpow2(v uint64) uint64 {
	v--
	v |= v>>1 | v>>2 | v>>4 | v>>8 | v>>16 | v>>32
	return v + 1
}

// loadCPUWith creates a CPU connected to 64KB of RAM, initialized with a
// memory dump. PC is set to $0600.
func loadCPUWith(tb testing.TB, dump string) *CPU {
	tb.Helper()

	bus := hwio.NewBus[uint16]("cpu")
	ram := hwio.NewMem[uint16]("ram", 0x0000, 0x10000)
	bus.Add(ram)
	for _, line := range loadDump(tb, dump) {
		copy(ram.Data[line.off:], line.bytes[:line.len])
	}

	cpu := NewCPU(bus)
	cpu.PC = 0x0600
	return cpu
}

type tbwriter struct {
	testing.TB
}

func (t tbwriter) Write(p []byte) (int, error) {
	t.TB.Helper()
	t.TB.Log(string(bytes.TrimSpace((p))))
	return len(p), nil
}

func TestLoadDump(t *testing.T) {
	tests := []struct {
		dump string
		want []dumpline
	}{
		{
			dump: `01f0: 0f 0e 0d`,
			want: []dumpline{
				{0x01f0, 3, []byte{0x0f, 0x0e, 0x0d, 0x00}},
			},
		},
		{
			dump: `
01f0: 0f 0e 0d 0c 0b 0a 09 08 07 06 05 04 03 02 01 00
# comment
0210: 0f 0e`,
			want: []dumpline{
				{0x01f0, 16, []byte{0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00}},
				{0x0210, 2, []byte{0x0f, 0x0e}},
			},
		},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := loadDump(t, tt.dump)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].off != tt.want[i].off {
					t.Errorf("got offset %04X, want %04X", got[i].off, tt.want[i].off)
				}
				if diff := cmp.Diff(tt.want[i].bytes, got[i].bytes); diff != "" {
					t.Errorf("bytes mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
