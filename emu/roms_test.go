package emu

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"nescore/ines"
	"nescore/tests"
)

func loadTestRom(t *testing.T, path string) *NES {
	t.Helper()

	rom, err := ines.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	nes, err := PowerUp(rom, 44100)
	if err != nil {
		t.Fatal(err)
	}
	return nes
}

func TestNestest(t *testing.T) {
	nes := loadTestRom(t, filepath.Join(tests.RomsPath(t), "other", "nestest.nes"))

	// nestest.nes has an 'automation' mode, enabled by starting at $C000
	// instead of $C004. It ends with an RTS on an empty stack, to $0001.
	nes.CPU.PC = 0xC000
	nes.CPU.SetTraceOutput(io.Discard)

	for nes.CPU.PC != 0x0001 {
		if _, err := nes.Step(); err != nil {
			t.Fatalf("%v (last opcode $%02X)", err, nes.CPU.Opcode())
		}
		if nes.CPU.Cycles > 30000 {
			t.Fatal("nestest did not terminate")
		}
	}

	// $02 holds the result of official opcodes tests, $03 unofficial ones.
	if res := nes.Bus.Peek8(0x02); res != 0 {
		t.Errorf("official opcodes failed with code $%02X (see nestest.txt)", res)
	}
	if res := nes.Bus.Peek8(0x03); res != 0 {
		t.Errorf("unofficial opcodes failed with code $%02X (see nestest.txt)", res)
	}
}

func TestInstructionsV5(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "instr_test-v5", "rom_singles")
	files := []string{
		"01-basics.nes",
		"02-implied.nes",
		"04-zero_page.nes",
		"05-zp_xy.nes",
		"06-absolute.nes",
		"08-ind_x.nes",
		"09-ind_y.nes",
		"10-branches.nes",
		"11-stack.nes",
		"12-jmp_jsr.nes",
		"13-rts.nes",
		"14-rti.nes",
		"15-brk.nes",
		"16-special.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

func TestPPUVBLNMI(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "ppu_vbl_nmi", "rom_singles")
	files := []string{
		"01-vbl_basics.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

func TestAPU(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "apu_test", "rom_singles")
	files := []string{
		"1-len_ctr.nes",
		"2-len_table.nes",
		"3-irq_flag.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

func TestMMC3(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "mmc3_test_2", "rom_singles")
	files := []string{
		"1-clocking.nes",
		"2-details.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

// runTestRom runs a blargg test rom.
//
// All text output is written starting at $6004, with a zero-byte terminator
// at the end. The test status is written to $6000: $80 means the test is
// running, $81 means the test needs the reset button pressed, $00-$7F means
// the test has completed and given that result code. $DE $B0 $61 is written
// to $6001-$6003 to signal that the status is valid.
func runTestRom(path string) func(t *testing.T) {
	return func(t *testing.T) {
		nes := loadTestRom(t, path)

		magic := []byte{0xDE, 0xB0, 0x61}
		magicset := false
		var result uint8

		for frame := 0; ; frame++ {
			if frame > 60*60 {
				t.Fatal("test rom timed out")
			}
			if err := nes.NextFrame(nil); err != nil {
				t.Fatal(err)
			}

			data := []byte{nes.Bus.Peek8(0x6001), nes.Bus.Peek8(0x6002), nes.Bus.Peek8(0x6003)}
			if !magicset {
				magicset = bytes.Equal(data, magic)
				continue
			}
			if !bytes.Equal(data, magic) {
				t.Fatalf("corrupted memory")
			}

			result = nes.Bus.Peek8(0x6000)
			if result <= 0x7F {
				break
			}
			if result == 0x81 {
				t.Skip("reset button press not supported")
			}
		}
		if result != 0x00 {
			t.Fatalf("test failed:\ncode 0x%02x\ntext %s", result, memToString(nes, 0x6004))
		}
	}
}

func memToString(nes *NES, addr uint16) string {
	var buf []byte
	for ; ; addr++ {
		b := nes.Bus.Peek8(addr)
		if b == 0 || len(buf) > 1024 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}
