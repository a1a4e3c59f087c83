package ines

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRom(hdr [16]byte, trainer bool) []byte {
	copy(hdr[:4], Magic)
	if trainer {
		hdr[6] |= 0x04
	}
	buf := append([]byte(nil), hdr[:]...)
	if trainer {
		buf = append(buf, bytes.Repeat([]byte{0xEE}, 512)...)
	}
	for i := range int(hdr[4]) {
		buf = append(buf, bytes.Repeat([]byte{byte(0x10 + i)}, 16384)...)
	}
	for i := range int(hdr[5]) {
		buf = append(buf, bytes.Repeat([]byte{byte(0x80 + i)}, 8192)...)
	}
	return buf
}

func TestReadFrom(t *testing.T) {
	data := buildRom([16]byte{4: 2, 5: 1, 6: 0x11, 7: 0x40}, true)

	var rom Rom
	n, err := rom.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)

	assert.Len(t, rom.Trainer, 512)
	assert.Len(t, rom.PRGROM, 2*16384)
	assert.Len(t, rom.CHRROM, 8192)
	assert.EqualValues(t, 0x10, rom.PRGROM[0])
	assert.EqualValues(t, 0x11, rom.PRGROM[16384])
	assert.EqualValues(t, 0x80, rom.CHRROM[0])

	assert.EqualValues(t, 0x41, rom.Mapper())
	assert.Equal(t, VertMirroring, rom.Mirroring())
	assert.False(t, rom.IsNES20())
	assert.False(t, rom.HasCHRRAM())
	assert.Equal(t, 0x2000, rom.PRGRAMSize())
	assert.Equal(t, NTSC, rom.TVSystem())
}

func TestReadFromCHRRAM(t *testing.T) {
	var rom Rom
	_, err := rom.ReadFrom(bytes.NewReader(buildRom([16]byte{4: 1, 6: 0x20}, false)))
	require.NoError(t, err)

	assert.True(t, rom.HasCHRRAM())
	assert.Empty(t, rom.CHRROM)
	assert.Empty(t, rom.Trainer)
	assert.EqualValues(t, 2, rom.Mapper())
	assert.Equal(t, HorzMirroring, rom.Mirroring())
}

func TestNES20(t *testing.T) {
	// mapper 0x104, submapper 2, 8KB PRG RAM (64 << 7).
	hdr := [16]byte{4: 1, 5: 1, 6: 0x40, 7: 0x08, 8: 0x21, 10: 0x07, 12: 0x01}

	var rom Rom
	_, err := rom.ReadFrom(bytes.NewReader(buildRom(hdr, false)))
	require.NoError(t, err)

	assert.True(t, rom.IsNES20())
	assert.EqualValues(t, 0x104, rom.Mapper())
	assert.EqualValues(t, 2, rom.SubMapper())
	assert.Equal(t, 8192, rom.PRGRAMSize())
	assert.Equal(t, PAL, rom.TVSystem())
}

func TestReadFromErrors(t *testing.T) {
	t.Run("magic", func(t *testing.T) {
		data := buildRom([16]byte{4: 1}, false)
		data[3] = 0x1b
		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrBadMagic)
	})
	t.Run("short header", func(t *testing.T) {
		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader([]byte(Magic)))
		require.Error(t, err)
	})
	t.Run("truncated PRG", func(t *testing.T) {
		data := buildRom([16]byte{4: 2}, false)
		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(data[:len(data)-1]))
		require.ErrorContains(t, err, "PRG")
	})
	t.Run("truncated CHR", func(t *testing.T) {
		data := buildRom([16]byte{4: 1, 5: 1}, false)
		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(data[:len(data)-100]))
		require.ErrorContains(t, err, "CHR")
	})
	t.Run("truncated trainer", func(t *testing.T) {
		data := buildRom([16]byte{}, true)
		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(data[:100]))
		require.ErrorContains(t, err, "TRAINER")
	})
}

func TestNTMirroringString(t *testing.T) {
	assert.Equal(t, "VertMirroring", VertMirroring.String())
	assert.Equal(t, "NTMirroring(9)", NTMirroring(9).String())
}
