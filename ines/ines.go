// package ines implements a Reader for roms in the iNES file format, used for
// the distribution of NES binary programs. NES 2.0 headers are recognized.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRGROM  []byte // PRGROM is PRG ROM data (length is multiples of 16k)
	CHRROM  []byte // CHRROM is CHR ROM data (length is multiples of 8k), empty if the cartridge uses CHR RAM.
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section")
	}
	rom.PRGROM = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section")
	}
	rom.CHRROM = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(off), nil
}

const Magic = "NES\x1a"

var ErrBadMagic = errors.New("invalid magic number")

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("too small, needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return ErrBadMagic
	}
	copy(hdr.raw[:], p[:16])

	nprg, nchr := int(hdr.raw[4]), int(hdr.raw[5])
	if hdr.IsNES20() {
		nprg |= int(hdr.raw[9]&0x0F) << 8
		nchr |= int(hdr.raw[9]>>4) << 8
	}
	hdr.prgsz = nprg * 16384
	hdr.chrsz = nchr * 8192
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// Header returns the raw 16-byte header.
func (hdr *header) Header() [16]byte {
	return hdr.raw
}

// IsNES20 reports whether the header follows the NES 2.0 format.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// HasCHRRAM reports whether the cartridge uses CHR RAM instead of CHR ROM.
func (hdr *header) HasCHRRAM() bool {
	return hdr.chrsz == 0
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint16 {
	m := uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
	if hdr.IsNES20() {
		m |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return m
}

// SubMapper returns the submapper number (NES 2.0 only, 0 otherwise).
func (hdr *header) SubMapper() uint8 {
	if !hdr.IsNES20() {
		return 0
	}
	return hdr.raw[8] >> 4
}

// Mirroring returns the nametable mirroring declared in the header.
func (hdr *header) Mirroring() NTMirroring {
	if hdr.raw[6]&0x01 != 0 {
		return VertMirroring
	}
	return HorzMirroring
}

// PRGRAMSize returns the size in bytes of the PRG RAM. iNES 1.0 files
// declaring 0 are given 8KB for compatibility.
func (hdr *header) PRGRAMSize() int {
	if hdr.IsNES20() {
		shift := hdr.raw[10] & 0x0F
		if shift == 0 {
			return 0
		}
		return 64 << shift
	}
	if hdr.raw[8] == 0 {
		return 0x2000
	}
	return int(hdr.raw[8]) * 0x2000
}

// TVSystem returns the video standard of the rom.
func (hdr *header) TVSystem() TVSystem {
	if hdr.IsNES20() {
		return TVSystem(hdr.raw[12] & 0x03)
	}
	return TVSystem(hdr.raw[9] & 0x01)
}

//go:generate stringer -type=NTMirroring
//go:generate stringer -type=TVSystem

// NTMirroring is the nametable mirroring mode.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	OnlyAScreen
	OnlyBScreen
)

type TVSystem uint8

const (
	NTSC TVSystem = iota
	PAL
	MultiRegion
	Dendy
)
