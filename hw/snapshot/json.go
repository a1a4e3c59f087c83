package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// Marshal returns the indented JSON encoding of s.
func Marshal(s *NES) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	s.Encode(&e)
	return e.Bytes()
}

// Unmarshal decodes a JSON snapshot.
func Unmarshal(data []byte) (*NES, error) {
	var s NES
	if err := s.Decode(jx.DecodeBytes(data)); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", s.Version)
	}
	return &s, nil
}

func (s *NES) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("frames", func(e *jx.Encoder) { e.Int64(s.Frames) })
		e.Field("cpu", s.CPU.Encode)
		e.Field("ram", func(e *jx.Encoder) { e.Base64(s.RAM) })
		e.Field("ppu", s.PPU.Encode)
		e.Field("cartridge", s.Cartridge.Encode)
	})
}

func (s *NES) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "frames":
			s.Frames, err = d.Int64()
		case "cpu":
			err = s.CPU.Decode(d)
		case "ram":
			s.RAM, err = d.Base64()
		case "ppu":
			err = s.PPU.Decode(d)
		case "cartridge":
			err = s.Cartridge.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func (s *CPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(s.PC) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(s.SP) })
		e.Field("p", func(e *jx.Encoder) { e.UInt8(s.P) })
		e.Field("a", func(e *jx.Encoder) { e.UInt8(s.A) })
		e.Field("x", func(e *jx.Encoder) { e.UInt8(s.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt8(s.Y) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(s.Cycles) })
		e.Field("halted", func(e *jx.Encoder) { e.Bool(s.Halted) })
	})
}

func (s *CPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			s.PC, err = d.UInt16()
		case "sp":
			s.SP, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "cycles":
			s.Cycles, err = d.Int64()
		case "halted":
			s.Halted, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (s *PPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("cycle", func(e *jx.Encoder) { e.Int(s.Cycle) })
		e.Field("scanline", func(e *jx.Encoder) { e.Int(s.Scanline) })
		e.Field("frames", func(e *jx.Encoder) { e.Int64(s.Frames) })
		e.Field("ppuctrl", func(e *jx.Encoder) { e.UInt8(s.PPUCTRL) })
		e.Field("ppumask", func(e *jx.Encoder) { e.UInt8(s.PPUMASK) })
		e.Field("ppustatus", func(e *jx.Encoder) { e.UInt8(s.PPUSTATUS) })
		e.Field("oamaddr", func(e *jx.Encoder) { e.UInt8(s.OAMADDR) })
		e.Field("v", func(e *jx.Encoder) { e.UInt16(s.VRAMAddr) })
		e.Field("t", func(e *jx.Encoder) { e.UInt16(s.VRAMTemp) })
		e.Field("finex", func(e *jx.Encoder) { e.UInt8(s.FineX) })
		e.Field("latch", func(e *jx.Encoder) { e.Bool(s.WriteLatch) })
		e.Field("databuf", func(e *jx.Encoder) { e.UInt8(s.PPUDataBuf) })
		e.Field("oddframe", func(e *jx.Encoder) { e.Bool(s.OddFrame) })
		e.Field("oam", func(e *jx.Encoder) { e.Base64(s.OAM) })
		e.Field("palette", func(e *jx.Encoder) { e.Base64(s.Palette) })
		e.Field("nametable", func(e *jx.Encoder) { e.Base64(s.Nametable) })
	})
}

func (s *PPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cycle":
			s.Cycle, err = d.Int()
		case "scanline":
			s.Scanline, err = d.Int()
		case "frames":
			s.Frames, err = d.Int64()
		case "ppuctrl":
			s.PPUCTRL, err = d.UInt8()
		case "ppumask":
			s.PPUMASK, err = d.UInt8()
		case "ppustatus":
			s.PPUSTATUS, err = d.UInt8()
		case "oamaddr":
			s.OAMADDR, err = d.UInt8()
		case "v":
			s.VRAMAddr, err = d.UInt16()
		case "t":
			s.VRAMTemp, err = d.UInt16()
		case "finex":
			s.FineX, err = d.UInt8()
		case "latch":
			s.WriteLatch, err = d.Bool()
		case "databuf":
			s.PPUDataBuf, err = d.UInt8()
		case "oddframe":
			s.OddFrame, err = d.Bool()
		case "oam":
			s.OAM, err = d.Base64()
		case "palette":
			s.Palette, err = d.Base64()
		case "nametable":
			s.Nametable, err = d.Base64()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (s *Cartridge) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("mapper", func(e *jx.Encoder) { e.UInt16(s.Mapper) })
		e.Field("name", func(e *jx.Encoder) { e.Str(s.Name) })
		e.Field("mirroring", func(e *jx.Encoder) { e.Str(s.Mirroring) })
		if len(s.PRGRAM) > 0 {
			e.Field("prgram", func(e *jx.Encoder) { e.Base64(s.PRGRAM) })
		}
		if len(s.CHRRAM) > 0 {
			e.Field("chrram", func(e *jx.Encoder) { e.Base64(s.CHRRAM) })
		}
		e.Field("banks", s.Banks.Encode)
		if len(s.Regs) > 0 {
			e.Field("regs", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, r := range s.Regs {
						e.UInt8(r)
					}
				})
			})
		}
		if s.IRQ != nil {
			e.Field("irq", s.IRQ.Encode)
		}
	})
}

func (s *Cartridge) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "mapper":
			s.Mapper, err = d.UInt16()
		case "name":
			s.Name, err = d.Str()
		case "mirroring":
			s.Mirroring, err = d.Str()
		case "prgram":
			s.PRGRAM, err = d.Base64()
		case "chrram":
			s.CHRRAM, err = d.Base64()
		case "banks":
			err = s.Banks.Decode(d)
		case "regs":
			s.Regs = s.Regs[:0]
			err = d.Arr(func(d *jx.Decoder) error {
				r, err := d.UInt8()
				s.Regs = append(s.Regs, r)
				return err
			})
		case "irq":
			s.IRQ = new(MapperIRQ)
			err = s.IRQ.Decode(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeInts(e *jx.Encoder, vals []int) {
	e.Arr(func(e *jx.Encoder) {
		for _, v := range vals {
			e.Int(v)
		}
	})
}

func decodeInts(d *jx.Decoder) ([]int, error) {
	var vals []int
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := d.Int()
		vals = append(vals, v)
		return err
	})
	return vals, err
}

func (s *Banks) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("prg", func(e *jx.Encoder) { encodeInts(e, s.PRG) })
		e.Field("chr", func(e *jx.Encoder) { encodeInts(e, s.CHR) })
		e.Field("ramdisabled", func(e *jx.Encoder) { e.Bool(s.RAMDisabled) })
	})
}

func (s *Banks) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "prg":
			s.PRG, err = decodeInts(d)
		case "chr":
			s.CHR, err = decodeInts(d)
		case "ramdisabled":
			s.RAMDisabled, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (s *MapperIRQ) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("latch", func(e *jx.Encoder) { e.UInt8(s.Latch) })
		e.Field("counter", func(e *jx.Encoder) { e.UInt8(s.Counter) })
		e.Field("reload", func(e *jx.Encoder) { e.Bool(s.Reload) })
		e.Field("enabled", func(e *jx.Encoder) { e.Bool(s.Enabled) })
		e.Field("pending", func(e *jx.Encoder) { e.Bool(s.Pending) })
	})
}

func (s *MapperIRQ) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "latch":
			s.Latch, err = d.UInt8()
		case "counter":
			s.Counter, err = d.UInt8()
		case "reload":
			s.Reload, err = d.Bool()
		case "enabled":
			s.Enabled, err = d.Bool()
		case "pending":
			s.Pending, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}
