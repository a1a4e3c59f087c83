package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-faster/jx"

	"nescore/hw/mappers"
	"nescore/ines"
)

type romInfos struct {
	path       string
	nes20      bool
	mapper     uint16
	mapperName string
	submapper  uint8
	prgrom     int
	chrrom     int
	chrram     bool
	prgram     int
	mirroring  ines.NTMirroring
	trainer    bool
	persistent bool
	tvSystem   ines.TVSystem
}

func loadRomInfos(path string) (romInfos, error) {
	rom, err := ines.Open(path)
	if err != nil {
		return romInfos{}, err
	}

	infos := romInfos{
		path:       path,
		nes20:      rom.IsNES20(),
		mapper:     rom.Mapper(),
		mapperName: "unsupported",
		submapper:  rom.SubMapper(),
		prgrom:     len(rom.PRGROM),
		chrrom:     len(rom.CHRROM),
		chrram:     rom.HasCHRRAM(),
		prgram:     rom.PRGRAMSize(),
		mirroring:  rom.Mirroring(),
		trainer:    rom.HasTrainer(),
		persistent: rom.HasPersistent(),
		tvSystem:   rom.TVSystem(),
	}
	if desc, ok := mappers.All[rom.Mapper()]; ok {
		infos.mapperName = desc.Name
	}
	return infos, nil
}

func (ri *romInfos) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	format := "NES 2.0"
	if !ri.nes20 {
		format = "iNES"
	}
	fmt.Fprintf(tw, "File:\t%s\n", ri.path)
	fmt.Fprintf(tw, "Format:\t%s\n", format)
	fmt.Fprintf(tw, "Mapper:\t%d (%s), submapper %d\n", ri.mapper, ri.mapperName, ri.submapper)
	fmt.Fprintf(tw, "PRG ROM:\t%dKB\n", ri.prgrom/1024)
	if ri.chrram {
		fmt.Fprintf(tw, "CHR RAM:\t8KB\n")
	} else {
		fmt.Fprintf(tw, "CHR ROM:\t%dKB\n", ri.chrrom/1024)
	}
	fmt.Fprintf(tw, "PRG RAM:\t%dKB (persistent: %t)\n", ri.prgram/1024, ri.persistent)
	fmt.Fprintf(tw, "Mirroring:\t%s\n", ri.mirroring)
	fmt.Fprintf(tw, "Trainer:\t%t\n", ri.trainer)
	fmt.Fprintf(tw, "TV system:\t%s\n", ri.tvSystem)
	return tw.Flush()
}

func (ri *romInfos) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("path", func(e *jx.Encoder) { e.Str(ri.path) })
		e.Field("nes20", func(e *jx.Encoder) { e.Bool(ri.nes20) })
		e.Field("mapper", func(e *jx.Encoder) { e.UInt16(ri.mapper) })
		e.Field("mapper_name", func(e *jx.Encoder) { e.Str(ri.mapperName) })
		e.Field("submapper", func(e *jx.Encoder) { e.UInt8(ri.submapper) })
		e.Field("prgrom", func(e *jx.Encoder) { e.Int(ri.prgrom) })
		e.Field("chrrom", func(e *jx.Encoder) { e.Int(ri.chrrom) })
		e.Field("chrram", func(e *jx.Encoder) { e.Bool(ri.chrram) })
		e.Field("prgram", func(e *jx.Encoder) { e.Int(ri.prgram) })
		e.Field("mirroring", func(e *jx.Encoder) { e.Str(ri.mirroring.String()) })
		e.Field("trainer", func(e *jx.Encoder) { e.Bool(ri.trainer) })
		e.Field("persistent", func(e *jx.Encoder) { e.Bool(ri.persistent) })
		e.Field("tv_system", func(e *jx.Encoder) { e.Str(ri.tvSystem.String()) })
	})
}

func romInfosMain(w io.Writer, args RomInfos) error {
	infos, err := loadRomInfos(args.RomPath)
	if err != nil {
		return err
	}
	if !args.JSON {
		return infos.writeText(w)
	}

	var e jx.Encoder
	e.SetIdent(2)
	infos.Encode(&e)
	_, err = w.Write(append(e.Bytes(), '\n'))
	return err
}
