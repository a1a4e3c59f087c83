package emu

import (
	"errors"
	"fmt"
	"image"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/apu"
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
	"nescore/hw/input"
	"nescore/hw/mappers"
	"nescore/hw/snapshot"
	"nescore/ines"
)

// ErrNoCartridge is returned when trying to run a console without cartridge.
var ErrNoCartridge = errors.New("no cartridge inserted")

// HaltError is returned when the CPU executed a halting opcode. The console
// can't continue until it's reset.
type HaltError struct {
	PC     uint16
	Opcode uint8
}

func (e HaltError) Error() string {
	return fmt.Sprintf("CPU halted at $%04X (opcode $%02X)", e.PC, e.Opcode)
}

// NES is the whole console. It owns all the chips and the buses connecting
// them, and steps them in lock-step.
type NES struct {
	CPU   *hw.CPU
	PPU   *hw.PPU
	APU   *apu.APU
	DMA   *hw.DMA
	Ports *hw.InputPorts
	RAM   *hwio.Mem[uint16]
	Bus   *hwio.Bus[uint16] // CPU bus

	Cart *mappers.Cartridge

	pads    pads
	cartCPU hwio.Handle
	cartPPU hwio.Handle

	samples []int16
}

// pads is the input device made of the 2 standard controllers.
type pads struct {
	pad1, pad2 input.Buttons
}

func (p *pads) LoadState() (uint8, uint8) { return uint8(p.pad1), uint8(p.pad2) }

// New creates a console, without cartridge, with its audio unit producing
// samples at the given rate.
func New(sampleRate int) *NES {
	nes := &NES{
		Bus:   hwio.NewBus[uint16]("cpu"),
		PPU:   hw.NewPPU(),
		APU:   apu.New(sampleRate),
		Ports: hw.NewInputPorts(),
		RAM:   hwio.NewMem[uint16]("RAM", 0x0000, 0x800),
	}
	nes.CPU = hw.NewCPU(nes.Bus)
	nes.CPU.PPU = nes.PPU
	nes.DMA = hw.NewDMA(nes.Bus, nes.PPU)
	nes.APU.MemRead = nes.Bus.Read8
	nes.Ports.Connect(&nes.pads)

	// $0000-$07FF internal RAM, mirrored up to $1FFF.
	nes.Bus.Add(hwio.Mirror[uint16](nes.RAM, 0x0000, 0x1FFF))
	// $2000-$2007 PPU registers, mirrored up to $3FFF.
	nes.Bus.Add(nes.PPU.CPUPort())
	// $4000-$4013, $4015, $4017 (writes).
	nes.APU.Map(nes.Bus)
	nes.Bus.Add(&nes.DMA.OAMDMA)
	// $4016, $4017 (reads).
	nes.Bus.Add(&nes.Ports.In)
	nes.Bus.Add(&nes.Ports.Out)
	return nes
}

// PowerUp creates a console, loads the cartridge for rom and resets it.
func PowerUp(rom *ines.Rom, sampleRate int) (*NES, error) {
	cart, err := mappers.Load(rom)
	if err != nil {
		return nil, err
	}
	nes := New(sampleRate)
	nes.SetCartridge(cart)
	return nes, nil
}

// SetCartridge inserts cart, replacing the current one if any, and resets
// the console.
func (nes *NES) SetCartridge(cart *mappers.Cartridge) {
	nes.RemoveCartridge()

	nes.Cart = cart
	nes.cartCPU = nes.Bus.Add(cart.CPUPort())
	nes.cartPPU = nes.PPU.Bus.Add(cart.PPUPort())
	nes.PPU.Mirroring = cart.Mirroring
	nes.PPU.OnScanline = cart.OnScanline

	log.ModEmu.InfoZ("cartridge inserted").String("mapper", cart.Desc.Name).End()
	nes.Reset()
}

// RemoveCartridge disconnects the current cartridge, if any.
func (nes *NES) RemoveCartridge() {
	if nes.Cart == nil {
		return
	}
	nes.Bus.Remove(nes.cartCPU)
	nes.PPU.Bus.Remove(nes.cartPPU)
	nes.PPU.Mirroring = nil
	nes.PPU.OnScanline = nil
	nes.Cart = nil

	log.ModEmu.InfoZ("cartridge removed").End()
}

// Reset puts the console in its power-up state. RAM content is cleared.
func (nes *NES) Reset() {
	clear(nes.RAM.Data)
	nes.PPU.Reset()
	nes.APU.Reset(hwdefs.HardReset)
	nes.DMA.Reset()
	nes.Ports.Reset()
	if nes.Cart != nil {
		nes.Cart.Reset()
	}
	nes.CPU.Cycles = 0
	nes.CPU.Reset()
}

// UpdateInputState sets the buttons currently pressed on both controllers.
func (nes *NES) UpdateInputState(pad1, pad2 input.Buttons) {
	nes.pads.pad1 = pad1
	nes.pads.pad2 = pad2
}

// interrupt lines sampled before each step.
func (nes *NES) irqLines() hwdefs.IRQSource {
	var src hwdefs.IRQSource
	if nes.Cart.IRQ() {
		src |= hwdefs.External
	}
	return src | nes.APU.IRQSources()
}

// Step runs one CPU instruction, or services one interrupt, or carries out a
// pending OAM DMA, then lets the PPU and the APU catch up. It returns the
// number of CPU cycles spent.
func (nes *NES) Step() (int, error) {
	if nes.Cart == nil {
		return 0, ErrNoCartridge
	}
	if nes.CPU.IsHalted() {
		return 0, nes.haltError()
	}

	var cycles int
	switch {
	case nes.DMA.Pending():
		cycles = nes.DMA.Transfer(nes.CPU.Cycles)
		nes.CPU.Cycles += int64(cycles)
	case nes.PPU.TakeNMI():
		cycles = nes.CPU.NMI()
		log.ModEmu.DebugZ("NMI").Hex16("PC", nes.CPU.PC).End()
	default:
		if irq := nes.irqLines(); irq != 0 && !nes.CPU.P.I() {
			cycles = nes.CPU.IRQ()
			log.ModEmu.DebugZ("IRQ").Stringer("src", irq).Hex16("PC", nes.CPU.PC).End()
			break
		}
		cycles = nes.CPU.Step()
		if nes.CPU.IsHalted() {
			return cycles, nes.haltError()
		}
	}

	nes.PPU.Run(3 * cycles)
	for range cycles {
		nes.APU.Tick()
	}
	return cycles, nil
}

func (nes *NES) haltError() HaltError {
	return HaltError{PC: nes.CPU.PC, Opcode: nes.CPU.Opcode()}
}

// NextFrame runs the console until a video frame worth of audio samples
// (sample rate / 60) has been produced, and hands these samples to sink. A
// nil sink discards them.
func (nes *NES) NextFrame(sink AudioSink) error {
	if sink == nil {
		sink = discard{}
	}
	want := nes.APU.SampleRate() / 60
	for nes.APU.Buffered() < want {
		if _, err := nes.Step(); err != nil {
			return err
		}
	}

	if cap(nes.samples) < want {
		nes.samples = make([]int16, want)
	}
	n := nes.APU.ReadSamples(nes.samples[:want])
	return sink.WriteSamples(nes.samples[:n])
}

// Frame returns the last complete video frame.
func (nes *NES) Frame() *image.RGBA {
	return nes.PPU.Frame()
}

// Snapshot captures the console state.
func (nes *NES) Snapshot() *snapshot.NES {
	s := &snapshot.NES{
		Version: snapshot.Version,
		Frames:  nes.PPU.Frames,
		RAM:     append([]byte(nil), nes.RAM.Data...),
	}
	nes.CPU.SaveState(&s.CPU)
	nes.PPU.SaveState(&s.PPU)
	if nes.Cart != nil {
		nes.Cart.SaveState(&s.Cartridge)
	}
	return s
}
