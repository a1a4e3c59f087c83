package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

// APU is the audio processing unit of the 2A03. Its channels are run lazily:
// they only catch up with the CPU when a register is accessed, when an
// interrupt might be raised, or at the end of an audio frame.
type APU struct {
	Square1  squareChannel
	Square2  squareChannel
	Triangle triangleChannel
	Noise    noiseChannel
	DMC      dmc

	frameCounter frameCounter
	mixer        *Mixer

	// MemRead reads the CPU bus, for DMC sample fetches.
	MemRead func(addr uint16) uint8

	STATUS       hwio.Reg8 // $4015
	FRAMECOUNTER hwio.Reg8 // $4017 (writes only, reads go to the input ports)

	irq hwdefs.IRQSource

	cycles    int64  // CPU cycles since power-up.
	prevCycle uint32 // last cycle the channels ran up to.
	curCycle  uint32 // current cycle in the audio frame.
	needToRun bool
}

// New creates an APU producing samples at the given rate.
func New(sampleRate int) *APU {
	a := &APU{mixer: NewMixer(sampleRate)}
	a.Square1.init(a, a.mixer, Square1, 0x4000)
	a.Square2.init(a, a.mixer, Square2, 0x4004)
	a.Triangle.init(a, a.mixer)
	a.Noise.init(a, a.mixer)
	a.DMC.init(a, a.mixer)
	a.frameCounter.apu = a

	a.STATUS = hwio.Reg8{
		Name:    "STATUS",
		Addr:    0x4015,
		ReadCb:  a.ReadSTATUS,
		PeekCb:  a.PeekSTATUS,
		WriteCb: a.WriteSTATUS,
	}
	a.FRAMECOUNTER = hwio.Reg8{
		Name:    "FRAMECOUNTER",
		Addr:    0x4017,
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: a.frameCounter.WriteFRAMECOUNTER,
	}

	a.Reset(hwdefs.HardReset)
	return a
}

// Map installs the APU registers on the CPU bus.
func (a *APU) Map(bus *hwio.Bus[uint16]) {
	var regs []*hwio.Reg8
	regs = append(regs, a.Square1.regs()...)
	regs = append(regs, a.Square2.regs()...)
	regs = append(regs, a.Triangle.regs()...)
	regs = append(regs, a.Noise.regs()...)
	regs = append(regs, a.DMC.regs()...)
	regs = append(regs, &a.STATUS, &a.FRAMECOUNTER)
	for _, reg := range regs {
		bus.Add(reg)
	}
}

// SampleRate returns the number of samples produced per second.
func (a *APU) SampleRate() int {
	return a.mixer.SampleRate()
}

// IRQ reports whether the frame counter or the DMC asserts the IRQ line.
func (a *APU) IRQ() bool {
	return a.irq != 0
}

// IRQSources returns the APU sources currently asserting the IRQ line.
func (a *APU) IRQSources() hwdefs.IRQSource {
	return a.irq
}

func (a *APU) setIRQ(src hwdefs.IRQSource) {
	if a.irq&src == 0 {
		log.ModSound.DebugZ("set irq").Stringer("src", src).End()
	}
	a.irq |= src
}

func (a *APU) clearIRQ(src hwdefs.IRQSource) {
	a.irq &^= src
}

func (a *APU) status() uint8 {
	var status uint8
	hwio.SetBitTo(&status, 0, a.Square1.status())
	hwio.SetBitTo(&status, 1, a.Square2.status())
	hwio.SetBitTo(&status, 2, a.Triangle.status())
	hwio.SetBitTo(&status, 3, a.Noise.status())
	hwio.SetBitTo(&status, 4, a.DMC.status())
	hwio.SetBitTo(&status, 6, a.irq&hwdefs.FrameCounter != 0)
	hwio.SetBitTo(&status, 7, a.irq&hwdefs.DMC != 0)
	return status
}

// STATUS: $4015
func (a *APU) PeekSTATUS(_ uint8) uint8 {
	return a.status()
}

func (a *APU) ReadSTATUS(_ uint8) uint8 {
	a.Run()
	status := a.status()

	// Reading $4015 clears the frame counter interrupt flag.
	a.clearIRQ(hwdefs.FrameCounter)

	log.ModSound.DebugZ("read status").Hex8("status", status).End()
	return status
}

func (a *APU) WriteSTATUS(_, val uint8) {
	log.ModSound.DebugZ("write status").Hex8("val", val).End()

	a.Run()

	// Writing to $4015 clears the DMC interrupt flag. This needs to be done
	// before enabling the DMC, which may raise it again.
	a.clearIRQ(hwdefs.DMC)

	a.Square1.setEnabled(val&0x01 == 0x01)
	a.Square2.setEnabled(val&0x02 == 0x02)
	a.Triangle.setEnabled(val&0x04 == 0x04)
	a.Noise.setEnabled(val&0x08 == 0x08)
	a.DMC.setEnabled(val&0x10 == 0x10)
}

func (a *APU) frameCounterTick(ftyp FrameType) {
	// Quarter and half frames clock envelopes and the linear counter.
	a.Square1.tickEnvelope()
	a.Square2.tickEnvelope()
	a.Triangle.tickLinearCounter()
	a.Noise.tickEnvelope()

	if ftyp == HalfFrame {
		// Half frames also clock length counters and sweep units.
		a.Square1.tickLengthCounter()
		a.Square2.tickLengthCounter()
		a.Triangle.tickLengthCounter()
		a.Noise.tickLengthCounter()

		a.Square1.tickSweep()
		a.Square2.tickSweep()
	}
}

// Reset resets the APU. On soft reset, some of the state is preserved.
func (a *APU) Reset(soft bool) {
	a.curCycle = 0
	a.prevCycle = 0
	a.needToRun = false
	a.irq = 0
	if !soft {
		a.cycles = 0
	}

	a.Square1.reset(soft)
	a.Square2.reset(soft)
	a.Triangle.reset(soft)
	a.Noise.reset(soft)
	a.DMC.reset(soft)
	a.frameCounter.reset(soft)
	a.mixer.Reset()
}

// Tick advances the APU by one CPU cycle.
func (a *APU) Tick() {
	a.cycles++
	a.curCycle++
	if a.curCycle == cycleLength-1 {
		a.EndFrame()
	} else if a.shouldRun(a.curCycle) {
		a.Run()
	}
}

// EndFrame runs the channels up to the current cycle, and mixes and
// resamples their output into the samples buffer.
func (a *APU) EndFrame() {
	a.DMC.processClock()
	a.Run()
	a.Square1.endFrame()
	a.Square2.endFrame()
	a.Triangle.endFrame()
	a.Noise.endFrame()
	a.DMC.endFrame()

	a.mixer.endFrame(a.curCycle)

	a.curCycle = 0
	a.prevCycle = 0
}

// Buffered returns the number of samples ready to be read.
func (a *APU) Buffered() int {
	return a.mixer.Buffered()
}

// ReadSamples moves at most len(dst) mono samples into dst and returns how
// many were read.
func (a *APU) ReadSamples(dst []int16) int {
	return a.mixer.ReadSamples(dst)
}

// Run updates the frame counter and all channels up to the current cycle.
func (a *APU) Run() {
	cyclesToRun := int32(a.curCycle - a.prevCycle)

	for cyclesToRun > 0 {
		a.prevCycle += a.frameCounter.run(&cyclesToRun)

		// Reload length counters after running the frame counter, so that a
		// length counter is clocked before being reloaded by a write in
		// the same cycle.
		a.Square1.reloadLengthCounter()
		a.Square2.reloadLengthCounter()
		a.Noise.reloadLengthCounter()
		a.Triangle.reloadLengthCounter()

		a.Square1.run(a.prevCycle)
		a.Square2.run(a.prevCycle)
		a.Noise.run(a.prevCycle)
		a.Triangle.run(a.prevCycle)
		a.DMC.run(a.prevCycle)
	}
}

func (a *APU) shouldRun(curCycle uint32) bool {
	// Run every cycle when length counters have been altered, or while the
	// DMC is active.
	if a.DMC.needsToRun() || a.needToRun {
		a.needToRun = false
		return true
	}

	cyclesToRun := curCycle - a.prevCycle
	return a.frameCounter.needToRun(cyclesToRun) || a.DMC.irqPending(cyclesToRun)
}

// Outputs returns the current DAC value of each channel.
func (a *APU) Outputs() [hwdefs.NumAudioChannels]uint8 {
	return [...]uint8{
		a.Square1.output(),
		a.Square2.output(),
		a.Triangle.output(),
		a.Noise.output(),
		a.DMC.output(),
	}
}
