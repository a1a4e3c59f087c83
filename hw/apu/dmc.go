package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwdefs"
	"nescore/hw/hwio"
)

// The dmc (Delta Modulation Channel) can output samples composed of 1-bit
// deltas and its DAC can be directly changed. It contains the following:
// memory reader, interrupt flag, sample buffer, Timer, output unit, 7-bit
// counter tied to 7-bit DAC.
//
//	+----------+    +---------+
//	|Mem Reader|    |  Timer  |
//	+----------+    +---------+
//	     |               |
//	     |               v
//	+----------+    +---------+     +---------+     +---------+
//	|  Buffer  |----| Output  |---->| Counter |---->|   DAC   |
//	+----------+    +---------+     +---------+     +---------+
type dmc struct {
	apu   *APU
	timer timer

	sampleAddr uint16
	sampleLen  uint16
	outlvl     uint8
	irqEnabled bool
	loop       bool

	curaddr   uint16
	remaining uint16
	readbuf   uint8
	bufEmpty  bool

	shiftReg     uint8
	bitsLeft     uint8
	silence      bool
	needToRun    bool
	disableDelay uint8
	startDelay   uint8 // delay before the first fetch of a sample.

	FLAGS      hwio.Reg8 // $4010
	LOAD       hwio.Reg8 // $4011
	SAMPLEADDR hwio.Reg8 // $4012
	SAMPLELEN  hwio.Reg8 // $4013
}

func (dc *dmc) init(apu *APU, mixer *Mixer) {
	dc.apu = apu
	dc.silence = true
	dc.timer = timer{channel: DPCM, mixer: mixer}

	dc.FLAGS = hwio.Reg8{Name: "dmc.flags", Addr: 0x4010, Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteFLAGS}
	dc.LOAD = hwio.Reg8{Name: "dmc.load", Addr: 0x4011, Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteLOAD}
	dc.SAMPLEADDR = hwio.Reg8{Name: "dmc.sampleaddr", Addr: 0x4012, Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteSAMPLEADDR}
	dc.SAMPLELEN = hwio.Reg8{Name: "dmc.samplelen", Addr: 0x4013, Flags: hwio.WriteOnlyFlag, WriteCb: dc.WriteSAMPLELEN}
}

func (dc *dmc) regs() []*hwio.Reg8 {
	return []*hwio.Reg8{&dc.FLAGS, &dc.LOAD, &dc.SAMPLEADDR, &dc.SAMPLELEN}
}

func (dc *dmc) initSample() {
	dc.curaddr = dc.sampleAddr
	dc.remaining = dc.sampleLen
	dc.needToRun = dc.needToRun || dc.remaining > 0
}

func (dc *dmc) reset(soft bool) {
	dc.timer.reset()

	if !soft {
		dc.sampleAddr = 0xC000
		dc.sampleLen = 1
	}

	dc.outlvl = 0
	dc.irqEnabled = false
	dc.loop = false

	dc.curaddr = 0
	dc.remaining = 0
	dc.readbuf = 0
	dc.bufEmpty = true

	dc.shiftReg = 0
	dc.bitsLeft = 8
	dc.silence = true
	dc.needToRun = false
	dc.startDelay = 0
	dc.disableDelay = 0

	dc.timer.period = dmcPeriodLUT[0] - 1
	// Do not clock the timer on the very first cycle.
	dc.timer.timer = dc.timer.period
}

var dmcPeriodLUT = [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54}

// FLAGS: $4010
func (dc *dmc) WriteFLAGS(_, val uint8) {
	dc.apu.Run()

	dc.irqEnabled = val&0x80 == 0x80
	dc.loop = val&0x40 == 0x40
	dc.timer.period = dmcPeriodLUT[val&0x0F] - 1

	if !dc.irqEnabled {
		dc.apu.clearIRQ(hwdefs.DMC)
	}

	log.ModSound.DebugZ("write dmc flags").
		Uint8("reg", val).
		Bool("irq", dc.irqEnabled).
		Bool("loop", dc.loop).
		Uint16("period", dc.timer.period).
		End()
}

// LOAD: $4011
func (dc *dmc) WriteLOAD(_, val uint8) {
	dc.apu.Run()

	prev := dc.outlvl
	dc.outlvl = val & 0x7F

	// Reduce popping sounds on large $4011 jumps.
	if diff := int(dc.outlvl) - int(prev); diff > 50 || diff < -50 {
		dc.outlvl = uint8(int(dc.outlvl) - diff/2)
	}

	// The new output level is applied right away, not on timer reload.
	dc.timer.addOutput(int8(dc.outlvl))

	log.ModSound.DebugZ("write dmc load").
		Uint8("reg", val).
		Uint8("level", dc.outlvl).
		End()
}

// SAMPLEADDR: $4012. Samples start at $C000 + $40*val.
func (dc *dmc) WriteSAMPLEADDR(_, val uint8) {
	dc.apu.Run()
	dc.sampleAddr = 0xC000 | uint16(val)<<6

	log.ModSound.DebugZ("write dmc sample addr").Hex16("addr", dc.sampleAddr).End()
}

// SAMPLELEN: $4013. Samples are $10*val + 1 bytes long.
func (dc *dmc) WriteSAMPLELEN(_, val uint8) {
	dc.apu.Run()
	dc.sampleLen = uint16(val)<<4 | 0x1

	log.ModSound.DebugZ("write dmc sample len").Uint16("len", dc.sampleLen).End()
}

// fetch fills the sample buffer, if empty, with the next sample byte.
func (dc *dmc) fetch() {
	if !dc.bufEmpty || dc.remaining == 0 || dc.apu.MemRead == nil {
		return
	}
	dc.setReadBuffer(dc.apu.MemRead(dc.curaddr))
}

func (dc *dmc) setReadBuffer(val uint8) {
	log.ModSound.DebugZ("dmc fetch").
		Hex16("addr", dc.curaddr).
		Hex8("val", val).
		End()

	if dc.remaining > 0 {
		dc.readbuf = val
		dc.bufEmpty = false

		// Address wraps around to $8000, not $0000.
		dc.curaddr++
		if dc.curaddr == 0 {
			dc.curaddr = 0x8000
		}

		dc.remaining--
		if dc.remaining == 0 {
			if dc.loop {
				// Looped samples never set the IRQ flag.
				dc.initSample()
			} else if dc.irqEnabled {
				dc.apu.setIRQ(hwdefs.DMC)
			}
		}
	}
}

func (dc *dmc) run(targetCycle uint32) {
	for dc.timer.run(targetCycle) {
		if !dc.silence {
			if dc.shiftReg&0x01 != 0 {
				if dc.outlvl <= 125 {
					dc.outlvl += 2
				}
			} else if dc.outlvl >= 2 {
				dc.outlvl -= 2
			}
			dc.shiftReg >>= 1
		}

		dc.bitsLeft--
		if dc.bitsLeft == 0 {
			dc.bitsLeft = 8
			if dc.bufEmpty {
				dc.silence = true
			} else {
				dc.silence = false
				dc.shiftReg = dc.readbuf
				dc.bufEmpty = true
				dc.needToRun = true
				dc.fetch()
			}
		}

		dc.timer.addOutput(int8(dc.outlvl))
	}
}

// irqPending reports whether the IRQ flag would be set within the next
// cyclesToRun cycles.
func (dc *dmc) irqPending(cyclesToRun uint32) bool {
	if dc.irqEnabled && dc.remaining > 0 {
		ncycles := (uint32(dc.bitsLeft) + uint32(dc.remaining-1)*8) * uint32(dc.timer.period)
		return cyclesToRun >= ncycles
	}
	return false
}

func (dc *dmc) status() bool {
	return dc.remaining > 0
}

func (dc *dmc) endFrame() {
	dc.timer.endFrame()
}

func (dc *dmc) setEnabled(enabled bool) {
	if !enabled {
		if dc.disableDelay == 0 {
			// Disabling takes effect after 1 APU cycle.
			if dc.apu.cycles&0x01 == 0 {
				dc.disableDelay = 2
			} else {
				dc.disableDelay = 3
			}
		}
		dc.needToRun = true
	} else if dc.remaining == 0 {
		dc.initSample()

		// The first fetch is delayed by 2 or 3 cycles.
		if dc.apu.cycles&0x01 == 0 {
			dc.startDelay = 2
		} else {
			dc.startDelay = 3
		}
		dc.needToRun = true
	}
}

func (dc *dmc) processClock() {
	if dc.disableDelay != 0 {
		dc.disableDelay--
		if dc.disableDelay == 0 {
			dc.remaining = 0
		}
	}

	if dc.startDelay != 0 {
		dc.startDelay--
		if dc.startDelay == 0 {
			dc.fetch()
		}
	}

	dc.needToRun = dc.disableDelay != 0 || dc.startDelay != 0 || dc.remaining != 0
}

func (dc *dmc) needsToRun() bool {
	if dc.needToRun {
		dc.processClock()
	}
	return dc.needToRun
}

func (dc *dmc) output() uint8 {
	return uint8(dc.timer.lastOutput)
}
