package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// noiseChannel generates pseudo-random 1-bit noise at 16 different
// frequencies.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
type noiseChannel struct {
	apu      *APU
	envelope envelope
	timer    timer

	shiftReg uint16
	mode     bool

	Volume hwio.Reg8 // $400C
	Unused hwio.Reg8 // $400D
	Period hwio.Reg8 // $400E
	Length hwio.Reg8 // $400F
}

func (nc *noiseChannel) init(apu *APU, mixer *Mixer) {
	nc.apu = apu
	nc.envelope.lenCounter = lengthCounter{apu: apu, channel: Noise}
	nc.timer = timer{channel: Noise, mixer: mixer}

	nc.Volume = hwio.Reg8{Name: "noise.volume", Addr: 0x400C, Flags: hwio.WriteOnlyFlag, WriteCb: nc.WriteVOLUME}
	nc.Unused = hwio.Reg8{Name: "noise.unused", Addr: 0x400D, Flags: hwio.WriteOnlyFlag, WriteCb: nc.WriteUNUSED}
	nc.Period = hwio.Reg8{Name: "noise.period", Addr: 0x400E, Flags: hwio.WriteOnlyFlag, WriteCb: nc.WritePERIOD}
	nc.Length = hwio.Reg8{Name: "noise.length", Addr: 0x400F, Flags: hwio.WriteOnlyFlag, WriteCb: nc.WriteLENGTH}
}

func (nc *noiseChannel) regs() []*hwio.Reg8 {
	return []*hwio.Reg8{&nc.Volume, &nc.Unused, &nc.Period, &nc.Length}
}

var noisePeriodLUT = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}

func (nc *noiseChannel) WriteVOLUME(_, val uint8) {
	log.ModSound.DebugZ("write noise volume").Uint8("val", val).End()
	nc.apu.Run()
	nc.envelope.init(val)
}

func (nc *noiseChannel) WriteUNUSED(_, _ uint8) {
	nc.apu.Run()
}

func (nc *noiseChannel) WritePERIOD(_, val uint8) {
	log.ModSound.DebugZ("write noise period").Uint8("val", val).End()

	nc.apu.Run()
	nc.timer.period = noisePeriodLUT[val&0x0F] - 1
	nc.mode = val&0x80 != 0
}

func (nc *noiseChannel) WriteLENGTH(_, val uint8) {
	log.ModSound.DebugZ("write noise length").Uint8("val", val).End()
	nc.apu.Run()
	nc.envelope.lenCounter.load(val >> 3)
	nc.envelope.restart()
}

func (nc *noiseChannel) run(targetCycle uint32) {
	for nc.timer.run(targetCycle) {
		// Feedback is the exclusive-OR of bit 0 and one other bit: bit 6 if
		// mode flag is set, otherwise bit 1.
		modebit := 1
		if nc.mode {
			modebit = 6
		}

		feedback := (nc.shiftReg & 0x01) ^ ((nc.shiftReg >> modebit) & 0x01)
		nc.shiftReg >>= 1
		nc.shiftReg |= feedback << 14

		// The mixer receives the envelope volume, except when bit 0 of the
		// shift register is set.
		if nc.shiftReg&0x01 == 0x01 {
			nc.timer.addOutput(0)
		} else {
			nc.timer.addOutput(int8(nc.envelope.output()))
		}
	}
}

func (nc *noiseChannel) reset(soft bool) {
	nc.envelope.reset(soft)
	nc.timer.reset()

	nc.timer.period = noisePeriodLUT[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}

func (nc *noiseChannel) tickEnvelope()        { nc.envelope.tick() }
func (nc *noiseChannel) tickLengthCounter()   { nc.envelope.lenCounter.tick() }
func (nc *noiseChannel) reloadLengthCounter() { nc.envelope.lenCounter.reload() }
func (nc *noiseChannel) endFrame()            { nc.timer.endFrame() }
func (nc *noiseChannel) setEnabled(b bool)    { nc.envelope.lenCounter.setEnabled(b) }
func (nc *noiseChannel) status() bool         { return nc.envelope.lenCounter.status() }
func (nc *noiseChannel) output() uint8        { return uint8(nc.timer.lastOutput) }
