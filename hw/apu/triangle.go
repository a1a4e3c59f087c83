package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// The triangleChannel contains the following: Timer, 32-step sequencer, Length
// Counter, Linear Counter, 4-bit DAC.
//
//	+---------+    +---------+
//	|LinearCtr|    | Length  |
//	+---------+    +---------+
//	     |              |
//	     v              v
//	+---------+        |\             |\         +---------+    +---------+
//	|  Timer  |------->| >----------->| >------->|Sequencer|--->|   DAC   |
//	+---------+        |/             |/         +---------+    +---------+
type triangleChannel struct {
	apu        *APU
	lenCounter lengthCounter
	timer      timer

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8 // current position in triangleSequence.

	Linear hwio.Reg8 // $4008
	Unused hwio.Reg8 // $4009
	Timer  hwio.Reg8 // $400A
	Length hwio.Reg8 // $400B
}

func (tc *triangleChannel) init(apu *APU, mixer *Mixer) {
	tc.apu = apu
	tc.lenCounter = lengthCounter{apu: apu, channel: Triangle}
	tc.timer = timer{channel: Triangle, mixer: mixer}

	tc.Linear = hwio.Reg8{Name: "triangle.linear", Addr: 0x4008, Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteLINEAR}
	tc.Unused = hwio.Reg8{Name: "triangle.unused", Addr: 0x4009, Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteUNUSED}
	tc.Timer = hwio.Reg8{Name: "triangle.timer", Addr: 0x400A, Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteTIMER}
	tc.Length = hwio.Reg8{Name: "triangle.length", Addr: 0x400B, Flags: hwio.WriteOnlyFlag, WriteCb: tc.WriteLENGTH}
}

func (tc *triangleChannel) regs() []*hwio.Reg8 {
	return []*hwio.Reg8{&tc.Linear, &tc.Unused, &tc.Timer, &tc.Length}
}

var triangleSequence = [32]int8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) run(targetCycle uint32) {
	for tc.timer.run(targetCycle) {
		// The sequencer is clocked by the timer as long as both the linear
		// counter and the length counter are nonzero.
		if tc.lenCounter.status() && tc.linearCounter > 0 {
			tc.pos = (tc.pos + 1) & 0x1F

			// Ultrasonic frequencies are not output.
			if tc.timer.period >= 2 {
				tc.timer.addOutput(triangleSequence[tc.pos])
			}
		}
	}
}

func (tc *triangleChannel) reset(soft bool) {
	tc.timer.reset()
	tc.lenCounter.reset(soft)

	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}

func (tc *triangleChannel) WriteLINEAR(_, val uint8) {
	tc.apu.Run()
	tc.linearCtrl = val&0x80 == 0x80
	tc.linearCounterReload = val & 0x7F

	tc.lenCounter.init(tc.linearCtrl)

	log.ModSound.DebugZ("write triangle linear").
		Uint8("reg", val).
		Bool("ctrl", tc.linearCtrl).
		End()
}

func (tc *triangleChannel) WriteUNUSED(_, _ uint8) {
	tc.apu.Run()
}

func (tc *triangleChannel) WriteTIMER(_, val uint8) {
	tc.apu.Run()
	tc.timer.period = (tc.timer.period & 0xFF00) | uint16(val)

	log.ModSound.DebugZ("write triangle timer").Uint8("reg", val).End()
}

func (tc *triangleChannel) WriteLENGTH(_, val uint8) {
	tc.apu.Run()

	tc.lenCounter.load(val >> 3)
	tc.timer.period = (tc.timer.period & 0xFF) | (uint16(val&0x07) << 8)

	// Sets the linear counter reload flag.
	tc.linearReload = true

	log.ModSound.DebugZ("write triangle length").
		Uint8("reg", val).
		Uint16("period", tc.timer.period).
		End()
}

func (tc *triangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}

	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) tickLengthCounter()   { tc.lenCounter.tick() }
func (tc *triangleChannel) reloadLengthCounter() { tc.lenCounter.reload() }
func (tc *triangleChannel) endFrame()            { tc.timer.endFrame() }
func (tc *triangleChannel) setEnabled(b bool)    { tc.lenCounter.setEnabled(b) }
func (tc *triangleChannel) status() bool         { return tc.lenCounter.status() }
func (tc *triangleChannel) output() uint8        { return uint8(tc.timer.lastOutput) }
