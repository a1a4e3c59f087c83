package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// There are two square channels beginning at registers $4000 and $4004. Each
// contains the following: Envelope Generator, Sweep Unit, Timer with
// divide-by-two on the output, 8-step sequencer, Length Counter.
//
//	               +---------+    +---------+
//	               |  Sweep  |--->|Timer / 2|
//	               +---------+    +---------+
//	                    |              |
//	                    |              v
//	                    |         +---------+    +---------+
//	                    |         |Sequencer|    | Length  |
//	                    |         +---------+    +---------+
//	                    |              |              |
//	                    v              v              v
//	+---------+        |\             |\             |\          +---------+
//	|Envelope |------->| >----------->| >----------->| >-------->|   DAC   |
//	+---------+        |/             |/             |/          +---------+
type squareChannel struct {
	apu      *APU
	envelope envelope
	timer    timer

	isChannel1 bool

	duty    uint8
	dutyPos uint8

	sweepEnabled      bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	reloadSweep       bool
	sweepDivider      uint8
	sweepTargetPeriod uint32
	realPeriod        uint16

	Duty   hwio.Reg8
	Sweep  hwio.Reg8
	Timer  hwio.Reg8
	Length hwio.Reg8
}

func (sc *squareChannel) init(apu *APU, mixer *Mixer, channel Channel, base uint16) {
	sc.apu = apu
	sc.isChannel1 = channel == Square1
	sc.envelope.lenCounter = lengthCounter{apu: apu, channel: channel}
	sc.timer = timer{channel: channel, mixer: mixer}

	name := channel.String()
	sc.Duty = hwio.Reg8{Name: name + ".duty", Addr: base, Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteDUTY}
	sc.Sweep = hwio.Reg8{Name: name + ".sweep", Addr: base + 1, Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteSWEEP}
	sc.Timer = hwio.Reg8{Name: name + ".timer", Addr: base + 2, Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteTIMER}
	sc.Length = hwio.Reg8{Name: name + ".length", Addr: base + 3, Flags: hwio.WriteOnlyFlag, WriteCb: sc.WriteLENGTH}
}

func (sc *squareChannel) regs() []*hwio.Reg8 {
	return []*hwio.Reg8{&sc.Duty, &sc.Sweep, &sc.Timer, &sc.Length}
}

func (sc *squareChannel) WriteDUTY(_, val uint8) {
	sc.apu.Run()

	sc.envelope.init(val)
	sc.duty = (val & 0xC0) >> 6

	log.ModSound.DebugZ("write pulse duty").
		Uint8("reg", val).
		Uint8("duty", sc.duty).
		End()
}

func (sc *squareChannel) WriteSWEEP(_, val uint8) {
	sc.apu.Run()
	sc.initSweep(val)

	log.ModSound.DebugZ("write pulse sweep").Uint8("reg", val).End()
}

func (sc *squareChannel) WriteTIMER(_, val uint8) {
	sc.apu.Run()
	period := (sc.realPeriod & 0x0700) | uint16(val)
	sc.setPeriod(period)

	log.ModSound.DebugZ("write pulse timer").
		Uint8("reg", val).
		Uint16("period", period).
		End()
}

func (sc *squareChannel) WriteLENGTH(_, val uint8) {
	sc.apu.Run()

	sc.envelope.lenCounter.load(val >> 3)
	period := (sc.realPeriod & 0xFF) | (uint16(val&0x07) << 8)
	sc.setPeriod(period)

	// The sequencer is restarted at the first value of the current sequence,
	// and the envelope is restarted.
	sc.dutyPos = 0
	sc.envelope.restart()

	log.ModSound.DebugZ("write pulse length").
		Uint8("reg", val).
		Uint16("period", period).
		End()
}

// A period lower than 8, either set explicitly or via a sweep period update,
// silences the channel. So does a sweep target period overflowing 11 bits.
func (sc *squareChannel) isMuted() bool {
	return sc.realPeriod < 8 || (!sc.sweepNegate && sc.sweepTargetPeriod > 0x7FF)
}

func (sc *squareChannel) initSweep(val uint8) {
	sc.sweepEnabled = val&0x80 == 0x80
	sc.sweepNegate = val&0x08 == 0x08

	// The divider's period is set to P + 1
	sc.sweepPeriod = ((val & 0x70) >> 4) + 1
	sc.sweepShift = val & 0x07

	sc.updateTargetPeriod()
	sc.reloadSweep = true
}

func (sc *squareChannel) updateTargetPeriod() {
	shift := sc.realPeriod >> sc.sweepShift
	if sc.sweepNegate {
		sc.sweepTargetPeriod = uint32(sc.realPeriod - shift)
		if sc.isChannel1 {
			// Pulse 1 adds the ones' complement (-c - 1).
			sc.sweepTargetPeriod--
		}
	} else {
		sc.sweepTargetPeriod = uint32(sc.realPeriod + shift)
	}
}

func (sc *squareChannel) setPeriod(period uint16) {
	sc.realPeriod = period
	sc.timer.period = (sc.realPeriod * 2) + 1
	sc.updateTargetPeriod()
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{0, 0, 0, 0, 0, 0, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 0, 0},
}

func (sc *squareChannel) updateOutput() {
	if sc.isMuted() {
		sc.timer.addOutput(0)
		return
	}
	out := squareDuty[sc.duty][sc.dutyPos] * sc.envelope.output()
	sc.timer.addOutput(int8(out))
}

func (sc *squareChannel) run(targetCycle uint32) {
	for sc.timer.run(targetCycle) {
		sc.dutyPos = (sc.dutyPos - 1) & 0x07
		sc.updateOutput()
	}
}

func (sc *squareChannel) reset(soft bool) {
	sc.envelope.reset(soft)
	sc.timer.reset()

	sc.duty = 0
	sc.dutyPos = 0
	sc.realPeriod = 0

	sc.sweepEnabled = false
	sc.sweepPeriod = 0
	sc.sweepNegate = false
	sc.sweepShift = 0
	sc.reloadSweep = false
	sc.sweepDivider = 0
	sc.sweepTargetPeriod = 0
	sc.updateTargetPeriod()
}

func (sc *squareChannel) tickSweep() {
	sc.sweepDivider--
	if sc.sweepDivider == 0 {
		if sc.sweepShift > 0 && sc.sweepEnabled && sc.realPeriod >= 8 && sc.sweepTargetPeriod <= 0x7FF {
			sc.setPeriod(uint16(sc.sweepTargetPeriod))
		}
		sc.sweepDivider = sc.sweepPeriod
	}

	if sc.reloadSweep {
		sc.sweepDivider = sc.sweepPeriod
		sc.reloadSweep = false
	}
}

func (sc *squareChannel) tickEnvelope()        { sc.envelope.tick() }
func (sc *squareChannel) tickLengthCounter()   { sc.envelope.lenCounter.tick() }
func (sc *squareChannel) reloadLengthCounter() { sc.envelope.lenCounter.reload() }
func (sc *squareChannel) endFrame()            { sc.timer.endFrame() }
func (sc *squareChannel) setEnabled(b bool)    { sc.envelope.lenCounter.setEnabled(b) }
func (sc *squareChannel) status() bool         { return sc.envelope.lenCounter.status() }
func (sc *squareChannel) output() uint8        { return uint8(sc.timer.lastOutput) }
