package apu

import (
	"nescore/emu/log"
	"nescore/hw/hwdefs"
)

// FrameType is the kind of clock the frame counter sends to the channels.
type FrameType uint8

const (
	NoFrame FrameType = iota
	QuarterFrame
	HalfFrame
)

// CPU cycle at which each step of the sequence occurs, for the 4-step and
// 5-step modes.
var stepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

var frameType = [2][6]FrameType{
	{QuarterFrame, HalfFrame, QuarterFrame, NoFrame, HalfFrame, NoFrame},
	{QuarterFrame, HalfFrame, QuarterFrame, NoFrame, HalfFrame, NoFrame},
}

// frameCounter generates the low-frequency clocks of the channels
// (envelopes, linear counter, length counters and sweep units), and the
// frame IRQ in 4-step mode.
type frameCounter struct {
	apu *APU

	prevCycle  int32
	curStep    uint32
	stepMode   uint32 // 0: 4-step mode, 1: 5-step mode
	inhibitIRQ bool
	blockTick  uint8

	// value written to $4017, applied after a few cycles. -1 when none.
	newval            int16
	writeDelayCounter int8
}

func (fc *frameCounter) reset(soft bool) {
	fc.prevCycle = 0

	// The mode is unchanged on soft reset.
	if !soft {
		fc.stepMode = 0
	}

	fc.curStep = 0

	// After reset or power-up, the APU acts as if $4017 had been written
	// with $00 a few cycles before the first instruction.
	fc.newval = 0
	if fc.stepMode != 0 {
		fc.newval = 0x80
	}
	fc.writeDelayCounter = 3
	fc.inhibitIRQ = false
	fc.blockTick = 0
}

// FRAMECOUNTER: $4017
func (fc *frameCounter) WriteFRAMECOUNTER(_, val uint8) {
	log.ModSound.DebugZ("write frame counter").Hex8("val", val).End()

	fc.apu.Run()
	fc.newval = int16(val)

	// The sequencer is reset 3 or 4 cycles after the write, depending on
	// whether the write occurs during an APU cycle or between APU cycles.
	if fc.apu.cycles&0x01 != 0 {
		fc.writeDelayCounter = 4
	} else {
		fc.writeDelayCounter = 3
	}

	fc.inhibitIRQ = val&0x40 == 0x40
	if fc.inhibitIRQ {
		fc.apu.clearIRQ(hwdefs.FrameCounter)
	}
}

// run runs the frame counter for at most cyclesToRun cycles, stopping at the
// next step. It returns the number of cycles it ran.
func (fc *frameCounter) run(cyclesToRun *int32) uint32 {
	var cyclesRan int32

	if fc.prevCycle+*cyclesToRun >= stepCycles[fc.stepMode][fc.curStep] {
		if !fc.inhibitIRQ && fc.stepMode == 0 && fc.curStep >= 3 {
			// The IRQ flag is set during the last 3 cycles of the 4-step
			// sequence.
			fc.apu.setIRQ(hwdefs.FrameCounter)
		}

		ftyp := frameType[fc.stepMode][fc.curStep]
		if ftyp != NoFrame && fc.blockTick == 0 {
			fc.apu.frameCounterTick(ftyp)

			// Prevent a write to $4017 from clocking the channels again
			// during this cycle and the next one.
			fc.blockTick = 2
		}

		if stepCycles[fc.stepMode][fc.curStep] < fc.prevCycle {
			cyclesRan = 0
		} else {
			cyclesRan = stepCycles[fc.stepMode][fc.curStep] - fc.prevCycle
		}

		*cyclesToRun -= cyclesRan

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.prevCycle = 0
		} else {
			fc.prevCycle += cyclesRan
		}
	} else {
		cyclesRan = *cyclesToRun
		*cyclesToRun = 0
		fc.prevCycle += cyclesRan
	}

	if fc.newval >= 0 {
		fc.writeDelayCounter--
		if fc.writeDelayCounter == 0 {
			if fc.newval&0x80 == 0x80 {
				fc.stepMode = 1
			} else {
				fc.stepMode = 0
			}

			fc.writeDelayCounter = -1
			fc.curStep = 0
			fc.prevCycle = 0
			fc.newval = -1

			if fc.stepMode != 0 && fc.blockTick == 0 {
				// Switching to 5-step mode immediately clocks the quarter
				// and half frame units.
				fc.apu.frameCounterTick(HalfFrame)
				fc.blockTick = 2
			}
		}
	}

	if fc.blockTick > 0 {
		fc.blockTick--
	}

	return uint32(cyclesRan)
}

// needToRun reports whether the frame counter has something to do in the
// next cyclesToRun cycles.
func (fc *frameCounter) needToRun(cyclesToRun uint32) bool {
	return fc.newval >= 0 ||
		fc.blockTick > 0 ||
		fc.prevCycle+int32(cyclesToRun) >= stepCycles[fc.stepMode][fc.curStep]-1
}
