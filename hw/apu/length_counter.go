package apu

var lengthLUT = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// lengthCounter automatically silences a channel after a given duration.
type lengthCounter struct {
	apu     *APU
	channel Channel

	enabled bool
	halt    bool
	newHalt bool

	counter     uint8
	reloadValue uint8
	prevValue   uint8
}

func (lc *lengthCounter) init(halt bool) {
	lc.apu.needToRun = true
	lc.newHalt = halt
}

func (lc *lengthCounter) load(val uint8) {
	if lc.enabled {
		lc.reloadValue = lengthLUT[val&0x1F]
		lc.prevValue = lc.counter
		lc.apu.needToRun = true
	}
}

func (lc *lengthCounter) reset(soft bool) {
	lc.enabled = false
	if soft && lc.channel == Triangle {
		// triangle length counter is not affected by soft resets.
		return
	}
	lc.halt = false
	lc.newHalt = false
	lc.counter = 0
	lc.reloadValue = 0
	lc.prevValue = 0
}

func (lc *lengthCounter) status() bool {
	return lc.counter > 0
}

// reload applies a pending load, unless the counter has been clocked in the
// same cycle.
func (lc *lengthCounter) reload() {
	if lc.reloadValue != 0 {
		if lc.counter == lc.prevValue {
			lc.counter = lc.reloadValue
		}
		lc.reloadValue = 0
	}
	lc.halt = lc.newHalt
}

func (lc *lengthCounter) tick() {
	if lc.counter > 0 && !lc.halt {
		lc.counter--
	}
}

func (lc *lengthCounter) setEnabled(enabled bool) {
	if !enabled {
		lc.counter = 0
	}
	lc.enabled = enabled
}
