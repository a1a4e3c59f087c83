package apu

// timer is the divider clocking a channel. Each time it reaches 0, it's
// reloaded with the period and the channel sequencer is clocked.
//
// Timers keep track of the cycle at which they last ran, so that the channel
// outputs changes are timestamped into the mixer.
type timer struct {
	prevCycle  uint32
	timer      uint16
	period     uint16
	lastOutput int8

	channel Channel
	mixer   *Mixer
}

func (t *timer) reset() {
	t.timer = 0
	t.period = 0
	t.prevCycle = 0
	t.lastOutput = 0
}

func (t *timer) addOutput(output int8) {
	if output != t.lastOutput {
		t.mixer.addDelta(t.channel, t.prevCycle, int16(output)-int16(t.lastOutput))
		t.lastOutput = output
	}
}

// run runs the timer up to targetCycle, or until it reaches 0, in which
// case it returns true. run should then be called again.
func (t *timer) run(targetCycle uint32) bool {
	cyclesToRun := targetCycle - t.prevCycle

	if cyclesToRun > uint32(t.timer) {
		t.prevCycle += uint32(t.timer) + 1
		t.timer = t.period
		return true
	}

	t.timer -= uint16(cyclesToRun)
	t.prevCycle = targetCycle
	return false
}

func (t *timer) endFrame() {
	t.prevCycle = 0
}
