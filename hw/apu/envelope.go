package apu

// envelope generates a constant volume or a saw envelope with optional
// looping. The loop flag is shared with the length counter halt flag.
type envelope struct {
	lenCounter lengthCounter

	constantVolume bool
	volume         uint8

	start   bool
	divider int8
	counter uint8
}

func (env *envelope) init(val uint8) {
	env.lenCounter.init(val&0x20 == 0x20)
	env.constantVolume = val&0x10 == 0x10
	env.volume = val & 0x0F
}

func (env *envelope) restart() {
	env.start = true
}

func (env *envelope) output() uint8 {
	if !env.lenCounter.status() {
		return 0
	}
	if env.constantVolume {
		return env.volume
	}
	return env.counter
}

func (env *envelope) reset(soft bool) {
	env.lenCounter.reset(soft)
	env.constantVolume = false
	env.volume = 0
	env.start = false
	env.divider = 0
	env.counter = 0
}

func (env *envelope) tick() {
	if env.start {
		env.start = false
		env.counter = 15
		env.divider = int8(env.volume)
		return
	}

	env.divider--
	if env.divider < 0 {
		env.divider = int8(env.volume)
		if env.counter > 0 {
			env.counter--
		} else if env.lenCounter.halt {
			env.counter = 15
		}
	}
}
