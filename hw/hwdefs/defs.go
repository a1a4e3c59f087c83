// Package hwdefs holds definitions shared by the hardware packages.
package hwdefs

import "strings"

// IRQSource is a bitmask of the components asserting the CPU IRQ line.
type IRQSource uint8

const (
	External     IRQSource = 1 << iota // cartridge
	FrameCounter                       // APU frame counter
	DMC                                // APU delta modulation channel

	numSources = 3
)

var irqSrcNames = [numSources]string{"ext", "fcnt", "dmc"}

func (irq IRQSource) String() string {
	if irq == 0 {
		return "none"
	}
	var names []string
	for i := range numSources {
		if irq&(1<<i) != 0 {
			names = append(names, irqSrcNames[i])
		}
	}
	return strings.Join(names, "|")
}

// Reset kinds, as passed to Reset methods.
const (
	SoftReset = true
	HardReset = false
)

// NumAudioChannels is the number of APU channels: square 1 and 2, triangle,
// noise and DMC.
const NumAudioChannels = 5
