package apu

// Channel identifies one of the APU sound channels.
type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DPCM
)

var channelNames = [...]string{"square1", "square2", "triangle", "noise", "dpcm"}

func (ch Channel) String() string {
	if int(ch) < len(channelNames) {
		return channelNames[ch]
	}
	return "unknown"
}
