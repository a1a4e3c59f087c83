package apu

import (
	"slices"

	"github.com/arl/blip"

	"nescore/hw/hwdefs"
)

const (
	DefaultSampleRate = 44100
	MaxSampleRate     = 96000

	// Channels output changes are buffered for at most cycleLength CPU
	// cycles before being fed into the band-limited buffer.
	cycleLength = 10000

	// Number of samples kept when nobody reads them (1s at MaxSampleRate).
	maxBuffered = MaxSampleRate
)

const ntscClockRate = 1789773

// Mixer combines the channels outputs with the non-linear NES mixing
// formulas and resamples them, through a band-limited buffer, to mono 16-bit
// samples.
type Mixer struct {
	buf     *blip.Buffer
	prevOut int16

	volumes [hwdefs.NumAudioChannels]float64

	timestamps []uint32
	chanoutput [hwdefs.NumAudioChannels][cycleLength]int16
	curOutput  [hwdefs.NumAudioChannels]int16

	sampleRate int
	tmp        []int16 // resampled samples of the last frame
	samples    []int16 // samples not consumed yet
}

// NewMixer creates a mixer producing samples at the given rate.
func NewMixer(sampleRate int) *Mixer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	sampleRate = min(sampleRate, MaxSampleRate)

	m := &Mixer{
		buf:        blip.NewBuffer(blip.MaxFrame),
		sampleRate: sampleRate,
		tmp:        make([]int16, blip.MaxFrame),
	}
	m.Reset()
	return m
}

// SampleRate returns the number of samples per second.
func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

func (m *Mixer) Reset() {
	m.prevOut = 0
	m.buf.Clear()
	m.buf.SetRates(ntscClockRate, float64(m.sampleRate))
	m.timestamps = m.timestamps[:0]
	m.samples = m.samples[:0]

	for i := range hwdefs.NumAudioChannels {
		m.volumes[i] = 1.0
	}
	for i := range m.chanoutput {
		clear(m.chanoutput[i][:])
	}
	clear(m.curOutput[:])
}

func (m *Mixer) addDelta(ch Channel, time uint32, delta int16) {
	if delta != 0 {
		m.timestamps = append(m.timestamps, time)
		m.chanoutput[ch][time] += delta
	}
}

func (m *Mixer) channelOutput(ch Channel) float64 {
	return float64(m.curOutput[ch]) * m.volumes[ch]
}

// outputVolume applies the non-linear mixing formulas (see
// https://www.nesdev.org/wiki/APU_Mixer).
func (m *Mixer) outputVolume() int16 {
	squareOutput := m.channelOutput(Square1) + m.channelOutput(Square2)
	tndOutput := m.channelOutput(DPCM) +
		2.7516713261*m.channelOutput(Triangle) +
		1.8493587125*m.channelOutput(Noise)

	squareVolume := uint16((95.88 * 5000.0) / (8128.0/squareOutput + 100.0))
	tndVolume := uint16((159.79 * 5000.0) / (22638.0/tndOutput + 100.0))

	return int16(squareVolume + tndVolume)
}

// endFrame feeds the deltas accumulated during the last time cycles into
// the band-limited buffer and collects the resulting samples.
func (m *Mixer) endFrame(time uint32) {
	slices.Sort(m.timestamps)
	m.timestamps = slices.Compact(m.timestamps)

	for _, stamp := range m.timestamps {
		for j := range hwdefs.NumAudioChannels {
			m.curOutput[j] += m.chanoutput[j][stamp]
		}

		out := m.outputVolume() * 4
		m.buf.AddDelta(uint64(stamp), int32(out-m.prevOut))
		m.prevOut = out
	}

	m.buf.EndFrame(int(time))
	n := m.buf.ReadSamples(m.tmp, len(m.tmp), blip.Mono)
	m.samples = append(m.samples, m.tmp[:n]...)
	if extra := len(m.samples) - maxBuffered; extra > 0 {
		m.samples = slices.Delete(m.samples, 0, extra)
	}

	m.timestamps = m.timestamps[:0]
	for i := range m.chanoutput {
		clear(m.chanoutput[i][:])
	}
}

// Buffered returns the number of samples ready to be read.
func (m *Mixer) Buffered() int {
	return len(m.samples)
}

// ReadSamples moves at most len(dst) samples into dst and returns how many
// were read.
func (m *Mixer) ReadSamples(dst []int16) int {
	n := copy(dst, m.samples)
	m.samples = slices.Delete(m.samples, 0, n)
	return n
}
