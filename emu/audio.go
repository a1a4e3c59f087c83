package emu

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"nescore/emu/log"
)

// An AudioSink receives the mono 16-bit samples produced during a frame.
type AudioSink interface {
	WriteSamples(samples []int16) error
}

// discard is the sink used when none is provided.
type discard struct{}

func (discard) WriteSamples([]int16) error { return nil }

// WAVSink streams samples into a 16-bit mono PCM wav file.
type WAVSink struct {
	enc *wav.Encoder
	buf audio.IntBuffer
	n   int64
}

// NewWAVSink creates a sink writing to w. The wav header is only complete
// after Close.
func NewWAVSink(w io.WriteSeeker, sampleRate int) *WAVSink {
	const (
		bitDepth  = 16
		numChans  = 1
		pcmFormat = 1
	)
	return &WAVSink{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, numChans, pcmFormat),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *WAVSink) WriteSamples(samples []int16) error {
	s.buf.Data = s.buf.Data[:0]
	for _, v := range samples {
		s.buf.Data = append(s.buf.Data, int(v))
	}
	if err := s.enc.Write(&s.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	s.n += int64(len(samples))
	return nil
}

// Close flushes the encoder and finalizes the wav header. It doesn't close
// the underlying writer.
func (s *WAVSink) Close() error {
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	log.ModSound.InfoZ("wav written").Int64("samples", s.n).End()
	return nil
}
