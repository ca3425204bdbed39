package audio

import (
	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/beatscan/beatscan/internal/beat"
)

// FrameReader yields decoded audio frames until end of stream, where it
// returns (nil, nil). Both Reader and FilterReader satisfy it.
type FrameReader interface {
	ReadFrame() (*ffmpeg.AVFrame, error)
}

// Source adapts a FrameReader into the PCM frame stream the beat analyzer
// consumes. The sample rate comes from the opened file's metadata rather
// than per frame; a decoder never changes rate mid-stream.
type Source struct {
	reader     FrameReader
	sampleRate int
}

// NewSource wraps reader, stamping every frame with sampleRate.
func NewSource(reader FrameReader, sampleRate int) *Source {
	return &Source{reader: reader, sampleRate: sampleRate}
}

// Next returns the next frame of interleaved float32 samples, or (nil, nil)
// at end of stream.
func (s *Source) Next() (*beat.Frame, error) {
	frame, err := s.reader.ReadFrame()
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, nil
	}

	samples, err := frameSamples(frame)
	if err != nil {
		return nil, err
	}

	return &beat.Frame{
		Samples:    samples,
		NbSamples:  int(frame.NbSamples()),
		Channels:   frame.ChLayout().NbChannels(),
		SampleRate: s.sampleRate,
	}, nil
}
