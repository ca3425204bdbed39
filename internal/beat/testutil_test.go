package beat

import (
	"math"
	"testing"
)

// testFrameSize matches the frame granularity the decoder typically hands the
// analyzer. Expected beat counts and timestamps in these tests assume it.
const testFrameSize = 1024

// sliceSource replays a fixed list of frames and then reports end of stream.
type sliceSource struct {
	frames []*Frame
	pos    int
}

func (s *sliceSource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, nil
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// failingSource yields its frames and then returns err instead of end of
// stream, simulating a decoder that dies mid-file.
type failingSource struct {
	frames []*Frame
	pos    int
	err    error
}

func (s *failingSource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, s.err
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// frameTrack chunks an interleaved sample buffer into analyzer frames of
// testFrameSize samples each, dropping any trailing partial frame.
func frameTrack(samples []float32, rate, channels int) []*Frame {
	var frames []*Frame
	step := testFrameSize * channels
	for start := 0; start+step <= len(samples); start += step {
		frames = append(frames, &Frame{
			Samples:    samples[start : start+step],
			NbSamples:  testFrameSize,
			Channels:   channels,
			SampleRate: rate,
		})
	}
	return frames
}

// clickTrack synthesizes a silent mono track with single-sample impulses of
// the given amplitude at the given times.
func clickTrack(t *testing.T, durationSecs float64, clickTimes []float64, amp float64, rate int) *sliceSource {
	t.Helper()

	samples := make([]float32, int(durationSecs*float64(rate)))
	for _, ct := range clickTimes {
		if i := int(ct * float64(rate)); i >= 0 && i < len(samples) {
			samples[i] = float32(amp)
		}
	}
	return &sliceSource{frames: frameTrack(samples, rate, 1)}
}

// gridTimes returns n click times spaced evenly from zero.
func gridTimes(n int, spacing float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * spacing
	}
	return times
}

// toneBurstTrack synthesizes short sine bursts starting at the given times
// over an otherwise silent mono track.
func toneBurstTrack(t *testing.T, durationSecs float64, burstStarts []float64, burstSecs, freq, amp float64, rate int) *sliceSource {
	t.Helper()

	samples := make([]float32, int(durationSecs*float64(rate)))
	burstLen := int(burstSecs * float64(rate))
	for _, bs := range burstStarts {
		start := int(bs * float64(rate))
		for i := 0; i < burstLen && start+i < len(samples); i++ {
			samples[start+i] = float32(amp * math.Sin(2.0*math.Pi*freq*float64(i)/float64(rate)))
		}
	}
	return &sliceSource{frames: frameTrack(samples, rate, 1)}
}

// noisyClickTrack layers clicks of varied strength on a bed of deterministic
// noise, 8 seconds at one click per 0.4 s. Weak clicks sit barely above the
// noise so the survivor count tracks the sensitivity setting.
func noisyClickTrack(t *testing.T, rate int) *sliceSource {
	t.Helper()

	const (
		durationSecs = 8.0
		noiseAmp     = 0.05
	)
	clickAmps := []float64{
		0.3, 0.9, 0.4, 0.8, 0.35, 0.7, 0.5, 0.9, 0.3, 0.85,
		0.45, 0.75, 0.33, 0.65, 0.55, 0.88, 0.38, 0.8, 0.42, 0.9,
	}

	samples := make([]float32, int(durationSecs*float64(rate)))

	// Simple LCG random number generator for deterministic noise
	// (avoids importing math/rand and seeding complexity)
	rngState := uint32(12345)
	for i := range samples {
		// LCG parameters from Numerical Recipes
		rngState = rngState*1664525 + 1013904223
		v := (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
		samples[i] = float32(v * noiseAmp)
	}

	for i, amp := range clickAmps {
		idx := int((0.2 + float64(i)*0.4) * float64(rate))
		if idx < len(samples) {
			samples[idx] = float32(amp)
		}
	}
	return &sliceSource{frames: frameTrack(samples, rate, 1)}
}

// steadyToneSource repeats one tone frame numFrames times. The tone period
// divides the frame length exactly, so every frame is bit-identical and the
// feature series is perfectly flat.
func steadyToneSource(t *testing.T, numFrames, cyclesPerFrame int, amp float64, rate int) *sliceSource {
	t.Helper()

	samples := make([]float32, testFrameSize)
	for i := range samples {
		samples[i] = float32(amp * math.Sin(2.0*math.Pi*float64(cyclesPerFrame)*float64(i)/float64(testFrameSize)))
	}
	frames := make([]*Frame, numFrames)
	for i := range frames {
		frames[i] = &Frame{Samples: samples, NbSamples: testFrameSize, Channels: 1, SampleRate: rate}
	}
	return &sliceSource{frames: frames}
}

// assertBeatInvariants checks the properties every analysis must satisfy
// regardless of input: ordering, spacing, and value ranges.
func assertBeatInvariants(t *testing.T, a *Analysis, p Params) {
	t.Helper()

	for i, b := range a.Beats {
		if b.Timestamp < 0 {
			t.Errorf("beat %d: timestamp %.4f s is negative", i, b.Timestamp)
		}
		if b.Confidence < 0 || b.Confidence > 1 {
			t.Errorf("beat %d: confidence %.4f outside [0, 1]", i, b.Confidence)
		}
		if i > 0 {
			gap := b.Timestamp - a.Beats[i-1].Timestamp
			if gap <= 0 {
				t.Errorf("beat %d: timestamp %.4f s does not increase past %.4f s",
					i, b.Timestamp, a.Beats[i-1].Timestamp)
			}
			if gap < p.MinBeatInterval {
				t.Errorf("beat %d: spacing %.4f s below minimum %.4f s",
					i, gap, p.MinBeatInterval)
			}
		}
	}

	if len(a.Beats) >= 2 {
		if a.BPM < p.MinBPM || a.BPM > p.MaxBPM {
			t.Errorf("BPM = %.2f, want within [%.1f, %.1f]", a.BPM, p.MinBPM, p.MaxBPM)
		}
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		t.Errorf("Confidence = %.4f, want within [0, 1]", a.Confidence)
	}
	if a.TempoStability < 0 || a.TempoStability > 1 {
		t.Errorf("TempoStability = %.4f, want within [0, 1]", a.TempoStability)
	}
}
