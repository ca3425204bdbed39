// Package beat implements offline beat and tempo analysis of decoded audio.
//
// The pipeline runs in one pass: frames stream in from a FrameSource, a
// method-specific extractor reduces each frame to a scalar feature, an
// adaptive threshold and peak picker turn the feature series into beats, and
// interval statistics turn the beats into a BPM estimate with stability and
// confidence scores. The Onset method is the exception: it gates beats
// directly off the high-passed signal and skips the adaptive stages.
package beat

import "errors"

// ErrNoAudio is returned by Analyze when the source yields no audio frames.
var ErrNoAudio = errors.New("no audio frames in source")

// Frame is one block of decoded PCM handed to the analyzer. Samples are
// interleaved float32 in [-1, 1]; planar decoders must interleave before
// handing frames over. SampleRate is constant across a run.
type Frame struct {
	Samples    []float32
	NbSamples  int
	Channels   int
	SampleRate int
}

// FrameSource produces decoded frames in stream order. Next returns
// (nil, nil) once the stream is exhausted. The sequence is not restartable;
// the analyzer never retains a frame past the next call.
type FrameSource interface {
	Next() (*Frame, error)
}

// FeatureSample is one scalar feature stamped with the start time of the
// frame it came from. Timestamps are derived from accumulated sample counts,
// never from container timing.
type FeatureSample struct {
	Time  float64
	Value float64
}

// Beat is one detected beat event. Strength is the z-score of the feature at
// the peak for the adaptive methods, or the triggering level for the Onset
// gate. Confidence is always in [0, 1].
type Beat struct {
	Timestamp  float64
	Strength   float64
	Confidence float64
}

// Analysis is the result of one run.
type Analysis struct {
	BPM             float64 // clamped into [MinBPM, MaxBPM]; 0 with fewer than 2 beats
	Confidence      float64 // 0..1
	Beats           []Beat  // strictly increasing timestamps
	AvgBeatInterval float64 // seconds, over outlier-filtered intervals
	TempoStability  float64 // 0..1; 1 is perfectly metronomic
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
