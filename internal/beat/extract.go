package beat

import "math"

// fluxBands is the number of contiguous sample-index bands the spectral flux
// method folds each frame into.
const fluxBands = 32

// extractor reduces one frame to at most one feature sample. Implementations
// may carry state between frames but never between runs.
type extractor interface {
	step(f *Frame, t float64) (FeatureSample, bool)
}

type energyExtractor struct{}

func (energyExtractor) step(f *Frame, t float64) (FeatureSample, bool) {
	return FeatureSample{Time: t, Value: frameRMS(f.Samples)}, true
}

// frameRMS computes the RMS over every channel and sample of an interleaved
// block. Integer input formats are normalized to [-1, 1] before they reach
// the analyzer, so no further scaling happens here.
func frameRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// fluxExtractor measures how much band magnitudes grew since the previous
// frame: half-wave rectified L2 over the band vector. The first frame has no
// predecessor and emits nothing.
type fluxExtractor struct {
	prev    []float64
	hasPrev bool
}

func (e *fluxExtractor) step(f *Frame, t float64) (FeatureSample, bool) {
	spectrum := bandSpectrum(f)
	if !e.hasPrev {
		e.prev = spectrum
		e.hasPrev = true
		return FeatureSample{}, false
	}
	var sum float64
	for k, c := range spectrum {
		if d := c - e.prev[k]; d > 0 {
			sum += d * d
		}
	}
	e.prev = spectrum
	return FeatureSample{Time: t, Value: math.Sqrt(sum)}, true
}

// bandSpectrum folds a frame into fluxBands contiguous bands of equal sample
// count, the last band absorbing the remainder, and returns the mean |sample|
// per band across all channels. Frames shorter than fluxBands leave the
// trailing bands at zero.
func bandSpectrum(f *Frame) []float64 {
	bands := make([]float64, fluxBands)
	width := f.NbSamples / fluxBands
	if width == 0 {
		width = 1
	}
	for b := 0; b < fluxBands; b++ {
		lo := b * width
		hi := lo + width
		if b == fluxBands-1 || hi > f.NbSamples {
			hi = f.NbSamples
		}
		if lo >= hi {
			break
		}
		var sum float64
		for i := lo; i < hi; i++ {
			for c := 0; c < f.Channels; c++ {
				sum += math.Abs(float64(f.Samples[i*f.Channels+c]))
			}
		}
		bands[b] = sum / float64((hi-lo)*f.Channels)
	}
	return bands
}

// Onset gate tuning.
const (
	onsetCutoffHz   = 200.0 // pre-emphasis high-pass cutoff
	onsetTrigger    = 0.3   // fixed gate level, scaled by sensitivity
	onsetConfidence = 0.8   // heuristic confidence for gated beats
)

// onsetDetector emits a beat whenever the high-passed frame RMS crosses a
// fixed sensitivity-scaled gate with enough distance to the previous beat.
// The gate is deliberately not adaptive.
type onsetDetector struct {
	hp       highPass
	trigger  float64
	minGap   float64
	lastBeat float64
}

func newOnsetDetector(params Params) *onsetDetector {
	return &onsetDetector{
		hp:       highPass{cutoff: onsetCutoffHz},
		trigger:  onsetTrigger * params.Sensitivity,
		minGap:   params.MinBeatInterval,
		lastBeat: -params.MinBeatInterval,
	}
}

// step runs the gate for one frame. t is the clock after the frame has been
// consumed, so a trigger inside the very first frame lands at the first
// frame boundary rather than exactly at zero.
func (d *onsetDetector) step(f *Frame, t float64) (Beat, bool) {
	feature := d.hp.filterRMS(f)
	if feature > d.trigger && t-d.lastBeat >= d.minGap {
		d.lastBeat = t
		return Beat{Timestamp: t, Strength: feature, Confidence: onsetConfidence}, true
	}
	return Beat{}, false
}

// highPass is a one-pole high-pass filter with independent state per channel:
// y[n] = a * (y[n-1] + x[n] - x[n-1]), a = RC / (RC + dt).
type highPass struct {
	cutoff float64
	coeff  float64
	rate   int
	prevX  []float64
	prevY  []float64
}

// filterRMS runs the filter across one interleaved frame and returns the RMS
// of the filtered output. Filter state carries over to the next frame.
func (h *highPass) filterRMS(f *Frame) float64 {
	if f.NbSamples == 0 || f.Channels == 0 {
		return 0
	}
	if h.rate != f.SampleRate {
		rc := 1.0 / (2.0 * math.Pi * h.cutoff)
		dt := 1.0 / float64(f.SampleRate)
		h.coeff = rc / (rc + dt)
		h.rate = f.SampleRate
	}
	for len(h.prevX) < f.Channels {
		h.prevX = append(h.prevX, 0)
		h.prevY = append(h.prevY, 0)
	}
	var sum float64
	for i := 0; i < f.NbSamples; i++ {
		for c := 0; c < f.Channels; c++ {
			x := float64(f.Samples[i*f.Channels+c])
			y := h.coeff * (h.prevY[c] + x - h.prevX[c])
			h.prevX[c] = x
			h.prevY[c] = y
			sum += y * y
		}
	}
	return math.Sqrt(sum / float64(f.NbSamples*f.Channels))
}
