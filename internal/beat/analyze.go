package beat

import "fmt"

// Analyze runs one detection pass over the source and returns the analysis.
// It owns no resources: the source belongs to the caller and is simply read
// to exhaustion. Every call allocates its own state, so distinct sources may
// be analyzed concurrently.
//
// Timestamps are derived from accumulated sample counts; decoder timing is
// ignored so results do not depend on container PTS quirks.
func Analyze(src FrameSource, params Params) (*Analysis, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection params: %w", err)
	}

	first, err := nextFrame(src)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, ErrNoAudio
	}

	var beats []Beat
	if params.Resolve(first.SampleRate) == Onset {
		beats, err = gateOnsets(src, first, params)
	} else {
		beats, err = pickFeaturePeaks(src, first, params)
	}
	if err != nil {
		return nil, err
	}

	return estimateTempo(beats, params), nil
}

// nextFrame pulls the next non-empty frame, skipping the zero-sample frames
// some decoders emit around stream boundaries.
func nextFrame(src FrameSource) (*Frame, error) {
	for {
		f, err := src.Next()
		if err != nil {
			return nil, err
		}
		if f == nil || f.NbSamples > 0 {
			return f, nil
		}
	}
}

// pickFeaturePeaks drives the Energy and SpectralFlux paths: materialize the
// full feature series, derive the adaptive threshold, then pick peaks.
// Feature samples carry frame start times.
func pickFeaturePeaks(src FrameSource, first *Frame, params Params) ([]Beat, error) {
	method := params.Resolve(first.SampleRate)

	var ext extractor
	if method == SpectralFlux {
		ext = &fluxExtractor{}
	} else {
		ext = energyExtractor{}
	}

	var features []FeatureSample
	var totalSamples int64
	for f := first; f != nil; {
		t := float64(totalSamples) / float64(f.SampleRate)
		if fs, ok := ext.step(f, t); ok {
			features = append(features, fs)
		}
		totalSamples += int64(f.NbSamples)

		var err error
		if f, err = nextFrame(src); err != nil {
			return nil, err
		}
	}
	if len(features) == 0 {
		// A single-frame run under SpectralFlux has no predecessor to
		// diff against; no features means no beats.
		return nil, nil
	}

	stats := computeStats(features, method, params.Sensitivity)
	return pickPeaks(features, stats, params.MinBeatInterval), nil
}

// gateOnsets drives the Onset path. The clock advances before the gate, so
// beats carry frame end times.
func gateOnsets(src FrameSource, first *Frame, params Params) ([]Beat, error) {
	det := newOnsetDetector(params)

	var beats []Beat
	var totalSamples int64
	for f := first; f != nil; {
		totalSamples += int64(f.NbSamples)
		t := float64(totalSamples) / float64(f.SampleRate)
		if b, ok := det.step(f, t); ok {
			beats = append(beats, b)
		}

		var err error
		if f, err = nextFrame(src); err != nil {
			return nil, err
		}
	}
	return beats, nil
}
