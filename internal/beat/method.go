package beat

import "fmt"

// Method selects the feature extraction strategy.
type Method int

const (
	// Auto resolves to Onset for 44.1 kHz and above, Energy otherwise.
	Auto Method = iota
	// Energy tracks per-frame RMS. Robust on percussive material.
	Energy
	// SpectralFlux tracks positive band-magnitude change between frames.
	// Never chosen automatically; it is a user-requested method.
	SpectralFlux
	// Onset gates high-passed RMS against a fixed threshold and emits
	// beats directly, bypassing the adaptive threshold and peak picker.
	Onset
)

// ParseMethod maps a CLI method name to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "auto":
		return Auto, nil
	case "energy":
		return Energy, nil
	case "spectral":
		return SpectralFlux, nil
	case "onset":
		return Onset, nil
	}
	return Auto, fmt.Errorf("unknown detection method %q", name)
}

func (m Method) String() string {
	switch m {
	case Auto:
		return "auto"
	case Energy:
		return "energy"
	case SpectralFlux:
		return "spectral"
	case Onset:
		return "onset"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// Params configures one analysis run.
type Params struct {
	Method          Method
	Sensitivity     float64 // 0..1; scales threshold aggressiveness
	MinBPM          float64
	MaxBPM          float64
	MinBeatInterval float64 // seconds between accepted beats
}

// DefaultParams mirrors the tool's flag defaults.
func DefaultParams() Params {
	return Params{
		Method:          Auto,
		Sensitivity:     0.5,
		MinBPM:          60,
		MaxBPM:          200,
		MinBeatInterval: 0.3,
	}
}

// Resolve maps Auto to a concrete method for the given sample rate. High
// sample rates carry enough transient detail for onset gating; lower rates
// fall back to energy tracking.
func (p Params) Resolve(sampleRate int) Method {
	if p.Method != Auto {
		return p.Method
	}
	if sampleRate >= 44100 {
		return Onset
	}
	return Energy
}

// Validate rejects parameter combinations the pipeline cannot run with.
// Analyze calls it on every run; the CLI calls it at flag-parse time so
// bad arguments fail before any file is opened.
func (p Params) Validate() error {
	if p.Sensitivity < 0 || p.Sensitivity > 1 {
		return fmt.Errorf("sensitivity %g out of range [0, 1]", p.Sensitivity)
	}
	if p.MinBPM <= 0 {
		return fmt.Errorf("min BPM %g must be positive", p.MinBPM)
	}
	if p.MaxBPM < p.MinBPM {
		return fmt.Errorf("BPM range %g-%g is inverted", p.MinBPM, p.MaxBPM)
	}
	if p.MinBeatInterval < 0 {
		return fmt.Errorf("minimum beat interval %g must not be negative", p.MinBeatInterval)
	}
	return nil
}
