package beat

import "gonum.org/v1/gonum/stat"

// Threshold multipliers per method. Flux values concentrate near zero, so
// that path runs with a tighter k.
const (
	energyThresholdK = 2.0
	fluxThresholdK   = 1.5
)

// featureStats holds the series statistics the peak picker scores against.
type featureStats struct {
	mean      float64
	stdDev    float64
	threshold float64
}

// computeStats derives the adaptive threshold mean + k*sensitivity*stddev
// over the full feature series. The standard deviation is the population
// form: the series is the whole run, not a sample of it. Sensitivity is
// non-negative, so the threshold never drops below the mean.
func computeStats(features []FeatureSample, method Method, sensitivity float64) featureStats {
	values := make([]float64, len(features))
	for i, f := range features {
		values[i] = f.Value
	}
	k := energyThresholdK
	if method == SpectralFlux {
		k = fluxThresholdK
	}
	mean := stat.Mean(values, nil)
	var sigma float64
	if len(values) > 1 {
		// A single-sample series has no spread to measure.
		sigma = stat.PopStdDev(values, nil)
	}
	return featureStats{
		mean:      mean,
		stdDev:    sigma,
		threshold: mean + k*sensitivity*sigma,
	}
}
