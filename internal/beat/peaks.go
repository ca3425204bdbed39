package beat

// varGuard keeps z-scores finite on near-constant feature series.
const varGuard = 1e-10

// pickPeaks scans the feature series for strict local maxima above the
// threshold, at least minInterval apart. Plateaus never qualify: equal
// neighbours fail the strict comparison, and no smoothing is applied. The
// previous-beat clock starts at -minInterval so the first candidate is
// always eligible on spacing.
func pickPeaks(features []FeatureSample, stats featureStats, minInterval float64) []Beat {
	var beats []Beat
	last := -minInterval
	for i := 1; i+1 < len(features); i++ {
		cur := features[i].Value
		if cur <= features[i-1].Value || cur <= features[i+1].Value {
			continue
		}
		if cur <= stats.threshold {
			continue
		}
		if features[i].Time-last < minInterval {
			continue
		}
		strength := (cur - stats.mean) / (stats.stdDev + varGuard)
		beats = append(beats, Beat{
			Timestamp:  features[i].Time,
			Strength:   strength,
			Confidence: clamp(strength/3.0, 0, 1),
		})
		last = features[i].Time
	}
	return beats
}
