package beat

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval statistics and scoring policy.
const (
	outlierTolerance = 0.3  // keep intervals within ±30% of the median
	stabilityWeight  = 0.7  // tempo stability share of the confidence score
	coverageWeight   = 0.3  // beat-count share of the confidence score
	fullCoverage     = 20.0 // beat count treated as full coverage
)

// estimateTempo turns the beat list into the final analysis. Fewer than two
// beats is a successful zero-BPM result, not an error. Clamping the raw BPM
// into [MinBPM, MaxBPM] can raise a very slow estimate to the range floor;
// that behaviour is intentional.
func estimateTempo(beats []Beat, params Params) *Analysis {
	if len(beats) < 2 {
		return &Analysis{Beats: beats}
	}

	intervals := make([]float64, len(beats)-1)
	for i := range intervals {
		intervals[i] = beats[i+1].Timestamp - beats[i].Timestamp
	}

	sorted := make([]float64, len(intervals))
	copy(sorted, intervals)
	sort.Float64s(sorted)
	// Upper median on even counts; never the mean of the middle pair.
	median := sorted[len(sorted)/2]

	rawBPM := 60.0 / median

	// The median always passes its own fence, so kept is never empty.
	kept := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		if math.Abs(iv-median) <= outlierTolerance*median {
			kept = append(kept, iv)
		}
	}

	avg := stat.Mean(kept, nil)
	var spread float64
	if len(kept) > 1 {
		// A single kept interval has no spread to measure.
		spread = stat.PopStdDev(kept, nil)
	}
	stability := 1.0 - min(spread/avg, 1.0)

	coverage := min(float64(len(beats))/fullCoverage, 1.0)
	return &Analysis{
		BPM:             clamp(rawBPM, params.MinBPM, params.MaxBPM),
		Confidence:      stabilityWeight*stability + coverageWeight*coverage,
		Beats:           beats,
		AvgBeatInterval: avg,
		TempoStability:  stability,
	}
}
