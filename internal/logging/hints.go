package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/beatscan/beatscan/internal/beat"
)

// Hint represents a single piece of actionable advice derived from an
// analysis result.
type Hint struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "no_beats")
}

// MaxHints is the maximum number of hints to display.
const MaxHints = 3

// hintWrapWidth is the column limit for wrapped hint text.
const hintWrapWidth = 66

// GenerateHints inspects an analysis result and returns prioritised
// suggestions for getting a better estimate out of the detector.
func GenerateHints(a *beat.Analysis, params beat.Params) []Hint {
	if a == nil {
		return nil
	}

	var hints []Hint
	firedRules := make(map[string]bool)

	rules := []func(*beat.Analysis, beat.Params) *Hint{
		hintNoBeats,
		hintFewBeats,
		hintLowConfidence,
		hintBPMAtFloor,
		hintBPMAtCeiling,
		hintUnstableTempo,
	}

	for _, rule := range rules {
		if h := rule(a, params); h != nil {
			hints = append(hints, *h)
			firedRules[h.RuleID] = true
		}
	}

	// Apply mutual exclusion
	hints = applyExclusions(hints, firedRules)

	// Sort by priority (descending)
	sort.Slice(hints, func(i, j int) bool {
		return hints[i].Priority > hints[j].Priority
	})

	// Cap at maximum
	if len(hints) > MaxHints {
		hints = hints[:MaxHints]
	}

	return hints
}

// DisplayHints prints the hints block, one wrapped bullet per hint.
func DisplayHints(w io.Writer, hints []Hint) {
	if len(hints) == 0 {
		return
	}

	fmt.Fprintln(w, "HINTS")
	for _, h := range hints {
		fmt.Fprintf(w, "  - %s\n", wrapText(h.Message, hintWrapWidth, "    "))
	}
	fmt.Fprintln(w)
}

// applyExclusions removes hints that are redundant when a more specific hint
// has already fired. Stability feeds the confidence score, so an unstable
// tempo almost always drags confidence down with it; showing both would
// say the same thing twice.
func applyExclusions(hints []Hint, fired map[string]bool) []Hint {
	var result []Hint
	for _, h := range hints {
		if h.RuleID == "unstable_tempo" && fired["low_confidence"] {
			continue
		}
		result = append(result, h)
	}
	return result
}

// hintNoBeats fires when the analysis found nothing at all.
func hintNoBeats(a *beat.Analysis, _ beat.Params) *Hint {
	if len(a.Beats) > 0 {
		return nil
	}
	return &Hint{
		Priority: 10,
		RuleID:   "no_beats",
		Message:  "No beats were detected - try lowering the sensitivity with -s, or a different detection method with -m.",
	}
}

// hintFewBeats fires when the tempo estimate rests on very few intervals.
// Confidence weights beat coverage up to 20 beats; below 8 the estimate
// is statistically thin regardless of how regular the spacing looks.
func hintFewBeats(a *beat.Analysis, _ beat.Params) *Hint {
	if len(a.Beats) == 0 || len(a.Beats) >= 8 {
		return nil
	}
	return &Hint{
		Priority: 8,
		RuleID:   "few_beats",
		Message:  "Very few beats were detected, so the tempo rests on thin evidence - a longer excerpt or lower sensitivity (-s) would firm it up.",
	}
}

// hintLowConfidence fires when the combined confidence score is weak.
func hintLowConfidence(a *beat.Analysis, _ beat.Params) *Hint {
	if len(a.Beats) < 2 || a.Confidence >= 0.5 {
		return nil
	}
	return &Hint{
		Priority: 7,
		RuleID:   "low_confidence",
		Message:  "Confidence is low - the beat spacing is irregular. The spectral method (-m spectral) often does better on busy or layered material.",
	}
}

// hintBPMAtFloor fires when the reported BPM sits exactly on the range
// floor, which usually means the raw estimate was clamped up to it.
func hintBPMAtFloor(a *beat.Analysis, params beat.Params) *Hint {
	if len(a.Beats) < 2 || a.BPM != params.MinBPM {
		return nil
	}
	return &Hint{
		Priority: 6,
		RuleID:   "bpm_at_floor",
		Message:  fmt.Sprintf("The BPM landed exactly on the range floor (%.0f) - the real tempo may be slower. Widen the range with -b.", params.MinBPM),
	}
}

// hintBPMAtCeiling fires when the reported BPM sits exactly on the range
// ceiling. Double-time detection (hitting every eighth note) is the usual
// culprit on dense material.
func hintBPMAtCeiling(a *beat.Analysis, params beat.Params) *Hint {
	if len(a.Beats) < 2 || a.BPM != params.MaxBPM {
		return nil
	}
	return &Hint{
		Priority: 6,
		RuleID:   "bpm_at_ceiling",
		Message:  fmt.Sprintf("The BPM landed exactly on the range ceiling (%.0f) - the detector may be counting double-time. Widen the range with -b or raise the minimum beat interval with -i.", params.MaxBPM),
	}
}

// hintUnstableTempo fires when beat spacing varies a lot. Suppressed when
// low_confidence already fired.
func hintUnstableTempo(a *beat.Analysis, _ beat.Params) *Hint {
	if len(a.Beats) < 2 || a.TempoStability >= 0.6 {
		return nil
	}
	return &Hint{
		Priority: 5,
		RuleID:   "unstable_tempo",
		Message:  "The tempo drifts across the track - the BPM shown is a central estimate, not a constant grid.",
	}
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}
