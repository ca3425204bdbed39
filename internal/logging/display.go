// This file provides console display for the analysis header, in-place
// progress line, results block, and verbose beat listing.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beatscan/beatscan/internal/audio"
	"github.com/beatscan/beatscan/internal/beat"
)

const headerWidth = 70

// DisplayHeader outputs the pre-analysis file summary to the console.
func DisplayHeader(w io.Writer, metadata *audio.Metadata, params beat.Params, method beat.Method) {
	fmt.Fprintln(w, strings.Repeat("=", headerWidth))
	fmt.Fprintf(w, "BEAT ANALYSIS: %s\n", filepath.Base(metadata.Filename))
	fmt.Fprintln(w, strings.Repeat("=", headerWidth))

	duration := "unknown"
	if metadata.Duration > 0 {
		duration = formatDurationHMS(metadata.Duration)
	}

	methodName := method.String()
	if params.Method == beat.Auto {
		methodName = fmt.Sprintf("auto (%s)", method)
	}

	fmt.Fprintf(w, "Duration:    %s\n", duration)
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", metadata.SampleRate)
	fmt.Fprintf(w, "Channels:    %s\n", channelDesc(metadata))
	fmt.Fprintf(w, "Format:      %s (%d-bit)\n", metadata.SampleFmt, metadata.BitDepth)
	fmt.Fprintf(w, "Method:      %s\n", methodName)
	fmt.Fprintf(w, "BPM Range:   %.0f-%.0f\n", params.MinBPM, params.MaxBPM)
	fmt.Fprintf(w, "Sensitivity: %.2f\n", params.Sensitivity)
	fmt.Fprintln(w)
}

// DisplayProgress rewrites the in-place progress line. total may be zero
// when the container reports no duration; then only the decoded time shows.
func DisplayProgress(w io.Writer, processed, total float64) {
	if total > 0 {
		pct := processed / total * 100
		if pct > 100 {
			pct = 100
		}
		fmt.Fprintf(w, "\rAnalyzing... %s / %s (%.0f%%)",
			formatDurationHMS(processed), formatDurationHMS(total), pct)
	} else {
		fmt.Fprintf(w, "\rAnalyzing... %s", formatDurationHMS(processed))
	}
}

// DisplayResults outputs the analysis results block to the console.
func DisplayResults(w io.Writer, a *beat.Analysis, method beat.Method) {
	fmt.Fprintln(w, "RESULTS")

	table := &ResultTable{}
	table.AddRow("Method", method.String(), "")

	if len(a.Beats) >= 2 {
		table.AddMetricRow("BPM", a.BPM, 1, "", interpretTempo(a.BPM))
		table.AddMetricRow("Confidence", a.Confidence*100, 0, "%", confidenceStatus(a.Confidence))
		table.AddRow("Total Beats", strconv.Itoa(len(a.Beats)), "")
		table.AddMetricRow("Avg Interval", a.AvgBeatInterval, 3, "s", "")
		table.AddMetricRow("Stability", a.TempoStability, 2, "", interpretStability(a.TempoStability))
	} else {
		table.AddRow("BPM", MissingValue, "too few beats for a tempo estimate")
		table.AddRow("Total Beats", strconv.Itoa(len(a.Beats)), "")
	}

	fmt.Fprint(w, table.String())
	fmt.Fprintln(w)
}

// DisplayBeats lists the first max detected beats with their scores.
// Used by verbose mode after the results block.
func DisplayBeats(w io.Writer, beats []beat.Beat, max int) {
	if len(beats) == 0 {
		return
	}

	fmt.Fprintln(w, "BEATS")

	n := len(beats)
	if n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		b := beats[i]
		fmt.Fprintf(w, "  #%-3d %8.3fs  strength %5.2f  confidence %.2f\n",
			i+1, b.Timestamp, b.Strength, b.Confidence)
	}
	if len(beats) > max {
		fmt.Fprintf(w, "  ... and %d more\n", len(beats)-max)
	}
	fmt.Fprintln(w)
}

// interpretTempo names the musical territory a tempo falls in.
// Boundaries follow common genre conventions rather than strict theory.
func interpretTempo(bpm float64) string {
	switch {
	case bpm < 70:
		return "slow, ballad territory"
	case bpm < 90:
		return "laid back, downtempo range"
	case bpm < 112:
		return "moderate, classic pop range"
	case bpm < 128:
		return "upbeat, house/dance range"
	case bpm < 145:
		return "driving, techno/trance range"
	case bpm < 170:
		return "fast, dubstep/hardstyle range"
	default:
		return "very fast, drum & bass range"
	}
}

// interpretStability describes how evenly spaced the detected beats are.
// Quantised electronic material sits near 1.0; live drummers drift lower.
func interpretStability(stability float64) string {
	switch {
	case stability >= 0.95:
		return "metronome steady"
	case stability >= 0.85:
		return "steady"
	case stability >= 0.6:
		return "loose, human feel"
	default:
		return "unstable, tempo drifts"
	}
}

// confidenceStatus classifies overall confidence for the results table.
func confidenceStatus(confidence float64) string {
	switch {
	case confidence >= 0.75:
		return "good"
	case confidence >= 0.5:
		return "fair"
	default:
		return "low"
	}
}

// channelDesc prefers the decoder's own layout name ("5.1(side)" beats
// "6 channels") and falls back to a count-derived one.
func channelDesc(metadata *audio.Metadata) string {
	if metadata.ChLayout != "" {
		return metadata.ChLayout
	}
	return channelName(metadata.Channels)
}

// channelName returns a friendly name for a channel count.
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}

// formatDurationHMS formats duration as "Xh Ym Zs" or "Ym Zs" or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
