// Package logging renders analysis results for the console and exports
// beat maps alongside the input file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beatscan/beatscan/internal/beat"
)

// WriteBeatMap writes an analysis as an annotated CSV beat map: a comment
// header summarising the analysis, then one timestamp,strength,confidence
// row per beat.
func WriteBeatMap(w io.Writer, a *beat.Analysis) error {
	_, err := fmt.Fprintf(w,
		"# Beat Map\n"+
			"# BPM: %.1f\n"+
			"# Confidence: %.0f%%\n"+
			"# Total beats: %d\n"+
			"#\n"+
			"# Format: timestamp(s), strength, confidence\n"+
			"#\n",
		a.BPM, a.Confidence*100, len(a.Beats))
	if err != nil {
		return fmt.Errorf("failed to write beat map: %w", err)
	}

	for _, b := range a.Beats {
		if _, err := fmt.Fprintf(w, "%.6f,%.4f,%.4f\n", b.Timestamp, b.Strength, b.Confidence); err != nil {
			return fmt.Errorf("failed to write beat map: %w", err)
		}
	}
	return nil
}

// SaveBeatMap writes the beat map to path, creating or truncating the file.
func SaveBeatMap(path string, a *beat.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create beat map file: %w", err)
	}

	if err := WriteBeatMap(f, a); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write beat map file: %w", err)
	}
	return nil
}

// BeatMapPath derives the default export path from the input file:
// track01.flac → track01.beatmap.csv
func BeatMapPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".beatmap.csv"
}
