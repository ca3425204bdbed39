// This file contains the table formatting infrastructure for the results
// block: aligned label/value rows with optional interpretation notes.

package logging

import (
	"fmt"
	"math"
	"strings"
)

// ResultRow represents a single labelled metric in a results table.
// Values are pre-formatted strings to allow for mixed formatting
// (decimals, counts, percentages).
type ResultRow struct {
	Label string // Row label, e.g., "Avg Interval"
	Value string // Formatted value including any unit suffix
	Note  string // Optional interpretation text (only shown if non-empty)
}

// ResultTable formats aligned label/value columns for console output.
// Labels are left-aligned with a colon suffix; values are right-aligned
// within their column; notes trail in parentheses.
type ResultTable struct {
	Rows []ResultRow
}

// MissingValue is the placeholder for unavailable metrics
const MissingValue = "-"

// String renders the table with two-space indent and aligned columns.
func (t *ResultTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	valueWidth := 0
	for _, row := range t.Rows {
		// +1 for the colon appended to every label
		if len(row.Label)+1 > labelWidth {
			labelWidth = len(row.Label) + 1
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	var sb strings.Builder
	for _, row := range t.Rows {
		value := row.Value
		if value == "" {
			value = MissingValue
		}
		sb.WriteString(fmt.Sprintf("  %-*s %*s", labelWidth, row.Label+":", valueWidth, value))
		if row.Note != "" {
			sb.WriteString("  (" + row.Note + ")")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// AddRow adds a row with a pre-formatted value.
func (t *ResultTable) AddRow(label, value, note string) {
	t.Rows = append(t.Rows, ResultRow{Label: label, Value: value, Note: note})
}

// AddMetricRow adds a row with a numeric value, formatting it automatically
// and appending the unit directly (no separating space: "0.469s", "87%").
// NaN and infinite values display as "-" with the unit dropped.
func (t *ResultTable) AddMetricRow(label string, value float64, decimals int, unit, note string) {
	formatted := formatMetric(value, decimals)
	if formatted != MissingValue {
		formatted += unit
	}
	t.Rows = append(t.Rows, ResultRow{Label: label, Value: formatted, Note: note})
}

// formatMetric formats a numeric value with the given precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small non-zero values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}
