package audio

import (
	"strings"
	"testing"
)

func TestHumFilterSpec(t *testing.T) {
	tests := []struct {
		name        string
		fundamental float64
		wantNotches []string
	}{
		{
			name:        "50Hz grid",
			fundamental: 50,
			wantNotches: []string{
				"bandreject=f=50:",
				"bandreject=f=100:",
				"bandreject=f=150:",
				"bandreject=f=200:",
			},
		},
		{
			name:        "60Hz grid",
			fundamental: 60,
			wantNotches: []string{
				"bandreject=f=60:",
				"bandreject=f=120:",
				"bandreject=f=180:",
				"bandreject=f=240:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := HumFilterSpec(tt.fundamental)

			for _, want := range tt.wantNotches {
				if !strings.Contains(spec, want) {
					t.Errorf("HumFilterSpec(%v) = %q, want to contain %q", tt.fundamental, spec, want)
				}
			}

			// One notch per harmonic, comma-joined
			if got := strings.Count(spec, "bandreject="); got != humHarmonics {
				t.Errorf("HumFilterSpec(%v) has %d notches, want %d", tt.fundamental, got, humHarmonics)
			}
			if got := strings.Count(spec, ","); got != humHarmonics-1 {
				t.Errorf("HumFilterSpec(%v) has %d separators, want %d", tt.fundamental, got, humHarmonics-1)
			}

			// Narrow Q on every notch so the music around the hum survives
			if got := strings.Count(spec, "width_type=q:width=30.0"); got != humHarmonics {
				t.Errorf("HumFilterSpec(%v) = %q, want Q=30.0 on all %d notches", tt.fundamental, spec, humHarmonics)
			}
		})
	}
}

func TestHumFilterSpecExact(t *testing.T) {
	want := "bandreject=f=50:width_type=q:width=30.0," +
		"bandreject=f=100:width_type=q:width=30.0," +
		"bandreject=f=150:width_type=q:width=30.0," +
		"bandreject=f=200:width_type=q:width=30.0"

	if got := HumFilterSpec(50); got != want {
		t.Errorf("HumFilterSpec(50) = %q, want %q", got, want)
	}
}
