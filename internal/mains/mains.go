// Package mains detects local electrical mains frequency from system timezone.
package mains

import (
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Fundamental returns the local mains fundamental in Hz (50 or 60).
// Returns 50Hz if detection fails or timezone is ambiguous.
func Fundamental() float64 {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return 50 // Default fallback
	}
	return FundamentalForTimezone(timezone)
}

// FundamentalForTimezone returns the mains fundamental for a given IANA timezone.
// Exported for testing with specific timezones.
func FundamentalForTimezone(timezone string) float64 {
	// Handle UTC/GMT—no country association, default to 50Hz
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return 50
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return 50
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return 50
	}

	return fundamentalForCountry(country)
}

// Harmonics returns the fundamental and its overtones up to count entries.
// Mains hum shows up at the fundamental and its integer multiples, so a
// notch chain needs all of them: Harmonics(50, 4) gives 50, 100, 150, 200.
func Harmonics(fundamental float64, count int) []float64 {
	if count < 1 {
		return nil
	}
	freqs := make([]float64, count)
	for i := range freqs {
		freqs[i] = fundamental * float64(i+1)
	}
	return freqs
}

// fundamentalForCountry returns the mains fundamental for a country name.
// Returns 50Hz for unknown countries (more common globally).
func fundamentalForCountry(country string) float64 {
	// Japan special case: split 50/60Hz by region
	// Default to 50Hz (Tokyo region is most populous)
	if country == "Japan" {
		return 50
	}

	if hz60Countries[country] {
		return 60
	}
	return 50
}

// hz60Countries lists countries using 60Hz mains power.
// All other countries use 50Hz.
// Source: https://en.wikipedia.org/wiki/Mains_electricity_by_country
var hz60Countries = map[string]bool{
	// North America
	"United States": true,
	"Canada":        true,
	"Mexico":        true,

	// Central America
	"Belize":      true,
	"Costa Rica":  true,
	"El Salvador": true,
	"Guatemala":   true,
	"Honduras":    true,
	"Nicaragua":   true,
	"Panama":      true,

	// Caribbean
	"Bahamas":             true,
	"Barbados":            true,
	"Cayman Islands":      true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,
	"U.S. Virgin Islands": true,

	// South America (partial—most use 50Hz)
	"Brazil":    true, // Note: Brazil has both 50Hz and 60Hz regions; 60Hz predominant
	"Colombia":  true,
	"Ecuador":   true,
	"Guyana":    true,
	"Peru":      true,
	"Suriname":  true,
	"Venezuela": true,

	// Asia (partial)
	"South Korea":  true,
	"Taiwan":       true,
	"Philippines":  true,
	"Saudi Arabia": true,

	// Pacific
	"Guam":             true,
	"American Samoa":   true,
	"Marshall Islands": true,
	"Micronesia":       true,
	"Palau":            true,
}
