// Package cli holds the styled console surface of beatscan: the colour
// palette, the error and version printers, and the kong help printer.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Colour palette. One accent for emphasis, muted gray for labels.
var (
	accentColor = lipgloss.Color("#FF2D55") // beatscan red
	dimColor    = lipgloss.Color("#888888")
	textColor   = lipgloss.Color("#FFFFFF")
)

var (
	// TitleStyle renders the tool name in banners.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	// LabelStyle and ValueStyle render key-value pairs in banners.
	LabelStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	errorPrefixStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)
)

// PrintError reports a failure of the tool itself on stderr. The output is
// a single line; the process is expected to exit 1 right after.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorPrefixStyle.Render("Error:"), message)
}

// PrintFFmpegError reports a failure raised inside the FFmpeg layer (open,
// decode, filter). These are prefixed separately so a user can tell a codec
// problem from a beatscan problem.
func PrintFFmpegError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorPrefixStyle.Render("FFmpeg error:"), message)
}

// PrintVersion prints the version banner.
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Beatscan 🥁"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Version:"), ValueStyle.Render(version))
}
