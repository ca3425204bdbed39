package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help rendering styles, derived from the package palette.
var (
	helpDescStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	helpTermStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AFAF"))

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(dimColor).
				Italic(true)
)

// helpExamples are the worked invocations shown at the bottom of the help
// screen: term first, explanation second.
var helpExamples = [][2]string{
	{"beatscan track.flac", "analyze with automatic method selection"},
	{"beatscan -m energy -s 0.7 track.mp3", "energy method, raised sensitivity"},
	{"beatscan -b 120-180 -i 0.25 set.wav", "constrain the tempo search"},
	{"beatscan --export= track.flac", "write track.beatmap.csv next to the input"},
}

// helpEntry is one aligned term/description row in a help section.
type helpEntry struct {
	term string
	desc string
}

// StyledHelpPrinter returns a kong help printer that renders the beatscan
// help screen: usage, arguments, flags with their defaults, and worked
// examples, all through the package palette.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(TitleStyle.Render("Beatscan 🥁"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Beat and tempo detection for audio files"))
		sb.WriteString("\n\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString(fmt.Sprintf("\n  %s [flags] <input>\n", ctx.Model.Name))

		writeHelpSection(&sb, "Arguments:", argumentEntries(ctx))
		writeHelpSection(&sb, "Flags:", flagEntries(ctx))

		examples := make([]helpEntry, len(helpExamples))
		for i, ex := range helpExamples {
			examples[i] = helpEntry{term: ex[0], desc: ex[1]}
		}
		writeHelpSection(&sb, "Examples:", examples)

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

// writeHelpSection renders one help section with the term column padded to
// a common width. Terms are padded before styling so the ANSI escapes do
// not throw the alignment off.
func writeHelpSection(sb *strings.Builder, heading string, entries []helpEntry) {
	if len(entries) == 0 {
		return
	}

	width := 0
	for _, e := range entries {
		if len(e.term) > width {
			width = len(e.term)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(heading))
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(helpTermStyle.Render(fmt.Sprintf("%-*s", width, e.term)))
		if e.desc != "" {
			sb.WriteString("  ")
			sb.WriteString(e.desc)
		}
		sb.WriteString("\n")
	}
}

func argumentEntries(ctx *kong.Context) []helpEntry {
	var entries []helpEntry
	for _, arg := range ctx.Model.Node.Positional {
		entries = append(entries, helpEntry{term: arg.Summary(), desc: arg.Help})
	}
	return entries
}

func flagEntries(ctx *kong.Context) []helpEntry {
	entries := []helpEntry{{term: "-h, --help", desc: "Show context-sensitive help."}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" {
			continue
		}

		term := "    --" + f.Name
		if f.Short != 0 {
			term = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			term += "=" + f.PlaceHolder
		}

		desc := f.Help
		if !f.IsBool() && f.HasDefault {
			desc += " " + helpDefaultStyle.Render("(default: "+f.Default+")")
		}

		entries = append(entries, helpEntry{term: term, desc: desc})
	}
	return entries
}
