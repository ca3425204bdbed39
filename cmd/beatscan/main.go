package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/beatscan/beatscan/internal/audio"
	"github.com/beatscan/beatscan/internal/beat"
	"github.com/beatscan/beatscan/internal/cli"
	"github.com/beatscan/beatscan/internal/detect"
	"github.com/beatscan/beatscan/internal/logging"
)

var (
	version = "0.1.0"
)

// verboseBeatLimit is how many beats --verbose lists before truncating.
const verboseBeatLimit = 20

// CLI defines the command-line interface
type CLI struct {
	Method      string  `short:"m" default:"auto" help:"Detection method: auto, energy, spectral or onset"`
	Sensitivity float64 `short:"s" default:"0.5" help:"Detection sensitivity between 0.0 and 1.0"`
	BPMRange    string  `name:"bpm-range" short:"b" default:"60-200" placeholder:"MIN-MAX" help:"Plausible tempo range in BPM"`
	MinInterval float64 `name:"min-interval" short:"i" default:"0.3" placeholder:"SEC" help:"Minimum spacing between beats in seconds"`
	Export      *string `short:"e" placeholder:"FILE" help:"Write a beat map CSV (empty FILE picks <input>.beatmap.csv)"`
	HumFilter   bool    `name:"hum-filter" help:"Notch out mains hum before analysis"`
	MainsHz     float64 `name:"mains-hz" placeholder:"HZ" help:"Mains frequency for the hum filter: 50 or 60 (default: by locale)"`
	Verbose     bool    `short:"v" help:"List detected beats after the results"`
	Version     bool    `help:"Show version information"`
	Input       string  `arg:"" optional:"" help:"Audio file to analyse"`
}

func main() {
	// Keep FFmpeg's own logging quiet so the console output stays ours
	ffmpeg.AVLogSetLevel(ffmpeg.AVLogError)

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("beatscan"),
		kong.Description("Beat and tempo detection for audio files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.Input == "" {
		cli.PrintError("No input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	params, err := detectionParams(cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if cliArgs.MainsHz != 0 && cliArgs.MainsHz != 50 && cliArgs.MainsHz != 60 {
		cli.PrintError(fmt.Sprintf("mains frequency %g Hz not supported, want 50 or 60", cliArgs.MainsHz))
		os.Exit(1)
	}

	progressShown := false
	result, err := detect.File(cliArgs.Input, detect.Options{
		Params: params,
		// Overriding the mains frequency implies filtering with it
		HumFilter: cliArgs.HumFilter || cliArgs.MainsHz != 0,
		MainsHz:   cliArgs.MainsHz,
		OnOpen: func(meta *audio.Metadata, method beat.Method) {
			logging.DisplayHeader(os.Stdout, meta, params, method)
		},
		Progress: func(processed, total float64) {
			logging.DisplayProgress(os.Stdout, processed, total)
			progressShown = true
		},
	})
	if progressShown {
		// End the in-place progress line before anything else prints
		fmt.Print("\n\n")
	}
	if err != nil {
		var ffErr *detect.FFmpegError
		if errors.As(err, &ffErr) {
			cli.PrintFFmpegError(err.Error())
		} else {
			cli.PrintError(err.Error())
		}
		os.Exit(1)
	}

	logging.DisplayResults(os.Stdout, result.Analysis, result.Method)
	logging.DisplayHints(os.Stdout, logging.GenerateHints(result.Analysis, params))

	if cliArgs.Verbose {
		logging.DisplayBeats(os.Stdout, result.Analysis.Beats, verboseBeatLimit)
	}

	if cliArgs.Export != nil {
		exportPath := *cliArgs.Export
		if exportPath == "" {
			exportPath = logging.BeatMapPath(cliArgs.Input)
		}
		if err := logging.SaveBeatMap(exportPath, result.Analysis); err != nil {
			cli.PrintError(fmt.Sprintf("failed to save beat map: %v", err))
			os.Exit(1)
		}
		fmt.Printf("Beat map saved to: %s\n", exportPath)
	}
}

// detectionParams assembles core detection parameters from the parsed flags.
func detectionParams(cliArgs *CLI) (beat.Params, error) {
	method, err := beat.ParseMethod(cliArgs.Method)
	if err != nil {
		return beat.Params{}, err
	}

	minBPM, maxBPM, err := parseBPMRange(cliArgs.BPMRange)
	if err != nil {
		return beat.Params{}, err
	}

	params := beat.Params{
		Method:          method,
		Sensitivity:     cliArgs.Sensitivity,
		MinBPM:          minBPM,
		MaxBPM:          maxBPM,
		MinBeatInterval: cliArgs.MinInterval,
	}
	if err := params.Validate(); err != nil {
		return beat.Params{}, err
	}
	return params, nil
}

// parseBPMRange splits a "MIN-MAX" flag value into its two bounds.
func parseBPMRange(s string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid BPM range %q, want MIN-MAX", s)
	}
	minBPM, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid BPM range minimum %q", lo)
	}
	maxBPM, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid BPM range maximum %q", hi)
	}
	return minBPM, maxBPM, nil
}
