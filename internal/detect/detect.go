// Package detect orchestrates beat analysis of one audio file: open and
// decode through FFmpeg, optionally notch out mains hum, report progress,
// and run the detection core over the decoded frames.
package detect

import (
	"errors"

	"github.com/beatscan/beatscan/internal/audio"
	"github.com/beatscan/beatscan/internal/beat"
	"github.com/beatscan/beatscan/internal/mains"
)

// Options configures one file analysis.
type Options struct {
	// Params drives the detection core.
	Params beat.Params

	// HumFilter runs the decoded audio through a mains-hum notch chain
	// before analysis.
	HumFilter bool

	// MainsHz overrides the hum fundamental. Zero means detect it from
	// the local timezone.
	MainsHz float64

	// OnOpen fires once the file is open, before any decoding, with the
	// file facts and the method the analysis will run with.
	OnOpen func(meta *audio.Metadata, method beat.Method)

	// Progress fires periodically during decoding with the decoded time
	// and the container duration in seconds (total is 0 when the
	// container does not report one), and once more when decoding ends.
	Progress func(processed, total float64)
}

// Result bundles the analysis with the file facts it was made from.
type Result struct {
	Analysis *beat.Analysis
	Metadata *audio.Metadata
	Method   beat.Method
}

// FFmpegError marks a failure reported by the FFmpeg layer (open, decode,
// filter), as opposed to a failure of beatscan itself. The CLI prefixes
// the two differently.
type FFmpegError struct {
	Err error
}

func (e *FFmpegError) Error() string { return e.Err.Error() }

func (e *FFmpegError) Unwrap() error { return e.Err }

// File opens path, decodes its first audio stream, and runs beat detection
// over it. The FFmpeg resources live exactly as long as the call.
func File(path string, opts Options) (*Result, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}

	reader, meta, err := audio.Open(path)
	if err != nil {
		return nil, &FFmpegError{Err: err}
	}
	defer reader.Close()

	method := opts.Params.Resolve(meta.SampleRate)
	if opts.OnOpen != nil {
		opts.OnOpen(meta, method)
	}

	var frames audio.FrameReader = reader
	if opts.HumFilter {
		fundamental := opts.MainsHz
		if fundamental == 0 {
			fundamental = mains.Fundamental()
		}
		filtered, err := audio.NewFilterReader(reader, audio.HumFilterSpec(fundamental))
		if err != nil {
			return nil, &FFmpegError{Err: err}
		}
		defer filtered.Close()
		frames = filtered
	}

	var src beat.FrameSource = audio.NewSource(frames, meta.SampleRate)
	var progress *progressSource
	if opts.Progress != nil {
		progress = &progressSource{
			inner:  src,
			rate:   meta.SampleRate,
			total:  meta.Duration,
			report: opts.Progress,
		}
		src = progress
	}

	analysis, err := beat.Analyze(src, opts.Params)
	if err != nil {
		if errors.Is(err, beat.ErrNoAudio) {
			// The file opened but held no decodable audio; that is a
			// beatscan-level failure, not an FFmpeg one.
			return nil, err
		}
		return nil, &FFmpegError{Err: err}
	}
	if progress != nil {
		progress.finish()
	}

	return &Result{Analysis: analysis, Metadata: meta, Method: method}, nil
}
