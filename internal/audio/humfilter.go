package audio

import (
	"errors"
	"fmt"
	"strings"

	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/beatscan/beatscan/internal/mains"
)

// Hum notch parameters
const (
	humHarmonics = 4    // fundamental + 3 harmonics (50, 100, 150, 200 Hz on a 50Hz grid)
	humNotchQ    = 30.0 // Q factor (higher = narrower notch, less impact on the music)
)

// HumFilterSpec builds an FFmpeg filter chain that notches out mains hum at
// the grid fundamental and its harmonics. Hum rides under the low end where
// energy-based beat detection listens, so a hummy recording benefits from
// stripping it before analysis.
func HumFilterSpec(fundamental float64) string {
	var filters []string
	for _, freq := range mains.Harmonics(fundamental, humHarmonics) {
		filters = append(filters, fmt.Sprintf(
			"bandreject=f=%.0f:width_type=q:width=%.1f",
			freq, humNotchQ,
		))
	}
	return strings.Join(filters, ",")
}

// FilterReader runs decoded frames through an FFmpeg filter graph before
// handing them on, so the analyzer sees the filtered signal. It wraps a
// Reader rather than a bare FrameReader because the graph is built from
// the decoder context.
type FilterReader struct {
	reader   *Reader
	graph    *ffmpeg.AVFilterGraph
	srcCtx   *ffmpeg.AVFilterContext
	sinkCtx  *ffmpeg.AVFilterContext
	filtered *ffmpeg.AVFrame
	flushed  bool
	done     bool
}

// NewFilterReader wraps reader with the given filter specification.
// Close the FilterReader after use; the underlying reader is still owned
// by the caller.
func NewFilterReader(reader *Reader, filterSpec string) (*FilterReader, error) {
	graph, srcCtx, sinkCtx, err := newFilterGraph(reader.DecoderContext(), filterSpec)
	if err != nil {
		return nil, err
	}
	return &FilterReader{
		reader:   reader,
		graph:    graph,
		srcCtx:   srcCtx,
		sinkCtx:  sinkCtx,
		filtered: ffmpeg.AVFrameAlloc(),
	}, nil
}

// ReadFrame returns the next filtered frame, or nil at end of stream.
// The returned frame is only valid until the next call.
func (f *FilterReader) ReadFrame() (*ffmpeg.AVFrame, error) {
	if f.done {
		return nil, nil
	}

	for {
		// Drain the sink before feeding more input
		ffmpeg.AVFrameUnref(f.filtered)
		if _, err := ffmpeg.AVBuffersinkGetFrame(f.sinkCtx, f.filtered); err == nil {
			return f.filtered, nil
		} else if errors.Is(err, ffmpeg.AVErrorEOF) {
			f.done = true
			return nil, nil
		} else if !errors.Is(err, ffmpeg.EAgain) {
			return nil, fmt.Errorf("failed to get filtered frame: %w", err)
		}

		if f.flushed {
			// Sink reported EAgain after flush; nothing left
			f.done = true
			return nil, nil
		}

		frame, err := f.reader.ReadFrame()
		if err != nil {
			return nil, err
		}
		if frame == nil {
			// Source exhausted, flush the graph and drain what remains
			if _, err := ffmpeg.AVBuffersrcAddFrameFlags(f.srcCtx, nil, 0); err != nil {
				return nil, fmt.Errorf("failed to flush filter: %w", err)
			}
			f.flushed = true
			continue
		}

		if _, err := ffmpeg.AVBuffersrcAddFrameFlags(f.srcCtx, frame, 0); err != nil {
			return nil, fmt.Errorf("failed to add frame to filter: %w", err)
		}
	}
}

// Close releases the filter graph and working frame
func (f *FilterReader) Close() {
	if f.filtered != nil {
		ffmpeg.AVFrameFree(&f.filtered)
	}
	if f.graph != nil {
		ffmpeg.AVFilterGraphFree(&f.graph)
	}
}
