package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/beatscan/beatscan/internal/beat"
)

// stubSource replays fixed-size silent frames and then ends the stream, or
// fails with err once the frames run out when err is set.
type stubSource struct {
	frames    int
	frameSize int
	pos       int
	err       error
}

func (s *stubSource) Next() (*beat.Frame, error) {
	if s.pos >= s.frames {
		return nil, s.err
	}
	s.pos++
	return &beat.Frame{
		Samples:    make([]float32, s.frameSize),
		NbSamples:  s.frameSize,
		Channels:   1,
		SampleRate: 44100,
	}, nil
}

func drainSource(t *testing.T, src beat.FrameSource) error {
	t.Helper()
	for {
		f, err := src.Next()
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
	}
}

func TestProgressSourceReporting(t *testing.T) {
	// 250 frames of 441 samples: reports at frames 100 and 200, then the
	// finish call pins the final decoded time.
	var got [][2]float64
	p := &progressSource{
		inner: &stubSource{frames: 250, frameSize: 441},
		rate:  44100,
		total: 2.5,
		report: func(processed, total float64) {
			got = append(got, [2]float64{processed, total})
		},
	}

	if err := drainSource(t, p); err != nil {
		t.Fatalf("drain: %v", err)
	}
	p.finish()

	want := [][2]float64{{1.0, 2.5}, {2.0, 2.5}, {2.5, 2.5}}
	if len(got) != len(want) {
		t.Fatalf("got %d reports %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if math.Abs(got[i][0]-want[i][0]) > 1e-9 || got[i][1] != want[i][1] {
			t.Errorf("report %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProgressSourceShortStream(t *testing.T) {
	// With fewer frames than one report interval only the finish call
	// reports, carrying whatever decoded time accumulated.
	var got [][2]float64
	p := &progressSource{
		inner: &stubSource{frames: progressInterval - 1, frameSize: 441},
		rate:  44100,
		total: 0, // container reported no duration
		report: func(processed, total float64) {
			got = append(got, [2]float64{processed, total})
		},
	}

	if err := drainSource(t, p); err != nil {
		t.Fatalf("drain: %v", err)
	}
	p.finish()

	if len(got) != 1 {
		t.Fatalf("got %d reports %v, want 1", len(got), got)
	}
	wantProcessed := float64((progressInterval-1)*441) / 44100.0
	if math.Abs(got[0][0]-wantProcessed) > 1e-9 {
		t.Errorf("final processed = %v s, want %v s", got[0][0], wantProcessed)
	}
	if got[0][1] != 0 {
		t.Errorf("final total = %v, want 0", got[0][1])
	}
}

func TestProgressSourceError(t *testing.T) {
	// A source error passes straight through without a report.
	srcErr := errors.New("decoder died")
	reports := 0
	p := &progressSource{
		inner:  &stubSource{frames: 3, frameSize: 441, err: srcErr},
		rate:   44100,
		report: func(processed, total float64) { reports++ },
	}

	if err := drainSource(t, p); !errors.Is(err, srcErr) {
		t.Fatalf("drain error = %v, want %v", err, srcErr)
	}
	if reports != 0 {
		t.Errorf("got %d reports before the error, want 0", reports)
	}
}
