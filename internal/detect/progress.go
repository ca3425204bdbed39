package detect

import "github.com/beatscan/beatscan/internal/beat"

// progressInterval is how many frames pass between progress reports. At
// typical decoder frame sizes this lands every couple of seconds of audio.
const progressInterval = 100

// progressSource decorates a frame source with decoded-time accounting.
// Time is counted from the samples that actually passed through, the same
// clock the analyzer runs on, not from container timestamps.
type progressSource struct {
	inner   beat.FrameSource
	rate    int
	total   float64
	report  func(processed, total float64)
	frames  int
	samples int64
}

func (p *progressSource) Next() (*beat.Frame, error) {
	f, err := p.inner.Next()
	if err != nil || f == nil {
		return f, err
	}
	p.samples += int64(f.NbSamples)
	p.frames++
	if p.frames%progressInterval == 0 {
		p.report(p.processed(), p.total)
	}
	return f, nil
}

func (p *progressSource) processed() float64 {
	return float64(p.samples) / float64(p.rate)
}

// finish reports the final decoded time so the last update always reflects
// the whole stream, whatever the frame count was modulo the interval.
func (p *progressSource) finish() {
	p.report(p.processed(), p.total)
}
