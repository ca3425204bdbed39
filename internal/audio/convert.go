package audio

import (
	"fmt"
	"unsafe"

	ffmpeg "github.com/csnewman/ffmpeg-go"
)

// Normalization divisors for integer sample formats
const (
	s16Scale = 32768.0
	s32Scale = 2147483648.0
)

// frameSamples converts a decoded frame to interleaved float32 samples
// normalized to -1.0..1.0. Packed formats are copied in storage order;
// planar formats interleave one plane per channel. The returned slice is
// freshly allocated and stays valid after the frame is reused.
func frameSamples(frame *ffmpeg.AVFrame) ([]float32, error) {
	nbSamples := int(frame.NbSamples())
	nbChannels := frame.ChLayout().NbChannels()
	if nbSamples == 0 || nbChannels == 0 {
		return nil, nil
	}

	data := frame.Data().Get(0)
	if data == nil {
		return nil, fmt.Errorf("frame has no sample data")
	}

	out := make([]float32, nbSamples*nbChannels)

	switch ffmpeg.AVSampleFormat(frame.Format()) {
	case ffmpeg.AVSampleFmtS16:
		samples := unsafe.Slice((*int16)(data), len(out))
		for i, s := range samples {
			out[i] = float32(s) / s16Scale
		}

	case ffmpeg.AVSampleFmtS16P:
		for ch := 0; ch < nbChannels; ch++ {
			plane := frame.Data().Get(uintptr(ch))
			if plane == nil {
				return nil, fmt.Errorf("frame has no sample data for channel %d", ch)
			}
			samples := unsafe.Slice((*int16)(plane), nbSamples)
			for i, s := range samples {
				out[i*nbChannels+ch] = float32(s) / s16Scale
			}
		}

	case ffmpeg.AVSampleFmtFlt:
		samples := unsafe.Slice((*float32)(data), len(out))
		copy(out, samples)

	case ffmpeg.AVSampleFmtFltp:
		for ch := 0; ch < nbChannels; ch++ {
			plane := frame.Data().Get(uintptr(ch))
			if plane == nil {
				return nil, fmt.Errorf("frame has no sample data for channel %d", ch)
			}
			samples := unsafe.Slice((*float32)(plane), nbSamples)
			for i, s := range samples {
				out[i*nbChannels+ch] = s
			}
		}

	case ffmpeg.AVSampleFmtS32:
		samples := unsafe.Slice((*int32)(data), len(out))
		for i, s := range samples {
			out[i] = float32(float64(s) / s32Scale)
		}

	case ffmpeg.AVSampleFmtS32P:
		for ch := 0; ch < nbChannels; ch++ {
			plane := frame.Data().Get(uintptr(ch))
			if plane == nil {
				return nil, fmt.Errorf("frame has no sample data for channel %d", ch)
			}
			samples := unsafe.Slice((*int32)(plane), nbSamples)
			for i, s := range samples {
				out[i*nbChannels+ch] = float32(float64(s) / s32Scale)
			}
		}

	default:
		name := ffmpeg.AVGetSampleFmtName(ffmpeg.AVSampleFormat(frame.Format()))
		return nil, fmt.Errorf("unsupported sample format: %s", name.String())
	}

	return out, nil
}
