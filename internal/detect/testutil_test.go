package detect

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// testTrackOptions configures the synthetic WAV track to generate
type testTrackOptions struct {
	DurationSecs float64   // Total duration in seconds (default: 4.0)
	SampleRate   int       // Sample rate (default: 44100)
	HitTimes     []float64 // Onset times of percussive hits in seconds
	HitFreq      float64   // Hit tone frequency in Hz (default: 2000)
	HitLevel     float64   // Hit level in dBFS (default: -3.0)
	HitSecs      float64   // Hit duration in seconds (default: 0.03)
	NoiseLevel   float64   // Noise floor in dBFS (0 = digital silence)
	HumFreq      float64   // Continuous hum frequency in Hz (0 = no hum)
	HumLevel     float64   // Hum level in dBFS
}

// generateTrack writes a synthetic mono WAV of percussive hits over an
// optional noise floor and hum tone, and returns its path. The file lives
// under t.TempDir() and is removed with it.
func generateTrack(t *testing.T, opts testTrackOptions) string {
	t.Helper()

	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 4.0
	}
	if opts.HitFreq == 0 {
		opts.HitFreq = 2000
	}
	if opts.HitLevel == 0 {
		opts.HitLevel = -3.0
	}
	if opts.HitSecs == 0 {
		opts.HitSecs = 0.03
	}

	totalSamples := int(opts.DurationSecs * float64(opts.SampleRate))
	buf := make([]float64, totalSamples)

	// Noise floor first. Deterministic LCG so runs are reproducible.
	if opts.NoiseLevel < 0 {
		noiseAmp := math.Pow(10.0, opts.NoiseLevel/20.0)
		rngState := uint32(12345)
		for i := range buf {
			rngState = rngState*1664525 + 1013904223
			buf[i] = noiseAmp * ((float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0)
		}
	}

	// Continuous hum tone, for exercising the notch chain.
	if opts.HumFreq > 0 && opts.HumLevel < 0 {
		humAmp := math.Pow(10.0, opts.HumLevel/20.0)
		for i := range buf {
			buf[i] += humAmp * math.Sin(2.0*math.Pi*opts.HumFreq*float64(i)/float64(opts.SampleRate))
		}
	}

	// Percussive hits: short sine bursts, loud against the floor.
	hitAmp := math.Pow(10.0, opts.HitLevel/20.0)
	hitLen := int(opts.HitSecs * float64(opts.SampleRate))
	for _, ht := range opts.HitTimes {
		start := int(ht * float64(opts.SampleRate))
		for i := 0; i < hitLen && start+i < totalSamples; i++ {
			buf[start+i] += hitAmp * math.Sin(2.0*math.Pi*opts.HitFreq*float64(i)/float64(opts.SampleRate))
		}
	}

	samples := make([]int16, totalSamples)
	for i, v := range buf {
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		samples[i] = int16(v * math.MaxInt16)
	}

	return writeTrack(t, samples, opts.SampleRate)
}

// gridTimes returns n hit times spaced evenly from zero.
func gridTimes(n int, spacing float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * spacing
	}
	return times
}

// writeTrack writes samples as a mono 16-bit PCM WAV under t.TempDir() and
// returns its path.
func writeTrack(t *testing.T, samples []int16, sampleRate int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "track.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test WAV: %v", err)
	}
	if err := writeWAV(f, samples, sampleRate); err != nil {
		f.Close()
		t.Fatalf("failed to write test WAV: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close test WAV: %v", err)
	}
	return path
}

// writeWAV writes a mono 16-bit PCM WAV stream.
func writeWAV(w io.Writer, samples []int16, sampleRate int) error {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)

	dataSize := len(samples) * 2

	// Canonical 44-byte RIFF/WAVE header. Writes to the buffer cannot fail.
	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	binary.Write(&hdr, binary.LittleEndian, uint32(36+dataSize))
	hdr.WriteString("WAVE")
	hdr.WriteString("fmt ")
	binary.Write(&hdr, binary.LittleEndian, uint32(16)) // fmt chunk size
	binary.Write(&hdr, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&hdr, binary.LittleEndian, uint16(numChannels))
	binary.Write(&hdr, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&hdr, binary.LittleEndian, uint32(sampleRate*numChannels*bitsPerSample/8))
	binary.Write(&hdr, binary.LittleEndian, uint16(numChannels*bitsPerSample/8))
	binary.Write(&hdr, binary.LittleEndian, uint16(bitsPerSample))
	hdr.WriteString("data")
	binary.Write(&hdr, binary.LittleEndian, uint32(dataSize))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, samples)
}
