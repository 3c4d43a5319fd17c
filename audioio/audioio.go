package audioio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// ErrDecode marks a source file whose audio payload could not be decoded.
// Batch drivers treat it as an item-local failure: log, skip, continue.
var ErrDecode = errors.New("audio decode failed")

// ErrUnsupportedFormat marks an output format this backend cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported audio output format")

// LoadOptions control decoding. A zero value decodes the whole file at its
// native sample rate.
type LoadOptions struct {
	// SampleRate to resample to; 0 keeps the source rate.
	SampleRate int
	// Offset into the recording, in seconds.
	Offset float64
	// Duration of the window to keep, in seconds; 0 keeps everything after
	// Offset.
	Duration float64
}

// Load decodes path into a mono sample vector in [-1, 1] and reports the
// sample rate of the returned samples.
func Load(path string, opts LoadOptions) ([]float64, int, error) {
	var (
		samples []float64
		rate    int
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		samples, rate, err = decodeWav(path)
	case ".flac":
		samples, rate, err = decodeFlac(path)
	case ".mp3":
		samples, rate, err = decodeMP3(path)
	case ".ogg":
		samples, rate, err = decodeVorbis(path)
	default:
		err = fmt.Errorf("no decoder for %q", ext)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("%w: %s: empty stream", ErrDecode, path)
	}

	samples = window(samples, rate, opts.Offset, opts.Duration)
	if opts.SampleRate > 0 && opts.SampleRate != rate {
		samples = Resample(samples, rate, opts.SampleRate)
		rate = opts.SampleRate
	}
	return samples, rate, nil
}

// window applies the offset/duration read window at the source rate.
func window(samples []float64, rate int, offset, duration float64) []float64 {
	start := int(offset * float64(rate))
	if start >= len(samples) {
		return nil
	}
	if start > 0 {
		samples = samples[start:]
	}
	if duration > 0 {
		if n := int(duration * float64(rate)); n < len(samples) {
			samples = samples[:n]
		}
	}
	return samples
}

// Save writes mono samples as 24-bit PCM in the given container format.
// Only "wav" is supported; anything else is a usage error reported before any
// file is created.
func Save(path string, samples []float64, sampleRate int, format string) error {
	if strings.ToLower(format) != "wav" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	defer f.Close()

	const bitDepth = 24
	const scale = 1 << (bitDepth - 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int(s * (scale - 1))
		data[i] = v
	}

	enc := gowav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	return f.Close()
}
