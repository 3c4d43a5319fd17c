package pipeline

import (
	"runtime"

	"github.com/tasercake/beatbrain/mel"
)

// Config carries every per-call parameter of a conversion batch. It is a
// plain value: callers copy and adjust it per run, and a Pipeline never
// mutates it, so concurrent batches with different settings are safe.
type Config struct {
	// SampleRate to resample decoded audio to; 0 keeps each file's native
	// rate.
	SampleRate int
	// Offset and Duration bound the audio read window, in seconds.
	Offset   float64
	Duration float64

	FFTSize   int
	HopLength int
	MelBins   int

	// ChunkSize is the chunk width in time frames.
	ChunkSize int
	// Truncate drops a trailing partial chunk; unset pads it with zeros.
	Truncate bool

	// Flip selects the vertical storage orientation of spectrogram images.
	Flip bool
	// HalfPrecision stores image samples as 16-bit half floats.
	HalfPrecision bool

	// Skip drops the first N enumerated items (resume after a partial run).
	Skip int

	// TopDB is the normalization dynamic range; ReferenceAmplitude the fixed
	// denormalization reference.
	TopDB              float64
	ReferenceAmplitude float64

	// AudioFormat is the output container for audio targets.
	AudioFormat string

	GriffinLimIterations int

	// Compress deflates array-container members.
	Compress bool

	// Workers bounds the pool for parallel batches.
	Workers int
}

// DefaultConfig returns the stock conversion parameters.
func DefaultConfig() Config {
	return Config{
		SampleRate:           22050,
		FFTSize:              2048,
		HopLength:            512,
		MelBins:              128,
		ChunkSize:            64,
		Truncate:             true,
		Flip:                 true,
		TopDB:                80,
		ReferenceAmplitude:   32768,
		AudioFormat:          "wav",
		GriffinLimIterations: 32,
		Compress:             true,
		Workers:              runtime.NumCPU(),
	}
}

// mel builds the transform configuration for samples at the given rate.
func (c Config) mel(sampleRate int) *mel.Mel {
	return &mel.Mel{
		SampleRate:           sampleRate,
		FFTSize:              c.FFTSize,
		HopLength:            c.HopLength,
		MelBins:              c.MelBins,
		TopDB:                c.TopDB,
		ReferenceAmplitude:   c.ReferenceAmplitude,
		GriffinLimIterations: c.GriffinLimIterations,
	}
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
