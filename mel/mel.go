package mel

import (
	"github.com/r9y9/gossp/stft"
	"gonum.org/v1/gonum/mat"
)

// Mel holds the configuration for spectrogram generation and inversion. The
// value is immutable for the duration of a call; distinct configurations can
// be used concurrently.
type Mel struct {
	SampleRate int
	FFTSize    int
	HopLength  int
	MelBins    int
	// MelFmin and MelFmax bound the filterbank frequency range; a zero
	// MelFmax means SampleRate/2.
	MelFmin float64
	MelFmax float64

	// TopDB is the dynamic range below peak power kept by Normalize.
	TopDB float64
	// ReferenceAmplitude is the fixed power reference used by Denormalize in
	// place of the original peak.
	ReferenceAmplitude float64

	GriffinLimIterations int
}

// NewMel creates a Mel instance with default values.
func NewMel() *Mel {
	return &Mel{
		SampleRate:           22050,
		FFTSize:              2048,
		HopLength:            512,
		MelBins:              128,
		TopDB:                80,
		ReferenceAmplitude:   32768,
		GriffinLimIterations: 32,
	}
}

// ToSpectrogram computes the mel power spectrogram of a mono sample vector.
// Rows are mel bins, columns are time frames; the input is zero-padded by
// half a window on both ends, so n samples yield n/hop+1 frames. With
// normalize set the result is log-normalized into [0, 1].
func (m *Mel) ToSpectrogram(samples []float64, normalize bool) *mat.Dense {
	pad := m.FFTSize / 2
	buf := make([]float64, len(samples)+2*pad)
	copy(buf[pad:], samples)

	s := stft.New(m.HopLength, m.FFTSize)
	spectrum := s.STFT(buf)

	bins := m.FFTSize/2 + 1
	power := mat.NewDense(bins, len(spectrum), nil)
	for t := range spectrum {
		for k := 0; k < bins; k++ {
			v := spectrum[t][k]
			power.Set(k, t, real(v)*real(v)+imag(v)*imag(v))
		}
	}

	var spec mat.Dense
	spec.Mul(m.filterbank(bins), power)

	if normalize {
		m.Normalize(&spec)
	}
	return &spec
}

// ToAudio reconstructs a waveform from a mel power spectrogram. With
// denormalize set the normalization is reversed first, against the fixed
// ReferenceAmplitude. The spectrogram is mapped back to linear frequencies
// through the transposed filterbank and the phase is estimated with
// GriffinLimIterations rounds of Griffin-Lim.
func (m *Mel) ToAudio(spec *mat.Dense, denormalize bool) []float64 {
	if denormalize {
		spec = mat.DenseCopyOf(spec)
		m.Denormalize(spec)
	}
	magnitude := m.melToLinear(spec)
	return m.griffinLim(magnitude)
}
