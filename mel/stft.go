package mel

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/r9y9/gossp/stft"
	"gonum.org/v1/gonum/mat"
)

// griffinLim reconstructs a time-domain signal from a linear magnitude
// spectrogram (rows FFTSize/2+1, columns frames) by iteratively re-estimating
// phase: synthesize with the current phases, re-analyze, keep the measured
// phases and the target magnitudes.
func (m *Mel) griffinLim(magnitude *mat.Dense) []float64 {
	bins, frames := magnitude.Dims()
	s := stft.New(m.HopLength, m.FFTSize)

	// Zero-phase initialization with Hermitian symmetry, so every synthesis
	// stays real-valued.
	spectrogram := make([][]complex128, frames)
	for t := 0; t < frames; t++ {
		spectrogram[t] = make([]complex128, m.FFTSize)
		for k := 0; k < bins; k++ {
			c := complex(magnitude.At(k, t), 0)
			spectrogram[t][k] = c
			if k > 0 && k < m.FFTSize-k {
				spectrogram[t][m.FFTSize-k] = c
			}
		}
	}

	signal := overlapAdd(s, spectrogram)

	for iter := 0; iter < m.GriffinLimIterations; iter++ {
		for t := 0; t < frames; t++ {
			frame := make([]float64, m.FFTSize)
			for j := 0; j < m.FFTSize; j++ {
				if pos := t*s.FrameShift + j; pos < len(signal) {
					frame[j] = signal[pos] * s.Window[j]
				}
			}
			analyzed := fft.FFTReal(frame)
			for j := range analyzed {
				target := cmplx.Abs(spectrogram[t][j])
				spectrogram[t][j] = cmplx.Rect(target, cmplx.Phase(analyzed[j]))
			}
		}
		signal = overlapAdd(s, spectrogram)
	}

	// Crop the half-window centering pad added by ToSpectrogram.
	pad := m.FFTSize / 2
	if len(signal) <= 2*pad {
		return nil
	}
	return signal[pad : len(signal)-pad]
}

// overlapAdd synthesizes a signal from full-resolution complex frames,
// normalizing by the accumulated window envelope.
func overlapAdd(s *stft.STFT, spectrogram [][]complex128) []float64 {
	if len(spectrogram) == 0 {
		return nil
	}
	frameLen := len(spectrogram[0])
	numFrames := len(spectrogram)
	signal := make([]float64, frameLen+(numFrames-1)*s.FrameShift)
	windowSum := make([]float64, len(signal))

	for t := 0; t < numFrames; t++ {
		buf := fft.IFFT(spectrogram[t])
		for j := 0; j < frameLen; j++ {
			pos := t*s.FrameShift + j
			signal[pos] += real(buf[j]) * s.Window[j]
			windowSum[pos] += s.Window[j]
		}
	}
	for i := range signal {
		if windowSum[i] != 0 {
			signal[i] /= windowSum[i]
		}
	}
	return signal
}
