package mel

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	melBreakFrequencyHertz = 700.0
	melHighFrequencyQ      = 1127.0
)

func hzToMel(hz float64) float64 {
	return melHighFrequencyQ * math.Log(1.0+hz/melBreakFrequencyHertz)
}

func melToHz(melValue float64) float64 {
	return melBreakFrequencyHertz * (math.Exp(melValue/melHighFrequencyQ) - 1.0)
}

// filterbank builds the MelBins x bins triangular filter matrix mapping
// linear FFT bins onto the mel scale.
func (m *Mel) filterbank(bins int) *mat.Dense {
	return m.filterbankN(m.MelBins, bins)
}

func (m *Mel) filterbankN(melBins, bins int) *mat.Dense {
	fmin := m.MelFmin
	fmax := m.MelFmax
	if fmax <= 0 {
		fmax = float64(m.SampleRate) / 2
	}

	// MelBins+2 equally spaced points on the mel axis: each filter rises from
	// point i to i+1 and falls to i+2.
	melLo, melHi := hzToMel(fmin), hzToMel(fmax)
	edges := make([]float64, melBins+2)
	for i := range edges {
		edges[i] = melToHz(melLo + (melHi-melLo)*float64(i)/float64(melBins+1))
	}

	fb := mat.NewDense(melBins, bins, nil)
	binHz := float64(m.SampleRate) / float64(m.FFTSize)
	for i := 0; i < melBins; i++ {
		lo, center, hi := edges[i], edges[i+1], edges[i+2]
		for k := 0; k < bins; k++ {
			f := float64(k) * binHz
			var w float64
			switch {
			case f < lo || f > hi:
				w = 0
			case f <= center:
				if center > lo {
					w = (f - lo) / (center - lo)
				}
			default:
				if hi > center {
					w = (hi - f) / (hi - center)
				}
			}
			fb.Set(i, k, w)
		}
	}
	return fb
}

// melToLinear approximates the inverse filterbank projection and converts
// power back to magnitude. Each linear bin takes the weighted average of the
// mel bins covering it.
func (m *Mel) melToLinear(spec *mat.Dense) *mat.Dense {
	melBins, frames := spec.Dims()
	bins := m.FFTSize/2 + 1
	fb := m.filterbankN(melBins, bins)

	linear := mat.NewDense(bins, frames, nil)
	for k := 0; k < bins; k++ {
		var norm float64
		for i := 0; i < melBins; i++ {
			norm += fb.At(i, k)
		}
		if norm == 0 {
			continue
		}
		for t := 0; t < frames; t++ {
			var sum float64
			for i := 0; i < melBins; i++ {
				sum += fb.At(i, k) * spec.At(i, t)
			}
			power := sum / norm
			if power < 0 {
				power = 0
			}
			linear.Set(k, t, math.Sqrt(power))
		}
	}
	return linear
}
