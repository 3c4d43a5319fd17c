package mel

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// amin floors power values before taking logarithms.
const amin = 1e-10

// Normalize converts spec, in place, from power to a decibel scale referenced
// to its own peak, clips values more than TopDB below that peak, and rescales
// into [0, 1]: dB/TopDB + 1.
func (m *Mel) Normalize(spec *mat.Dense) {
	rows, cols := spec.Dims()
	ref := amin
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := spec.At(i, j); v > ref {
				ref = v
			}
		}
	}
	refDB := 10 * math.Log10(ref)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := spec.At(i, j)
			if p < amin {
				p = amin
			}
			dB := 10*math.Log10(p) - refDB
			if dB < -m.TopDB {
				dB = -m.TopDB
			}
			spec.Set(i, j, dB/m.TopDB+1)
		}
	}
}

// Denormalize reverses Normalize in place, except that the power scale is
// re-established against the fixed ReferenceAmplitude rather than the
// original peak, which is not stored. The asymmetry is part of the format:
// a save/load cycle recovers the spectrogram only up to that reference.
func (m *Mel) Denormalize(spec *mat.Dense) {
	rows, cols := spec.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dB := (spec.At(i, j) - 1) * m.TopDB
			spec.Set(i, j, m.ReferenceAmplitude*math.Pow(10, dB/10))
		}
	}
}
