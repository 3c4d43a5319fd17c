package audioio

import "math"

// Resample converts samples from srcRate to dstRate using Catmull-Rom cubic
// interpolation. Returns the input untouched when the rates already match.
func Resample(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(math.Round(float64(len(samples)) * float64(dstRate) / float64(srcRate)))
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float64, outLen)
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx > last {
			idx = last
		}
		frac := pos - float64(idx)
		y0 := samples[clampIndex(idx-1, last)]
		y1 := samples[idx]
		y2 := samples[clampIndex(idx+1, last)]
		y3 := samples[clampIndex(idx+2, last)]
		out[i] = cubicInterpolate(y0, y1, y2, y3, frac)
	}
	return out
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// cubicInterpolate evaluates the Catmull-Rom spline through four consecutive
// samples at fractional position x in [0, 1] between y1 and y2.
func cubicInterpolate(y0, y1, y2, y3, x float64) float64 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
