package mel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func sineWave(freq float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestToSpectrogramShape(t *testing.T) {
	t.Parallel()

	m := NewMel()
	samples := sineWave(440, m.SampleRate, m.SampleRate) // 1 second
	spec := m.ToSpectrogram(samples, false)

	rows, cols := spec.Dims()
	if rows != m.MelBins {
		t.Errorf("spectrogram has %d rows, want %d mel bins", rows, m.MelBins)
	}
	wantCols := len(samples)/m.HopLength + 1
	if cols < wantCols-1 || cols > wantCols+1 {
		t.Errorf("spectrogram has %d frames, want about %d", cols, wantCols)
	}
}

func TestToSpectrogramNonNegative(t *testing.T) {
	t.Parallel()

	m := NewMel()
	spec := m.ToSpectrogram(sineWave(440, m.SampleRate, 4*m.FFTSize), false)
	rows, cols := spec.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if spec.At(i, j) < 0 {
				t.Fatalf("power at (%d,%d) = %v, want >= 0", i, j, spec.At(i, j))
			}
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	t.Parallel()

	m := NewMel()
	spec := m.ToSpectrogram(sineWave(1000, m.SampleRate, 8*m.HopLength), false)
	m.Normalize(spec)

	rows, cols := spec.Dims()
	const tol = 1e-9
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := spec.At(i, j)
			if v < -tol || v > 1+tol {
				t.Fatalf("normalized value at (%d,%d) = %v, want within [0,1]", i, j, v)
			}
		}
	}
}

// Denormalize deliberately rescales against the fixed reference amplitude
// rather than the original peak: denorm(norm(p)) == p * ref / max(p) for
// every unclipped cell.
func TestDenormalizeUsesFixedReference(t *testing.T) {
	t.Parallel()

	m := NewMel()
	orig := mat.NewDense(2, 3, []float64{1, 2, 4, 8, 16, 32})
	spec := mat.DenseCopyOf(orig)
	m.Normalize(spec)
	m.Denormalize(spec)

	scale := m.ReferenceAmplitude / 32.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			want := orig.At(i, j) * scale
			got := spec.At(i, j)
			if math.Abs(got-want)/want > 1e-9 {
				t.Errorf("round trip at (%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestNormalizeClipsToTopDB(t *testing.T) {
	t.Parallel()

	m := NewMel()
	// 200 dB below peak, far outside the retained range.
	spec := mat.NewDense(1, 2, []float64{1, 1e-20})
	m.Normalize(spec)

	if got := spec.At(0, 0); math.Abs(got-1) > 1e-12 {
		t.Errorf("peak normalized to %v, want 1", got)
	}
	if got := spec.At(0, 1); math.Abs(got) > 1e-12 {
		t.Errorf("floor normalized to %v, want 0 (clipped at topDb)", got)
	}
}

func TestToAudioLength(t *testing.T) {
	t.Parallel()

	m := NewMel()
	m.GriffinLimIterations = 2 // keep the test fast
	n := 4 * m.FFTSize
	spec := m.ToSpectrogram(sineWave(440, m.SampleRate, n), true)
	audio := m.ToAudio(spec, true)

	if len(audio) == 0 {
		t.Fatal("ToAudio() returned no samples")
	}
	// Reconstruction spans the framed length, within one hop of the input.
	if len(audio) < n-m.FFTSize || len(audio) > n+m.FFTSize {
		t.Errorf("reconstructed %d samples from %d input samples", len(audio), n)
	}
}

func TestToAudioDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	m := NewMel()
	m.GriffinLimIterations = 0
	spec := m.ToSpectrogram(sineWave(440, m.SampleRate, 2*m.FFTSize), true)
	before := mat.DenseCopyOf(spec)
	m.ToAudio(spec, true)
	if !mat.Equal(spec, before) {
		t.Error("ToAudio(denormalize=true) mutated the caller's spectrogram")
	}
}
