package audioio

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWav16 writes mono samples as a canonical 16-bit PCM RIFF file. Fixtures
// use 16-bit depth so every decoder path stays on the baseline wav profile.
func writeWav16(t *testing.T, path string, samples []float64, sampleRate int) {
	t.Helper()

	dataLen := len(samples) * 2
	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // mono
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2))
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(s*32767)))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func sine(freq float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestLoadWav(t *testing.T) {
	t.Parallel()

	const rate = 22050
	in := sine(440, rate, rate) // one second
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWav16(t, path, in, rate)

	out, gotRate, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if gotRate != rate {
		t.Errorf("Load() rate = %d, want %d", gotRate, rate)
	}
	if len(out) != len(in) {
		t.Fatalf("Load() returned %d samples, want %d", len(out), len(in))
	}
	for i := range in {
		if diff := math.Abs(out[i] - in[i]); diff > 1e-3 {
			t.Fatalf("sample %d off by %v after 16-bit quantization", i, diff)
		}
	}
}

func TestLoadWindow(t *testing.T) {
	t.Parallel()

	const rate = 8000
	in := make([]float64, 2*rate)
	for i := range in {
		in[i] = float64(i%100) / 200
	}
	path := filepath.Join(t.TempDir(), "ramp.wav")
	writeWav16(t, path, in, rate)

	out, _, err := Load(path, LoadOptions{Offset: 0.5, Duration: 1})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(out) != rate {
		t.Fatalf("windowed load returned %d samples, want %d", len(out), rate)
	}
	// The window starts half a second in.
	if diff := math.Abs(out[0] - in[rate/2]); diff > 1e-3 {
		t.Errorf("window start sample = %v, want %v", out[0], in[rate/2])
	}
}

func TestLoadOffsetPastEnd(t *testing.T) {
	t.Parallel()

	const rate = 8000
	path := filepath.Join(t.TempDir(), "short.wav")
	writeWav16(t, path, sine(440, rate, rate/10), rate)

	out, _, err := Load(path, LoadOptions{Offset: 5})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("offset past the end returned %d samples, want 0", len(out))
	}
}

func TestLoadResamples(t *testing.T) {
	t.Parallel()

	const srcRate = 44100
	const dstRate = 22050
	path := filepath.Join(t.TempDir(), "hi.wav")
	writeWav16(t, path, sine(440, srcRate, srcRate), srcRate)

	out, gotRate, err := Load(path, LoadOptions{SampleRate: dstRate})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if gotRate != dstRate {
		t.Errorf("Load() rate = %d, want %d", gotRate, dstRate)
	}
	if want := dstRate; intAbs(len(out)-want) > 2 {
		t.Errorf("resampled length = %d, want about %d", len(out), want)
	}
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestLoadUnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.aiff")
	if err := os.WriteFile(path, []byte("FORM"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(path, LoadOptions{})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Load() on an unknown extension = %v, want ErrDecode", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("this is not RIFF data"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(path, LoadOptions{})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Load() on corrupt data = %v, want ErrDecode", err)
	}
}

func TestResample(t *testing.T) {
	t.Parallel()

	in := sine(100, 8000, 8000)
	same := Resample(in, 8000, 8000)
	if &same[0] != &in[0] {
		t.Error("matching rates should return the input slice")
	}

	down := Resample(in, 8000, 4000)
	if intAbs(len(down)-4000) > 1 {
		t.Errorf("downsampled length = %d, want about 4000", len(down))
	}
	up := Resample(in, 8000, 16000)
	if intAbs(len(up)-16000) > 1 {
		t.Errorf("upsampled length = %d, want about 16000", len(up))
	}
	// Interpolation stays within the signal's amplitude bounds.
	for i, v := range up {
		if math.Abs(v) > 0.51 {
			t.Fatalf("upsampled sample %d = %v exceeds the input envelope", i, v)
		}
	}
}

func TestSaveWav(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.wav")
	if err := Save(path, sine(440, 22050, 2205), 22050, "wav"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Save() did not create the file: %v", err)
	}
	if info.Size() <= 44 {
		t.Errorf("output holds %d bytes, want a payload past the header", info.Size())
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.mp3")
	err := Save(path, sine(440, 22050, 100), 22050, "mp3")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Save(mp3) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("Save() created a file for a rejected format")
	}
}
