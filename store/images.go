package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"gonum.org/v1/gonum/mat"

	"github.com/tasercake/beatbrain/pathing"
)

// SaveImages writes each chunk as one float TIFF named after its zero-based
// index ("0.tiff", "1.tiff", ...). The target directory is created if absent.
// With flip set each array is inverted vertically before writing; LoadImages
// applies the same flip on read, so the stored orientation never leaks into
// the data. With half set samples are stored as 16-bit half floats.
func SaveImages(dir string, chunkSeq []*mat.Dense, flip, half bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save images: %w", err)
	}
	for i, chunk := range chunkSeq {
		if flip {
			chunk = flipVertical(chunk)
		}
		path := filepath.Join(dir, fmt.Sprintf("%d.tiff", i))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("save images: %w", err)
		}
		if err := encodeTIFF(f, chunk, half); err != nil {
			f.Close()
			return fmt.Errorf("save images: encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("save images: %w", err)
		}
	}
	return nil
}

// LoadImages reads an image sequence from a directory (or a single image
// file), in natural file-name order, with the symmetric vertical flip. The
// concat/stack modes behave as in LoadArrays.
func LoadImages(path string, flip, concatenate, stack bool) ([]*mat.Dense, error) {
	if concatenate && stack {
		return nil, ErrConcatAndStack
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load images %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("load images %s: %w", path, err)
		}
		for _, e := range entries {
			if !e.IsDir() && pathing.HasKind(e.Name(), pathing.KindImages) {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
		sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
	} else {
		files = []string{path}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("load images %s: %w", path, ErrNoData)
	}

	out := make([]*mat.Dense, 0, len(files))
	for _, file := range files {
		m, err := loadImage(file)
		if err != nil {
			return nil, err
		}
		if flip {
			m = flipVertical(m)
		}
		out = append(out, m)
	}
	return finishLoad(out, concatenate, stack)
}

func loadImage(path string) (*mat.Dense, error) {
	if strings.EqualFold(filepath.Ext(path), ".exr") {
		// EXR is registered for classification but this codec reads and
		// writes the TIFF profile only.
		return nil, fmt.Errorf("load image %s: EXR decoding is not supported", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	defer f.Close()
	m, err := decodeTIFF(f)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return m, nil
}

func flipVertical(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(rows-i-1, j, m.At(i, j))
		}
	}
	return out
}
