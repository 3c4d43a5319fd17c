package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func constMatrix(rows, cols int, fill float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = fill + float64(i)
	}
	return mat.NewDense(rows, cols, data)
}

func TestSaveLoadArraysRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "take")
	in := []*mat.Dense{constMatrix(4, 6, 0), constMatrix(4, 6, 100), constMatrix(4, 6, 200)}

	for _, compress := range []bool{true, false} {
		if err := SaveArrays(path, in, compress); err != nil {
			t.Fatalf("SaveArrays(compress=%v) error: %v", compress, err)
		}
		out, err := LoadArrays(path+".npz", false, false)
		if err != nil {
			t.Fatalf("LoadArrays(compress=%v) error: %v", compress, err)
		}
		if len(out) != len(in) {
			t.Fatalf("LoadArrays() returned %d arrays, want %d", len(out), len(in))
		}
		for i := range in {
			if !mat.Equal(in[i], out[i]) {
				t.Errorf("array %d changed across the round trip (compress=%v)", i, compress)
			}
		}
	}
}

func TestLoadArraysNaturalKeyOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "long")
	// 12 members so that a lexical sort would put arr_10 and arr_11 before
	// arr_2; each chunk is tagged with its index.
	in := make([]*mat.Dense, 12)
	for i := range in {
		in[i] = mat.NewDense(1, 1, []float64{float64(i)})
	}
	if err := SaveArrays(path, in, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}
	out, err := LoadArrays(path+".npz", false, false)
	if err != nil {
		t.Fatalf("LoadArrays() error: %v", err)
	}
	for i, m := range out {
		if got := m.At(0, 0); got != float64(i) {
			t.Fatalf("member %d holds %v: natural key ordering violated", i, got)
		}
	}
}

func TestLoadArraysConcat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "c")
	in := []*mat.Dense{constMatrix(3, 4, 0), constMatrix(3, 4, 50)}
	if err := SaveArrays(path, in, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}

	out, err := LoadArrays(path+".npz", true, false)
	if err != nil {
		t.Fatalf("LoadArrays(concat) error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("LoadArrays(concat) returned %d arrays, want 1", len(out))
	}
	rows, cols := out[0].Dims()
	if rows != 3 || cols != 8 {
		t.Fatalf("concatenated array is %dx%d, want 3x8", rows, cols)
	}
	if out[0].At(0, 4) != in[1].At(0, 0) {
		t.Error("second chunk not appended along the time axis")
	}
}

func TestLoadArraysStack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "uniform")
	if err := SaveArrays(path, []*mat.Dense{constMatrix(2, 3, 0), constMatrix(2, 3, 10)}, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}
	out, err := LoadArrays(path+".npz", false, true)
	if err != nil {
		t.Fatalf("LoadArrays(stack) error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("LoadArrays(stack) returned %d arrays, want 2", len(out))
	}

	ragged := filepath.Join(dir, "ragged")
	if err := SaveArrays(ragged, []*mat.Dense{constMatrix(2, 3, 0), constMatrix(2, 4, 0)}, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}
	if _, err := LoadArrays(ragged+".npz", false, true); err == nil {
		t.Fatal("LoadArrays(stack) accepted mismatched shapes")
	}
}

func TestLoadArraysConcatAndStack(t *testing.T) {
	t.Parallel()

	_, err := LoadArrays("irrelevant.npz", true, true)
	if !errors.Is(err, ErrConcatAndStack) {
		t.Fatalf("LoadArrays(concat, stack) error = %v, want ErrConcatAndStack", err)
	}
}

func TestLoadArraysMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadArrays(filepath.Join(t.TempDir(), "absent.npz"), false, false); err == nil {
		t.Fatal("LoadArrays() on a missing file succeeded")
	}
}

func TestLoadArraysEmptyContainer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty")
	if err := SaveArrays(path, nil, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}
	_, err := LoadArrays(path+".npz", false, false)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("LoadArrays() on an empty container = %v, want ErrNoData", err)
	}
}

func TestSaveArraysKeepsExplicitExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "explicit.npz")
	if err := SaveArrays(path, []*mat.Dense{constMatrix(1, 1, 0)}, true); err != nil {
		t.Fatalf("SaveArrays() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected container at %s: %v", path, err)
	}
	if _, err := os.Stat(path + ".npz"); err == nil {
		t.Fatal(fmt.Sprintf("extension doubled: %s.npz exists", path))
	}
}
