package store

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/tasercake/beatbrain/chunks"
)

var (
	// ErrConcatAndStack marks the mutually exclusive load modes being
	// requested together.
	ErrConcatAndStack = errors.New("cannot both concatenate and stack: choose one or neither")
	// ErrNoData marks a load path that exists but holds no matching data.
	ErrNoData = errors.New("no data found")
)

// SaveArrays writes an ordered sequence of equal-shape arrays into one npz
// container file. An extension-less path gets ".npz" appended, matching the
// path mapper's stem-only output locations. Parent directories are created as
// needed. With compress set, members are deflated; otherwise they are stored
// verbatim.
func SaveArrays(path string, chunkSeq []*mat.Dense, compress bool) error {
	if filepath.Ext(path) == "" {
		path += ".npz"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save arrays: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save arrays: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	method := zip.Store
	if compress {
		method = zip.Deflate
	}
	for i, chunk := range chunkSeq {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   fmt.Sprintf("arr_%d.npy", i),
			Method: method,
		})
		if err != nil {
			return fmt.Errorf("save arrays: %w", err)
		}
		if err := npyio.Write(w, chunk); err != nil {
			return fmt.Errorf("save arrays: encode member %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("save arrays: %w", err)
	}
	return f.Close()
}

// LoadArrays reads the arrays stored in an npz container, sorted by the
// natural ordering of their member keys. With concat set the arrays are
// concatenated along the time axis into a single element; with stack set they
// are validated to share one shape and returned as the sequence itself.
// Requesting both is a usage error.
func LoadArrays(path string, concatenate, stack bool) ([]*mat.Dense, error) {
	if concatenate && stack {
		return nil, ErrConcatAndStack
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("load arrays %s: %w", path, err)
	}
	defer zr.Close()

	var members []*zip.File
	for _, zf := range zr.File {
		if strings.HasSuffix(zf.Name, ".npy") {
			members = append(members, zf)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("load arrays %s: %w", path, ErrNoData)
	}
	sort.Slice(members, func(i, j int) bool { return natural.Less(members[i].Name, members[j].Name) })

	out := make([]*mat.Dense, 0, len(members))
	for _, zf := range members {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("load arrays %s: %w", path, err)
		}
		var m mat.Dense
		err = npyio.Read(rc, &m)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("load arrays %s: decode %s: %w", path, zf.Name, err)
		}
		out = append(out, &m)
	}
	return finishLoad(out, concatenate, stack)
}

// finishLoad applies the shared concat/stack postcondition for array and image
// loads.
func finishLoad(seq []*mat.Dense, concatenate, stack bool) ([]*mat.Dense, error) {
	switch {
	case concatenate:
		return []*mat.Dense{chunks.Concat(seq)}, nil
	case stack:
		r0, c0 := seq[0].Dims()
		for i, m := range seq[1:] {
			if r, c := m.Dims(); r != r0 || c != c0 {
				return nil, fmt.Errorf("stack: element %d is %dx%d, want %dx%d", i+1, r, c, r0, c0)
			}
		}
	}
	return seq, nil
}
