package pathing

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DataKind identifies the homogeneous data kind found at a path.
type DataKind int

const (
	// KindUnknown means no registered extension matched.
	KindUnknown DataKind = iota
	// KindAudio covers raw waveform files.
	KindAudio
	// KindArrays covers multi-array container files.
	KindArrays
	// KindImages covers spectrogram image sequences.
	KindImages
	// KindAmbiguous means extensions from more than one kind were found.
	KindAmbiguous
)

func (k DataKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindAudio:
		return "audio"
	case KindArrays:
		return "arrays"
	case KindImages:
		return "images"
	case KindAmbiguous:
		return "ambiguous"
	}
	return fmt.Sprintf("DataKind(%d)", int(k))
}

// Extension registry. The sets are disjoint; a directory mixing them is
// ambiguous by definition.
var (
	AudioExtensions = []string{"wav", "flac", "mp3", "ogg"}
	ArrayExtensions = []string{"npy", "npz"}
	ImageExtensions = []string{"tiff", "exr"}
)

var (
	ErrUnknownKind   = fmt.Errorf("unknown data kind: no registered file types matched")
	ErrAmbiguousKind = fmt.Errorf("ambiguous data kind: file types from multiple kinds matched")
)

// kindOfExtension maps one extension (without dot) to its kind.
func kindOfExtension(ext string) DataKind {
	ext = strings.ToLower(ext)
	for _, e := range AudioExtensions {
		if ext == e {
			return KindAudio
		}
	}
	for _, e := range ArrayExtensions {
		if ext == e {
			return KindArrays
		}
	}
	for _, e := range ImageExtensions {
		if ext == e {
			return KindImages
		}
	}
	return KindUnknown
}

// HasKind reports whether the file name carries an extension of the given kind.
func HasKind(name string, kind DataKind) bool {
	return kindOfExtension(strings.TrimPrefix(filepath.Ext(name), ".")) == kind
}

// Classify inspects path (a file, or a directory walked recursively) and
// returns the single DataKind present. With strict set, Unknown and Ambiguous
// results become errors instead of sentinel values.
//
// Only names are inspected; file contents are never opened.
func Classify(path string, strict bool) (DataKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("classify %s: %w", path, err)
	}

	found := make(map[DataKind]bool)
	note := func(name string) {
		if k := kindOfExtension(strings.TrimPrefix(filepath.Ext(name), ".")); k != KindUnknown {
			found[k] = true
		}
	}

	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				note(d.Name())
			}
			return nil
		})
		if err != nil {
			return KindUnknown, fmt.Errorf("classify %s: %w", path, err)
		}
	} else {
		note(info.Name())
	}

	switch len(found) {
	case 0:
		if strict {
			return KindUnknown, fmt.Errorf("%w (in %s)", ErrUnknownKind, path)
		}
		return KindUnknown, nil
	case 1:
		for k := range found {
			return k, nil
		}
	}
	if strict {
		kinds := make([]string, 0, len(found))
		for k := range found {
			kinds = append(kinds, k.String())
		}
		return KindAmbiguous, fmt.Errorf("%w: %s (in %s)", ErrAmbiguousKind, strings.Join(kinds, ", "), path)
	}
	return KindAmbiguous, nil
}
