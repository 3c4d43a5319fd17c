package pathing

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ListFiles returns every file at or under root in natural order. A root that
// is itself a file yields a one-element list.
func ListFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	sort.Slice(paths, func(i, j int) bool { return natural.Less(paths[i], paths[j]) })
	return paths, nil
}

// ListDirs returns the unique parent directories of the files under root, in
// natural order. Used for image-sequence sources, where the directory is the
// conversion unit.
func ListDirs(root string) ([]string, error) {
	files, err := ListFiles(root)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return natural.Less(dirs[i], dirs[j]) })
	return dirs, nil
}

// rebase computes src's position relative to inRoot and re-roots it under
// outRoot, preserving intermediate directories.
func rebase(src, outRoot, inRoot string) (string, error) {
	rel, err := filepath.Rel(inRoot, src)
	if err != nil {
		return "", fmt.Errorf("rebase %s under %s: %w", src, outRoot, err)
	}
	return filepath.Join(outRoot, rel), nil
}

func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ArrayTarget maps src to its array-container output file: extension stripped,
// relative tree preserved, parent directory created.
func ArrayTarget(src, outRoot, inRoot string) (string, error) {
	out, err := rebase(src, outRoot, inRoot)
	if err != nil {
		return "", err
	}
	out = stripExt(out)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return out, nil
}

// ImageTarget maps src to its image-sequence output directory: extension
// stripped and the resulting path created as a directory.
func ImageTarget(src, outRoot, inRoot string) (string, error) {
	out, err := rebase(src, outRoot, inRoot)
	if err != nil {
		return "", err
	}
	out = stripExt(out)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return out, nil
}

// AudioTarget maps src to its audio output file with the target format's
// extension, parent directory created.
func AudioTarget(src, outRoot, inRoot, format string) (string, error) {
	out, err := rebase(src, outRoot, inRoot)
	if err != nil {
		return "", err
	}
	out = stripExt(out) + "." + strings.ToLower(format)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return out, nil
}
