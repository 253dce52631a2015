package api

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrNoInputDir   = errors.New("no input directory configured")
	ErrOutsideInput = errors.New("path is outside the input directory")
)

// resolve maps a caller-supplied name to a path under root. Relative names
// are taken from root; absolute ones must already lie inside it, also after
// following symlinks.
func resolve(root, name string) (string, error) {
	if root == "" {
		return "", ErrNoInputDir
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("input dir: %w", err)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)
	if !within(base, path) {
		return "", fmt.Errorf("%w: %s", ErrOutsideInput, name)
	}

	if real, err := filepath.EvalSymlinks(path); err == nil {
		realBase, err := filepath.EvalSymlinks(base)
		if err != nil || !within(realBase, real) {
			return "", fmt.Errorf("%w: %s", ErrOutsideInput, name)
		}
	}
	return path, nil
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
