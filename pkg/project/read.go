package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"
)

// ReadText reads a contained file as UTF-8 text. Non-regular files
// report ErrNotFound; content that is not valid UTF-8 reports
// ErrDecode rather than being returned mangled.
func (r *Root) ReadText(rel string) (string, error) {
	path, err := r.Resolve(rel)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("stat %q: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrNotFound, rel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rel, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrDecode, rel)
	}
	return string(data), nil
}
