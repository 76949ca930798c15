// Package project confines every filesystem operation to a single
// jetlag checkout. A Root is fixed at construction and immutable;
// every caller-supplied relative path is resolved against it and
// rejected if the resolution leaves the tree.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Error kinds reported by path resolution and reads. Callers
// distinguish them with errors.Is.
var (
	// ErrEscape means the input resolved outside the project root.
	ErrEscape = errors.New("path escapes project root")
	// ErrNotFound means the target does not exist or is not a regular file.
	ErrNotFound = errors.New("file not found")
	// ErrDecode means the target is not valid UTF-8 text.
	ErrDecode = errors.New("not valid UTF-8 text")
)

// Fixed locations inside the project tree.
const (
	AnsibleDir = "ansible"
	RolesDir   = "ansible/roles"
	DocsDir    = "docs"
)

// Root is the project directory all operations are confined to.
// It is resolved once at construction and never mutated.
type Root struct {
	dir string
}

// Open validates dir and returns a Root with symlinks resolved.
func Open(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolutize project dir: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: project dir %s", ErrNotFound, abs)
		}
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat project dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", resolved)
	}
	return &Root{dir: resolved}, nil
}

// Dir returns the absolute, symlink-resolved project directory.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve canonicalizes rel against the root and returns the absolute
// path, or ErrEscape if the resolution leaves the tree. Absolute
// inputs and NUL bytes are rejected outright. Symlinks are followed
// before the containment check, so a link planted inside the project
// cannot smuggle a path outside it; links that stay inside the
// project are followed too; the resolved target is what "the same
// file" means here. The target does not have to exist.
func (r *Root) Resolve(rel string) (string, error) {
	return r.ResolveUnder(".", rel)
}

// ResolveUnder is Resolve with containment checked against a
// subdirectory of the root rather than the root itself.
func (r *Root) ResolveUnder(base, rel string) (string, error) {
	if strings.ContainsRune(rel, 0) {
		return "", fmt.Errorf("%w: NUL byte in path", ErrEscape)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: absolute path %q", ErrEscape, rel)
	}
	baseAbs := filepath.Join(r.dir, base)
	resolved, err := resolveSymlinks(filepath.Join(baseAbs, rel))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}
	if !within(baseAbs, resolved) {
		return "", fmt.Errorf("%w: %q", ErrEscape, rel)
	}
	return resolved, nil
}

// ResolveExisting is Resolve plus an existence check, for read
// operations. Returns ErrNotFound when the target is absent.
func (r *Root) ResolveExisting(rel string) (string, error) {
	path, err := r.Resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("stat %q: %w", rel, err)
	}
	return path, nil
}

// resolveSymlinks follows symlinks on the deepest existing ancestor
// of path, then re-appends the nonexistent suffix. This keeps escape
// classification working for targets that don't exist yet.
func resolveSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	resolvedParent, err := resolveSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}

// within reports whether target sits at or under root. Both arguments
// must already be symlink-resolved; the check is Rel-based so a mere
// string prefix ("/srv/jetlag-evil" vs "/srv/jetlag") can't pass.
func within(root, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
