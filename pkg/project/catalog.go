package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Playbook is one top-level automation script under ansible/. Path
// is relative to the project root, usable with ReadText directly.
type Playbook struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Playbooks lists top-level *.yml / *.yaml files under ansible/,
// sorted by name. Role internals are not scanned. A missing ansible
// directory yields an empty list, not an error.
func (r *Root) Playbooks() ([]Playbook, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, AnsibleDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Playbook{}, nil
		}
		return nil, fmt.Errorf("list playbooks: %w", err)
	}
	playbooks := []Playbook{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		playbooks = append(playbooks, Playbook{
			Name: entry.Name(),
			Path: filepath.Join(AnsibleDir, entry.Name()),
		})
	}
	return playbooks, nil
}

// Roles lists role directory names under ansible/roles, sorted.
func (r *Root) Roles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, RolesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			roles = append(roles, entry.Name())
		}
	}
	return roles, nil
}

// Docs lists markdown files under docs/ recursively, sorted, skipping
// image directories. Paths are relative to the project root so they
// can be fed straight back into ReadText.
func (r *Root) Docs() ([]string, error) {
	docsRoot := filepath.Join(r.dir, DocsDir)
	docs := []string{}
	err := filepath.WalkDir(docsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == "img" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".md") {
			rel, err := filepath.Rel(r.dir, path)
			if err != nil {
				return err
			}
			docs = append(docs, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}
	return docs, nil
}
