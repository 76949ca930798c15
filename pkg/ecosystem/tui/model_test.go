package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akrzos/jetlag-mcp/pkg/project"
)

func newBrowserModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	for _, rel := range []string{
		"ansible/mno-deploy.yml",
		"ansible/sno-deploy.yml",
		"docs/deploy-sno.md",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# content\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	root, err := project.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(root)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModel_InitFromProject(t *testing.T) {
	m := newBrowserModel(t)
	if len(m.entries) != 2 {
		t.Fatalf("entries = %d, want 2 playbooks", len(m.entries))
	}
	if m.entries[0].name != "mno-deploy.yml" {
		t.Errorf("entries[0] = %q", m.entries[0].name)
	}
	if m.selected != 0 {
		t.Errorf("selected = %d", m.selected)
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newBrowserModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("selected after down = %d, want 1", m.selected)
	}
	// Clamped at the end of the list.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("selected after second down = %d, want 1", m.selected)
	}
}

func TestModel_TabSwitchesToDocs(t *testing.T) {
	m := newBrowserModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.pane != paneDocs {
		t.Fatalf("pane = %v, want docs", m.pane)
	}
	if len(m.entries) != 1 || !strings.HasSuffix(m.entries[0].name, "deploy-sno.md") {
		t.Errorf("doc entries = %v", m.entries)
	}
}

func TestModel_ViewListsEntries(t *testing.T) {
	m := newBrowserModel(t)
	view := m.View()
	if !strings.Contains(view, "sno-deploy.yml") {
		t.Errorf("view missing playbook entry:\n%s", view)
	}
}
