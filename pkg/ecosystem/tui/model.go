// Package tui is a read-only terminal browser for a jetlag project:
// playbooks and docs on the left, file preview on the right. It never
// executes anything.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akrzos/jetlag-mcp/pkg/project"
)

// pane selects which catalog the list shows.
type pane int

const (
	panePlaybooks pane = iota
	paneDocs
)

// entry is one selectable item: a display name plus the project-
// relative path used for preview reads.
type entry struct {
	name string
	rel  string
}

// Model is the Bubble Tea model for the project browser.
type Model struct {
	root     *project.Root
	pane     pane
	entries  []entry
	selected int
	preview  string
	width    int
	height   int
	err      error
}

// NewModel builds a browser rooted at the project, starting on the
// playbook list.
func NewModel(root *project.Root) (Model, error) {
	m := Model{root: root, pane: panePlaybooks}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reload repopulates the entry list for the active pane.
func (m *Model) reload() error {
	m.entries = nil
	m.selected = 0
	m.preview = ""

	switch m.pane {
	case panePlaybooks:
		playbooks, err := m.root.Playbooks()
		if err != nil {
			return err
		}
		for _, pb := range playbooks {
			m.entries = append(m.entries, entry{name: pb.Name, rel: pb.Path})
		}
	case paneDocs:
		docs, err := m.root.Docs()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			m.entries = append(m.entries, entry{name: doc, rel: doc})
		}
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
		case "tab":
			if m.pane == panePlaybooks {
				m.pane = paneDocs
			} else {
				m.pane = panePlaybooks
			}
			m.err = m.reload()
		case "enter":
			m.loadPreview()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// loadPreview reads the selected file through the contained reader;
// markdown is rendered, everything else shown raw.
func (m *Model) loadPreview() {
	if m.selected >= len(m.entries) {
		return
	}
	sel := m.entries[m.selected]
	content, err := m.root.ReadText(sel.rel)
	if err != nil {
		m.err = err
		m.preview = ""
		return
	}
	m.err = nil
	if strings.HasSuffix(sel.name, ".md") {
		content = renderMarkdown(content)
	}
	m.preview = content
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	title := "playbooks"
	if m.pane == paneDocs {
		title = "docs"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  jetlag: %s", title)))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		b.WriteString(dimStyle.Render("  (nothing here)"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		if i == m.selected {
			selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
			b.WriteString(selectedStyle.Render("  ▸ " + e.name))
		} else {
			b.WriteString("    " + e.name)
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		failStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
		b.WriteString("\n")
		b.WriteString(failStyle.Render(fmt.Sprintf("  ✗ %v", m.err)))
		b.WriteString("\n")
	} else if m.preview != "" {
		b.WriteString("\n")
		b.WriteString(truncatePreview(m.preview, m.height))
		b.WriteString("\n")
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("  q: quit  tab: playbooks/docs  ↑/↓: navigate  enter: preview"))
	return b.String()
}

// truncatePreview keeps the preview from pushing the list off-screen.
func truncatePreview(content string, height int) string {
	lines := strings.Split(content, "\n")
	limit := 20
	if height > 0 && height/2 < limit {
		limit = height / 2
	}
	if len(lines) > limit {
		lines = append(lines[:limit], "  …")
	}
	return strings.Join(lines, "\n")
}
