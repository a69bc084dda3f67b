package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/adapters/tui/styles"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

// RootsKeyMap defines key bindings for the roots view
type RootsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Remove  key.Binding
	Reindex key.Binding
	Back    key.Binding
}

var RootsKeys = RootsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add root"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove root"),
	),
	Reindex: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "reindex all"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// RootsModel manages the registered card roots.
type RootsModel struct {
	ViewState
	index ports.CardIndex

	roots  []domain.RootSummary
	cursor int

	adding   bool
	input    textinput.Model
	spinner  spinner.Model
	indexing bool
	progress domain.IndexProgress
}

// NewRootsModel creates a new roots view model
func NewRootsModel(index ports.CardIndex) *RootsModel {
	input := textinput.New()
	input.Placeholder = "~/Documents/cards"
	input.Prompt = "Path: "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &RootsModel{
		index:   index,
		input:   input,
		spinner: s,
	}
}

// Init initializes the roots view
func (m *RootsModel) Init() tea.Cmd {
	return m.loadRoots
}

type rootsListMsg struct {
	roots []domain.RootSummary
}

type rootsErrMsg struct {
	err error
}

type rootsChangedMsg struct {
	note string
}

type rootsIndexedMsg struct {
	stats  *domain.IndexStats
	failed int
	err    error
}

func (m *RootsModel) loadRoots() tea.Msg {
	roots, err := m.index.ListRoots()
	if err != nil {
		return rootsErrMsg{err}
	}
	return rootsListMsg{roots}
}

func (m *RootsModel) addRoot(path string) tea.Cmd {
	return func() tea.Msg {
		canonical, err := m.index.AddRoot(path)
		if err != nil {
			return rootsErrMsg{err}
		}
		if _, err := m.index.IndexRoot(canonical, nil); err != nil {
			return rootsErrMsg{fmt.Errorf("added %s but indexing failed: %w", canonical, err)}
		}
		return rootsChangedMsg{note: fmt.Sprintf("Added and indexed %s", canonical)}
	}
}

func (m *RootsModel) removeRoot(path string) tea.Cmd {
	return func() tea.Msg {
		if err := m.index.RemoveRoot(path); err != nil {
			return rootsErrMsg{err}
		}
		return rootsChangedMsg{note: fmt.Sprintf("Removed %s", path)}
	}
}

// reindexAll streams per-file progress into the update loop through the
// shared wait-command pump.
func (m *RootsModel) reindexAll() tea.Cmd {
	ch := make(chan domain.IndexProgress, 16)
	run := func() tea.Msg {
		defer close(ch)
		stats, failed, err := m.index.IndexAll(func(p domain.IndexProgress) { ch <- p })
		return rootsIndexedMsg{stats: stats, failed: failed, err: err}
	}
	return tea.Batch(run, waitForIndexProgress(ch))
}

// Update handles messages for the roots view
func (m *RootsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.indexing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case rootsListMsg:
		m.roots = msg.roots
		if m.cursor >= len(m.roots) {
			m.cursor = len(m.roots) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case rootsErrMsg:
		m.indexing = false
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case rootsChangedMsg:
		m.SetMessage(msg.note, false)
		return m, m.loadRoots

	case indexProgressMsg:
		if m.indexing {
			m.progress = msg.progress
		}
		return m, waitForIndexProgress(msg.ch)

	case rootsIndexedMsg:
		m.indexing = false
		m.progress = domain.IndexProgress{}
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		note := fmt.Sprintf("Indexed all roots: %d updated, %d skipped, %d removed",
			msg.stats.Updated, msg.stats.Skipped, msg.stats.Removed)
		if msg.failed > 0 {
			note += fmt.Sprintf(" (%d failed)", msg.failed)
		}
		m.SetMessage(note, false)
		return m, m.loadRoots

	case tea.KeyMsg:
		if m.adding {
			return m.updateAddInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *RootsModel) updateAddInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		if path == "" {
			return m, nil
		}
		return m, m.addRoot(path)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *RootsModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, RootsKeys.Back):
		return m, func() tea.Msg { return SwitchToBrowserMsg{} }

	case key.Matches(msg, RootsKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, RootsKeys.Down):
		if m.cursor < len(m.roots)-1 {
			m.cursor++
		}

	case key.Matches(msg, RootsKeys.Add):
		m.adding = true
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, RootsKeys.Remove):
		if m.cursor < len(m.roots) {
			return m, m.removeRoot(m.roots[m.cursor].Path)
		}

	case key.Matches(msg, RootsKeys.Reindex):
		if m.indexing {
			return m, nil
		}
		m.indexing = true
		return m, tea.Batch(m.spinner.Tick, m.reindexAll())
	}
	return m, nil
}

// View renders the roots view
func (m *RootsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Roots"))
	b.WriteString("\n\n")

	if len(m.roots) == 0 {
		b.WriteString(styles.MutedText.Render("No roots registered"))
		b.WriteString("\n")
	}
	for i, r := range m.roots {
		indexed := "never indexed"
		if r.LastIndexedMs > 0 {
			indexed = time.UnixMilli(r.LastIndexedMs).Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%s  %d files, %d headings, %s", r.Path, r.FileCount, r.HeadingCount, indexed)
		if i == m.cursor {
			b.WriteString(styles.RowSelected.Render(" > " + line + " "))
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.indexing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" " + indexProgressLine(m.progress))
		if m.progress.RootPath != "" {
			b.WriteString(styles.MutedText.Render("  " + m.progress.RootPath))
		}
		b.WriteString("\n")
	}

	m.renderStatus(&b)

	b.WriteString("\n")
	b.WriteString(renderKeyHelp([]struct{ key, desc string }{
		{"j/k", "navigate"},
		{"a", "add"},
		{"d", "remove"},
		{"i", "reindex all"},
		{"esc", "back"},
	}))

	return styles.App.Render(b.String())
}
