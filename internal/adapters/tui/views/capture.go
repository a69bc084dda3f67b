package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/adapters/tui/styles"
	"cardbox/internal/application"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

// CaptureFocus tracks which pane of the capture view has the cursor.
type CaptureFocus int

const (
	CaptureFocusTargets CaptureFocus = iota
	CaptureFocusPreview
)

// CaptureKeyMap defines key bindings for the capture view
type CaptureKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Append key.Binding
	Delete key.Binding
	Move   key.Binding
	Back   key.Binding
	Cancel key.Binding
}

var CaptureKeys = CaptureKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select/insert"),
	),
	Append: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "append at end"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete heading"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move heading"),
	),
	Back: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h", "back to targets"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// CaptureModel drives capturing one source row into a capture document.
// Target lists and previews load asynchronously under their own gates, and
// sections are always addressed by heading order, never by list position,
// so a concurrent edit of the document cannot redirect a mutation.
type CaptureModel struct {
	ViewState
	index  ports.CardIndex
	engine ports.CaptureEngine
	prefs  ports.PrefStore
	gates  application.Gates

	rootPath string
	source   application.Row

	targets      []domain.CaptureTarget
	targetCursor int
	preview      *domain.CaptureTargetPreview
	previewPath  string
	headingPos   int // cursor into preview.Headings; len(...) = append slot
	focus        CaptureFocus

	moveFrom *int64 // source heading order of a pending move

	// Re-capturing the same row to the same place is a no-op; this keeps
	// double key presses from duplicating sections within one session. A
	// key is only committed once its insert succeeds.
	inserted      map[string]bool
	pendingInsert string

	spinner spinner.Model
	loading bool
}

// NewCaptureModel creates a new capture view model
func NewCaptureModel(index ports.CardIndex, engine ports.CaptureEngine, prefs ports.PrefStore) *CaptureModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &CaptureModel{
		index:    index,
		engine:   engine,
		prefs:    prefs,
		spinner:  s,
		inserted: make(map[string]bool),
	}
}

// SetSource points the view at a new source row.
func (m *CaptureModel) SetSource(row application.Row, rootPath string) {
	m.source = row
	m.rootPath = rootPath
	m.targets = nil
	m.targetCursor = 0
	m.preview = nil
	m.previewPath = ""
	m.headingPos = 0
	m.focus = CaptureFocusTargets
	m.moveFrom = nil
	m.pendingInsert = ""
	m.ClearMessage()
}

// Init initializes the capture view
func (m *CaptureModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadTargets())
}

// Messages

type captureTargetsMsg struct {
	id        uint64
	targets   []domain.CaptureTarget
	preferred string
}

type capturePreviewMsg struct {
	id      uint64
	preview *domain.CaptureTargetPreview
}

type captureErrMsg struct {
	err error
}

type captureInsertedMsg struct {
	target  string
	preview *domain.CaptureTargetPreview
}

type captureMovedMsg struct {
	movedText string
	preview   *domain.CaptureTargetPreview
}

// Commands

func (m *CaptureModel) loadTargets() tea.Cmd {
	id := m.gates.TargetList.Next()
	root := m.rootPath
	return func() tea.Msg {
		targets, err := m.engine.ListTargets(root)
		if err != nil {
			return captureErrMsg{err}
		}
		preferred := ""
		if m.prefs != nil {
			// Pref lookup failures only cost the remembered selection.
			preferred, _ = m.prefs.CaptureTarget(root)
		}
		return captureTargetsMsg{id: id, targets: targets, preferred: preferred}
	}
}

func (m *CaptureModel) loadPreview(targetPath string) tea.Cmd {
	id := m.gates.TargetPreview.Next()
	root := m.rootPath
	return func() tea.Msg {
		pv, err := m.engine.TargetPreview(root, targetPath)
		if err != nil {
			return captureErrMsg{err}
		}
		return capturePreviewMsg{id: id, preview: pv}
	}
}

// insertCmd resolves the source content and inserts it under the chosen
// context. Heading rows capture their whole section; block and author rows
// capture their copy text.
func (m *CaptureModel) insertCmd(targetPath string, contextOrder int64) tea.Cmd {
	source := m.source
	root := m.rootPath
	return func() tea.Msg {
		content := source.CopyText
		if source.Kind == application.RowHeading {
			if text, err := m.index.HeadingPreview(source.FileID, source.HeadingOrder); err == nil && text != "" {
				content = text
			}
		}

		result, err := m.engine.Insert(ports.CaptureRequest{
			RootPath:     root,
			SourcePath:   source.SourcePath,
			SectionTitle: source.Label,
			Content:      content,
			TargetPath:   targetPath,
			ContextOrder: contextOrder,
		})
		if err != nil {
			return captureErrMsg{err}
		}
		if m.prefs != nil {
			_ = m.prefs.SetCaptureTarget(root, result.TargetRelativePath)
		}

		pv, err := m.engine.TargetPreview(root, result.TargetRelativePath)
		if err != nil {
			return captureErrMsg{err}
		}
		return captureInsertedMsg{target: result.TargetRelativePath, preview: pv}
	}
}

// deleteCmd captures the gate id before the closure runs; the gate is only
// safe to touch inside the update loop.
func (m *CaptureModel) deleteCmd(targetPath string, order int64) tea.Cmd {
	id := m.gates.TargetPreview.Next()
	root := m.rootPath
	return func() tea.Msg {
		pv, err := m.engine.DeleteHeading(root, targetPath, order)
		if err != nil {
			return captureErrMsg{err}
		}
		return capturePreviewMsg{id: id, preview: pv}
	}
}

// moveCmd carries the moved heading's text because a move renumbers the
// document's heading orders; the refreshed preview is searched by text to
// re-select the heading at its new position.
func (m *CaptureModel) moveCmd(targetPath string, src, dst int64, movedText string) tea.Cmd {
	root := m.rootPath
	return func() tea.Msg {
		pv, err := m.engine.MoveHeading(root, targetPath, src, dst)
		if err != nil {
			return captureErrMsg{err}
		}
		return captureMovedMsg{movedText: movedText, preview: pv}
	}
}

func (m *CaptureModel) insertKey(targetPath string, contextOrder int64) string {
	return fmt.Sprintf("%s|%s|%d", m.source.Key, targetPath, contextOrder)
}

// Update handles messages for the capture view
func (m *CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case captureTargetsMsg:
		if m.gates.TargetList.Stale(msg.id) {
			return m, nil
		}
		m.loading = false
		m.targets = msg.targets
		for i, t := range m.targets {
			if msg.preferred != "" && t.RelativePath == msg.preferred {
				m.targetCursor = i
			}
		}
		return m, nil

	case capturePreviewMsg:
		if m.gates.TargetPreview.Stale(msg.id) {
			return m, nil
		}
		m.preview = msg.preview
		m.previewPath = msg.preview.RelativePath
		if m.headingPos > len(msg.preview.Headings) {
			m.headingPos = len(msg.preview.Headings)
		}
		return m, nil

	case captureMovedMsg:
		m.preview = msg.preview
		m.previewPath = msg.preview.RelativePath
		// The cursor follows the moved heading to its new position.
		m.headingPos = len(msg.preview.Headings)
		for i, h := range msg.preview.Headings {
			if h.Text == msg.movedText {
				m.headingPos = i
				break
			}
		}
		return m, nil

	case captureInsertedMsg:
		if m.pendingInsert != "" {
			m.inserted[m.pendingInsert] = true
			m.pendingInsert = ""
		}
		m.SetMessage(fmt.Sprintf("Captured into %s", msg.target), false)
		m.preview = msg.preview
		m.previewPath = msg.preview.RelativePath
		return m, nil

	case captureErrMsg:
		m.loading = false
		m.pendingInsert = ""
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *CaptureModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, CaptureKeys.Cancel) {
		return m, func() tea.Msg { return SwitchToBrowserMsg{} }
	}
	m.ClearMessage()

	if m.focus == CaptureFocusTargets {
		return m.updateTargetKeys(msg)
	}
	return m.updatePreviewKeys(msg)
}

func (m *CaptureModel) updateTargetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, CaptureKeys.Up):
		if m.targetCursor > 0 {
			m.targetCursor--
		}
	case key.Matches(msg, CaptureKeys.Down):
		if m.targetCursor < len(m.targets)-1 {
			m.targetCursor++
		}
	case key.Matches(msg, CaptureKeys.Select):
		if target := m.selectedTarget(); target != nil {
			m.focus = CaptureFocusPreview
			m.headingPos = 0
			return m, m.loadPreview(target.RelativePath)
		}
	case key.Matches(msg, CaptureKeys.Append):
		if target := m.selectedTarget(); target != nil {
			return m, m.tryInsert(target.RelativePath, ports.AppendAtEnd)
		}
	}
	return m, nil
}

func (m *CaptureModel) updatePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.preview == nil {
		if key.Matches(msg, CaptureKeys.Back) {
			m.focus = CaptureFocusTargets
		}
		return m, nil
	}
	headings := m.preview.Headings

	switch {
	case key.Matches(msg, CaptureKeys.Back):
		m.focus = CaptureFocusTargets
		m.moveFrom = nil

	case key.Matches(msg, CaptureKeys.Up):
		if m.headingPos > 0 {
			m.headingPos--
		}

	case key.Matches(msg, CaptureKeys.Down):
		// One past the last heading is the append-at-end slot.
		if m.headingPos < len(headings) {
			m.headingPos++
		}

	case key.Matches(msg, CaptureKeys.Select):
		if m.moveFrom != nil {
			if m.headingPos < len(headings) {
				src := *m.moveFrom
				m.moveFrom = nil
				movedText := ""
				for _, h := range headings {
					if h.Order == src {
						movedText = h.Text
						break
					}
				}
				return m, m.moveCmd(m.previewPath, src, headings[m.headingPos].Order, movedText)
			}
			return m, nil
		}
		contextOrder := ports.AppendAtEnd
		if m.headingPos < len(headings) {
			contextOrder = headings[m.headingPos].Order
		}
		return m, m.tryInsert(m.previewPath, contextOrder)

	case key.Matches(msg, CaptureKeys.Append):
		m.moveFrom = nil
		return m, m.tryInsert(m.previewPath, ports.AppendAtEnd)

	case key.Matches(msg, CaptureKeys.Delete):
		if m.headingPos < len(headings) {
			return m, m.deleteCmd(m.previewPath, headings[m.headingPos].Order)
		}

	case key.Matches(msg, CaptureKeys.Move):
		if m.headingPos < len(headings) {
			order := headings[m.headingPos].Order
			m.moveFrom = &order
			m.SetMessage("Select the heading to move after, then press enter", false)
		}
	}
	return m, nil
}

// tryInsert runs the insert unless this row was already captured to the
// same destination and context.
func (m *CaptureModel) tryInsert(targetPath string, contextOrder int64) tea.Cmd {
	ikey := m.insertKey(targetPath, contextOrder)
	if m.inserted[ikey] || m.pendingInsert == ikey {
		m.SetMessage("Already captured here", false)
		return nil
	}
	m.pendingInsert = ikey
	return m.insertCmd(targetPath, contextOrder)
}

func (m *CaptureModel) selectedTarget() *domain.CaptureTarget {
	if m.targetCursor >= 0 && m.targetCursor < len(m.targets) {
		return &m.targets[m.targetCursor]
	}
	return nil
}

// View renders the capture view
func (m *CaptureModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Capture"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Source: %s", m.source.Label)))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading targets...")
		return styles.App.Render(b.String())
	}

	if m.focus == CaptureFocusTargets {
		m.renderTargets(&b)
	} else {
		m.renderPreview(&b)
	}

	m.renderStatus(&b)

	b.WriteString("\n\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *CaptureModel) renderTargets(b *strings.Builder) {
	b.WriteString(styles.InputLabel.Render("Destination:"))
	b.WriteString("\n")
	for i, t := range m.targets {
		state := "new"
		if t.Exists {
			state = fmt.Sprintf("%d entries", t.EntryCount)
		}
		line := fmt.Sprintf("%s  (%s)", t.RelativePath, state)
		if i == m.targetCursor {
			b.WriteString(styles.RowSelected.Render(" > " + line + " "))
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}
}

func (m *CaptureModel) renderPreview(b *strings.Builder) {
	b.WriteString(styles.InputLabel.Render(m.previewPath))
	b.WriteString("\n")
	if m.preview == nil {
		b.WriteString(styles.MutedText.Render("Loading..."))
		b.WriteString("\n")
		return
	}
	if !m.preview.Exists {
		b.WriteString(styles.MutedText.Render("New document"))
		b.WriteString("\n")
	}
	for i, h := range m.preview.Headings {
		indent := strings.Repeat("  ", int(h.Level)-1)
		line := indent + h.Text
		if m.moveFrom != nil && *m.moveFrom == h.Order {
			line += "  (moving)"
		}
		if i == m.headingPos {
			b.WriteString(styles.RowSelected.Render(" > " + line + " "))
		} else {
			b.WriteString("   " + line)
		}
		b.WriteString("\n")
	}
	appendLine := "— append at end —"
	if m.headingPos == len(m.preview.Headings) {
		b.WriteString(styles.RowSelected.Render(" > " + appendLine + " "))
	} else {
		b.WriteString(styles.MutedText.Render("   " + appendLine))
	}
	b.WriteString("\n")
}

func (m *CaptureModel) renderHelpLine() string {
	return renderKeyHelp([]struct{ key, desc string }{
		{"j/k", "navigate"},
		{"enter", "select/insert"},
		{"a", "append"},
		{"d", "delete"},
		{"m", "move"},
		{"h", "back"},
		{"esc", "cancel"},
	})
}
