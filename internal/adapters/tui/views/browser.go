package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cardbox/internal/adapters/tui/styles"
	"cardbox/internal/application"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

const (
	searchDebounce  = 150 * time.Millisecond
	previewDebounce = 90 * time.Millisecond
	overscanRows    = 4
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Copy     key.Binding
	Capture  key.Binding
	Open     key.Binding
	Search   key.Binding
	NextRoot key.Binding
	Reindex  key.Binding
	Roots    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Capture: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "capture"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NextRoot: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next root"),
	),
	Reindex: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "reindex"),
	),
	Roots: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "roots"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the card tree browser. All async results
// carry the gate id they were issued under and are dropped when stale, so
// a slow response can never overwrite the state of a newer request.
type BrowserModel struct {
	ViewState
	index ports.CardIndex

	rootPaths []string // registered roots; "" (all roots) is prepended when >1
	rootPos   int
	snapIdx   *application.SnapshotIndex
	previews  *application.PreviewCache
	gates     application.Gates

	expandedFolders   application.PathSet
	expandedFiles     application.IDSet
	collapsedHeadings application.KeySet

	rows      []application.Row
	cursor    int
	cursorKey string
	scroll    int

	searchInput textinput.Model
	searching   bool
	query       string
	hits        []domain.SearchHit

	previewKey  string
	previewText string

	spinner  spinner.Model
	loading  bool
	indexing bool
	progress domain.IndexProgress
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(index ports.CardIndex) *BrowserModel {
	input := textinput.New()
	input.Placeholder = "Search headings, files, authors..."
	input.Prompt = "/ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &BrowserModel{
		index:             index,
		previews:          application.NewPreviewCache(),
		expandedFolders:   application.PathSet{"": {}},
		expandedFiles:     application.IDSet{},
		collapsedHeadings: application.KeySet{},
		searchInput:       input,
		spinner:           s,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadRoots)
}

// Messages

type rootsLoadedMsg struct {
	paths []string
}

type snapshotLoadedMsg struct {
	index *application.SnapshotIndex
}

type browserErrMsg struct {
	err error
}

type searchDebounceMsg struct {
	id    uint64
	query string
}

type searchResultsMsg struct {
	id   uint64
	hits []domain.SearchHit
}

type filePreviewMsg struct {
	preview *domain.FilePreview
}

type warmupBatchMsg struct {
	id       uint64
	previews []*domain.FilePreview
}

type warmupDeferredMsg struct {
	id       uint64
	deferred [][]int64
}

type headingPreviewTickMsg struct {
	id     uint64
	fileID int64
	order  int64
	key    string
}

type headingPreviewMsg struct {
	id   uint64
	key  string
	text string
}

type reindexDoneMsg struct {
	stats  *domain.IndexStats
	failed int
	err    error
}

// Commands

func (m *BrowserModel) loadRoots() tea.Msg {
	roots, err := m.index.ListRoots()
	if err != nil {
		return browserErrMsg{err}
	}
	paths := make([]string, 0, len(roots)+1)
	if len(roots) > 1 {
		paths = append(paths, domain.AllRootsPath)
	}
	for _, r := range roots {
		paths = append(paths, r.Path)
	}
	return rootsLoadedMsg{paths}
}

func (m *BrowserModel) loadSnapshot() tea.Cmd {
	root := m.activeRoot()
	return func() tea.Msg {
		if root == domain.AllRootsPath {
			roots, err := m.index.ListRoots()
			if err != nil {
				return browserErrMsg{err}
			}
			snaps := make([]*domain.IndexSnapshot, 0, len(roots))
			for _, r := range roots {
				snap, err := m.index.Snapshot(r.Path)
				if err != nil {
					// Unindexed roots are left out of the merged view.
					continue
				}
				snaps = append(snaps, snap)
			}
			return snapshotLoadedMsg{application.BuildSnapshotIndex(domain.MergeSnapshots(snaps))}
		}

		snap, err := m.index.Snapshot(root)
		if err != nil {
			return browserErrMsg{err}
		}
		return snapshotLoadedMsg{application.BuildSnapshotIndex(snap)}
	}
}

func (m *BrowserModel) runSearch(id uint64, query string) tea.Cmd {
	root := m.searchRoot()
	return func() tea.Msg {
		hits, err := m.index.Search(query, root, 0)
		if err != nil {
			return browserErrMsg{err}
		}
		return searchResultsMsg{id: id, hits: hits}
	}
}

// searchRoot maps the merged view onto an engine-wide search. Hits from
// roots other than the snapshot's are dropped by the row builder.
func (m *BrowserModel) searchRoot() string {
	root := m.activeRoot()
	if root == domain.AllRootsPath {
		return domain.AllRootsPath
	}
	return root
}

func (m *BrowserModel) fetchFilePreview(fileID int64) tea.Cmd {
	return func() tea.Msg {
		pv, err := m.index.FilePreview(fileID)
		if err != nil {
			return browserErrMsg{err}
		}
		return filePreviewMsg{pv}
	}
}

// fetchWarmupGroup loads one group of previews in a single command; groups
// within a wave run concurrently under tea.Batch.
func (m *BrowserModel) fetchWarmupGroup(id uint64, group []int64) tea.Cmd {
	return func() tea.Msg {
		previews := make([]*domain.FilePreview, 0, len(group))
		for _, fileID := range group {
			if pv, err := m.index.FilePreview(fileID); err == nil {
				previews = append(previews, pv)
			}
		}
		return warmupBatchMsg{id: id, previews: previews}
	}
}

func (m *BrowserModel) startWarmup(hits []domain.SearchHit) tea.Cmd {
	plan := application.PlanWarmup(hits, m.previews.HasFile)
	if plan.Empty() {
		return nil
	}
	id := m.gates.Warmup.Next()

	cmds := make([]tea.Cmd, 0, len(plan.Immediate)+1)
	for _, group := range plan.Immediate {
		cmds = append(cmds, m.fetchWarmupGroup(id, group))
	}
	if len(plan.Deferred) > 0 {
		deferred := plan.Deferred
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return warmupDeferredMsg{id: id, deferred: deferred}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *BrowserModel) fetchHeadingPreview(id uint64, fileID, order int64, key string) tea.Cmd {
	return func() tea.Msg {
		text, err := m.index.HeadingPreview(fileID, order)
		if err != nil {
			// Best effort: the preview panel falls back to the copy text.
			return headingPreviewMsg{id: id, key: key, text: ""}
		}
		return headingPreviewMsg{id: id, key: key, text: text}
	}
}

// reindex streams progress events through a channel that a companion
// wait command pumps into the update loop.
func (m *BrowserModel) reindex() tea.Cmd {
	root := m.activeRoot()
	ch := make(chan domain.IndexProgress, 16)
	report := func(p domain.IndexProgress) { ch <- p }

	run := func() tea.Msg {
		defer close(ch)
		if root == domain.AllRootsPath {
			stats, failed, err := m.index.IndexAll(report)
			return reindexDoneMsg{stats: stats, failed: failed, err: err}
		}
		stats, err := m.index.IndexRoot(root, report)
		return reindexDoneMsg{stats: stats, err: err}
	}
	return tea.Batch(run, waitForIndexProgress(ch))
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.indexing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case rootsLoadedMsg:
		m.rootPaths = msg.paths
		if len(m.rootPaths) == 0 {
			m.loading = false
			m.SetMessage("No roots registered; press R to add one", false)
			return m, nil
		}
		if m.rootPos >= len(m.rootPaths) {
			m.rootPos = 0
		}
		return m, m.loadSnapshot()

	case snapshotLoadedMsg:
		m.loading = false
		m.snapIdx = msg.index
		m.rebuildRows()
		return m, nil

	case browserErrMsg:
		m.loading = false
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case searchDebounceMsg:
		if m.gates.Search.Stale(msg.id) {
			return m, nil
		}
		return m, m.runSearch(msg.id, msg.query)

	case searchResultsMsg:
		if m.gates.Search.Stale(msg.id) {
			return m, nil
		}
		m.hits = msg.hits
		m.rebuildRows()
		return m, m.startWarmup(msg.hits)

	case filePreviewMsg:
		m.previews.SetFile(msg.preview)
		m.rebuildRows()
		return m, nil

	case warmupBatchMsg:
		if m.gates.Warmup.Stale(msg.id) {
			return m, nil
		}
		for _, pv := range msg.previews {
			m.previews.SetFile(pv)
		}
		m.rebuildRows()
		return m, nil

	case warmupDeferredMsg:
		if m.gates.Warmup.Stale(msg.id) {
			return m, nil
		}
		cmds := make([]tea.Cmd, 0, len(msg.deferred))
		for _, group := range msg.deferred {
			cmds = append(cmds, m.fetchWarmupGroup(msg.id, group))
		}
		return m, tea.Batch(cmds...)

	case headingPreviewTickMsg:
		if m.gates.HeadingPreview.Stale(msg.id) {
			return m, nil
		}
		return m, m.fetchHeadingPreview(msg.id, msg.fileID, msg.order, msg.key)

	case headingPreviewMsg:
		if msg.text != "" {
			m.previews.SetHeadingPreview(msg.key, msg.text)
		}
		if m.gates.HeadingPreview.Stale(msg.id) {
			return m, nil
		}
		m.previewKey = msg.key
		m.previewText = msg.text
		return m, nil

	case indexProgressMsg:
		if m.indexing {
			m.progress = msg.progress
		}
		return m, waitForIndexProgress(msg.ch)

	case reindexDoneMsg:
		m.indexing = false
		m.progress = domain.IndexProgress{}
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		note := fmt.Sprintf("Indexed: %d updated, %d skipped, %d removed",
			msg.stats.Updated, msg.stats.Skipped, msg.stats.Removed)
		if msg.failed > 0 {
			note += fmt.Sprintf(" (%d roots failed)", msg.failed)
		}
		m.SetMessage(note, false)
		m.previews.Clear()
		return m, m.loadSnapshot()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearchInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *BrowserModel) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.clearSearch()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	query := m.searchInput.Value()
	if query == m.query {
		return m, cmd
	}
	m.query = query
	m.rebuildRows()

	if len(strings.TrimSpace(query)) < 2 {
		m.hits = nil
		// Invalidate any in-flight search so its results are dropped.
		m.gates.Search.Next()
		return m, cmd
	}

	id := m.gates.Search.Next()
	return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{id: id, query: query}
	}))
}

func (m *BrowserModel) clearSearch() {
	m.query = ""
	m.hits = nil
	m.gates.Search.Next()
	m.rebuildRows()
}

func (m *BrowserModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		return m, m.moveCursor(-1)

	case key.Matches(msg, BrowserKeys.Down):
		return m, m.moveCursor(1)

	case key.Matches(msg, BrowserKeys.Left):
		return m, m.collapseCurrent()

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		return m, m.toggleCurrent()

	case key.Matches(msg, BrowserKeys.Copy):
		return m, m.copyCurrent()

	case key.Matches(msg, BrowserKeys.Capture):
		if row := m.selectedRow(); row != nil &&
			(row.Kind == application.RowHeading || row.Kind == application.RowBlock || row.Kind == application.RowAuthor) {
			captureRoot := m.captureRoot()
			r := *row
			return m, func() tea.Msg {
				return SwitchToCaptureMsg{Row: r, RootPath: captureRoot}
			}
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Open):
		// Heading and block rows carry the absolute source path; file rows
		// only know their snapshot-relative path.
		if row := m.selectedRow(); row != nil && row.SourcePath != "" &&
			(row.Kind == application.RowHeading || row.Kind == application.RowBlock) {
			path, line := row.SourcePath, row.HeadingOrder
			return m, func() tea.Msg {
				return OpenEditorMsg{Path: path, Line: line}
			}
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, BrowserKeys.NextRoot):
		if len(m.rootPaths) > 1 {
			m.rootPos = (m.rootPos + 1) % len(m.rootPaths)
			m.switchRoot()
			return m, tea.Batch(m.spinner.Tick, m.loadSnapshot())
		}
		return m, nil

	case key.Matches(msg, BrowserKeys.Reindex):
		if m.indexing {
			m.SetMessage("Indexing already running", false)
			return m, nil
		}
		m.indexing = true
		return m, tea.Batch(m.spinner.Tick, m.reindex())

	case key.Matches(msg, BrowserKeys.Roots):
		return m, func() tea.Msg { return SwitchToRootsMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return m, nil
}

// switchRoot resets everything derived from the previous root.
func (m *BrowserModel) switchRoot() {
	m.loading = true
	m.snapIdx = nil
	m.previews.Clear()
	m.expandedFolders = application.PathSet{"": {}}
	m.expandedFiles = application.IDSet{}
	m.collapsedHeadings = application.KeySet{}
	m.hits = nil
	m.query = ""
	m.searchInput.SetValue("")
	m.cursor = 0
	m.cursorKey = ""
	m.scroll = 0
	m.previewKey = ""
	m.previewText = ""
	m.gates.Search.Next()
	m.gates.Warmup.Next()
	m.gates.HeadingPreview.Next()
}

func (m *BrowserModel) activeRoot() string {
	if m.rootPos < len(m.rootPaths) {
		return m.rootPaths[m.rootPos]
	}
	return domain.AllRootsPath
}

// captureRoot returns the filesystem root captures should land under. In
// the merged view the first real root is used.
func (m *BrowserModel) captureRoot() string {
	if root := m.activeRoot(); root != domain.AllRootsPath {
		return root
	}
	for _, p := range m.rootPaths {
		if p != domain.AllRootsPath {
			return p
		}
	}
	return ""
}

func (m *BrowserModel) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if next < 0 || next >= len(m.rows) {
		return nil
	}
	m.cursor = next
	m.cursorKey = m.rows[next].Key
	m.ensureCursorVisible()
	return m.scheduleHeadingPreview()
}

// scheduleHeadingPreview debounces the rich preview for the focused
// heading. Cached previews short-circuit the debounce entirely.
func (m *BrowserModel) scheduleHeadingPreview() tea.Cmd {
	row := m.selectedRow()
	if row == nil || row.Kind != application.RowHeading {
		m.previewKey = ""
		m.previewText = ""
		m.gates.HeadingPreview.Next()
		return nil
	}

	hkey := application.HeadingKey(row.FileID, row.HeadingOrder, row.HeadingLevel)
	m.gates.HeadingPreview.Next()
	if text, ok := m.previews.HeadingPreview(hkey); ok {
		m.previewKey = hkey
		m.previewText = text
		return nil
	}

	id := m.gates.HeadingPreview.Current()
	fileID, order := row.FileID, row.HeadingOrder
	m.previewKey = hkey
	m.previewText = ""
	return tea.Tick(previewDebounce, func(time.Time) tea.Msg {
		return headingPreviewTickMsg{id: id, fileID: fileID, order: order, key: hkey}
	})
}

func (m *BrowserModel) collapseCurrent() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}
	switch row.Kind {
	case application.RowFolder:
		if row.Expanded {
			m.expandedFolders = m.expandedFolders.Toggle(row.FolderPath)
			m.rebuildRows()
		}
	case application.RowFile:
		if row.Expanded {
			m.expandedFiles = m.expandedFiles.Toggle(row.FileID)
			m.rebuildRows()
		}
	case application.RowHeading:
		if row.HasChildren && row.Expanded {
			hkey := application.HeadingKey(row.FileID, row.HeadingOrder, row.HeadingLevel)
			m.collapsedHeadings = m.collapsedHeadings.Toggle(hkey)
			m.rebuildRows()
		}
	}
	return nil
}

func (m *BrowserModel) toggleCurrent() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}
	switch row.Kind {
	case application.RowFolder:
		m.expandedFolders = m.expandedFolders.Toggle(row.FolderPath)
		m.rebuildRows()

	case application.RowFile:
		m.expandedFiles = m.expandedFiles.Toggle(row.FileID)
		m.rebuildRows()
		if m.expandedFiles.Has(row.FileID) && !m.previews.HasFile(row.FileID) {
			return m.fetchFilePreview(row.FileID)
		}

	case application.RowHeading:
		if row.HasChildren {
			hkey := application.HeadingKey(row.FileID, row.HeadingOrder, row.HeadingLevel)
			m.collapsedHeadings = m.collapsedHeadings.Toggle(hkey)
			m.rebuildRows()
		}
	}
	return nil
}

func (m *BrowserModel) copyCurrent() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}
	text := row.CopyText
	if text == "" {
		text = row.Label
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
		return nil
	}
	m.SetMessage("Copied", false)
	return nil
}

func (m *BrowserModel) selectedRow() *application.Row {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return &m.rows[m.cursor]
	}
	return nil
}

// rebuildRows re-derives the display rows and restores the cursor to the
// same logical row when it survived the rebuild.
func (m *BrowserModel) rebuildRows() {
	m.rows = application.BuildTreeRows(application.BuildInput{
		Index:             m.snapIdx,
		Query:             m.query,
		Hits:              m.hits,
		Previews:          m.previews,
		ExpandedFolders:   m.expandedFolders,
		ExpandedFiles:     m.expandedFiles,
		CollapsedHeadings: m.collapsedHeadings,
	})

	if m.cursorKey != "" {
		for i := range m.rows {
			if m.rows[i].Key == m.cursorKey {
				m.cursor = i
				m.ensureCursorVisible()
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) {
		m.cursorKey = m.rows[m.cursor].Key
	}
	m.ensureCursorVisible()
}

// viewportRows is the number of tree rows that fit between the chrome.
func (m *BrowserModel) viewportRows() int {
	h := m.Height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m *BrowserModel) ensureCursorVisible() {
	viewH := m.viewportRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+viewH {
		m.scroll = m.cursor - viewH + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Cardbox"))
	b.WriteString("\n")
	rootLabel := m.activeRoot()
	if rootLabel == domain.AllRootsPath {
		rootLabel = "All roots"
	}
	b.WriteString(styles.Subtitle.Render(rootLabel))
	b.WriteString("\n\n")

	if m.searching || m.query != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading index...")
		b.WriteString("\n")

	case len(m.rows) == 0:
		if strings.TrimSpace(m.query) != "" {
			b.WriteString(styles.MutedText.Render("No matches"))
		} else {
			b.WriteString(styles.MutedText.Render("Nothing indexed yet; press i to index"))
		}
		b.WriteString("\n")

	default:
		m.renderRows(&b)
	}

	if m.previewText != "" {
		b.WriteString("\n")
		b.WriteString(styles.PreviewBorder.Width(max(20, m.Width-6)).Render(m.previewText))
		b.WriteString("\n")
	}

	if m.indexing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" " + indexProgressLine(m.progress))
	}

	m.renderStatus(&b)

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

// renderRows renders only the window of rows around the viewport; rows
// outside it are represented by count lines so the output stays small on
// large trees.
func (m *BrowserModel) renderRows(b *strings.Builder) {
	window := application.ComputeWindow(len(m.rows), 1, m.scroll, m.viewportRows(), overscanRows)

	if window.TopSpacer > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("… %d above", window.TopSpacer)))
		b.WriteString("\n")
	}
	for i := window.Start; i < window.End; i++ {
		b.WriteString(m.renderRow(&m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}
	if window.BottomSpacer > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("… %d below", window.BottomSpacer)))
		b.WriteString("\n")
	}
}

func (m *BrowserModel) renderRow(row *application.Row, selected bool) string {
	indent := strings.Repeat("  ", row.Depth)

	var prefix string
	switch {
	case row.Kind == application.RowFolder || row.Kind == application.RowFile,
		row.Kind == application.RowHeading && row.HasChildren:
		if row.Expanded {
			prefix = styles.TreeExpanded
		} else {
			prefix = styles.TreeCollapsed
		}
	default:
		prefix = styles.TreeLeaf
	}

	text := row.Label
	if row.SubLabel != "" {
		text = fmt.Sprintf("%s  (%s)", row.Label, row.SubLabel)
	}

	var style lipgloss.Style
	switch row.Kind {
	case application.RowFolder:
		style = styles.RowFolder
	case application.RowFile:
		style = styles.RowFile
	case application.RowBlock:
		style = styles.RowBlock
	case application.RowAuthor:
		style = styles.RowAuthor
	case application.RowPlaceholder:
		style = styles.RowPlaceholder
	default:
		style = styles.RowHeading
	}

	styledText := style.Render(text)
	if selected {
		styledText = styles.RowSelected.Render(text)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *BrowserModel) renderHelpLine() string {
	return renderKeyHelp([]struct{ key, desc string }{
		{"j/k", "navigate"},
		{"h/l", "collapse/expand"},
		{"/", "search"},
		{"y", "copy"},
		{"c", "capture"},
		{"tab", "root"},
		{"i", "reindex"},
		{"?", "help"},
		{"q", "quit"},
	})
}

// Reload reloads roots and the active snapshot.
func (m *BrowserModel) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadRoots)
}

// Messages for view switching

// SwitchToCaptureMsg requests the capture view for the given source row.
type SwitchToCaptureMsg struct {
	Row      application.Row
	RootPath string
}

// SwitchToRootsMsg requests the roots management view.
type SwitchToRootsMsg struct{}

// SwitchToHelpMsg requests the help view.
type SwitchToHelpMsg struct{}

// SwitchToBrowserMsg returns to the browser.
type SwitchToBrowserMsg struct{}

// OpenEditorMsg asks the app to open a card file in the editor. Line is a
// 0-based line index, -1 when unknown.
type OpenEditorMsg struct {
	Path string
	Line int64
}
