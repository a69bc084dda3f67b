package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/adapters/editor"
	"cardbox/internal/adapters/tui/views"
	"cardbox/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewCapture
	ViewRoots
	ViewHelp
)

// App is the main TUI application model
type App struct {
	index  ports.CardIndex
	editor *editor.Opener

	state   ViewState
	browser *views.BrowserModel
	capture *views.CaptureModel
	roots   *views.RootsModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(index ports.CardIndex, engine ports.CaptureEngine, prefs ports.PrefStore, ed *editor.Opener) *App {
	return &App{
		index:   index,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(index),
		capture: views.NewCaptureModel(index, engine, prefs),
		roots:   views.NewRootsModel(index),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.capture.SetSize(msg.Width, msg.Height)
		a.roots.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToCaptureMsg:
		a.state = ViewCapture
		a.capture.SetSource(msg.Row, msg.RootPath)
		return a, a.capture.Init()

	case views.SwitchToRootsMsg:
		a.state = ViewRoots
		return a, a.roots.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Reload()

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path, msg.Line)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(fmt.Sprintf("Editor failed: %v", msg.err), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewCapture:
		_, cmd = a.capture.Update(msg)
	case ViewRoots:
		_, cmd = a.roots.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string, line int64) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path, line)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCapture:
		return a.capture.View()
	case ViewRoots:
		return a.roots.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
