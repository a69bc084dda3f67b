package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/adapters/tui/styles"
	"cardbox/internal/domain"
)

// ViewState is the state every view model embeds: dimensions plus a
// one-line status message rendered at the bottom of the view.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// renderStatus appends the status message, if any, preceded by a blank
// line. Errors and notes get their own styles.
func (s *ViewState) renderStatus(b *strings.Builder) {
	if s.Message == "" {
		return
	}
	b.WriteString("\n")
	if s.MessageErr {
		b.WriteString(styles.ErrorMsg.Render(s.Message))
	} else {
		b.WriteString(styles.Success.Render(s.Message))
	}
}

// renderKeyHelp formats a key/description pair list into one
// separator-joined help row.
func renderKeyHelp(keys []struct{ key, desc string }) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// indexProgressMsg carries one live progress event from a reindex running
// in a command goroutine, plus the channel to wait on for the next one.
type indexProgressMsg struct {
	ch       chan domain.IndexProgress
	progress domain.IndexProgress
}

// waitForIndexProgress returns a command that delivers the next progress
// event, or nothing once the indexer closes the channel. The handler
// re-issues it after each event, the standard pump for streaming work into
// the update loop.
func waitForIndexProgress(ch chan domain.IndexProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return indexProgressMsg{ch: ch, progress: p}
	}
}

// indexProgressLine renders one progress event for a spinner line.
func indexProgressLine(p domain.IndexProgress) string {
	switch p.Phase {
	case domain.PhaseDiscovering:
		return fmt.Sprintf("Discovering cards... %d found", p.Discovered)
	case domain.PhaseIndexing:
		if p.CurrentFile != "" {
			return fmt.Sprintf("Indexing %d/%d  %s", p.Processed, p.Changed, p.CurrentFile)
		}
		return fmt.Sprintf("Indexing %d/%d", p.Processed, p.Changed)
	case domain.PhaseCleaning:
		return "Removing deleted cards..."
	default:
		return "Indexing..."
	}
}
