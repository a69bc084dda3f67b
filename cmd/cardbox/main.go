package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/adapters/editor"
	"cardbox/internal/adapters/markdown"
	"cardbox/internal/adapters/sqlite"
	"cardbox/internal/adapters/tui"
	"cardbox/internal/config"
)

func main() {
	dbPath, err := config.DatabasePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	index, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()

	// First run: register the configured root so the browser has content.
	if roots, err := index.ListRoots(); err == nil && len(roots) == 0 {
		if canonical, err := index.AddRoot(config.RootPath()); err == nil {
			index.IndexRoot(canonical, nil)
		}
	}

	app := tui.NewApp(index, markdown.NewCaptureEngine(), index, editor.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
