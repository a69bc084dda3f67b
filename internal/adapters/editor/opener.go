package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cardbox/internal/ports"
)

// Opener launches the user's editor on card files.
type Opener struct{}

var _ ports.Opener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens a card file in the user's preferred editor.
func (o *Opener) Open(path string) error {
	cmd, err := o.Command(path, -1)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// OpenAt opens a card file positioned on the given 0-based line when the
// editor supports it. Heading orders are line indexes, so a heading's order
// lands the cursor on the heading.
func (o *Opener) OpenAt(path string, line int64) error {
	cmd, err := o.Command(path, line)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file, for use with bubbletea's
// ExecProcess. Pass line -1 to skip positioning.
func (o *Opener) Command(path string, line int64) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := editorArgs(editor, path, line)
	cmd := exec.Command(editor, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// editorArgs builds the argument list, adding a +line jump for editors of
// the vi family.
func editorArgs(editor, path string, line int64) []string {
	if line < 0 {
		return []string{path}
	}
	base := strings.TrimSuffix(filepath.Base(editor), ".exe")
	switch base {
	case "vim", "nvim", "vi", "gvim", "nano", "emacs":
		return []string{fmt.Sprintf("+%d", line+1), path}
	default:
		return []string{path}
	}
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
