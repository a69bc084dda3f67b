package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestEditorFailureSurfacesOnBrowser(t *testing.T) {
	a := NewApp(nil, nil, nil, nil)

	a.Update(editorFinishedMsg{err: errors.New("exec: \"nvim\": executable file not found")})

	if !a.browser.MessageErr || !strings.Contains(a.browser.Message, "nvim") {
		t.Errorf("browser message = %q (err=%v), want editor failure surfaced",
			a.browser.Message, a.browser.MessageErr)
	}
}

func TestEditorSuccessLeavesNoMessage(t *testing.T) {
	a := NewApp(nil, nil, nil, nil)

	a.Update(editorFinishedMsg{})

	if a.browser.Message != "" {
		t.Errorf("browser message = %q after clean editor exit, want empty", a.browser.Message)
	}
}
