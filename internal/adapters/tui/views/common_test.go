package views

import (
	"strings"
	"testing"
)

func TestRenderStatus(t *testing.T) {
	var s ViewState
	var b strings.Builder

	s.renderStatus(&b)
	if b.Len() != 0 {
		t.Errorf("empty status rendered %q", b.String())
	}

	s.SetMessage("Copied", false)
	s.renderStatus(&b)
	if !strings.Contains(b.String(), "Copied") {
		t.Errorf("status output %q missing message", b.String())
	}

	b.Reset()
	s.SetMessage("disk full", true)
	s.renderStatus(&b)
	if !strings.Contains(b.String(), "disk full") {
		t.Errorf("error status output %q missing message", b.String())
	}

	s.ClearMessage()
	b.Reset()
	s.renderStatus(&b)
	if b.Len() != 0 {
		t.Errorf("cleared status rendered %q", b.String())
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := renderKeyHelp([]struct{ key, desc string }{
		{"j/k", "navigate"},
		{"q", "quit"},
	})
	for _, want := range []string{"j/k", "navigate", "q", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("help line %q missing %q", out, want)
		}
	}
}
