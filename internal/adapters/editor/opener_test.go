package editor

import "testing"

func TestEditorArgs(t *testing.T) {
	cases := []struct {
		editor string
		line   int64
		want   []string
	}{
		{"nvim", 0, []string{"+1", "case.md"}},
		{"/usr/bin/vim", 14, []string{"+15", "case.md"}},
		{"code", 14, []string{"case.md"}},
		{"nvim", -1, []string{"case.md"}},
	}
	for _, c := range cases {
		got := editorArgs(c.editor, "case.md", c.line)
		if len(got) != len(c.want) {
			t.Errorf("editorArgs(%q, %d) = %v, want %v", c.editor, c.line, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("editorArgs(%q, %d) = %v, want %v", c.editor, c.line, got, c.want)
				break
			}
		}
	}
}
