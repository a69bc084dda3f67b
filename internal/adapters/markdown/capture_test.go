package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardbox/internal/ports"
)

func writeTarget(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func headingTexts(t *testing.T, root, rel string) []string {
	t.Helper()
	engine := NewCaptureEngine()
	pv, err := engine.TargetPreview(root, rel)
	if err != nil {
		t.Fatal(err)
	}
	texts := make([]string, len(pv.Headings))
	for i, h := range pv.Headings {
		texts[i] = h.Text
	}
	return texts
}

func TestInsert_CreatesAndAppends(t *testing.T) {
	root := t.TempDir()
	engine := NewCaptureEngine()

	result, err := engine.Insert(ports.CaptureRequest{
		RootPath:     root,
		SourcePath:   "briefs/case.md",
		SectionTitle: "Contention 1",
		Content:      "Warming is real.",
		HeadingLevel: 2,
		ContextOrder: ports.AppendAtEnd,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TargetRelativePath != DefaultTargetName {
		t.Errorf("target = %q, want default", result.TargetRelativePath)
	}
	if result.Marker == "" {
		t.Error("missing insertion marker")
	}

	content, err := os.ReadFile(result.CapturePath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "## Contention 1") {
		t.Errorf("capture document missing heading:\n%s", text)
	}
	if !strings.Contains(text, "— briefs/case.md") {
		t.Errorf("capture document missing source label:\n%s", text)
	}
	if !strings.Contains(text, result.Marker) {
		t.Errorf("capture document missing marker:\n%s", text)
	}
}

func TestInsert_UnderContextHeading(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName, "intro\n# First\n\nbody\n\n# Second\n\nmore\n")
	engine := NewCaptureEngine()

	_, err := engine.Insert(ports.CaptureRequest{
		RootPath:     root,
		SectionTitle: "Nested",
		Content:      "captured",
		ContextOrder: 1, // "# First"
	})
	if err != nil {
		t.Fatal(err)
	}

	texts := headingTexts(t, root, DefaultTargetName)
	want := []string{"First", "Nested", "Second"}
	if strings.Join(texts, ",") != strings.Join(want, ",") {
		t.Errorf("headings = %v, want %v", texts, want)
	}
}

func TestInsert_UnderHeadingOnLineZero(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName, "# A\nbody\n# B\n")
	engine := NewCaptureEngine()

	// "# A" sits on line 0, so its heading order is 0. Order 0 must still
	// address it as a context; only negative orders mean append.
	_, err := engine.Insert(ports.CaptureRequest{
		RootPath:     root,
		SectionTitle: "Captured",
		Content:      "captured",
		ContextOrder: 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	texts := headingTexts(t, root, DefaultTargetName)
	want := []string{"A", "Captured", "B"}
	if strings.Join(texts, ",") != strings.Join(want, ",") {
		t.Errorf("headings = %v, want %v", texts, want)
	}
}

func TestInsert_RejectsEmptyContent(t *testing.T) {
	engine := NewCaptureEngine()
	if _, err := engine.Insert(ports.CaptureRequest{RootPath: t.TempDir(), Content: "   \n"}); err == nil {
		t.Error("empty content accepted")
	}
}

func TestResolveTarget_RejectsEscape(t *testing.T) {
	engine := NewCaptureEngine()
	_, err := engine.TargetPreview(t.TempDir(), "../outside.md")
	if err == nil {
		t.Error("path escape accepted")
	}
}

func TestDeleteHeading_RemovesSubtree(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName,
		"# Keep\n\n# Drop\n\n## Child\n\nbody\n\n# Tail\n")
	engine := NewCaptureEngine()

	doc, _ := ParseFile(filepath.Join(root, DefaultTargetName))
	dropOrder := doc.Headings[1].Order

	pv, err := engine.DeleteHeading(root, DefaultTargetName, dropOrder)
	if err != nil {
		t.Fatal(err)
	}

	texts := make([]string, len(pv.Headings))
	for i, h := range pv.Headings {
		texts[i] = h.Text
	}
	if strings.Join(texts, ",") != "Keep,Tail" {
		t.Errorf("headings after delete = %v, want [Keep Tail]", texts)
	}
}

func TestDeleteHeading_MissingOrder(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName, "# Only\n")
	engine := NewCaptureEngine()

	if _, err := engine.DeleteHeading(root, DefaultTargetName, 99); err == nil {
		t.Error("missing heading order accepted")
	}
}

func TestMoveHeading_RelocatesAfterTarget(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName,
		"# A\n\nbody a\n\n# B\n\nbody b\n\n# C\n\nbody c\n")
	engine := NewCaptureEngine()

	doc, _ := ParseFile(filepath.Join(root, DefaultTargetName))
	orderA := doc.Headings[0].Order
	orderC := doc.Headings[2].Order

	// Move A after C.
	pv, err := engine.MoveHeading(root, DefaultTargetName, orderA, orderC)
	if err != nil {
		t.Fatal(err)
	}
	texts := make([]string, len(pv.Headings))
	for i, h := range pv.Headings {
		texts[i] = h.Text
	}
	if strings.Join(texts, ",") != "B,C,A" {
		t.Errorf("headings after move = %v, want [B C A]", texts)
	}

	// The moved section keeps its body.
	content, _ := os.ReadFile(filepath.Join(root, DefaultTargetName))
	if !strings.Contains(string(content), "# A\n\nbody a") {
		t.Errorf("moved section lost its body:\n%s", content)
	}
}

func TestMoveHeading_NoopOnSameOrder(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, DefaultTargetName, "# A\n\n# B\n")
	engine := NewCaptureEngine()

	doc, _ := ParseFile(filepath.Join(root, DefaultTargetName))
	order := doc.Headings[0].Order
	pv, err := engine.MoveHeading(root, DefaultTargetName, order, order)
	if err != nil {
		t.Fatal(err)
	}
	if len(pv.Headings) != 2 || pv.Headings[0].Text != "A" {
		t.Errorf("noop move changed document: %+v", pv.Headings)
	}
}

func TestListTargets(t *testing.T) {
	root := t.TempDir()
	writeTarget(t, root, "captures/rebuttal.md", "# One\n# Two\n")
	engine := NewCaptureEngine()

	targets, err := engine.ListTargets(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}

	// Default target is listed first even before it exists.
	if targets[0].RelativePath != DefaultTargetName || targets[0].Exists {
		t.Errorf("default target = %+v, want non-existent %s", targets[0], DefaultTargetName)
	}
	if targets[1].RelativePath != "captures/rebuttal.md" || !targets[1].Exists || targets[1].EntryCount != 2 {
		t.Errorf("scanned target = %+v", targets[1])
	}
}

func TestTargetPreview_MissingFile(t *testing.T) {
	engine := NewCaptureEngine()
	pv, err := engine.TargetPreview(t.TempDir(), "capture.md")
	if err != nil {
		t.Fatal(err)
	}
	if pv.Exists || pv.HeadingCount != 0 {
		t.Errorf("missing target preview = %+v, want empty non-existent", pv)
	}
}
