package views

import (
	"errors"
	"testing"

	"cardbox/internal/application"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

var errFake = errors.New("disk full")

type fakeEngine struct {
	inserts []ports.CaptureRequest
}

func (f *fakeEngine) ListTargets(rootPath string) ([]domain.CaptureTarget, error) {
	return []domain.CaptureTarget{{RelativePath: "captured.md", Exists: true, EntryCount: 2}}, nil
}

func (f *fakeEngine) TargetPreview(rootPath, targetPath string) (*domain.CaptureTargetPreview, error) {
	return &domain.CaptureTargetPreview{RelativePath: targetPath, Exists: true}, nil
}

func (f *fakeEngine) Insert(req ports.CaptureRequest) (*domain.CaptureInsertResult, error) {
	f.inserts = append(f.inserts, req)
	return &domain.CaptureInsertResult{TargetRelativePath: req.TargetPath}, nil
}

func (f *fakeEngine) DeleteHeading(rootPath, targetPath string, headingOrder int64) (*domain.CaptureTargetPreview, error) {
	return f.TargetPreview(rootPath, targetPath)
}

func (f *fakeEngine) MoveHeading(rootPath, targetPath string, sourceOrder, targetOrder int64) (*domain.CaptureTargetPreview, error) {
	return f.TargetPreview(rootPath, targetPath)
}

type fakePrefs struct {
	target string
}

func (f *fakePrefs) CaptureTarget(rootPath string) (string, error) { return f.target, nil }

func (f *fakePrefs) SetCaptureTarget(rootPath, targetPath string) error {
	f.target = targetPath
	return nil
}

func testCapture() (*CaptureModel, *fakeEngine) {
	engine := &fakeEngine{}
	idx := &fakeIndex{snapshot: testSnapshot()}
	m := NewCaptureModel(idx, engine, &fakePrefs{})
	m.SetSource(application.Row{
		Key:          "b:heading:7:2:1",
		Kind:         application.RowBlock,
		Label:        "Warming impact",
		CopyText:     "> [cite] Smith 2024",
		SourcePath:   "/cards/case.md",
		FileID:       7,
		HeadingOrder: 2,
	}, "/cards")
	return m, engine
}

func TestTryInsert_BlocksPendingDuplicate(t *testing.T) {
	m, _ := testCapture()

	if cmd := m.tryInsert("captured.md", 5); cmd == nil {
		t.Fatal("first insert returned no command")
	}
	// The insert is in flight; pressing enter again must not issue another.
	if cmd := m.tryInsert("captured.md", 5); cmd != nil {
		t.Error("duplicate insert issued while the first was pending")
	}

	// A different context is a different capture.
	if cmd := m.tryInsert("captured.md", 9); cmd == nil {
		t.Error("insert to a different context was blocked")
	}
}

func TestTryInsert_HeadingZeroDistinctFromAppend(t *testing.T) {
	m, _ := testCapture()

	// Capturing under the heading with order 0 and appending at the end
	// are different destinations and must not share an idempotence key.
	m.tryInsert("captured.md", 0)
	m.Update(captureInsertedMsg{target: "captured.md", preview: &domain.CaptureTargetPreview{RelativePath: "captured.md"}})

	if cmd := m.tryInsert("captured.md", ports.AppendAtEnd); cmd == nil {
		t.Error("append blocked by a capture under heading order 0")
	}
}

func TestTryInsert_CommittedOnSuccess(t *testing.T) {
	m, _ := testCapture()
	ikey := m.insertKey("captured.md", 5)

	m.tryInsert("captured.md", 5)
	m.Update(captureInsertedMsg{target: "captured.md", preview: &domain.CaptureTargetPreview{RelativePath: "captured.md"}})

	if !m.inserted[ikey] {
		t.Error("successful insert was not committed")
	}
	if m.pendingInsert != "" {
		t.Errorf("pendingInsert = %q after success, want empty", m.pendingInsert)
	}
	if cmd := m.tryInsert("captured.md", 5); cmd != nil {
		t.Error("re-capture to the same place issued a command")
	}
}

func TestTryInsert_RetryAllowedAfterFailure(t *testing.T) {
	m, _ := testCapture()

	m.tryInsert("captured.md", 5)
	m.Update(captureErrMsg{err: errFake})

	if m.pendingInsert != "" {
		t.Errorf("pendingInsert = %q after failure, want empty", m.pendingInsert)
	}
	if cmd := m.tryInsert("captured.md", 5); cmd == nil {
		t.Error("retry after a failed insert was blocked")
	}
}

func TestSetSource_ResetsPendingButKeepsHistory(t *testing.T) {
	m, _ := testCapture()

	m.tryInsert("captured.md", 5)
	m.Update(captureInsertedMsg{target: "captured.md", preview: &domain.CaptureTargetPreview{RelativePath: "captured.md"}})
	ikey := m.insertKey("captured.md", 5)

	m.tryInsert("captured.md", 9)
	m.SetSource(application.Row{Key: "b:heading:7:4:2", Kind: application.RowHeading, Label: "Other"}, "/cards")

	if m.pendingInsert != "" {
		t.Error("pending insert survived a source change")
	}
	// Completed captures stay blocked for the session.
	if !m.inserted[ikey] {
		t.Error("committed capture forgotten on source change")
	}
}

func TestDeleteResult_StaleDropped(t *testing.T) {
	m, _ := testCapture()
	m.previewPath = "captured.md"

	// The delete's id is fixed when the command is issued; a preview load
	// racing past it must win.
	cmd := m.deleteCmd("captured.md", 3)
	m.gates.TargetPreview.Next()
	m.Update(cmd())
	if m.preview != nil {
		t.Errorf("superseded delete result applied: %+v", m.preview)
	}

	cmd = m.deleteCmd("captured.md", 3)
	m.Update(cmd())
	if m.preview == nil {
		t.Error("current delete result dropped")
	}
}

func TestMoveReselectsMovedHeading(t *testing.T) {
	m, _ := testCapture()

	// A move renumbers orders; the cursor must land on the heading by text.
	m.Update(captureMovedMsg{movedText: "# Warming", preview: &domain.CaptureTargetPreview{
		RelativePath: "captured.md",
		Headings: []domain.FileHeading{
			{Order: 0, Level: 1, Text: "# Politics"},
			{Order: 1, Level: 1, Text: "# Warming"},
			{Order: 2, Level: 1, Text: "# Framework"},
		},
	}})

	if m.headingPos != 1 {
		t.Errorf("headingPos = %d after move, want 1", m.headingPos)
	}
}

func TestStalePreviewDropped(t *testing.T) {
	m, _ := testCapture()

	old := m.gates.TargetPreview.Next()
	m.gates.TargetPreview.Next()

	m.Update(capturePreviewMsg{id: old, preview: &domain.CaptureTargetPreview{RelativePath: "stale.md"}})
	if m.preview != nil {
		t.Errorf("stale preview applied: %+v", m.preview)
	}

	m.Update(capturePreviewMsg{id: m.gates.TargetPreview.Current(), preview: &domain.CaptureTargetPreview{
		RelativePath: "captured.md",
		Headings:     []domain.FileHeading{{Order: 3, Level: 1, Text: "# Captured"}},
	}})
	if m.preview == nil || m.previewPath != "captured.md" {
		t.Errorf("fresh preview dropped, previewPath = %q", m.previewPath)
	}
}
