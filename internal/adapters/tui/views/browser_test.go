package views

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cardbox/internal/application"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

// fakeIndex satisfies ports.CardIndex with canned data.
type fakeIndex struct {
	snapshot *domain.IndexSnapshot
	hits     []domain.SearchHit
	previews map[int64]*domain.FilePreview
	sections map[string]string
}

func (f *fakeIndex) Close() error { return nil }

func (f *fakeIndex) ListRoots() ([]domain.RootSummary, error) {
	return []domain.RootSummary{{Path: f.snapshot.RootPath}}, nil
}

func (f *fakeIndex) AddRoot(path string) (string, error) { return path, nil }
func (f *fakeIndex) RemoveRoot(path string) error        { return nil }

func (f *fakeIndex) IndexRoot(path string, progress ports.ProgressFunc) (*domain.IndexStats, error) {
	if progress != nil {
		progress(domain.IndexProgress{RootPath: path, Phase: domain.PhaseDiscovering, Discovered: 3})
		progress(domain.IndexProgress{RootPath: path, Phase: domain.PhaseIndexing, Processed: 2, Changed: 3, CurrentFile: "case.md"})
	}
	return &domain.IndexStats{Updated: 3}, nil
}

func (f *fakeIndex) IndexAll(progress ports.ProgressFunc) (*domain.IndexStats, int, error) {
	stats, err := f.IndexRoot(f.snapshot.RootPath, progress)
	return stats, 0, err
}

func (f *fakeIndex) Snapshot(path string) (*domain.IndexSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeIndex) FilePreview(fileID int64) (*domain.FilePreview, error) {
	if pv, ok := f.previews[fileID]; ok {
		return pv, nil
	}
	return nil, fmt.Errorf("no file %d", fileID)
}

func (f *fakeIndex) HeadingPreview(fileID int64, headingOrder int64) (string, error) {
	key := fmt.Sprintf("%d:%d", fileID, headingOrder)
	if text, ok := f.sections[key]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no section %s", key)
}

func (f *fakeIndex) Search(query string, rootPath string, limit int) ([]domain.SearchHit, error) {
	return f.hits, nil
}

func testSnapshot() *domain.IndexSnapshot {
	return &domain.IndexSnapshot{
		RootPath: "/cards",
		Folders: []domain.FolderEntry{
			{Path: "", Name: "/", FileCount: 1},
		},
		Files: []domain.IndexedFile{
			{ID: 7, FileName: "case.md", RelativePath: "case.md", FolderPath: "", HeadingCount: 2},
		},
	}
}

func testBrowser() *BrowserModel {
	idx := &fakeIndex{snapshot: testSnapshot()}
	m := NewBrowserModel(idx)
	m.rootPaths = []string{"/cards"}
	m.snapIdx = application.BuildSnapshotIndex(idx.snapshot)
	m.Height = 40
	m.rebuildRows()
	return m
}

func TestRebuildRows_CursorFollowsKey(t *testing.T) {
	m := testBrowser()
	if len(m.rows) != 2 {
		t.Fatalf("got %d rows, want root folder + file", len(m.rows))
	}

	// Focus the file row, then expand it; the cursor must stay on the file.
	m.cursor = 1
	m.cursorKey = m.rows[1].Key
	m.expandedFiles = m.expandedFiles.Toggle(7)
	m.rebuildRows()

	if m.rows[m.cursor].Key != m.cursorKey {
		t.Errorf("cursor moved to %q, want %q", m.rows[m.cursor].Key, m.cursorKey)
	}
	// Expanded file without a cached preview shows a loading placeholder.
	if m.rows[len(m.rows)-1].Kind != application.RowPlaceholder {
		t.Errorf("last row = %+v, want loading placeholder", m.rows[len(m.rows)-1])
	}
}

func TestRebuildRows_CursorClampedWhenRowVanishes(t *testing.T) {
	m := testBrowser()
	m.expandedFiles = m.expandedFiles.Toggle(7)
	m.rebuildRows()
	m.cursor = len(m.rows) - 1
	m.cursorKey = m.rows[m.cursor].Key

	// Collapse the root folder; only the folder row survives.
	m.expandedFolders = m.expandedFolders.Toggle("")
	m.rebuildRows()

	if len(m.rows) != 1 || m.cursor != 0 {
		t.Errorf("rows=%d cursor=%d, want 1 row with cursor clamped", len(m.rows), m.cursor)
	}
}

func TestSearchResults_StaleDropped(t *testing.T) {
	m := testBrowser()

	old := m.gates.Search.Next()
	m.gates.Search.Next()

	m.Update(searchResultsMsg{id: old, hits: []domain.SearchHit{
		{Kind: domain.HitKindFile, FileID: 7},
	}})
	if m.hits != nil {
		t.Errorf("stale search results applied: %+v", m.hits)
	}

	fresh := m.gates.Search.Current()
	m.query = "case"
	m.Update(searchResultsMsg{id: fresh, hits: []domain.SearchHit{
		{Kind: domain.HitKindFile, FileID: 7},
	}})
	if len(m.hits) != 1 {
		t.Errorf("fresh search results dropped")
	}
}

func TestWarmupBatch_StaleDroppedButCacheKept(t *testing.T) {
	m := testBrowser()

	old := m.gates.Warmup.Next()
	m.gates.Warmup.Next()

	m.Update(warmupBatchMsg{id: old, previews: []*domain.FilePreview{{FileID: 7}}})
	if m.previews.HasFile(7) {
		t.Error("stale warm-up batch was applied")
	}

	m.Update(warmupBatchMsg{id: m.gates.Warmup.Current(), previews: []*domain.FilePreview{{FileID: 7}}})
	if !m.previews.HasFile(7) {
		t.Error("fresh warm-up batch was dropped")
	}
}

func TestHeadingPreview_StaleKeptInCacheOnly(t *testing.T) {
	m := testBrowser()

	old := m.gates.HeadingPreview.Next()
	m.gates.HeadingPreview.Next()

	m.Update(headingPreviewMsg{id: old, key: "7:2:1", text: "## Contention"})

	if m.previewText != "" {
		t.Errorf("stale preview displayed: %q", m.previewText)
	}
	// The fetched text is still cached for the next focus.
	if text, ok := m.previews.HeadingPreview("7:2:1"); !ok || text != "## Contention" {
		t.Errorf("stale preview not cached: %q %v", text, ok)
	}
}

func TestReindex_StreamsProgress(t *testing.T) {
	m := testBrowser()
	m.indexing = true

	batch, ok := m.reindex()().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("reindex did not batch run and wait commands: %T", batch)
	}

	// The run command emits every event before returning.
	if _, ok := batch[0]().(reindexDoneMsg); !ok {
		t.Fatal("run command did not report completion")
	}

	msg := batch[1]()
	pm, ok := msg.(indexProgressMsg)
	if !ok {
		t.Fatalf("wait command returned %T, want progress", msg)
	}
	_, cmd := m.Update(pm)
	if m.progress.Phase != domain.PhaseDiscovering || m.progress.Discovered != 3 {
		t.Errorf("progress after first event = %+v", m.progress)
	}
	if cmd == nil {
		t.Fatal("pump stopped after first event")
	}

	_, cmd = m.Update(cmd())
	if m.progress.Phase != domain.PhaseIndexing || m.progress.CurrentFile != "case.md" {
		t.Errorf("progress after second event = %+v", m.progress)
	}

	// The indexer closed the channel; the pump ends quietly.
	if msg := cmd(); msg != nil {
		t.Errorf("pump produced %T after channel close", msg)
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	m := testBrowser()
	m.Height = 20
	viewH := m.viewportRows()

	m.cursor = viewH + 5
	m.ensureCursorVisible()
	if m.cursor < m.scroll || m.cursor >= m.scroll+viewH {
		t.Errorf("cursor %d outside window [%d,%d)", m.cursor, m.scroll, m.scroll+viewH)
	}

	m.cursor = 0
	m.ensureCursorVisible()
	if m.scroll != 0 {
		t.Errorf("scroll = %d after moving to top, want 0", m.scroll)
	}
}
