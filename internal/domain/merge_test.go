package domain

import "testing"

func TestMergeSnapshots(t *testing.T) {
	left := &IndexSnapshot{
		RootPath:    "/data/aff",
		IndexedAtMs: 100,
		Folders: []FolderEntry{
			{Path: "", Name: "aff", FileCount: 2},
			{Path: "briefs", Name: "briefs", ParentPath: ptr(""), Depth: 1, FileCount: 1},
		},
		Files: []IndexedFile{
			{ID: 1, FileName: "case.md", RelativePath: "case.md", FolderPath: ""},
			{ID: 2, FileName: "extensions.md", RelativePath: "briefs/extensions.md", FolderPath: "briefs"},
		},
	}
	right := &IndexSnapshot{
		RootPath:    "/data/neg",
		IndexedAtMs: 200,
		Folders: []FolderEntry{
			{Path: "", Name: "neg", FileCount: 1},
		},
		Files: []IndexedFile{
			{ID: 3, FileName: "answers.md", RelativePath: "answers.md", FolderPath: ""},
		},
	}

	merged := MergeSnapshots([]*IndexSnapshot{left, right})

	if merged.RootPath != AllRootsPath {
		t.Errorf("root path = %q, want %q", merged.RootPath, AllRootsPath)
	}
	if merged.IndexedAtMs != 200 {
		t.Errorf("indexedAtMs = %d, want newest (200)", merged.IndexedAtMs)
	}

	folders := make(map[string]FolderEntry)
	for _, f := range merged.Folders {
		folders[f.Path] = f
	}
	if _, ok := folders[""]; !ok {
		t.Fatal("merged snapshot missing synthetic root folder")
	}
	if folders[""].FileCount != 3 {
		t.Errorf("root fileCount = %d, want 3", folders[""].FileCount)
	}
	if got := folders["aff"]; got.ParentPath == nil || *got.ParentPath != "" || got.Depth != 1 {
		t.Errorf("aff folder = %+v, want depth 1 child of root", got)
	}
	if got := folders["aff/briefs"]; got.ParentPath == nil || *got.ParentPath != "aff" || got.Depth != 2 {
		t.Errorf("aff/briefs folder = %+v, want depth 2 child of aff", got)
	}

	files := make(map[int64]IndexedFile)
	for _, f := range merged.Files {
		files[f.ID] = f
	}
	if files[2].FolderPath != "aff/briefs" || files[2].RelativePath != "aff/briefs/extensions.md" {
		t.Errorf("file 2 = %+v, want namespaced under aff/briefs", files[2])
	}
	if files[3].FolderPath != "neg" {
		t.Errorf("file 3 folderPath = %q, want %q", files[3].FolderPath, "neg")
	}
}

func TestMergeSnapshots_DuplicateRootNames(t *testing.T) {
	a := &IndexSnapshot{RootPath: "/one/cards", Folders: []FolderEntry{{Path: "", Name: "cards"}}}
	b := &IndexSnapshot{RootPath: "/two/cards", Folders: []FolderEntry{{Path: "", Name: "cards"}}}

	merged := MergeSnapshots([]*IndexSnapshot{a, b})

	paths := make(map[string]bool)
	for _, f := range merged.Folders {
		if paths[f.Path] {
			t.Fatalf("duplicate folder path %q in merged snapshot", f.Path)
		}
		paths[f.Path] = true
	}
	if !paths["cards"] || !paths["cards (2)"] {
		t.Errorf("expected disambiguated prefixes, got %v", paths)
	}
}

func TestMergeSnapshots_SkipsNil(t *testing.T) {
	merged := MergeSnapshots([]*IndexSnapshot{nil})
	if len(merged.Folders) != 1 || len(merged.Files) != 0 {
		t.Errorf("merged nil-only = %d folders %d files, want just the synthetic root",
			len(merged.Folders), len(merged.Files))
	}
}
