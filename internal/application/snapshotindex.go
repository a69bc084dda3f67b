package application

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cardbox/internal/domain"
)

// SnapshotIndex holds the four lookup structures derived from one snapshot.
// It is rebuilt whenever the snapshot reference changes and caches nothing
// across snapshots. Sibling folders and files are sorted by display name,
// case and locale aware.
type SnapshotIndex struct {
	Snapshot      *domain.IndexSnapshot
	FolderByPath  map[string]*domain.FolderEntry
	ChildFolders  map[string][]*domain.FolderEntry
	FilesByFolder map[string][]*domain.IndexedFile
	FileByID      map[int64]*domain.IndexedFile
}

// BuildSnapshotIndex derives a SnapshotIndex in O(n). Returns nil for a nil
// snapshot.
func BuildSnapshotIndex(snap *domain.IndexSnapshot) *SnapshotIndex {
	if snap == nil {
		return nil
	}

	idx := &SnapshotIndex{
		Snapshot:      snap,
		FolderByPath:  make(map[string]*domain.FolderEntry, len(snap.Folders)),
		ChildFolders:  make(map[string][]*domain.FolderEntry),
		FilesByFolder: make(map[string][]*domain.IndexedFile),
		FileByID:      make(map[int64]*domain.IndexedFile, len(snap.Files)),
	}

	for i := range snap.Folders {
		folder := &snap.Folders[i]
		idx.FolderByPath[folder.Path] = folder
		if folder.ParentPath != nil {
			idx.ChildFolders[*folder.ParentPath] = append(idx.ChildFolders[*folder.ParentPath], folder)
		}
	}
	for i := range snap.Files {
		file := &snap.Files[i]
		idx.FileByID[file.ID] = file
		idx.FilesByFolder[file.FolderPath] = append(idx.FilesByFolder[file.FolderPath], file)
	}

	// Collators are cheap to build and not safe for reuse across calls.
	coll := collate.New(language.Und, collate.Loose)
	for _, children := range idx.ChildFolders {
		sort.SliceStable(children, func(a, b int) bool {
			return coll.CompareString(children[a].Name, children[b].Name) < 0
		})
	}
	for _, files := range idx.FilesByFolder {
		sort.SliceStable(files, func(a, b int) bool {
			return coll.CompareString(files[a].FileName, files[b].FileName) < 0
		})
	}

	return idx
}
