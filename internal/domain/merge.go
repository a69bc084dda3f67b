package domain

import (
	"path"
	"path/filepath"
	"strconv"
)

// AllRootsPath identifies the synthesized merged snapshot. It is never a
// real root path.
const AllRootsPath = ""

// MergeSnapshots synthesizes an in-memory all-roots snapshot by namespacing
// every folder and file path with a per-root prefix (the root's base name,
// suffixed when two roots share one). File IDs are engine-global and carry
// over unchanged. The merged snapshot has no backing persistence.
func MergeSnapshots(snapshots []*IndexSnapshot) *IndexSnapshot {
	merged := &IndexSnapshot{RootPath: AllRootsPath}
	merged.Folders = append(merged.Folders, FolderEntry{Path: "", Name: "All roots"})

	seen := make(map[string]int)
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		prefix := filepath.Base(snap.RootPath)
		if prefix == "." || prefix == string(filepath.Separator) {
			prefix = snap.RootPath
		}
		seen[prefix]++
		if n := seen[prefix]; n > 1 {
			prefix += " (" + strconv.Itoa(n) + ")"
		}

		if snap.IndexedAtMs > merged.IndexedAtMs {
			merged.IndexedAtMs = snap.IndexedAtMs
		}

		rootEntry := FolderEntry{
			Path:       prefix,
			Name:       prefix,
			ParentPath: ptr(""),
			Depth:      1,
		}
		for _, folder := range snap.Folders {
			if folder.Path == "" {
				rootEntry.FileCount = folder.FileCount
				continue
			}
			parent := prefix
			if folder.ParentPath != nil && *folder.ParentPath != "" {
				parent = path.Join(prefix, *folder.ParentPath)
			}
			merged.Folders = append(merged.Folders, FolderEntry{
				Path:       path.Join(prefix, folder.Path),
				Name:       folder.Name,
				ParentPath: ptr(parent),
				Depth:      folder.Depth + 1,
				FileCount:  folder.FileCount,
			})
		}
		merged.Folders = append(merged.Folders, rootEntry)
		merged.Folders[0].FileCount += rootEntry.FileCount

		for _, file := range snap.Files {
			folderPath := prefix
			if file.FolderPath != "" {
				folderPath = path.Join(prefix, file.FolderPath)
			}
			merged.Files = append(merged.Files, IndexedFile{
				ID:           file.ID,
				FileName:     file.FileName,
				RelativePath: path.Join(prefix, file.RelativePath),
				FolderPath:   folderPath,
				ModifiedMs:   file.ModifiedMs,
				HeadingCount: file.HeadingCount,
			})
		}
	}
	return merged
}

func ptr(s string) *string {
	return &s
}
