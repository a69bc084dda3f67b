package application

import (
	"fmt"
	"strings"

	"cardbox/internal/domain"
)

// RowKind tags what a display row represents.
type RowKind int

const (
	RowFolder RowKind = iota
	RowFile
	RowHeading
	RowBlock
	RowAuthor
	RowPlaceholder
)

// Row is an ephemeral display row. Rows are never persisted or mutated in
// place; the whole sequence is re-derived from the snapshot index, preview
// cache, and expansion state on every relevant state change. Key is a
// deterministic composite of the path through the hierarchy, so re-running
// the builder after a state change produces the same key for logically the
// same row.
type Row struct {
	Key      string
	Kind     RowKind
	Depth    int
	Label    string
	SubLabel string

	// Leaf payload
	CopyText   string
	SourcePath string

	// Navigation payload
	FolderPath   string
	FileID       int64
	HeadingOrder int64
	HeadingLevel int64
	HasChildren  bool
	Expanded     bool
}

// HeadingKey is the mode-independent collapse key for a heading, shared by
// the collapse set and the rich-preview cache.
func HeadingKey(fileID, order, level int64) string {
	return fmt.Sprintf("%d:%d:%d", fileID, order, level)
}

func folderRowKey(mode, path string) string { return mode + ":folder:" + path }
func fileRowKey(mode string, id int64) string {
	return fmt.Sprintf("%s:file:%d", mode, id)
}
func headingRowKey(mode string, fileID, order, level int64) string {
	return mode + ":heading:" + HeadingKey(fileID, order, level)
}

// BuildInput is everything BuildTreeRows derives rows from. The builder
// only reads; all fields are owned by the caller.
type BuildInput struct {
	Index             *SnapshotIndex
	Query             string
	Hits              []domain.SearchHit
	Previews          *PreviewCache
	ExpandedFolders   PathSet
	ExpandedFiles     IDSet
	CollapsedHeadings KeySet
}

// SearchActive reports whether the query selects search mode: at least two
// characters after trimming.
func (in BuildInput) SearchActive() bool {
	return len(strings.TrimSpace(in.Query)) >= 2
}

// BuildTreeRows materializes the ordered display row sequence. It is a
// pure function of its input: identical arguments yield identical rows,
// and every key is unique within one call's output.
func BuildTreeRows(in BuildInput) []Row {
	if in.Index == nil {
		return nil
	}
	b := &rowBuilder{in: in, seen: make(map[string]struct{})}
	if in.SearchActive() {
		b.buildSearch()
	} else {
		b.walkFolder("", 0)
	}
	return b.rows
}

type rowBuilder struct {
	in   BuildInput
	rows []Row
	seen map[string]struct{}
}

// emit appends a row unless its key was already emitted; duplicates keep
// their first-seen position.
func (b *rowBuilder) emit(row Row) {
	if _, dup := b.seen[row.Key]; dup {
		return
	}
	b.seen[row.Key] = struct{}{}
	b.rows = append(b.rows, row)
}

// Browse mode: depth-first walk from the root folder. Collapsed folders do
// not recurse; collapsed files contribute no detail rows.
func (b *rowBuilder) walkFolder(path string, depth int) {
	folder := b.in.Index.FolderByPath[path]
	if folder == nil {
		return
	}
	expanded := b.in.ExpandedFolders.Has(path)
	b.emit(Row{
		Key:        folderRowKey("b", path),
		Kind:       RowFolder,
		Depth:      depth,
		Label:      folder.Name,
		SubLabel:   fmt.Sprintf("%d files", folder.FileCount),
		FolderPath: path,
		Expanded:   expanded,
	})
	if !expanded {
		return
	}

	for _, child := range b.in.Index.ChildFolders[path] {
		b.walkFolder(child.Path, depth+1)
	}
	for _, file := range b.in.Index.FilesByFolder[path] {
		b.emitFileSubtree(file, depth+1)
	}
}

func (b *rowBuilder) emitFileSubtree(file *domain.IndexedFile, depth int) {
	expanded := b.in.ExpandedFiles.Has(file.ID)
	b.emit(Row{
		Key:        fileRowKey("b", file.ID),
		Kind:       RowFile,
		Depth:      depth,
		Label:      file.FileName,
		SubLabel:   fmt.Sprintf("%d headings", file.HeadingCount),
		SourcePath: file.RelativePath,
		FileID:     file.ID,
		Expanded:   expanded,
	})
	if !expanded {
		return
	}

	pv := b.in.Previews.File(file.ID)
	if pv == nil {
		b.emit(Row{
			Key:    fmt.Sprintf("b:loading:%d", file.ID),
			Kind:   RowPlaceholder,
			Depth:  depth + 1,
			Label:  "Loading…",
			FileID: file.ID,
		})
		return
	}

	if len(pv.Headings) == 0 {
		b.emit(Row{
			Key:    fmt.Sprintf("b:empty:%d", file.ID),
			Kind:   RowPlaceholder,
			Depth:  depth + 1,
			Label:  "No headings",
			FileID: file.ID,
		})
	} else {
		nodes := domain.AnnotateOutline(pv.Headings)
		visible := domain.OutlineVisibility(pv.Headings, func(i int) bool {
			h := pv.Headings[i]
			return b.in.CollapsedHeadings.Has(HeadingKey(file.ID, h.Order, h.Level))
		})
		for i, h := range pv.Headings {
			if !visible[i] {
				continue
			}
			b.emit(Row{
				Key:          headingRowKey("b", file.ID, h.Order, h.Level),
				Kind:         RowHeading,
				Depth:        depth + 1 + nodes[i].Depth,
				Label:        h.Text,
				CopyText:     h.CopyText,
				SourcePath:   pv.AbsolutePath,
				FileID:       file.ID,
				HeadingOrder: h.Order,
				HeadingLevel: h.Level,
				HasChildren:  nodes[i].HasChildren,
				Expanded:     !b.in.CollapsedHeadings.Has(HeadingKey(file.ID, h.Order, h.Level)),
			})
		}
	}

	for _, block := range pv.CiteBlocks {
		b.emit(Row{
			Key:          fmt.Sprintf("b:block:%d:%d", file.ID, block.Order),
			Kind:         RowBlock,
			Depth:        depth + 1,
			Label:        block.Text,
			SubLabel:     block.StyleLabel,
			CopyText:     block.Text,
			SourcePath:   pv.AbsolutePath,
			FileID:       file.ID,
			HeadingOrder: block.Order,
		})
	}
}

// Search mode: ranked hits in given order. Hits referencing files outside
// the loaded snapshot are skipped entirely. Folder breadcrumbs and file
// rows are deduplicated by key at their first-seen position.
func (b *rowBuilder) buildSearch() {
	for _, hit := range b.in.Hits {
		file := b.in.Index.FileByID[hit.FileID]
		if file == nil {
			continue
		}

		fileDepth := b.emitBreadcrumbs(file.FolderPath)
		b.emit(Row{
			Key:        fileRowKey("s", file.ID),
			Kind:       RowFile,
			Depth:      fileDepth,
			Label:      file.FileName,
			SubLabel:   file.RelativePath,
			SourcePath: file.RelativePath,
			FileID:     file.ID,
			Expanded:   true,
		})

		switch hit.Kind {
		case domain.HitKindHeading:
			b.emitHeadingHit(hit, file, fileDepth)
		case domain.HitKindAuthor:
			b.emit(Row{
				Key:        fmt.Sprintf("s:author:%d:%s", file.ID, hit.HeadingText),
				Kind:       RowAuthor,
				Depth:      fileDepth + 1,
				Label:      hit.HeadingText,
				SubLabel:   "author",
				CopyText:   hit.HeadingText,
				SourcePath: hit.AbsolutePath,
				FileID:     file.ID,
			})
		}
	}
}

// emitBreadcrumbs emits every ancestor folder of folderPath from the root
// down, returning the depth at which the file row belongs.
func (b *rowBuilder) emitBreadcrumbs(folderPath string) int {
	var chain []*domain.FolderEntry
	for path := folderPath; ; {
		folder := b.in.Index.FolderByPath[path]
		if folder == nil {
			break
		}
		chain = append(chain, folder)
		if folder.ParentPath == nil {
			break
		}
		path = *folder.ParentPath
	}
	for i := len(chain) - 1; i >= 0; i-- {
		folder := chain[i]
		b.emit(Row{
			Key:        folderRowKey("s", folder.Path),
			Kind:       RowFolder,
			Depth:      len(chain) - 1 - i,
			Label:      folder.Name,
			FolderPath: folder.Path,
			Expanded:   true,
		})
	}
	return len(chain)
}

func (b *rowBuilder) emitHeadingHit(hit domain.SearchHit, file *domain.IndexedFile, fileDepth int) {
	pv := b.in.Previews.File(file.ID)
	if pv == nil {
		b.emit(Row{
			Key:    fmt.Sprintf("s:loading:%d", file.ID),
			Kind:   RowPlaceholder,
			Depth:  fileDepth + 1,
			Label:  "Loading…",
			FileID: file.ID,
		})
		return
	}

	target := domain.FindHeading(pv.Headings, hit.HeadingOrder, hit.HeadingLevel, hit.HeadingText)
	if target < 0 {
		// Known approximation: the hit's denormalized fields stand in for
		// a heading the preview no longer contains; no ancestor chain is
		// inferred.
		b.emit(Row{
			Key:          headingRowKey("s", file.ID, hit.HeadingOrder, hit.HeadingLevel),
			Kind:         RowHeading,
			Depth:        fileDepth + 1,
			Label:        hit.HeadingText,
			CopyText:     hit.HeadingText,
			SourcePath:   hit.AbsolutePath,
			FileID:       file.ID,
			HeadingOrder: hit.HeadingOrder,
			HeadingLevel: hit.HeadingLevel,
		})
		return
	}

	for pos, idx := range domain.AncestorChain(pv.Headings, target) {
		h := pv.Headings[idx]
		b.emit(Row{
			Key:          headingRowKey("s", file.ID, h.Order, h.Level),
			Kind:         RowHeading,
			Depth:        fileDepth + 1 + pos,
			Label:        h.Text,
			CopyText:     h.CopyText,
			SourcePath:   pv.AbsolutePath,
			FileID:       file.ID,
			HeadingOrder: h.Order,
			HeadingLevel: h.Level,
			HasChildren:  idx != target,
			Expanded:     true,
		})
	}
}
