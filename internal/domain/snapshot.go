package domain

// RootSummary describes one indexed root as reported by the index engine.
type RootSummary struct {
	Path          string
	FileCount     int64
	HeadingCount  int64
	AddedAtMs     int64
	LastIndexedMs int64
}

// IndexStats holds the totals of one indexing run.
type IndexStats struct {
	Scanned           int
	Updated           int
	Skipped           int
	Removed           int
	HeadingsExtracted int
	ElapsedMs         int64
}

// Indexing phases reported through IndexProgress.
const (
	PhaseDiscovering = "discovering"
	PhaseIndexing    = "indexing"
	PhaseCleaning    = "cleaning"
	PhaseComplete    = "complete"
)

// IndexProgress is an incremental progress event emitted while a root is
// being indexed.
type IndexProgress struct {
	RootPath    string
	Phase       string
	Discovered  int
	Changed     int
	Processed   int
	Updated     int
	Skipped     int
	Removed     int
	ElapsedMs   int64
	CurrentFile string
}

// FolderEntry is one folder within a snapshot. Path is the unique key;
// the empty path denotes the snapshot root and is the only folder whose
// ParentPath is nil.
type FolderEntry struct {
	Path       string
	Name       string
	ParentPath *string
	Depth      int
	FileCount  int
}

// IndexedFile is one card file within a snapshot. ID is unique within the
// snapshot. HeadingCount is a denormalized cache; the exact outline is only
// known once the file's preview has been fetched.
type IndexedFile struct {
	ID           int64
	FileName     string
	RelativePath string
	FolderPath   string
	ModifiedMs   int64
	HeadingCount int64
}

// IndexSnapshot is an immutable-for-its-lifetime copy of one root's indexed
// folders and files. A merged all-roots snapshot is synthesized in memory by
// MergeSnapshots and has no backing persistence.
type IndexSnapshot struct {
	RootPath    string
	IndexedAtMs int64
	Folders     []FolderEntry
	Files       []IndexedFile
}

// FileHeading is one heading of a card file. Order values are unique and
// strictly increasing within a file and encode document order, not tree
// order. Level is 1..4; a heading of level L is a child of the nearest
// preceding heading with level < L. CopyText may differ from Text.
type FileHeading struct {
	ID       int64
	Order    int64
	Level    int64
	Text     string
	CopyText string
}

// TaggedBlock is a non-heading extracted content unit carrying a style
// label, e.g. a cite block.
type TaggedBlock struct {
	Order      int64
	StyleLabel string
	Text       string
}

// FilePreview is the lazily fetched detail of a single card file.
type FilePreview struct {
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingCount int64
	Headings     []FileHeading
	CiteBlocks   []TaggedBlock
}

// Search hit kinds.
const (
	HitKindHeading = "heading"
	HitKindFile    = "file"
	HitKindAuthor  = "author"
)

// SearchHit is one ranked result from the index engine. Heading fields are
// denormalized copies and are only set for heading hits.
type SearchHit struct {
	Kind         string
	FileID       int64
	FileName     string
	RelativePath string
	AbsolutePath string
	HeadingLevel int64
	HeadingText  string
	HeadingOrder int64
	Score        float64
}

// CaptureTarget is a candidate destination document for captured content.
type CaptureTarget struct {
	RelativePath string
	AbsolutePath string
	Exists       bool
	EntryCount   int64
}

// CaptureTargetPreview is the live outline of a capture target, refreshed
// after every insert, delete, or move.
type CaptureTargetPreview struct {
	RelativePath string
	AbsolutePath string
	Exists       bool
	HeadingCount int64
	Headings     []FileHeading
}

// CaptureInsertResult is returned by the capture engine after an insert.
type CaptureInsertResult struct {
	CapturePath        string
	Marker             string
	TargetRelativePath string
}
