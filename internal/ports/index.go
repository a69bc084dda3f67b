package ports

import "cardbox/internal/domain"

// ProgressFunc consumes incremental progress events during indexing. It is
// called from the indexing goroutine; implementations must be cheap.
type ProgressFunc func(domain.IndexProgress)

// CardIndex is the contract with the index engine. All operations may fail;
// callers treat failures as transient and keep prior state.
type CardIndex interface {
	// Lifecycle
	Close() error

	// Root management
	ListRoots() ([]domain.RootSummary, error)
	AddRoot(path string) (string, error)
	RemoveRoot(path string) error

	// Indexing. IndexRoot reports progress through the optional callback.
	// IndexAll runs roots strictly sequentially and reports how many roots
	// failed alongside the merged stats of the ones that succeeded.
	IndexRoot(path string, progress ProgressFunc) (*domain.IndexStats, error)
	IndexAll(progress ProgressFunc) (stats *domain.IndexStats, failed int, err error)

	// Queries
	Snapshot(path string) (*domain.IndexSnapshot, error)
	FilePreview(fileID int64) (*domain.FilePreview, error)
	// HeadingPreview returns a single heading's section as plain text,
	// best effort: callers fall back to the heading's copy text.
	HeadingPreview(fileID int64, headingOrder int64) (string, error)
	Search(query string, rootPath string, limit int) ([]domain.SearchHit, error)
}
