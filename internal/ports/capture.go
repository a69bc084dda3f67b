package ports

import "cardbox/internal/domain"

// AppendAtEnd is the ContextOrder sentinel for appending at the document
// end. Heading orders are 0-based, so 0 is a real heading (a document
// starting with a heading); only negative values mean "no context".
const AppendAtEnd int64 = -1

// CaptureRequest describes one insertion into a capture document.
type CaptureRequest struct {
	RootPath     string
	SourcePath   string
	SectionTitle string
	Content      string
	TargetPath   string // empty selects the default capture document
	HeadingLevel int64  // 1..4, or 0 when the content is not a heading
	// ContextOrder nests the insertion under the heading with this order
	// in the destination document; AppendAtEnd (any negative value)
	// appends at the end.
	ContextOrder int64
}

// CaptureEngine mutates destination documents. Every mutation returns a
// refreshed preview; the destination document is the single source of
// truth and clients always re-render from the returned preview.
type CaptureEngine interface {
	ListTargets(rootPath string) ([]domain.CaptureTarget, error)
	TargetPreview(rootPath, targetPath string) (*domain.CaptureTargetPreview, error)

	Insert(req CaptureRequest) (*domain.CaptureInsertResult, error)
	DeleteHeading(rootPath, targetPath string, headingOrder int64) (*domain.CaptureTargetPreview, error)
	MoveHeading(rootPath, targetPath string, sourceOrder, targetOrder int64) (*domain.CaptureTargetPreview, error)
}
