package ports

// Opener opens a document in the user's external editor, fire and forget.
type Opener interface {
	Open(path string) error
	// OpenAt positions the cursor on a 0-based line when the editor
	// supports it.
	OpenAt(path string, line int64) error
}
