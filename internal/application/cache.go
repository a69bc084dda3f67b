package application

import "cardbox/internal/domain"

// PreviewCache owns the lazily fetched per-file previews and the rendered
// per-heading previews. It is created at application start, passed by
// reference to the row builder, and cleared on root switch. Each concern
// writes through its own path; previews for the same file are assumed
// identical, so last write wins.
type PreviewCache struct {
	files    map[int64]*domain.FilePreview
	headings map[string]string
}

// NewPreviewCache creates an empty cache.
func NewPreviewCache() *PreviewCache {
	return &PreviewCache{
		files:    make(map[int64]*domain.FilePreview),
		headings: make(map[string]string),
	}
}

// File returns the cached preview for a file, or nil when not yet loaded.
func (c *PreviewCache) File(id int64) *domain.FilePreview {
	if c == nil {
		return nil
	}
	return c.files[id]
}

// SetFile stores a fetched preview.
func (c *PreviewCache) SetFile(pv *domain.FilePreview) {
	if pv != nil {
		c.files[pv.FileID] = pv
	}
}

// HasFile reports whether a file's preview is cached.
func (c *PreviewCache) HasFile(id int64) bool {
	if c == nil {
		return false
	}
	_, ok := c.files[id]
	return ok
}

// HeadingPreview returns the cached rendered preview for a heading key
// (see HeadingKey).
func (c *PreviewCache) HeadingPreview(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	text, ok := c.headings[key]
	return text, ok
}

// SetHeadingPreview stores a rendered heading preview.
func (c *PreviewCache) SetHeadingPreview(key, text string) {
	c.headings[key] = text
}

// Clear drops everything; used when the active root changes.
func (c *PreviewCache) Clear() {
	c.files = make(map[int64]*domain.FilePreview)
	c.headings = make(map[string]string)
}
