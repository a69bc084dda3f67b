package markdown

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

// DefaultTargetName is the capture document used when a request names no
// target.
const DefaultTargetName = "capture.md"

// targetsDir is scanned for additional candidate destinations.
const targetsDir = "captures"

// CaptureEngine mutates markdown capture documents. Sections are addressed
// by heading order (the heading's line index), never by transient row
// identity. Every mutation re-reads, rewrites, and re-parses the target;
// the document on disk stays the single source of truth.
type CaptureEngine struct{}

var _ ports.CaptureEngine = (*CaptureEngine)(nil)

// NewCaptureEngine creates a capture engine.
func NewCaptureEngine() *CaptureEngine {
	return &CaptureEngine{}
}

// ListTargets returns the default capture document plus every markdown
// file under the root's captures directory. The default is listed even
// before it exists.
func (e *CaptureEngine) ListTargets(rootPath string) ([]domain.CaptureTarget, error) {
	targets := []domain.CaptureTarget{e.describeTarget(rootPath, DefaultTargetName)}

	dir := filepath.Join(rootPath, targetsDir)
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			return nil
		}
		targets = append(targets, e.describeTarget(rootPath, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("listing capture targets: %w", err)
	}

	sort.SliceStable(targets[1:], func(a, b int) bool {
		return targets[a+1].RelativePath < targets[b+1].RelativePath
	})
	return targets, nil
}

func (e *CaptureEngine) describeTarget(rootPath, relative string) domain.CaptureTarget {
	absolute := filepath.Join(rootPath, filepath.FromSlash(relative))
	target := domain.CaptureTarget{
		RelativePath: relative,
		AbsolutePath: absolute,
	}
	if doc, err := ParseFile(absolute); err == nil {
		target.Exists = true
		target.EntryCount = int64(len(doc.Headings))
	}
	return target
}

// TargetPreview parses the target document into its live outline.
func (e *CaptureEngine) TargetPreview(rootPath, targetPath string) (*domain.CaptureTargetPreview, error) {
	relative, absolute, err := resolveTarget(rootPath, targetPath)
	if err != nil {
		return nil, err
	}
	return previewAt(relative, absolute), nil
}

func previewAt(relative, absolute string) *domain.CaptureTargetPreview {
	preview := &domain.CaptureTargetPreview{
		RelativePath: relative,
		AbsolutePath: absolute,
	}
	doc, err := ParseFile(absolute)
	if err != nil {
		return preview
	}
	preview.Exists = true
	preview.HeadingCount = int64(len(doc.Headings))
	for i, h := range doc.Headings {
		preview.Headings = append(preview.Headings, domain.FileHeading{
			ID:       int64(i + 1),
			Order:    h.Order,
			Level:    h.Level,
			Text:     h.Text,
			CopyText: h.CopyText,
		})
	}
	return preview
}

// resolveTarget normalizes a relative-or-absolute target path. Relative
// paths may not escape the root.
func resolveTarget(rootPath, targetPath string) (relative, absolute string, err error) {
	if targetPath == "" {
		targetPath = DefaultTargetName
	}
	if filepath.IsAbs(targetPath) {
		rel, relErr := filepath.Rel(rootPath, targetPath)
		if relErr != nil || strings.HasPrefix(rel, "..") {
			return "", "", fmt.Errorf("capture target %q is outside root %q", targetPath, rootPath)
		}
		return filepath.ToSlash(rel), targetPath, nil
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(targetPath)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", fmt.Errorf("capture target path cannot contain '..': %q", targetPath)
	}
	return clean, filepath.Join(rootPath, filepath.FromSlash(clean)), nil
}

// Insert appends the request's content as a new section, nested after the
// context heading's subtree when a context order is given.
func (e *CaptureEngine) Insert(req ports.CaptureRequest) (*domain.CaptureInsertResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("cannot insert empty content into capture document")
	}
	relative, absolute, err := resolveTarget(req.RootPath, req.TargetPath)
	if err != nil {
		return nil, err
	}

	var lines []string
	if doc, parseErr := ParseFile(absolute); parseErr == nil {
		lines = doc.Lines
	} else if !os.IsNotExist(parseErr) {
		return nil, fmt.Errorf("reading capture target: %w", parseErr)
	}

	marker := fmt.Sprintf("<!-- cardbox:%d -->", time.Now().UnixMilli())
	section := buildSection(req, marker)

	insertAt := len(lines)
	if req.ContextOrder >= 0 {
		doc := ParseLines(lines)
		if _, end, ok := doc.SectionBounds(req.ContextOrder); ok {
			insertAt = end
		}
	}

	updated := make([]string, 0, len(lines)+len(section))
	updated = append(updated, lines[:insertAt]...)
	updated = append(updated, section...)
	updated = append(updated, lines[insertAt:]...)

	if err := writeLines(absolute, updated); err != nil {
		return nil, err
	}
	return &domain.CaptureInsertResult{
		CapturePath:        absolute,
		Marker:             marker,
		TargetRelativePath: relative,
	}, nil
}

func buildSection(req ports.CaptureRequest, marker string) []string {
	level := req.HeadingLevel
	if level < 1 || level > 4 {
		level = 1
	}
	if req.ContextOrder >= 0 && req.HeadingLevel == 0 {
		// Content nested under a context heading defaults one level in.
		level = 2
	}

	section := []string{
		"",
		strings.Repeat("#", int(level)) + " " + strings.TrimSpace(req.SectionTitle),
	}
	for _, line := range strings.Split(strings.TrimRight(req.Content, "\n"), "\n") {
		section = append(section, line)
	}
	if req.SourcePath != "" {
		section = append(section, "", "— "+req.SourcePath)
	}
	section = append(section, marker)
	return section
}

// DeleteHeading removes a heading and its subtree, returning the refreshed
// preview. The caller clears its insertion context if it pointed here.
func (e *CaptureEngine) DeleteHeading(rootPath, targetPath string, headingOrder int64) (*domain.CaptureTargetPreview, error) {
	relative, absolute, err := resolveTarget(rootPath, targetPath)
	if err != nil {
		return nil, err
	}
	doc, err := ParseFile(absolute)
	if err != nil {
		return nil, fmt.Errorf("capture target does not exist: %w", err)
	}

	start, end, ok := doc.SectionBounds(headingOrder)
	if !ok {
		return nil, fmt.Errorf("heading order %d not found in %s", headingOrder, relative)
	}

	updated := make([]string, 0, len(doc.Lines)-(end-start))
	updated = append(updated, doc.Lines[:start]...)
	updated = append(updated, doc.Lines[end:]...)

	if err := writeLines(absolute, updated); err != nil {
		return nil, err
	}
	return previewAt(relative, absolute), nil
}

// MoveHeading relocates the source subtree to sit directly after the
// target heading's subtree and returns the refreshed preview.
func (e *CaptureEngine) MoveHeading(rootPath, targetPath string, sourceOrder, targetOrder int64) (*domain.CaptureTargetPreview, error) {
	relative, absolute, err := resolveTarget(rootPath, targetPath)
	if err != nil {
		return nil, err
	}
	doc, err := ParseFile(absolute)
	if err != nil {
		return nil, fmt.Errorf("capture target does not exist: %w", err)
	}
	if sourceOrder == targetOrder {
		return previewAt(relative, absolute), nil
	}

	srcStart, srcEnd, ok := doc.SectionBounds(sourceOrder)
	if !ok {
		return nil, fmt.Errorf("source heading order %d not found in %s", sourceOrder, relative)
	}
	_, dstEnd, ok := doc.SectionBounds(targetOrder)
	if !ok {
		return nil, fmt.Errorf("target heading order %d not found in %s", targetOrder, relative)
	}

	section := append([]string(nil), doc.Lines[srcStart:srcEnd]...)
	remaining := make([]string, 0, len(doc.Lines)-len(section))
	remaining = append(remaining, doc.Lines[:srcStart]...)
	remaining = append(remaining, doc.Lines[srcEnd:]...)

	insertAt := dstEnd
	if srcEnd <= dstEnd {
		insertAt -= len(section)
	}

	updated := make([]string, 0, len(doc.Lines))
	updated = append(updated, remaining[:insertAt]...)
	updated = append(updated, section...)
	updated = append(updated, remaining[insertAt:]...)

	if err := writeLines(absolute, updated); err != nil {
		return nil, err
	}
	return previewAt(relative, absolute), nil
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating capture directory: %w", err)
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing capture document: %w", err)
	}
	return nil
}
