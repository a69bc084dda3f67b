package sqlite

import (
	"fmt"
	"strings"

	"cardbox/internal/domain"
)

const defaultSearchLimit = 200

// Search runs a ranked full-text query across headings, file names, and
// author lines. Queries shorter than two characters return no hits. An
// empty rootPath searches every root.
func (idx *Index) Search(query string, rootPath string, limit int) ([]domain.SearchHit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var rootID int64
	if rootPath != domain.AllRootsPath {
		canonical, err := canonicalRoot(rootPath)
		if err != nil {
			canonical = rootPath
		}
		rootID, err = idx.rootID(canonical)
		if err != nil {
			return nil, err
		}
		if rootID == 0 {
			return nil, fmt.Errorf("no index found for %q", rootPath)
		}
	}

	sql := `
		SELECT s.kind, s.file_id, s.ord, s.level, s.text,
		       f.relative_path, f.absolute_path, bm25(search_fts)
		FROM search_fts s
		JOIN files f ON f.id = s.file_id
		WHERE search_fts MATCH ?`
	args := []any{match}
	if rootID != 0 {
		sql += ` AND s.root_id = ?`
		args = append(args, rootID)
	}
	sql += ` ORDER BY bm25(search_fts) LIMIT ?`
	args = append(args, limit)

	rows, err := idx.db.Query(sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		var text string
		var rank float64
		if err := rows.Scan(&hit.Kind, &hit.FileID, &hit.HeadingOrder, &hit.HeadingLevel,
			&text, &hit.RelativePath, &hit.AbsolutePath, &rank); err != nil {
			return nil, err
		}
		hit.FileName = fileNameFromRelative(hit.RelativePath)
		// bm25 ranks lower-is-better; flip so callers sort descending
		hit.Score = -rank
		switch hit.Kind {
		case domain.HitKindHeading:
			hit.HeadingText = text
		case domain.HitKindAuthor:
			hit.HeadingText = text
			hit.HeadingOrder = -1
		default:
			hit.HeadingOrder = -1
			hit.HeadingLevel = 0
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// ftsQuery turns user input into a prefix-matching FTS5 query, quoting each
// token so punctuation cannot break the match syntax. Returns "" when the
// trimmed input is under two characters.
func ftsQuery(query string) string {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < 2 {
		return ""
	}
	tokens := strings.Fields(trimmed)
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		escaped := strings.ReplaceAll(token, `"`, `""`)
		parts = append(parts, `"`+escaped+`"*`)
	}
	return strings.Join(parts, " ")
}
