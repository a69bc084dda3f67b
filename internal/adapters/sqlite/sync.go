package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"cardbox/internal/adapters/markdown"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

func nowMs() int64 {
	return time.Now().UnixMilli()
}

type candidate struct {
	relative   string
	absolute   string
	modifiedMs int64
	size       int64
}

// IndexRoot incrementally reindexes one root. Files whose modified time and
// size are unchanged are skipped; files no longer on disk are removed. The
// optional progress callback receives phase events throughout.
func (idx *Index) IndexRoot(path string, progress ports.ProgressFunc) (*domain.IndexStats, error) {
	canonical, err := canonicalRoot(path)
	if err != nil {
		return nil, err
	}
	rootID, err := idx.rootID(canonical)
	if err != nil {
		return nil, err
	}
	if rootID == 0 {
		return nil, fmt.Errorf("root %q is not registered; add it first", canonical)
	}

	started := time.Now()
	report := func(p domain.IndexProgress) {
		if progress != nil {
			p.RootPath = canonical
			p.ElapsedMs = time.Since(started).Milliseconds()
			progress(p)
		}
	}

	// Phase 1: discover card files on disk.
	report(domain.IndexProgress{Phase: domain.PhaseDiscovering})
	candidates, err := discoverCards(canonical)
	if err != nil {
		return nil, fmt.Errorf("could not scan root folder: %w", err)
	}
	report(domain.IndexProgress{Phase: domain.PhaseDiscovering, Discovered: len(candidates)})

	known, err := idx.knownFiles(rootID)
	if err != nil {
		return nil, err
	}

	stats := &domain.IndexStats{Scanned: len(candidates)}

	// Phase 2: parse and upsert changed files.
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.relative] = true
		prior, exists := known[c.relative]
		if exists && prior.modifiedMs == c.modifiedMs && prior.size == c.size {
			stats.Skipped++
			report(domain.IndexProgress{
				Phase:     domain.PhaseIndexing,
				Processed: stats.Updated + stats.Skipped,
				Updated:   stats.Updated,
				Skipped:   stats.Skipped,
			})
			continue
		}
		headings, err := idx.indexFile(rootID, c)
		if err != nil {
			return nil, fmt.Errorf("could not index %s: %w", c.relative, err)
		}
		stats.Updated++
		stats.HeadingsExtracted += headings
		report(domain.IndexProgress{
			Phase:       domain.PhaseIndexing,
			Processed:   stats.Updated + stats.Skipped,
			Updated:     stats.Updated,
			Skipped:     stats.Skipped,
			CurrentFile: c.relative,
		})
	}

	// Phase 3: remove entries whose files are gone.
	report(domain.IndexProgress{Phase: domain.PhaseCleaning})
	for relative, prior := range known {
		if seen[relative] {
			continue
		}
		if err := idx.removeFile(prior.id); err != nil {
			return nil, fmt.Errorf("could not remove stale entry %s: %w", relative, err)
		}
		stats.Removed++
	}

	if _, err := idx.db.Exec(
		`UPDATE roots SET last_indexed_ms = ? WHERE id = ?`, nowMs(), rootID,
	); err != nil {
		return nil, err
	}

	stats.ElapsedMs = time.Since(started).Milliseconds()
	report(domain.IndexProgress{
		Phase:   domain.PhaseComplete,
		Updated: stats.Updated,
		Skipped: stats.Skipped,
		Removed: stats.Removed,
	})
	return stats, nil
}

// IndexAll reindexes every registered root strictly sequentially. One root
// failing does not abort the rest; the merged stats cover the roots that
// succeeded and failed reports how many did not.
func (idx *Index) IndexAll(progress ports.ProgressFunc) (*domain.IndexStats, int, error) {
	roots, err := idx.ListRoots()
	if err != nil {
		return nil, 0, err
	}

	total := &domain.IndexStats{}
	failed := 0
	started := time.Now()
	for _, root := range roots {
		stats, err := idx.IndexRoot(root.Path, progress)
		if err != nil {
			failed++
			continue
		}
		total.Scanned += stats.Scanned
		total.Updated += stats.Updated
		total.Skipped += stats.Skipped
		total.Removed += stats.Removed
		total.HeadingsExtracted += stats.HeadingsExtracted
	}
	total.ElapsedMs = time.Since(started).Milliseconds()
	return total, failed, nil
}

// discoverCards walks the root for markdown files, skipping hidden
// directories.
func discoverCards(rootPath string) ([]candidate, error) {
	var candidates []candidate
	err := filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if path != rootPath && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		candidates = append(candidates, candidate{
			relative:   filepath.ToSlash(rel),
			absolute:   path,
			modifiedMs: info.ModTime().UnixMilli(),
			size:       info.Size(),
		})
		return nil
	})
	return candidates, err
}

type knownFile struct {
	id         int64
	modifiedMs int64
	size       int64
}

func (idx *Index) knownFiles(rootID int64) (map[string]knownFile, error) {
	rows, err := idx.db.Query(
		`SELECT id, relative_path, modified_ms, size FROM files WHERE root_id = ?`, rootID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := map[string]knownFile{}
	for rows.Next() {
		var relative string
		var f knownFile
		if err := rows.Scan(&f.id, &relative, &f.modifiedMs, &f.size); err != nil {
			return nil, err
		}
		known[relative] = f
	}
	return known, rows.Err()
}

// indexFile parses one card and replaces its database state in a single
// transaction. Returns the number of headings extracted.
func (idx *Index) indexFile(rootID int64, c candidate) (int, error) {
	doc, err := markdown.ParseFile(c.absolute)
	if err != nil {
		return 0, err
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var fileID int64
	err = tx.QueryRow(
		`SELECT id FROM files WHERE root_id = ? AND relative_path = ?`, rootID, c.relative,
	).Scan(&fileID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`
			INSERT INTO files (root_id, relative_path, absolute_path, modified_ms, size, heading_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rootID, c.relative, c.absolute, c.modifiedMs, c.size, len(doc.Headings))
		if err != nil {
			return 0, err
		}
		fileID, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if _, err := tx.Exec(`
			UPDATE files SET absolute_path = ?, modified_ms = ?, size = ?, heading_count = ?
			WHERE id = ?
		`, c.absolute, c.modifiedMs, c.size, len(doc.Headings), fileID); err != nil {
			return 0, err
		}
		for _, table := range []string{"headings", "authors"} {
			if _, err := tx.Exec(`DELETE FROM `+table+` WHERE file_id = ?`, fileID); err != nil {
				return 0, err
			}
		}
		if _, err := tx.Exec(`DELETE FROM search_fts WHERE file_id = ?`, fileID); err != nil {
			return 0, err
		}
	}

	for _, h := range doc.Headings {
		if _, err := tx.Exec(`
			INSERT INTO headings (file_id, ord, level, text) VALUES (?, ?, ?, ?)
		`, fileID, h.Order, h.Level, h.Text); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`
			INSERT INTO search_fts (text, kind, file_id, ord, level, root_id)
			VALUES (?, 'heading', ?, ?, ?, ?)
		`, h.Text, fileID, h.Order, h.Level, rootID); err != nil {
			return 0, err
		}
	}
	for _, a := range doc.Authors {
		if _, err := tx.Exec(`
			INSERT INTO authors (file_id, ord, name) VALUES (?, ?, ?)
		`, fileID, a.Order, a.Name); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`
			INSERT INTO search_fts (text, kind, file_id, ord, level, root_id)
			VALUES (?, 'author', ?, ?, 0, ?)
		`, a.Name, fileID, a.Order, rootID); err != nil {
			return 0, err
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO search_fts (text, kind, file_id, ord, level, root_id)
		VALUES (?, 'file', ?, -1, 0, ?)
	`, fileNameFromRelative(c.relative), fileID, rootID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(doc.Headings), nil
}

func (idx *Index) removeFile(fileID int64) error {
	if _, err := idx.db.Exec(`DELETE FROM search_fts WHERE file_id = ?`, fileID); err != nil {
		return err
	}
	// headings and authors cascade off files
	_, err := idx.db.Exec(`DELETE FROM files WHERE id = ?`, fileID)
	return err
}
