package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"cardbox/internal/adapters/markdown"
	"cardbox/internal/domain"
	"cardbox/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.CardIndex backed by SQLite with an FTS5 content
// table. Build with the sqlite_fts5 tag.
type Index struct {
	db     *sql.DB
	dbPath string
}

var _ ports.CardIndex = (*Index)(nil)

// Open creates or opens the index database at dbPath.
func Open(dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in a single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS roots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			added_at_ms INTEGER NOT NULL,
			last_indexed_ms INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root_id INTEGER NOT NULL REFERENCES roots(id) ON DELETE CASCADE,
			relative_path TEXT NOT NULL,
			absolute_path TEXT NOT NULL,
			modified_ms INTEGER NOT NULL,
			size INTEGER NOT NULL,
			heading_count INTEGER NOT NULL DEFAULT 0,
			UNIQUE (root_id, relative_path)
		);
		CREATE TABLE IF NOT EXISTS headings (
			file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			level INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (file_id, ord)
		);
		CREATE TABLE IF NOT EXISTS authors (
			file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
			ord INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (file_id, ord)
		);
		CREATE TABLE IF NOT EXISTS prefs (
			root_path TEXT PRIMARY KEY,
			capture_target TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_files_root ON files(root_id);
		CREATE VIRTUAL TABLE IF NOT EXISTS search_fts USING fts5(
			text,
			kind UNINDEXED,
			file_id UNINDEXED,
			ord UNINDEXED,
			level UNINDEXED,
			root_id UNINDEXED
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Index{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// canonicalRoot resolves a root path to its canonical absolute form.
func canonicalRoot(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("root folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root path is not a folder: %s", abs)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

// ListRoots returns summaries for every registered root.
func (idx *Index) ListRoots() ([]domain.RootSummary, error) {
	rows, err := idx.db.Query(`
		SELECT r.path, r.added_at_ms, r.last_indexed_ms,
		       COUNT(f.id), COALESCE(SUM(f.heading_count), 0)
		FROM roots r
		LEFT JOIN files f ON f.root_id = r.id
		GROUP BY r.id
		ORDER BY r.path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.RootSummary
	for rows.Next() {
		var s domain.RootSummary
		if err := rows.Scan(&s.Path, &s.AddedAtMs, &s.LastIndexedMs, &s.FileCount, &s.HeadingCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// AddRoot registers a root and returns its canonical path.
func (idx *Index) AddRoot(path string) (string, error) {
	canonical, err := canonicalRoot(path)
	if err != nil {
		return "", err
	}
	_, err = idx.db.Exec(`
		INSERT INTO roots (path, added_at_ms) VALUES (?, ?)
		ON CONFLICT(path) DO NOTHING
	`, canonical, nowMs())
	if err != nil {
		return "", fmt.Errorf("could not add root: %w", err)
	}
	return canonical, nil
}

// RemoveRoot deletes a root and everything indexed beneath it.
func (idx *Index) RemoveRoot(path string) error {
	canonical, err := canonicalRoot(path)
	if err != nil {
		canonical = path
	}
	rootID, err := idx.rootID(canonical)
	if err != nil {
		return err
	}
	if rootID == 0 {
		return nil
	}
	if _, err := idx.db.Exec(`DELETE FROM search_fts WHERE root_id = ?`, rootID); err != nil {
		return err
	}
	_, err = idx.db.Exec(`DELETE FROM roots WHERE id = ?`, rootID)
	return err
}

// rootID returns the id for a canonical root path, 0 when unknown.
func (idx *Index) rootID(path string) (int64, error) {
	var id int64
	err := idx.db.QueryRow(`SELECT id FROM roots WHERE path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

// Snapshot materializes the indexed state of one root. Folders are derived
// from file paths, with ancestors synthesized and file counts aggregated
// up the chain.
func (idx *Index) Snapshot(path string) (*domain.IndexSnapshot, error) {
	canonical, err := canonicalRoot(path)
	if err != nil {
		canonical = path
	}
	rootID, err := idx.rootID(canonical)
	if err != nil {
		return nil, err
	}
	if rootID == 0 {
		return nil, fmt.Errorf("no index found for %q; add the folder first", canonical)
	}

	var indexedAt int64
	if err := idx.db.QueryRow(
		`SELECT last_indexed_ms FROM roots WHERE id = ?`, rootID,
	).Scan(&indexedAt); err != nil {
		return nil, fmt.Errorf("could not read root timestamp: %w", err)
	}

	rows, err := idx.db.Query(`
		SELECT id, relative_path, modified_ms, heading_count
		FROM files WHERE root_id = ? ORDER BY relative_path
	`, rootID)
	if err != nil {
		return nil, fmt.Errorf("could not query snapshot files: %w", err)
	}
	defer rows.Close()

	snap := &domain.IndexSnapshot{RootPath: canonical, IndexedAtMs: indexedAt}
	folders := map[string]*domain.FolderEntry{}
	ensureFolder(folders, "")

	for rows.Next() {
		var file domain.IndexedFile
		if err := rows.Scan(&file.ID, &file.RelativePath, &file.ModifiedMs, &file.HeadingCount); err != nil {
			return nil, err
		}
		file.FileName = fileNameFromRelative(file.RelativePath)
		file.FolderPath = folderFromRelative(file.RelativePath)
		ensureFolder(folders, file.FolderPath)

		for current := file.FolderPath; ; {
			folders[current].FileCount++
			if current == "" {
				break
			}
			current = parentOf(current)
		}
		snap.Files = append(snap.Files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, folder := range folders {
		snap.Folders = append(snap.Folders, *folder)
	}
	sort.Slice(snap.Folders, func(a, b int) bool {
		if snap.Folders[a].Depth != snap.Folders[b].Depth {
			return snap.Folders[a].Depth < snap.Folders[b].Depth
		}
		return snap.Folders[a].Path < snap.Folders[b].Path
	})
	return snap, nil
}

// ensureFolder adds the folder and all its ancestors to the map.
func ensureFolder(folders map[string]*domain.FolderEntry, path string) {
	if _, ok := folders[path]; ok {
		return
	}
	if path == "" {
		folders[""] = &domain.FolderEntry{Path: "", Name: "/"}
		return
	}
	parent := parentOf(path)
	ensureFolder(folders, parent)
	folders[path] = &domain.FolderEntry{
		Path:       path,
		Name:       fileNameFromRelative(path),
		ParentPath: &parent,
		Depth:      folders[parent].Depth + 1,
	}
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

func fileNameFromRelative(relative string) string {
	if i := strings.LastIndexByte(relative, '/'); i >= 0 {
		return relative[i+1:]
	}
	return relative
}

func folderFromRelative(relative string) string {
	return parentOf(relative)
}

// FilePreview re-extracts a file's outline from disk; the stored heading
// count is only a fallback when parsing fails.
func (idx *Index) FilePreview(fileID int64) (*domain.FilePreview, error) {
	var relative, absolute string
	var headingCount int64
	err := idx.db.QueryRow(`
		SELECT relative_path, absolute_path, heading_count FROM files WHERE id = ?
	`, fileID).Scan(&relative, &absolute, &headingCount)
	if err != nil {
		return nil, fmt.Errorf("could not load file preview metadata: %w", err)
	}

	preview := &domain.FilePreview{
		FileID:       fileID,
		FileName:     fileNameFromRelative(relative),
		RelativePath: relative,
		AbsolutePath: absolute,
		HeadingCount: headingCount,
	}

	doc, err := markdown.ParseFile(absolute)
	if err != nil {
		return preview, nil
	}
	for i, h := range doc.Headings {
		preview.Headings = append(preview.Headings, domain.FileHeading{
			ID:       int64(i + 1),
			Order:    h.Order,
			Level:    h.Level,
			Text:     h.Text,
			CopyText: h.CopyText,
		})
	}
	for _, b := range doc.Blocks {
		preview.CiteBlocks = append(preview.CiteBlocks, domain.TaggedBlock{
			Order:      b.Order,
			StyleLabel: b.StyleLabel,
			Text:       b.Text,
		})
	}
	preview.HeadingCount = int64(len(preview.Headings))
	return preview, nil
}

// HeadingPreview returns the plain text of one heading's section, best
// effort. Callers fall back to the heading's copy text on failure.
func (idx *Index) HeadingPreview(fileID int64, headingOrder int64) (string, error) {
	if headingOrder < 0 {
		return "", nil
	}
	var absolute string
	err := idx.db.QueryRow(
		`SELECT absolute_path FROM files WHERE id = ?`, fileID,
	).Scan(&absolute)
	if err != nil {
		return "", fmt.Errorf("could not load heading preview source file: %w", err)
	}

	doc, err := markdown.ParseFile(absolute)
	if err != nil {
		return "", err
	}
	start, end, ok := doc.SectionBounds(headingOrder)
	if !ok {
		return "", fmt.Errorf("heading order %d not found", headingOrder)
	}
	return strings.TrimSpace(strings.Join(doc.Lines[start:end], "\n")), nil
}
