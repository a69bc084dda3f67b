package sqlite

import (
	"database/sql"

	"cardbox/internal/ports"
)

var _ ports.PrefStore = (*Index)(nil)

// CaptureTarget returns the remembered capture destination for a root, or
// "" when none has been set.
func (idx *Index) CaptureTarget(rootPath string) (string, error) {
	var target string
	err := idx.db.QueryRow(
		`SELECT capture_target FROM prefs WHERE root_path = ?`, rootPath,
	).Scan(&target)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return target, err
}

// SetCaptureTarget remembers the capture destination for a root.
func (idx *Index) SetCaptureTarget(rootPath, targetPath string) error {
	_, err := idx.db.Exec(`
		INSERT INTO prefs (root_path, capture_target) VALUES (?, ?)
		ON CONFLICT(root_path) DO UPDATE SET capture_target = excluded.capture_target
	`, rootPath, targetPath)
	return err
}
