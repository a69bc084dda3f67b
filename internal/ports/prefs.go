package ports

// PrefStore persists client-local preferences. Correctness never depends
// on writes succeeding; callers ignore write failures.
type PrefStore interface {
	// CaptureTarget returns the last chosen capture destination for a root,
	// or "" when none was remembered.
	CaptureTarget(rootPath string) (string, error)
	SetCaptureTarget(rootPath, targetPath string) error
}
