package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// previewResource is the transient on-disk copy of the loaded document that
// external viewers can display while the user fills the form. One is created
// per upload and must be released exactly once, on reset or teardown; holding
// two live resources in a session is a bug.
type previewResource struct {
	path     string
	released bool
}

// newPreviewResource copies the document bytes into a temp file.
func newPreviewResource(sourcePath string) (*previewResource, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document for preview: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "formfill-preview-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to copy preview bytes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close preview file: %w", err)
	}

	return &previewResource{path: tmp.Name()}, nil
}

// Path returns the preview file location, or "" after release.
func (p *previewResource) Path() string {
	if p.released {
		return ""
	}
	return p.path
}

// Release removes the preview file. Releasing twice is an error so that
// lifecycle bugs surface instead of hiding behind an idempotent no-op.
func (p *previewResource) Release() error {
	if p.released {
		return fmt.Errorf("preview resource %s already released", filepath.Base(p.path))
	}
	p.released = true
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview file: %w", err)
	}
	return nil
}
