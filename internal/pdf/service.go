package pdf

import (
	"fmt"

	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf/security"
)

// Service handles document-level operations by orchestrating the loader,
// previewer and browser behind a single path-validated surface.
type Service struct {
	maxFileSize     int64
	loader          *Loader
	previewer       *Previewer
	browser         *Browser
	pathValidator   *security.PathValidator
	exportValidator *security.PathValidator
}

// NewService creates a new document service rooted at configuredDirectory.
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		loader:        NewLoader(maxFileSize),
		previewer:     NewPreviewer(maxFileSize),
		browser:       NewBrowser(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// Load validates and parses the document at path.
func (s *Service) Load(path string) (*Document, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.loader.Load(path)
}

// Preview returns a text preview of the document at req.Path.
func (s *Service) Preview(req PreviewRequest) (*PreviewResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.previewer.Preview(req)
}

// PreviewOwned previews a server-managed working copy. The path never comes
// from user input, so the configured-directory check is skipped.
func (s *Service) PreviewOwned(req PreviewRequest) (*PreviewResult, error) {
	return s.previewer.Preview(req)
}

// Browse lists fillable PDFs under req.Directory, defaulting to the
// configured directory.
func (s *Service) Browse(req BrowseRequest) (*BrowseResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	if err := s.pathValidator.ValidatePath(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.browser.Browse(req)
}

// AllowExportDir registers a second directory tree export destinations may
// resolve into. The configured directory is always allowed.
func (s *Service) AllowExportDir(dir string) error {
	exportValidator, err := security.NewPathValidator(dir)
	if err != nil {
		return fmt.Errorf("failed to create export path validator: %w", err)
	}
	s.exportValidator = exportValidator
	return nil
}

// ValidateExportPath checks that an export destination stays inside the
// configured directory tree or the registered export directory tree.
func (s *Service) ValidateExportPath(path string) error {
	err := s.pathValidator.ValidatePath(path)
	if err == nil {
		return nil
	}
	if s.exportValidator != nil {
		return s.exportValidator.ValidatePath(path)
	}
	return err
}

// ConfiguredDirectory returns the directory the service is rooted at.
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// GetMaxFileSize returns the maximum accepted file size.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
