package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is the handle to a loaded PDF. It owns the parsed pdfcpu context
// that extraction reads from and write-back mutates. At most one operation
// touches the context at a time; the owning session guarantees that.
type Document struct {
	Path  string
	Name  string
	Size  int64
	Pages int

	ctx *model.Context
}

// Context exposes the native document context to the forms packages.
func (d *Document) Context() *model.Context {
	return d.ctx
}

// Loader turns validated files into Documents.
type Loader struct {
	maxFileSize int64
	validator   *Validator
}

// NewLoader creates a new document loader with the specified constraints.
func NewLoader(maxFileSize int64) *Loader {
	return &Loader{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// Load validates the file at path and parses it into a Document.
// Validation failures are InvalidInputError; parse failures are plain
// wrapped errors since the boundary checks already passed.
func (l *Loader) Load(path string) (*Document, error) {
	if err := l.validator.ValidateUpload(path); err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return &Document{
		Path:  path,
		Name:  filepath.Base(path),
		Size:  fileInfo.Size(),
		Pages: ctx.PageCount,
		ctx:   ctx,
	}, nil
}
