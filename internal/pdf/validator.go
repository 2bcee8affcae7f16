package pdf

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator gates the upload boundary. Anything that fails here is an
// InvalidInputError and never reaches the document loader.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new upload validator with the specified constraints.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateUpload performs full validation on a candidate file, including
// opening it to confirm it parses as a PDF.
func (v *Validator) ValidateUpload(filePath string) error {
	if filePath == "" {
		return invalidInput(filePath, "path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return invalidInput(filePath, "file does not exist")
	}
	if err != nil {
		return invalidInput(filePath, "cannot access file: %v", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	// Open the PDF to confirm it is actually parseable.
	f, _, err := pdf.Open(filePath)
	if err != nil {
		return invalidInput(filePath, "not a readable PDF: %v", err)
	}
	defer f.Close()

	return nil
}

// ValidateFileInfo performs the cheap checks that don't require opening the
// file; browsing uses it to filter candidates without paying parse costs.
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return invalidInput(filePath, "path is a directory, not a file")
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return invalidInput(filePath, "file is not a PDF")
	}

	if fileInfo.Size() == 0 {
		return invalidInput(filePath, "file is empty")
	}

	if fileInfo.Size() > v.maxFileSize {
		return invalidInput(filePath, "file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// IsFillablePDF performs a quick check that a file passes upload validation.
func (v *Validator) IsFillablePDF(filePath string) bool {
	return v.ValidateUpload(filePath) == nil
}
