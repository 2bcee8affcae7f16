package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

const defaultPreviewChars = 4096

// Previewer extracts a plain-text preview of a document, the headless stand-in
// for the fill step's viewer pane.
type Previewer struct {
	maxFileSize int64
	validator   *Validator
}

// NewPreviewer creates a new previewer with the specified constraints.
func NewPreviewer(maxFileSize int64) *Previewer {
	return &Previewer{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// Preview returns the page count and up to MaxChars of extracted text.
func (p *Previewer) Preview(req PreviewRequest) (*PreviewResult, error) {
	if req.Path == "" {
		return nil, invalidInput(req.Path, "path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, invalidInput(req.Path, "file does not exist")
	}
	if err != nil {
		return nil, invalidInput(req.Path, "cannot access file: %v", err)
	}
	if err := p.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	maxChars := req.MaxChars
	if maxChars <= 0 {
		maxChars = defaultPreviewChars
	}

	text, truncated := p.extractText(reader, maxChars)

	return &PreviewResult{
		Path:      req.Path,
		Pages:     reader.NumPage(),
		Size:      fileInfo.Size(),
		Text:      text,
		Truncated: truncated,
	}, nil
}

// extractText walks pages until the character budget is spent. Pages the
// library cannot decode are skipped rather than failing the preview.
func (p *Previewer) extractText(reader *pdf.Reader, maxChars int) (string, bool) {
	var buf bytes.Buffer

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		content := p.pageText(reader, pageNum)
		if content == "" {
			continue
		}
		if buf.Len()+len(content) > maxChars {
			remaining := maxChars - buf.Len()
			if remaining > 0 {
				buf.WriteString(content[:remaining])
			}
			return buf.String(), true
		}
		buf.WriteString(content)
	}

	return buf.String(), false
}

// pageText extracts one page's plain text, absorbing the panics the
// underlying library raises on malformed content streams.
func (p *Previewer) pageText(reader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}
