package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filldesk/mcp-pdf-form-filler/internal/testpdf"
)

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "application.pdf")
	require.NoError(t, os.WriteFile(pdfPath, testpdf.FormPDF(), 0o644))

	doc, err := NewLoader(10*1024*1024).Load(pdfPath)
	require.NoError(t, err)

	assert.Equal(t, pdfPath, doc.Path)
	assert.Equal(t, "application.pdf", doc.Name)
	assert.Equal(t, 1, doc.Pages)
	assert.Equal(t, int64(len(testpdf.FormPDF())), doc.Size)
	assert.NotNil(t, doc.Context())
}

func TestLoaderLoadInvalidInput(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("text"), 0o644))

	_, err := NewLoader(10 * 1024 * 1024).Load(txtPath)
	require.Error(t, err)

	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}
