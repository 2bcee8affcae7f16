package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf"
	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf/forms"
	"github.com/filldesk/mcp-pdf-form-filler/internal/testpdf"
)

const testMaxFileSize = int64(10 * 1024 * 1024)

// newTestSession writes the form fixture into a temp directory and returns a
// fresh session rooted there plus the fixture's path.
func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()

	dir := t.TempDir()
	docPath := filepath.Join(dir, "application.pdf")
	require.NoError(t, os.WriteFile(docPath, testpdf.FormPDF(), 0o644))

	svc, err := pdf.NewService(testMaxFileSize, dir)
	require.NoError(t, err)

	return newSession("test-session", svc, false), docPath
}

func TestSessionOpenAdvancesToFill(t *testing.T) {
	s, docPath := newTestSession(t)

	require.NoError(t, s.Open(docPath))

	assert.Equal(t, StateFill, s.State())
	for _, step := range s.Steps() {
		assert.True(t, step.Completed, "step %s", step.ID)
	}

	fields, values, err := s.Fields()
	require.NoError(t, err)
	assert.Len(t, fields, 5)
	assert.Len(t, values, 5)

	previewPath := s.PreviewPath()
	require.NotEmpty(t, previewPath)
	_, err = os.Stat(previewPath)
	assert.NoError(t, err, "preview resource exists while the session is live")
}

func TestSessionOpenRejectsNonPDF(t *testing.T) {
	s, docPath := newTestSession(t)

	badPath := filepath.Join(filepath.Dir(docPath), "notes.txt")
	require.NoError(t, os.WriteFile(badPath, []byte("plain text"), 0o644))

	err := s.Open(badPath)
	require.Error(t, err)

	var invalid *pdf.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, StateUpload, s.State(), "failed upload must not transition")
	for _, step := range s.Steps() {
		assert.False(t, step.Completed)
	}
}

func TestSessionOpenZeroFieldsStillAdvances(t *testing.T) {
	s, docPath := newTestSession(t)

	plainPath := filepath.Join(filepath.Dir(docPath), "plain.pdf")
	require.NoError(t, os.WriteFile(plainPath, testpdf.NoFormPDF(), 0o644))

	require.NoError(t, s.Open(plainPath))
	assert.Equal(t, StateFill, s.State())

	fields, values, err := s.Fields()
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Empty(t, values)
}

func TestSessionSetRequiresFillState(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Set("fullName", "Jane Doe")
	require.Error(t, err)

	var stateErr *InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestSessionExportRoundTrip(t *testing.T) {
	s, docPath := newTestSession(t)
	require.NoError(t, s.Open(docPath))

	require.NoError(t, s.Set("fullName", "Jane Doe"))
	require.NoError(t, s.Set("subscribe", forms.CheckboxChecked))

	outPath, report, err := s.Export("")
	require.NoError(t, err)

	assert.Equal(t, StateDownload, s.State())
	assert.Equal(t, "filled_application.pdf", filepath.Base(outPath))
	// Every registered text field is written: the untouched blank "comments"
	// entry is an explicit clear, not a skip.
	assert.ElementsMatch(t, []string{"fullName", "subscribe", "comments"}, report.Applied)
	assert.Empty(t, report.Failed)

	// The exported file must load as a document again.
	doc, err := pdf.NewLoader(testMaxFileSize).Load(outPath)
	require.NoError(t, err)

	fields, _, err := forms.NewExtractor(false).Extract(doc.Context())
	require.NoError(t, err)
	assert.Len(t, fields, 5)
}

func TestSessionExportRequiresDocument(t *testing.T) {
	s, _ := newTestSession(t)

	_, _, err := s.Export("")
	require.Error(t, err)

	var stateErr *InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestSessionExportPreservesStoreOnFailure(t *testing.T) {
	s, docPath := newTestSession(t)
	require.NoError(t, s.Open(docPath))
	require.NoError(t, s.Set("fullName", "Jane Doe"))

	// An output directory outside the configured tree is rejected before
	// anything is written.
	_, _, err := s.Export(filepath.Join(os.TempDir(), "formfill-elsewhere"))
	require.Error(t, err)

	assert.Equal(t, StateFill, s.State(), "failed export stays on fill")
	_, values, fieldsErr := s.Fields()
	require.NoError(t, fieldsErr)
	assert.Equal(t, "Jane Doe", values["fullName"], "store survives a failed export")
}

func TestSessionResetReturnsToUpload(t *testing.T) {
	s, docPath := newTestSession(t)
	require.NoError(t, s.Open(docPath))
	_, _, err := s.Export("")
	require.NoError(t, err)

	previewPath := s.PreviewPath()
	require.NotEmpty(t, previewPath)

	require.NoError(t, s.Reset())

	assert.Equal(t, StateUpload, s.State())
	assert.Nil(t, s.Document())
	assert.Empty(t, s.PreviewPath())

	_, statErr := os.Stat(previewPath)
	assert.True(t, os.IsNotExist(statErr), "preview resource released on reset")

	_, _, err = s.Fields()
	assert.Error(t, err, "no field state survives a reset")
}

func TestSessionResetIsNoopWhenEmpty(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Reset())
	assert.Equal(t, StateUpload, s.State())
}

func TestSessionOpenReplacesLoadedDocument(t *testing.T) {
	s, docPath := newTestSession(t)
	require.NoError(t, s.Open(docPath))
	firstPreview := s.PreviewPath()

	// Upload-new from fill resets and loads again.
	require.NoError(t, s.Open(docPath))
	assert.Equal(t, StateFill, s.State())

	_, statErr := os.Stat(firstPreview)
	assert.True(t, os.IsNotExist(statErr), "previous preview released")
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		original string
		expected string
	}{
		{"form.pdf", "filled_form.pdf"},
		{"/some/dir/form.pdf", "filled_form.pdf"},
		{"", "filled_document.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExportFileName(tt.original))
	}
}

func TestPreviewResourceReleaseExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(src, testpdf.NoFormPDF(), 0o644))

	p, err := newPreviewResource(src)
	require.NoError(t, err)
	require.NotEmpty(t, p.Path())

	require.NoError(t, p.Release())
	assert.Error(t, p.Release(), "double release is a lifecycle bug")
	assert.Empty(t, p.Path())
}

func TestManagerLifecycle(t *testing.T) {
	dir := t.TempDir()
	svc, err := pdf.NewService(testMaxFileSize, dir)
	require.NoError(t, err)

	m := NewManager(svc, false)
	s := m.Create()
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.Error(t, err)

	require.NoError(t, m.Remove(s.ID()))
	assert.Equal(t, 0, m.Len())
	assert.Error(t, m.Remove(s.ID()))
}

func TestManagerCloseReleasesSessions(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "application.pdf")
	require.NoError(t, os.WriteFile(docPath, testpdf.FormPDF(), 0o644))

	svc, err := pdf.NewService(testMaxFileSize, dir)
	require.NoError(t, err)

	m := NewManager(svc, false)
	s := m.Create()
	require.NoError(t, s.Open(docPath))
	previewPath := s.PreviewPath()

	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())

	_, statErr := os.Stat(previewPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSessionPreview(t *testing.T) {
	s, docPath := newTestSession(t)

	_, err := s.Preview(0)
	var stateErr *InvalidStateError
	assert.ErrorAs(t, err, &stateErr)

	require.NoError(t, s.Open(docPath))

	result, err := s.Preview(0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, s.PreviewPath(), result.Path)
}

func TestSessionExportToRegisteredExportDir(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "application.pdf")
	require.NoError(t, os.WriteFile(docPath, testpdf.FormPDF(), 0o644))

	svc, err := pdf.NewService(testMaxFileSize, dir)
	require.NoError(t, err)

	outDir := t.TempDir()
	require.NoError(t, svc.AllowExportDir(outDir))

	s := newSession("test-session", svc, false)
	require.NoError(t, s.Open(docPath))
	require.NoError(t, s.Set("fullName", "Jane Doe"))

	outPath, _, err := s.Export(outDir)
	require.NoError(t, err, "a registered export directory outside the document tree is allowed")
	assert.Equal(t, outDir, filepath.Dir(outPath))
	assert.Equal(t, StateDownload, s.State())
}
