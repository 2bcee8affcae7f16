package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf"
	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf/forms"
)

// DefaultExportName is used when the original file name is unavailable.
const DefaultExportName = "document.pdf"

const exportFilePerm = 0o644

// Session is one wizard instance: a document handle, the extracted field
// models, the edit store and the preview resource, all advancing through
// upload → fill → download together. A mutex serializes operations so at
// most one touches the document at a time; there is no mid-operation
// cancellation — an extraction or export runs to completion or failure.
type Session struct {
	id  string
	svc *pdf.Service

	extractor *forms.Extractor
	writer    *forms.Writer

	mu      sync.Mutex
	state   State
	steps   *StepTracker
	doc     *pdf.Document
	fields  []forms.FormField
	store   *forms.EditStore
	preview *previewResource
}

func newSession(id string, svc *pdf.Service, debugMode bool) *Session {
	return &Session{
		id:        id,
		svc:       svc,
		extractor: forms.NewExtractor(debugMode),
		writer:    forms.NewWriter(debugMode),
		state:     StateUpload,
		steps:     NewStepTracker(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current wizard state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Steps returns the current processing step states.
func (s *Session) Steps() []ProcessingStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps.Steps()
}

// Document returns the loaded document handle, or nil before upload.
func (s *Session) Document() *pdf.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// PreviewPath returns the location of the preview copy, or "" when no
// document is loaded.
func (s *Session) PreviewPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return ""
	}
	return s.preview.Path()
}

// Open runs the upload→fill transition: validate and parse the file,
// extract its fields, prepare the edit store and preview resource. The
// three processing steps complete strictly in that order, each only after
// its real underlying phase finished. Any failure keeps the session in the
// upload state with the step flags reset. A document with zero fields still
// advances to fill. Invoked while a document is already loaded, Open first
// discards it (the "upload new PDF" edge).
func (s *Session) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUpload {
		if err := s.resetLocked(); err != nil {
			return err
		}
	}
	s.steps.Reset()

	doc, err := s.svc.Load(path)
	if err != nil {
		return err
	}
	_ = s.steps.Complete(StepParse)

	fields, store, err := s.extractor.Extract(doc.Context())
	if err != nil {
		s.steps.Reset()
		return &forms.ExtractionError{Err: err}
	}
	_ = s.steps.Complete(StepExtract)

	preview, err := newPreviewResource(doc.Path)
	if err != nil {
		s.steps.Reset()
		return &forms.ExtractionError{Err: err}
	}
	_ = s.steps.Complete(StepPrepare)

	s.doc = doc
	s.fields = fields
	s.store = store
	s.preview = preview
	return s.transitionLocked(StateFill)
}

// Fields returns the extracted field models and a snapshot of the current
// store values. Valid in the fill and download states.
func (s *Session) Fields() ([]forms.FormField, map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUpload {
		return nil, nil, &InvalidStateError{Op: "fields", State: s.state}
	}

	fields := make([]forms.FormField, len(s.fields))
	copy(fields, s.fields)
	return fields, s.store.Snapshot(), nil
}

// Preview returns the text preview of the session's working copy. Valid in
// the fill and download states.
func (s *Session) Preview(maxChars int) (*pdf.PreviewResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUpload || s.preview == nil {
		return nil, &InvalidStateError{Op: "preview", State: s.state}
	}
	return s.svc.PreviewOwned(pdf.PreviewRequest{Path: s.preview.Path(), MaxChars: maxChars})
}

// Set records a pending value for the named field. Valid in the fill state
// only. Unknown names are accepted; the writer skips them at export time.
func (s *Session) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFill {
		return &InvalidStateError{Op: "set", State: s.state}
	}
	s.store.Set(name, value)
	return nil
}

// Export writes the edit store back onto the document, serializes it and
// saves it as filled_<original-name> under outputDir (the configured
// directory when empty). Per-field write failures are logged and reported
// but never abort the export; a serialization or save failure is fatal to
// the attempt, leaves the session in the fill state and preserves the store
// so the user can retry without re-filling. On success the session advances
// to download; re-exporting from download is allowed.
func (s *Session) Export(outputDir string) (string, *forms.WriteReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFill && s.state != StateDownload {
		return "", nil, &InvalidStateError{Op: "export", State: s.state}
	}

	if outputDir == "" {
		outputDir = s.svc.ConfiguredDirectory()
	}
	outPath := filepath.Join(outputDir, ExportFileName(s.doc.Name))
	if err := s.svc.ValidateExportPath(outPath); err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}

	report := s.writer.Apply(s.doc.Context(), s.store)

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, exportFilePerm)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if err := s.writer.Serialize(s.doc.Context(), out); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", nil, &forms.SerializationError{Err: err}
	}

	if s.state == StateFill {
		if err := s.transitionLocked(StateDownload); err != nil {
			return "", nil, err
		}
	}
	return outPath, report, nil
}

// Reset discards the document handle, field models, edit store and preview
// resource unconditionally and returns to the upload state. No partial
// reset is supported. Resetting an already-empty session is a no-op.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

func (s *Session) resetLocked() error {
	if s.preview != nil {
		if err := s.preview.Release(); err != nil {
			log.Printf("session %s: %v", s.id, err)
		}
		s.preview = nil
	}
	s.doc = nil
	s.fields = nil
	s.store = nil
	s.steps.Reset()
	if s.state != StateUpload {
		return s.transitionLocked(StateUpload)
	}
	return nil
}

// transitionLocked advances the wizard along a defined edge; anything else
// is rejected so the session can never sit between two states.
func (s *Session) transitionLocked(to State) error {
	if !canTransition(s.state, to) {
		return fmt.Errorf("invalid wizard transition from %s to %s", s.state, to)
	}
	s.state = to
	return nil
}

// ExportFileName derives the deterministic output name for an original
// file name: filled_<original>, falling back to a fixed default when the
// name is unavailable.
func ExportFileName(original string) string {
	name := filepath.Base(original)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultExportName
	}
	return "filled_" + name
}
