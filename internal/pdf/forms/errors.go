package forms

import "fmt"

// ExtractionError reports that field discovery failed after the document
// itself loaded. The caller stays on the upload step and may retry.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("field extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FieldWriteError reports a failure writing a single field during
// write-back. It never aborts the batch; the writer logs it and continues.
type FieldWriteError struct {
	Name string
	Err  error
}

func (e *FieldWriteError) Error() string {
	return fmt.Sprintf("failed to write field %q: %v", e.Name, e.Err)
}

func (e *FieldWriteError) Unwrap() error { return e.Err }

// SerializationError reports that serializing the mutated document failed.
// Unlike per-field failures it is fatal to the whole export attempt.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize document: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
