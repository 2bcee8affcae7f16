package session

import "fmt"

// Processing step identifiers for the upload→fill transition, in the order
// they complete.
const (
	StepParse   = "parse"
	StepExtract = "extract"
	StepPrepare = "prepare"
)

// ProcessingStep is one sub-phase of the upload→fill transition. Completed
// flags are reset at the start of each upload and flipped true strictly in
// sequence, only after the underlying operation finishes. The flags drive
// progress display only and carry no control-flow authority.
type ProcessingStep struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// StepTracker sequences the processing steps. Steps may only be completed
// in order; completing one out of turn is a programming error and is
// rejected rather than silently reordered.
type StepTracker struct {
	steps []ProcessingStep
	next  int
}

// NewStepTracker returns a tracker with the canonical three steps, all
// incomplete.
func NewStepTracker() *StepTracker {
	return &StepTracker{
		steps: []ProcessingStep{
			{ID: StepParse, Title: "Parsing document"},
			{ID: StepExtract, Title: "Extracting form fields"},
			{ID: StepPrepare, Title: "Preparing fill session"},
		},
	}
}

// Complete flips the named step to completed. The step must be the next
// incomplete one.
func (t *StepTracker) Complete(id string) error {
	if t.next >= len(t.steps) {
		return fmt.Errorf("all steps already completed")
	}
	if t.steps[t.next].ID != id {
		return fmt.Errorf("step %q completed out of order, expected %q", id, t.steps[t.next].ID)
	}
	t.steps[t.next].Completed = true
	t.next++
	return nil
}

// Reset clears every completed flag.
func (t *StepTracker) Reset() {
	for i := range t.steps {
		t.steps[i].Completed = false
	}
	t.next = 0
}

// Steps returns a copy of the current step states.
func (t *StepTracker) Steps() []ProcessingStep {
	out := make([]ProcessingStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// Done reports whether every step has completed.
func (t *StepTracker) Done() bool {
	return t.next == len(t.steps)
}
