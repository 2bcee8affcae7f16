package session

import "fmt"

// State is the wizard position. Exactly one state is active at a time and a
// failed transition never leaves the session between two states.
type State string

const (
	StateUpload   State = "upload"
	StateFill     State = "fill"
	StateDownload State = "download"
)

// validTransitions holds the wizard edges: the forward path plus the two
// explicit reset edges back to upload.
var validTransitions = map[State][]State{
	StateUpload:   {StateFill},
	StateFill:     {StateDownload, StateUpload},
	StateDownload: {StateUpload},
}

// canTransition reports whether from→to is a defined wizard edge.
func canTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidStateError reports an operation invoked in the wrong wizard state.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("operation %q not allowed in state %q", e.Op, e.State)
}
