package forms

// Checkbox values are kept stringly-typed so the store stays uniform.
const (
	CheckboxChecked   = "true"
	CheckboxUnchecked = "false"
)

// EditStore holds the in-progress value for every field, keyed by field name.
// It is the single source of truth between extraction and write-back.
// Checkbox entries hold the literal strings "true"/"false", radio entries the
// selected option string or "". The store performs no validation; callers
// impose the encoding. Not safe for concurrent use; the owning session
// serializes access.
type EditStore struct {
	values map[string]string
}

// NewEditStore returns an empty store.
func NewEditStore() *EditStore {
	return &EditStore{values: make(map[string]string)}
}

// Register creates a blank entry for a discovered field.
// Duplicate names collapse into a single entry.
func (s *EditStore) Register(name string) {
	if _, ok := s.values[name]; !ok {
		s.values[name] = ""
	}
}

// Set overwrites the entry for name, creating it if extraction never
// registered it. Writes never fail.
func (s *EditStore) Set(name, value string) {
	s.values[name] = value
}

// Get returns the current value for name, or "" for any unknown key.
// Reads never fail.
func (s *EditStore) Get(name string) string {
	return s.values[name]
}

// Len returns the number of entries.
func (s *EditStore) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the current entries. Iteration order is
// unspecified; the writer treats fields independently so order is irrelevant.
func (s *EditStore) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
