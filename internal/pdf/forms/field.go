package forms

// FieldKind is the closed set of form field categories the filler understands.
// Anything the writer cannot round-trip (choice lists, signatures, pushbuttons)
// is carried as FieldKindUnsupported instead of being coerced into free text.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindMultiline   FieldKind = "multiline_text"
	FieldKindCheckbox    FieldKind = "checkbox"
	FieldKindRadioGroup  FieldKind = "radio_group"
	FieldKindUnsupported FieldKind = "unsupported"
)

// Fillable reports whether the writer knows how to project a value
// back onto a field of this kind.
func (k FieldKind) Fillable() bool {
	switch k {
	case FieldKindText, FieldKindMultiline, FieldKindCheckbox, FieldKindRadioGroup:
		return true
	case FieldKindUnsupported:
		return false
	}
	return false
}

// FormField is the view model for a single interactive field.
// Name matches the document's native field identifier; uniqueness is
// assumed, not enforced, so duplicate names collide in the edit store.
// Kind is derived once at extraction time and immutable thereafter.
type FormField struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"` // radio groups only, document order
	Required bool      `json:"required"`          // informational, never enforced
}

// Acroform field flag bits (PDF 32000-1, table 221/226/227).
const (
	fieldFlagRequired   = 1 << 1  // bit 2
	fieldFlagMultiline  = 1 << 12 // bit 13, text fields
	fieldFlagRadio      = 1 << 15 // bit 16, button fields
	fieldFlagPushbutton = 1 << 16 // bit 17, button fields
)

// kindForFieldType maps a native /FT name plus field flags onto a FieldKind.
// The switch is deliberately closed: every native type the document can
// report resolves to exactly one kind, with no free-text fallback.
func kindForFieldType(fieldType string, flags int64) FieldKind {
	switch fieldType {
	case "Tx":
		if flags&fieldFlagMultiline != 0 {
			return FieldKindMultiline
		}
		return FieldKindText
	case "Btn":
		if flags&fieldFlagPushbutton != 0 {
			return FieldKindUnsupported
		}
		if flags&fieldFlagRadio != 0 {
			return FieldKindRadioGroup
		}
		return FieldKindCheckbox
	case "Ch", "Sig":
		return FieldKindUnsupported
	default:
		return FieldKindUnsupported
	}
}
