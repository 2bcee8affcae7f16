package forms

import (
	"fmt"
	"io"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// defaultOnState is used for checkboxes whose appearance dictionary does
// not name an on-state.
const defaultOnState = "Yes"

// Writer projects an edit store back onto a document's native fields.
// Fields are written independently: a failure on one field is logged and
// recorded but never blocks the rest of the pass.
type Writer struct {
	debugMode bool
}

// NewWriter creates a new field writer.
func NewWriter(debugMode bool) *Writer {
	return &Writer{debugMode: debugMode}
}

// WriteReport summarizes a write-back pass.
type WriteReport struct {
	Applied []string          // fields whose values were written
	Skipped []string          // names absent from the document or unsupported kinds
	Failed  []*FieldWriteError // per-field failures, already logged
}

// Apply mutates the document's native fields in place from the store's
// current entries. Names with no matching field are skipped silently (name
// drift must not abort the pass), unsupported kinds are skipped, and any
// error mutating a single field is caught, logged, and recorded while the
// loop continues.
func (w *Writer) Apply(ctx *model.Context, store *EditStore) *WriteReport {
	report := &WriteReport{}

	index, err := w.fieldIndex(ctx)
	if err != nil {
		// Without a field index nothing can be written; report every
		// entry as skipped rather than failing the export outright.
		if w.debugMode {
			log.Printf("field index unavailable: %v", err)
		}
		for name := range store.Snapshot() {
			report.Skipped = append(report.Skipped, name)
		}
		return report
	}

	mutated := false
	for name, value := range store.Snapshot() {
		fieldDict, ok := index[name]
		if !ok {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		wrote, err := w.applyValue(ctx, fieldDict, value)
		if err != nil {
			fwe := &FieldWriteError{Name: name, Err: err}
			log.Printf("write-back: %v", fwe)
			report.Failed = append(report.Failed, fwe)
			continue
		}
		if wrote {
			report.Applied = append(report.Applied, name)
			mutated = true
		} else {
			report.Skipped = append(report.Skipped, name)
		}
	}

	if mutated {
		w.requestAppearanceRegeneration(ctx)
	}

	return report
}

// Serialize writes the whole document to w. A failure here is fatal to the
// export attempt, unlike per-field write failures.
func (w *Writer) Serialize(ctx *model.Context, out io.Writer) error {
	if err := api.WriteContext(ctx, out); err != nil {
		return &SerializationError{Err: err}
	}
	return nil
}

// applyValue writes a single store entry onto its field dictionary.
// The bool result reports whether the field was actually mutated.
func (w *Writer) applyValue(ctx *model.Context, fieldDict types.Dict, value string) (bool, error) {
	kind := kindForFieldType(fieldType(ctx, fieldDict), fieldFlags(ctx, fieldDict))

	switch kind {
	case FieldKindText, FieldKindMultiline:
		// Empty string is a valid, explicit "clear field" instruction.
		s, err := types.EscapedUTF16String(value)
		if err != nil {
			return false, fmt.Errorf("failed to encode value: %w", err)
		}
		fieldDict["V"] = types.StringLiteral(*s)
		delete(fieldDict, "AP")
		return true, nil

	case FieldKindCheckbox:
		return true, w.setCheckbox(ctx, fieldDict, value)

	case FieldKindRadioGroup:
		if value == "" {
			// No explicit deselect: leave the current selection untouched.
			return false, nil
		}
		return true, w.setRadio(ctx, fieldDict, value)

	case FieldKindUnsupported:
		return false, nil
	}

	return false, fmt.Errorf("unhandled field kind %q", kind)
}

// setCheckbox checks the box iff value is exactly "true" or "on";
// anything else, including "false" and "", unchecks it.
func (w *Writer) setCheckbox(ctx *model.Context, fieldDict types.Dict, value string) error {
	state := types.Name("Off")
	if value == CheckboxChecked || value == "on" {
		on := widgetOnState(ctx, fieldDict)
		if on == "" {
			on = w.firstKidOnState(ctx, fieldDict)
		}
		if on == "" {
			on = defaultOnState
		}
		state = types.Name(on)
	}

	fieldDict["V"] = state
	fieldDict["AS"] = state
	w.forEachKid(ctx, fieldDict, func(kidDict types.Dict) {
		kidDict["AS"] = state
	})
	return nil
}

// setRadio selects the named option. Groups carrying /Opt are addressed by
// option value: the kid widget at the option's index is turned on and V set
// to that kid's on-state, since with /Opt the on-state names are indices, not
// the values extraction listed. Without /Opt the value is the on-state name
// itself: V on the group, AS on the matching kid, Off on every other kid.
func (w *Writer) setRadio(ctx *model.Context, fieldDict types.Dict, value string) error {
	if opts := optionValues(ctx, fieldDict); len(opts) > 0 {
		return w.setRadioByOption(ctx, fieldDict, value, opts)
	}

	fieldDict["V"] = types.Name(value)
	w.forEachKid(ctx, fieldDict, func(kidDict types.Dict) {
		if widgetOnState(ctx, kidDict) == value {
			kidDict["AS"] = types.Name(value)
		} else {
			kidDict["AS"] = types.Name("Off")
		}
	})
	return nil
}

// setRadioByOption resolves value against the /Opt list and turns on the kid
// widget sharing the option's index.
func (w *Writer) setRadioByOption(ctx *model.Context, fieldDict types.Dict, value string, opts []string) error {
	selected := -1
	for i, opt := range opts {
		if opt == value {
			selected = i
			break
		}
	}
	if selected == -1 {
		return fmt.Errorf("option %q is not in the field's option list", value)
	}

	state := types.Name(fmt.Sprintf("%d", selected))
	i := 0
	w.forEachKid(ctx, fieldDict, func(kidDict types.Dict) {
		if i == selected {
			if on := widgetOnState(ctx, kidDict); on != "" {
				state = types.Name(on)
			}
			kidDict["AS"] = state
		} else {
			kidDict["AS"] = types.Name("Off")
		}
		i++
	})
	fieldDict["V"] = state
	return nil
}

// firstKidOnState returns the on-state of the first kid widget carrying one.
func (w *Writer) firstKidOnState(ctx *model.Context, fieldDict types.Dict) string {
	state := ""
	w.forEachKid(ctx, fieldDict, func(kidDict types.Dict) {
		if state == "" {
			state = widgetOnState(ctx, kidDict)
		}
	})
	return state
}

// forEachKid invokes fn for every dereferenceable kid widget of fieldDict.
func (w *Writer) forEachKid(ctx *model.Context, fieldDict types.Dict, fn func(types.Dict)) {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return
	}
	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return
	}
	for _, kidRef := range kidsArray {
		if kidDict, err := ctx.DereferenceDict(kidRef); err == nil && kidDict != nil {
			fn(kidDict)
		}
	}
}

// fieldIndex maps top-level field names to their dictionaries.
func (w *Writer) fieldIndex(ctx *model.Context) (map[string]types.Dict, error) {
	index := make(map[string]types.Dict)

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return index, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return index, err
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return index, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for i, fieldRef := range fieldsArray {
		fieldDict, err := ctx.DereferenceDict(fieldRef)
		if err != nil || fieldDict == nil {
			continue
		}
		name := ""
		if nameObj, found := fieldDict.Find("T"); found {
			if n, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
				name = n
			}
		}
		if name == "" {
			name = fmt.Sprintf("field_%d", i)
		}
		index[name] = fieldDict
	}

	return index, nil
}

// requestAppearanceRegeneration flags the AcroForm so viewers rebuild the
// appearance streams of mutated fields.
func (w *Writer) requestAppearanceRegeneration(ctx *model.Context) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return
	}
	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return
	}
	acroFormDict["NeedAppearances"] = types.Boolean(true)
}
