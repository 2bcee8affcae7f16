package forms

import (
	"bytes"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filldesk/mcp-pdf-form-filler/internal/testpdf"
)

// nativeValue reads a field's current /V entry back out of the document.
func nativeValue(t *testing.T, ctx *model.Context, name string) (types.Object, bool) {
	t.Helper()

	index, err := NewWriter(false).fieldIndex(ctx)
	require.NoError(t, err)
	fieldDict, ok := index[name]
	require.True(t, ok, "field %q not found", name)
	return fieldDict.Find("V")
}

func textValue(t *testing.T, ctx *model.Context, name string) string {
	t.Helper()

	obj, found := nativeValue(t, ctx, name)
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	require.NoError(t, err)
	return s
}

func nameValue(t *testing.T, ctx *model.Context, name string) string {
	t.Helper()

	obj, found := nativeValue(t, ctx, name)
	if !found {
		return ""
	}
	n, err := ctx.DereferenceName(obj, model.V10, nil)
	require.NoError(t, err)
	return string(n)
}

// roundTrip applies the store, serializes the document and reloads it, so
// assertions run against the bytes a user would actually download.
func roundTrip(t *testing.T, store *EditStore) *model.Context {
	t.Helper()

	ctx := loadContext(t, testpdf.FormPDF())
	writer := NewWriter(false)
	writer.Apply(ctx, store)

	var out bytes.Buffer
	require.NoError(t, writer.Serialize(ctx, &out))
	return loadContext(t, out.Bytes())
}

func TestWriterTextRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"plain value", "fullName", "Jane Doe"},
		{"multiline value", "comments", "line one\nline two"},
		{"empty string clears the field", "fullName", ""},
		{"non-ascii value", "fullName", "Åse Ødegård"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewEditStore()
			store.Set(tt.field, tt.value)

			ctx := roundTrip(t, store)
			assert.Equal(t, tt.value, textValue(t, ctx, tt.field))
		})
	}
}

func TestWriterCheckboxEncoding(t *testing.T) {
	tests := []struct {
		value   string
		checked bool
	}{
		{"true", true},
		{"on", true},
		{"false", false},
		{"", false},
		{"True", false}, // comparison is exact and case-sensitive
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			store := NewEditStore()
			store.Set("subscribe", tt.value)

			ctx := roundTrip(t, store)
			state := nameValue(t, ctx, "subscribe")
			if tt.checked {
				assert.Equal(t, "Yes", state)
			} else {
				assert.Equal(t, "Off", state)
			}
		})
	}
}

func TestWriterRadioSelectsOption(t *testing.T) {
	store := NewEditStore()
	store.Set("color", "Blue")

	ctx := roundTrip(t, store)
	assert.Equal(t, "Blue", nameValue(t, ctx, "color"))
}

func TestWriterRadioEmptyLeavesSelection(t *testing.T) {
	// "Red" is preselected in the fixture; an empty store value is not a
	// deselect instruction.
	store := NewEditStore()
	store.Set("color", "")

	ctx := roundTrip(t, store)
	assert.Equal(t, "Red", nameValue(t, ctx, "color"))
}

// kidStates reads the /AS entry of every kid widget of the named field.
func kidStates(t *testing.T, ctx *model.Context, name string) []string {
	t.Helper()

	writer := NewWriter(false)
	index, err := writer.fieldIndex(ctx)
	require.NoError(t, err)
	fieldDict, ok := index[name]
	require.True(t, ok, "field %q not found", name)

	var states []string
	writer.forEachKid(ctx, fieldDict, func(kidDict types.Dict) {
		state := ""
		if obj, found := kidDict.Find("AS"); found {
			if n, err := ctx.DereferenceName(obj, model.V10, nil); err == nil {
				state = string(n)
			}
		}
		states = append(states, state)
	})
	return states
}

func TestWriterRadioOptSelectsKidByIndex(t *testing.T) {
	// With /Opt the staged value is the option string the extractor listed;
	// the kid at the option's index must end up on, not every kid off.
	tests := []struct {
		value      string
		wantV      string
		wantStates []string
	}{
		{"Rouge", "0", []string{"0", "Off"}},
		{"Bleu", "1", []string{"Off", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ctx := loadContext(t, testpdf.OptRadioPDF())
			store := NewEditStore()
			store.Set("paint", tt.value)

			writer := NewWriter(false)
			report := writer.Apply(ctx, store)
			require.Empty(t, report.Failed)
			assert.Contains(t, report.Applied, "paint")

			var out bytes.Buffer
			require.NoError(t, writer.Serialize(ctx, &out))
			reloaded := loadContext(t, out.Bytes())

			assert.Equal(t, tt.wantV, nameValue(t, reloaded, "paint"))
			assert.Equal(t, tt.wantStates, kidStates(t, reloaded, "paint"))
		})
	}
}

func TestWriterRadioOptUnknownValueFails(t *testing.T) {
	ctx := loadContext(t, testpdf.OptRadioPDF())
	store := NewEditStore()
	store.Set("paint", "Vert")

	report := NewWriter(false).Apply(ctx, store)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "paint", report.Failed[0].Name)
	assert.Empty(t, report.Applied)
	assert.Equal(t, []string{"Off", "Off"}, kidStates(t, ctx, "paint"))
}

func TestWriterSkipsUnknownNames(t *testing.T) {
	ctx := loadContext(t, testpdf.FormPDF())

	store := NewEditStore()
	store.Set("doesNotExist", "value")
	store.Set("fullName", "Jane Doe")

	report := NewWriter(false).Apply(ctx, store)

	assert.Contains(t, report.Skipped, "doesNotExist")
	assert.Contains(t, report.Applied, "fullName")
	assert.Empty(t, report.Failed)
}

func TestWriterSkipsUnsupportedFields(t *testing.T) {
	ctx := loadContext(t, testpdf.FormPDF())

	store := NewEditStore()
	store.Set("country", "Iceland")

	report := NewWriter(false).Apply(ctx, store)
	assert.Contains(t, report.Skipped, "country")
	assert.Empty(t, report.Applied)
}

func TestWriterSetsNeedAppearances(t *testing.T) {
	ctx := loadContext(t, testpdf.FormPDF())

	store := NewEditStore()
	store.Set("fullName", "Jane Doe")
	NewWriter(false).Apply(ctx, store)

	rootDict, err := ctx.Catalog()
	require.NoError(t, err)
	acroFormObj, found := rootDict.Find("AcroForm")
	require.True(t, found)
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	require.NoError(t, err)
	na, found := acroFormDict.Find("NeedAppearances")
	require.True(t, found)
	assert.Equal(t, types.Boolean(true), na)
}

func TestWriterFillScenario(t *testing.T) {
	// Two-field scenario: set a text value and check a box, then verify the
	// exported document reads both back.
	store := NewEditStore()
	store.Set("fullName", "Jane Doe")
	store.Set("subscribe", CheckboxChecked)

	ctx := roundTrip(t, store)
	assert.Equal(t, "Jane Doe", textValue(t, ctx, "fullName"))
	assert.Equal(t, "Yes", nameValue(t, ctx, "subscribe"))
}

func TestWriterEmptyStoreIsANoop(t *testing.T) {
	ctx := loadContext(t, testpdf.FormPDF())

	report := NewWriter(false).Apply(ctx, NewEditStore())
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Failed)
}
