package forms

import (
	"fmt"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Extractor reads a loaded document's AcroForm field list and classifies
// each entry into a FormField, building the edit store alongside.
type Extractor struct {
	debugMode bool
}

// NewExtractor creates a new field extractor.
func NewExtractor(debugMode bool) *Extractor {
	return &Extractor{debugMode: debugMode}
}

// Extract walks the document's field list in document order and returns the
// view models plus an edit store holding one blank entry per field.
// A document without an AcroForm (or without a Fields array) yields an empty
// slice and an empty store; that is a legitimate outcome, not an error.
// The document is read-only during extraction.
func (e *Extractor) Extract(ctx *model.Context) ([]FormField, *EditStore, error) {
	store := NewEditStore()
	fields := make([]FormField, 0)

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		if e.debugMode {
			log.Println("no AcroForm dictionary in document")
		}
		return fields, store, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return fields, store, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		if e.debugMode {
			log.Println("no Fields array in AcroForm")
		}
		return fields, store, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for i, fieldRef := range fieldsArray {
		field, err := e.processField(ctx, fieldRef, i)
		if err != nil {
			if e.debugMode {
				log.Printf("error processing field %d: %v", i, err)
			}
			continue
		}
		if field != nil {
			fields = append(fields, *field)
			store.Register(field.Name)
		}
	}

	return fields, store, nil
}

// processField classifies a single field dictionary.
func (e *Extractor) processField(ctx *model.Context, fieldObj types.Object, index int) (*FormField, error) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil, nil
	}

	field := &FormField{}

	if nameObj, found := fieldDict.Find("T"); found {
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			field.Name = name
		}
	}
	if field.Name == "" {
		field.Name = fmt.Sprintf("field_%d", index)
	}

	flags := fieldFlags(ctx, fieldDict)
	field.Kind = kindForFieldType(fieldType(ctx, fieldDict), flags)
	field.Required = flags&fieldFlagRequired != 0

	if field.Kind == FieldKindRadioGroup {
		field.Options = radioOptions(ctx, fieldDict)
	}

	if e.debugMode {
		log.Printf("extracted field %q (kind: %s)", field.Name, field.Kind)
	}

	return field, nil
}

// fieldType resolves the /FT entry, walking up the Parent chain when the
// field inherits its type.
func fieldType(ctx *model.Context, fieldDict types.Dict) string {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldType(ctx, parentDict)
			}
		}
		return ""
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(ftName)
}

// fieldFlags resolves the /Ff entry, walking up the Parent chain when absent.
func fieldFlags(ctx *model.Context, fieldDict types.Dict) int64 {
	if flagsObj, found := fieldDict.Find("Ff"); found {
		if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			return int64(*flags)
		}
	}
	if parentObj, found := fieldDict.Find("Parent"); found {
		if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
			return fieldFlags(ctx, parentDict)
		}
	}
	return 0
}

// radioOptions returns the selectable choice set of a radio group in
// document order: the /Opt array when present (display value of
// [export, display] pairs), otherwise the on-state names of the group's
// kid widgets.
func radioOptions(ctx *model.Context, fieldDict types.Dict) []string {
	if options := optionValues(ctx, fieldDict); len(options) > 0 {
		return options
	}

	var options []string
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return options
	}
	kidsArray, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return options
	}
	for _, kidRef := range kidsArray {
		kidDict, err := ctx.DereferenceDict(kidRef)
		if err != nil || kidDict == nil {
			continue
		}
		if state := widgetOnState(ctx, kidDict); state != "" {
			options = append(options, state)
		}
	}
	return options
}

// optionValues returns the field's /Opt entries in document order, preferring
// the display value of [export, display] pairs. The entry index doubles as
// the kid widget index, so extraction and write-back address the same option
// set by position.
func optionValues(ctx *model.Context, fieldDict types.Dict) []string {
	optObj, found := fieldDict.Find("Opt")
	if !found {
		return nil
	}
	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}

	var options []string
	for _, opt := range optArray {
		if str, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, str)
		} else if arr, err := ctx.DereferenceArray(opt); err == nil && len(arr) >= 2 {
			if displayVal, err := ctx.DereferenceStringOrHexLiteral(arr[1], model.V10, nil); err == nil {
				options = append(options, displayVal)
			}
		}
	}
	return options
}

// widgetOnState returns the widget's on-state name: the one key of its
// /AP /N dictionary that is not "Off", or "" when no appearance exists.
func widgetOnState(ctx *model.Context, widgetDict types.Dict) string {
	apObj, found := widgetDict.Find("AP")
	if !found {
		return ""
	}
	apDict, err := ctx.DereferenceDict(apObj)
	if err != nil || apDict == nil {
		return ""
	}
	nObj, found := apDict.Find("N")
	if !found {
		return ""
	}
	nDict, err := ctx.DereferenceDict(nObj)
	if err != nil || nDict == nil {
		return ""
	}
	for key := range nDict {
		if key != "Off" {
			return key
		}
	}
	return ""
}
