package descriptions

// Tool descriptions with practical examples and the wizard flow they belong to.

const (
	FormOpenDescription = `Load a fillable PDF and start a fill session.

**When to use:** First step of every fill: pick a PDF and turn its interactive fields into an editable form.

**Why it's useful:** Validates the file, parses it, extracts every AcroForm field with its kind (text, multiline text, checkbox, radio group) and prepares a blank value store, all in one call.

**Examples:**
• Start filling a tax form: "Open w9.pdf and show me its fields"
• Resume with a different file: "Open lease-agreement.pdf instead" (the previous document is discarded)

**Flow:** form_open → form_fields → form_set (repeat) → form_export. A document with no fields still opens; you just have nothing to set.

**Best practices:** Use form_browse first when you don't know the exact path. The response includes the session id every later call needs.`

	FormFieldsDescription = `List the fields of the open document with their current pending values.

**When to use:** Right after form_open to see what can be filled, or mid-session to review what has been entered so far.

**Why it's useful:** Shows each field's kind, its options for radio groups, whether the document marks it required (informational only, never enforced), and the value currently staged for export.

**Examples:**
• "What fields does this form have?"
• "Show me which fields are still blank"

**Best practices:** Unsupported kinds (dropdowns, signatures, pushbuttons) are listed but cannot be written; don't stage values for them.`

	FormSetDescription = `Stage a value for one field.

**When to use:** For every field the user wants filled, between form_open and form_export.

**Why it's useful:** Values are staged in a session store, so nothing touches the document until export; you can overwrite a value any number of times.

**Value encoding:**
• Text and multiline fields: the literal text; an empty string explicitly clears the field.
• Checkboxes: "true" or "on" to check, anything else unchecks. Comparison is exact: "True" or "yes" will NOT check.
• Radio groups: one of the option strings; an empty value leaves the document's current selection alone.

**Examples:**
• form_set(name: "fullName", value: "Jane Doe")
• form_set(name: "subscribe", value: "true")`

	FormExportDescription = `Write the staged values into the document and save it as filled_<original-name>.

**When to use:** Last step of the fill, after every wanted field has been staged.

**Why it's useful:** Each field is written independently; one broken field is logged and skipped without losing the rest. Only a serialization failure aborts the export, and the staged values survive so you can retry.

**Examples:**
• "Export the filled form" → filled_w9.pdf next to the original
• form_export(output_dir: "/data/forms/out")

**Best practices:** The output directory must lie inside the configured document directory or the configured export directory. Re-exporting after a successful export is allowed.`

	FormResetDescription = `Discard the session's document, staged values and preview copy.

**When to use:** Starting over with a different document, or cleaning up when the user abandons a fill.

**Why it's useful:** Releases the preview resource and returns the session to the upload step in one call; there is no partial reset.`

	FormPreviewDescription = `Show the text content and page count of a PDF.

**When to use:** To read the document while deciding what to fill, or to sanity-check an exported file.

**Why it's useful:** A quick plain-text rendition of the document without leaving the session.

**Best practices:** Long documents are truncated; pass max_chars to read more.`

	FormBrowseDescription = `List fillable PDF files in the configured directory.

**When to use:** Before form_open, when the exact file path is unknown.

**Why it's useful:** Walks the directory tree, filters out anything that is not a usable PDF and supports a fuzzy name query.

**Examples:**
• "What forms are available?"
• form_browse(query: "tax")`

	FormServerInfoDescription = `Get server information, available tools and usage guidance.

**When to use:** First contact with the server, or whenever you need a reminder of the fill workflow and the configured directory.`
)

// UsageGuidance summarizes the wizard for the server info tool.
const UsageGuidance = `WORKFLOW:
1. form_browse to find a fillable PDF (optional)
2. form_open to load it and list its fields
3. form_set for each value; checkboxes take "true" or "on" to check, radio groups take an option string
4. form_export to save filled_<name>.pdf
5. form_reset to start over

Per-field write failures never abort an export; check the report in the form_export response.`
