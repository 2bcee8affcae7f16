package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf"
	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf/forms"
	"github.com/filldesk/mcp-pdf-form-filler/internal/session"
)

const maxFileSize = 100 * 1024 * 1024 // 100MB

var (
	valuesPath   = flag.String("values", "", "JSON file mapping field names to values")
	outputDir    = flag.String("out", "", "Directory to write the filled file to (defaults to the input's directory)")
	listOnly     = flag.Bool("list", false, "List form fields without filling")
	outputFormat = flag.String("format", "text", "Output format: text, json")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := run(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("PDF Fill Form - Fill interactive form fields in a PDF document")
	fmt.Println()
	fmt.Println("Extracts the AcroForm fields of a PDF, applies values from a JSON file and")
	fmt.Println("writes the result as filled_<name>.pdf next to the original.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -values        JSON file mapping field names to values")
	fmt.Println("  -out           Directory for the filled file (default: input's directory)")
	fmt.Println("  -list          List form fields without filling")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -verbose       Enable verbose output")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("VALUE ENCODING:")
	fmt.Println("  • Text and multiline fields take the literal text; \"\" clears the field")
	fmt.Println("  • Checkboxes take \"true\" or \"on\" to check, anything else unchecks (exact match)")
	fmt.Println("  • Radio groups take one of the listed option strings; \"\" leaves the")
	fmt.Println("    current selection untouched")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  pdf_fill_form -list application.pdf")
	fmt.Println("  pdf_fill_form -values answers.json application.pdf")
	fmt.Println("  pdf_fill_form -values answers.json -out /tmp/filled -format json w9.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdf_fill_form [OPTIONS] <pdf_file>")
}

// FillResult represents the complete outcome of a fill run
type FillResult struct {
	FilePath   string            `json:"file_path"`
	OutputPath string            `json:"output_path,omitempty"`
	FieldCount int               `json:"field_count"`
	Fields     []forms.FormField `json:"fields"`
	Applied    []string          `json:"applied,omitempty"`
	Skipped    []string          `json:"skipped,omitempty"`
	Failed     map[string]string `json:"failed,omitempty"`
}

func run(pdfPath string) (*FillResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	loader := pdf.NewLoader(maxFileSize)
	doc, err := loader.Load(absPath)
	if err != nil {
		return nil, err
	}

	extractor := forms.NewExtractor(*verbose)
	fields, store, err := extractor.Extract(doc.Context())
	if err != nil {
		return nil, &forms.ExtractionError{Err: err}
	}

	result := &FillResult{
		FilePath:   absPath,
		FieldCount: len(fields),
		Fields:     fields,
	}

	if *listOnly {
		return result, nil
	}

	if err := stageValues(store); err != nil {
		return nil, err
	}

	outDir := *outputDir
	if outDir == "" {
		outDir = filepath.Dir(absPath)
	}
	outPath := filepath.Join(outDir, session.ExportFileName(doc.Name))

	writer := forms.NewWriter(*verbose)
	report := writer.Apply(doc.Context(), store)

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writer.Serialize(doc.Context(), out); err != nil {
		out.Close()
		os.Remove(outPath)
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return nil, &forms.SerializationError{Err: err}
	}

	result.OutputPath = outPath
	result.Applied = report.Applied
	result.Skipped = report.Skipped
	if len(report.Failed) > 0 {
		result.Failed = make(map[string]string, len(report.Failed))
		for _, f := range report.Failed {
			result.Failed[f.Name] = f.Err.Error()
		}
	}

	return result, nil
}

// stageValues loads the -values file into the edit store.
func stageValues(store *forms.EditStore) error {
	if *valuesPath == "" {
		return nil
	}

	data, err := os.ReadFile(*valuesPath)
	if err != nil {
		return fmt.Errorf("failed to read values file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse values file: %w", err)
	}

	for name, value := range values {
		store.Set(name, value)
	}

	if *verbose {
		fmt.Printf("Staged %d value(s) from %s\n", len(values), *valuesPath)
	}
	return nil
}

func outputResults(result *FillResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *FillResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *FillResult) error {
	if result.FieldCount == 0 {
		fmt.Println("No form fields detected in the PDF")
		return nil
	}

	fmt.Printf("Found %d form field(s) in %s\n\n", result.FieldCount, result.FilePath)

	for i, field := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, field.Name)
		fmt.Printf("    Kind: %s\n", field.Kind)
		if len(field.Options) > 0 {
			fmt.Printf("    Options: %v\n", field.Options)
		}
		if field.Required {
			fmt.Println("    Marked required by the document")
		}
	}

	if result.OutputPath == "" {
		return nil
	}

	fmt.Printf("\nWrote %s\n", result.OutputPath)
	fmt.Printf("Applied: %d  Skipped: %d  Failed: %d\n",
		len(result.Applied), len(result.Skipped), len(result.Failed))
	for name, msg := range result.Failed {
		fmt.Printf("  failed %s: %s\n", name, msg)
	}

	return nil
}

func init() {
	flag.Usage = printHelp
}
