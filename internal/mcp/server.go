package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/filldesk/mcp-pdf-form-filler/internal/config"
	"github.com/filldesk/mcp-pdf-form-filler/internal/descriptions"
	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf"
	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf/forms"
	"github.com/filldesk/mcp-pdf-form-filler/internal/session"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	sessions   *session.Manager
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, sessions *session.Manager) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		sessions:   sessions,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formOpenTool := mcp.NewTool(
		"form_open",
		mcp.WithDescription(descriptions.FormOpenDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the fillable PDF file"),
		),
		mcp.WithString("session_id",
			mcp.Description("Existing session to reuse; a new session is created when omitted"),
		),
	)
	s.mcpServer.AddTool(formOpenTool, s.handleFormOpen)

	formFieldsTool := mcp.NewTool(
		"form_fields",
		mcp.WithDescription(descriptions.FormFieldsDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_open"),
		),
	)
	s.mcpServer.AddTool(formFieldsTool, s.handleFormFields)

	formSetTool := mcp.NewTool(
		"form_set",
		mcp.WithDescription(descriptions.FormSetDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_open"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Field name as listed by form_fields"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to stage; see the tool description for checkbox and radio encoding"),
		),
	)
	s.mcpServer.AddTool(formSetTool, s.handleFormSet)

	formExportTool := mcp.NewTool(
		"form_export",
		mcp.WithDescription(descriptions.FormExportDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_open"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory to save the filled file to (uses the configured export directory if empty)"),
		),
	)
	s.mcpServer.AddTool(formExportTool, s.handleFormExport)

	formResetTool := mcp.NewTool(
		"form_reset",
		mcp.WithDescription(descriptions.FormResetDescription),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by form_open"),
		),
	)
	s.mcpServer.AddTool(formResetTool, s.handleFormReset)

	formPreviewTool := mcp.NewTool(
		"form_preview",
		mcp.WithDescription(descriptions.FormPreviewDescription),
		mcp.WithString("path",
			mcp.Description("Full path to the PDF file (uses the session's document when a session_id is given instead)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Preview the document currently open in this session"),
		),
		mcp.WithNumber("max_chars",
			mcp.Description("Maximum number of characters to return"),
		),
	)
	s.mcpServer.AddTool(formPreviewTool, s.handleFormPreview)

	formBrowseTool := mcp.NewTool(
		"form_browse",
		mcp.WithDescription(descriptions.FormBrowseDescription),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(formBrowseTool, s.handleFormBrowse)

	formServerInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.FormServerInfoDescription),
	)
	s.mcpServer.AddTool(formServerInfoTool, s.handleFormServerInfo)
}

// Handler functions
func (s *Server) handleFormOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	var sess *session.Session
	created := false
	if id, ok := args["session_id"].(string); ok && id != "" {
		sess, err = s.sessions.Get(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		sess = s.sessions.Create()
		created = true
	}

	if err := sess.Open(path); err != nil {
		if created {
			_ = s.sessions.Remove(sess.ID())
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatOpenResult(sess)), nil
}

func (s *Server) handleFormFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	fields, values, err := sess.Fields()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatFieldsResult(sess, fields, values)), nil
}

func (s *Server) handleFormSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sess.Set(name, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Staged %q = %q", name, value)), nil
}

func (s *Server) handleFormExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	args := request.GetArguments()
	outputDir := s.config.ExportDirectory()
	if dir, ok := args["output_dir"].(string); ok && dir != "" {
		outputDir = dir
	}

	outPath, report, err := sess.Export(outputDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExportResult(outPath, report)), nil
}

func (s *Server) handleFormReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := s.requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := sess.Reset(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s reset; upload a new PDF with form_open", sess.ID())), nil
}

func (s *Server) handleFormPreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path := ""
	if p, ok := args["path"].(string); ok {
		path = p
	}

	maxChars := 0
	if n, ok := args["max_chars"].(float64); ok {
		maxChars = int(n)
	}

	var result *pdf.PreviewResult
	if id, ok := args["session_id"].(string); ok && id != "" && path == "" {
		sess, err := s.sessions.Get(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err = sess.Preview(maxChars)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		if path == "" {
			return mcp.NewToolResultError("either path or session_id is required"), nil
		}
		var err error
		result, err = s.pdfService.Preview(pdf.PreviewRequest{Path: path, MaxChars: maxChars})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return mcp.NewToolResultText(s.formatPreviewResult(result)), nil
}

func (s *Server) handleFormBrowse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.Browse(pdf.BrowseRequest{Directory: directory, Query: query})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No fillable PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatBrowseResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// requireSession resolves the session_id argument. The error result, when
// non-nil, is returned to the caller directly.
func (s *Server) requireSession(request mcp.CallToolRequest) (*session.Session, *mcp.CallToolResult) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return sess, nil
}

// Formatting methods
func (s *Server) formatOpenResult(sess *session.Session) string {
	doc := sess.Document()
	fields, _, _ := sess.Fields()

	text := fmt.Sprintf("Opened %s for filling\n", doc.Name)
	text += fmt.Sprintf("Session: %s\n", sess.ID())
	text += fmt.Sprintf("Pages: %d\n", doc.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", doc.Size)
	text += "\nProcessing steps:\n"
	for _, step := range sess.Steps() {
		mark := " "
		if step.Completed {
			mark = "x"
		}
		text += fmt.Sprintf("  [%s] %s\n", mark, step.Title)
	}

	fillable := 0
	for _, f := range fields {
		if f.Kind.Fillable() {
			fillable++
		}
	}
	text += fmt.Sprintf("\nFields: %d (%d fillable)\n", len(fields), fillable)
	if len(fields) == 0 {
		text += "This document has no interactive form fields.\n"
	} else {
		text += "Use form_fields to list them and form_set to stage values.\n"
	}

	return text
}

func (s *Server) formatFieldsResult(sess *session.Session, fields []forms.FormField, values map[string]string) string {
	doc := sess.Document()

	text := fmt.Sprintf("Fields of %s (%d pages, %d bytes, %d fields)\n",
		doc.Name, doc.Pages, doc.Size, len(fields))
	for i, f := range fields {
		text += fmt.Sprintf("\n%d. %s\n", i+1, f.Name)
		text += fmt.Sprintf("   Kind: %s\n", f.Kind)
		if len(f.Options) > 0 {
			text += "   Options:"
			for _, opt := range f.Options {
				text += fmt.Sprintf(" %q", opt)
			}
			text += "\n"
		}
		if f.Required {
			text += "   Marked required by the document (not enforced)\n"
		}
		if !f.Kind.Fillable() {
			text += "   Not fillable by this server\n"
			continue
		}
		text += fmt.Sprintf("   Pending value: %q\n", values[f.Name])
	}

	return text
}

func (s *Server) formatExportResult(outPath string, report *forms.WriteReport) string {
	text := fmt.Sprintf("Exported filled document to %s\n", outPath)
	text += fmt.Sprintf("Fields written: %d\n", len(report.Applied))
	for _, name := range report.Applied {
		text += fmt.Sprintf("  • %s\n", name)
	}
	if len(report.Skipped) > 0 {
		text += fmt.Sprintf("Skipped (unknown or unsupported): %d\n", len(report.Skipped))
		for _, name := range report.Skipped {
			text += fmt.Sprintf("  • %s\n", name)
		}
	}
	if len(report.Failed) > 0 {
		text += fmt.Sprintf("Failed (value not written, export continued): %d\n", len(report.Failed))
		for _, f := range report.Failed {
			text += fmt.Sprintf("  • %s: %v\n", f.Name, f.Err)
		}
	}
	return text
}

func (s *Server) formatPreviewResult(result *pdf.PreviewResult) string {
	text := fmt.Sprintf("Preview of %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	if result.Truncated {
		text += "Note: content truncated; pass max_chars to read more\n"
	}
	text += "\nContent:\n"
	text += result.Text
	return text
}

func (s *Server) formatBrowseResult(result *pdf.BrowseResult) string {
	text := fmt.Sprintf("Found %d fillable PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Document Directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("📤 Export Directory: %s\n", s.config.ExportDirectory())
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🗂  Live Sessions: %d\n\n", s.sessions.Len())

	text += "🛠️  Available Tools:\n"
	tools := []struct{ name, summary string }{
		{"form_open", "Load a fillable PDF and start a fill session"},
		{"form_fields", "List fields with kinds, options and pending values"},
		{"form_set", "Stage a value for one field"},
		{"form_export", "Write staged values and save filled_<name>.pdf"},
		{"form_reset", "Discard the session's document and staged values"},
		{"form_preview", "Show the text content of a PDF"},
		{"form_browse", "List fillable PDFs in the configured directory"},
		{"form_server_info", "This information"},
	}
	for _, tool := range tools {
		text += fmt.Sprintf("  • %s - %s\n", tool.name, tool.summary)
	}

	text += "\n" + descriptions.UsageGuidance
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF form filler MCP server in stdio mode")
		log.Printf("Document directory: %s", s.config.PDFDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs library handles transports differently; only stdio is
	// wired up for now.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
