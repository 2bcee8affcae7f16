package pdf

// FileInfo represents a fillable PDF candidate discovered by browsing.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PreviewRequest represents a request to preview a document's text content.
type PreviewRequest struct {
	Path     string `json:"path"`
	MaxChars int    `json:"max_chars,omitempty"`
}

// BrowseRequest represents a request to list fillable PDFs in a directory.
type BrowseRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// PreviewResult represents the text preview of a loaded document.
type PreviewResult struct {
	Path      string `json:"path"`
	Pages     int    `json:"pages"`
	Size      int64  `json:"size"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// BrowseResult represents the outcome of a directory browse.
type BrowseResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
