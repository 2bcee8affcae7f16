package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Browser lists fillable PDF candidates in a directory, the headless
// counterpart of the upload step's file picker.
type Browser struct {
	maxFileSize int64
	validator   *Validator
}

// NewBrowser creates a new directory browser with the specified constraints.
func NewBrowser(maxFileSize int64) *Browser {
	return &Browser{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// Browse walks the directory tree and returns every PDF that passes the
// cheap upload checks, optionally filtered by a case-insensitive substring
// query on the file name. Results are sorted by name for stable output.
func (b *Browser) Browse(req BrowseRequest) (*BrowseResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	var files []FileInfo

	err = filepath.Walk(absDirectory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Keep walking even if a single entry is unreadable.
			return nil //nolint:nilerr
		}
		if info.IsDir() {
			return nil
		}
		if err := b.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return &BrowseResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}
