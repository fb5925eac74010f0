package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileType categorizes discovered input files
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeXLSX
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// TypePattern maps a glob pattern to a FileType for type detection.
// Patterns are matched in order; first match wins.
type TypePattern struct {
	Pattern  string
	FileType FileType
}

// typePatterns are matched against the lower-cased base name.
var typePatterns = []TypePattern{
	{"*.csv", FileTypeCSV},
	{"*.{xlsx,xlsm}", FileTypeXLSX},
}

// DirectoryPattern is appended to directory arguments to find every supported input.
const DirectoryPattern = "**/*.{csv,xlsx,xlsm}"

// File represents a discovered input file
type File struct {
	Path string
	Size int64
	Type FileType
}

// DetectFileType determines the input type from the file name.
func DetectFileType(path string) (FileType, error) {
	base := strings.ToLower(filepath.Base(path))
	for _, tp := range typePatterns {
		matched, err := doublestar.Match(tp.Pattern, base)
		if err != nil {
			continue
		}
		if matched {
			return tp.FileType, nil
		}
	}

	ext := filepath.Ext(base)
	if ext == "" {
		return FileTypeUnknown, fmt.Errorf("unsupported file: %s has no extension; expected .csv or .xlsx", filepath.Base(path))
	}
	if ext == ".xls" {
		return FileTypeUnknown, fmt.Errorf("unsupported file type: %s; save legacy .xls workbooks as .xlsx", ext)
	}
	return FileTypeUnknown, fmt.Errorf("unsupported file type: %s; expected .csv or .xlsx", ext)
}

// ValidateFilePath checks that path is an existing, non-empty regular file.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}
	return absPath, nil
}

// FileDiscovery resolves input arguments to files
type FileDiscovery struct {
	rootPath string
}

// NewFileDiscovery creates a FileDiscovery resolving relative patterns against rootPath.
// An empty rootPath means the working directory.
func NewFileDiscovery(rootPath string) *FileDiscovery {
	return &FileDiscovery{rootPath: rootPath}
}

// DiscoverFiles expands each argument into input files. An argument may be a file,
// a directory (searched recursively) or a doublestar glob such as "data/**/*.xlsx".
// The result is de-duplicated and sorted by path.
func (fd *FileDiscovery) DiscoverFiles(args []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, arg := range args {
		matches, err := fd.expand(arg)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			f, ok := fd.processMatch(m)
			if !ok || seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (fd *FileDiscovery) expand(arg string) ([]string, error) {
	pattern := arg
	if fd.rootPath != "" && !filepath.IsAbs(pattern) {
		pattern = filepath.Join(fd.rootPath, pattern)
	}

	if info, err := os.Stat(pattern); err == nil {
		if !info.IsDir() {
			return []string{pattern}, nil
		}
		pattern = filepath.Join(pattern, DirectoryPattern)
	}

	if !doublestar.ValidatePathPattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("invalid input pattern %q", arg)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("error evaluating pattern %s: %w", arg, err)
	}
	return matches, nil
}

// processMatch converts a glob match into a File, returning false if it should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	info, err := os.Stat(match)
	if err != nil || info.IsDir() {
		return File{}, false
	}
	ft, err := DetectFileType(match)
	if err != nil {
		return File{}, false
	}
	abs, err := filepath.Abs(match)
	if err != nil {
		abs = match
	}
	return File{Path: abs, Size: info.Size(), Type: ft}, true
}
