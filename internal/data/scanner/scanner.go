package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// DefaultExt is the extension of message files.
const DefaultExt = ".txt"

// FileScanner finds message files under a directory
type FileScanner struct {
	baseDir   string
	ext       string
	recursive bool
}

// NewFileScanner creates a scanner for *.txt files directly inside baseDir
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		ext:     DefaultExt,
	}
}

// WithExtension changes the matched extension (case-insensitive)
func (s *FileScanner) WithExtension(ext string) *FileScanner {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.ext = strings.ToLower(ext)
	return s
}

// Recursive makes the scanner descend into subdirectories
func (s *FileScanner) Recursive(recursive bool) *FileScanner {
	s.recursive = recursive
	return s
}

// Scan returns matching files sorted by path, so messages are replayed in a
// stable order. Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			if path != s.baseDir && !s.recursive {
				return filepath.SkipDir
			}
			return nil
		}

		totalCount++
		if strings.ToLower(filepath.Ext(path)) == s.ext {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d message files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}

// ExpandPaths replaces every directory in paths with the message files it
// contains and keeps plain files as given.
func ExpandPaths(paths []string, recursive bool) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := NewFileScanner(p).Recursive(recursive).Scan()
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
