package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

// DirStats summarizes one directory listing.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Hidden  uint32
}

// ListPDFs returns the PDF files directly inside root, matched by extension
// case-insensitively, in lexicographic order of their base names.
// Subdirectories are not descended into.
func ListPDFs(root string, skipHidden bool) ([]string, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, fmt.Errorf("%w: input directory is required", common.ErrInvalidInput)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, stats, fmt.Errorf("%w: input directory %s does not exist", common.ErrInvalidInput, root)
		}
		return nil, stats, fmt.Errorf("read dir %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if skipHidden && IsHidden(name) {
			stats.Hidden++
			continue
		}
		if !AllowedExt(filepath.Ext(name)) {
			continue
		}
		stats.Matched++
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(root, n)
	}
	return paths, stats, nil
}

// Cap truncates paths to at most limit entries; limit <= 0 means unlimited.
// The second return value holds the entries left untouched.
func Cap(paths []string, limit int) (selected, skipped []string) {
	if limit <= 0 || limit >= len(paths) {
		return paths, nil
	}
	return paths[:limit], paths[limit:]
}

// AllowedExt reports whether ext names a PDF.
func AllowedExt(ext string) bool {
	return constants.IsPDFExt(ext)
}
