// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one scanned file, relative to the project root.
type Entry struct {
	Path  string
	Size  int64
	Mtime int64 // unix seconds
}

// DefaultIgnorePatterns mirrors spec.md §4.2's default exclude list.
func DefaultIgnorePatterns() []string {
	return []string{"node_modules", "dist", ".git", "coverage", "build"}
}

// SupportedExtensions is the set of file extensions C2 will emit; anything
// else is skipped during the walk, not merely filtered out later.
var SupportedExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Options configures one Scan call.
type Options struct {
	IgnorePatterns []string // nil uses DefaultIgnorePatterns
	BatchSize      int      // progress callback granularity; 0 uses 200
}

// ProgressFunc is invoked after each batch of files is discovered, with the
// running total scanned so far.
type ProgressFunc func(scanned int)

// Scan walks root and returns every indexable file in sorted-path order —
// the orchestrator (C6) and the symbol/deps builders (C5) both depend on
// this ordering for deterministic, reproducible output (spec P4).
func Scan(root string, opts Options, onProgress ProgressFunc) ([]Entry, error) {
	patterns := opts.IgnorePatterns
	if patterns == nil {
		patterns = DefaultIgnorePatterns()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 200
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	scanned := 0

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Permission errors on individual nodes don't abort the scan;
			// the caller sees fewer files, not a fatal error.
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if matchesIgnore(relPath, patterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil || !withinRoot(absRoot, target) {
				return nil
			}
		}

		if matchesIgnore(relPath, patterns) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(relPath))
		if !SupportedExtensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		entries = append(entries, Entry{
			Path:  relPath,
			Size:  info.Size(),
			Mtime: info.ModTime().Unix(),
		})
		scanned++
		if onProgress != nil && scanned%batchSize == 0 {
			onProgress(scanned)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	if onProgress != nil && scanned%batchSize != 0 {
		onProgress(scanned)
	}

	return entries, nil
}

func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
