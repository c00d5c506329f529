// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package meta

import (
	"path"
	"strings"
)

// candidateExtensions and candidateIndexFiles mirror how a TypeScript/JS
// bundler resolves an extension-less relative specifier.
var candidateExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx"}
var candidateIndexFiles = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// resolveImportPath resolves one relative import specifier (source, from
// ImportInfo.Source) against fromPath's directory to a project-relative
// path present in knownPaths. Bare specifiers (package names, no leading
// "./" or "../") are external and always resolve to ("", false) — this is
// the generalization of the teacher's CallResolver import-path-to-package
// mapping, reworked from Go import paths to filesystem-relative ones.
func resolveImportPath(fromPath, source string, knownPaths map[string]bool) (string, bool) {
	if !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") {
		return "", false
	}

	dir := path.Dir(fromPath)
	joined := path.Join(dir, source)

	for _, ext := range candidateExtensions {
		candidate := joined + ext
		if knownPaths[candidate] {
			return candidate, true
		}
	}
	for _, idx := range candidateIndexFiles {
		candidate := path.Join(joined, idx)
		if knownPaths[candidate] {
			return candidate, true
		}
	}
	return "", false
}
