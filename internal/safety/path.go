// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package safety

import (
	"path/filepath"
	"runtime"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

// ResolvePath resolves a project-relative path against root and verifies it
// does not escape root after normalization, the same traversal check
// repo_loader.go applies before trusting a local repository path, extended
// here to a containment comparison rather than a traversal-syntax check
// alone (a path can normalize to something outside root without containing
// ".." in its original, unresolved form — e.g. a deep ".." chain collapsed
// by Clean). The check is lexical: symlinks are not resolved, so a link
// inside root that points outside it is not detected.
//
// Returns the resolved absolute path on success.
func ResolvePath(root, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", coreerrors.Newf(coreerrors.KindPathEscape, "path must be project-relative: %s", relPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.KindInternal, "resolve project root", err)
	}
	absRoot = filepath.Clean(absRoot)

	candidate := filepath.Join(absRoot, filepath.FromSlash(relPath))
	candidate = filepath.Clean(candidate)

	if !isContained(absRoot, candidate) {
		return "", coreerrors.Newf(coreerrors.KindPathEscape, "path escapes project root: %s", relPath)
	}
	return candidate, nil
}

// isContained reports whether candidate is root itself or lies under it.
// Comparison is case-insensitive on Windows and Darwin's default
// case-insensitive filesystems; case-sensitive elsewhere.
func isContained(root, candidate string) bool {
	r, c := root, candidate
	if caseInsensitiveFS() {
		r = strings.ToLower(r)
		c = strings.ToLower(c)
	}
	if c == r {
		return true
	}
	return strings.HasPrefix(c, r+string(filepath.Separator))
}

func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
