// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package meta

import (
	"path/filepath"
	"strings"

	"github.com/kraklabs/ipuaro/pkg/model"
)

var configBasenames = map[string]bool{
	"package.json":     true,
	"tsconfig.json":    true,
	"jsconfig.json":    true,
	".eslintrc.json":   true,
	".eslintrc.js":     true,
	".prettierrc.json": true,
}

var configExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// classifyFileType infers a file's project role from its path alone.
func classifyFileType(path string) model.FileType {
	base := filepath.Base(path)
	lower := strings.ToLower(base)

	if isTestPath(path, lower) {
		return model.FileTypeTest
	}
	if configBasenames[lower] || strings.Contains(lower, ".config.") || configExtensions[filepath.Ext(lower)] {
		return model.FileTypeConfig
	}
	return model.FileTypeSource
}

func isTestPath(path, lowerBase string) bool {
	if strings.Contains(lowerBase, ".test.") || strings.Contains(lowerBase, ".spec.") {
		return true
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == "__tests__" || segment == "test" || segment == "tests" {
			return true
		}
	}
	return false
}
