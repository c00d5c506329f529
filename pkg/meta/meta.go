// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package meta

import (
	"sort"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// Analyze derives a FileMeta for one file. knownPaths is the set of every
// project-relative path currently indexed, used to resolve this file's
// relative imports to dependency paths; it need not include path itself.
//
// Dependents and IsHub are left at their zero value: they depend on the
// whole project's import graph, which only pkg/index's orchestrator has
// after running BuildDepsGraph across every file.
func Analyze(filePath string, ast model.FileAST, content []byte, knownPaths map[string]bool) model.FileMeta {
	meta := model.FileMeta{
		Complexity: computeComplexity(content),
		FileType:   classifyFileType(filePath),
	}

	seen := make(map[string]bool)
	for _, imp := range ast.Imports {
		dep, ok := resolveImportPath(filePath, imp.Source, knownPaths)
		if !ok || dep == filePath || seen[dep] {
			continue
		}
		seen[dep] = true
		meta.Dependencies = append(meta.Dependencies, dep)
	}
	sort.Strings(meta.Dependencies)

	return meta
}
