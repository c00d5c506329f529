// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"sort"

	"github.com/kraklabs/ipuaro/pkg/meta"
	"github.com/kraklabs/ipuaro/pkg/model"
)

// sortedPaths returns a map's keys sorted, giving every aggregate build a
// deterministic iteration order regardless of Go's randomized map order —
// the same discipline the teacher's pipeline applies by sorting files
// before parsing.
func sortedPaths[V any](m map[string]V) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// BuildSymbolIndex collects every named declaration across the whole
// project into one symbol → locations map.
func BuildSymbolIndex(allASTs map[string]model.FileAST) model.SymbolIndex {
	idx := make(model.SymbolIndex)
	add := func(name, path string, line int, kind model.SymbolKind) {
		if name == "" {
			return
		}
		idx[name] = append(idx[name], model.SymbolLocation{Path: path, Line: line, Kind: kind})
	}

	for _, path := range sortedPaths(allASTs) {
		ast := allASTs[path]
		for _, fn := range ast.Functions {
			add(fn.Name, path, fn.LineStart, model.SymbolFunction)
		}
		for _, cls := range ast.Classes {
			add(cls.Name, path, cls.LineStart, model.SymbolClass)
		}
		for _, iface := range ast.Interfaces {
			add(iface.Name, path, iface.LineStart, model.SymbolInterface)
		}
		for _, ta := range ast.TypeAliases {
			add(ta.Name, path, ta.LineStart, model.SymbolType)
		}
		// Exports carries function/class/interface/type entries too, for
		// declarations already walked above via their dedicated lists; only
		// its "variable" entries (exported const/let/var bindings, which
		// have no dedicated list of their own) are new here.
		for _, exp := range ast.Exports {
			if exp.Kind == "variable" {
				add(exp.Name, path, exp.Line, model.SymbolVariable)
			}
		}
	}
	return idx
}

// BuildDepsGraph assembles the project-wide import graph from each file's
// already-resolved Dependencies (set by pkg/meta.Analyze), deriving the
// reverse ImportedBy edges. Maintains the invariant a ∈ Imports[b] ⇔
// b ∈ ImportedBy[a].
func BuildDepsGraph(allMetas map[string]model.FileMeta) *model.DepsGraph {
	g := model.NewDepsGraph()
	for _, path := range sortedPaths(allMetas) {
		deps := allMetas[path].Dependencies
		if len(deps) > 0 {
			g.Imports[path] = append([]string(nil), deps...)
		}
		for _, dep := range deps {
			g.ImportedBy[dep] = append(g.ImportedBy[dep], path)
		}
	}
	return g
}

// applyDepsGraph fills in the parts of FileMeta that only the project-wide
// graph can determine: Dependents, IsHub, and IsEntryPoint.
func applyDepsGraph(metas map[string]model.FileMeta, g *model.DepsGraph) {
	for path, m := range metas {
		dependents := g.ImportedBy[path]
		m.Dependents = dependents
		m.IsHub = len(dependents) > meta.HubThreshold
		m.IsEntryPoint = len(dependents) == 0 && m.FileType == model.FileTypeSource
		metas[path] = m
	}
}
