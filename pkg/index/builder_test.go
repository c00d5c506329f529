// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func TestBuildSymbolIndex(t *testing.T) {
	allASTs := map[string]model.FileAST{
		"src/a.ts": {Functions: []model.FunctionInfo{{Name: "add", LineStart: 1}}},
		"src/b.ts": {Classes: []model.ClassInfo{{Name: "Service", LineStart: 3}}},
	}

	idx := BuildSymbolIndex(allASTs)

	assert.Len(t, idx["add"], 1)
	assert.Equal(t, model.SymbolFunction, idx["add"][0].Kind)
	assert.Equal(t, "src/a.ts", idx["add"][0].Path)

	assert.Len(t, idx["Service"], 1)
	assert.Equal(t, model.SymbolClass, idx["Service"][0].Kind)
}

func TestBuildSymbolIndex_ExportedVariableIncluded(t *testing.T) {
	allASTs := map[string]model.FileAST{
		"src/config.ts": {
			Functions: []model.FunctionInfo{{Name: "load", LineStart: 1}},
			Exports: []model.ExportInfo{
				{Name: "MAX_RETRIES", Kind: "variable", Line: 2},
				// Already counted via Functions above; must not be duplicated.
				{Name: "load", Kind: "function", Line: 1},
			},
		},
	}

	idx := BuildSymbolIndex(allASTs)

	assert.Len(t, idx["MAX_RETRIES"], 1)
	assert.Equal(t, model.SymbolVariable, idx["MAX_RETRIES"][0].Kind)
	assert.Equal(t, "src/config.ts", idx["MAX_RETRIES"][0].Path)
	assert.Equal(t, 2, idx["MAX_RETRIES"][0].Line)

	assert.Len(t, idx["load"], 1)
}

func TestBuildDepsGraph_ReverseEdgesConsistent(t *testing.T) {
	metas := map[string]model.FileMeta{
		"src/a.ts": {Dependencies: []string{"src/b.ts", "src/c.ts"}},
		"src/b.ts": {Dependencies: []string{"src/c.ts"}},
		"src/c.ts": {},
	}

	g := BuildDepsGraph(metas)

	assert.ElementsMatch(t, []string{"src/b.ts", "src/c.ts"}, g.Imports["src/a.ts"])
	assert.ElementsMatch(t, []string{"src/a.ts", "src/b.ts"}, g.ImportedBy["src/c.ts"])
	assert.ElementsMatch(t, []string{"src/a.ts"}, g.ImportedBy["src/b.ts"])
}

func TestApplyDepsGraph_HubAndEntryPoint(t *testing.T) {
	metas := map[string]model.FileMeta{
		"src/hub.ts":   {FileType: model.FileTypeSource},
		"src/entry.ts": {FileType: model.FileTypeSource},
	}
	g := model.NewDepsGraph()
	for i := 0; i < 6; i++ {
		importer := fmt.Sprintf("src/importer%d.ts", i)
		g.ImportedBy["src/hub.ts"] = append(g.ImportedBy["src/hub.ts"], importer)
	}

	applyDepsGraph(metas, g)

	assert.True(t, metas["src/hub.ts"].IsHub)
	assert.False(t, metas["src/hub.ts"].IsEntryPoint)
	assert.False(t, metas["src/entry.ts"].IsHub)
	assert.True(t, metas["src/entry.ts"].IsEntryPoint)
}
