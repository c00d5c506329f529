// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func TestGetDependencies_ListsInternalImports(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.SetMeta(context.Background(), "proj", "a.ts", model.FileMeta{
		Dependencies: []string{"b.ts", "c.ts"},
	}))
	tc := &ToolContext{Store: st, Project: "proj"}
	def, _ := defaultRegistry.Get("get_dependencies")

	result, err := def.Execute(context.Background(), tc, map[string]any{"path": "a.ts"})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "b.ts")
	assert.Contains(t, result.Data, "c.ts")
}

func TestGetDependents_MarksHub(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.SetMeta(context.Background(), "proj", "util.ts", model.FileMeta{
		Dependents: []string{"a.ts", "b.ts"},
		IsHub:      true,
	}))
	tc := &ToolContext{Store: st, Project: "proj"}
	def, _ := defaultRegistry.Get("get_dependents")

	result, err := def.Execute(context.Background(), tc, map[string]any{"path": "util.ts"})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "hub")
}

func TestGetComplexity_RendersScore(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.SetMeta(context.Background(), "proj", "a.ts", model.FileMeta{
		Complexity: model.Complexity{Score: 42, LOC: 100, Nesting: 3, CyclomaticComplexity: 7},
	}))
	tc := &ToolContext{Store: st, Project: "proj"}
	def, _ := defaultRegistry.Get("get_complexity")

	result, err := def.Execute(context.Background(), tc, map[string]any{"path": "a.ts"})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "42/100")
	assert.Contains(t, result.Data, "LOC 100")
}

func TestGetTodos_FiltersByType(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.SetFile(context.Background(), "proj", model.FileRecord{
		Path: "a.ts",
		Lines: []string{
			"// TODO: fix this",
			"// FIXME: urgent",
			"plain line",
		},
	}))
	tc := &ToolContext{Store: st, Project: "proj"}
	def, _ := defaultRegistry.Get("get_todos")

	result, err := def.Execute(context.Background(), tc, map[string]any{"type": "FIXME"})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "urgent")
	assert.NotContains(t, result.Data, "fix this")
}

func TestGetTodos_NoMarkersFound(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.SetFile(context.Background(), "proj", model.FileRecord{
		Path:  "a.ts",
		Lines: []string{"plain line"},
	}))
	tc := &ToolContext{Store: st, Project: "proj"}
	def, _ := defaultRegistry.Get("get_todos")

	result, err := def.Execute(context.Background(), tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "No TODO")
}
