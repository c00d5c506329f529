// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func TestBuildContext_RendersHeaderDirectoriesAndFiles(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	require.NoError(t, st.SetFile(ctx, "proj", model.FileRecord{Path: "src/a.ts"}))
	require.NoError(t, st.SetFile(ctx, "proj", model.FileRecord{Path: "src/b.ts"}))
	require.NoError(t, st.SetMeta(ctx, "proj", "src/a.ts", model.FileMeta{FileType: model.FileTypeSource, IsHub: true}))
	require.NoError(t, st.SetAST(ctx, "proj", "src/a.ts", model.FileAST{Functions: []model.FunctionInfo{{Name: "f"}}}))

	rendered, err := BuildContext(ctx, st, "proj", 0)
	require.NoError(t, err)
	assert.Contains(t, rendered, "Project: proj")
	assert.Contains(t, rendered, "Files: 2")
	assert.Contains(t, rendered, "src (2 files)")
	assert.Contains(t, rendered, "src/a.ts - source hub fn:1")
}

func TestTruncateContext_CutsOnNewlineBoundary(t *testing.T) {
	s := "line one\nline two\nline three\n"
	out := truncateContext(s, 3) // byte budget 12, lands mid "line two"
	assert.True(t, strings.HasSuffix(out, "\n") || out == "line one")
	assert.False(t, strings.Contains(out, "line three"))
}

func TestTruncateContext_NoOpWhenUnderBudget(t *testing.T) {
	s := "short"
	assert.Equal(t, s, truncateContext(s, 1000))
}

func TestTruncateContext_ZeroBudgetDisablesTruncation(t *testing.T) {
	s := strings.Repeat("x", 10000)
	assert.Equal(t, s, truncateContext(s, 0))
}
