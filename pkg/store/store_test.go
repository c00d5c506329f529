// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func newTestStore() *store {
	return newWithKV(newFakeKV())
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	rec := model.FileRecord{Path: "src/a.ts", Lines: []string{"export function f(){}"}, Hash: "h1", Size: 22, Mtime: 100}
	require.NoError(t, s.SetFile(ctx, "proj", rec))

	got, ok, err := s.GetFile(ctx, "proj", "src/a.ts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, *got)

	count, err := s.GetFileCount(ctx, "proj")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.DeleteFile(ctx, "proj", "src/a.ts"))
	_, ok, err = s.GetFile(ctx, "proj", "src/a.ts")
	require.NoError(t, err)
	assert.False(t, ok)

	count, err = s.GetFileCount(ctx, "proj")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetAllFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.SetFile(ctx, "proj", model.FileRecord{Path: "a.ts"}))
	require.NoError(t, s.SetFile(ctx, "proj", model.FileRecord{Path: "b.ts"}))

	all, err := s.GetAllFiles(ctx, "proj")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a.ts")
	assert.Contains(t, all, "b.ts")
}

func TestASTRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	ast := model.FileAST{Functions: []model.FunctionInfo{{Name: "f", LineStart: 1, LineEnd: 1}}}
	require.NoError(t, s.SetAST(ctx, "proj", "a.ts", ast))

	got, ok, err := s.GetAST(ctx, "proj", "a.ts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ast, *got)

	require.NoError(t, s.DeleteAST(ctx, "proj", "a.ts"))
	_, ok, err = s.GetAST(ctx, "proj", "a.ts")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSymbolIndexAndDepsGraphRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	idx := model.SymbolIndex{"f": {{Path: "a.ts", Line: 1, Kind: model.SymbolFunction}}}
	require.NoError(t, s.SetSymbolIndex(ctx, "proj", idx))
	gotIdx, ok, err := s.GetSymbolIndex(ctx, "proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idx, gotIdx)

	g := model.DepsGraph{
		Imports:    map[string][]string{"b.ts": {"a.ts"}},
		ImportedBy: map[string][]string{"a.ts": {"b.ts"}},
	}
	require.NoError(t, s.SetDepsGraph(ctx, "proj", g))
	gotGraph, ok, err := s.GetDepsGraph(ctx, "proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, g, *gotGraph)
}

func TestProjectConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.SetProjectConfig(ctx, "proj", "last_indexed", "2026-01-01T00:00:00Z"))
	v, ok, err := s.GetProjectConfig(ctx, "proj", "last_indexed")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2026-01-01T00:00:00Z", v)

	_, ok, err = s.GetProjectConfig(ctx, "proj", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestUndoStackBounded covers P2: the undo stack never exceeds 10 entries,
// with the oldest trimmed first.
func TestUndoStackBounded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	for i := 0; i < 15; i++ {
		entry := model.UndoEntry{ID: string(rune('a' + i)), FilePath: "a.ts"}
		require.NoError(t, s.PushUndoEntry(ctx, "sess1", entry))
	}

	stack, err := s.GetUndoStack(ctx, "sess1")
	require.NoError(t, err)
	assert.Len(t, stack, model.MaxUndoDepth)
	// the 5 oldest (a..e) were trimmed; the stack starts at 'f'
	assert.Equal(t, "f", stack[0].ID)
	assert.Equal(t, "o", stack[len(stack)-1].ID)
}

func TestUndoPushPop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.PushUndoEntry(ctx, "sess1", model.UndoEntry{ID: "1"}))
	require.NoError(t, s.PushUndoEntry(ctx, "sess1", model.UndoEntry{ID: "2"}))

	popped, ok, err := s.PopUndoEntry(ctx, "sess1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", popped.ID)

	stack, err := s.GetUndoStack(ctx, "sess1")
	require.NoError(t, err)
	assert.Len(t, stack, 1)
	assert.Equal(t, "1", stack[0].ID)

	_, ok, err = s.PopUndoEntry(ctx, "emptysession")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestSessionLifecycle covers the E2E "session resume" scenario: creating
// then reloading a session yields the same id, and lastActivityAt strictly
// increases on touch.
func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := model.Session{ID: "sess-1", ProjectName: "proj", CreatedAt: created, LastActivityAt: created}
	require.NoError(t, s.SaveSession(ctx, sess))

	exists, err := s.SessionExists(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, ok, err := s.LoadSession(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sess-1", loaded.ID)
	assert.Equal(t, "proj", loaded.ProjectName)
	assert.Empty(t, loaded.UndoStack)

	time.Sleep(time.Millisecond)
	require.NoError(t, s.TouchSession(ctx, "sess-1"))
	reloaded, ok, err := s.LoadSession(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, reloaded.LastActivityAt.After(created))

	latest, ok, err := s.GetLatestSession(ctx, "proj")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sess-1", latest.ID)

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))
	exists, err = s.SessionExists(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListSessionsFiltersByProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.SaveSession(ctx, model.Session{ID: "s1", ProjectName: "proj-a"}))
	require.NoError(t, s.SaveSession(ctx, model.Session{ID: "s2", ProjectName: "proj-b"}))
	require.NoError(t, s.SaveSession(ctx, model.Session{ID: "s3", ProjectName: "proj-a"}))

	ids, err := s.ListSessions(ctx, "proj-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s3"}, ids)

	all, err := s.ListSessions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestClearAllSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.SaveSession(ctx, model.Session{ID: "s1", ProjectName: "proj"}))
	require.NoError(t, s.PushUndoEntry(ctx, "s1", model.UndoEntry{ID: "u1"}))

	require.NoError(t, s.ClearAllSessions(ctx))

	exists, err := s.SessionExists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, exists)

	stack, err := s.GetUndoStack(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, stack)
}
