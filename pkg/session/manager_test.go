// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func TestDeriveProjectName_StableAndDisambiguating(t *testing.T) {
	a := DeriveProjectName("/home/user/api")
	b := DeriveProjectName("/home/user/api")
	assert.Equal(t, a, b, "same path must derive the same name")

	c := DeriveProjectName("/home/other/api")
	assert.NotEqual(t, a, c, "different paths sharing a base name must not collide")

	assert.Contains(t, a, "api-")
}

func TestStartSession_CreatesNewWhenNoneExists(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	sess, isNew, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "proj-1", sess.ProjectName)
	assert.NotEmpty(t, sess.ID)

	exists, err := st.SessionExists(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStartSession_ResumesLatestForProject(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	first, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	second, isNew, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartSession_ForceNewAlwaysCreates(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	first, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	second, isNew, err := StartSession(ctx, st, "proj-1", StartOptions{ForceNew: true})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStartSession_ByExplicitID(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	created, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	loaded, isNew, err := StartSession(ctx, st, "proj-1", StartOptions{SessionID: created.ID})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, loaded.ID)
}

func TestStartSession_ByExplicitID_NotFoundErrors(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	_, _, err := StartSession(ctx, st, "proj-1", StartOptions{SessionID: "does-not-exist"})
	require.Error(t, err)
}

func TestAppendMessage_PersistsHistory(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	sess, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	msg := model.ChatMessage{Role: model.RoleUser, Content: "hello", Timestamp: time.Now()}
	require.NoError(t, AppendMessage(ctx, st, sess, msg))

	reloaded, ok, err := st.LoadSession(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, reloaded.History, 1)
	assert.Equal(t, "hello", reloaded.History[0].Content)
}

func TestRecordToolCall_TracksEditOutcomes(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	sess, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	require.NoError(t, RecordToolCall(ctx, st, sess, false, true))
	require.NoError(t, RecordToolCall(ctx, st, sess, true, true))
	require.NoError(t, RecordToolCall(ctx, st, sess, true, false))

	assert.Equal(t, int64(3), sess.Stats.ToolCalls)
	assert.Equal(t, int64(1), sess.Stats.EditsApplied)
	assert.Equal(t, int64(1), sess.Stats.EditsRejected)
}

func TestPushAndPopUndo_MirrorsStoreStack(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	sess, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	entry := model.UndoEntry{ID: "u1", FilePath: "a.ts", Description: "edit"}
	require.NoError(t, PushUndo(ctx, st, sess, entry))
	require.Len(t, sess.UndoStack, 1)

	popped, ok, err := PopUndo(ctx, st, sess)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", popped.ID)
	assert.Empty(t, sess.UndoStack)
}

func TestPushUndo_RespectsMaxDepth(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	sess, _, err := StartSession(ctx, st, "proj-1", StartOptions{})
	require.NoError(t, err)

	for i := 0; i < model.MaxUndoDepth+5; i++ {
		require.NoError(t, PushUndo(ctx, st, sess, model.UndoEntry{ID: string(rune('a' + i))}))
	}
	assert.Len(t, sess.UndoStack, model.MaxUndoDepth)
}
