// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// DeriveProjectName turns an absolute project root into the deterministic
// name Session.ProjectName and the Index Store's key namespace use. Two
// different directories that happen to share a base name (e.g. two
// checkouts named "api") must not collide, so the name carries a short
// hash of the full path alongside the human-readable base.
func DeriveProjectName(absRoot string) string {
	clean := filepath.Clean(absRoot)
	sum := sha256.Sum256([]byte(clean))
	return filepath.Base(clean) + "-" + hex.EncodeToString(sum[:])[:8]
}

// StartOptions controls StartSession's branch selection.
type StartOptions struct {
	SessionID string
	ForceNew  bool
}

// StartSession implements C10's startSession operation, returning the
// resolved session and whether it was freshly created.
func StartSession(ctx context.Context, st store.Store, projectName string, opts StartOptions) (*model.Session, bool, error) {
	if opts.ForceNew {
		return newSession(ctx, st, projectName)
	}

	if opts.SessionID != "" {
		exists, err := st.SessionExists(ctx, opts.SessionID)
		if err != nil {
			return nil, false, err
		}
		if exists {
			sess, ok, err := st.LoadSession(ctx, opts.SessionID)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, coreerrors.Newf(coreerrors.KindNotFound, "session %q vanished between exists and load", opts.SessionID)
			}
			if err := touch(ctx, st, sess); err != nil {
				return nil, false, err
			}
			return sess, false, nil
		}
		return nil, false, coreerrors.Newf(coreerrors.KindNotFound, "session %q not found", opts.SessionID)
	}

	latest, ok, err := st.GetLatestSession(ctx, projectName)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if err := touch(ctx, st, latest); err != nil {
			return nil, false, err
		}
		return latest, false, nil
	}

	return newSession(ctx, st, projectName)
}

func newSession(ctx context.Context, st store.Store, projectName string) (*model.Session, bool, error) {
	now := time.Now().UTC()
	sess := &model.Session{
		ID:             uuid.NewString(),
		ProjectName:    projectName,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := st.SaveSession(ctx, *sess); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

func touch(ctx context.Context, st store.Store, sess *model.Session) error {
	sess.LastActivityAt = time.Now().UTC()
	return st.TouchSession(ctx, sess.ID)
}

// AppendMessage appends msg to sess's history and persists immediately, per
// C10's "every mutation flushes to C1" rule.
func AppendMessage(ctx context.Context, st store.Store, sess *model.Session, msg model.ChatMessage) error {
	sess.History = append(sess.History, msg)
	sess.LastActivityAt = time.Now().UTC()
	return st.SaveSession(ctx, *sess)
}

// AppendInput records one raw user input line in sess's input history and
// persists immediately.
func AppendInput(ctx context.Context, st store.Store, sess *model.Session, text string) error {
	sess.InputHistory = append(sess.InputHistory, text)
	return st.SaveSession(ctx, *sess)
}

// RecordToolCall increments sess.Stats.ToolCalls and, when the call was an
// accepted edit, EditsApplied; a failed or cancelled edit increments
// EditsRejected instead. Persists immediately.
func RecordToolCall(ctx context.Context, st store.Store, sess *model.Session, isEdit, succeeded bool) error {
	sess.Stats.ToolCalls++
	if isEdit {
		if succeeded {
			sess.Stats.EditsApplied++
		} else {
			sess.Stats.EditsRejected++
		}
	}
	return st.SaveSession(ctx, *sess)
}

// RecordUsage accumulates token and wall-clock counters and persists
// immediately.
func RecordUsage(ctx context.Context, st store.Store, sess *model.Session, tokens int64, elapsed time.Duration) error {
	sess.Stats.TotalTokens += tokens
	sess.Stats.TotalTimeMs += elapsed.Milliseconds()
	return st.SaveSession(ctx, *sess)
}

// PushUndo delegates to the store's bounded undo stack and mirrors the
// trimmed view back onto sess.UndoStack so in-memory state stays
// consistent with what C1 holds.
func PushUndo(ctx context.Context, st store.Store, sess *model.Session, entry model.UndoEntry) error {
	if err := st.PushUndoEntry(ctx, sess.ID, entry); err != nil {
		return err
	}
	stack, err := st.GetUndoStack(ctx, sess.ID)
	if err != nil {
		return err
	}
	sess.UndoStack = stack
	return nil
}

// PopUndo pops the most recent undo entry, if any, and refreshes
// sess.UndoStack.
func PopUndo(ctx context.Context, st store.Store, sess *model.Session) (*model.UndoEntry, bool, error) {
	entry, ok, err := st.PopUndoEntry(ctx, sess.ID)
	if err != nil || !ok {
		return nil, ok, err
	}
	stack, err := st.GetUndoStack(ctx, sess.ID)
	if err != nil {
		return nil, false, err
	}
	sess.UndoStack = stack
	return entry, true, nil
}

// SetFilesInContext replaces the session's working-set list and persists.
func SetFilesInContext(ctx context.Context, st store.Store, sess *model.Session, files []string) error {
	sess.Context.FilesInContext = files
	return st.SaveSession(ctx, *sess)
}

// MarkNeedsCompression flips the compression-pressure flag C9 sets once
// token usage crosses its budget, and persists.
func MarkNeedsCompression(ctx context.Context, st store.Store, sess *model.Session, needs bool) error {
	sess.Context.NeedsCompression = needs
	return st.SaveSession(ctx, *sess)
}
