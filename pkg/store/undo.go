// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// PushUndoEntry appends e to the session's undo list and trims from the
// front so the stack never exceeds model.MaxUndoDepth — two store
// operations instead of a read-modify-write, so a concurrent reader never
// observes a torn stack (design note: "Undo stack").
func (s *store) PushUndoEntry(ctx context.Context, sessionID string, e model.UndoEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return storeErr("pushUndoEntry:encode", err)
	}
	if err := s.kv.rPush(ctx, undoKey(sessionID), string(raw)); err != nil {
		return storeErr("pushUndoEntry", err)
	}
	return storeErr("pushUndoEntry:trim", s.kv.lTrimFront(ctx, undoKey(sessionID), model.MaxUndoDepth))
}

func (s *store) PopUndoEntry(ctx context.Context, sessionID string) (*model.UndoEntry, bool, error) {
	raw, ok, err := s.kv.rPop(ctx, undoKey(sessionID))
	if err != nil {
		return nil, false, storeErr("popUndoEntry", err)
	}
	if !ok {
		return nil, false, nil
	}
	var e model.UndoEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, false, storeErr("popUndoEntry:decode", err)
	}
	return &e, true, nil
}

func (s *store) GetUndoStack(ctx context.Context, sessionID string) ([]model.UndoEntry, error) {
	raws, err := s.kv.lRange(ctx, undoKey(sessionID), 0, -1)
	if err != nil {
		return nil, storeErr("getUndoStack", err)
	}
	out := make([]model.UndoEntry, 0, len(raws))
	for _, raw := range raws {
		var e model.UndoEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, storeErr("getUndoStack:decode", err)
		}
		out = append(out, e)
	}
	return out, nil
}
