// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func encodeSessionFields(s model.Session) (map[string]string, error) {
	history, err := json.Marshal(s.History)
	if err != nil {
		return nil, err
	}
	sctx, err := json.Marshal(s.Context)
	if err != nil {
		return nil, err
	}
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return nil, err
	}
	inputHistory, err := json.Marshal(s.InputHistory)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"id":             s.ID,
		"projectName":    s.ProjectName,
		"createdAt":      s.CreatedAt.Format(time.RFC3339Nano),
		"lastActivityAt": s.LastActivityAt.Format(time.RFC3339Nano),
		"history":        string(history),
		"context":        string(sctx),
		"stats":          string(stats),
		"inputHistory":   string(inputHistory),
	}, nil
}

func decodeSessionFields(fields map[string]string) (*model.Session, error) {
	var s model.Session
	s.ID = fields["id"]
	s.ProjectName = fields["projectName"]
	if v := fields["createdAt"]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, err
		}
		s.CreatedAt = t
	}
	if v := fields["lastActivityAt"]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, err
		}
		s.LastActivityAt = t
	}
	if v := fields["history"]; v != "" {
		if err := json.Unmarshal([]byte(v), &s.History); err != nil {
			return nil, err
		}
	}
	if v := fields["context"]; v != "" {
		if err := json.Unmarshal([]byte(v), &s.Context); err != nil {
			return nil, err
		}
	}
	if v := fields["stats"]; v != "" {
		if err := json.Unmarshal([]byte(v), &s.Stats); err != nil {
			return nil, err
		}
	}
	if v := fields["inputHistory"]; v != "" {
		if err := json.Unmarshal([]byte(v), &s.InputHistory); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// SaveSession writes a session's hash fields in one HSET command. The
// undo stack lives in its own list key and is not touched here — it is
// mutated only through PushUndoEntry/PopUndoEntry, so saving a session
// never rewrites (or races with) the stack.
func (s *store) SaveSession(ctx context.Context, sess model.Session) error {
	existed, err := s.kv.exists(ctx, sessionKey(sess.ID))
	if err != nil {
		return storeErr("saveSession:exists", err)
	}
	fields, err := encodeSessionFields(sess)
	if err != nil {
		return storeErr("saveSession:encode", err)
	}
	if err := s.kv.hSet(ctx, sessionKey(sess.ID), fields); err != nil {
		return storeErr("saveSession", err)
	}
	if !existed {
		if err := s.kv.rPush(ctx, sessionsListKey(), sess.ID); err != nil {
			return storeErr("saveSession:list", err)
		}
	}
	return nil
}

func (s *store) LoadSession(ctx context.Context, id string) (*model.Session, bool, error) {
	fields, err := s.kv.hGetAll(ctx, sessionKey(id))
	if err != nil {
		return nil, false, storeErr("loadSession", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	sess, err := decodeSessionFields(fields)
	if err != nil {
		return nil, false, storeErr("loadSession:decode", err)
	}
	undo, err := s.GetUndoStack(ctx, id)
	if err != nil {
		return nil, false, err
	}
	sess.UndoStack = undo
	return sess, true, nil
}

func (s *store) DeleteSession(ctx context.Context, id string) error {
	if err := s.kv.del(ctx, sessionKey(id), undoKey(id)); err != nil {
		return storeErr("deleteSession", err)
	}
	return storeErr("deleteSession:list", s.kv.lRem(ctx, sessionsListKey(), id))
}

func (s *store) ListSessions(ctx context.Context, projectFilter string) ([]string, error) {
	ids, err := s.kv.lRange(ctx, sessionsListKey(), 0, -1)
	if err != nil {
		return nil, storeErr("listSessions", err)
	}
	if projectFilter == "" {
		return ids, nil
	}
	var out []string
	for _, id := range ids {
		fields, err := s.kv.hGetAll(ctx, sessionKey(id))
		if err != nil {
			return nil, storeErr("listSessions:lookup", err)
		}
		if fields["projectName"] == projectFilter {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *store) GetLatestSession(ctx context.Context, project string) (*model.Session, bool, error) {
	ids, err := s.ListSessions(ctx, project)
	if err != nil {
		return nil, false, err
	}
	var latest *model.Session
	for _, id := range ids {
		sess, ok, err := s.LoadSession(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if latest == nil || sess.LastActivityAt.After(latest.LastActivityAt) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, false, nil
	}
	return latest, true, nil
}

func (s *store) SessionExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.kv.exists(ctx, sessionKey(id))
	if err != nil {
		return false, storeErr("sessionExists", err)
	}
	return ok, nil
}

func (s *store) TouchSession(ctx context.Context, id string) error {
	return storeErr("touchSession", s.kv.hSet(ctx, sessionKey(id), map[string]string{
		"lastActivityAt": time.Now().UTC().Format(time.RFC3339Nano),
	}))
}

func (s *store) ClearAllSessions(ctx context.Context) error {
	ids, err := s.kv.lRange(ctx, sessionsListKey(), 0, -1)
	if err != nil {
		return storeErr("clearAllSessions", err)
	}
	for _, id := range ids {
		if err := s.kv.del(ctx, sessionKey(id), undoKey(id)); err != nil {
			return storeErr("clearAllSessions:del", err)
		}
	}
	return storeErr("clearAllSessions:list", s.kv.del(ctx, sessionsListKey()))
}
