// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// fakeStore is a minimal in-memory store.Store double covering only the
// session and undo operations this package exercises, the same kind
// pkg/tools keeps alongside its own tests to drive behavior without a
// live Redis.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	undo     map[string][]model.UndoEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]model.Session),
		undo:     make(map[string][]model.UndoEntry),
	}
}

func (s *fakeStore) GetFile(ctx context.Context, project, path string) (*model.FileRecord, bool, error) {
	return nil, false, nil
}
func (s *fakeStore) SetFile(ctx context.Context, project string, f model.FileRecord) error {
	return nil
}
func (s *fakeStore) DeleteFile(ctx context.Context, project, path string) error { return nil }
func (s *fakeStore) GetAllFiles(ctx context.Context, project string) (map[string]model.FileRecord, error) {
	return nil, nil
}
func (s *fakeStore) GetFileCount(ctx context.Context, project string) (int, error) { return 0, nil }

func (s *fakeStore) GetAST(ctx context.Context, project, path string) (*model.FileAST, bool, error) {
	return nil, false, nil
}
func (s *fakeStore) SetAST(ctx context.Context, project, path string, ast model.FileAST) error {
	return nil
}
func (s *fakeStore) DeleteAST(ctx context.Context, project, path string) error { return nil }
func (s *fakeStore) GetAllASTs(ctx context.Context, project string) (map[string]model.FileAST, error) {
	return nil, nil
}

func (s *fakeStore) GetMeta(ctx context.Context, project, path string) (*model.FileMeta, bool, error) {
	return nil, false, nil
}
func (s *fakeStore) SetMeta(ctx context.Context, project, path string, meta model.FileMeta) error {
	return nil
}
func (s *fakeStore) DeleteMeta(ctx context.Context, project, path string) error { return nil }
func (s *fakeStore) GetAllMetas(ctx context.Context, project string) (map[string]model.FileMeta, error) {
	return nil, nil
}

func (s *fakeStore) GetSymbolIndex(ctx context.Context, project string) (model.SymbolIndex, bool, error) {
	return model.SymbolIndex{}, false, nil
}
func (s *fakeStore) SetSymbolIndex(ctx context.Context, project string, idx model.SymbolIndex) error {
	return nil
}
func (s *fakeStore) GetDepsGraph(ctx context.Context, project string) (*model.DepsGraph, bool, error) {
	return nil, false, nil
}
func (s *fakeStore) SetDepsGraph(ctx context.Context, project string, g model.DepsGraph) error {
	return nil
}

func (s *fakeStore) GetProjectConfig(ctx context.Context, project, k string) (string, bool, error) {
	return "", false, nil
}
func (s *fakeStore) SetProjectConfig(ctx context.Context, project, k, v string) error { return nil }

func (s *fakeStore) SaveSession(ctx context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeStore) LoadSession(ctx context.Context, id string) (*model.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false, nil
	}
	cp := sess
	return &cp, true, nil
}

func (s *fakeStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *fakeStore) ListSessions(ctx context.Context, projectFilter string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, sess := range s.sessions {
		if projectFilter == "" || sess.ProjectName == projectFilter {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *fakeStore) GetLatestSession(ctx context.Context, project string) (*model.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Session
	for id := range s.sessions {
		sess := s.sessions[id]
		if sess.ProjectName != project {
			continue
		}
		if latest == nil || sess.LastActivityAt.After(latest.LastActivityAt) {
			cp := sess
			latest = &cp
		}
	}
	if latest == nil {
		return nil, false, nil
	}
	return latest, true, nil
}

func (s *fakeStore) SessionExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok, nil
}

func (s *fakeStore) TouchSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.LastActivityAt = time.Now().UTC()
	s.sessions[id] = sess
	return nil
}

func (s *fakeStore) ClearAllSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]model.Session)
	return nil
}

func (s *fakeStore) PushUndoEntry(ctx context.Context, sessionID string, e model.UndoEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := append(s.undo[sessionID], e)
	if len(stack) > model.MaxUndoDepth {
		stack = stack[len(stack)-model.MaxUndoDepth:]
	}
	s.undo[sessionID] = stack
	return nil
}

func (s *fakeStore) PopUndoEntry(ctx context.Context, sessionID string) (*model.UndoEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.undo[sessionID]
	if len(stack) == 0 {
		return nil, false, nil
	}
	last := stack[len(stack)-1]
	s.undo[sessionID] = stack[:len(stack)-1]
	return &last, true, nil
}

func (s *fakeStore) GetUndoStack(ctx context.Context, sessionID string) ([]model.UndoEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.UndoEntry, len(s.undo[sessionID]))
	copy(out, s.undo[sessionID])
	return out, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                   { return nil }
