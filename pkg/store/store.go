// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/pkg/model"
)

// Config configures the Redis connection backing a Store.
type Config struct {
	Addr     string // host:port, defaults to localhost:6379
	Password string
	DB       int
}

// Store is the Index Store (C1): every other core package reads and
// writes persisted state exclusively through this interface.
type Store interface {
	// Files
	GetFile(ctx context.Context, project, path string) (*model.FileRecord, bool, error)
	SetFile(ctx context.Context, project string, f model.FileRecord) error
	DeleteFile(ctx context.Context, project, path string) error
	GetAllFiles(ctx context.Context, project string) (map[string]model.FileRecord, error)
	GetFileCount(ctx context.Context, project string) (int, error)

	// ASTs
	GetAST(ctx context.Context, project, path string) (*model.FileAST, bool, error)
	SetAST(ctx context.Context, project, path string, ast model.FileAST) error
	DeleteAST(ctx context.Context, project, path string) error
	GetAllASTs(ctx context.Context, project string) (map[string]model.FileAST, error)

	// Metas
	GetMeta(ctx context.Context, project, path string) (*model.FileMeta, bool, error)
	SetMeta(ctx context.Context, project, path string, meta model.FileMeta) error
	DeleteMeta(ctx context.Context, project, path string) error
	GetAllMetas(ctx context.Context, project string) (map[string]model.FileMeta, error)

	// Aggregates
	GetSymbolIndex(ctx context.Context, project string) (model.SymbolIndex, bool, error)
	SetSymbolIndex(ctx context.Context, project string, idx model.SymbolIndex) error
	GetDepsGraph(ctx context.Context, project string) (*model.DepsGraph, bool, error)
	SetDepsGraph(ctx context.Context, project string, g model.DepsGraph) error

	// Project config
	GetProjectConfig(ctx context.Context, project, k string) (string, bool, error)
	SetProjectConfig(ctx context.Context, project, k, v string) error

	// Sessions
	SaveSession(ctx context.Context, s model.Session) error
	LoadSession(ctx context.Context, id string) (*model.Session, bool, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, projectFilter string) ([]string, error)
	GetLatestSession(ctx context.Context, project string) (*model.Session, bool, error)
	SessionExists(ctx context.Context, id string) (bool, error)
	TouchSession(ctx context.Context, id string) error
	ClearAllSessions(ctx context.Context) error

	// Undo
	PushUndoEntry(ctx context.Context, sessionID string, e model.UndoEntry) error
	PopUndoEntry(ctx context.Context, sessionID string) (*model.UndoEntry, bool, error)
	GetUndoStack(ctx context.Context, sessionID string) ([]model.UndoEntry, error)

	Ping(ctx context.Context) error
	Close() error
}

type store struct {
	kv kv
}

// New opens a Store backed by Redis.
func New(cfg Config) (Store, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newWithKV(newRedisKV(client)), nil
}

func newWithKV(k kv) *store {
	return &store{kv: k}
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.kv.ping(ctx); err != nil {
		return coreerrors.Wrap(coreerrors.KindStoreUnavailable, "store unreachable", err)
	}
	return nil
}

func (s *store) Close() error {
	return s.kv.close()
}

// storeErr wraps a transport error as StoreUnavailable, the way
// EmbeddedBackend.Query wraps CozoDB errors in the teacher's storage
// package.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return coreerrors.Wrap(coreerrors.KindStoreUnavailable, fmt.Sprintf("store: %s", op), err)
}
