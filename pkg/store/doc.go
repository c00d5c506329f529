// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store is the Index Store: a thin, typed facade over a durable
// key-value backend with hash, list, set, and string value kinds. It is
// the single owner of all persisted agent
// state — files, ASTs, derived metadata, the global symbol index, the
// dependency graph, sessions, and undo stacks. Every other package reads
// and writes this state only through the Store interface.
//
// # Backend
//
// Store is backed by Redis (github.com/redis/go-redis/v9). Keys are
// namespaced per project, derived from the project's deterministic slug:
//
//	ipuaro:{project}:file:{path}    hash{lines,hash,size,mtime}
//	ipuaro:{project}:ast:{path}     string (JSON FileAST)
//	ipuaro:{project}:meta:{path}    string (JSON FileMeta)
//	ipuaro:{project}:symbols        string (JSON SymbolIndex)
//	ipuaro:{project}:deps           string (JSON DepsGraph)
//	ipuaro:{project}:config:{k}     string
//	ipuaro:session:{id}             hash
//	ipuaro:session:{id}:undo        list (push-right / pop-right)
//	ipuaro:sessions:list            list
//
// # Quick start
//
//	st, err := store.New(store.Config{Addr: "localhost:6379"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	if err := st.SetFile(ctx, "proj", model.FileRecord{Path: "a.ts"}); err != nil {
//	    return err
//	}
//
// # Guarantees
//
// Single-operation atomicity; a session save writes all of the session's
// hash fields in one HSET command, and adding a new session's id to the
// sessions list is a separate command. No Redis pipeline or MULTI is
// used. There are no cross-key transactions: a reader may observe a project mid-reindex
// and must tolerate a file whose ast/meta entries have not caught up yet.
// Transport errors (connection refused, timeout) are wrapped as
// errors.KindStoreUnavailable.
package store
