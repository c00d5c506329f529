// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
)

// kv is the narrow seam between Store's business logic and the concrete
// Redis transport. It exposes exactly the primitives the Store operations
// need, with plain Go types rather than go-redis's *Cmd wrapper types, so
// that store_test.go can substitute an in-memory fake instead of a live
// Redis instance (go-redis's own Cmdable interface is large and mocking it
// directly would couple tests to transport details the Store layer doesn't
// care about).
type kv interface {
	hSet(ctx context.Context, key string, fields map[string]string) error
	hGetAll(ctx context.Context, key string) (map[string]string, error)
	hDel(ctx context.Context, key string, fields ...string) error
	del(ctx context.Context, keys ...string) error
	exists(ctx context.Context, key string) (bool, error)

	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, value string) error

	sAdd(ctx context.Context, key string, members ...string) error
	sRem(ctx context.Context, key string, members ...string) error
	sMembers(ctx context.Context, key string) ([]string, error)
	sCard(ctx context.Context, key string) (int64, error)

	rPush(ctx context.Context, key string, values ...string) error
	rPop(ctx context.Context, key string) (string, bool, error)
	lRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	lLen(ctx context.Context, key string) (int64, error)
	lTrimFront(ctx context.Context, key string, maxLen int64) error
	lRem(ctx context.Context, key string, value string) error

	ping(ctx context.Context) error
	close() error
}
