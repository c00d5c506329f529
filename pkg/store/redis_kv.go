// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// redisKV implements kv over a live *redis.Client.
type redisKV struct {
	client *redis.Client
}

func newRedisKV(client *redis.Client) *redisKV {
	return &redisKV{client: client}
}

func (r *redisKV) hSet(ctx context.Context, key string, fields map[string]string) error {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return r.client.HSet(ctx, key, args...).Err()
}

func (r *redisKV) hGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r *redisKV) hDel(ctx context.Context, key string, fields ...string) error {
	return r.client.HDel(ctx, key, fields...).Err()
}

func (r *redisKV) del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisKV) exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *redisKV) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisKV) set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisKV) sAdd(ctx context.Context, key string, members ...string) error {
	anyMembers := make([]any, len(members))
	for i, m := range members {
		anyMembers[i] = m
	}
	return r.client.SAdd(ctx, key, anyMembers...).Err()
}

func (r *redisKV) sRem(ctx context.Context, key string, members ...string) error {
	anyMembers := make([]any, len(members))
	for i, m := range members {
		anyMembers[i] = m
	}
	return r.client.SRem(ctx, key, anyMembers...).Err()
}

func (r *redisKV) sMembers(ctx context.Context, key string) ([]string, error) {
	return r.client.SMembers(ctx, key).Result()
}

func (r *redisKV) sCard(ctx context.Context, key string) (int64, error) {
	return r.client.SCard(ctx, key).Result()
}

func (r *redisKV) rPush(ctx context.Context, key string, values ...string) error {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return r.client.RPush(ctx, key, anyValues...).Err()
}

func (r *redisKV) rPop(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.RPop(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisKV) lRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r *redisKV) lLen(ctx context.Context, key string) (int64, error) {
	return r.client.LLen(ctx, key).Result()
}

// lTrimFront keeps only the newest maxLen entries of a right-pushed list,
// discarding from the left (the oldest pushes) — the undo stack's overflow
// policy.
func (r *redisKV) lTrimFront(ctx context.Context, key string, maxLen int64) error {
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return err
	}
	if n <= maxLen {
		return nil
	}
	return r.client.LTrim(ctx, key, n-maxLen, -1).Err()
}

func (r *redisKV) lRem(ctx context.Context, key string, value string) error {
	return r.client.LRem(ctx, key, 1, value).Err()
}

func (r *redisKV) ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisKV) close() error {
	return r.client.Close()
}
