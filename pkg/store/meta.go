// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func (s *store) GetMeta(ctx context.Context, project, path string) (*model.FileMeta, bool, error) {
	raw, ok, err := s.kv.get(ctx, metaKey(project, path))
	if err != nil {
		return nil, false, storeErr("getMeta", err)
	}
	if !ok {
		return nil, false, nil
	}
	var meta model.FileMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, false, storeErr("getMeta:decode", err)
	}
	return &meta, true, nil
}

func (s *store) SetMeta(ctx context.Context, project, path string, meta model.FileMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return storeErr("setMeta:encode", err)
	}
	if err := s.kv.set(ctx, metaKey(project, path), string(raw)); err != nil {
		return storeErr("setMeta", err)
	}
	return storeErr("setMeta:index", s.kv.sAdd(ctx, metasIndexKey(project), path))
}

func (s *store) DeleteMeta(ctx context.Context, project, path string) error {
	if err := s.kv.del(ctx, metaKey(project, path)); err != nil {
		return storeErr("deleteMeta", err)
	}
	return storeErr("deleteMeta:index", s.kv.sRem(ctx, metasIndexKey(project), path))
}

func (s *store) GetAllMetas(ctx context.Context, project string) (map[string]model.FileMeta, error) {
	paths, err := s.kv.sMembers(ctx, metasIndexKey(project))
	if err != nil {
		return nil, storeErr("getAllMetas:index", err)
	}
	out := make(map[string]model.FileMeta, len(paths))
	for _, p := range paths {
		meta, ok, err := s.GetMeta(ctx, project, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out[p] = *meta
		}
	}
	return out, nil
}
