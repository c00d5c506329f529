// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func (s *store) GetAST(ctx context.Context, project, path string) (*model.FileAST, bool, error) {
	raw, ok, err := s.kv.get(ctx, astKey(project, path))
	if err != nil {
		return nil, false, storeErr("getAST", err)
	}
	if !ok {
		return nil, false, nil
	}
	var ast model.FileAST
	if err := json.Unmarshal([]byte(raw), &ast); err != nil {
		return nil, false, storeErr("getAST:decode", err)
	}
	return &ast, true, nil
}

func (s *store) SetAST(ctx context.Context, project, path string, ast model.FileAST) error {
	raw, err := json.Marshal(ast)
	if err != nil {
		return storeErr("setAST:encode", err)
	}
	if err := s.kv.set(ctx, astKey(project, path), string(raw)); err != nil {
		return storeErr("setAST", err)
	}
	return storeErr("setAST:index", s.kv.sAdd(ctx, astsIndexKey(project), path))
}

func (s *store) DeleteAST(ctx context.Context, project, path string) error {
	if err := s.kv.del(ctx, astKey(project, path)); err != nil {
		return storeErr("deleteAST", err)
	}
	return storeErr("deleteAST:index", s.kv.sRem(ctx, astsIndexKey(project), path))
}

func (s *store) GetAllASTs(ctx context.Context, project string) (map[string]model.FileAST, error) {
	paths, err := s.kv.sMembers(ctx, astsIndexKey(project))
	if err != nil {
		return nil, storeErr("getAllASTs:index", err)
	}
	out := make(map[string]model.FileAST, len(paths))
	for _, p := range paths {
		ast, ok, err := s.GetAST(ctx, project, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out[p] = *ast
		}
	}
	return out, nil
}
