// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func (s *store) GetSymbolIndex(ctx context.Context, project string) (model.SymbolIndex, bool, error) {
	raw, ok, err := s.kv.get(ctx, symbolsKey(project))
	if err != nil {
		return nil, false, storeErr("getSymbolIndex", err)
	}
	if !ok {
		return nil, false, nil
	}
	var idx model.SymbolIndex
	if err := json.Unmarshal([]byte(raw), &idx); err != nil {
		return nil, false, storeErr("getSymbolIndex:decode", err)
	}
	return idx, true, nil
}

func (s *store) SetSymbolIndex(ctx context.Context, project string, idx model.SymbolIndex) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return storeErr("setSymbolIndex:encode", err)
	}
	return storeErr("setSymbolIndex", s.kv.set(ctx, symbolsKey(project), string(raw)))
}

func (s *store) GetDepsGraph(ctx context.Context, project string) (*model.DepsGraph, bool, error) {
	raw, ok, err := s.kv.get(ctx, depsKey(project))
	if err != nil {
		return nil, false, storeErr("getDepsGraph", err)
	}
	if !ok {
		return nil, false, nil
	}
	var g model.DepsGraph
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, false, storeErr("getDepsGraph:decode", err)
	}
	return &g, true, nil
}

func (s *store) SetDepsGraph(ctx context.Context, project string, g model.DepsGraph) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return storeErr("setDepsGraph:encode", err)
	}
	return storeErr("setDepsGraph", s.kv.set(ctx, depsKey(project), string(raw)))
}

func (s *store) GetProjectConfig(ctx context.Context, project, k string) (string, bool, error) {
	v, ok, err := s.kv.get(ctx, configKey(project, k))
	if err != nil {
		return "", false, storeErr("getProjectConfig", err)
	}
	return v, ok, nil
}

func (s *store) SetProjectConfig(ctx context.Context, project, k, v string) error {
	return storeErr("setProjectConfig", s.kv.set(ctx, configKey(project, k), v))
}
