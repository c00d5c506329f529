// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func (s *store) GetFile(ctx context.Context, project, path string) (*model.FileRecord, bool, error) {
	fields, err := s.kv.hGetAll(ctx, fileKey(project, path))
	if err != nil {
		return nil, false, storeErr("getFile", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	rec, err := decodeFileRecord(path, fields)
	if err != nil {
		return nil, false, storeErr("getFile:decode", err)
	}
	return rec, true, nil
}

func (s *store) SetFile(ctx context.Context, project string, f model.FileRecord) error {
	linesJSON, err := json.Marshal(f.Lines)
	if err != nil {
		return storeErr("setFile:encode", err)
	}
	fields := map[string]string{
		"path":  f.Path,
		"lines": string(linesJSON),
		"hash":  f.Hash,
		"size":  strconv.FormatInt(f.Size, 10),
		"mtime": strconv.FormatInt(f.Mtime, 10),
	}
	if err := s.kv.hSet(ctx, fileKey(project, f.Path), fields); err != nil {
		return storeErr("setFile", err)
	}
	return storeErr("setFile:index", s.kv.sAdd(ctx, filesIndexKey(project), f.Path))
}

func (s *store) DeleteFile(ctx context.Context, project, path string) error {
	if err := s.kv.del(ctx, fileKey(project, path)); err != nil {
		return storeErr("deleteFile", err)
	}
	return storeErr("deleteFile:index", s.kv.sRem(ctx, filesIndexKey(project), path))
}

func (s *store) GetAllFiles(ctx context.Context, project string) (map[string]model.FileRecord, error) {
	paths, err := s.kv.sMembers(ctx, filesIndexKey(project))
	if err != nil {
		return nil, storeErr("getAllFiles:index", err)
	}
	out := make(map[string]model.FileRecord, len(paths))
	for _, p := range paths {
		rec, ok, err := s.GetFile(ctx, project, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out[p] = *rec
		}
	}
	return out, nil
}

func (s *store) GetFileCount(ctx context.Context, project string) (int, error) {
	n, err := s.kv.sCard(ctx, filesIndexKey(project))
	if err != nil {
		return 0, storeErr("getFileCount", err)
	}
	return int(n), nil
}

func decodeFileRecord(path string, fields map[string]string) (*model.FileRecord, error) {
	var lines []string
	if raw, ok := fields["lines"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			return nil, err
		}
	}
	size, _ := strconv.ParseInt(fields["size"], 10, 64)
	mtime, _ := strconv.ParseInt(fields["mtime"], 10, 64)
	return &model.FileRecord{
		Path:  path,
		Lines: lines,
		Hash:  fields["hash"],
		Size:  size,
		Mtime: mtime,
	}, nil
}
