// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "fmt"

// Literal key templates, kept in one place so the wire shape documented in
// doc.go stays authoritative and grep-able.
func fileKey(project, path string) string   { return fmt.Sprintf("ipuaro:%s:file:%s", project, path) }
func astKey(project, path string) string    { return fmt.Sprintf("ipuaro:%s:ast:%s", project, path) }
func metaKey(project, path string) string   { return fmt.Sprintf("ipuaro:%s:meta:%s", project, path) }
func symbolsKey(project string) string      { return fmt.Sprintf("ipuaro:%s:symbols", project) }
func depsKey(project string) string         { return fmt.Sprintf("ipuaro:%s:deps", project) }
func configKey(project, k string) string    { return fmt.Sprintf("ipuaro:%s:config:%s", project, k) }
func filesIndexKey(project string) string   { return fmt.Sprintf("ipuaro:%s:files:index", project) }
func astsIndexKey(project string) string    { return fmt.Sprintf("ipuaro:%s:asts:index", project) }
func metasIndexKey(project string) string   { return fmt.Sprintf("ipuaro:%s:metas:index", project) }

func sessionKey(id string) string     { return fmt.Sprintf("ipuaro:session:%s", id) }
func undoKey(id string) string        { return fmt.Sprintf("ipuaro:session:%s:undo", id) }
func sessionsListKey() string         { return "ipuaro:sessions:list" }
func lockKey(project string) string   { return fmt.Sprintf("ipuaro:%s:lock", project) }
