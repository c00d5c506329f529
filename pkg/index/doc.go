// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index builds project-wide aggregates from per-file artifacts and
// runs the four-phase indexing pipeline that produces them.
//
// BuildSymbolIndex and BuildDepsGraph (builder.go) are pure functions over
// the whole project's parsed files. Indexer (orchestrator.go) drives
// scan → parse → analyze → build end to end, persisting every artifact
// through a pkg/store.Store.
package index
