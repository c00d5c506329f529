// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package meta is the Meta Analyzer (C4): it derives a model.FileMeta from
// one file's model.FileAST and raw content, plus the set of other known
// project paths needed to resolve its relative imports to dependency paths.
//
// Analyze fills Complexity, FileType, and Dependencies — the parts knowable
// from a single file. Dependents and IsHub depend on the whole project's
// import graph and are filled in afterward by pkg/index's orchestrator,
// once it has built the project-wide DepsGraph.
package meta
