// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner is the File Scanner (C2): it walks a project tree and
// emits one record per indexable file in deterministic, sorted-path order.
//
// Symlinks that resolve outside the project root are skipped rather than
// followed, and directories matching an ignore pattern are pruned entirely
// (not just their files) so a huge excluded tree like node_modules never
// gets walked.
package scanner
