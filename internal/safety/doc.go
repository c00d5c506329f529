// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package safety implements the Safety Layer (C12): path containment for
// every tool that accepts a file path, and allow/deny-list classification
// for run_command. Neither check is optional or bypassable by a caller
// inside the core; both are pure functions with no side effects of their
// own.
package safety
