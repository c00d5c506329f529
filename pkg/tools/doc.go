// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools implements the Tool Registry and Tools (C7): the 18
// named tools the agent loop dispatches against a project through the
// Index Store, the working tree, and git.
//
// # Registry
//
// Each tool is a ToolDef registered into a Registry via that tool file's
// own init(), accumulating into the package-level DefaultRegistry. A
// Registry dispatches a named call through Dispatch, which validates
// parameters, gates execution behind confirmation unless the caller set
// AutoApply, executes the tool, and stamps the result with a CallID and
// elapsed time.
//
//	reg := tools.DefaultRegistry()
//	tc := &tools.ToolContext{Store: st, Project: "myproject", ProjectRoot: root}
//	result := reg.Dispatch(ctx, tc, model.ToolCall{Name: "get_lines", Params: map[string]any{"path": "a.ts"}})
//
// # Tool categories
//
// Read tools (read.go): get_lines, get_function, get_class, get_structure.
//
// Edit tools (edit.go): edit_lines, create_file, delete_file. edit_lines
// pushes an UndoEntry onto the session's undo stack as part of executing;
// create_file and delete_file push none.
//
// Search tools (findsearch.go): find_references, find_definition — served
// from the Index Store's symbol index, never a raw-tree grep.
//
// Analysis tools (analysis.go): get_dependencies, get_dependents,
// get_complexity, get_todos.
//
// Git tools (git.go): git_status, git_diff, git_commit.
//
// Run tools (run.go): run_command, run_tests — both confirmation-gated
// and classified through the safety layer before execution.
//
// # Errors
//
// Validation failures and execution errors are reported as
// internal/errors.CoreError values with a Kind (KindValidation,
// KindNotFound, KindPathEscape, KindCommandBlocked, ...), carried in the
// returned model.ToolResult.Error.
package tools
