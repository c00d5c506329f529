// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package astparse is the AST Parser (C3): it turns one source file's text
// into a language-neutral model.FileAST (imports, exports, functions,
// classes, interfaces, type aliases). Supported dialects are ts, tsx, js,
// jsx via tree-sitter (github.com/smacker/go-tree-sitter); the core does
// not attempt cross-language understanding beyond these four.
//
// Parsing never fails outright: a recoverable syntax error yields
// {ParseError: true, ParseErrorMessage} with every collection left empty,
// so the caller can still store the file's FileRecord and treat it as
// temporarily non-indexable for symbols, per spec.md §4.3.
package astparse
