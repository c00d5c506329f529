// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// nodeText slices the source bytes a node spans.
func nodeText(content []byte, node *sitter.Node) string {
	return string(content[node.StartByte():node.EndByte()])
}

// lineRange returns a node's 1-based start/end lines.
func lineRange(node *sitter.Node) (int, int) {
	return int(node.StartPoint().Row) + 1, int(node.EndPoint().Row) + 1
}

// childOfType returns the first direct child whose Type() is in types.
func childOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

// hasDirectChildType reports whether node has a direct child of type t —
// used for grammar tokens exposed only as anonymous children, like the
// "async" and "static" keywords, which tree-sitter-typescript does not
// expose via a named field.
func hasDirectChildType(node *sitter.Node, t string) bool {
	return childOfType(node, t) != nil
}

// isExported walks a declaration node's immediate ancestry looking for an
// enclosing export_statement. Function/class/interface/type declarations
// are exported when wrapped directly; `const x = ...` arrow functions are
// exported when their enclosing lexical_declaration is wrapped.
func isExported(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "export_statement":
			return true
		case "lexical_declaration", "variable_declaration", "variable_declarator":
			continue
		default:
			return false
		}
	}
	return false
}

// walk recursively visits every node, invoking visit for each. visit
// returns false to stop descending into that node's children.
func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), visit)
	}
}
