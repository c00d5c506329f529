// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// collectExports walks the whole tree for export_statement nodes. Like
// collectImports, this has no teacher precedent; it follows the grammar's
// three export shapes directly: `export <declaration>`, `export default
// <value>`, and `export { a, b } [from "..."]`.
func collectExports(root *sitter.Node, content []byte) []model.ExportInfo {
	var out []model.ExportInfo
	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "export_statement" {
			out = append(out, extractExport(node, content)...)
		}
		return true
	})
	return out
}

func extractExport(node *sitter.Node, content []byte) []model.ExportInfo {
	line, _ := lineRange(node)

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return exportsFromDeclaration(decl, content, line)
	}

	if hasDirectChildType(node, "default") {
		return exportsFromDefault(node, content, line)
	}

	if clause := childOfType(node, "export_clause"); clause != nil {
		var out []model.ExportInfo
		for i := 0; i < int(clause.ChildCount()); i++ {
			spec := clause.Child(i)
			if spec.Type() != "export_specifier" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			aliasNode := spec.ChildByFieldName("alias")
			var name string
			if aliasNode != nil {
				name = nodeText(content, aliasNode)
			} else if nameNode != nil {
				name = nodeText(content, nameNode)
			}
			if name != "" {
				out = append(out, model.ExportInfo{Name: name, Kind: "variable", Line: line})
			}
		}
		return out
	}
	return nil
}

func exportsFromDeclaration(decl *sitter.Node, content []byte, line int) []model.ExportInfo {
	switch decl.Type() {
	case "function_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []model.ExportInfo{{Name: nodeText(content, nameNode), Kind: "function", Line: line}}
		}
	case "class_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []model.ExportInfo{{Name: nodeText(content, nameNode), Kind: "class", Line: line}}
		}
	case "interface_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []model.ExportInfo{{Name: nodeText(content, nameNode), Kind: "interface", Line: line}}
		}
	case "type_alias_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []model.ExportInfo{{Name: nodeText(content, nameNode), Kind: "type", Line: line}}
		}
	case "lexical_declaration", "variable_declaration":
		var out []model.ExportInfo
		for i := 0; i < int(decl.ChildCount()); i++ {
			child := decl.Child(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				out = append(out, model.ExportInfo{Name: nodeText(content, nameNode), Kind: "variable", Line: line})
			}
		}
		return out
	}
	return nil
}

func exportsFromDefault(node *sitter.Node, content []byte, line int) []model.ExportInfo {
	value := node.ChildByFieldName("value")
	if value == nil {
		// Without a "value" field (e.g. `export default identifier`), take
		// the first child of one of the expected expression/declaration types.
		value = childOfType(node, "identifier", "function_declaration", "class_declaration", "arrow_function", "call_expression")
	}
	if value == nil {
		return []model.ExportInfo{{Name: "default", Kind: "variable", Line: line}}
	}
	kind := "variable"
	name := "default"
	switch value.Type() {
	case "function_declaration":
		kind = "function"
		if nameNode := value.ChildByFieldName("name"); nameNode != nil {
			name = nodeText(content, nameNode)
		}
	case "class_declaration":
		kind = "class"
		if nameNode := value.ChildByFieldName("name"); nameNode != nil {
			name = nodeText(content, nameNode)
		}
	}
	return []model.ExportInfo{{Name: name, Kind: kind, Line: line}}
}
