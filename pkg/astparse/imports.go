// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// collectImports walks the whole tree for import_statement nodes. The
// tree-sitter TypeScript/JS grammars have no precedent in the teacher's
// walker for this — the teacher never extracted imports — so this follows
// the grammar's own node shapes directly: import_clause wraps an optional
// default identifier and an optional named_imports/namespace_import.
func collectImports(root *sitter.Node, content []byte) []model.ImportInfo {
	var out []model.ImportInfo
	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "import_statement" {
			out = append(out, extractImport(node, content)...)
		}
		return true
	})
	return out
}

func extractImport(node *sitter.Node, content []byte) []model.ImportInfo {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}
	source := unquote(nodeText(content, sourceNode))
	line, _ := lineRange(node)

	clause := childOfType(node, "import_clause")
	if clause == nil {
		// Side-effect import: `import "./polyfill"`.
		return []model.ImportInfo{{Source: source, Line: line}}
	}

	var infos []model.ImportInfo
	for i := 0; i < int(clause.ChildCount()); i++ {
		part := clause.Child(i)
		switch part.Type() {
		case "identifier":
			// Default import: `import Foo from "./foo"`.
			infos = append(infos, model.ImportInfo{
				Source:    source,
				Names:     []string{nodeText(content, part)},
				Line:      line,
				IsDefault: true,
			})
		case "namespace_import":
			// `import * as foo from "./foo"`.
			if idNode := childOfType(part, "identifier"); idNode != nil {
				infos = append(infos, model.ImportInfo{
					Source: source,
					Names:  []string{nodeText(content, idNode)},
					Line:   line,
				})
			}
		case "named_imports":
			var names []string
			for j := 0; j < int(part.ChildCount()); j++ {
				spec := part.Child(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				if aliasNode != nil {
					names = append(names, nodeText(content, aliasNode))
				} else if nameNode != nil {
					names = append(names, nodeText(content, nameNode))
				}
			}
			if len(names) > 0 {
				infos = append(infos, model.ImportInfo{Source: source, Names: names, Line: line})
			}
		}
	}
	if len(infos) == 0 {
		return []model.ImportInfo{{Source: source, Line: line}}
	}
	return infos
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
