// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func collectInterfaces(root *sitter.Node, content []byte) []model.InterfaceInfo {
	var out []model.InterfaceInfo
	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "interface_declaration" {
			if iface := extractInterface(node, content); iface != nil {
				out = append(out, *iface)
			}
		}
		return true
	})
	return out
}

func extractInterface(node *sitter.Node, content []byte) *model.InterfaceInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	iface := &model.InterfaceInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		IsExported: isExported(node),
	}

	if clause := childOfType(node, "extends_type_clause", "extends_clause"); clause != nil {
		for j := 0; j < int(clause.ChildCount()); j++ {
			c := clause.Child(j)
			switch c.Type() {
			case "type_identifier", "nested_type_identifier", "generic_type":
				iface.Extends = append(iface.Extends, nodeText(content, c))
			}
		}
	}
	return iface
}

func collectTypeAliases(root *sitter.Node, content []byte) []model.TypeAliasInfo {
	var out []model.TypeAliasInfo
	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "type_alias_declaration" {
			if ta := extractTypeAlias(node, content); ta != nil {
				out = append(out, *ta)
			}
		}
		return true
	})
	return out
}

func extractTypeAlias(node *sitter.Node, content []byte) *model.TypeAliasInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	return &model.TypeAliasInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		IsExported: isExported(node),
	}
}
