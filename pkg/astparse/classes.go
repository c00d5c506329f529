// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// collectClasses walks the whole tree for class_declaration nodes. Nested
// classes (declared inside a method body) are still visited by walk's
// unconditional descent, matching how the teacher's type walker treats
// nesting — every declaration anywhere in the file is collected flat.
func collectClasses(root *sitter.Node, content []byte) []model.ClassInfo {
	var out []model.ClassInfo
	walk(root, func(node *sitter.Node) bool {
		if node.Type() == "class_declaration" {
			if cls := extractClass(node, content); cls != nil {
				out = append(out, *cls)
			}
		}
		return true
	})
	return out
}

func extractClass(node *sitter.Node, content []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	cls := &model.ClassInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		IsAbstract: hasDirectChildType(node, "abstract"),
		IsExported: isExported(node),
	}

	if heritage := childOfType(node, "class_heritage"); heritage != nil {
		cls.Extends, cls.Implements = extractHeritage(heritage, content)
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return cls
	}
	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		member := bodyNode.Child(i)
		switch member.Type() {
		case "method_definition":
			if fn := extractMethodDefinition(member, content); fn != nil {
				cls.Methods = append(cls.Methods, *fn)
			}
		case "public_field_definition", "field_definition", "property_signature":
			if propNameNode := member.ChildByFieldName("name"); propNameNode != nil {
				cls.Properties = append(cls.Properties, nodeText(content, propNameNode))
			}
		}
	}
	return cls
}

// extractHeritage splits a class_heritage node into its single extends
// clause and possibly-multiple implements clause.
func extractHeritage(heritage *sitter.Node, content []byte) (extends string, implements []string) {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		clause := heritage.Child(i)
		switch clause.Type() {
		case "extends_clause":
			for j := 0; j < int(clause.ChildCount()); j++ {
				c := clause.Child(j)
				if c.Type() == "identifier" || c.Type() == "type_identifier" || c.Type() == "nested_type_identifier" {
					extends = nodeText(content, c)
					break
				}
			}
		case "implements_clause":
			for j := 0; j < int(clause.ChildCount()); j++ {
				c := clause.Child(j)
				switch c.Type() {
				case "type_identifier", "nested_type_identifier", "generic_type":
					implements = append(implements, nodeText(content, c))
				}
			}
		}
	}
	return extends, implements
}
