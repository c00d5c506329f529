// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// collectFunctions walks the whole tree for function-shaped declarations:
// plain function declarations, arrow/function-expression variable
// initializers, class methods, and interface method signatures.
func collectFunctions(root *sitter.Node, content []byte) []model.FunctionInfo {
	var out []model.FunctionInfo
	walk(root, func(node *sitter.Node) bool {
		switch node.Type() {
		case "function_declaration":
			if fn := extractFunctionDeclaration(node, content); fn != nil {
				out = append(out, *fn)
			}
		case "variable_declarator":
			if fn := extractArrowOrFunctionExpression(node, content); fn != nil {
				out = append(out, *fn)
			}
		case "method_definition":
			if fn := extractMethodDefinition(node, content); fn != nil {
				out = append(out, *fn)
			}
		case "method_signature":
			if fn := extractMethodSignature(node, content); fn != nil {
				out = append(out, *fn)
			}
		case "function_signature":
			if fn := extractFunctionSignature(node, content); fn != nil {
				out = append(out, *fn)
			}
		}
		return true
	})
	return out
}

func extractParams(node *sitter.Node, content []byte) []model.FunctionParam {
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		// Single-identifier arrow function with no parens: `x => x * 2`.
		if single := node.ChildByFieldName("parameter"); single != nil {
			return []model.FunctionParam{{Name: nodeText(content, single)}}
		}
		return nil
	}
	var params []model.FunctionParam
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(i)
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			p := extractOneParam(child, content)
			if p != nil {
				params = append(params, *p)
			}
		case "identifier", "rest_pattern", "object_pattern", "array_pattern":
			p := extractOneParam(child, content)
			if p != nil {
				params = append(params, *p)
			}
		}
	}
	return params
}

// extractOneParam handles both plain JS params (bare identifier/pattern
// nodes) and TypeScript-typed params wrapped in required_parameter /
// optional_parameter, which carry their own "pattern" and "type" fields.
func extractOneParam(node *sitter.Node, content []byte) *model.FunctionParam {
	switch node.Type() {
	case "required_parameter", "optional_parameter":
		patternNode := node.ChildByFieldName("pattern")
		if patternNode == nil {
			return nil
		}
		p := &model.FunctionParam{Name: nodeText(content, patternNode)}
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			p.Type = nodeText(content, typeNode)
		}
		return p
	case "identifier":
		return &model.FunctionParam{Name: nodeText(content, node)}
	case "rest_pattern", "object_pattern", "array_pattern":
		return &model.FunctionParam{Name: nodeText(content, node)}
	default:
		return nil
	}
}

func extractFunctionDeclaration(node *sitter.Node, content []byte) *model.FunctionInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	return &model.FunctionInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		Params:     extractParams(node, content),
		IsAsync:    hasDirectChildType(node, "async"),
		IsExported: isExported(node),
	}
}

// extractArrowOrFunctionExpression handles `const x = (...) => {...}` and
// `const x = function(...) {...}` variable initializers.
func extractArrowOrFunctionExpression(node *sitter.Node, content []byte) *model.FunctionInfo {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return nil
	}
	switch valueNode.Type() {
	case "arrow_function", "function_expression", "function":
	default:
		return nil
	}
	start, end := lineRange(node)
	return &model.FunctionInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		Params:     extractParams(valueNode, content),
		IsAsync:    hasDirectChildType(valueNode, "async"),
		IsExported: isExported(node),
	}
}

func extractMethodDefinition(node *sitter.Node, content []byte) *model.FunctionInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	return &model.FunctionInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		Params:     extractParams(node, content),
		IsAsync:    hasDirectChildType(node, "async"),
		IsStatic:   hasDirectChildType(node, "static"),
		Visibility: accessibilityModifier(node, content),
	}
}

func extractMethodSignature(node *sitter.Node, content []byte) *model.FunctionInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	return &model.FunctionInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		Params:     extractParams(node, content),
		Visibility: accessibilityModifier(node, content),
	}
}

func extractFunctionSignature(node *sitter.Node, content []byte) *model.FunctionInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	start, end := lineRange(node)
	return &model.FunctionInfo{
		Name:       nodeText(content, nameNode),
		LineStart:  start,
		LineEnd:    end,
		Params:     extractParams(node, content),
		IsAsync:    hasDirectChildType(node, "async"),
		IsExported: isExported(node),
	}
}

// accessibilityModifier returns "public", "private", or "protected" for a
// class member, defaulting to "public" when the grammar exposes no
// accessibility_modifier child (TypeScript members are public by default).
func accessibilityModifier(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "accessibility_modifier" {
			return nodeText(content, child)
		}
	}
	return "public"
}
