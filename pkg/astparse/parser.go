// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package astparse

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// Language is one of the four dialects C3 supports.
type Language string

const (
	LangTS  Language = "ts"
	LangTSX Language = "tsx"
	LangJS  Language = "js"
	LangJSX Language = "jsx"
)

// LanguageForExt maps a file extension (with leading dot) to a Language.
// The second return value is false for any extension outside the four
// supported dialects.
func LanguageForExt(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".ts":
		return LangTS, true
	case ".tsx":
		return LangTSX, true
	case ".js":
		return LangJS, true
	case ".jsx":
		return LangJSX, true
	default:
		return "", false
	}
}

func grammarFor(lang Language) *sitter.Language {
	switch lang {
	case LangTS:
		return typescript.GetLanguage()
	case LangTSX, LangJSX:
		return tsx.GetLanguage()
	case LangJS:
		return javascript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse parses content as the given language and returns its FileAST. path
// is used only for error messages; it is never read from disk here.
func Parse(content []byte, path string, lang Language) model.FileAST {
	parser := sitter.NewParser()
	parser.SetLanguage(grammarFor(lang))

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return model.FileAST{
			ParseError:        true,
			ParseErrorMessage: fmt.Sprintf("tree-sitter parse %s: %v", path, err),
		}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return model.FileAST{ParseError: true, ParseErrorMessage: fmt.Sprintf("tree-sitter returned no root node for %s", path)}
	}

	if root.HasError() && countErrorNodes(root) > 0 {
		// Tree-sitter always returns *some* tree even on malformed input; a
		// syntax error is recoverable, so the caller still gets an (empty)
		// FileAST rather than a hard failure.
		return model.FileAST{
			ParseError:        true,
			ParseErrorMessage: fmt.Sprintf("syntax errors in %s", path),
		}
	}

	return model.FileAST{
		Imports:     collectImports(root, content),
		Exports:     collectExports(root, content),
		Functions:   collectFunctions(root, content),
		Classes:     collectClasses(root, content),
		Interfaces:  collectInterfaces(root, content),
		TypeAliases: collectTypeAliases(root, content),
	}
}

// ParseFile reads a path's extension to pick a dialect and parses content.
// Returns false if the extension is unsupported.
func ParseFile(content []byte, path string) (model.FileAST, bool) {
	lang, ok := LanguageForExt(filepath.Ext(path))
	if !ok {
		return model.FileAST{}, false
	}
	return Parse(content, path, lang), true
}

func countErrorNodes(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsError() || node.IsMissing() {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countErrorNodes(node.Child(i))
	}
	return count
}
