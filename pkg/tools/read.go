// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(getLinesDef())
	defaultRegistry.Register(getFunctionDef())
	defaultRegistry.Register(getClassDef())
	defaultRegistry.Register(getStructureDef())
}

func loadFile(ctx context.Context, tc *ToolContext, path string) (*model.FileRecord, error) {
	rec, ok, err := tc.Store.GetFile(ctx, tc.Project, path)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "read file record", err)
	}
	if !ok {
		return nil, coreerrors.Newf(coreerrors.KindNotFound, "file not indexed: %s", path)
	}
	return rec, nil
}

func loadAST(ctx context.Context, tc *ToolContext, path string) (*model.FileAST, error) {
	ast, ok, err := tc.Store.GetAST(ctx, tc.Project, path)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "read ast", err)
	}
	if !ok {
		return nil, coreerrors.Newf(coreerrors.KindNotFound, "no parsed AST for: %s", path)
	}
	return ast, nil
}

// get_lines

func getLinesDef() *ToolDef {
	return &ToolDef{
		Name:        "get_lines",
		Description: "Read a range of lines from an indexed file. Defaults to the whole file; out-of-range lines clamp to the file's bounds.",
		Category:    CategoryRead,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true, Description: "project-relative file path"},
			{Name: "start", Type: "int", Description: "1-based start line, inclusive"},
			{Name: "end", Type: "int", Description: "1-based end line, inclusive"},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: executeGetLines,
	}
}

func executeGetLines(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	path, err := requiredString(params, "path")
	if err != nil {
		return nil, err
	}
	rec, err := loadFile(ctx, tc, path)
	if err != nil {
		return nil, err
	}

	start := optionalInt(params, "start", 1)
	end := optionalInt(params, "end", len(rec.Lines))
	start, end = clampRange(start, end, len(rec.Lines))

	if start > end {
		return &model.ToolResult{Success: true, Data: fmt.Sprintf("(empty range in %s)", path)}, nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "**%s** lines %d-%d:\n\n```\n", path, start, end)
	for i := start; i <= end; i++ {
		fmt.Fprintf(&out, "%4d: %s\n", i, rec.Lines[i-1])
	}
	out.WriteString("```\n")
	return &model.ToolResult{Success: true, Data: out.String()}, nil
}

// clampRange clamps [start,end] (1-based) into [1,total]; start>end yields
// an empty range rather than an error (spec §8 boundaries).
func clampRange(start, end, total int) (int, int) {
	if start < 1 {
		start = 1
	}
	if end > total {
		end = total
	}
	if total == 0 {
		return 1, 0
	}
	return start, end
}

// get_function

func getFunctionDef() *ToolDef {
	return &ToolDef{
		Name:        "get_function",
		Description: "Get the source of a named function or method declared in path.",
		Category:    CategoryRead,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
			{Name: "name", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			if _, err := requiredString(params, "path"); err != nil {
				return err
			}
			_, err := requiredString(params, "name")
			return err
		},
		Execute: executeGetFunction,
	}
}

func executeGetFunction(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	path, _ := requiredString(params, "path")
	name, _ := requiredString(params, "name")

	rec, err := loadFile(ctx, tc, path)
	if err != nil {
		return nil, err
	}
	ast, err := loadAST(ctx, tc, path)
	if err != nil {
		return nil, err
	}

	for _, fn := range ast.Functions {
		if fn.Name == name {
			return &model.ToolResult{Success: true, Data: renderFunction(path, fn, rec)}, nil
		}
	}
	for _, cls := range ast.Classes {
		for _, m := range cls.Methods {
			if m.Name == name {
				return &model.ToolResult{Success: true, Data: renderFunction(path, m, rec)}, nil
			}
		}
	}

	names := candidateNames(ast)
	suggestion := nearestName(name, names)
	result := &model.ToolResult{Success: false, Error: fmt.Sprintf("function %q not found in %s", name, path)}
	if suggestion != "" {
		result.Suggestion = fmt.Sprintf("did you mean %q?", suggestion)
	}
	return result, nil
}

func renderFunction(path string, fn model.FunctionInfo, rec *model.FileRecord) string {
	var out strings.Builder
	kind := "function"
	if fn.Visibility != "" {
		kind = "method"
	}
	fmt.Fprintf(&out, "**%s** `%s` in `%s:%d-%d`\n\n```\n", kind, fn.Name, path, fn.LineStart, fn.LineEnd)
	start, end := clampRange(fn.LineStart, fn.LineEnd, len(rec.Lines))
	for i := start; i <= end; i++ {
		fmt.Fprintf(&out, "%4d: %s\n", i, rec.Lines[i-1])
	}
	out.WriteString("```\n")
	return out.String()
}

func candidateNames(ast *model.FileAST) []string {
	var names []string
	for _, fn := range ast.Functions {
		names = append(names, fn.Name)
	}
	for _, cls := range ast.Classes {
		names = append(names, cls.Name)
		for _, m := range cls.Methods {
			names = append(names, m.Name)
		}
	}
	return names
}

// get_class

func getClassDef() *ToolDef {
	return &ToolDef{
		Name:        "get_class",
		Description: "Get the summary and members of a named class declared in path.",
		Category:    CategoryRead,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
			{Name: "name", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			if _, err := requiredString(params, "path"); err != nil {
				return err
			}
			_, err := requiredString(params, "name")
			return err
		},
		Execute: executeGetClass,
	}
}

func executeGetClass(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	path, _ := requiredString(params, "path")
	name, _ := requiredString(params, "name")

	rec, err := loadFile(ctx, tc, path)
	if err != nil {
		return nil, err
	}
	ast, err := loadAST(ctx, tc, path)
	if err != nil {
		return nil, err
	}

	for _, cls := range ast.Classes {
		if cls.Name == name {
			return &model.ToolResult{Success: true, Data: renderClass(path, cls, rec)}, nil
		}
	}

	names := candidateNames(ast)
	suggestion := nearestName(name, names)
	result := &model.ToolResult{Success: false, Error: fmt.Sprintf("class %q not found in %s", name, path)}
	if suggestion != "" {
		result.Suggestion = fmt.Sprintf("did you mean %q?", suggestion)
	}
	return result, nil
}

func renderClass(path string, cls model.ClassInfo, rec *model.FileRecord) string {
	var out strings.Builder
	fmt.Fprintf(&out, "**class** `%s` in `%s:%d-%d`", cls.Name, path, cls.LineStart, cls.LineEnd)
	if cls.Extends != "" {
		fmt.Fprintf(&out, " extends `%s`", cls.Extends)
	}
	if len(cls.Implements) > 0 {
		fmt.Fprintf(&out, " implements `%s`", strings.Join(cls.Implements, ", "))
	}
	out.WriteString("\n\n")

	if len(cls.Properties) > 0 {
		out.WriteString("Properties: " + strings.Join(cls.Properties, ", ") + "\n\n")
	}
	if len(cls.Methods) > 0 {
		out.WriteString("Methods:\n")
		for _, m := range cls.Methods {
			fmt.Fprintf(&out, "- `%s(...)` lines %d-%d\n", m.Name, m.LineStart, m.LineEnd)
		}
		out.WriteString("\n")
	}

	start, end := clampRange(cls.LineStart, cls.LineEnd, len(rec.Lines))
	out.WriteString("```\n")
	for i := start; i <= end; i++ {
		fmt.Fprintf(&out, "%4d: %s\n", i, rec.Lines[i-1])
	}
	out.WriteString("```\n")
	return out.String()
}

// get_structure

func getStructureDef() *ToolDef {
	return &ToolDef{
		Name:        "get_structure",
		Description: "Summarize every declaration (functions, classes, interfaces, type aliases, imports/exports) in path.",
		Category:    CategoryRead,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: executeGetStructure,
	}
}

func executeGetStructure(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	path, _ := requiredString(params, "path")
	ast, err := loadAST(ctx, tc, path)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## %s\n\n", path)
	if ast.ParseError {
		fmt.Fprintf(&out, "⚠️ parse error: %s\n", ast.ParseErrorMessage)
		return &model.ToolResult{Success: true, Data: out.String()}, nil
	}

	if len(ast.Imports) > 0 {
		out.WriteString("**Imports:**\n")
		for _, imp := range ast.Imports {
			fmt.Fprintf(&out, "- `%s` (%s) line %d\n", imp.Source, strings.Join(imp.Names, ", "), imp.Line)
		}
		out.WriteString("\n")
	}
	if len(ast.Functions) > 0 {
		out.WriteString("**Functions:**\n")
		for _, fn := range ast.Functions {
			mark := ""
			if fn.IsExported {
				mark = " (exported)"
			}
			fmt.Fprintf(&out, "- `%s` lines %d-%d%s\n", fn.Name, fn.LineStart, fn.LineEnd, mark)
		}
		out.WriteString("\n")
	}
	if len(ast.Classes) > 0 {
		out.WriteString("**Classes:**\n")
		for _, cls := range ast.Classes {
			fmt.Fprintf(&out, "- `%s` lines %d-%d (%d methods)\n", cls.Name, cls.LineStart, cls.LineEnd, len(cls.Methods))
		}
		out.WriteString("\n")
	}
	if len(ast.Interfaces) > 0 {
		out.WriteString("**Interfaces:**\n")
		for _, iface := range ast.Interfaces {
			fmt.Fprintf(&out, "- `%s` lines %d-%d\n", iface.Name, iface.LineStart, iface.LineEnd)
		}
		out.WriteString("\n")
	}
	if len(ast.TypeAliases) > 0 {
		out.WriteString("**Type aliases:**\n")
		for _, ta := range ast.TypeAliases {
			fmt.Fprintf(&out, "- `%s` line %d\n", ta.Name, ta.LineStart)
		}
		out.WriteString("\n")
	}
	if len(ast.Exports) > 0 {
		out.WriteString("**Exports:** ")
		var names []string
		for _, e := range ast.Exports {
			names = append(names, e.Name)
		}
		out.WriteString(strings.Join(names, ", ") + "\n")
	}

	return &model.ToolResult{Success: true, Data: out.String()}, nil
}
