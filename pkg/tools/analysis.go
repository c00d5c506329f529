// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(getDependenciesDef())
	defaultRegistry.Register(getDependentsDef())
	defaultRegistry.Register(getComplexityDef())
	defaultRegistry.Register(getTodosDef())
}

func loadMeta(ctx context.Context, tc *ToolContext, path string) (*model.FileMeta, error) {
	m, ok, err := tc.Store.GetMeta(ctx, tc.Project, path)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "read meta", err)
	}
	if !ok {
		return nil, coreerrors.Newf(coreerrors.KindNotFound, "no metadata for: %s", path)
	}
	return m, nil
}

func getDependenciesDef() *ToolDef {
	return &ToolDef{
		Name:        "get_dependencies",
		Description: "List the files path imports (resolved internal imports only).",
		Category:    CategoryAnalysis,
		Parameters:  []Parameter{{Name: "path", Type: "string", Required: true}},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			path, _ := requiredString(params, "path")
			m, err := loadMeta(ctx, tc, path)
			if err != nil {
				return nil, err
			}
			if len(m.Dependencies) == 0 {
				return &model.ToolResult{Success: true, Data: fmt.Sprintf("%s has no internal dependencies.", path)}, nil
			}
			var out strings.Builder
			fmt.Fprintf(&out, "**%s** depends on %d file(s):\n", path, len(m.Dependencies))
			for _, d := range m.Dependencies {
				fmt.Fprintf(&out, "- `%s`\n", d)
			}
			return &model.ToolResult{Success: true, Data: out.String()}, nil
		},
	}
}

func getDependentsDef() *ToolDef {
	return &ToolDef{
		Name:        "get_dependents",
		Description: "List the files that import path.",
		Category:    CategoryAnalysis,
		Parameters:  []Parameter{{Name: "path", Type: "string", Required: true}},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			path, _ := requiredString(params, "path")
			m, err := loadMeta(ctx, tc, path)
			if err != nil {
				return nil, err
			}
			if len(m.Dependents) == 0 {
				return &model.ToolResult{Success: true, Data: fmt.Sprintf("%s has no dependents.", path)}, nil
			}
			var out strings.Builder
			hub := ""
			if m.IsHub {
				hub = " ⭐ (hub)"
			}
			fmt.Fprintf(&out, "**%s** is imported by %d file(s)%s:\n", path, len(m.Dependents), hub)
			for _, d := range m.Dependents {
				fmt.Fprintf(&out, "- `%s`\n", d)
			}
			return &model.ToolResult{Success: true, Data: out.String()}, nil
		},
	}
}

func getComplexityDef() *ToolDef {
	return &ToolDef{
		Name:        "get_complexity",
		Description: "Report the LOC/nesting/cyclomatic complexity and 0-100 score for path.",
		Category:    CategoryAnalysis,
		Parameters:  []Parameter{{Name: "path", Type: "string", Required: true}},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			path, _ := requiredString(params, "path")
			m, err := loadMeta(ctx, tc, path)
			if err != nil {
				return nil, err
			}
			c := m.Complexity
			data := fmt.Sprintf(
				"**%s** complexity: score %d/100 (LOC %d, max nesting %d, cyclomatic %d)",
				path, c.Score, c.LOC, c.Nesting, c.CyclomaticComplexity,
			)
			return &model.ToolResult{Success: true, Data: data}, nil
		},
	}
}

var todoPattern = regexp.MustCompile(`(TODO|FIXME|HACK|XXX)\b:?\s*(.*)`)

type todoEntry struct {
	Path string
	Line int
	Type string
	Text string
}

func getTodosDef() *ToolDef {
	return &ToolDef{
		Name:        "get_todos",
		Description: "Scan every indexed file's content for TODO/FIXME/HACK/XXX markers, optionally filtered by type.",
		Category:    CategoryAnalysis,
		Parameters: []Parameter{
			{Name: "type", Type: "string", Enum: []string{"TODO", "FIXME", "HACK", "XXX"}},
		},
		ValidateParams: func(params map[string]any) error {
			return validateEnum(params, "type", []string{"TODO", "FIXME", "HACK", "XXX"})
		},
		Execute: executeGetTodos,
	}
}

func executeGetTodos(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	typeFilter := optionalString(params, "type", "")

	files, err := tc.Store.GetAllFiles(ctx, tc.Project)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "list files", err)
	}

	var entries []todoEntry
	for _, path := range sortedFileKeys(files) {
		rec := files[path]
		for i, line := range rec.Lines {
			m := todoPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if typeFilter != "" && m[1] != typeFilter {
				continue
			}
			entries = append(entries, todoEntry{Path: path, Line: i + 1, Type: m[1], Text: strings.TrimSpace(m[2])})
		}
	}

	if len(entries) == 0 {
		return &model.ToolResult{Success: true, Data: "No TODO/FIXME/HACK/XXX markers found."}, nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Found %d marker(s):\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&out, "- **%s** `%s:%d` %s\n", e.Type, e.Path, e.Line, e.Text)
	}
	return &model.ToolResult{Success: true, Data: out.String()}, nil
}
