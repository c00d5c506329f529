// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(findReferencesDef())
	defaultRegistry.Register(findDefinitionDef())
}

type reference struct {
	Path         string
	Line         int
	Column       int
	IsDefinition bool
	Context      string
}

func findReferencesDef() *ToolDef {
	return &ToolDef{
		Name:        "find_references",
		Description: "Find every word-boundary occurrence of symbol across indexed files, with one line of context above/below each hit.",
		Category:    CategorySearch,
		Parameters: []Parameter{
			{Name: "symbol", Type: "string", Required: true},
			{Name: "path", Type: "string", Description: "optional path-prefix filter"},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "symbol")
			return err
		},
		Execute: executeFindReferences,
	}
}

func executeFindReferences(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	symbol, _ := requiredString(params, "symbol")
	pathFilter := optionalString(params, "path", "")

	files, err := tc.Store.GetAllFiles(ctx, tc.Project)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "list files", err)
	}

	symbolIndex, _, err := tc.Store.GetSymbolIndex(ctx, tc.Project)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "read symbol index", err)
	}
	defLines := make(map[string]map[int]bool)
	for _, loc := range symbolIndex[symbol] {
		if defLines[loc.Path] == nil {
			defLines[loc.Path] = make(map[int]bool)
		}
		defLines[loc.Path][loc.Line] = true
	}

	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)

	var refs []reference
	for _, path := range sortedFileKeys(files) {
		if pathFilter != "" && !strings.HasPrefix(path, pathFilter) {
			continue
		}
		rec := files[path]
		for i, line := range rec.Lines {
			locs := pattern.FindAllStringIndex(line, -1)
			for _, loc := range locs {
				lineNum := i + 1
				refs = append(refs, reference{
					Path:         path,
					Line:         lineNum,
					Column:       loc[0] + 1,
					IsDefinition: defLines[path][lineNum],
					Context:      renderContext(rec.Lines, i),
				})
			}
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Path != refs[j].Path {
			return refs[i].Path < refs[j].Path
		}
		if refs[i].Line != refs[j].Line {
			return refs[i].Line < refs[j].Line
		}
		return refs[i].Column < refs[j].Column
	})

	if len(refs) == 0 {
		return &model.ToolResult{Success: true, Data: fmt.Sprintf("No references to `%s` found.", symbol)}, nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Found %d references to `%s`:\n\n", len(refs), symbol)
	for _, r := range refs {
		marker := ""
		if r.IsDefinition {
			marker = " (definition)"
		}
		fmt.Fprintf(&out, "**%s:%d:%d**%s\n```\n%s```\n\n", r.Path, r.Line, r.Column, marker, r.Context)
	}
	return &model.ToolResult{Success: true, Data: out.String()}, nil
}

func renderContext(lines []string, idx int) string {
	var out strings.Builder
	start := idx - 1
	if start < 0 {
		start = 0
	}
	end := idx + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}
	for i := start; i <= end; i++ {
		prefix := "  "
		if i == idx {
			prefix = "> "
		}
		fmt.Fprintf(&out, "%s%4d: %s\n", prefix, i+1, lines[i])
	}
	return out.String()
}

func sortedFileKeys(files map[string]model.FileRecord) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func findDefinitionDef() *ToolDef {
	return &ToolDef{
		Name:        "find_definition",
		Description: "Find every SymbolIndex declaration site for symbol; suggests close names when none are found.",
		Category:    CategorySearch,
		Parameters: []Parameter{
			{Name: "symbol", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "symbol")
			return err
		},
		Execute: executeFindDefinition,
	}
}

func executeFindDefinition(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	symbol, _ := requiredString(params, "symbol")
	symbol = strings.TrimSpace(symbol)

	symbolIndex, _, err := tc.Store.GetSymbolIndex(ctx, tc.Project)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "read symbol index", err)
	}

	locs := symbolIndex[symbol]
	if len(locs) == 0 {
		names := make([]string, 0, len(symbolIndex))
		for name := range symbolIndex {
			names = append(names, name)
		}
		suggestions := suggestNames(symbol, names, 5)
		result := &model.ToolResult{Success: true, Data: fmt.Sprintf("No definition found for `%s`.", symbol)}
		if len(suggestions) > 0 {
			result.Suggestion = "did you mean: " + strings.Join(suggestions, ", ") + "?"
		}
		return result, nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "`%s` is defined in %d location(s):\n\n", symbol, len(locs))
	for _, loc := range locs {
		fmt.Fprintf(&out, "- **%s** at `%s:%d`\n", loc.Kind, loc.Path, loc.Line)
	}
	return &model.ToolResult{Success: true, Data: out.String()}, nil
}
