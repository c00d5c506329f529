// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// approxCharsPerToken is the rough heuristic used to convert a token budget
// into a character budget; exact tokenization depends on the model the
// provider is driving, which this package never has visibility into.
const approxCharsPerToken = 4

// BuildContext renders the project header, directory summary, and
// per-file one-line AST summary that step 2 of the agent loop feeds to the
// LLM alongside the conversation history, truncated to tokenBudget.
func BuildContext(ctx context.Context, st store.Store, project string, tokenBudget int) (string, error) {
	files, err := st.GetAllFiles(ctx, project)
	if err != nil {
		return "", err
	}
	metas, err := st.GetAllMetas(ctx, project)
	if err != nil {
		return "", err
	}
	asts, err := st.GetAllASTs(ctx, project)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", project)
	fmt.Fprintf(&sb, "Files: %d\n\n", len(files))

	sb.WriteString(directorySummary(files))
	sb.WriteString("\n")
	sb.WriteString(fileSummaries(files, metas, asts))

	return truncateContext(sb.String(), tokenBudget), nil
}

// directorySummary counts indexed files per top-level directory.
func directorySummary(files map[string]model.FileRecord) string {
	counts := make(map[string]int)
	for p := range files {
		dir := path.Dir(p)
		if dir == "." {
			dir = "(root)"
		} else if i := strings.Index(dir, "/"); i >= 0 {
			dir = dir[:i]
		}
		counts[dir]++
	}
	dirs := make([]string, 0, len(counts))
	for d := range counts {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	sb.WriteString("Directories:\n")
	for _, d := range dirs {
		fmt.Fprintf(&sb, "  %s (%d files)\n", d, counts[d])
	}
	return sb.String()
}

// fileSummaries renders one line per file: its type flags followed by a
// compact count of its declared symbols, sorted by path for determinism.
func fileSummaries(files map[string]model.FileRecord, metas map[string]model.FileMeta, asts map[string]model.FileAST) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var sb strings.Builder
	sb.WriteString("Files:\n")
	for _, p := range paths {
		sb.WriteString("  ")
		sb.WriteString(p)
		sb.WriteString(" -")
		if meta, ok := metas[p]; ok {
			sb.WriteString(" ")
			sb.WriteString(string(meta.FileType))
			if meta.IsHub {
				sb.WriteString(" hub")
			}
			if meta.IsEntryPoint {
				sb.WriteString(" entry")
			}
		}
		if ast, ok := asts[p]; ok {
			fmt.Fprintf(&sb, " fn:%d class:%d iface:%d", len(ast.Functions), len(ast.Classes), len(ast.Interfaces))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncateContext clamps s to roughly tokenBudget tokens, cutting at the
// last newline at or before the byte budget so a file summary line is
// not split mid-line. When no newline falls inside the budget (after the
// first byte), it cuts at the byte budget instead. tokenBudget <= 0
// disables truncation.
func truncateContext(s string, tokenBudget int) string {
	if tokenBudget <= 0 {
		return s
	}
	byteBudget := tokenBudget * approxCharsPerToken
	if len(s) <= byteBudget {
		return s
	}
	cut := strings.LastIndexByte(s[:byteBudget], '\n')
	if cut <= 0 {
		return s[:byteBudget]
	}
	return s[:cut]
}
