// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/internal/safety"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(gitStatusDef())
	defaultRegistry.Register(gitDiffDef())
	defaultRegistry.Register(gitCommitDef())
}

func openRepo(root string) (*git.Repository, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindNotFound, "open git repository", err)
	}
	return repo, nil
}

func gitStatusDef() *ToolDef {
	return &ToolDef{
		Name:        "git_status",
		Description: "Report the project's working-tree and staging status.",
		Category:    CategoryGit,
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			repo, err := openRepo(tc.ProjectRoot)
			if err != nil {
				return nil, err
			}
			wt, err := repo.Worktree()
			if err != nil {
				return nil, coreerrors.Wrap(coreerrors.KindInternal, "open worktree", err)
			}
			status, err := wt.Status()
			if err != nil {
				return nil, coreerrors.Wrap(coreerrors.KindInternal, "git status", err)
			}
			if status.IsClean() {
				return &model.ToolResult{Success: true, Data: "Working tree clean."}, nil
			}

			paths := make([]string, 0, len(status))
			for p := range status {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			var out strings.Builder
			fmt.Fprintf(&out, "%d file(s) changed:\n\n", len(paths))
			for _, p := range paths {
				fs := status[p]
				fmt.Fprintf(&out, "- `%s` staging=%s worktree=%s\n", p, statusCodeString(fs.Staging), statusCodeString(fs.Worktree))
			}
			return &model.ToolResult{Success: true, Data: out.String()}, nil
		},
	}
}

func statusCodeString(code git.StatusCode) string {
	switch code {
	case git.Unmodified:
		return "unmodified"
	case git.Untracked:
		return "untracked"
	case git.Modified:
		return "modified"
	case git.Added:
		return "added"
	case git.Deleted:
		return "deleted"
	case git.Renamed:
		return "renamed"
	case git.Copied:
		return "copied"
	case git.UpdatedButUnmerged:
		return "unmerged"
	default:
		return "?"
	}
}

func gitDiffDef() *ToolDef {
	return &ToolDef{
		Name:        "git_diff",
		Description: "Show a unified diff against HEAD, optionally limited to one path and to staged changes only.",
		Category:    CategoryGit,
		Parameters: []Parameter{
			{Name: "path", Type: "string"},
			{Name: "staged", Type: "bool"},
		},
		Execute: executeGitDiff,
	}
}

func executeGitDiff(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	pathFilter := optionalString(params, "path", "")
	staged := optionalBool(params, "staged", false)

	repo, err := openRepo(tc.ProjectRoot)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "git status", err)
	}

	headTree, err := headTree(repo)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(status))
	for p, fs := range status {
		if pathFilter != "" && !strings.HasPrefix(p, pathFilter) {
			continue
		}
		if staged && fs.Staging == git.Unmodified {
			continue
		}
		if !staged && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return &model.ToolResult{Success: true, Data: "No changes to diff."}, nil
	}

	var out strings.Builder
	for _, p := range paths {
		oldContent := blobContents(headTree, p)
		newContent, err := currentContents(tc.ProjectRoot, repo, p, staged)
		if err != nil {
			continue
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(oldContent),
			B:        difflib.SplitLines(newContent),
			FromFile: "a/" + p,
			ToFile:   "b/" + p,
			Context:  3,
		})
		if err != nil {
			continue
		}
		out.WriteString(diff)
		out.WriteString("\n")
	}
	return &model.ToolResult{Success: true, Data: out.String()}, nil
}

func headTree(repo *git.Repository) (*object.Tree, error) {
	head, err := repo.Head()
	if err != nil {
		// A brand-new repo with no commits yet has no HEAD; treat every file
		// as added against an empty tree rather than failing.
		return &object.Tree{}, nil
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "resolve HEAD commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "resolve HEAD tree", err)
	}
	return tree, nil
}

func blobContents(tree *object.Tree, path string) string {
	f, err := tree.File(path)
	if err != nil {
		return ""
	}
	content, err := f.Contents()
	if err != nil {
		return ""
	}
	return content
}

func currentContents(root string, repo *git.Repository, path string, staged bool) (string, error) {
	if staged {
		idx, err := repo.Storer.Index()
		if err != nil {
			return "", err
		}
		for _, entry := range idx.Entries {
			if entry.Name != path {
				continue
			}
			blob, err := repo.BlobObject(entry.Hash)
			if err != nil {
				return "", err
			}
			reader, err := blob.Reader()
			if err != nil {
				return "", err
			}
			defer reader.Close()
			content, err := io.ReadAll(reader)
			if err != nil {
				return "", err
			}
			return string(content), nil
		}
		return "", nil
	}
	abs, err := safety.ResolvePath(root, path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil // deleted files diff against empty content
	}
	return string(data), nil
}

func gitCommitDef() *ToolDef {
	return &ToolDef{
		Name:                 "git_commit",
		Description:          "Commit staged changes; files, if given, are staged first. Requires at least one staged change.",
		Category:             CategoryGit,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "message", Type: "string", Required: true},
			{Name: "files", Type: "string", Description: "comma-separated paths to stage before committing"},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "message")
			return err
		},
		Execute: executeGitCommit,
	}
}

func executeGitCommit(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	message, _ := requiredString(params, "message")
	filesParam := optionalString(params, "files", "")

	repo, err := openRepo(tc.ProjectRoot)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "open worktree", err)
	}

	if filesParam != "" {
		for _, f := range strings.Split(filesParam, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if _, err := wt.Add(f); err != nil {
				return nil, coreerrors.Wrap(coreerrors.KindInternal, "stage "+f, err)
			}
		}
	}

	status, err := wt.Status()
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "git status", err)
	}
	hasStaged := false
	for _, fs := range status {
		if fs.Staging != git.Unmodified {
			hasStaged = true
			break
		}
	}
	if !hasStaged {
		return nil, coreerrors.New(coreerrors.KindValidation, "no staged files to commit")
	}

	sig := &object.Signature{Name: "ipuaro", Email: "agent@ipuaro.local", When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "commit", err)
	}

	return &model.ToolResult{Success: true, Data: fmt.Sprintf("committed %s: %s", hash.String()[:10], message)}, nil
}
