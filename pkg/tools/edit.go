// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/internal/safety"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(editLinesDef())
	defaultRegistry.Register(createFileDef())
	defaultRegistry.Register(deleteFileDef())
}

// writeFileAtomic writes content to path via write-temp-then-rename,
// avoiding the torn writes a direct os.WriteFile risks mid-crash — the
// discipline spec §5 requires of every file-system edit.
func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// edit_lines

func editLinesDef() *ToolDef {
	return &ToolDef{
		Name:                 "edit_lines",
		Description:          "Replace the inclusive line range [start,end] in path with content, split on newlines.",
		Category:             CategoryEdit,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
			{Name: "start", Type: "int", Required: true},
			{Name: "end", Type: "int", Required: true},
			{Name: "content", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			if _, err := requiredString(params, "path"); err != nil {
				return err
			}
			if _, err := requiredInt(params, "start"); err != nil {
				return err
			}
			if _, err := requiredInt(params, "end"); err != nil {
				return err
			}
			_, ok := params["content"].(string)
			if !ok {
				return coreerrors.New(coreerrors.KindValidation, "parameter \"content\" must be a string")
			}
			return nil
		},
		PreConfirm: func(ctx context.Context, tc *ToolContext, params map[string]any) error {
			relPath, _ := requiredString(params, "path")
			_, _, err := loadVerifiedFile(ctx, tc, relPath)
			return err
		},
		Execute: executeEditLines,
	}
}

// loadVerifiedFile resolves relPath, loads its indexed record, and confirms
// the on-disk content still matches what was last indexed, failing with
// KindConflict otherwise. Shared by edit_lines's PreConfirm gate (which
// runs before confirmation, so a stale edit fails fast) and its Execute body
// (which re-verifies, since time passes between the two, and needs the
// record's lines regardless).
func loadVerifiedFile(ctx context.Context, tc *ToolContext, relPath string) (*model.FileRecord, string, error) {
	abs, err := safety.ResolvePath(tc.ProjectRoot, relPath)
	if err != nil {
		return nil, "", err
	}

	rec, err := loadFile(ctx, tc, relPath)
	if err != nil {
		return nil, "", err
	}

	onDisk, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", coreerrors.Wrap(coreerrors.KindNotFound, "read "+relPath, err)
	}
	if strings.Join(rec.Lines, "\n") != string(onDisk) {
		return nil, "", coreerrors.Newf(coreerrors.KindConflict, "%s modified since last indexed", relPath)
	}
	return rec, abs, nil
}

func executeEditLines(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	relPath, _ := requiredString(params, "path")
	start, _ := requiredInt(params, "start")
	end, _ := requiredInt(params, "end")
	content, _ := params["content"].(string)

	rec, abs, err := loadVerifiedFile(ctx, tc, relPath)
	if err != nil {
		return nil, err
	}

	clampedStart, clampedEnd := clampRange(start, end, len(rec.Lines))
	if clampedStart > clampedEnd {
		return nil, coreerrors.Newf(coreerrors.KindValidation, "empty edit range %d-%d", start, end)
	}

	previous := append([]string(nil), rec.Lines...)
	replacement := strings.Split(content, "\n")

	newLines := make([]string, 0, len(rec.Lines)+len(replacement))
	newLines = append(newLines, rec.Lines[:clampedStart-1]...)
	newLines = append(newLines, replacement...)
	newLines = append(newLines, rec.Lines[clampedEnd:]...)

	newContent := strings.Join(newLines, "\n")
	if err := writeFileAtomic(abs, []byte(newContent), 0644); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "write "+relPath, err)
	}

	info, err := os.Stat(abs)
	var mtime int64
	if err == nil {
		mtime = info.ModTime().Unix()
	}
	newRec := model.FileRecord{
		Path:  relPath,
		Lines: newLines,
		Hash:  hashLines(newLines),
		Size:  int64(len(newContent)),
		Mtime: mtime,
	}
	if err := tc.Store.SetFile(ctx, tc.Project, newRec); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "persist edited file", err)
	}

	entry := model.UndoEntry{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		FilePath:        relPath,
		PreviousContent: previous,
		NewContent:      newLines,
		Description:     fmt.Sprintf("edit_lines %s:%d-%d", relPath, start, end),
	}
	if tc.SessionID != "" {
		if err := tc.Store.PushUndoEntry(ctx, tc.SessionID, entry); err != nil {
			return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "push undo entry", err)
		}
	}

	return &model.ToolResult{Success: true, Data: fmt.Sprintf("replaced lines %d-%d in %s", clampedStart, clampedEnd, relPath)}, nil
}

// create_file

func createFileDef() *ToolDef {
	return &ToolDef{
		Name:                 "create_file",
		Description:          "Create a new file at path with content; fails if the path already exists.",
		Category:             CategoryEdit,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
			{Name: "content", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			if _, err := requiredString(params, "path"); err != nil {
				return err
			}
			if _, ok := params["content"].(string); !ok {
				return coreerrors.New(coreerrors.KindValidation, "parameter \"content\" must be a string")
			}
			return nil
		},
		Execute: executeCreateFile,
	}
}

func executeCreateFile(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	relPath, _ := requiredString(params, "path")
	content, _ := params["content"].(string)

	abs, err := safety.ResolvePath(tc.ProjectRoot, relPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err == nil {
		return nil, coreerrors.Newf(coreerrors.KindConflict, "file already exists: %s", relPath)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "create parent directory", err)
	}
	if err := writeFileAtomic(abs, []byte(content), 0644); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "write "+relPath, err)
	}

	lines := strings.Split(content, "\n")
	info, _ := os.Stat(abs)
	var mtime int64
	if info != nil {
		mtime = info.ModTime().Unix()
	}
	rec := model.FileRecord{Path: relPath, Lines: lines, Hash: hashLines(lines), Size: int64(len(content)), Mtime: mtime}
	if err := tc.Store.SetFile(ctx, tc.Project, rec); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "persist created file", err)
	}

	return &model.ToolResult{Success: true, Data: fmt.Sprintf("created %s (%d lines)", relPath, len(lines))}, nil
}

// delete_file

func deleteFileDef() *ToolDef {
	return &ToolDef{
		Name:                 "delete_file",
		Description:          "Delete the file at path; fails if it does not exist.",
		Category:             CategoryEdit,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "path", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "path")
			return err
		},
		Execute: executeDeleteFile,
	}
}

func executeDeleteFile(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
	relPath, _ := requiredString(params, "path")

	abs, err := safety.ResolvePath(tc.ProjectRoot, relPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, coreerrors.Newf(coreerrors.KindNotFound, "file does not exist: %s", relPath)
	}
	if err := os.Remove(abs); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, "delete "+relPath, err)
	}
	if err := tc.Store.DeleteFile(ctx, tc.Project, relPath); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindStoreUnavailable, "remove file record", err)
	}
	_ = tc.Store.DeleteAST(ctx, tc.Project, relPath)
	_ = tc.Store.DeleteMeta(ctx, tc.Project, relPath)

	return &model.ToolResult{Success: true, Data: fmt.Sprintf("deleted %s", relPath)}, nil
}

func hashLines(lines []string) string {
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
