// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ipuaro/pkg/model"
)

func TestRunShell_SucceedsAndCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	tc := &ToolContext{ProjectRoot: dir}

	result, err := runShell(context.Background(), tc, "echo hello", time.Second)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Data, "hello")
}

func TestRunShell_BlockedCommandRefused(t *testing.T) {
	dir := t.TempDir()
	tc := &ToolContext{ProjectRoot: dir}

	_, err := runShell(context.Background(), tc, "rm -rf /", time.Second)
	require.Error(t, err)
}

func TestRunShell_TimesOut(t *testing.T) {
	dir := t.TempDir()
	tc := &ToolContext{ProjectRoot: dir}

	_, err := runShell(context.Background(), tc, "sleep 5", 50*time.Millisecond)
	require.Error(t, err)
}

func TestRunCommandDef_SafeCommandSkipsConfirmation(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	r.Register(runCommandDef())

	// AutoApply is false and RequestConfirmation is nil: if the safe-command
	// bypass didn't work, Dispatch would treat the missing callback as a
	// cancellation instead of running the command.
	tc := &ToolContext{ProjectRoot: dir}
	result := r.Dispatch(context.Background(), tc, model.ToolCall{
		CallID: "c1",
		Name:   "run_command",
		Params: map[string]any{"command": "ls"},
	})

	require.True(t, result.Success)
	assert.NotEqual(t, "cancelled", result.Error)
}

func TestRunCommandDef_UnsafeCommandStillRequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	r.Register(runCommandDef())

	tc := &ToolContext{ProjectRoot: dir}
	result := r.Dispatch(context.Background(), tc, model.ToolCall{
		CallID: "c1",
		Name:   "run_command",
		Params: map[string]any{"command": "npm install left-pad"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "cancelled", result.Error)
}
