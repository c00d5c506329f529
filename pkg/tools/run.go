// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
	"github.com/kraklabs/ipuaro/internal/safety"
	"github.com/kraklabs/ipuaro/pkg/model"
)

func init() {
	defaultRegistry.Register(runCommandDef())
	defaultRegistry.Register(runTestsDef())
}

// defaultRunTimeout bounds both run_command and run_tests; spec §4.9 calls
// for tool-specific defaults with "tests/run_command longer".
const defaultRunTimeout = 2 * time.Minute

// gracePeriod is how long a cancelled child process gets after SIGTERM
// before SIGKILL, per spec §5's cancellation contract.
const gracePeriod = 5 * time.Second

func runCommandDef() *ToolDef {
	return &ToolDef{
		Name:                 "run_command",
		Description:          "Run a shell command in the project root, gated by the Safety Layer's allow/deny lists.",
		Category:             CategoryRun,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "command", Type: "string", Required: true},
		},
		ValidateParams: func(params map[string]any) error {
			_, err := requiredString(params, "command")
			return err
		},
		// A command the Safety Layer classifies Safe bypasses confirmation
		// (spec.md:111, spec.md:144); anything else, including a malformed
		// or missing command, still asks.
		RequiresConfirmationFunc: func(params map[string]any) bool {
			command, _ := requiredString(params, "command")
			return safety.Classify(command) != safety.ClassificationSafe
		},
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			command, _ := requiredString(params, "command")
			return runShell(ctx, tc, command, defaultRunTimeout)
		},
	}
}

func runTestsDef() *ToolDef {
	return &ToolDef{
		Name:                 "run_tests",
		Description:          "Run the project's test suite, optionally scoped to a pattern.",
		Category:             CategoryRun,
		RequiresConfirmation: true,
		Parameters: []Parameter{
			{Name: "pattern", Type: "string"},
		},
		RequiresConfirmationFunc: func(params map[string]any) bool {
			return safety.Classify(testCommand(params)) != safety.ClassificationSafe
		},
		Execute: func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error) {
			return runShell(ctx, tc, testCommand(params), defaultRunTimeout)
		},
	}
}

// testCommand renders run_tests's params into the shell command runShell
// actually executes, shared between RequiresConfirmationFunc and Execute so
// the two always classify and run the identical string.
func testCommand(params map[string]any) string {
	pattern := optionalString(params, "pattern", "")
	if pattern != "" {
		return fmt.Sprintf("npm test -- %s", pattern)
	}
	return "npm test"
}

// runShell classifies command via the Safety Layer, then runs it with a
// timeout and a SIGTERM-then-SIGKILL cancellation path.
//
// Note: confirmation for a Classification other than Safe/Blocked is
// already enforced one level up, by Registry.Dispatch honoring
// RequiresConfirmationFunc; runShell only needs to refuse Blocked commands
// outright, since a blocked command must never run even if auto-apply is
// on.
func runShell(ctx context.Context, tc *ToolContext, command string, timeout time.Duration) (*model.ToolResult, error) {
	if safety.Classify(command) == safety.ClassificationBlocked {
		return nil, coreerrors.Newf(coreerrors.KindCommandBlocked, "command blocked by policy: %s", command)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = tc.ProjectRoot
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	output, runErr := runWithGracePeriod(cmd, runCtx)

	text := strings.TrimSpace(string(output))
	if ctx.Err() != nil {
		return nil, coreerrors.New(coreerrors.KindCancelled, "command cancelled")
	}
	if runCtx.Err() != nil {
		return nil, coreerrors.Newf(coreerrors.KindTimeout, "command timed out after %s", timeout)
	}
	if runErr != nil {
		return &model.ToolResult{Success: false, Error: runErr.Error(), Data: text}, nil
	}
	return &model.ToolResult{Success: true, Data: text}, nil
}

// runWithGracePeriod starts cmd and, if its context is cancelled before it
// exits, sends SIGTERM to the whole process group and escalates to SIGKILL
// after gracePeriod — never a silent kill (spec §5).
func runWithGracePeriod(cmd *exec.Cmd, ctx context.Context) ([]byte, error) {
	outputCh := make(chan struct {
		out []byte
		err error
	}, 1)

	go func() {
		out, err := cmd.CombinedOutput()
		outputCh <- struct {
			out []byte
			err error
		}{out, err}
	}()

	select {
	case res := <-outputCh:
		return res.out, res.err
	case <-ctx.Done():
		if cmd.Process != nil {
			syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
		}
		select {
		case res := <-outputCh:
			return res.out, res.err
		case <-time.After(gracePeriod):
			if cmd.Process != nil {
				syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
			res := <-outputCh
			return res.out, res.err
		}
	}
}
