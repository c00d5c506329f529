// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kraklabs/ipuaro/pkg/llmclient"
	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/session"
	"github.com/kraklabs/ipuaro/pkg/store"
	"github.com/kraklabs/ipuaro/pkg/tools"
)

// defaultTokenBudget bounds the rendered context passed alongside history;
// callers needing a different budget set Options.TokenBudget.
const defaultTokenBudget = 4000

// defaultMaxSteps bounds the tool-call/re-stream round trips one
// HandleMessage call may run before it gives up and returns an error,
// guarding against a provider that never stops calling tools.
const defaultMaxSteps = 50

// defaultStepTimeout bounds a single ChatStream round trip.
const defaultStepTimeout = 30 * time.Second

// Options tunes one HandleMessage call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TokenBudget int
	AutoApply   bool

	// MaxSteps bounds the number of tool-call rounds before HandleMessage
	// aborts the turn. Zero uses defaultMaxSteps.
	MaxSteps int

	// StepTimeout bounds a single ChatStream round trip. Zero uses
	// defaultStepTimeout.
	StepTimeout time.Duration

	// RequestConfirmation is forwarded to every dispatched tool call; see
	// tools.ToolContext.
	RequestConfirmation func(ctx context.Context, summary string) (bool, error)

	// OnText streams assistant text deltas to the caller (the TUI) as they
	// arrive, in addition to the final persisted message.
	OnText func(text string)

	// OnToolResult is invoked after every dispatched tool call, whether it
	// succeeded, failed, or was cancelled.
	OnToolResult func(call model.ToolCall, result model.ToolResult)
}

// Loop wires the registry, LLM provider, and store together to run the
// message handler described in C9.
type Loop struct {
	Store    store.Store
	Registry *tools.Registry
	Provider llmclient.Provider
	Project  string
	Root     string
}

// HandleMessage runs the full six-step agent loop for one user message
// against sess, persisting every mutation as it happens and returning once
// the stream ends in a text-only turn or ctx is cancelled.
func (l *Loop) HandleMessage(ctx context.Context, sess *model.Session, userText string, opts Options) error {
	if opts.TokenBudget == 0 {
		opts.TokenBudget = defaultTokenBudget
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	if opts.StepTimeout == 0 {
		opts.StepTimeout = defaultStepTimeout
	}

	userMsg := model.ChatMessage{Role: model.RoleUser, Content: userText, Timestamp: time.Now().UTC()}
	if err := session.AppendMessage(ctx, l.Store, sess, userMsg); err != nil {
		return err
	}
	if err := session.AppendInput(ctx, l.Store, sess, userText); err != nil {
		return err
	}

	renderedContext, err := BuildContext(ctx, l.Store, l.Project, opts.TokenBudget)
	if err != nil {
		return err
	}

	tc := &tools.ToolContext{
		Store:               l.Store,
		Project:             l.Project,
		ProjectRoot:         l.Root,
		SessionID:           sess.ID,
		AutoApply:           opts.AutoApply,
		RequestConfirmation: opts.RequestConfirmation,
	}

	// The loop re-queries the stream after every round of tool calls until
	// a round ends in text only, matching spec step 5 ("when the stream
	// ends in text only, append assistant message, persist, and return").
	// MaxSteps bounds how many rounds a single message may take, the way
	// SessionConfig.MaxSteps bounds a whole session.
	for step := 0; step < opts.MaxSteps; step++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		messages := renderMessages(sess, renderedContext)
		toolSpecs := renderToolSpecs(l.Registry)

		stepCtx, cancel := context.WithTimeout(ctx, opts.StepTimeout)
		stream, err := l.Provider.ChatStream(stepCtx, messages, toolSpecs, llmclient.ChatOptions{
			Model:       opts.Model,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		})
		if err != nil {
			cancel()
			return err
		}

		sawToolCall, assistantText, err := l.consumeStream(stepCtx, sess, tc, stream, opts)
		cancel()
		if err != nil {
			return err
		}
		if !sawToolCall {
			if assistantText != "" {
				msg := model.ChatMessage{Role: model.RoleAssistant, Content: assistantText, Timestamp: time.Now().UTC()}
				if err := session.AppendMessage(ctx, l.Store, sess, msg); err != nil {
					return err
				}
			}
			return nil
		}
	}

	return fmt.Errorf("agent: exceeded max steps (%d) without a final text response", opts.MaxSteps)
}

// consumeStream drains one ChatStream call, dispatching tool-call deltas
// as they arrive and accumulating text for the eventual assistant message.
// It returns whether any tool call was dispatched this round.
func (l *Loop) consumeStream(ctx context.Context, sess *model.Session, tc *tools.ToolContext, stream <-chan llmclient.Delta, opts Options) (bool, string, error) {
	var text strings.Builder
	sawToolCall := false

	for delta := range stream {
		if ctx.Err() != nil {
			return sawToolCall, text.String(), ctx.Err()
		}

		switch {
		case delta.ToolCall != nil:
			sawToolCall = true
			call := model.ToolCall{CallID: delta.ToolCall.CallID, Name: delta.ToolCall.Name, Params: delta.ToolCall.Params}
			result := l.Registry.Dispatch(ctx, tc, call)

			toolMsg := model.ChatMessage{Role: model.RoleTool, Timestamp: time.Now().UTC(), ToolCall: &call, ToolResult: &result}
			if err := session.AppendMessage(ctx, l.Store, sess, toolMsg); err != nil {
				return sawToolCall, text.String(), err
			}

			isEdit := call.Name == "edit_lines" || call.Name == "create_file" || call.Name == "delete_file"
			if err := session.RecordToolCall(ctx, l.Store, sess, isEdit, result.Success); err != nil {
				return sawToolCall, text.String(), err
			}

			if opts.OnToolResult != nil {
				opts.OnToolResult(call, result)
			}

		case delta.Text != "":
			text.WriteString(delta.Text)
			if opts.OnText != nil {
				opts.OnText(delta.Text)
			}

		case delta.Done != nil:
			if err := session.RecordUsage(ctx, l.Store, sess, int64(delta.Done.TotalTokens), 0); err != nil {
				return sawToolCall, text.String(), err
			}
		}
	}

	return sawToolCall, text.String(), nil
}

// renderMessages flattens a session's chat history plus the rendered
// project context into the provider-facing Message slice: a leading
// system turn carrying the context, followed by the conversation so far.
func renderMessages(sess *model.Session, renderedContext string) []llmclient.Message {
	out := make([]llmclient.Message, 0, len(sess.History)+1)
	out = append(out, llmclient.Message{Role: string(model.RoleSystem), Content: renderedContext})
	for _, m := range sess.History {
		content := m.Content
		if m.ToolResult != nil {
			if m.ToolResult.Success {
				content = m.ToolResult.Data
			} else {
				content = "error: " + m.ToolResult.Error
			}
		}
		out = append(out, llmclient.Message{Role: string(m.Role), Content: content})
	}
	return out
}

// renderToolSpecs converts every registered tool into the wire-shaped
// ToolSpec a Provider's function-calling API expects.
func renderToolSpecs(reg *tools.Registry) []llmclient.ToolSpec {
	defs := reg.List()
	out := make([]llmclient.ToolSpec, 0, len(defs))
	for _, d := range defs {
		props := make(map[string]any, len(d.Parameters))
		var required []string
		for _, p := range d.Parameters {
			prop := map[string]any{"type": p.Type, "description": p.Description}
			if len(p.Enum) > 0 {
				prop["enum"] = p.Enum
			}
			props[p.Name] = prop
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, llmclient.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Parameters: map[string]any{
				"type":       "object",
				"properties": props,
				"required":   required,
			},
		})
	}
	return out
}
