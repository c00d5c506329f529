// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// Category classifies a ToolDef the way the tool list in spec §4.7 groups
// the 18 tools.
type Category string

const (
	CategoryRead     Category = "read"
	CategoryEdit     Category = "edit"
	CategorySearch   Category = "search"
	CategoryAnalysis Category = "analysis"
	CategoryGit      Category = "git"
	CategoryRun      Category = "run"
)

// Parameter describes one named argument a tool accepts.
type Parameter struct {
	Name        string
	Type        string // "string", "int", "bool"
	Required    bool
	Enum        []string
	Description string
}

// ToolDef is one entry in the Registry: a name, its parameter schema, and
// the function the agent loop dispatches to. There is no inheritance
// hierarchy here, just an interface-satisfying value per spec §9's
// "dynamic tool dispatch" note — every tool is a ToolDef, never a subtype.
type ToolDef struct {
	Name                 string
	Description          string
	Category             Category
	Parameters           []Parameter
	RequiresConfirmation bool
	ValidateParams       func(params map[string]any) error
	Execute              func(ctx context.Context, tc *ToolContext, params map[string]any) (*model.ToolResult, error)

	// RequiresConfirmationFunc, when set, overrides RequiresConfirmation for
	// a specific call: it lets a tool whose confirmation need depends on its
	// arguments (run_command/run_tests, gated by the Safety Layer's
	// allow-list) decide per-call instead of per-registration. Dispatch
	// consults it only after ValidateParams and PreConfirm have passed.
	RequiresConfirmationFunc func(params map[string]any) bool

	// PreConfirm runs after ValidateParams but before the confirmation gate,
	// so a call doomed to fail regardless of the user's answer (edit_lines
	// against a file modified out-of-band, returning KindConflict) never
	// prompts for confirmation in the first place. A nil PreConfirm skips
	// the check.
	PreConfirm func(ctx context.Context, tc *ToolContext, params map[string]any) error
}

// requiresConfirmation reports whether one call to def needs confirmation,
// consulting RequiresConfirmationFunc when the tool defines one.
func (d *ToolDef) requiresConfirmation(params map[string]any) bool {
	if d.RequiresConfirmationFunc != nil {
		return d.RequiresConfirmationFunc(params)
	}
	return d.RequiresConfirmation
}

// ToolContext carries everything a tool execution needs that isn't part of
// its own parameters: the project's store and root, confirmation gating,
// and a monotonic call-id counter (unique within a session, spec P5).
type ToolContext struct {
	Store       store.Store
	Project     string
	ProjectRoot string
	SessionID   string
	AutoApply   bool

	// RequestConfirmation is supplied by the TUI; a false/err reply cancels
	// the pending tool.
	RequestConfirmation func(ctx context.Context, summary string) (bool, error)

	callSeq int64
}

// NextCallID produces "<name>-<monotonic>", unique within this ToolContext.
func (tc *ToolContext) NextCallID(name string) string {
	n := atomic.AddInt64(&tc.callSeq, 1)
	return fmt.Sprintf("%s-%d", name, n)
}

// Registry maps tool name to ToolDef, preserving registration order for
// List.
type Registry struct {
	defs  map[string]*ToolDef
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ToolDef)}
}

// Register adds def to the registry, replacing any prior def of the same
// name.
func (r *Registry) Register(def *ToolDef) {
	if _, exists := r.defs[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = def
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*ToolDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// List returns every registered ToolDef in registration order.
func (r *Registry) List() []*ToolDef {
	out := make([]*ToolDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// ByCategory returns every ToolDef in the given category, sorted by name.
func (r *Registry) ByCategory(cat Category) []*ToolDef {
	var out []*ToolDef
	for _, d := range r.List() {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RequiresConfirmation reports whether the named tool requires
// confirmation, false for an unknown name.
func (r *Registry) RequiresConfirmation(name string) bool {
	d, ok := r.Get(name)
	return ok && d.RequiresConfirmation
}

// SafeTools returns every tool that never requires confirmation.
func (r *Registry) SafeTools() []*ToolDef {
	var out []*ToolDef
	for _, d := range r.List() {
		if !d.RequiresConfirmation {
			out = append(out, d)
		}
	}
	return out
}

// ConfirmationTools returns every tool flagged RequiresConfirmation.
func (r *Registry) ConfirmationTools() []*ToolDef {
	var out []*ToolDef
	for _, d := range r.List() {
		if d.RequiresConfirmation {
			out = append(out, d)
		}
	}
	return out
}

// Dispatch runs the full tool-call contract the agent loop (C9) relies on:
// validate params, gate on confirmation unless auto-apply, execute, and
// stamp callId/executionTimeMs on the result — the single place this
// bookkeeping happens so no tool body needs to repeat it.
func (r *Registry) Dispatch(ctx context.Context, tc *ToolContext, call model.ToolCall) model.ToolResult {
	start := time.Now()
	elapsed := func() int64 { return time.Since(start).Milliseconds() }

	def, ok := r.Get(call.Name)
	if !ok {
		return model.ToolResult{CallID: call.CallID, Success: false, Error: fmt.Sprintf("unknown tool: %s", call.Name), ExecutionTimeMs: elapsed()}
	}

	if def.ValidateParams != nil {
		if err := def.ValidateParams(call.Params); err != nil {
			return model.ToolResult{CallID: call.CallID, Success: false, Error: err.Error(), ExecutionTimeMs: elapsed()}
		}
	}

	if def.PreConfirm != nil {
		if err := def.PreConfirm(ctx, tc, call.Params); err != nil {
			return model.ToolResult{CallID: call.CallID, Success: false, Error: err.Error(), ExecutionTimeMs: elapsed()}
		}
	}

	if def.requiresConfirmation(call.Params) && !tc.AutoApply {
		if tc.RequestConfirmation == nil {
			return model.ToolResult{CallID: call.CallID, Success: false, Error: "cancelled", ExecutionTimeMs: elapsed()}
		}
		approved, err := tc.RequestConfirmation(ctx, confirmationSummary(def, call.Params))
		if err != nil {
			return model.ToolResult{CallID: call.CallID, Success: false, Error: err.Error(), ExecutionTimeMs: elapsed()}
		}
		if !approved {
			return model.ToolResult{CallID: call.CallID, Success: false, Error: "cancelled", ExecutionTimeMs: elapsed()}
		}
	}

	result, err := def.Execute(ctx, tc, call.Params)
	if err != nil {
		return model.ToolResult{CallID: call.CallID, Success: false, Error: err.Error(), ExecutionTimeMs: elapsed()}
	}
	result.CallID = call.CallID
	result.ExecutionTimeMs = elapsed()
	return *result
}

// confirmationSummary renders a one-line human-readable description of the
// pending call, passed to tc.RequestConfirmation.
func confirmationSummary(def *ToolDef, params map[string]any) string {
	switch def.Name {
	case "edit_lines":
		return fmt.Sprintf("Edit %v lines %v-%v", params["path"], params["start"], params["end"])
	case "create_file":
		return fmt.Sprintf("Create %v", params["path"])
	case "delete_file":
		return fmt.Sprintf("Delete %v", params["path"])
	case "git_commit":
		return fmt.Sprintf("Commit: %v", params["message"])
	case "run_command":
		return fmt.Sprintf("Run command: %v", params["command"])
	case "run_tests":
		return fmt.Sprintf("Run tests (%v)", params["pattern"])
	default:
		return fmt.Sprintf("%s(%v)", def.Name, params)
	}
}
