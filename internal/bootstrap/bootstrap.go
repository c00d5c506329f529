// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bootstrap implements Onboarding (C11): the sequence of checks a
// CLI invocation runs before it lets an agent session start, confirming
// the store, the LLM provider, and the target project are all in a usable
// state.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kraklabs/ipuaro/pkg/llmclient"
	"github.com/kraklabs/ipuaro/pkg/scanner"
)

// largeProjectWarningThreshold is the file count above which Run warns
// (but does not fail) that indexing may be slow. A var, not a const, so
// tests can exercise the warning path without writing ten thousand files.
var largeProjectWarningThreshold = 10000

// Pinger is the one store.Store operation onboarding needs; the narrower
// interface keeps this package from depending on the full Index Store
// surface for a single reachability check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures one Run call.
type Options struct {
	// ProjectRoot is scanned for the project-size check.
	ProjectRoot string

	// RequireModel, when set, is checked against the provider's model list
	// (ollama only; openai always reports true per C8).
	RequireModel string

	Store    Pinger
	Provider llmclient.Provider
}

// CheckResult is the outcome of one onboarding check.
type CheckResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Result is the aggregate outcome of Run: success requires every selected
// check to pass.
type Result struct {
	Success   bool          `json:"success"`
	Checks    []CheckResult `json:"checks"`
	FileCount int           `json:"fileCount"`
	Errors    []string      `json:"errors,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// Run executes the onboarding checks in spec order: store ping, provider
// reachability, model presence (ollama only), then project size. logger
// may be nil, in which case slog.Default() is used.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{Success: true}

	logger.Info("bootstrap.onboarding.start", "project_root", opts.ProjectRoot)

	res.addCheck(storePingCheck(ctx, opts.Store))
	res.addCheck(providerReachabilityCheck(ctx, opts.Provider))
	if opts.Provider != nil && opts.Provider.Name() == "ollama" && opts.RequireModel != "" {
		res.addCheck(modelPresenceCheck(ctx, opts.Provider, opts.RequireModel))
	}

	count, sizeCheck, sizeErr := projectSizeCheck(opts.ProjectRoot)
	res.FileCount = count
	res.addCheck(sizeCheck)
	if sizeErr != nil {
		res.Warnings = append(res.Warnings, sizeErr.Error())
	}

	if res.Success {
		logger.Info("bootstrap.onboarding.success", "file_count", res.FileCount)
	} else {
		logger.Warn("bootstrap.onboarding.failure", "errors", res.Errors)
	}

	return res, nil
}

func (r *Result) addCheck(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.OK {
		r.Success = false
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", c.Name, c.Error))
	}
}

func storePingCheck(ctx context.Context, st Pinger) CheckResult {
	if st == nil {
		return CheckResult{Name: "store", OK: false, Error: "no store configured"}
	}
	if err := st.Ping(ctx); err != nil {
		return CheckResult{Name: "store", OK: false, Error: err.Error()}
	}
	return CheckResult{Name: "store", OK: true}
}

func providerReachabilityCheck(ctx context.Context, p llmclient.Provider) CheckResult {
	if p == nil {
		return CheckResult{Name: "provider", OK: false, Error: "no llm provider configured"}
	}
	if err := p.IsAvailable(ctx); err != nil {
		return CheckResult{Name: "provider", OK: false, Error: err.Error()}
	}
	return CheckResult{Name: "provider", OK: true}
}

func modelPresenceCheck(ctx context.Context, p llmclient.Provider, model string) CheckResult {
	ok, err := p.HasModel(ctx, model)
	if err != nil {
		return CheckResult{Name: "model", OK: false, Error: err.Error()}
	}
	if !ok {
		return CheckResult{Name: "model", OK: false, Error: fmt.Sprintf("model %q not pulled", model)}
	}
	return CheckResult{Name: "model", OK: true}
}

// projectSizeCheck scans the project root and fails if it contains zero
// supported files; a warning (non-fatal) is produced above the large
// project threshold. The warning, when present, is returned alongside the
// check so Run can surface it without failing onboarding.
func projectSizeCheck(root string) (int, CheckResult, error) {
	entries, err := scanner.Scan(root, scanner.Options{}, nil)
	if err != nil {
		return 0, CheckResult{Name: "project_size", OK: false, Error: err.Error()}, nil
	}
	count := len(entries)
	if count == 0 {
		return 0, CheckResult{Name: "project_size", OK: false, Error: "no supported files found"}, nil
	}
	if count > largeProjectWarningThreshold {
		return count, CheckResult{Name: "project_size", OK: true}, fmt.Errorf("project has %d files, indexing may be slow", count)
	}
	return count, CheckResult{Name: "project_size", OK: true}, nil
}
