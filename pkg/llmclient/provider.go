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

package llmclient

import (
	"context"
	"os"
	"strings"
	"time"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

// Message is one chat turn fed to a Provider.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant", "tool"
	Content string `json:"content"`
}

// ToolSpec describes one callable tool to a Provider, using a JSON-schema
// shaped Parameters object the same way pkg/tools.ToolDef's Parameters are
// rendered for the wire.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChatOptions tunes one ChatStream call.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Usage carries token accounting for a finished stream.
type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// ToolCallDelta is a complete tool invocation request extracted mid-stream.
type ToolCallDelta struct {
	CallID string
	Name   string
	Params map[string]any
}

// Delta is one unit of a ChatStream. Exactly one of Text, ToolCall, Done is
// set; Done is always the last delta sent on a channel.
type Delta struct {
	Text     string
	ToolCall *ToolCallDelta
	Done     *Usage
}

// PullProgress reports one status line of an in-progress model pull.
type PullProgress struct {
	Status    string
	Completed int64
	Total     int64
}

// Provider is the uniform interface C9's agent loop drives every backend
// through. ChatStream's channel is closed once a Done delta has been sent or
// ctx is cancelled, whichever comes first; no deltas are delivered after
// cancellation is observed.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) error
	HasModel(ctx context.Context, name string) (bool, error)
	PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error
	ChatStream(ctx context.Context, messages []Message, tools []ToolSpec, opts ChatOptions) (<-chan Delta, error)
}

// ProviderConfig configures NewProvider.
type ProviderConfig struct {
	// Type selects the backend: "ollama", "openai", "mock".
	Type string

	BaseURL      string
	APIKey       string
	DefaultModel string
	Timeout      time.Duration
}

// NewProvider builds a Provider per cfg.Type. Supported types: "ollama",
// "openai", "mock".
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	switch strings.ToLower(cfg.Type) {
	case "ollama", "local", "":
		return newOllamaProvider(cfg), nil
	case "openai", "openai-compatible":
		return newOpenAIProvider(cfg), nil
	case "mock", "test":
		return NewMockProvider(cfg.DefaultModel), nil
	default:
		return nil, coreerrors.Newf(coreerrors.KindValidation, "unknown llm provider type: %q (supported: ollama, openai, mock)", cfg.Type)
	}
}

// DefaultProvider builds a Provider from environment variables, checking
// in order: OLLAMA_HOST/OLLAMA_BASE_URL/OLLAMA_MODEL, then
// OPENAI_API_KEY, falling back to a mock provider when neither is set.
func DefaultProvider() (Provider, error) {
	if os.Getenv("OLLAMA_HOST") != "" || os.Getenv("OLLAMA_BASE_URL") != "" || os.Getenv("OLLAMA_MODEL") != "" {
		return NewProvider(ProviderConfig{Type: "ollama"})
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewProvider(ProviderConfig{Type: "openai"})
	}
	return NewProvider(ProviderConfig{Type: "mock"})
}
