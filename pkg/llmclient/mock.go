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

import "context"

// MockProvider is a scriptable Provider for tests: ChatStreamFunc, if set,
// fully controls the emitted deltas; otherwise a single canned text delta
// followed by Done is sent.
type MockProvider struct {
	model          string
	ChatStreamFunc func(ctx context.Context, messages []Message, tools []ToolSpec, opts ChatOptions) (<-chan Delta, error)
	AvailableErr   error
	Models         map[string]bool
}

// NewMockProvider returns a MockProvider defaulting to model.
func NewMockProvider(model string) *MockProvider {
	if model == "" {
		model = "mock-model"
	}
	return &MockProvider{model: model}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) IsAvailable(ctx context.Context) error { return p.AvailableErr }

func (p *MockProvider) HasModel(ctx context.Context, name string) (bool, error) {
	if p.Models == nil {
		return true, nil
	}
	return p.Models[name], nil
}

func (p *MockProvider) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	if onProgress != nil {
		onProgress(PullProgress{Status: "success", Completed: 1, Total: 1})
	}
	return nil
}

func (p *MockProvider) ChatStream(ctx context.Context, messages []Message, tools []ToolSpec, opts ChatOptions) (<-chan Delta, error) {
	if p.ChatStreamFunc != nil {
		return p.ChatStreamFunc(ctx, messages, tools, opts)
	}

	out := make(chan Delta, 2)
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	out <- Delta{Text: "[mock] reply to: " + last}
	out <- Delta{Done: &Usage{PromptTokens: len(last) / 4, OutputTokens: 5, TotalTokens: len(last)/4 + 5}}
	close(out)
	return out, nil
}
