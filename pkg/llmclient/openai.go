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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

type openaiProvider struct {
	baseURL      string
	apiKey       string
	defaultModel string
	client       *http.Client
}

func newOpenAIProvider(cfg ProviderConfig) *openaiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiProvider{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		defaultModel: model,
		client:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "build openai request", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "reach openai at "+p.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return coreerrors.Newf(coreerrors.KindProviderUnavailable, "openai returned status %d", resp.StatusCode)
	}
	return nil
}

// HasModel always reports true: OpenAI-compatible APIs host whatever model
// name is requested server-side, there is nothing local to check (spec
// §4.8).
func (p *openaiProvider) HasModel(ctx context.Context, name string) (bool, error) {
	return true, nil
}

func (p *openaiProvider) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	return coreerrors.New(coreerrors.KindValidation, "pullModel is not supported for the openai provider")
}

type openaiToolSpec struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

func toOpenAITools(tools []ToolSpec) []openaiToolSpec {
	out := make([]openaiToolSpec, len(tools))
	for i, t := range tools {
		out[i].Type = "function"
		out[i].Function.Name = t.Name
		out[i].Function.Description = t.Description
		out[i].Function.Parameters = t.Parameters
	}
	return out
}

// accumulatingToolCall tracks one tool_calls[i] entry across SSE chunks;
// OpenAI streams a call's id/name once and then dribbles out its JSON
// arguments string in fragments.
type accumulatingToolCall struct {
	id      string
	name    string
	argsBuf strings.Builder
}

func (p *openaiProvider) ChatStream(ctx context.Context, messages []Message, tools []ToolSpec, opts ChatOptions) (<-chan Delta, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   true,
	}
	if len(tools) > 0 {
		payload["tools"] = toOpenAITools(tools)
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		payload["temperature"] = opts.Temperature
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "build openai chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "openai chat", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, coreerrors.Newf(coreerrors.KindProviderUnavailable, "openai chat returned status %d", resp.StatusCode)
	}

	out := make(chan Delta)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		calls := map[int]*accumulatingToolCall{}
		order := []int{}

		flushCalls := func() bool {
			for _, idx := range order {
				c := calls[idx]
				if c == nil || c.name == "" {
					continue
				}
				params := map[string]any{}
				if c.argsBuf.Len() > 0 {
					_ = json.Unmarshal([]byte(c.argsBuf.String()), &params)
				}
				callID := c.id
				if callID == "" {
					callID = "openai-call-" + c.name
				}
				if !sendDelta(ctx, out, Delta{ToolCall: &ToolCallDelta{CallID: callID, Name: c.name, Params: params}}) {
					return false
				}
			}
			calls = map[int]*accumulatingToolCall{}
			order = nil
			return true
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				if !flushCalls() {
					return
				}
				sendDelta(ctx, out, Delta{Done: &Usage{}})
				return
			}

			var chunk struct {
				Choices []struct {
					Delta struct {
						Content   string `json:"content"`
						ToolCalls []struct {
							Index    int    `json:"index"`
							ID       string `json:"id"`
							Function struct {
								Name      string `json:"name"`
								Arguments string `json:"arguments"`
							} `json:"function"`
						} `json:"tool_calls"`
					} `json:"delta"`
					FinishReason string `json:"finish_reason"`
				} `json:"choices"`
				Usage struct {
					PromptTokens     int `json:"prompt_tokens"`
					CompletionTokens int `json:"completion_tokens"`
					TotalTokens      int `json:"total_tokens"`
				} `json:"usage"`
			}
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					if !sendDelta(ctx, out, Delta{Text: choice.Delta.Content}) {
						return
					}
				}
				for _, tc := range choice.Delta.ToolCalls {
					c, ok := calls[tc.Index]
					if !ok {
						c = &accumulatingToolCall{}
						calls[tc.Index] = c
						order = append(order, tc.Index)
					}
					if tc.ID != "" {
						c.id = tc.ID
					}
					if tc.Function.Name != "" {
						c.name = tc.Function.Name
					}
					c.argsBuf.WriteString(tc.Function.Arguments)
				}
				if choice.FinishReason != "" {
					if !flushCalls() {
						return
					}
					if choice.FinishReason != "tool_calls" {
						sendDelta(ctx, out, Delta{Done: &Usage{
							PromptTokens: chunk.Usage.PromptTokens,
							OutputTokens: chunk.Usage.CompletionTokens,
							TotalTokens:  chunk.Usage.TotalTokens,
						}})
						return
					}
				}
			}
		}
	}()
	return out, nil
}
