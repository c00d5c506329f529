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
	"strconv"
	"strings"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

type ollamaProvider struct {
	baseURL      string
	defaultModel string
	client       *http.Client
}

func newOllamaProvider(cfg ProviderConfig) *ollamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.DefaultModel
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	return &ollamaProvider{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		defaultModel: model,
		client:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "build ollama request", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "reach ollama at "+p.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return coreerrors.Newf(coreerrors.KindProviderUnavailable, "ollama returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *ollamaProvider) listModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "list ollama models", err)
	}
	defer resp.Body.Close()

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "decode ollama model list", err)
	}
	names := make([]string, len(result.Models))
	for i, m := range result.Models {
		names[i] = m.Name
	}
	return names, nil
}

func (p *ollamaProvider) HasModel(ctx context.Context, name string) (bool, error) {
	models, err := p.listModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m == name {
			return true, nil
		}
	}
	return false, nil
}

func (p *ollamaProvider) PullModel(ctx context.Context, name string, onProgress func(PullProgress)) error {
	body, _ := json.Marshal(map[string]any{"name": name, "stream": true})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "build pull request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindProviderUnavailable, "pull model "+name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return coreerrors.Newf(coreerrors.KindModelMissing, "ollama pull %q returned status %d", name, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var chunk struct {
			Status    string `json:"status"`
			Completed int64  `json:"completed"`
			Total     int64  `json:"total"`
		}
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}
		if onProgress != nil {
			onProgress(PullProgress{Status: chunk.Status, Completed: chunk.Completed, Total: chunk.Total})
		}
	}
	return scanner.Err()
}

// ollamaToolSpec mirrors the function-calling tool shape ollama's /api/chat
// accepts.
type ollamaToolSpec struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

func toOllamaTools(tools []ToolSpec) []ollamaToolSpec {
	out := make([]ollamaToolSpec, len(tools))
	for i, t := range tools {
		out[i].Type = "function"
		out[i].Function.Name = t.Name
		out[i].Function.Description = t.Description
		out[i].Function.Parameters = t.Parameters
	}
	return out
}

func (p *ollamaProvider) ChatStream(ctx context.Context, messages []Message, tools []ToolSpec, opts ChatOptions) (<-chan Delta, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	if model == "" {
		return nil, coreerrors.New(coreerrors.KindModelMissing, "ollama: model not specified")
	}

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   true,
	}
	if len(tools) > 0 {
		payload["tools"] = toOllamaTools(tools)
	}
	options := map[string]any{}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		options["temperature"] = opts.Temperature
	}
	if len(options) > 0 {
		payload["options"] = options
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "build ollama chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindProviderUnavailable, "ollama chat", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, coreerrors.Newf(coreerrors.KindProviderUnavailable, "ollama chat returned status %d", resp.StatusCode)
	}

	out := make(chan Delta)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		callSeq := 0
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var chunk struct {
				Message struct {
					Content   string `json:"content"`
					ToolCalls []struct {
						Function struct {
							Name      string         `json:"name"`
							Arguments map[string]any `json:"arguments"`
						} `json:"function"`
					} `json:"tool_calls"`
				} `json:"message"`
				Done            bool `json:"done"`
				PromptEvalCount int  `json:"prompt_eval_count"`
				EvalCount       int  `json:"eval_count"`
			}
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue
			}

			if chunk.Message.Content != "" {
				if !sendDelta(ctx, out, Delta{Text: chunk.Message.Content}) {
					return
				}
			}
			for _, tc := range chunk.Message.ToolCalls {
				callSeq++
				d := Delta{ToolCall: &ToolCallDelta{
					CallID: ollamaCallID(callSeq),
					Name:   tc.Function.Name,
					Params: tc.Function.Arguments,
				}}
				if !sendDelta(ctx, out, d) {
					return
				}
			}
			if chunk.Done {
				sendDelta(ctx, out, Delta{Done: &Usage{
					PromptTokens: chunk.PromptEvalCount,
					OutputTokens: chunk.EvalCount,
					TotalTokens:  chunk.PromptEvalCount + chunk.EvalCount,
				}})
				return
			}
		}
	}()
	return out, nil
}

func sendDelta(ctx context.Context, out chan<- Delta, d Delta) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

func ollamaCallID(seq int) string {
	return "ollama-call-" + strconv.Itoa(seq)
}
