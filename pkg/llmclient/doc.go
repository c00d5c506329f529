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

// Package llmclient provides a uniform streaming-chat interface over local
// and hosted LLM backends, with tool-call extraction interleaved with text
// deltas in generation order.
//
// Two real backends are supported: ollama (local HTTP, NDJSON streaming)
// and openai-compatible APIs (HTTPS, SSE streaming). A mock backend lets
// callers script deterministic delta sequences for tests.
package llmclient
