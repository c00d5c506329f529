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

// Package bootstrap runs the onboarding checks a CLI invocation performs
// before starting an agent session: is the Index Store reachable, is the
// configured LLM provider reachable, is the required model present (for
// ollama), and is the target project a sane size to index.
//
// # Usage
//
//	res, err := bootstrap.Run(ctx, bootstrap.Options{
//	    ProjectRoot:  "/path/to/project",
//	    RequireModel: "llama3",
//	    Store:        st,
//	    Provider:     provider,
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.Success {
//	    log.Fatal(res.Errors)
//	}
//
// Every check contributes one CheckResult to Result.Checks; Result.Success
// requires every check to have passed. A project-size check above the
// large-project threshold produces a warning rather than a failure.
package bootstrap
