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

// Package contract loads and validates the .ipuaro.json project
// configuration file.
//
// Load rejects unknown top-level fields via a strict json.Decoder, the
// same way the teacher's batch-script validation rejected malformed
// input, and tolerates a missing file by returning a zero-value
// ProjectConfig so callers fall back to flags and environment variables.
//
//	cfg, err := contract.Load(flagConfigPath)
//	if err != nil {
//	    return err
//	}
//	if cfg.ProjectName == "" {
//	    cfg.ProjectName = session.DeriveProjectName(root)
//	}
package contract
