// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ProjectConfig is the decoded shape of .ipuaro.json.
type ProjectConfig struct {
	ProjectName string `json:"projectName,omitempty"`
	StoreAddr   string `json:"storeAddr,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	BaseURL     string `json:"baseUrl,omitempty"`
}

// DefaultConfigFileName is the config file Load looks for when no explicit
// path is given.
const DefaultConfigFileName = ".ipuaro.json"

// Load decodes path (or DefaultConfigFileName in the current directory if
// path is empty) into a ProjectConfig, rejecting unknown top-level fields
// the way the teacher's batch-script validation rejects malformed input.
// A missing file is not an error: Load returns a zero-value ProjectConfig
// so callers can fall back to flags and environment variables.
func Load(path string) (ProjectConfig, error) {
	if path == "" {
		path = DefaultConfigFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ProjectConfig{}, nil
	}
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg ProjectConfig
	if err := dec.Decode(&cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Write renders cfg as indented JSON to path.
func Write(path string, cfg ProjectConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
