// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/kraklabs/ipuaro/internal/contract"
	"github.com/kraklabs/ipuaro/internal/ui"
	"github.com/kraklabs/ipuaro/pkg/session"
)

// runInit implements executeInit: writes .ipuaro.json for the current
// directory if one doesn't already exist.
func runInit(args []string, globals GlobalFlags) int {
	path := globals.Config
	if path == "" {
		path = contract.DefaultConfigFileName
	}

	if _, err := os.Stat(path); err == nil {
		ui.Warning(path + " already exists; leaving it unchanged")
		return 0
	}

	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro init:", err)
		return 10
	}

	cfg := contract.ProjectConfig{
		ProjectName: session.DeriveProjectName(root),
		StoreAddr:   "localhost:6379",
		Provider:    "ollama",
		Model:       "llama3",
		BaseURL:     "http://localhost:11434",
	}

	if err := contract.Write(path, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro init:", err)
		return 10
	}

	ui.Successf("wrote %s (project %q)", path, cfg.ProjectName)
	return 0
}
