// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/ipuaro/internal/contract"
	"github.com/kraklabs/ipuaro/internal/output"
	"github.com/kraklabs/ipuaro/internal/ui"
	"github.com/kraklabs/ipuaro/pkg/index"
	"github.com/kraklabs/ipuaro/pkg/session"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// runIndex implements executeIndex: scans, parses, analyzes, and persists
// the current project's files through the Index Store, printing progress
// the way the teacher's local_pipeline.go phases report.
func runIndex(args []string, globals GlobalFlags) int {
	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro index:", err)
		return 10
	}

	cfg, err := contract.Load(globals.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro index:", err)
		return 1
	}
	project := cfg.ProjectName
	if project == "" {
		project = session.DeriveProjectName(root)
	}

	st, err := store.New(store.Config{Addr: cfg.StoreAddr})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro index: opening store:", err)
		return 2
	}
	defer st.Close()

	ixr := index.NewIndexer(st, project, root)

	progCfg := NewProgressConfig(globals)
	var bar *progressbar.ProgressBar
	var barPhase string
	ctx := context.Background()

	result, err := ixr.Run(ctx, func(phase string, current, total int, currentFile string) {
		if !progCfg.Enabled {
			return
		}
		if bar == nil || barPhase != phase {
			bar = NewProgressBar(progCfg, int64(total), phase)
			barPhase = phase
		}
		if bar != nil {
			_ = bar.Set(current)
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro index:", err)
		return 10
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			fmt.Fprintln(os.Stderr, "ipuaro index:", err)
			return 10
		}
		return 0
	}

	ui.Successf("indexed %d files (%d parsed, %d errors) in %s",
		result.FilesScanned, result.FilesParsed, result.ParseErrors, result.Duration)
	return 0
}
