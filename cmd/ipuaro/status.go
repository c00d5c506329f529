// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kraklabs/ipuaro/internal/bootstrap"
	"github.com/kraklabs/ipuaro/internal/contract"
	"github.com/kraklabs/ipuaro/internal/output"
	"github.com/kraklabs/ipuaro/internal/ui"
	"github.com/kraklabs/ipuaro/pkg/llmclient"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// runStatus implements runOnboarding: runs the onboarding checks and
// reports project status.
func runStatus(args []string, globals GlobalFlags) int {
	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro status:", err)
		return 10
	}

	cfg, err := contract.Load(globals.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro status:", err)
		return 1
	}

	st, err := store.New(store.Config{Addr: cfg.StoreAddr})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro status: opening store:", err)
		return 2
	}
	defer st.Close()

	var provider llmclient.Provider
	if cfg.Provider == "" {
		provider, err = llmclient.DefaultProvider()
	} else {
		provider, err = llmclient.NewProvider(llmclient.ProviderConfig{
			Type:         cfg.Provider,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
		})
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro status: configuring provider:", err)
		return 1
	}

	res, err := bootstrap.Run(context.Background(), bootstrap.Options{
		ProjectRoot:  root,
		RequireModel: cfg.Model,
		Store:        st,
		Provider:     provider,
	}, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro status:", err)
		return 10
	}

	if globals.JSON {
		if err := output.JSON(res); err != nil {
			fmt.Fprintln(os.Stderr, "ipuaro status:", err)
			return 10
		}
	} else {
		printStatusHuman(res)
	}

	if !res.Success {
		return 3
	}
	return 0
}

func printStatusHuman(res *bootstrap.Result) {
	ui.Header("Onboarding checks")
	for _, c := range res.Checks {
		if c.OK {
			ui.Successf("%s", c.Name)
		} else {
			ui.Errorf("%s: %s", c.Name, c.Error)
		}
	}
	for _, w := range res.Warnings {
		ui.Warning(w)
	}
	fmt.Printf("files indexed: %d\n", res.FileCount)
}
