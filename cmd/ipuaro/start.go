// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kraklabs/ipuaro/internal/contract"
	"github.com/kraklabs/ipuaro/internal/ui"
	"github.com/kraklabs/ipuaro/pkg/agent"
	"github.com/kraklabs/ipuaro/pkg/llmclient"
	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/session"
	"github.com/kraklabs/ipuaro/pkg/store"
	"github.com/kraklabs/ipuaro/pkg/tools"
)

// runStart implements startSession + handleMessage: it starts or resumes
// a session against the current project and drives a read-eval-print
// loop over stdin, one user message per HandleMessage call.
func runStart(args []string, globals GlobalFlags) int {
	var sessionID string
	var forceNew bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--session":
			if i+1 < len(args) {
				i++
				sessionID = args[i]
			}
		case "--new":
			forceNew = true
		}
	}

	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro start:", err)
		return 10
	}

	cfg, err := contract.Load(globals.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro start:", err)
		return 1
	}
	project := cfg.ProjectName
	if project == "" {
		project = session.DeriveProjectName(root)
	}

	st, err := store.New(store.Config{Addr: cfg.StoreAddr})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro start: opening store:", err)
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
		fmt.Fprintln(os.Stderr, "ipuaro start: configuring provider:", err)
		return 1
	}

	ctx := context.Background()
	sess, resumed, err := session.StartSession(ctx, st, project, session.StartOptions{
		SessionID: sessionID,
		ForceNew:  forceNew,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ipuaro start:", err)
		return 10
	}
	if resumed {
		ui.Infof("resumed session %s (%d messages)", sess.ID, len(sess.History))
	} else {
		ui.Infof("started session %s", sess.ID)
	}

	loop := &agent.Loop{
		Store:    st,
		Registry: tools.DefaultRegistry(),
		Provider: provider,
		Project:  project,
		Root:     root,
	}

	opts := agent.Options{
		Model: cfg.Model,
		OnText: func(text string) {
			fmt.Print(text)
		},
		OnToolResult: func(call model.ToolCall, result model.ToolResult) {
			if result.Success {
				fmt.Println(ui.DimText(fmt.Sprintf("  [%s ok, %dms]", call.Name, result.ExecutionTimeMs)))
			} else {
				ui.Warningf("  [%s failed: %s]", call.Name, result.Error)
			}
		},
		RequestConfirmation: func(ctx context.Context, summary string) (bool, error) {
			fmt.Printf("\n%s\nApply? [y/N] ", summary)
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y"), nil
		},
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("ipuaro interactive session. Type 'exit' to quit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		if err := loop.HandleMessage(ctx, sess, text, opts); err != nil {
			ui.Errorf("%v", err)
		}
		fmt.Println()
	}

	return 0
}
