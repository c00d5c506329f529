// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package main implements the ipuaro CLI: onboarding, indexing, and the
// interactive coding-agent session described in the External Interface.
//
// Usage:
//
//	ipuaro init                Write .ipuaro.json configuration
//	ipuaro index               Index the current project
//	ipuaro status              Run onboarding checks and show project status
//	ipuaro start [--session ID] [--new]
//	                           Start (or resume) an interactive agent session
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kraklabs/ipuaro/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags carries the options every subcommand shares.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
	Verbose int
	Config  string
}

func main() {
	flags := pflag.NewFlagSet("ipuaro", pflag.ExitOnError)

	var globals GlobalFlags
	showVersion := flags.Bool("version", false, "show version and exit")
	flags.BoolVar(&globals.JSON, "json", false, "emit machine-readable JSON output")
	flags.BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress progress output")
	flags.BoolVar(&globals.NoColor, "no-color", false, "disable colored output")
	flags.CountVarP(&globals.Verbose, "verbose", "v", "increase log verbosity")
	flags.StringVar(&globals.Config, "config", "", "path to .ipuaro.json (default: ./.ipuaro.json)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, `ipuaro - local-LLM coding agent

Usage:
  ipuaro <command> [options]

Commands:
  init      Write .ipuaro.json configuration
  index     Index the current project into the Index Store
  status    Run onboarding checks and show project status
  start     Start (or resume) an interactive agent session

Global Options:
`)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	ui.InitColors(globals.NoColor)

	if *showVersion {
		fmt.Printf("ipuaro version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]

	var exitCode int
	switch command {
	case "init":
		exitCode = runInit(cmdArgs, globals)
	case "index":
		exitCode = runIndex(cmdArgs, globals)
	case "status":
		exitCode = runStatus(cmdArgs, globals)
	case "start":
		exitCode = runStart(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flags.Usage()
		exitCode = 1
	}

	os.Exit(exitCode)
}
