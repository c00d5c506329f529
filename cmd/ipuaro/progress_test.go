// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgressConfig_DisabledWhenQuiet(t *testing.T) {
	cfg := NewProgressConfig(GlobalFlags{Quiet: true})
	assert.False(t, cfg.Enabled)
}

func TestNewProgressBar_NilWhenDisabled(t *testing.T) {
	cfg := NewProgressConfig(GlobalFlags{Quiet: true})
	assert.Nil(t, NewProgressBar(cfg, 10, "indexing"))
}

func TestNewSpinner_NilWhenDisabled(t *testing.T) {
	cfg := NewProgressConfig(GlobalFlags{Quiet: true})
	assert.Nil(t, NewSpinner(cfg, "scanning"))
}
