// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/kraklabs/ipuaro/internal/errors"
)

func TestResolvePath_WithinRoot(t *testing.T) {
	root := t.TempDir()
	resolved, err := ResolvePath(root, "src/a.ts")
	require.NoError(t, err)
	assert.Contains(t, resolved, "src")
}

func TestResolvePath_TraversalEscapes(t *testing.T) {
	root := t.TempDir()
	_, err := ResolvePath(root, "../../etc/passwd")
	require.Error(t, err)
	assert.True(t, coreerrors.Is(err, coreerrors.KindPathEscape))
}

func TestResolvePath_AbsolutePathRejected(t *testing.T) {
	root := t.TempDir()
	_, err := ResolvePath(root, "/etc/passwd")
	require.Error(t, err)
	assert.True(t, coreerrors.Is(err, coreerrors.KindPathEscape))
}

func TestResolvePath_RootItselfContained(t *testing.T) {
	root := t.TempDir()
	resolved, err := ResolvePath(root, ".")
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
}
