// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestScan_SortedDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/b.ts":              "export {}",
		"src/a.ts":              "export {}",
		"node_modules/dep/i.ts": "ignored",
		"README.md":             "unsupported extension",
	})

	entries, err := Scan(root, Options{}, nil)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, paths)
}

func TestScan_ProgressCallback(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.ts": "1",
		"b.ts": "2",
		"c.ts": "3",
	})

	var lastReported int
	entries, err := Scan(root, Options{BatchSize: 2}, func(scanned int) {
		lastReported = scanned
	})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 3, lastReported)
}

func TestScan_SkipsSymlinkEscapingRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.ts"), []byte("x"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.ts"), filepath.Join(root, "link.ts")))
	writeTree(t, root, map[string]string{"a.ts": "1"})

	entries, err := Scan(root, Options{}, nil)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"a.ts"}, paths)
}
