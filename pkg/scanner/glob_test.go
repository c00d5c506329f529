// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import "testing"

func TestMatchesIgnore(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"top-level dir", "node_modules/foo.ts", []string{"node_modules"}, true},
		{"nested dir", "apps/web/node_modules/foo.ts", []string{"node_modules"}, true},
		{"not matched", "src/node_modules_backup/foo.ts", []string{"node_modules"}, false},
		{"dir star star", "dist/bundle.js", []string{"dist/**"}, true},
		{"extension glob", "src/a.test.ts", []string{"*.test.ts"}, true},
		{"no match", "src/a.ts", []string{"node_modules", "dist", ".git", "coverage", "build"}, false},
		{"dotgit", ".git/HEAD", []string{".git"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesIgnore(tt.path, tt.patterns)
			if got != tt.want {
				t.Errorf("matchesIgnore(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}
