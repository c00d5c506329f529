// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package meta

import (
	"math"
	"regexp"
	"strings"

	"github.com/kraklabs/ipuaro/pkg/model"
)

// Weight constants for the complexity score formula.
const (
	LOCWeight        = 0.4
	NestingWeight    = 0.3
	CyclomaticWeight = 0.3
)

// HubThreshold is the default dependents count above which a file is
// considered a hub (spec default: 5).
const HubThreshold = 5

// decisionKeywordPattern matches the branch/loop keywords counted toward
// cyclomatic complexity; word-bounded so it never matches inside an
// identifier like "modified". Operators need no boundary.
var decisionKeywordPattern = regexp.MustCompile(`\b(if|for|while|case|catch)\b`)
var decisionOperators = []string{"&&", "||", "??", "?"}

// computeComplexity derives LOC, nesting depth, and a cyclomatic-complexity
// approximation directly from source text, since tree-sitter's node tree is
// not retained past parse time (model.FileAST is the only parse artifact
// that survives). Strings, template literals, and comments are stripped
// first so keywords and braces inside them are never counted.
func computeComplexity(content []byte) model.Complexity {
	stripped := stripStringsAndComments(content)

	loc := countNonBlankLines(content)
	nesting := maxBraceDepth(stripped)
	cyclomatic := countDecisionPoints(stripped)

	score := clamp(0, 100, int(math.Round(
		LOCWeight*math.Min(100, float64(loc)/5)+
			NestingWeight*math.Min(100, float64(nesting)*20)+
			CyclomaticWeight*math.Min(100, float64(cyclomatic)*10),
	)))

	return model.Complexity{
		LOC:                  loc,
		Nesting:              nesting,
		CyclomaticComplexity: cyclomatic,
		Score:                score,
	}
}

func clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func countNonBlankLines(content []byte) int {
	count := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func maxBraceDepth(s string) int {
	depth, max := 0, 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
			if depth > max {
				max = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return max
}

func countDecisionPoints(s string) int {
	count := 1 // base complexity
	count += len(decisionKeywordPattern.FindAllString(s, -1))
	for _, op := range decisionOperators {
		count += strings.Count(s, op)
	}
	return count
}

// stripStringsAndComments returns content with string/template literals and
// comments blanked out (replaced with spaces, preserving newlines), so
// downstream text scans never mistake quoted code or comment prose for
// real syntax.
func stripStringsAndComments(content []byte) string {
	var b strings.Builder
	b.Grow(len(content))

	i := 0
	n := len(content)
	for i < n {
		c := content[i]
		switch {
		case c == '/' && i+1 < n && content[i+1] == '/':
			for i < n && content[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && content[i+1] == '*':
			i += 2
			for i+1 < n && !(content[i] == '*' && content[i+1] == '/') {
				if content[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i += 2
		case c == '"' || c == '\'' || c == '`':
			quote := c
			i++
			for i < n && content[i] != quote {
				if content[i] == '\\' && i+1 < n {
					i++
				}
				if content[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
