// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kraklabs/ipuaro/pkg/astparse"
	"github.com/kraklabs/ipuaro/pkg/meta"
	"github.com/kraklabs/ipuaro/pkg/model"
	"github.com/kraklabs/ipuaro/pkg/scanner"
	"github.com/kraklabs/ipuaro/pkg/store"
)

// Phase names reported to a ProgressFunc.
const (
	PhaseScan    = "scan"
	PhaseParse   = "parse"
	PhaseAnalyze = "analyze"
	PhaseBuild   = "build"
)

// ProgressFunc reports indexing progress; currentFile is empty for phases
// (build) that don't operate file-by-file.
type ProgressFunc func(phase string, current, total int, currentFile string)

// Result summarizes one completed indexing run.
type Result struct {
	FilesScanned int           `json:"filesScanned"`
	FilesParsed  int           `json:"filesParsed"`
	ParseErrors  int           `json:"parseErrors"`
	Duration     time.Duration `json:"durationMs"`
}

// MarshalJSON reports Duration in milliseconds rather than Go's default
// nanosecond integer, matching the rest of the CLI's --json output.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias struct {
		FilesScanned int   `json:"filesScanned"`
		FilesParsed  int   `json:"filesParsed"`
		ParseErrors  int   `json:"parseErrors"`
		DurationMs   int64 `json:"durationMs"`
	}
	return json.Marshal(alias{
		FilesScanned: r.FilesScanned,
		FilesParsed:  r.FilesParsed,
		ParseErrors:  r.ParseErrors,
		DurationMs:   r.Duration.Milliseconds(),
	})
}

// Indexer runs the four-phase scan → parse → analyze → build pipeline for
// one project rooted at ProjectRoot, persisting every artifact through
// Store.
type Indexer struct {
	Store       store.Store
	Project     string
	ProjectRoot string
	ParseWorkers int
}

// NewIndexer constructs an Indexer with a sensible default worker count.
func NewIndexer(st store.Store, project, root string) *Indexer {
	return &Indexer{Store: st, Project: project, ProjectRoot: root, ParseWorkers: defaultParseWorkers()}
}

func defaultParseWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

type parsedFile struct {
	path string
	rec  model.FileRecord
	ast  model.FileAST
	err  error
}

// Run executes one full indexing pass. Per-file parse errors are counted
// but never abort the run, mirroring the teacher's parseFilesParallel
// atomic-error-count-and-continue policy.
func (ix *Indexer) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	idxMetrics.init()
	start := time.Now()
	if progress == nil {
		progress = func(string, int, int, string) {}
	}

	scanStart := time.Now()
	entries, err := scanner.Scan(ix.ProjectRoot, scanner.Options{}, func(scanned int) {
		progress(PhaseScan, scanned, scanned, "")
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	idxMetrics.scanDuration.Observe(time.Since(scanStart).Seconds())
	idxMetrics.filesScanned.Add(float64(len(entries)))

	parseStart := time.Now()
	parsed, parseErrors := ix.parseFiles(ctx, entries, progress)
	// A file with syntax errors is still stored (with a ParseError AST) and
	// counted in FilesParsed, but it also counts as a parse error.
	for _, pf := range parsed {
		if pf.ast.ParseError {
			parseErrors++
		}
	}
	idxMetrics.parseDuration.Observe(time.Since(parseStart).Seconds())
	idxMetrics.filesParsed.Add(float64(len(parsed)))
	idxMetrics.parseErrors.Add(float64(parseErrors))

	analyzeStart := time.Now()
	knownPaths := make(map[string]bool, len(parsed))
	for _, pf := range parsed {
		knownPaths[pf.path] = true
	}

	allASTs := make(map[string]model.FileAST, len(parsed))
	metas := make(map[string]model.FileMeta, len(parsed))
	total := len(parsed)
	for i, pf := range parsed {
		progress(PhaseAnalyze, i+1, total, pf.path)
		allASTs[pf.path] = pf.ast
		metas[pf.path] = meta.Analyze(pf.path, pf.ast, []byte(strings.Join(pf.rec.Lines, "\n")), knownPaths)
	}
	idxMetrics.analyzeDuration.Observe(time.Since(analyzeStart).Seconds())

	buildStart := time.Now()
	progress(PhaseBuild, 0, 1, "")
	symbolIndex := BuildSymbolIndex(allASTs)
	depsGraph := BuildDepsGraph(metas)
	applyDepsGraph(metas, depsGraph)

	if err := ix.persist(ctx, parsed, metas, symbolIndex, depsGraph); err != nil {
		return nil, err
	}
	progress(PhaseBuild, 1, 1, "")
	idxMetrics.buildDuration.Observe(time.Since(buildStart).Seconds())

	if err := ix.Store.SetProjectConfig(ctx, ix.Project, "last_indexed", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("persist last_indexed: %w", err)
	}

	idxMetrics.totalDuration.Observe(time.Since(start).Seconds())
	idxMetrics.runsCompleted.Inc()

	return &Result{
		FilesScanned: len(entries),
		FilesParsed:  len(parsed),
		ParseErrors:  parseErrors,
		Duration:     time.Since(start),
	}, nil
}

func (ix *Indexer) persist(ctx context.Context, parsed []parsedFile, metas map[string]model.FileMeta, symbolIndex model.SymbolIndex, depsGraph *model.DepsGraph) error {
	for _, pf := range parsed {
		if err := ix.Store.SetFile(ctx, ix.Project, pf.rec); err != nil {
			return fmt.Errorf("persist file %s: %w", pf.path, err)
		}
		if err := ix.Store.SetAST(ctx, ix.Project, pf.path, pf.ast); err != nil {
			return fmt.Errorf("persist ast %s: %w", pf.path, err)
		}
		if err := ix.Store.SetMeta(ctx, ix.Project, pf.path, metas[pf.path]); err != nil {
			return fmt.Errorf("persist meta %s: %w", pf.path, err)
		}
	}
	if err := ix.Store.SetSymbolIndex(ctx, ix.Project, symbolIndex); err != nil {
		return fmt.Errorf("persist symbol index: %w", err)
	}
	if err := ix.Store.SetDepsGraph(ctx, ix.Project, *depsGraph); err != nil {
		return fmt.Errorf("persist deps graph: %w", err)
	}
	return nil
}

// parseFiles reads and parses every scanned entry, in parallel above a
// small-file-count threshold, sequentially below it — the same split the
// teacher's parseFilesParallel/parseFilesSequential pair uses.
func (ix *Indexer) parseFiles(ctx context.Context, entries []scanner.Entry, progress ProgressFunc) ([]parsedFile, int) {
	if len(entries) < 10 || ix.ParseWorkers <= 1 {
		return ix.parseFilesSequential(ctx, entries, progress)
	}
	return ix.parseFilesParallel(ctx, entries, progress)
}

func (ix *Indexer) parseFilesSequential(ctx context.Context, entries []scanner.Entry, progress ProgressFunc) ([]parsedFile, int) {
	var out []parsedFile
	errorCount := 0
	total := len(entries)
	for i, e := range entries {
		select {
		case <-ctx.Done():
			return out, errorCount
		default:
		}
		progress(PhaseParse, i+1, total, e.Path)
		pf := ix.parseOne(e)
		if pf.err != nil {
			errorCount++
			continue
		}
		out = append(out, pf)
	}
	return out, errorCount
}

func (ix *Indexer) parseFilesParallel(ctx context.Context, entries []scanner.Entry, progress ProgressFunc) ([]parsedFile, int) {
	jobs := make(chan int, len(entries))
	results := make(chan parsedFile, len(entries))
	var errorCount int32
	var completed int32
	total := len(entries)

	var wg sync.WaitGroup
	for w := 0; w < ix.ParseWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				pf := ix.parseOne(entries[i])
				if pf.err != nil {
					atomic.AddInt32(&errorCount, 1)
				}
				n := atomic.AddInt32(&completed, 1)
				progress(PhaseParse, int(n), total, entries[i].Path)
				results <- pf
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []parsedFile
	for pf := range results {
		if pf.err != nil {
			continue
		}
		out = append(out, pf)
	}
	return out, int(errorCount)
}

func (ix *Indexer) parseOne(e scanner.Entry) parsedFile {
	full := filepath.Join(ix.ProjectRoot, filepath.FromSlash(e.Path))
	content, err := os.ReadFile(full)
	if err != nil {
		return parsedFile{path: e.Path, err: fmt.Errorf("read %s: %w", e.Path, err)}
	}

	rec := model.FileRecord{
		Path:  e.Path,
		Lines: strings.Split(string(content), "\n"),
		Hash:  hashContent(content),
		Size:  e.Size,
		Mtime: e.Mtime,
	}

	ast, supported := astparse.ParseFile(content, e.Path)
	if !supported {
		// Not a dialect astparse understands (e.g. .json/.yaml): index the
		// file record but leave the AST empty, not an error.
		return parsedFile{path: e.Path, rec: rec}
	}

	return parsedFile{path: e.Path, rec: rec, ast: ast}
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
