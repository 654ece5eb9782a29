// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch analyzes many documents concurrently. A failing document is
// counted and reported; it does not stop the run.
// Implements: batch analysis (bounded pool, summary counts).
package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/doc-dimensions/internal/logging"
	"github.com/pdiddy/doc-dimensions/internal/switchboard"
)

// Analyzer analyzes a document by path. *switchboard.Switchboard satisfies it.
type Analyzer interface {
	AnalyzeFile(path string, opts switchboard.AnalyzeOptions) (switchboard.Analysis, error)
}

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrency. Zero means GOMAXPROCS.
	Workers int

	Analyze switchboard.AnalyzeOptions

	Logger logging.Logger

	// Out receives one progress line per document and a closing summary.
	// Nil discards progress.
	Out io.Writer
}

// Report is the outcome for one document.
type Report struct {
	Path     string                `json:"path"`
	Analysis *switchboard.Analysis `json:"analysis,omitempty"`
	Err      error                 `json:"-"`
	Error    string                `json:"error,omitempty"`
}

// Summary counts the outcomes of a run. Reports are sorted by path.
type Summary struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Reports   []Report `json:"reports"`
}

// Run analyzes every path. It returns ctx.Err() when the run was cancelled;
// documents not started by then are reported as failed.
func Run(ctx context.Context, a Analyzer, paths []string, opts Options) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NoOp()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	log.Info("batch.start", "documents", len(paths), "workers", workers)

	p := pool.NewWithResults[Report]().WithMaxGoroutines(workers)
	for _, path := range paths {
		p.Go(func() Report {
			return analyze(ctx, a, path, opts.Analyze, log)
		})
	}
	reports := p.Wait()
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	summary := Summary{Reports: reports}
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(out, "failed   %s: %v\n", r.Path, r.Err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(out, "analyzed %s (health %.2f, %d warnings)\n",
			r.Path, r.Analysis.Dimensions.State.Health, len(r.Analysis.Warnings))
		summary.Succeeded++
	}
	fmt.Fprintf(out, "\nanalyzed: %d, failed: %d\n", summary.Succeeded, summary.Failed)

	log.Info("batch.done", "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, ctx.Err()
}

func analyze(ctx context.Context, a Analyzer, path string, opts switchboard.AnalyzeOptions, log logging.Logger) Report {
	if err := ctx.Err(); err != nil {
		return Report{Path: path, Err: err, Error: err.Error()}
	}
	res, err := a.AnalyzeFile(path, opts)
	if err != nil {
		log.Warn("batch.document_failed", "path", path, "error", err)
		return Report{Path: path, Err: err, Error: err.Error()}
	}
	log.Debug("batch.document_analyzed", "path", path, "health", res.Dimensions.State.Health)
	return Report{Path: path, Analysis: &res}
}
