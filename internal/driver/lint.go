// Package driver runs the lint pipeline: it expands input paths, loads the
// import closure of the targets, parses in parallel, binds and type checks
// the program once and runs the enabled rules over every target file.
package driver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"propguard/internal/checker"
	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/pipeline"
	"propguard/internal/project"
	"propguard/internal/rules"
	"propguard/internal/source"
	"propguard/internal/trace"
)

// FileResult is the outcome for one target file.
type FileResult struct {
	// Path is relative to the base directory when the file lies below it.
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Cached is set when the lint diagnostics came from the disk cache.
	Cached bool

	abs    string
	failed bool // unreadable, never parsed
}

// Result is the outcome of LintPaths.
type Result struct {
	FileSet *source.FileSet
	Files   []*FileResult
	Rules   []lint.Enabled
	Timings pipeline.Timings
}

// Diagnostics merges the per-file bags in file order.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	out.Sort()
	return out
}

// Count returns the number of diagnostics of severity sev.
func (r *Result) Count(sev diag.Severity) int {
	n := 0
	for _, f := range r.Files {
		n += f.Bag.Count(sev)
	}
	return n
}

// HasErrors reports whether any file has an error diagnostic.
func (r *Result) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// LintPaths lints the files paths expand to. Configuration problems are
// returned as *ConfigError; unreadable or unparsable files are reported as
// diagnostics of that file.
func LintPaths(ctx context.Context, paths []string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "lint", 0)
	defer root.End("")

	cfg := opts.config()
	reg := opts.Registry
	if reg == nil {
		reg = rules.Registry()
	}
	enabled, err := EnabledRules(reg, cfg, opts.Overrides)
	if err != nil {
		return nil, err
	}

	timer := opts.Timer
	idx := timer.Begin("collect")
	targets, err := CollectTargets(paths, cfg)
	timer.End(idx, fmt.Sprintf("%d files", len(targets)))
	if err != nil {
		return nil, err
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			baseDir = wd
		}
	}
	res := &Result{
		FileSet: source.NewFileSetWithBase(baseDir),
		Files:   make([]*FileResult, 0, len(targets)),
		Rules:   enabled,
	}
	byPath := make(map[string]*FileResult, len(targets))
	names := make([]string, 0, len(targets))
	for _, p := range targets {
		fr := &FileResult{Path: DisplayPath(p, baseDir), Bag: diag.NewBag(opts.MaxDiagnostics), abs: p}
		res.Files = append(res.Files, fr)
		byPath[p] = fr
		names = append(names, fr.Path)
	}
	pipeline.EmitFiles(opts.Progress, names, pipeline.StageLoad, pipeline.StatusQueued)

	// load + parse
	start := time.Now()
	idx = timer.Begin("load+parse")
	span := trace.Begin(tracer, trace.ScopePass, "parse", root.ID())
	l := newLoader(&opts, byPath, res.FileSet)
	l.span = span.ID()
	prog, err := l.load(ctx, targets)
	span.WithExtra("files", fmt.Sprint(res.FileSet.Len())).End("")
	timer.End(idx, fmt.Sprintf("%d files incl. imports", res.FileSet.Len()))
	if err != nil {
		return nil, err
	}
	timer.Add("parse (cpu)", prog.parseTime, "summed over workers")
	res.Timings.Set(pipeline.StageParse, time.Since(start))

	// bind
	start = time.Now()
	idx = timer.Begin("bind")
	span = trace.Begin(tracer, trace.ScopePass, "bind", root.ID())
	pipeline.EmitFiles(opts.Progress, names, pipeline.StageBind, pipeline.StatusWorking)
	table := prog.bind(byPath, opts.ReportUnresolved)
	chk := checker.New(prog.b, table, nil)
	span.End("")
	timer.End(idx, "")
	res.Timings.Set(pipeline.StageBind, time.Since(start))

	// lint
	start = time.Now()
	idx = timer.Begin("lint")
	span = trace.Begin(tracer, trace.ScopePass, "lint", root.ID())
	defer func() {
		span.End("")
		timer.End(idx, fmt.Sprintf("%d rules", len(enabled)))
		res.Timings.Set(pipeline.StageLint, time.Since(start))
	}()
	runner := lint.NewRunner(prog.b, chk, enabled)
	fingerprint := rulesFingerprint(enabled)
	for _, fr := range res.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if fr.failed {
			continue
		}
		lintFile(ctx, &opts, prog, runner, fingerprint, fr, span.ID())
	}
	return res, nil
}

func lintFile(ctx context.Context, opts *Options, prog *program, runner *lint.Runner, fingerprint project.Digest, fr *FileResult, parent uint64) {
	tracer := trace.FromContext(ctx)
	file := prog.fs.Get(fr.FileID)
	astID := prog.files[fr.abs]
	key := lintKey(file, prog.closure(astID), fingerprint)
	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageLint, Status: pipeline.StatusWorking})

	var payload LintPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		opts.logger().Warn("disk cache read failed", "file", fr.Path, "err", err)
	}
	if hit {
		payload.restore(fr.FileID, diag.BagReporter{Bag: fr.Bag})
		fr.Bag.Sort()
		fr.Cached = true
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageLint, Status: pipeline.StatusCached, Problems: fr.Bag.Len()})
		return
	}

	start := time.Now()
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+fr.Path, parent)
	found := diag.NewBag(opts.MaxDiagnostics)
	n := runner.LintFile(astID, diag.BagReporter{Bag: found})
	span.WithExtra("reported", fmt.Sprint(n)).End("")
	found.Sort()

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(file.Path, file.Hash, found.Items())); err != nil {
			opts.logger().Warn("disk cache write failed", "file", fr.Path, "err", err)
		}
	}
	fr.Bag.Merge(found)
	fr.Bag.Sort()

	status := pipeline.StatusDone
	if fr.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageLint, Status: status, Elapsed: time.Since(start), Problems: fr.Bag.Len()})
}

// DisplayPath is p relative to baseDir unless it lies outside of it.
func DisplayPath(p, baseDir string) string {
	if baseDir == "" {
		return p
	}
	rel, err := source.RelativePath(p, baseDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return p
	}
	return rel
}
