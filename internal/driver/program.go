package driver

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/parser"
	"propguard/internal/pipeline"
	"propguard/internal/source"
	"propguard/internal/symbols"
	"propguard/internal/trace"
)

// maxSyntaxErrors caps SYN diagnostics per file.
const maxSyntaxErrors = 32

// program is every file reachable from the targets, lowered into one
// builder.
type program struct {
	fs *source.FileSet
	b  *ast.Builder

	files map[string]ast.FileID            // absolute path -> lowered file
	deps  map[ast.FileID]map[string]string // specifier -> absolute path

	parseTime time.Duration // summed over workers
}

// loader builds a program wave by wave: every wave reads the pending files,
// parses them in parallel, lowers them sequentially and queues the files
// their imports resolve to.
type loader struct {
	opts     *Options
	resolver *moduleResolver
	targets  map[string]*FileResult
	prog     *program
	span     uint64 // parent trace span
}

func newLoader(opts *Options, targets map[string]*FileResult, fs *source.FileSet) *loader {
	cfg := opts.config()
	return &loader{
		opts:     opts,
		resolver: newModuleResolver(cfg.Resolve.NodeModules, opts.logger()),
		targets:  targets,
		prog: &program{
			fs:    fs,
			b:     ast.NewBuilder(ast.Hints{}, nil),
			files: make(map[string]ast.FileID),
			deps:  make(map[ast.FileID]map[string]string),
		},
	}
}

type pendingFile struct {
	path string
	src  source.FileID
	tree *parser.Tree
}

func (l *loader) load(ctx context.Context, roots []string) (*program, error) {
	tracer := trace.FromContext(ctx)
	seen := make(map[string]struct{}, len(roots))
	for _, p := range roots {
		seen[p] = struct{}{}
	}
	pending := roots
	for wave := 0; len(pending) > 0; wave++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		span := trace.Begin(tracer, trace.ScopePass, fmt.Sprintf("wave:%d", wave), l.span)
		files := l.read(pending)
		if err := l.parse(ctx, files); err != nil {
			span.End("error")
			return nil, err
		}
		var next []string
		for _, f := range files {
			for _, dep := range l.lower(f) {
				if _, ok := seen[dep]; ok {
					continue
				}
				seen[dep] = struct{}{}
				next = append(next, dep)
			}
		}
		sort.Strings(next)
		span.WithExtra("files", fmt.Sprint(len(files))).End("")
		pending = next
	}
	return l.prog, nil
}

// read loads files into the file set. Unreadable targets get an empty
// virtual file carrying an IO diagnostic; unreadable dependencies are
// logged and skipped.
func (l *loader) read(paths []string) []*pendingFile {
	out := make([]*pendingFile, 0, len(paths))
	for _, p := range paths {
		res := l.targets[p]
		if res != nil {
			pipeline.Emit(l.opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		}
		id, err := l.prog.fs.Load(p)
		if err != nil {
			if res == nil {
				l.opts.logger().Warn("cannot read dependency", "path", p, "err", err)
				continue
			}
			id = l.prog.fs.AddVirtual(p, nil)
			res.FileID = id
			res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, fmt.Sprintf("cannot read file: %v", err)))
			res.failed = true
			pipeline.Emit(l.opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			continue
		}
		if res != nil {
			res.FileID = id
		}
		out = append(out, &pendingFile{path: p, src: id})
	}
	return out
}

// parse runs tree-sitter over files with at most Jobs parsers at a time.
func (l *loader) parse(ctx context.Context, files []*pendingFile) error {
	jobs := l.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	durations := make([]time.Duration, len(files))
	for i, f := range files {
		g.Go(func() error {
			res := l.targets[f.path]
			if res != nil {
				pipeline.Emit(l.opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
			}
			start := time.Now()
			tree, err := parser.Parse(gctx, l.prog.fs.Get(f.src))
			durations[i] = time.Since(start)
			if err != nil {
				return err
			}
			f.tree = tree
			return nil
		})
	}
	err := g.Wait()
	for _, d := range durations {
		l.prog.parseTime += d
	}
	if err != nil {
		for _, f := range files {
			f.tree.Close()
		}
	}
	return err
}

// lower converts f into the shared builder and returns the absolute paths
// of the files its imports and re-exports resolve to.
func (l *loader) lower(f *pendingFile) []string {
	defer f.tree.Close()
	res := l.targets[f.path]
	var rep diag.Reporter = diag.NopReporter{}
	if res != nil {
		rep = diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	}
	out := parser.Lower(l.prog.b, f.tree, parser.Options{MaxErrors: maxSyntaxErrors, Reporter: rep})
	if res != nil {
		status := pipeline.StatusDone
		if res.Bag.HasErrors() {
			status = pipeline.StatusError
		}
		pipeline.Emit(l.opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageParse, Status: status})
	} else if f.tree.HasErrors() {
		l.opts.logger().Debug("syntax errors in dependency", "path", f.path)
	}

	id := out.File
	l.prog.files[f.path] = id

	specs := moduleSpecifiers(l.prog.b, id)
	resolved := make(map[string]string, len(specs))
	var deps []string
	for _, spec := range specs {
		target, ok := l.resolver.Resolve(f.path, spec)
		if !ok {
			if res != nil {
				l.opts.logger().Debug("unresolved module", "from", res.Path, "module", spec)
			}
			continue
		}
		resolved[spec] = target
		deps = append(deps, target)
	}
	l.prog.deps[id] = resolved
	return deps
}

// moduleSpecifiers lists the distinct `from` specifiers of a file's imports
// and re-exports in source order.
func moduleSpecifiers(b *ast.Builder, id ast.FileID) []string {
	file := b.File(id)
	if file == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(spec string) {
		if spec == "" {
			return
		}
		if _, dup := seen[spec]; dup {
			return
		}
		seen[spec] = struct{}{}
		out = append(out, spec)
	}
	for _, sid := range file.Imports {
		if st := b.Stmt(sid); st != nil && st.Import != nil {
			add(st.Import.Source)
		}
	}
	for _, sid := range file.Exports {
		if st := b.Stmt(sid); st != nil && st.Export != nil {
			add(st.Export.Source)
		}
	}
	return out
}

// bind declares the symbols of the whole program. Binder diagnostics are
// kept only for target files.
func (p *program) bind(targets map[string]*FileResult, reportUnresolved bool) *symbols.Table {
	bags := make(map[source.FileID]*diag.Bag, len(targets))
	for _, res := range targets {
		if !res.failed {
			bags[res.FileID] = res.Bag
		}
	}
	resolver := symbols.ModuleResolverFunc(func(from ast.FileID, spec string) (ast.FileID, bool) {
		target, ok := p.deps[from][spec]
		if !ok {
			return ast.NoFileID, false
		}
		id, ok := p.files[target]
		return id, ok
	})
	return symbols.Bind(p.b, symbols.BindOptions{
		Resolver:         resolver,
		Reporter:         routeReporter(bags),
		ReportUnresolved: reportUnresolved,
	})
}

// closure returns the source files reachable from id through imports,
// excluding id itself.
func (p *program) closure(id ast.FileID) []*source.File {
	seen := map[ast.FileID]struct{}{id: {}}
	stack := []ast.FileID{id}
	var out []*source.File
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, target := range p.deps[cur] {
			dep, ok := p.files[target]
			if !ok {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			stack = append(stack, dep)
			out = append(out, p.fs.Get(p.b.File(dep).Source))
		}
	}
	return out
}

// routeReporter sends each diagnostic to the bag of the file it points
// into and drops the rest.
type routeReporter map[source.FileID]*diag.Bag

func (r routeReporter) Report(d diag.Diagnostic) {
	if bag, ok := r[d.Primary.File]; ok {
		bag.Add(d)
	}
}
