package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"propguard/internal/diag"
	"propguard/internal/diagfmt"
	"propguard/internal/driver"
	"propguard/internal/lint"
	"propguard/internal/observ"
	"propguard/internal/project"
	"propguard/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [paths...]",
	Short: "Report uses of deprecated JSX props",
	Long: `Lint TSX/JSX files or directories. Without paths the include list of
propguard.toml is linted, or the current directory when there is none.`,
	RunE: runLint,
}

// init registers CLI flags for the lint command used by runLint.
func init() {
	f := lintCmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.String("config", "", "path to propguard.toml (default: search upwards from the working directory)")
	f.Bool("check-spread-arguments", true, "report deprecated props that may be passed through spread objects")
	f.String("severity", "", "override the severity of every rule (off|info|warning|error)")
	f.Int("jobs", 0, "max parallel parsers (0=auto)")
	f.Bool("no-warnings", false, "ignore warnings in diagnostics")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("report-unresolved", false, "warn about imports that resolve to no file")
	f.Bool("disk-cache", false, "cache lint results on disk between runs")
	f.Bool("clear-cache", false, "drop the disk cache before linting")
	f.String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
}

// lintFlags are the values of the lint and root flags.
type lintFlags struct {
	format           string
	configPath       string
	spread           *bool
	severity         string
	jobs             int
	noWarnings       bool
	warningsAsErrors bool
	reportUnresolved bool
	diskCache        bool
	clearCache       bool
	pathMode         diagfmt.PathMode
	ui               toggle
	maxDiagnostics   int
	quiet            bool
	timings          bool
}

func readLintFlags(cmd *cobra.Command) (*lintFlags, error) {
	var (
		lf  lintFlags
		err error
	)
	f := cmd.Flags()
	if lf.format, err = f.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	lf.format = strings.ToLower(lf.format)
	switch lf.format {
	case "pretty", "short", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown format: %s", lf.format)
	}
	if lf.configPath, err = f.GetString("config"); err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.Changed("check-spread-arguments") {
		v, err := f.GetBool("check-spread-arguments")
		if err != nil {
			return nil, fmt.Errorf("failed to get check-spread-arguments flag: %w", err)
		}
		lf.spread = &v
	}
	if lf.severity, err = f.GetString("severity"); err != nil {
		return nil, fmt.Errorf("failed to get severity flag: %w", err)
	}
	if lf.jobs, err = f.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if lf.noWarnings, err = f.GetBool("no-warnings"); err != nil {
		return nil, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if lf.warningsAsErrors, err = f.GetBool("warnings-as-errors"); err != nil {
		return nil, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if lf.noWarnings && lf.warningsAsErrors {
		return nil, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if lf.reportUnresolved, err = f.GetBool("report-unresolved"); err != nil {
		return nil, fmt.Errorf("failed to get report-unresolved flag: %w", err)
	}
	if lf.diskCache, err = f.GetBool("disk-cache"); err != nil {
		return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if lf.clearCache, err = f.GetBool("clear-cache"); err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	pathMode, err := f.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if lf.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return nil, err
	}
	uiFlag, err := f.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if lf.ui, err = readToggle("--ui", uiFlag); err != nil {
		return nil, err
	}

	root := cmd.Root().PersistentFlags()
	if lf.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if lf.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if lf.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return &lf, nil
}

// runLint executes the "lint" command: it loads propguard.toml, lints the
// given paths, prints the diagnostics in the chosen format and fails with
// exit status 1 when any error diagnostic remains after the warning policy
// was applied.
func runLint(cmd *cobra.Command, args []string) error {
	lf, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(lf.configPath)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Config:           cfg,
		Overrides:        driver.RuleOverrides{Severity: lf.severity, CheckSpreadArguments: lf.spread},
		Jobs:             lf.jobs,
		MaxDiagnostics:   lf.maxDiagnostics,
		ReportUnresolved: lf.reportUnresolved,
	}
	if lf.timings {
		opts.Timer = observ.NewTimer()
	}
	if lf.diskCache || lf.clearCache {
		cache, err := driver.OpenDiskCache("propguard")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if lf.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear disk cache: %w", err)
			}
		}
		if lf.diskCache {
			opts.Cache = cache
		}
	}

	var res *driver.Result
	if shouldUseTUI(lf.ui, lf.format) && !lf.quiet {
		targets, err := driver.CollectTargets(args, cfg)
		if err != nil {
			return err
		}
		wd, _ := os.Getwd()
		files := make([]string, len(targets))
		for i, t := range targets {
			files[i] = driver.DisplayPath(t, wd)
		}
		res, err = runLintWithUI(cmd.Context(), "propguard lint", files, args, opts)
		if err != nil {
			return err
		}
	} else {
		res, err = driver.LintPaths(cmd.Context(), args, opts)
		if err != nil {
			return err
		}
	}

	bag := applyWarningPolicy(res.Diagnostics(), lf.noWarnings, lf.warningsAsErrors)
	out := cmd.OutOrStdout()
	if err := render(out, bag, res, lf, os.Args[1:]); err != nil {
		return err
	}
	if lf.format == "pretty" && !lf.quiet {
		printSummary(cmd.ErrOrStderr(), bag, len(res.Files), cachedFiles(res))
	}
	if lf.timings {
		printTimings(cmd.ErrOrStderr(), res.Timings, opts.Timer)
	}
	if bag.HasErrors() {
		return exitError{}
	}
	return nil
}

func render(out io.Writer, bag *diag.Bag, res *driver.Result, lf *lintFlags, args []string) error {
	switch lf.format {
	case "pretty":
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   0,
			PathMode:  lf.pathMode,
			ShowNotes: true,
		})
		return nil
	case "short":
		return diagfmt.Short(out, bag, res.FileSet, lf.pathMode)
	case "json":
		return diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         lf.pathMode,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "propguard",
			ToolVersion:    version.Current().Version,
			InvocationArgs: args,
			Rules:          sarifRules(res.Rules),
		})
	}
	return fmt.Errorf("unknown format: %s", lf.format)
}

// applyWarningPolicy drops warnings (--no-warnings) or promotes them to
// errors (--warnings-as-errors). Info diagnostics are kept as they are.
func applyWarningPolicy(in *diag.Bag, noWarnings, warningsAsErrors bool) *diag.Bag {
	if !noWarnings && !warningsAsErrors {
		return in
	}
	out := diag.NewBag(0)
	out.Merge(in)
	if noWarnings {
		out.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if warningsAsErrors {
		out.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
	return out
}

func sarifRules(enabled []lint.Enabled) []diagfmt.SarifRule {
	out := make([]diagfmt.SarifRule, 0, len(enabled))
	for _, e := range enabled {
		meta := e.Rule.Meta()
		rule := diagfmt.SarifRule{Name: meta.Name, Description: meta.Description, HelpURI: meta.URL}
		seen := make(map[string]struct{})
		for _, msg := range meta.Messages {
			id := msg.Code.ID()
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				rule.Codes = append(rule.Codes, id)
			}
		}
		sort.Strings(rule.Codes)
		out = append(out, rule)
	}
	return out
}

func cachedFiles(res *driver.Result) int {
	n := 0
	for _, f := range res.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

func printSummary(w io.Writer, bag *diag.Bag, files, cached int) {
	errs := bag.Count(diag.SevError)
	warns := bag.Count(diag.SevWarning) - errs
	infos := bag.Len() - errs - warns
	suffix := ""
	if cached > 0 {
		suffix = fmt.Sprintf(", %d cached", cached)
	}
	if bag.Len() == 0 {
		fmt.Fprintf(w, "no problems in %d %s%s\n", files, plural(files, "file"), suffix)
		return
	}
	fmt.Fprintf(w, "\n%d %s (%d %s, %d %s, %d info) in %d %s%s\n",
		bag.Len(), plural(bag.Len(), "problem"),
		errs, plural(errs, "error"),
		warns, plural(warns, "warning"),
		infos,
		files, plural(files, "file"), suffix)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// loadConfig reads the explicit config file or the nearest propguard.toml
// above the working directory; without one the defaults are used.
func loadConfig(explicit string) (*project.Config, error) {
	if explicit != "" {
		return project.Load(explicit)
	}
	path, ok, err := project.FindConfig(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return project.Default(), nil
	}
	return project.Load(path)
}
