package driver

import (
	"errors"
	"fmt"
	"log/slog"

	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/observ"
	"propguard/internal/pipeline"
	"propguard/internal/project"
)

// ErrNoInputs is returned when the given paths expand to no lintable files.
var ErrNoInputs = errors.New("no input files")

// ConfigError is a rule configuration problem found before any file is read.
type ConfigError struct {
	Code diag.Code
	Rule string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%s: %v", e.Code.ID(), e.Err)
	}
	return fmt.Sprintf("%s: rules.%s: %v", e.Code.ID(), e.Rule, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RuleOverrides are command-line settings applied on top of propguard.toml.
type RuleOverrides struct {
	// Severity replaces the severity of every enabled rule when set.
	Severity string
	// CheckSpreadArguments is forwarded to rules declaring that option.
	CheckSpreadArguments *bool
}

// Options configure LintPaths. The zero value lints with the built-in rules
// and default configuration.
type Options struct {
	Config    *project.Config // nil: project.Default()
	Registry  *lint.Registry  // nil: rules.Registry()
	Overrides RuleOverrides

	Jobs           int // parallel parsers, 0: GOMAXPROCS
	MaxDiagnostics int // per file, 0: unlimited
	// ReportUnresolved adds a warning for every import of a target file that
	// resolves to nothing.
	ReportUnresolved bool

	Cache    *DiskCache
	Progress pipeline.ProgressSink
	Timer    *observ.Timer
	Logger   *slog.Logger
	// BaseDir anchors display paths; empty means the working directory.
	BaseDir string
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Options) config() *project.Config {
	if o.Config != nil {
		return o.Config
	}
	return project.Default()
}
