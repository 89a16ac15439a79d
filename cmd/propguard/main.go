package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"propguard/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "propguard",
	Short: "Find uses of deprecated JSX props",
	Long: `propguard type-checks TSX/JSX files just enough to find the props type of every
component and reports attributes and spread objects that pass @deprecated props`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

// init registers subcommands and persistent flags.
func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("verbose", false, "log driver warnings and debug messages to stderr")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")

	pf.String("trace", "", "write a trace to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command. Errors are printed once; exit status 1
// marks either an error or error diagnostics.
func main() {
	err := rootCmd.ExecuteContext(context.Background())
	finishRun()
	if err != nil {
		var exit exitError
		if !errors.As(err, &exit) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		}
		os.Exit(1)
	}
}

// exitError signals a non-zero exit without an error message (error
// diagnostics were already printed).
type exitError struct{}

func (exitError) Error() string { return "exit status 1" }

// cleanups run once after the command, also when it failed.
var cleanups []func()

func setupRun(cmd *cobra.Command, args []string) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readToggle("--color", colorFlag)
	if err != nil {
		return err
	}
	color.NoColor = !useColor(mode)

	setupLogging(cmd)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)

	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)
	return nil
}

func finishRun() {
	// в обратном порядке: трейсер закрывается раньше профилировщика
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// setupLogging routes slog to stderr: warnings by default, debug with
// --verbose, errors only with --quiet.
func setupLogging(cmd *cobra.Command) {
	flags := cmd.Root().PersistentFlags()
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
