package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"propguard/internal/driver"
	"propguard/internal/pipeline"
	"propguard/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs the lint pass in the background and renders its
// progress events until the pass finishes.
func runLintWithUI(ctx context.Context, title string, files []string, paths []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.LintPaths(ctx, paths, optsCopy)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// модель могла выйти раньше времени, не блокируем линтер
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
