package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"recast/internal/driver"
	"recast/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs fn with a progress sink attached and renders the events
// until fn returns.
func runWithUI(ctx context.Context, title string, opts driver.Options, fn func(context.Context, driver.Options) (*driver.Result, error)) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := fn(ctx, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	if uiErr != nil || !ui.Finished(final) {
		// прервано пользователем
		cancel()
	}
	// досчитываем события, чтобы воркеры не заблокировались
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
