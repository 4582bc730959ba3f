package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"enumflags/internal/driver"
	"enumflags/internal/ui"
)

type generateOutcome struct {
	result *driver.Result
	err    error
}

func runGenerateWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.GenerateDir(ctx, dir, opts)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал, но генерацию нужно дождаться: дренируем события
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
