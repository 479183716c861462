package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"nxsdl/internal/pipeline"
	"nxsdl/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// useProgressUI decides whether the live view replaces plain status lines.
// auto needs an interactive stdout and something to show.
func useProgressUI(mode uiMode, quiet bool, targets int) bool {
	if quiet || targets == 0 {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout) && os.Getenv("TERM") != "dumb" && os.Getenv("CI") == ""
	}
}

type pipelineOutcome struct {
	outcomes []pipeline.Outcome
	err      error
}

// runPipelineWithUI runs req in the background and renders its progress
// events until the pipeline closes the channel.
func runPipelineWithUI(ctx context.Context, title string, targets []string, req *pipeline.Request) ([]pipeline.Outcome, error) {
	if req == nil {
		return nil, fmt.Errorf("missing pipeline request")
	}
	events := make(chan pipeline.Event, 64)
	outcomeCh := make(chan pipelineOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		outcomes, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- pipelineOutcome{outcomes: outcomes, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, targets, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.outcomes, uiErr
	}
	return outcome.outcomes, outcome.err
}
