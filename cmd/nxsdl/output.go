package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"nxsdl/internal/pipeline"
)

var (
	actionOK      = color.New(color.FgGreen, color.Bold)
	actionInfo    = color.New(color.FgCyan)
	actionMuted   = color.New(color.Faint)
	actionFailed  = color.New(color.FgRed, color.Bold)
	commandColour = color.New(color.FgYellow)
)

func actionColor(a pipeline.Action) *color.Color {
	switch a {
	case pipeline.ActionRegenerated, pipeline.ActionUpToDate:
		return actionOK
	case pipeline.ActionVerified, pipeline.ActionPlanned:
		return actionInfo
	case pipeline.ActionFailed:
		return actionFailed
	default:
		return actionMuted
	}
}

// printOutcomes writes one status line per target.
func printOutcomes(out io.Writer, root string, outcomes []pipeline.Outcome) error {
	for _, o := range outcomes {
		if o.Action == "" {
			continue
		}
		if err := printOutcome(out, root, o); err != nil {
			return err
		}
	}
	return nil
}

func printOutcome(out io.Writer, root string, o pipeline.Outcome) error {
	label := actionColor(o.Action).Sprintf("%-11s", o.Action)
	path := formatPathForOutput(root, o.Output)
	var line string
	switch o.Action {
	case pipeline.ActionSkipped:
		line = fmt.Sprintf("%s %s (feature %s disabled)", label, o.Target.Label, o.Target.Feature)
	case pipeline.ActionRegenerated:
		line = fmt.Sprintf("%s %s -> %s (%.1f ms", label, o.Target.Label, path, toMillis(o.Elapsed))
		if o.Macros.Rewritten > 0 {
			line += fmt.Sprintf(", %d macro constants retyped", o.Macros.Rewritten)
		}
		line += ")"
	case pipeline.ActionPlanned:
		line = fmt.Sprintf("%s %s -> %s\n  %s", label, o.Target.Label, path,
			commandColour.Sprint("bindgen "+strings.Join(o.Command, " ")))
	case pipeline.ActionNotRun:
		line = fmt.Sprintf("%s %s (not started after an earlier failure)", label, o.Target.Label)
	case pipeline.ActionFailed:
		detail := ""
		if o.Err != nil {
			detail = ": " + o.Err.Error()
		}
		line = fmt.Sprintf("%s %s%s", label, o.Target.Label, detail)
	default:
		line = fmt.Sprintf("%s %s %s", label, o.Target.Label, path)
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
