package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while a mint waits on the wallet
// or the chain, and a stage trail once it settles
type SpinnerProgressReporter struct {
	spinner        *spinner.Spinner
	out            io.Writer
	stages         []stageInfo
	currentStage   string
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
		stages:  []stageInfo{},
	}
}

// OnProgress records the stage and drives the spinner
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != "" && event.Stage != r.currentStage {
		r.enterStage(event.Stage)
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	if event.Spinner {
		r.spinner.Suffix = " " + r.trail() + "  " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
	if isFinal(event.Stage) {
		r.completeCurrentStage(event.Stage)
		fmt.Fprintln(r.out, r.trail())
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printPaused(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printPaused(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) enterStage(stage string) {
	if r.currentStage != "" && len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = time.Now()
		r.stages[idx].Status = "completed"
	}

	r.currentStage = stage
	r.stageStartTime = time.Now()
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: r.stageStartTime,
		Status:    "running",
	})
}

// completeCurrentStage closes the last stage with the status the attempt
// settled in
func (r *SpinnerProgressReporter) completeCurrentStage(stage string) {
	if len(r.stages) == 0 {
		return
	}
	idx := len(r.stages) - 1
	r.stages[idx].EndTime = r.stages[idx].StartTime
	switch stage {
	case usecase.StageFailed:
		r.stages[idx].Status = "failed"
	case usecase.StageUnknown:
		r.stages[idx].Status = "unknown"
	default:
		r.stages[idx].Status = "completed"
	}
}

func isFinal(stage string) bool {
	switch stage {
	case usecase.StageConfirmed, usecase.StageFailed, usecase.StageUnknown:
		return true
	}
	return false
}

// trail renders the stages seen so far, e.g. "✓ Submitting (2s) → ● Awaiting confirmation"
func (r *SpinnerProgressReporter) trail() string {
	var display string

	for i, stage := range r.stages {
		var stageName string
		switch stage.Stage {
		case usecase.StageSubmitting:
			stageName = "Submitting"
		case usecase.StageAwaitingConfirmation:
			stageName = "Awaiting confirmation"
		case usecase.StageConfirmed:
			stageName = "Confirmed"
		case usecase.StageFailed:
			stageName = "Failed"
		case usecase.StageUnknown:
			stageName = "Unknown"
		default:
			continue
		}

		var icon string
		var stageColor *color.Color
		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		case "running":
			icon = "●"
			stageColor = color.New(color.FgYellow)
		case "failed":
			icon = "✗"
			stageColor = color.New(color.FgRed)
		case "unknown":
			icon = "?"
			stageColor = color.New(color.FgYellow, color.Faint)
		default:
			icon = "○"
			stageColor = color.New(color.FgWhite)
		}

		duration := ""
		if !stage.EndTime.IsZero() && stage.EndTime.After(stage.StartTime) {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Second))
		} else if stage.Status == "running" {
			duration = fmt.Sprintf(" (%s)", time.Since(stage.StartTime).Round(time.Second))
		}

		if i > 0 {
			display += " → "
		}
		display += fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(stageName), duration)
	}

	return display
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
