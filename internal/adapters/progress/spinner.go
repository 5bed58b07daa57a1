package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Message   string
}

// displayedStages are the stages shown in the spinner trail
var displayedStages = []usecase.ExecutionStage{
	usecase.StageResolving,
	usecase.StageLoading,
	usecase.StageBroadcasting,
	usecase.StageRecording,
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == usecase.StageCompleted {
		r.completeCurrentStage()
		r.spinner.Stop()
		return
	}

	if n := len(r.stages); n == 0 || r.stages[n-1].Stage != event.Stage {
		r.completeCurrentStage()
		r.stages = append(r.stages, stageInfo{
			Stage:     event.Stage,
			StartTime: time.Now(),
		})
	}
	r.stages[len(r.stages)-1].Message = event.Message

	if event.Spinner {
		r.spinner.Suffix = " " + r.display()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
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

// Suspend stops the spinner until resume is called
func (r *SpinnerProgressReporter) Suspend() func() {
	if !r.spinner.Active() {
		return func() {}
	}
	r.spinner.Stop()
	return r.spinner.Start
}

// printPaused stops the spinner while a line is written
func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	resume := r.Suspend()
	defer resume()

	c.Fprintln(r.out, message)
}

// completeCurrentStage marks the current stage as completed
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if n := len(r.stages); n > 0 && r.stages[n-1].EndTime.IsZero() {
		r.stages[n-1].EndTime = time.Now()
	}
}

// display renders the stage trail, e.g. "✓ Resolving (12ms) → ● Broadcasting: waiting for receipt"
func (r *SpinnerProgressReporter) display() string {
	var parts []string
	for _, stage := range r.stages {
		if !isDisplayed(stage.Stage) {
			continue
		}

		if !stage.EndTime.IsZero() {
			parts = append(parts, fmt.Sprintf("✓ %s (%s)",
				color.GreenString(string(stage.Stage)),
				stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond)))
			continue
		}

		part := "● " + color.YellowString(string(stage.Stage))
		if stage.Message != "" {
			part += ": " + stage.Message
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " → ")
}

func isDisplayed(stage usecase.ExecutionStage) bool {
	for _, s := range displayedStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
