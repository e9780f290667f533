package ui

import (
	"fmt"
	"io"

	"github.com/temirov/laterem/internal/workflow"
)

const (
	runStartedTemplateConstant  = "%s %s: %d step(s)\n"
	stepStartedTemplateConstant = "[%d/%d] %s\n"
	stepFailedTemplateConstant  = "[%d/%d] %s failed: %v\n"
	stepSkippedPastTemplate     = "[%d/%d] %s failed, continuing: %v\n"
)

// StepProgressPrinter writes one line per workflow step event.
type StepProgressPrinter struct {
	output                io.Writer
	palette               palette
	continueOnStepFailure bool
}

// NewStepProgressPrinter constructs a StepProgressPrinter. Styling applies only when styled is true.
func NewStepProgressPrinter(output io.Writer, styled bool, continueOnStepFailure bool) *StepProgressPrinter {
	if output == nil {
		output = io.Discard
	}
	return &StepProgressPrinter{output: output, palette: newPalette(styled), continueOnStepFailure: continueOnStepFailure}
}

// RunStarted announces the planned workflow.
func (printer *StepProgressPrinter) RunStarted(request workflow.RunRequest, steps []workflow.Step) {
	fmt.Fprint(printer.output, printer.palette.render(printer.palette.dim, fmt.Sprintf(runStartedTemplateConstant, request.Target, request.Action, len(steps))))
}

// StepStarted prints the step description.
func (printer *StepProgressPrinter) StepStarted(step workflow.Step, position int, total int) {
	fmt.Fprintf(printer.output, stepStartedTemplateConstant, position, total, step.Description)
}

// StepFinished prints failures; successful steps were already announced.
func (printer *StepProgressPrinter) StepFinished(outcome workflow.StepOutcome, position int, total int) {
	if outcome.Succeeded() {
		return
	}
	template := stepFailedTemplateConstant
	if printer.continueOnStepFailure && workflow.Classify(outcome.Err) == workflow.FailureKindNonZeroExit {
		template = stepSkippedPastTemplate
	}
	fmt.Fprint(printer.output, printer.palette.render(printer.palette.failure, fmt.Sprintf(template, position, total, outcome.Step.Name, outcome.Err)))
}

// RunFailed is reported by ResultReporter.
func (printer *StepProgressPrinter) RunFailed(workflow.RunReport, error) {}

// RunSucceeded is reported by ResultReporter.
func (printer *StepProgressPrinter) RunSucceeded(workflow.RunReport) {}
