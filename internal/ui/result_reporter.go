package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/temirov/laterem/internal/workflow"
)

const (
	successBannerConstant        = " THE ACTION RAN SUCCESSFULLY "
	failureBannerConstant        = " ERROR OUTPUT "
	errorLineTemplateConstant    = "An error occurred: %v\n"
	progressLineTemplateConstant = "Completed %d of %d steps\n"
	failedStepsLineTemplate      = "%d step(s) failed and were skipped past\n"
	lineBreakConstant            = "\n"
)

// ResultReporter prints the final outcome of a run.
type ResultReporter struct {
	output  io.Writer
	palette palette
}

// NewResultReporter constructs a ResultReporter. Styling applies only when styled is true.
func NewResultReporter(output io.Writer, styled bool) *ResultReporter {
	if output == nil {
		output = io.Discard
	}
	return &ResultReporter{output: output, palette: newPalette(styled)}
}

// Report prints a success or failure banner followed by the run details.
func (reporter *ResultReporter) Report(report workflow.RunReport, runError error) {
	if runError == nil {
		fmt.Fprint(reporter.output, reporter.palette.render(reporter.palette.successBanner, successBannerConstant), lineBreakConstant)
		if failedSteps := countFailedSteps(report); failedSteps > 0 {
			fmt.Fprint(reporter.output, reporter.palette.render(reporter.palette.failure, fmt.Sprintf(failedStepsLineTemplate, failedSteps)))
		}
		return
	}

	fmt.Fprint(reporter.output, reporter.palette.render(reporter.palette.failureBanner, failureBannerConstant), lineBreakConstant)
	fmt.Fprintf(reporter.output, errorLineTemplateConstant, runError)

	var stepError *workflow.StepFailedError
	if errors.As(runError, &stepError) {
		fmt.Fprintf(reporter.output, progressLineTemplateConstant, report.CompletedCount(), report.PlannedCount())
	}
}

func countFailedSteps(report workflow.RunReport) int {
	failedSteps := 0
	for _, outcome := range report.Completed {
		if !outcome.Succeeded() {
			failedSteps++
		}
	}
	return failedSteps
}
