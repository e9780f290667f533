package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/laterem/internal/execshell"
	"github.com/temirov/laterem/internal/ui"
	"github.com/temirov/laterem/internal/workflow"
)

func TestResultReporterReport(testInstance *testing.T) {
	plannedSteps := []workflow.Step{{Name: "stage-all"}, {Name: "stash"}, {Name: "checkout-default-branch"}}
	failedCommand := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"stash"}}},
		Result:  execshell.ExecutionResult{ExitCode: 1},
	}

	testCases := []struct {
		name           string
		report         workflow.RunReport
		runError       error
		expectedOutput string
	}{
		{
			name:           "success",
			report:         workflow.RunReport{Planned: plannedSteps, Completed: []workflow.StepOutcome{{}, {}, {}}},
			expectedOutput: " THE ACTION RAN SUCCESSFULLY \n",
		},
		{
			name: "success_with_continued_failures",
			report: workflow.RunReport{
				Planned:   plannedSteps,
				Completed: []workflow.StepOutcome{{}, {Err: failedCommand}, {}},
			},
			expectedOutput: " THE ACTION RAN SUCCESSFULLY \n1 step(s) failed and were skipped past\n",
		},
		{
			name:           "validation_failure",
			runError:       workflow.ErrInvalidArgument,
			expectedOutput: " ERROR OUTPUT \nAn error occurred: invalid argument\n",
		},
		{
			name: "step_failure",
			report: workflow.RunReport{
				Planned:   plannedSteps,
				Completed: []workflow.StepOutcome{{}},
				Failed:    &workflow.StepOutcome{Err: failedCommand},
			},
			runError:       &workflow.StepFailedError{Step: plannedSteps[1], Position: 2, Total: 3, Err: failedCommand},
			expectedOutput: " ERROR OUTPUT \nAn error occurred: step 2 of 3 (stash) failed: git stash exited with code 1\nCompleted 1 of 3 steps\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := ui.NewResultReporter(outputBuffer, false)

			reporter.Report(testCase.report, testCase.runError)

			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestIsTerminalRejectsBuffers(testInstance *testing.T) {
	require.False(testInstance, ui.IsTerminal(&bytes.Buffer{}))
}

func TestStepProgressPrinter(testInstance *testing.T) {
	step := workflow.Step{Name: "stash", Description: "Stashing staged files"}
	failure := execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGit}, Result: execshell.ExecutionResult{ExitCode: 1}}

	testCases := []struct {
		name           string
		continueMode   bool
		invoke         func(printer *ui.StepProgressPrinter)
		expectedOutput string
	}{
		{
			name: "run_started",
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.RunStarted(workflow.RunRequest{Target: workflow.TargetRepository, Action: workflow.ActionPull}, []workflow.Step{step, step})
			},
			expectedOutput: "repository pull: 2 step(s)\n",
		},
		{
			name: "step_started",
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.StepStarted(step, 2, 4)
			},
			expectedOutput: "[2/4] Stashing staged files\n",
		},
		{
			name: "step_succeeded",
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.StepFinished(workflow.StepOutcome{Step: step}, 2, 4)
			},
			expectedOutput: "",
		},
		{
			name: "step_failed",
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.StepFinished(workflow.StepOutcome{Step: step, Err: failure}, 2, 4)
			},
			expectedOutput: "[2/4] stash failed: git exited with code 1\n",
		},
		{
			name:         "step_failed_continue_mode",
			continueMode: true,
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.StepFinished(workflow.StepOutcome{Step: step, Err: failure}, 2, 4)
			},
			expectedOutput: "[2/4] stash failed, continuing: git exited with code 1\n",
		},
		{
			name: "run_finished_is_silent",
			invoke: func(printer *ui.StepProgressPrinter) {
				printer.RunSucceeded(workflow.RunReport{})
				printer.RunFailed(workflow.RunReport{}, errors.New("boom"))
			},
			expectedOutput: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			printer := ui.NewStepProgressPrinter(outputBuffer, false, testCase.continueMode)

			testCase.invoke(printer)

			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}
