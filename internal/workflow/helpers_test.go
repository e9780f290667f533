package workflow_test

import (
	"context"
	"strings"

	"github.com/temirov/laterem/internal/execshell"
	"github.com/temirov/laterem/internal/workflow"
)

const (
	testWorkingDirectoryConstant  = "/tmp/laterem-workspace"
	testDefaultBranchConstant     = "main"
	testCurrentBranchConstant     = "feature/login"
	testCurrentBranchQueryCommand = "git branch --show-current"
)

type scriptedResponse struct {
	result   execshell.ExecutionResult
	exitCode int
	err      error
}

type executedCommand struct {
	command     execshell.ShellCommand
	hasDeadline bool
}

// scriptedExecutor answers commands by their rendered command line and records every call.
type scriptedExecutor struct {
	responses map[string]scriptedResponse
	executed  []executedCommand
}

func newScriptedExecutor(responses map[string]scriptedResponse) *scriptedExecutor {
	if responses == nil {
		responses = map[string]scriptedResponse{}
	}
	return &scriptedExecutor{responses: responses}
}

func (executor *scriptedExecutor) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	_, hasDeadline := executionContext.Deadline()
	executor.executed = append(executor.executed, executedCommand{command: command, hasDeadline: hasDeadline})

	response, exists := executor.responses[renderCommand(command)]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	if response.err != nil {
		return execshell.ExecutionResult{}, response.err
	}
	if response.exitCode != 0 {
		failedResult := response.result
		failedResult.ExitCode = response.exitCode
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: command, Result: failedResult}
	}
	return response.result, nil
}

func (executor *scriptedExecutor) commandLines() []string {
	lines := make([]string, 0, len(executor.executed))
	for _, executed := range executor.executed {
		lines = append(lines, renderCommand(executed.command))
	}
	return lines
}

func renderCommand(command execshell.ShellCommand) string {
	return strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), " ")
}

func currentBranchResponse(branch string) map[string]scriptedResponse {
	return map[string]scriptedResponse{
		testCurrentBranchQueryCommand: {result: execshell.ExecutionResult{StandardOutput: branch + "\n"}},
	}
}

func resolvedDefaults() *workflow.DefaultConfig {
	return &workflow.DefaultConfig{DefaultBranch: testDefaultBranchConstant, StashFiles: true, DetachContainer: true}
}

type recordingRunObserver struct {
	events []string
}

func (observer *recordingRunObserver) RunStarted(_ workflow.RunRequest, steps []workflow.Step) {
	observer.events = append(observer.events, "run_started")
}

func (observer *recordingRunObserver) StepStarted(step workflow.Step, _ int, _ int) {
	observer.events = append(observer.events, "step_started:"+step.Name)
}

func (observer *recordingRunObserver) StepFinished(outcome workflow.StepOutcome, _ int, _ int) {
	observer.events = append(observer.events, "step_finished:"+outcome.Step.Name)
}

func (observer *recordingRunObserver) RunFailed(workflow.RunReport, error) {
	observer.events = append(observer.events, "run_failed")
}

func (observer *recordingRunObserver) RunSucceeded(workflow.RunReport) {
	observer.events = append(observer.events, "run_succeeded")
}
