package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/laterem/internal/execshell"
)

const (
	dispatcherExecutorMissingMessageConstant = "dispatcher requires a command executor"
	gitBranchArgumentConstant                = "branch"
	gitShowCurrentFlagConstant               = "--show-current"
	missingCommitMessageTemplateConstant     = "%w: %s requires a commit message"
	missingDefaultsTemplateConstant          = "%w: %s %s"
	currentBranchQueryErrorTemplateConstant  = "unable to determine current branch: %w"
)

// ErrDispatcherExecutorNotConfigured indicates a Dispatcher was built without an executor.
var ErrDispatcherExecutorNotConfigured = errors.New(dispatcherExecutorMissingMessageConstant)

// DispatcherOptions tunes how workflow steps are executed.
type DispatcherOptions struct {
	RemoteName          string
	ContainerExecutable execshell.CommandName
	// StepTimeout bounds each step; zero leaves steps unbounded.
	StepTimeout time.Duration
	// ContinueOnStepFailure keeps running after a step exits with a non-zero status.
	// Spawn and decode failures still abort the run.
	ContinueOnStepFailure bool
}

// Dispatcher runs catalog workflows step by step.
type Dispatcher struct {
	executor  execshell.CommandExecutor
	options   DispatcherOptions
	observers runObservers
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(executor execshell.CommandExecutor, options DispatcherOptions, observers ...RunObserver) (*Dispatcher, error) {
	if executor == nil {
		return nil, ErrDispatcherExecutorNotConfigured
	}
	if len(strings.TrimSpace(options.RemoteName)) == 0 {
		options.RemoteName = DefaultRemoteName
	}
	if len(options.ContainerExecutable) == 0 {
		options.ContainerExecutable = DefaultContainerExecutable
	}
	return &Dispatcher{executor: executor, options: options, observers: newRunObservers(observers)}, nil
}

// Validate checks that the request names a catalog workflow and carries its required inputs.
// It never spawns a process.
func (dispatcher *Dispatcher) Validate(request RunRequest) (Workflow, error) {
	workflow, lookupError := LookupWorkflow(request.Target, request.Action)
	if lookupError != nil {
		return Workflow{}, lookupError
	}
	if workflow.RequiresMessage && len(request.CommitMessage()) == 0 {
		return Workflow{}, fmt.Errorf(missingCommitMessageTemplateConstant, ErrInvalidArgument, request.Action)
	}
	return workflow, nil
}

// Dispatch executes the workflow for the request. The returned report describes how far the run
// progressed, including when an error is returned.
func (dispatcher *Dispatcher) Dispatch(executionContext context.Context, request RunRequest) (RunReport, error) {
	report := RunReport{Target: request.Target, Action: request.Action}

	workflow, validationError := dispatcher.Validate(request)
	if validationError != nil {
		return report, validationError
	}

	bindings := StepBindings{
		CommitMessage:       request.CommitMessage(),
		RemoteName:          dispatcher.options.RemoteName,
		ContainerExecutable: dispatcher.options.ContainerExecutable,
	}

	if workflow.RequiresDefaults {
		if request.Defaults == nil {
			return report, fmt.Errorf(missingDefaultsTemplateConstant, ErrDefaultsNotResolved, request.Target, request.Action)
		}
		if len(strings.TrimSpace(request.Defaults.DefaultBranch)) == 0 {
			return report, ErrDefaultBranchUnresolved
		}
		bindings.DefaultBranch = request.Defaults.DefaultBranch
	}

	if workflow.RequiresCurrentBranch {
		currentBranch, branchError := dispatcher.currentBranch(executionContext, request.WorkingDirectory)
		if branchError != nil {
			return report, branchError
		}
		report.CurrentBranch = currentBranch
		bindings.CurrentBranch = currentBranch
	}

	report.Planned = workflow.Plan(bindings)
	totalSteps := len(report.Planned)
	dispatcher.observers.RunStarted(request, report.Planned)

	for stepIndex, step := range report.Planned {
		position := stepIndex + 1
		dispatcher.observers.StepStarted(step, position, totalSteps)

		outcome := dispatcher.runStep(executionContext, step, request.WorkingDirectory)
		dispatcher.observers.StepFinished(outcome, position, totalSteps)

		if outcome.Err == nil {
			report.Completed = append(report.Completed, outcome)
			continue
		}
		if dispatcher.options.ContinueOnStepFailure && isNonZeroExit(outcome.Err) {
			report.Completed = append(report.Completed, outcome)
			continue
		}

		failedOutcome := outcome
		report.Failed = &failedOutcome
		stepError := &StepFailedError{Step: step, Position: position, Total: totalSteps, Err: outcome.Err}
		dispatcher.observers.RunFailed(report, stepError)
		return report, stepError
	}

	dispatcher.observers.RunSucceeded(report)
	return report, nil
}

func (dispatcher *Dispatcher) runStep(executionContext context.Context, step Step, workingDirectory string) StepOutcome {
	stepContext := executionContext
	if dispatcher.options.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepContext, cancel = context.WithTimeout(executionContext, dispatcher.options.StepTimeout)
		defer cancel()
	}

	var environment map[string]string
	if step.Executable == execshell.CommandGit {
		environment = gitEnvironment()
	}

	result, executionError := dispatcher.executor.Execute(stepContext, step.Command(workingDirectory, environment))
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			result = failedError.Result
		}
	}
	return StepOutcome{Step: step, Result: result, Err: executionError}
}

func (dispatcher *Dispatcher) currentBranch(executionContext context.Context, workingDirectory string) (string, error) {
	branchCommand := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:            []string{gitBranchArgumentConstant, gitShowCurrentFlagConstant},
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: gitEnvironment(),
		},
	}
	result, executionError := dispatcher.executor.Execute(executionContext, branchCommand)
	if executionError != nil {
		return "", fmt.Errorf(currentBranchQueryErrorTemplateConstant, executionError)
	}
	currentBranch := strings.TrimSpace(removeLineBreaks(result.StandardOutput))
	if len(currentBranch) == 0 {
		return "", ErrCurrentBranchUnavailable
	}
	return currentBranch, nil
}
