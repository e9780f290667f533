package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	processStartErrorTemplateConstant     = "unable to start %s: %w"
	processWaitErrorTemplateConstant      = "unable to wait for %s: %w"
	processInterruptedTemplateConstant    = "%s interrupted: %w"
)

// DefaultProcessWaitDelay bounds how long Run waits for output pipes held by descendants after the context ends.
const DefaultProcessWaitDelay = time.Second

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	waitDelay time.Duration
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{waitDelay: DefaultProcessWaitDelay}
}

// Run starts the command, feeds it the configured standard input, and waits for it to exit.
// A non-zero exit status is reported through ExecutionResult.ExitCode, not as an error. When the context
// ends first the error wraps context.DeadlineExceeded or context.Canceled.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	executable := exec.CommandContext(executionContext, string(command.Name), append([]string{}, command.Details.Arguments...)...)
	executable.WaitDelay = runner.waitDelay

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	if startError := executable.Start(); startError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return ExecutionResult{}, fmt.Errorf(processInterruptedTemplateConstant, command.Name, contextError)
		}
		return ExecutionResult{}, fmt.Errorf(processStartErrorTemplateConstant, command.Name, startError)
	}

	waitError := executable.Wait()
	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}
	if waitError == nil {
		return executionResult, nil
	}

	var exitError *exec.ExitError
	if errors.As(waitError, &exitError) && executionContext.Err() == nil {
		executionResult.ExitCode = exitError.ExitCode()
		return executionResult, nil
	}

	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, fmt.Errorf(processInterruptedTemplateConstant, command.Name, contextError)
	}
	return ExecutionResult{}, fmt.Errorf(processWaitErrorTemplateConstant, command.Name, waitError)
}
