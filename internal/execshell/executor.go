package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	gitCommandNameConstant                  = "git"
	dockerCommandNameConstant               = "docker"
	sedCommandNameConstant                  = "sed"
	loggerNotConfiguredMessageConstant      = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant      = "shell executor command runner not configured"
	commandExecutionErrorTemplateConstant   = "%s: %v"
	commandFailedErrorTemplateConstant      = "%s exited with code %d"
	commandFailedStandardErrorTemplate      = "%s exited with code %d: %s"
	outputDecodeErrorTemplateConstant       = "%s produced %s that is not valid UTF-8"
	commandInterruptedErrorTemplateConstant = "%s did not finish: %v"
	standardOutputStreamLabelConstant       = "standard output"
	logFieldCommandNameConstant             = "command_name"
	logFieldCommandArgumentsConstant        = "command_arguments"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldExitCodeConstant                = "exit_code"
	logFieldStandardErrorConstant           = "standard_error"
	commandLabelArgumentSeparatorConstant   = " "
	outputDecodeFailureDescriptionConstant  = "output is not valid UTF-8"
	standardOutputBytesLogFieldNameConstant = "standard_output_bytes"
)

// CommandName identifies an executable invoked by the shell executor.
type CommandName string

// Supported executables.
const (
	CommandGit    CommandName = CommandName(gitCommandNameConstant)
	CommandDocker CommandName = CommandName(dockerCommandNameConstant)
	CommandSed    CommandName = CommandName(sedCommandNameConstant)
)

// CommandDetails describes the arguments and environment of a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner spawns a process and waits for it to exit.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandExecutionError reports that a process could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command and its exit code.
func (failedError CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failedError.Command), failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStandardErrorTemplate, describeCommand(failedError.Command), failedError.Result.ExitCode, trimmedStandardError)
}

// CommandInterruptedError reports a process stopped because its context timed out or was cancelled.
type CommandInterruptedError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the interrupted command.
func (interruptedError CommandInterruptedError) Error() string {
	return fmt.Sprintf(commandInterruptedErrorTemplateConstant, describeCommand(interruptedError.Command), interruptedError.Cause)
}

// Unwrap exposes the context error.
func (interruptedError CommandInterruptedError) Unwrap() error {
	return interruptedError.Cause
}

// TimedOut reports whether the context deadline expired.
func (interruptedError CommandInterruptedError) TimedOut() bool {
	return errors.Is(interruptedError.Cause, context.DeadlineExceeded)
}

// OutputDecodeError reports captured output that is not valid text.
type OutputDecodeError struct {
	Command ShellCommand
	Stream  string
}

// Error describes the decode failure.
func (decodeError OutputDecodeError) Error() string {
	return fmt.Sprintf(outputDecodeErrorTemplateConstant, describeCommand(decodeError.Command), decodeError.Stream)
}

// ShellExecutor runs external commands, logs their lifecycle, and classifies their outcome.
type ShellExecutor struct {
	logger           *zap.Logger
	commandRunner    CommandRunner
	observers        []CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor. Observers receive every command lifecycle event.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	registeredObservers := make([]CommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		registeredObservers = append(registeredObservers, observer)
	}
	if len(registeredObservers) == 0 {
		registeredObservers = append(registeredObservers, noopCommandEventObserver{})
	}

	return &ShellExecutor{
		logger:           logger,
		commandRunner:    commandRunner,
		observers:        registeredObservers,
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// Execute runs the command and returns its result. Spawn failures yield CommandExecutionError,
// context expiry yields CommandInterruptedError, non-zero exits yield CommandFailedError, and
// non-UTF-8 standard output yields OutputDecodeError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command), commandFields...)
	executor.notifyStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		executor.notifyExecutionFailed(command, runError)
		if errors.Is(runError, context.DeadlineExceeded) || errors.Is(runError, context.Canceled) {
			return ExecutionResult{}, CommandInterruptedError{Command: command, Cause: runError}
		}
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if !utf8.ValidString(executionResult.StandardOutput) {
		decodeError := OutputDecodeError{Command: command, Stream: standardOutputStreamLabelConstant}
		executor.logger.Debug(
			executor.messageFormatter.BuildExecutionFailureMessage(command, errors.New(outputDecodeFailureDescriptionConstant)),
			append(commandFields, zap.Int(standardOutputBytesLogFieldNameConstant, len(executionResult.StandardOutput)))...,
		)
		executor.notifyExecutionFailed(command, decodeError)
		return ExecutionResult{}, decodeError
	}

	executor.notifyCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Debug(
			executor.messageFormatter.BuildFailureMessage(command, executionResult),
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, executionResult.StandardError),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command), commandFields...)
	return executionResult, nil
}

func (executor *ShellExecutor) notifyStarted(command ShellCommand) {
	for _, observer := range executor.observers {
		observer.CommandStarted(command)
	}
}

func (executor *ShellExecutor) notifyCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range executor.observers {
		observer.CommandCompleted(command, result)
	}
}

func (executor *ShellExecutor) notifyExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range executor.observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelArgumentSeparatorConstant)
}
