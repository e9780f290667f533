package execshell_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/laterem/internal/execshell"
)

type scriptedCommandExecutor struct {
	results          []execshell.ExecutionResult
	errors           []error
	recordedCommands []execshell.ShellCommand
}

func (executor *scriptedCommandExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	invocationIndex := len(executor.recordedCommands)
	executor.recordedCommands = append(executor.recordedCommands, command)

	var invocationError error
	if invocationIndex < len(executor.errors) {
		invocationError = executor.errors[invocationIndex]
	}
	if invocationError != nil {
		return execshell.ExecutionResult{}, invocationError
	}
	if invocationIndex < len(executor.results) {
		return executor.results[invocationIndex], nil
	}
	return execshell.ExecutionResult{}, nil
}

var (
	testPipeSourceCommand = execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"remote", "show", "origin"}}}
	testPipeSinkCommand   = execshell.ShellCommand{Name: execshell.CommandSed, Details: execshell.CommandDetails{Arguments: []string{"-n", "/HEAD branch/s/.*: //p"}}}
)

func TestNewBufferedPipeRequiresExecutor(testInstance *testing.T) {
	pipe, creationError := execshell.NewBufferedPipe(nil, 0)
	require.ErrorIs(testInstance, creationError, execshell.ErrPipeExecutorNotConfigured)
	require.Nil(testInstance, pipe)
}

func TestBufferedPipeFeedsSourceOutputToSink(testInstance *testing.T) {
	sourceOutput := "* remote origin\n  HEAD branch: main\n"
	executor := &scriptedCommandExecutor{
		results: []execshell.ExecutionResult{
			{StandardOutput: sourceOutput},
			{StandardOutput: "main\n"},
		},
	}

	pipe, creationError := execshell.NewBufferedPipe(executor, 0)
	require.NoError(testInstance, creationError)

	sinkResult, pipeError := pipe.Pipe(context.Background(), testPipeSourceCommand, testPipeSinkCommand)
	require.NoError(testInstance, pipeError)
	require.Equal(testInstance, "main\n", sinkResult.StandardOutput)

	require.Len(testInstance, executor.recordedCommands, 2)
	require.Equal(testInstance, testPipeSourceCommand, executor.recordedCommands[0])
	require.Equal(testInstance, execshell.CommandSed, executor.recordedCommands[1].Name)
	require.Equal(testInstance, []byte(sourceOutput), executor.recordedCommands[1].Details.StandardInput)
	require.Empty(testInstance, testPipeSinkCommand.Details.StandardInput)
}

func TestBufferedPipeStopsWhenSourceFails(testInstance *testing.T) {
	spawnFailure := execshell.CommandExecutionError{Command: testPipeSourceCommand, Cause: errors.New("not found")}
	executor := &scriptedCommandExecutor{errors: []error{spawnFailure}}

	pipe, creationError := execshell.NewBufferedPipe(executor, 0)
	require.NoError(testInstance, creationError)

	_, pipeError := pipe.Pipe(context.Background(), testPipeSourceCommand, testPipeSinkCommand)

	var executionError execshell.CommandExecutionError
	require.ErrorAs(testInstance, pipeError, &executionError)
	require.Len(testInstance, executor.recordedCommands, 1)
}

func TestBufferedPipeEnforcesBufferLimit(testInstance *testing.T) {
	executor := &scriptedCommandExecutor{
		results: []execshell.ExecutionResult{{StandardOutput: strings.Repeat("x", 17)}},
	}

	pipe, creationError := execshell.NewBufferedPipe(executor, 16)
	require.NoError(testInstance, creationError)

	_, pipeError := pipe.Pipe(context.Background(), testPipeSourceCommand, testPipeSinkCommand)
	require.ErrorIs(testInstance, pipeError, execshell.ErrPipeBufferExceeded)
	require.Len(testInstance, executor.recordedCommands, 1)
}

func TestBufferedPipeSurfacesSinkFailure(testInstance *testing.T) {
	decodeFailure := execshell.OutputDecodeError{Command: testPipeSinkCommand, Stream: "standard output"}
	executor := &scriptedCommandExecutor{
		results: []execshell.ExecutionResult{{StandardOutput: "HEAD branch: main\n"}},
		errors:  []error{nil, decodeFailure},
	}

	pipe, creationError := execshell.NewBufferedPipe(executor, 0)
	require.NoError(testInstance, creationError)

	_, pipeError := pipe.Pipe(context.Background(), testPipeSourceCommand, testPipeSinkCommand)

	var decodeError execshell.OutputDecodeError
	require.ErrorAs(testInstance, pipeError, &decodeError)
	require.Len(testInstance, executor.recordedCommands, 2)
}
