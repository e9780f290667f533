package execshell

import (
	"context"
	"errors"
	"fmt"
)

const (
	// DefaultPipeBufferLimitBytes bounds the output BufferedPipe holds in memory.
	DefaultPipeBufferLimitBytes = 1 << 20

	pipeExecutorMissingMessageConstant = "pipe command executor not configured"
	pipeBufferExceededMessageConstant  = "piped output exceeds buffer limit"
	pipeBufferExceededTemplateConstant = "%w: %s produced %d bytes, limit is %d"
	pipeSourceFailureTemplateConstant  = "pipe source failed: %w"
	pipeSinkFailureTemplateConstant    = "pipe sink failed: %w"
)

// ErrPipeExecutorNotConfigured indicates a BufferedPipe was built without an executor.
var ErrPipeExecutorNotConfigured = errors.New(pipeExecutorMissingMessageConstant)

// ErrPipeBufferExceeded indicates the source command produced more output than the pipe buffers.
var ErrPipeBufferExceeded = errors.New(pipeBufferExceededMessageConstant)

// CommandExecutor runs a single shell command.
type CommandExecutor interface {
	Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// OutputPipe feeds the standard output of one command into the standard input of another.
type OutputPipe interface {
	Pipe(executionContext context.Context, source ShellCommand, sink ShellCommand) (ExecutionResult, error)
}

// BufferedPipe runs the source to completion, holds its output in memory, then runs the sink.
// It suits small payloads such as remote descriptions.
type BufferedPipe struct {
	executor         CommandExecutor
	bufferLimitBytes int
}

// NewBufferedPipe constructs a BufferedPipe. A non-positive limit selects DefaultPipeBufferLimitBytes.
func NewBufferedPipe(executor CommandExecutor, bufferLimitBytes int) (*BufferedPipe, error) {
	if executor == nil {
		return nil, ErrPipeExecutorNotConfigured
	}
	if bufferLimitBytes <= 0 {
		bufferLimitBytes = DefaultPipeBufferLimitBytes
	}
	return &BufferedPipe{executor: executor, bufferLimitBytes: bufferLimitBytes}, nil
}

// Pipe executes source, then sink with the source output as its standard input, and returns the sink result.
func (pipe *BufferedPipe) Pipe(executionContext context.Context, source ShellCommand, sink ShellCommand) (ExecutionResult, error) {
	sourceResult, sourceError := pipe.executor.Execute(executionContext, source)
	if sourceError != nil {
		return ExecutionResult{}, fmt.Errorf(pipeSourceFailureTemplateConstant, sourceError)
	}

	if len(sourceResult.StandardOutput) > pipe.bufferLimitBytes {
		return ExecutionResult{}, fmt.Errorf(pipeBufferExceededTemplateConstant, ErrPipeBufferExceeded, describeCommand(source), len(sourceResult.StandardOutput), pipe.bufferLimitBytes)
	}

	sinkCommand := sink
	sinkCommand.Details.StandardInput = []byte(sourceResult.StandardOutput)

	sinkResult, sinkError := pipe.executor.Execute(executionContext, sinkCommand)
	if sinkError != nil {
		return ExecutionResult{}, fmt.Errorf(pipeSinkFailureTemplateConstant, sinkError)
	}
	return sinkResult, nil
}
