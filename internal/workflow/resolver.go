package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/laterem/internal/execshell"
)

const (
	gitRemoteArgumentConstant            = "remote"
	gitShowArgumentConstant              = "show"
	sedQuietFlagConstant                 = "-n"
	sedHeadBranchExpressionConstant      = "/HEAD branch/s/.*: //p"
	gitTerminalPromptEnvironmentConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant    = "0"
	resolverPipeMissingMessageConstant   = "default resolver requires an output pipe"
	defaultBranchResolutionErrorTemplate = "unable to resolve default branch from remote %s: %w"
	defaultBranchUnresolvedErrorTemplate = "%w: remote %s"
	lineBreakCharactersConstant          = "\r\n"
)

// ErrResolverPipeNotConfigured indicates a DefaultResolver was built without a pipe.
var ErrResolverPipeNotConfigured = errors.New(resolverPipeMissingMessageConstant)

// DefaultsResolver discovers repository defaults.
type DefaultsResolver interface {
	Resolve(executionContext context.Context, workingDirectory string) (DefaultConfig, error)
}

// DefaultResolver asks the remote for its HEAD branch.
type DefaultResolver struct {
	pipe       execshell.OutputPipe
	remoteName string
}

// NewDefaultResolver constructs a DefaultResolver. An empty remote name selects DefaultRemoteName.
func NewDefaultResolver(pipe execshell.OutputPipe, remoteName string) (*DefaultResolver, error) {
	if pipe == nil {
		return nil, ErrResolverPipeNotConfigured
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = DefaultRemoteName
	}
	return &DefaultResolver{pipe: pipe, remoteName: trimmedRemoteName}, nil
}

// Resolve runs `git remote show <remote> | sed -n "/HEAD branch/s/.*: //p"` in the working directory.
func (resolver *DefaultResolver) Resolve(executionContext context.Context, workingDirectory string) (DefaultConfig, error) {
	remoteCommand := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:            []string{gitRemoteArgumentConstant, gitShowArgumentConstant, resolver.remoteName},
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: gitEnvironment(),
		},
	}
	extractCommand := execshell.ShellCommand{
		Name: execshell.CommandSed,
		Details: execshell.CommandDetails{
			Arguments:        []string{sedQuietFlagConstant, sedHeadBranchExpressionConstant},
			WorkingDirectory: workingDirectory,
		},
	}

	extractResult, pipeError := resolver.pipe.Pipe(executionContext, remoteCommand, extractCommand)
	if pipeError != nil {
		return DefaultConfig{}, fmt.Errorf(defaultBranchResolutionErrorTemplate, resolver.remoteName, pipeError)
	}

	defaultBranch := strings.TrimSpace(removeLineBreaks(extractResult.StandardOutput))
	if len(defaultBranch) == 0 {
		return DefaultConfig{}, fmt.Errorf(defaultBranchUnresolvedErrorTemplate, ErrDefaultBranchUnresolved, resolver.remoteName)
	}

	return DefaultConfig{
		DefaultBranch:   defaultBranch,
		StashFiles:      true,
		DetachContainer: true,
	}, nil
}

func removeLineBreaks(text string) string {
	return strings.Map(func(character rune) rune {
		if strings.ContainsRune(lineBreakCharactersConstant, character) {
			return -1
		}
		return character
	}, text)
}

func gitEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptEnvironmentConstant: gitTerminalPromptDisabledConstant}
}
