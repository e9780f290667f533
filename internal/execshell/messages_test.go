package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesWorkflowCommands(t *testing.T) {
	testCases := []struct {
		name            string
		command         ShellCommand
		expectedStart   string
		expectedSuccess string
	}{
		{
			name:            "stage_all",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"add", "."}, WorkingDirectory: "/workspace/repo"}},
			expectedStart:   "Staging . in /workspace/repo",
			expectedSuccess: "Staged . in /workspace/repo",
		},
		{
			name:            "stash",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"stash"}}},
			expectedStart:   "Stashing changes in current directory",
			expectedSuccess: "Stashed changes in current directory",
		},
		{
			name:            "stash_pop",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"stash", "pop"}}},
			expectedStart:   "Restoring stashed changes in current directory",
			expectedSuccess: "Restored stashed changes in current directory",
		},
		{
			name:            "checkout",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"checkout", "main"}, WorkingDirectory: "/workspace/repo"}},
			expectedStart:   "Switching /workspace/repo to branch main",
			expectedSuccess: "/workspace/repo now on branch main",
		},
		{
			name:            "pull",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"pull", "origin", "main"}, WorkingDirectory: "/workspace/repo"}},
			expectedStart:   "Pulling main from origin into /workspace/repo",
			expectedSuccess: "Pulled main from origin into /workspace/repo",
		},
		{
			name:            "push",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"push", "origin", "feature"}, WorkingDirectory: "/workspace/repo"}},
			expectedStart:   "Pushing feature to origin from /workspace/repo",
			expectedSuccess: "Pushed feature to origin from /workspace/repo",
		},
		{
			name:            "commit",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"commit", "-m", "fix bug"}}},
			expectedStart:   "Creating commit in current directory with message \"fix bug\"",
			expectedSuccess: "Created commit in current directory with message \"fix bug\"",
		},
		{
			name:            "current_branch",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"branch", "--show-current"}}},
			expectedStart:   "Identifying current branch in current directory",
			expectedSuccess: "Identified current branch in current directory",
		},
		{
			name:            "remote_show",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"remote", "show", "origin"}}},
			expectedStart:   "Describing origin remote for current directory",
			expectedSuccess: "Described origin remote for current directory",
		},
		{
			name:            "compose_down",
			command:         ShellCommand{Name: CommandDocker, Details: CommandDetails{Arguments: []string{"compose", "down"}, WorkingDirectory: "/srv/stack"}},
			expectedStart:   "Taking container stack down in /srv/stack",
			expectedSuccess: "Container stack in /srv/stack is down",
		},
		{
			name:            "compose_up",
			command:         ShellCommand{Name: CommandDocker, Details: CommandDetails{Arguments: []string{"compose", "up", "-d"}, WorkingDirectory: "/srv/stack"}},
			expectedStart:   "Launching container stack in /srv/stack",
			expectedSuccess: "Container stack in /srv/stack is up",
		},
		{
			name:            "sed",
			command:         ShellCommand{Name: CommandSed, Details: CommandDetails{Arguments: []string{"-n", "/HEAD branch/s/.*: //p"}}},
			expectedStart:   "Extracting text with pattern \"/HEAD branch/s/.*: //p\"",
			expectedSuccess: "Extracted text with pattern \"/HEAD branch/s/.*: //p\"",
		},
		{
			name:            "generic_git",
			command:         ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"--version"}, WorkingDirectory: "/tmp"}},
			expectedStart:   "Running git --version (in /tmp)",
			expectedSuccess: "Completed git --version (in /tmp)",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
		})
	}
}

func TestBuildFailureMessageIncludesExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"checkout", "main"}, WorkingDirectory: "/workspace/repo"}}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1, StandardError: "error: pathspec 'main' did not match\n"})

	require.Equal(t, "Failed to switch /workspace/repo to branch main (exit code 1: error: pathspec 'main' did not match)", message)
}

func TestBuildExecutionFailureMessageDescribesCause(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandDocker, Details: CommandDetails{Arguments: []string{"compose", "up", "-d"}}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))
	require.Equal(t, "Unable to launch container stack in current directory: executable file not found", message)

	require.Equal(t, "Unable to launch container stack in current directory: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}
