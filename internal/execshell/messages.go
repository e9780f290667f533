package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	failureDetailsTemplateConstant          = " (exit code %d%s)"
)

const (
	gitAddSubcommandNameConstant      = "add"
	gitStashSubcommandNameConstant    = "stash"
	gitStashPopActionConstant         = "pop"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitPullSubcommandNameConstant     = "pull"
	gitPushSubcommandNameConstant     = "push"
	gitCommitSubcommandNameConstant   = "commit"
	gitBranchSubcommandNameConstant   = "branch"
	gitShowCurrentFlagConstant        = "--show-current"
	gitRemoteSubcommandNameConstant   = "remote"
	gitRemoteShowActionConstant       = "show"
	gitMessageFlagConstant            = "-m"
	composeDownSubcommandNameConstant = "down"
	composeUpSubcommandNameConstant   = "up"
)

// stageTemplates holds one template per message stage. Start and success templates receive
// the subject values only; failure templates additionally receive the failure details suffix.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitAddTemplates = stageTemplates{
		start:            "Staging %s in %s",
		success:          "Staged %s in %s",
		failure:          "Failed to stage %s in %s%s",
		executionFailure: "Unable to stage %s in %s: %s",
	}
	gitStashTemplates = stageTemplates{
		start:            "Stashing changes in %s",
		success:          "Stashed changes in %s",
		failure:          "Failed to stash changes in %s%s",
		executionFailure: "Unable to stash changes in %s: %s",
	}
	gitStashPopTemplates = stageTemplates{
		start:            "Restoring stashed changes in %s",
		success:          "Restored stashed changes in %s",
		failure:          "Failed to restore stashed changes in %s%s",
		executionFailure: "Unable to restore stashed changes in %s: %s",
	}
	gitCheckoutTemplates = stageTemplates{
		start:            "Switching %s to branch %s",
		success:          "%s now on branch %s",
		failure:          "Failed to switch %s to branch %s%s",
		executionFailure: "Unable to switch %s to branch %s: %s",
	}
	gitPullTemplates = stageTemplates{
		start:            "Pulling %s from %s into %s",
		success:          "Pulled %s from %s into %s",
		failure:          "Failed to pull %s from %s into %s%s",
		executionFailure: "Unable to pull %s from %s into %s: %s",
	}
	gitPushTemplates = stageTemplates{
		start:            "Pushing %s to %s from %s",
		success:          "Pushed %s to %s from %s",
		failure:          "Failed to push %s to %s from %s%s",
		executionFailure: "Unable to push %s to %s from %s: %s",
	}
	gitCommitTemplates = stageTemplates{
		start:            "Creating commit in %s with message %q",
		success:          "Created commit in %s with message %q",
		failure:          "Failed to create commit in %s with message %q%s",
		executionFailure: "Unable to create commit in %s with message %q: %s",
	}
	gitCurrentBranchTemplates = stageTemplates{
		start:            "Identifying current branch in %s",
		success:          "Identified current branch in %s",
		failure:          "Failed to identify current branch in %s%s",
		executionFailure: "Unable to identify current branch in %s: %s",
	}
	gitRemoteShowTemplates = stageTemplates{
		start:            "Describing %s remote for %s",
		success:          "Described %s remote for %s",
		failure:          "Failed to describe %s remote for %s%s",
		executionFailure: "Unable to describe %s remote for %s: %s",
	}
	composeDownTemplates = stageTemplates{
		start:            "Taking container stack down in %s",
		success:          "Container stack in %s is down",
		failure:          "Failed to take container stack down in %s%s",
		executionFailure: "Unable to take container stack down in %s: %s",
	}
	composeUpTemplates = stageTemplates{
		start:            "Launching container stack in %s",
		success:          "Container stack in %s is up",
		failure:          "Failed to launch container stack in %s%s",
		executionFailure: "Unable to launch container stack in %s: %s",
	}
	sedTemplates = stageTemplates{
		start:            "Extracting text with pattern %q",
		success:          "Extracted text with pattern %q",
		failure:          "Failed to extract text with pattern %q%s",
		executionFailure: "Unable to extract text with pattern %q: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandDocker:
		composeAction := formatter.argumentAtIndex(arguments, 1)
		switch composeAction {
		case composeDownSubcommandNameConstant:
			return formatter.render(composeDownTemplates, stage, result, failure, workingDirectory)
		case composeUpSubcommandNameConstant:
			return formatter.render(composeUpTemplates, stage, result, failure, workingDirectory)
		}
	case CommandSed:
		return formatter.render(sedTemplates, stage, result, failure, formatter.ensureValue(formatter.lastArgument(arguments)))
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	secondArgument := formatter.argumentAtIndex(arguments, 1)

	switch strings.TrimSpace(arguments[0]) {
	case gitAddSubcommandNameConstant:
		pathspec := strings.Join(arguments[1:], commandArgumentsJoinSeparatorConstant)
		return formatter.render(gitAddTemplates, stage, result, failure, formatter.ensureValue(pathspec), workingDirectory)
	case gitStashSubcommandNameConstant:
		if secondArgument == gitStashPopActionConstant {
			return formatter.render(gitStashPopTemplates, stage, result, failure, workingDirectory)
		}
		return formatter.render(gitStashTemplates, stage, result, failure, workingDirectory)
	case gitCheckoutSubcommandNameConstant:
		return formatter.render(gitCheckoutTemplates, stage, result, failure, workingDirectory, formatter.ensureValue(formatter.lastArgument(arguments)))
	case gitPullSubcommandNameConstant:
		remoteName, branchName := formatter.extractRemoteAndBranch(arguments)
		return formatter.render(gitPullTemplates, stage, result, failure, branchName, remoteName, workingDirectory)
	case gitPushSubcommandNameConstant:
		remoteName, branchName := formatter.extractRemoteAndBranch(arguments)
		return formatter.render(gitPushTemplates, stage, result, failure, branchName, remoteName, workingDirectory)
	case gitCommitSubcommandNameConstant:
		return formatter.render(gitCommitTemplates, stage, result, failure, workingDirectory, formatter.extractCommitMessage(arguments))
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitShowCurrentFlagConstant) {
			return formatter.render(gitCurrentBranchTemplates, stage, result, failure, workingDirectory)
		}
	case gitRemoteSubcommandNameConstant:
		if secondArgument == gitRemoteShowActionConstant {
			remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
			return formatter.render(gitRemoteShowTemplates, stage, result, failure, remoteName, workingDirectory)
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, stage messageStage, result ExecutionResult, failure error, subjects ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		failureDetails := fmt.Sprintf(failureDetailsTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, append(subjects, failureDetails)...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(subjects, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := describeCommand(command)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return strings.TrimSpace(arguments[index])
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	return formatter.argumentAtIndex(arguments, len(arguments)-1)
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractRemoteAndBranch(arguments []string) (string, string) {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments[1:] {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		positional = append(positional, trimmed)
	}
	return formatter.ensureValue(formatter.argumentAtIndex(positional, 0)), formatter.ensureValue(formatter.argumentAtIndex(positional, 1))
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
