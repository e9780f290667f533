package workflow

import (
	"strings"

	"github.com/temirov/laterem/internal/execshell"
)

// Target selects the workflow catalog an action applies to.
type Target string

// Supported targets.
const (
	TargetDocker     Target = Target("docker")
	TargetRepository Target = Target("repository")
)

// String returns the canonical target name.
func (target Target) String() string {
	return string(target)
}

// Action names a workflow within a target.
type Action string

// Supported actions.
const (
	ActionReset  Action = Action("reset")
	ActionDown   Action = Action("down")
	ActionUp     Action = Action("up")
	ActionCommit Action = Action("commit")
	ActionPush   Action = Action("push")
	ActionPull   Action = Action("pull")
)

// String returns the canonical action name.
func (action Action) String() string {
	return string(action)
}

// AllTargets lists every known target.
func AllTargets() []Target {
	return []Target{TargetDocker, TargetRepository}
}

// AllActions lists every known action.
func AllActions() []Action {
	return []Action{ActionReset, ActionDown, ActionUp, ActionCommit, ActionPush, ActionPull}
}

// DefaultConfig captures assumed repository conventions. DefaultBranch is discovered from the
// remote; StashFiles and DetachContainer are fixed policy flags and always true.
type DefaultConfig struct {
	DefaultBranch   string
	StashFiles      bool
	DetachContainer bool
}

// RunRequest describes one invocation of the automator.
type RunRequest struct {
	// ConfigurationPath is the configuration file the CLI loaded, if any.
	ConfigurationPath string
	Target            Target
	Action            Action
	// Defaults stays nil until the defaults resolver has run.
	Defaults         *DefaultConfig
	Arguments        []string
	WorkingDirectory string
}

// CommitMessage joins the free-form arguments with single spaces.
func (request RunRequest) CommitMessage() string {
	return strings.TrimSpace(strings.Join(request.Arguments, " "))
}

// Step is one external command invocation within a workflow.
type Step struct {
	Name        string
	Description string
	Executable  execshell.CommandName
	Arguments   []string
}

// Command converts the step into a shell command rooted at the working directory.
func (step Step) Command(workingDirectory string, environmentVariables map[string]string) execshell.ShellCommand {
	var environment map[string]string
	if len(environmentVariables) > 0 {
		environment = make(map[string]string, len(environmentVariables))
		for environmentKey, environmentValue := range environmentVariables {
			environment[environmentKey] = environmentValue
		}
	}
	return execshell.ShellCommand{
		Name: step.Executable,
		Details: execshell.CommandDetails{
			Arguments:            append([]string{}, step.Arguments...),
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: environment,
		},
	}
}

// StepOutcome records how a single step ended.
type StepOutcome struct {
	Step   Step
	Result execshell.ExecutionResult
	Err    error
}

// Succeeded reports whether the step ran and exited with status zero.
func (outcome StepOutcome) Succeeded() bool {
	return outcome.Err == nil
}

// RunReport describes how far a dispatched workflow progressed.
type RunReport struct {
	Target        Target
	Action        Action
	CurrentBranch string
	Planned       []Step
	// Completed lists the steps that ran, in order. With continue-on-failure enabled it may
	// contain steps that exited with a non-zero status.
	Completed []StepOutcome
	// Failed is the step that aborted the run, if any.
	Failed *StepOutcome
}

// CompletedCount returns the number of steps that ran before the run ended.
func (report RunReport) CompletedCount() int {
	return len(report.Completed)
}

// PlannedCount returns the number of workflow steps the run intended to execute.
func (report RunReport) PlannedCount() int {
	return len(report.Planned)
}

// HasFailures reports whether any step failed, including failures the run continued past.
func (report RunReport) HasFailures() bool {
	if report.Failed != nil {
		return true
	}
	for _, outcome := range report.Completed {
		if !outcome.Succeeded() {
			return true
		}
	}
	return false
}
