package workflow

import (
	"fmt"

	"github.com/temirov/laterem/internal/execshell"
)

const (
	unsupportedWorkflowTemplateConstant = "%w: %s does not support %s"

	// DefaultRemoteName is the remote pulled from and pushed to unless configured otherwise.
	DefaultRemoteName = "origin"
	// DefaultContainerExecutable provides the compose subcommand for container workflows.
	DefaultContainerExecutable = execshell.CommandDocker
)

// Step names.
const (
	StepNameStageAll               = "stage-all"
	StepNameStash                  = "stash"
	StepNameCheckoutDefaultBranch  = "checkout-default-branch"
	StepNamePullDefaultBranch      = "pull-default-branch"
	StepNameCheckoutOriginalBranch = "checkout-original-branch"
	StepNamePopStash               = "pop-stash"
	StepNameCommit                 = "commit"
	StepNamePushCurrentBranch      = "push-current-branch"
	StepNamePullCurrentBranch      = "pull-current-branch"
	StepNameStopStack              = "stop-stack"
	StepNameStartStack             = "start-stack"
)

const (
	gitAddArgumentConstant            = "add"
	gitAllPathspecConstant            = "."
	gitStashArgumentConstant          = "stash"
	gitPopArgumentConstant            = "pop"
	gitCheckoutArgumentConstant       = "checkout"
	gitPullArgumentConstant           = "pull"
	gitPushArgumentConstant           = "push"
	gitCommitArgumentConstant         = "commit"
	gitMessageFlagConstant            = "-m"
	composeSubcommandConstant         = "compose"
	composeDownArgumentConstant       = "down"
	composeUpArgumentConstant         = "up"
	composeDetachFlagConstant         = "-d"
	stageAllDescriptionConstant       = "Staging files"
	stashDescriptionConstant          = "Stashing staged files"
	checkoutDefaultDescriptionTmpl    = "Checking out to %s"
	pullDescriptionTemplateConstant   = "Pulling changes from %s"
	checkoutOriginalDescriptionTmpl   = "Going back to original branch %s"
	popStashDescriptionConstant       = "Popping stash"
	commitDescriptionTemplateConstant = "Committing staged changes to %s"
	pushDescriptionTemplateConstant   = "Pushing committed changes to %s"
	stopStackDescriptionConstant      = "Taking instance down"
	startStackDescriptionConstant     = "Launching a new instance"
)

// StepBindings carries the resolved values threaded into step arguments.
type StepBindings struct {
	DefaultBranch       string
	CurrentBranch       string
	CommitMessage       string
	RemoteName          string
	ContainerExecutable execshell.CommandName
}

type stepTemplate func(bindings StepBindings) Step

// WorkflowKey identifies a catalog entry.
type WorkflowKey struct {
	Target Target
	Action Action
}

// Workflow is an ordered list of step templates plus the inputs it needs.
type Workflow struct {
	Key                   WorkflowKey
	RequiresDefaults      bool
	RequiresCurrentBranch bool
	RequiresMessage       bool
	templates             []stepTemplate
}

// Plan renders the workflow steps for the provided bindings.
func (workflow Workflow) Plan(bindings StepBindings) []Step {
	if len(bindings.RemoteName) == 0 {
		bindings.RemoteName = DefaultRemoteName
	}
	if len(bindings.ContainerExecutable) == 0 {
		bindings.ContainerExecutable = DefaultContainerExecutable
	}

	steps := make([]Step, 0, len(workflow.templates))
	for _, template := range workflow.templates {
		steps = append(steps, template(bindings))
	}
	return steps
}

var workflowCatalog = map[WorkflowKey]Workflow{
	{Target: TargetDocker, Action: ActionDown}: {
		templates: []stepTemplate{stopStackStep},
	},
	{Target: TargetDocker, Action: ActionUp}: {
		templates: []stepTemplate{startStackStep},
	},
	{Target: TargetDocker, Action: ActionReset}: {
		templates: []stepTemplate{stopStackStep, startStackStep},
	},
	{Target: TargetRepository, Action: ActionReset}: {
		RequiresDefaults:      true,
		RequiresCurrentBranch: true,
		templates: []stepTemplate{
			stageAllStep,
			stashStep,
			checkoutDefaultBranchStep,
			pullDefaultBranchStep,
			checkoutOriginalBranchStep,
			popStashStep,
		},
	},
	{Target: TargetRepository, Action: ActionCommit}: {
		RequiresDefaults:      true,
		RequiresCurrentBranch: true,
		RequiresMessage:       true,
		templates:             []stepTemplate{commitStep},
	},
	{Target: TargetRepository, Action: ActionPush}: {
		RequiresDefaults:      true,
		RequiresCurrentBranch: true,
		templates:             []stepTemplate{pushCurrentBranchStep},
	},
	{Target: TargetRepository, Action: ActionPull}: {
		RequiresDefaults:      true,
		RequiresCurrentBranch: true,
		templates: []stepTemplate{
			stageAllStep,
			stashStep,
			pullCurrentBranchStep,
			popStashStep,
		},
	},
}

// LookupWorkflow returns the catalog entry for the pair or ErrInvalidArgument.
func LookupWorkflow(target Target, action Action) (Workflow, error) {
	key := WorkflowKey{Target: target, Action: action}
	workflow, exists := workflowCatalog[key]
	if !exists {
		return Workflow{}, fmt.Errorf(unsupportedWorkflowTemplateConstant, ErrInvalidArgument, target, action)
	}
	workflow.Key = key
	return workflow, nil
}

func stageAllStep(StepBindings) Step {
	return gitStep(StepNameStageAll, stageAllDescriptionConstant, gitAddArgumentConstant, gitAllPathspecConstant)
}

func stashStep(StepBindings) Step {
	return gitStep(StepNameStash, stashDescriptionConstant, gitStashArgumentConstant)
}

func checkoutDefaultBranchStep(bindings StepBindings) Step {
	return gitStep(StepNameCheckoutDefaultBranch, fmt.Sprintf(checkoutDefaultDescriptionTmpl, bindings.DefaultBranch), gitCheckoutArgumentConstant, bindings.DefaultBranch)
}

func pullDefaultBranchStep(bindings StepBindings) Step {
	return gitStep(StepNamePullDefaultBranch, fmt.Sprintf(pullDescriptionTemplateConstant, bindings.DefaultBranch), gitPullArgumentConstant, bindings.RemoteName, bindings.DefaultBranch)
}

func checkoutOriginalBranchStep(bindings StepBindings) Step {
	return gitStep(StepNameCheckoutOriginalBranch, fmt.Sprintf(checkoutOriginalDescriptionTmpl, bindings.CurrentBranch), gitCheckoutArgumentConstant, bindings.CurrentBranch)
}

func popStashStep(StepBindings) Step {
	return gitStep(StepNamePopStash, popStashDescriptionConstant, gitStashArgumentConstant, gitPopArgumentConstant)
}

func commitStep(bindings StepBindings) Step {
	return gitStep(StepNameCommit, fmt.Sprintf(commitDescriptionTemplateConstant, bindings.CurrentBranch), gitCommitArgumentConstant, gitMessageFlagConstant, bindings.CommitMessage)
}

func pushCurrentBranchStep(bindings StepBindings) Step {
	return gitStep(StepNamePushCurrentBranch, fmt.Sprintf(pushDescriptionTemplateConstant, bindings.CurrentBranch), gitPushArgumentConstant, bindings.RemoteName, bindings.CurrentBranch)
}

func pullCurrentBranchStep(bindings StepBindings) Step {
	return gitStep(StepNamePullCurrentBranch, fmt.Sprintf(pullDescriptionTemplateConstant, bindings.CurrentBranch), gitPullArgumentConstant, bindings.RemoteName, bindings.CurrentBranch)
}

func stopStackStep(bindings StepBindings) Step {
	return Step{
		Name:        StepNameStopStack,
		Description: stopStackDescriptionConstant,
		Executable:  bindings.ContainerExecutable,
		Arguments:   []string{composeSubcommandConstant, composeDownArgumentConstant},
	}
}

func startStackStep(bindings StepBindings) Step {
	return Step{
		Name:        StepNameStartStack,
		Description: startStackDescriptionConstant,
		Executable:  bindings.ContainerExecutable,
		Arguments:   []string{composeSubcommandConstant, composeUpArgumentConstant, composeDetachFlagConstant},
	}
}

func gitStep(name string, description string, arguments ...string) Step {
	return Step{Name: name, Description: description, Executable: execshell.CommandGit, Arguments: arguments}
}
