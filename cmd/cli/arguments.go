package cli

import "github.com/temirov/laterem/internal/workflow"

var targetAliases = map[string]workflow.Target{
	"docker":     workflow.TargetDocker,
	"d":          workflow.TargetDocker,
	"repository": workflow.TargetRepository,
	"r":          workflow.TargetRepository,
}

var actionAliases = map[string]workflow.Action{
	"reset":  workflow.ActionReset,
	"r":      workflow.ActionReset,
	"down":   workflow.ActionDown,
	"d":      workflow.ActionDown,
	"up":     workflow.ActionUp,
	"u":      workflow.ActionUp,
	"commit": workflow.ActionCommit,
	"c":      workflow.ActionCommit,
	"push":   workflow.ActionPush,
	"pull":   workflow.ActionPull,
}

// ParseTarget maps a target name or alias onto a Target. Matching is exact; unrecognized values select the repository target.
func ParseTarget(value string) workflow.Target {
	if target, known := targetAliases[value]; known {
		return target
	}
	return workflow.TargetRepository
}

// ParseAction maps an action name or alias onto an Action. Matching is exact; unrecognized or empty values select reset.
func ParseAction(value string) workflow.Action {
	if action, known := actionAliases[value]; known {
		return action
	}
	return workflow.ActionReset
}
