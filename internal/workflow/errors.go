package workflow

import (
	"errors"
	"fmt"

	"github.com/temirov/laterem/internal/execshell"
)

const (
	invalidArgumentMessageConstant          = "invalid argument"
	defaultsNotResolvedMessageConstant      = "repository defaults were not resolved before dispatch"
	defaultBranchUnresolvedMessageConstant  = "remote did not report a default branch"
	currentBranchUnavailableMessageConstant = "current branch unavailable; is HEAD detached?"
	notRepositoryMessageConstant            = "working directory is not inside a git repository"
	stepFailedErrorTemplateConstant         = "step %d of %d (%s) failed: %v"
)

// ErrInvalidArgument indicates an unsupported target/action pair or missing commit message.
var ErrInvalidArgument = errors.New(invalidArgumentMessageConstant)

// ErrDefaultsNotResolved indicates a repository workflow was dispatched without defaults.
var ErrDefaultsNotResolved = errors.New(defaultsNotResolvedMessageConstant)

// ErrDefaultBranchUnresolved indicates the remote description carried no HEAD branch.
var ErrDefaultBranchUnresolved = errors.New(defaultBranchUnresolvedMessageConstant)

// ErrCurrentBranchUnavailable indicates the repository has no checked-out branch.
var ErrCurrentBranchUnavailable = errors.New(currentBranchUnavailableMessageConstant)

// ErrNotRepository indicates a repository workflow was requested outside a repository.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// StepFailedError reports the workflow step that aborted a run.
type StepFailedError struct {
	Step     Step
	Position int
	Total    int
	Err      error
}

// Error describes the failed step and its position in the workflow.
func (stepError *StepFailedError) Error() string {
	return fmt.Sprintf(stepFailedErrorTemplateConstant, stepError.Position, stepError.Total, stepError.Step.Name, stepError.Err)
}

// Unwrap exposes the command error.
func (stepError *StepFailedError) Unwrap() error {
	return stepError.Err
}

// FailureKind classifies why a run ended unsuccessfully.
type FailureKind string

// Failure kinds.
const (
	FailureKindNone                FailureKind = FailureKind("none")
	FailureKindInvalidArgument     FailureKind = FailureKind("invalid_argument")
	FailureKindProcessSpawnFailure FailureKind = FailureKind("process_spawn_failure")
	FailureKindOutputDecodeFailure FailureKind = FailureKind("output_decode_failure")
	FailureKindNonZeroExit         FailureKind = FailureKind("non_zero_exit")
	FailureKindTimeout             FailureKind = FailureKind("timeout")
	FailureKindCanceled            FailureKind = FailureKind("canceled")
	FailureKindUnknown             FailureKind = FailureKind("unknown")
)

// Classify maps an error returned by the workflow package onto a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureKindNone
	}
	if errors.Is(err, ErrInvalidArgument) {
		return FailureKindInvalidArgument
	}

	var interruptedError execshell.CommandInterruptedError
	if errors.As(err, &interruptedError) {
		if interruptedError.TimedOut() {
			return FailureKindTimeout
		}
		return FailureKindCanceled
	}

	var executionError execshell.CommandExecutionError
	if errors.As(err, &executionError) {
		return FailureKindProcessSpawnFailure
	}

	var decodeError execshell.OutputDecodeError
	if errors.As(err, &decodeError) {
		return FailureKindOutputDecodeFailure
	}

	var failedError execshell.CommandFailedError
	if errors.As(err, &failedError) {
		return FailureKindNonZeroExit
	}

	return FailureKindUnknown
}

func isNonZeroExit(err error) bool {
	var failedError execshell.CommandFailedError
	return errors.As(err, &failedError)
}
