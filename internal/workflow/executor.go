package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	engineDependenciesMessageConstant   = "workflow engine requires a dispatcher and a defaults resolver"
	notRepositoryErrorTemplateConstant  = "%w: %s: %w"
	defaultsResolutionErrorTemplate     = "failed to resolve repository defaults: %w"
	logMessageRunRequestedConstant      = "workflow run requested"
	logMessageDefaultsResolvedConstant  = "repository defaults resolved"
	logMessageRepositoryLocatedConstant = "repository located"
	logFieldTargetConstant              = "target"
	logFieldActionConstant              = "action"
	logFieldWorkingDirectoryConstant    = "working_directory"
	logFieldDefaultBranchConstant       = "default_branch"
	logFieldRepositoryRootConstant      = "repository_root"
	logFieldArgumentCountConstant       = "argument_count"
)

// ErrEngineDependenciesMissing indicates the engine was constructed without collaborators.
var ErrEngineDependenciesMissing = errors.New(engineDependenciesMessageConstant)

// RepositoryLocator confirms a directory belongs to a git work tree.
type RepositoryLocator interface {
	LocateRepository(path string) (string, error)
}

// RunDispatcher validates and executes catalog workflows.
type RunDispatcher interface {
	Validate(request RunRequest) (Workflow, error)
	Dispatch(executionContext context.Context, request RunRequest) (RunReport, error)
}

// Dependencies configures shared collaborators for the engine.
type Dependencies struct {
	Logger            *zap.Logger
	Dispatcher        RunDispatcher
	DefaultsResolver  DefaultsResolver
	RepositoryLocator RepositoryLocator
}

// Engine validates a request, resolves repository defaults when needed, and dispatches the workflow.
type Engine struct {
	dependencies Dependencies
}

// NewEngine constructs an Engine.
func NewEngine(dependencies Dependencies) (*Engine, error) {
	if dependencies.Dispatcher == nil || dependencies.DefaultsResolver == nil {
		return nil, ErrEngineDependenciesMissing
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Engine{dependencies: dependencies}, nil
}

// Run executes the request. Validation failures surface before any process is spawned.
func (engine *Engine) Run(executionContext context.Context, request RunRequest) (RunReport, error) {
	report := RunReport{Target: request.Target, Action: request.Action}

	engine.dependencies.Logger.Debug(
		logMessageRunRequestedConstant,
		zap.String(logFieldTargetConstant, request.Target.String()),
		zap.String(logFieldActionConstant, request.Action.String()),
		zap.String(logFieldWorkingDirectoryConstant, request.WorkingDirectory),
		zap.Int(logFieldArgumentCountConstant, len(request.Arguments)),
	)

	workflow, validationError := engine.dependencies.Dispatcher.Validate(request)
	if validationError != nil {
		return report, validationError
	}

	if workflow.RequiresDefaults && request.Defaults == nil {
		if engine.dependencies.RepositoryLocator != nil {
			repositoryRoot, locateError := engine.dependencies.RepositoryLocator.LocateRepository(request.WorkingDirectory)
			if locateError != nil {
				return report, fmt.Errorf(notRepositoryErrorTemplateConstant, ErrNotRepository, request.WorkingDirectory, locateError)
			}
			engine.dependencies.Logger.Debug(logMessageRepositoryLocatedConstant, zap.String(logFieldRepositoryRootConstant, repositoryRoot))
		}

		defaults, resolveError := engine.dependencies.DefaultsResolver.Resolve(executionContext, request.WorkingDirectory)
		if resolveError != nil {
			return report, fmt.Errorf(defaultsResolutionErrorTemplate, resolveError)
		}
		engine.dependencies.Logger.Debug(logMessageDefaultsResolvedConstant, zap.String(logFieldDefaultBranchConstant, defaults.DefaultBranch))
		request.Defaults = &defaults
	}

	return engine.dependencies.Dispatcher.Dispatch(executionContext, request)
}
