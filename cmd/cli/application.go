package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/laterem/internal/execshell"
	"github.com/temirov/laterem/internal/gitrepo"
	"github.com/temirov/laterem/internal/ui"
	"github.com/temirov/laterem/internal/utils"
	flagutils "github.com/temirov/laterem/internal/utils/flags"
	"github.com/temirov/laterem/internal/workflow"
)

const (
	applicationNameConstant                 = "laterem"
	applicationUseConstant                  = applicationNameConstant + " <target> [action] [message...]"
	applicationShortDescriptionConstant     = "Run git and docker compose workflows as single commands"
	applicationLongDescriptionConstant      = "laterem replaces manual sequences of git and docker compose invocations.\n\nTargets: docker (d), repository (r).\nActions: reset (r), down (d), up (u), commit (c), push, pull. The default action is reset.\nAliases match exactly; any other target selects repository and any other action selects reset.\n\nWords after the action extend the commit message. Place them after -- when they start with a dash:\n  laterem r c -- fix -x handling"
	argumentsFlagNameConstant               = "args"
	argumentsFlagShorthandConstant          = "a"
	argumentsFlagUsageConstant              = "Free-form argument, repeatable; commit joins them into the message."
	configFileFlagNameConstant              = "config"
	configFileFlagShorthandConstant         = "c"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	directoryFlagNameConstant               = "directory"
	directoryFlagShorthandConstant          = "C"
	directoryFlagUsageConstant              = "Run the workflow in this directory instead of the current one."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	environmentPrefixConstant               = "LATEREM"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
	wiringErrorTemplateConstant             = "unable to assemble workflow engine: %w"
	rootCommandInfoMessageConstant          = "laterem run"
	runFinishedMessageConstant              = "laterem run finished"
	logFieldTargetConstant                  = "target"
	logFieldActionConstant                  = "action"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldCompletedStepsConstant          = "completed_steps"
	logFieldPlannedStepsConstant            = "planned_steps"
	logFieldFailureKindConstant             = "failure_kind"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationSearchPathConstant     = "$HOME/.config/laterem"
	emptyStringConstant                     = ""
)

// ReportedError marks a run failure that was already rendered to the user.
type ReportedError struct {
	Err error
}

// Error returns the underlying message.
func (reportedError ReportedError) Error() string {
	return reportedError.Err.Error()
}

// Unwrap exposes the run failure.
func (reportedError ReportedError) Unwrap() error {
	return reportedError.Err
}

// Application wires the Cobra root command, configuration loader, structured logger, and workflow engine.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	directoryFlagValue     string
	argumentValues         []string
	logLevelFlagValue      *flagutils.ChoiceValue
	logFormatFlagValue     *flagutils.ChoiceValue
	commandContextAccessor utils.CommandContextAccessor
	commandRunner          execshell.CommandRunner
	repositoryLocator      workflow.RepositoryLocator
	versionResolver        func(context.Context) string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		commandRunner:          execshell.NewOSCommandRunner(),
		repositoryLocator:      gitrepo.NewInspector(),
		versionResolver:        resolveApplicationVersion,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUseConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	flagSet := cobraCommand.Flags()
	flagSet.StringArrayVarP(&application.argumentValues, argumentsFlagNameConstant, argumentsFlagShorthandConstant, nil, argumentsFlagUsageConstant)
	flagSet.StringVarP(&application.directoryFlagValue, directoryFlagNameConstant, directoryFlagShorthandConstant, emptyStringConstant, directoryFlagUsageConstant)

	persistentFlagSet := cobraCommand.PersistentFlags()
	persistentFlagSet.StringVarP(&application.configurationFilePath, configFileFlagNameConstant, configFileFlagShorthandConstant, emptyStringConstant, configFileFlagUsageConstant)
	application.logLevelFlagValue = flagutils.BindChoiceFlag(persistentFlagSet, logLevelFlagNameConstant, string(utils.LogLevelInfo), utils.LogLevelNames(), logLevelFlagUsageConstant)
	application.logFormatFlagValue = flagutils.BindChoiceFlag(persistentFlagSet, logFormatFlagNameConstant, string(utils.LogFormatConsole), utils.LogFormatNames(), logFormatFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command and flushes the logger.
func (application *Application) Execute() error {
	application.rootCommand.Version = application.versionResolver(application.rootCommand.Context())
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue.String()
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue.String()
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(utils.LoggerOptions{
		Level:    utils.LogLevel(application.configuration.Common.LogLevel),
		Format:   utils.LogFormat(application.configuration.Common.LogFormat),
		FilePath: application.configuration.Common.LogFile,
	})
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	workingDirectory, workingDirectoryError := application.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
		updatedContext = application.commandContextAccessor.WithWorkingDirectory(updatedContext, workingDirectory)
		command.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	executionContext := command.Context()
	workingDirectory, _ := application.commandContextAccessor.WorkingDirectory(executionContext)
	configurationPath, _ := application.commandContextAccessor.ConfigurationFilePath(executionContext)

	request := buildRunRequest(arguments, application.argumentValues)
	request.WorkingDirectory = workingDirectory
	request.ConfigurationPath = configurationPath

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldTargetConstant, request.Target.String()),
		zap.String(logFieldActionConstant, request.Action.String()),
		zap.String(logFieldWorkingDirectoryConstant, request.WorkingDirectory),
	)

	output := utils.NewFlushingWriter(command.OutOrStdout())
	styled := ui.IsTerminal(output)

	engine, wiringError := application.buildEngine(output, styled)
	if wiringError != nil {
		return fmt.Errorf(wiringErrorTemplateConstant, wiringError)
	}

	report, runError := engine.Run(executionContext, request)

	application.logger.Debug(
		runFinishedMessageConstant,
		zap.Int(logFieldCompletedStepsConstant, report.CompletedCount()),
		zap.Int(logFieldPlannedStepsConstant, report.PlannedCount()),
		zap.String(logFieldFailureKindConstant, string(workflow.Classify(runError))),
	)

	ui.NewResultReporter(output, styled).Report(report, runError)
	if runError != nil {
		return ReportedError{Err: runError}
	}
	return nil
}

func (application *Application) buildEngine(output io.Writer, styled bool) (*workflow.Engine, error) {
	var commandObservers []execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		commandObservers = append(commandObservers, ui.NewConsoleCommandEventLogger(application.logger))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, application.commandRunner, commandObservers...)
	if executorError != nil {
		return nil, executorError
	}

	outputPipe, pipeError := execshell.NewBufferedPipe(shellExecutor, application.configuration.Engine.PipeBufferLimit)
	if pipeError != nil {
		return nil, pipeError
	}

	defaultResolver, resolverError := workflow.NewDefaultResolver(outputPipe, application.configuration.Engine.Remote)
	if resolverError != nil {
		return nil, resolverError
	}

	dispatcherOptions := application.configuration.Engine.DispatcherOptions()
	progressPrinter := ui.NewStepProgressPrinter(output, styled, dispatcherOptions.ContinueOnStepFailure)
	dispatcher, dispatcherError := workflow.NewDispatcher(shellExecutor, dispatcherOptions, progressPrinter)
	if dispatcherError != nil {
		return nil, dispatcherError
	}

	return workflow.NewEngine(workflow.Dependencies{
		Logger:            application.logger,
		Dispatcher:        dispatcher,
		DefaultsResolver:  defaultResolver,
		RepositoryLocator: application.repositoryLocator,
	})
}

// buildRunRequest parses positional arguments. Positional values after the action are appended to the
// --args values so `laterem r c fix bug` commits "fix bug".
func buildRunRequest(positionalArguments []string, flagArguments []string) workflow.RunRequest {
	request := workflow.RunRequest{Target: workflow.TargetRepository, Action: workflow.ActionReset}
	if len(positionalArguments) > 0 {
		request.Target = ParseTarget(positionalArguments[0])
	}
	if len(positionalArguments) > 1 {
		request.Action = ParseAction(positionalArguments[1])
	}

	request.Arguments = append([]string{}, flagArguments...)
	if len(positionalArguments) > 2 {
		request.Arguments = append(request.Arguments, positionalArguments[2:]...)
	}
	return request
}

func (application *Application) resolveWorkingDirectory() (string, error) {
	trimmedDirectory := strings.TrimSpace(application.directoryFlagValue)
	if len(trimmedDirectory) > 0 {
		absoluteDirectory, absoluteError := filepath.Abs(trimmedDirectory)
		if absoluteError != nil {
			return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, absoluteError)
		}
		return absoluteDirectory, nil
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
