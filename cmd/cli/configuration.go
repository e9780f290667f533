package cli

import (
	"time"

	"github.com/temirov/laterem/internal/execshell"
	"github.com/temirov/laterem/internal/utils"
	"github.com/temirov/laterem/internal/workflow"
)

const (
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant           = commonConfigurationKeyConstant + ".log_file"
	engineConfigurationKeyConstant           = "engine"
	engineRemoteConfigKeyConstant            = engineConfigurationKeyConstant + ".remote"
	engineDockerCommandConfigKeyConstant     = engineConfigurationKeyConstant + ".docker_command"
	engineStepTimeoutConfigKeyConstant       = engineConfigurationKeyConstant + ".step_timeout"
	engineContinueOnFailureConfigKeyConstant = engineConfigurationKeyConstant + ".continue_on_step_failure"
	enginePipeBufferLimitConfigKeyConstant   = engineConfigurationKeyConstant + ".pipe_buffer_limit"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Engine EngineConfiguration            `mapstructure:"engine"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// EngineConfiguration tunes workflow execution.
type EngineConfiguration struct {
	Remote                string        `mapstructure:"remote"`
	DockerCommand         string        `mapstructure:"docker_command"`
	StepTimeout           time.Duration `mapstructure:"step_timeout"`
	ContinueOnStepFailure bool          `mapstructure:"continue_on_step_failure"`
	PipeBufferLimit       int           `mapstructure:"pipe_buffer_limit"`
}

// DispatcherOptions converts the engine configuration into dispatcher options.
func (configuration EngineConfiguration) DispatcherOptions() workflow.DispatcherOptions {
	return workflow.DispatcherOptions{
		RemoteName:            configuration.Remote,
		ContainerExecutable:   execshell.CommandName(configuration.DockerCommand),
		StepTimeout:           configuration.StepTimeout,
		ContinueOnStepFailure: configuration.ContinueOnStepFailure,
	}
}

func defaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:          string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:         string(utils.LogFormatConsole),
		commonLogFileConfigKeyConstant:           "",
		engineRemoteConfigKeyConstant:            workflow.DefaultRemoteName,
		engineDockerCommandConfigKeyConstant:     string(workflow.DefaultContainerExecutable),
		engineStepTimeoutConfigKeyConstant:       "0s",
		engineContinueOnFailureConfigKeyConstant: false,
		enginePipeBufferLimitConfigKeyConstant:   execshell.DefaultPipeBufferLimitBytes,
	}
}
