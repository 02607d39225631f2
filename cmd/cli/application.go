package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/bootstrap"
	"github.com/editkit/resolve-otio/internal/diagnose"
	"github.com/editkit/resolve-otio/internal/execshell"
	"github.com/editkit/resolve-otio/internal/resolve"
	"github.com/editkit/resolve-otio/internal/resolve/pybridge"
	"github.com/editkit/resolve-otio/internal/timelines"
	"github.com/editkit/resolve-otio/internal/utils"
)

const (
	applicationNameConstant             = "resolve-otio"
	applicationShortDescriptionConstant = "Command-line bridge between DaVinci Resolve and OpenTimelineIO"
	applicationLongDescriptionConstant  = "resolve-otio drives the DaVinci Resolve scripting interface to diagnose connectivity and to move timelines to and from OpenTimelineIO files."

	configFileFlagNameConstant  = "config"
	configFileFlagUsageConstant = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant    = "log-level"
	logLevelFlagUsageConstant   = "Override the configured log level."
	logFormatFlagNameConstant   = "log-format"
	logFormatFlagUsageConstant  = "Override the configured log format (structured or console)."
	debugFlagNameConstant       = "debug"
	debugFlagUsageConstant      = "Print full diagnostic detail for failures."

	commonConfigurationKeyConstant     = "common"
	commonLogLevelConfigKeyConstant    = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant   = commonConfigurationKeyConstant + ".log_format"
	bridgeConfigurationKeyConstant     = "bridge"
	bridgeInterpreterConfigKeyConstant = bridgeConfigurationKeyConstant + ".python_interpreter"
	bridgeScriptAPIConfigKeyConstant   = bridgeConfigurationKeyConstant + ".script_api_path"
	bridgeScriptLibConfigKeyConstant   = bridgeConfigurationKeyConstant + ".script_lib_path"
	timelinesConfigurationKeyConstant  = "tools.timelines"

	environmentPrefixConstant              = "RESOLVEOTIO"
	configurationNameConstant              = "config"
	configurationTypeConstant              = "yaml"
	defaultConfigurationSearchPathConstant = "."

	programDataVariableNameConstant  = "PROGRAMDATA"
	programFilesVariableNameConstant = "PROGRAMFILES"

	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	configurationInvalidTemplateConstant    = "invalid configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common" validate:"required"`
	Bridge BridgeConfiguration            `mapstructure:"bridge"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=structured console"`
}

// BridgeConfiguration overrides the detected vendor installation layout.
type BridgeConfiguration struct {
	PythonInterpreter string `mapstructure:"python_interpreter"`
	ScriptAPIPath     string `mapstructure:"script_api_path"`
	ScriptLibPath     string `mapstructure:"script_lib_path"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Timelines timelines.Configuration `mapstructure:"timelines"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	configurationValidator *validator.Validate
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	debugFlagValue         bool
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		configurationValidator: validator.New(),
		logger:                 zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.debugFlagValue, debugFlagNameConstant, false, debugFlagUsageConstant)

	checkBuilder := diagnose.CommandBuilder{
		LoggerProvider:    application.loggerProvider,
		ConnectorResolver: application.resolveConnector,
		DebugProvider:     application.debugEnabled,
	}
	checkCommand, checkBuildError := checkBuilder.Build()
	if checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	timelinesBuilder := timelines.CommandBuilder{
		LoggerProvider:    application.loggerProvider,
		ConnectorResolver: application.resolveConnector,
		DebugProvider:     application.debugEnabled,
		ConfigurationProvider: func() timelines.Configuration {
			return application.configuration.Tools.Timelines
		},
	}
	listCommand, listBuildError := timelinesBuilder.BuildListCommand()
	if listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}
	exportCommand, exportBuildError := timelinesBuilder.BuildExportCommand()
	if exportBuildError == nil {
		cobraCommand.AddCommand(exportCommand)
	}
	importCommand, importBuildError := timelinesBuilder.BuildImportCommand()
	if importBuildError == nil {
		cobraCommand.AddCommand(importCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	// A missing .env file is the normal case outside development shells.
	_ = godotenv.Load()

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:    string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:   string(utils.LogFormatStructured),
		bridgeInterpreterConfigKeyConstant: string(execshell.DefaultPythonInterpreter),
		bridgeScriptAPIConfigKeyConstant:   "",
		bridgeScriptLibConfigKeyConstant:   "",
	}
	for configurationKey, configurationValue := range timelines.DefaultConfigurationValues(timelinesConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if validationError := application.configurationValidator.Struct(application.configuration); validationError != nil {
		return fmt.Errorf(configurationInvalidTemplateConstant, validationError)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
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

	return nil
}

func (application *Application) loggerProvider() *zap.Logger {
	return application.logger
}

func (application *Application) debugEnabled() bool {
	return application.debugFlagValue
}

// resolveConnector builds the production bridge connector from the detected
// vendor layout and the configured overrides.
func (application *Application) resolveConnector() (resolve.Connector, error) {
	hostDirectories := bootstrap.HostDirectories{
		ProgramData:  os.Getenv(programDataVariableNameConstant),
		ProgramFiles: os.Getenv(programFilesVariableNameConstant),
	}
	layoutOverrides := bootstrap.LayoutOverrides{
		ScriptAPIPath:     application.configuration.Bridge.ScriptAPIPath,
		ScriptLibPath:     application.configuration.Bridge.ScriptLibPath,
		PythonInterpreter: application.configuration.Bridge.PythonInterpreter,
	}

	bridgeEnvironment, detectError := bootstrap.DetectEnvironment(runtime.GOOS, hostDirectories, layoutOverrides)
	if detectError != nil {
		return nil, detectError
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}

	return pybridge.NewConnector(shellExecutor, bridgeEnvironment, afero.NewOsFs(), application.logger)
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
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

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
