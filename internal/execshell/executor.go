package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultPythonInterpreterConstant        = "python3"
	commandRunnerMissingMessageConstant     = "command runner not configured"
	loggerMissingMessageConstant            = "logger not configured"
	commandStartedMessageConstant           = "interpreter command started"
	commandCompletedMessageConstant         = "interpreter command completed"
	commandFailedMessageConstant            = "interpreter command failed"
	logFieldInterpreterConstant             = "interpreter"
	logFieldArgumentsConstant               = "arguments"
	logFieldExitCodeConstant                = "exit_code"
	logFieldStandardErrorConstant           = "standard_error"
	logFieldEnvironmentVariableKeysConstant = "environment_variable_keys"
	commandFailureTemplateConstant          = "%s %s failed: %w"
	commandArgumentsJoinSeparatorConstant   = " "
)

// InterpreterName identifies the executable used to reach the scripting bridge.
type InterpreterName string

// DefaultPythonInterpreter is used when configuration does not override the interpreter.
const DefaultPythonInterpreter InterpreterName = InterpreterName(defaultPythonInterpreterConstant)

// CommandDetails describes a single interpreter invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an interpreter with invocation details.
type ShellCommand struct {
	Name    InterpreterName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of an executed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ShellExecutor coordinates interpreter invocations with structured logging.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
}

// NewShellExecutor constructs a ShellExecutor around the provided runner.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, errors.New(loggerMissingMessageConstant)
	}
	if commandRunner == nil {
		return nil, errors.New(commandRunnerMissingMessageConstant)
	}
	return &ShellExecutor{logger: logger, commandRunner: commandRunner}, nil
}

// ExecuteInterpreter runs the configured interpreter with the provided details.
func (executor *ShellExecutor) ExecuteInterpreter(executionContext context.Context, interpreter InterpreterName, details CommandDetails) (ExecutionResult, error) {
	command := ShellCommand{Name: interpreter, Details: details}

	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldInterpreterConstant, string(command.Name)),
		zap.String(logFieldArgumentsConstant, joinCommandArguments(command.Details.Arguments)),
		zap.Strings(logFieldEnvironmentVariableKeysConstant, environmentVariableKeys(command.Details.EnvironmentVariables)),
	)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(
			commandFailedMessageConstant,
			zap.String(logFieldInterpreterConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, fmt.Errorf(commandFailureTemplateConstant, command.Name, joinCommandArguments(command.Details.Arguments), runError)
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldInterpreterConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.String(logFieldStandardErrorConstant, executionResult.StandardError),
	)

	return executionResult, nil
}

func joinCommandArguments(commandArguments []string) string {
	return strings.Join(commandArguments, commandArgumentsJoinSeparatorConstant)
}

func environmentVariableKeys(environmentVariables map[string]string) []string {
	variableKeys := make([]string, 0, len(environmentVariables))
	for variableKey := range environmentVariables {
		variableKeys = append(variableKeys, variableKey)
	}
	return variableKeys
}
