package diagnose

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/resolve"
	"github.com/editkit/resolve-otio/internal/ui"
)

const (
	checkCommandUseConstant              = "check"
	checkCommandShortDescriptionConstant = "Verify the connection to DaVinci Resolve"
	checkCommandLongDescriptionConstant  = "check connects to the running application and reports its version, the open project, and the current timeline."

	connectorResolverMissingMessageConstant = "connector resolver not configured"

	connectedMessageTemplateConstant       = "Connected to DaVinci Resolve %s"
	currentProjectMessageTemplateConstant  = "Current project: %s"
	noProjectOpenMessageConstant           = "No project is currently open"
	currentTimelineMessageTemplateConstant = "Current timeline: %s (frames %d-%d, duration %d)"
	noTimelineOpenMessageConstant          = "No timeline is currently open"
)

// ConnectorResolver supplies the connector used to reach the application.
type ConnectorResolver func() (resolve.Connector, error)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// DebugProvider reports whether full diagnostic detail was requested.
type DebugProvider func() bool

// CommandBuilder assembles the check command.
type CommandBuilder struct {
	LoggerProvider    LoggerProvider
	ConnectorResolver ConnectorResolver
	DebugProvider     DebugProvider
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	checkCommand := &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortDescriptionConstant,
		Long:  checkCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runCheck,
	}
	return checkCommand, nil
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, _ []string) error {
	if builder.ConnectorResolver == nil {
		return errors.New(connectorResolverMissingMessageConstant)
	}

	connector, connectorError := builder.ConnectorResolver()
	if connectorError != nil {
		return builder.terminalError(connectorError)
	}

	diagnosticService, serviceError := NewService(connector, builder.resolveLogger())
	if serviceError != nil {
		return serviceError
	}

	projectStatus, runError := diagnosticService.Run(command.Context())
	if runError != nil {
		return builder.terminalError(runError)
	}

	printer := ui.NewPrinter(command.OutOrStdout())
	printer.Success(connectedMessageTemplateConstant, projectStatus.Version)

	if !projectStatus.ProjectOpen {
		printer.Warning(noProjectOpenMessageConstant)
		return nil
	}

	printer.Success(currentProjectMessageTemplateConstant, projectStatus.ProjectName)

	if projectStatus.CurrentTimeline == nil {
		printer.Warning(noTimelineOpenMessageConstant)
		return nil
	}

	currentTimeline := projectStatus.CurrentTimeline
	printer.Success(
		currentTimelineMessageTemplateConstant,
		currentTimeline.Name,
		currentTimeline.StartFrame,
		currentTimeline.EndFrame,
		currentTimeline.Duration(),
	)

	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) debugEnabled() bool {
	if builder.DebugProvider == nil {
		return false
	}
	return builder.DebugProvider()
}

func (builder *CommandBuilder) terminalError(commandError error) error {
	return errors.New(ui.FormatTerminalError(commandError, builder.debugEnabled()))
}
