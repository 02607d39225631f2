package timelines

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/resolve"
	"github.com/editkit/resolve-otio/internal/ui"
)

const (
	listCommandUseConstant              = "list"
	listCommandShortDescriptionConstant = "List timelines in the open project"
	listCommandLongDescriptionConstant  = "list enumerates every timeline of the currently open project in project order."

	exportCommandUseConstant              = "export <timelineName> <outputPath>"
	exportCommandShortDescriptionConstant = "Export a timeline to an interchange file"
	exportCommandLongDescriptionConstant  = "export writes the named timeline to an OpenTimelineIO file, appending the .otio extension when the destination has none."

	importCommandUseConstant              = "import <inputPath> [timelineName]"
	importCommandShortDescriptionConstant = "Import an interchange file as a new timeline"
	importCommandLongDescriptionConstant  = "import loads an OpenTimelineIO file as a new timeline, relinks source clips from the file's directory, and makes the new timeline current."

	exportArgumentCountConstant        = 2
	importMinimumArgumentCountConstant = 1
	importMaximumArgumentCountConstant = 2

	connectorResolverMissingMessageConstant = "connector resolver not configured"

	timelineCountSingularTemplateConstant  = "%d timeline in the open project"
	timelineCountPluralTemplateConstant    = "%d timelines in the open project"
	timelineRowTemplateConstant            = "%3d. %s (frames %d-%d, duration %d)"
	exportSuccessTemplateConstant          = "Exported timeline %q to %s"
	importSuccessTemplateConstant          = "Imported %s as timeline %q"
	importTimelineCurrentMessageConstant   = "Timeline set as current timeline"
	importTrackSummaryTemplateConstant     = "Video tracks: %d, audio tracks: %d"
	importItemSummaryTemplateConstant      = "Timeline items: %d total, %d media-based"
	importPreImportSummaryTemplateConstant = "Pre-imported %d media files from the source directory"
	importRelinkSummaryTemplateConstant    = "Relinked %d offline clips"
)

// ConnectorResolver supplies the connector used to reach the application.
type ConnectorResolver func() (resolve.Connector, error)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current timelines configuration.
type ConfigurationProvider func() Configuration

// DebugProvider reports whether full diagnostic detail was requested.
type DebugProvider func() bool

// CommandBuilder assembles the timeline subcommands.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ConnectorResolver     ConnectorResolver
	DebugProvider         DebugProvider
	FileSystem            afero.Fs
}

// BuildListCommand constructs the list subcommand.
func (builder *CommandBuilder) BuildListCommand() (*cobra.Command, error) {
	listCommand := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}
	return listCommand, nil
}

// BuildExportCommand constructs the export subcommand.
func (builder *CommandBuilder) BuildExportCommand() (*cobra.Command, error) {
	exportCommand := &cobra.Command{
		Use:   exportCommandUseConstant,
		Short: exportCommandShortDescriptionConstant,
		Long:  exportCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(exportArgumentCountConstant),
		RunE:  builder.runExport,
	}
	return exportCommand, nil
}

// BuildImportCommand constructs the import subcommand.
func (builder *CommandBuilder) BuildImportCommand() (*cobra.Command, error) {
	importCommand := &cobra.Command{
		Use:   importCommandUseConstant,
		Short: importCommandShortDescriptionConstant,
		Long:  importCommandLongDescriptionConstant,
		Args:  cobra.RangeArgs(importMinimumArgumentCountConstant, importMaximumArgumentCountConstant),
		RunE:  builder.runImport,
	}
	return importCommand, nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	timelineService, serviceError := builder.resolveService()
	if serviceError != nil {
		return serviceError
	}

	timelineRecords, listError := timelineService.List(command.Context())
	if listError != nil {
		return builder.terminalError(listError)
	}

	printer := ui.NewPrinter(command.OutOrStdout())
	printer.Plain(timelineCountTemplate(len(timelineRecords)), len(timelineRecords))
	for recordPosition, timelineRecord := range timelineRecords {
		printer.Plain(
			timelineRowTemplateConstant,
			recordPosition+1,
			timelineRecord.Name,
			timelineRecord.StartFrame,
			timelineRecord.EndFrame,
			timelineRecord.Duration(),
		)
	}

	return nil
}

func (builder *CommandBuilder) runExport(command *cobra.Command, arguments []string) error {
	timelineService, serviceError := builder.resolveService()
	if serviceError != nil {
		return serviceError
	}

	destinationPath := arguments[1]
	configuration := builder.resolveConfiguration()
	if len(configuration.Export.DefaultDirectory) > 0 && !filepath.IsAbs(destinationPath) && destinationPath == filepath.Base(destinationPath) {
		destinationPath = filepath.Join(configuration.Export.DefaultDirectory, destinationPath)
	}

	exportOptions := ExportOptions{
		TimelineName:    arguments[0],
		DestinationPath: destinationPath,
	}
	exportResult, exportError := timelineService.Export(command.Context(), exportOptions)
	if exportError != nil {
		return builder.terminalError(exportError)
	}

	printer := ui.NewPrinter(command.OutOrStdout())
	printer.Success(exportSuccessTemplateConstant, exportOptions.TimelineName, exportResult.DestinationPath)

	return nil
}

func (builder *CommandBuilder) runImport(command *cobra.Command, arguments []string) error {
	timelineService, serviceError := builder.resolveService()
	if serviceError != nil {
		return serviceError
	}

	importOptions := ImportOptions{
		SourcePath:        arguments[0],
		RelinkSourceClips: builder.resolveConfiguration().Import.RelinkSourceClips,
	}
	if len(arguments) > importMinimumArgumentCountConstant {
		importOptions.TimelineName = arguments[1]
	}

	importReport, importError := timelineService.Import(command.Context(), importOptions)
	if importError != nil {
		return builder.terminalError(importError)
	}

	printer := ui.NewPrinter(command.OutOrStdout())
	printer.Success(importSuccessTemplateConstant, importOptions.SourcePath, importReport.Timeline.Name)
	printer.Success(importTimelineCurrentMessageConstant)
	printer.Plain(importTrackSummaryTemplateConstant, importReport.VideoTracks, importReport.AudioTracks)
	printer.Plain(importItemSummaryTemplateConstant, importReport.TotalItems, importReport.MediaItems)
	if importReport.PreImportedMedia > 0 {
		printer.Plain(importPreImportSummaryTemplateConstant, importReport.PreImportedMedia)
	}
	if importReport.RelinkedClips > 0 {
		printer.Plain(importRelinkSummaryTemplateConstant, importReport.RelinkedClips)
	}

	return nil
}

func (builder *CommandBuilder) resolveService() (*Service, error) {
	if builder.ConnectorResolver == nil {
		return nil, errors.New(connectorResolverMissingMessageConstant)
	}

	connector, connectorError := builder.ConnectorResolver()
	if connectorError != nil {
		return nil, builder.terminalError(connectorError)
	}

	return NewService(connector, builder.FileSystem, builder.resolveLogger())
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

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{Import: ImportConfiguration{RelinkSourceClips: defaultRelinkSourceClipsConstant}}
	}
	return builder.ConfigurationProvider().Sanitize()
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

func timelineCountTemplate(timelineCount int) string {
	if timelineCount == 1 {
		return timelineCountSingularTemplateConstant
	}
	return timelineCountPluralTemplateConstant
}
