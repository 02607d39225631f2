package timelines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/interchange"
	"github.com/editkit/resolve-otio/internal/resolve"
)

const (
	connectorMissingMessageConstant      = "connector not configured"
	serviceLoggerMissingMessageConstant  = "logger not configured"
	timelineNameRequiredMessageConstant  = "timeline name must not be empty"
	destinationRequiredMessageConstant   = "destination path must not be empty"
	sourcePathRequiredMessageConstant    = "source path must not be empty"
	sourceExistenceCheckTemplateConstant = "could not check source file %s: %w"
	unexpectedExtensionWarningConstant   = "source file does not carry the interchange extension"
	exportResolvedMessageConstant        = "timeline resolved for export"
	importVerifiedMessageConstant        = "imported timeline verified"
	logFieldTimelineNameConstant         = "timeline_name"
	logFieldTimelineIndexConstant        = "timeline_index"
	logFieldDestinationPathConstant      = "destination_path"
	logFieldSourcePathConstant           = "source_path"
	logFieldTrackCountConstant           = "track_count"
	logFieldItemCountConstant            = "item_count"
)

// ExportOptions identify the timeline to export and where to write it.
type ExportOptions struct {
	TimelineName    string
	DestinationPath string
}

// ImportOptions describe the interchange file to load.
type ImportOptions struct {
	SourcePath        string
	TimelineName      string
	RelinkSourceClips bool
}

// Service orchestrates timeline listing, export, and import against a connector.
type Service struct {
	connector  resolve.Connector
	fileSystem afero.Fs
	logger     *zap.Logger
}

// NewService constructs a timeline service around the supplied connector.
func NewService(connector resolve.Connector, fileSystem afero.Fs, logger *zap.Logger) (*Service, error) {
	if connector == nil {
		return nil, errors.New(connectorMissingMessageConstant)
	}
	if logger == nil {
		return nil, errors.New(serviceLoggerMissingMessageConstant)
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Service{connector: connector, fileSystem: fileSystem, logger: logger}, nil
}

// List enumerates the open project's timelines in project order.
func (service *Service) List(executionContext context.Context) ([]resolve.TimelineRecord, error) {
	connection, connectError := service.connector.Connect(executionContext)
	if connectError != nil {
		return nil, connectError
	}
	return connection.ListTimelines(executionContext)
}

// Export writes the named timeline to an interchange file.
//
// The timeline name is matched case-sensitively; a missing name fails with an
// error enumerating every available timeline, and a duplicated name fails as
// ambiguous rather than guessing which timeline was meant.
func (service *Service) Export(executionContext context.Context, options ExportOptions) (resolve.ExportResult, error) {
	if len(strings.TrimSpace(options.TimelineName)) == 0 {
		return resolve.ExportResult{}, errors.New(timelineNameRequiredMessageConstant)
	}
	if len(strings.TrimSpace(options.DestinationPath)) == 0 {
		return resolve.ExportResult{}, errors.New(destinationRequiredMessageConstant)
	}

	connection, connectError := service.connector.Connect(executionContext)
	if connectError != nil {
		return resolve.ExportResult{}, connectError
	}

	timelineRecords, listError := connection.ListTimelines(executionContext)
	if listError != nil {
		return resolve.ExportResult{}, listError
	}

	resolvedIndex, resolveError := resolveTimelineIndex(options.TimelineName, timelineRecords)
	if resolveError != nil {
		return resolve.ExportResult{}, resolveError
	}

	destinationPath := interchange.EnsureExtension(options.DestinationPath)
	if directoryError := interchange.EnsureParentDirectory(service.fileSystem, destinationPath); directoryError != nil {
		return resolve.ExportResult{}, directoryError
	}

	service.logger.Debug(
		exportResolvedMessageConstant,
		zap.String(logFieldTimelineNameConstant, options.TimelineName),
		zap.Int(logFieldTimelineIndexConstant, resolvedIndex),
		zap.String(logFieldDestinationPathConstant, destinationPath),
	)

	exportRequest := resolve.ExportRequest{
		TimelineIndex:   resolvedIndex,
		TimelineName:    options.TimelineName,
		DestinationPath: destinationPath,
	}
	return connection.ExportTimeline(executionContext, exportRequest)
}

// Import loads an interchange file as a new timeline and makes it current.
//
// The source file is checked before the connector is touched, and the
// resulting timeline is verified to contain tracks and items because the
// vendor call does not reliably distinguish an empty import from success.
func (service *Service) Import(executionContext context.Context, options ImportOptions) (resolve.ImportReport, error) {
	if len(strings.TrimSpace(options.SourcePath)) == 0 {
		return resolve.ImportReport{}, errors.New(sourcePathRequiredMessageConstant)
	}

	sourceExists, existenceError := afero.Exists(service.fileSystem, options.SourcePath)
	if existenceError != nil {
		return resolve.ImportReport{}, fmt.Errorf(sourceExistenceCheckTemplateConstant, options.SourcePath, existenceError)
	}
	if !sourceExists {
		return resolve.ImportReport{}, resolve.NewFileNotFoundError(options.SourcePath)
	}

	if !interchange.HasInterchangeExtension(options.SourcePath) {
		service.logger.Warn(
			unexpectedExtensionWarningConstant,
			zap.String(logFieldSourcePathConstant, options.SourcePath),
		)
	}

	timelineName := strings.TrimSpace(options.TimelineName)
	if len(timelineName) == 0 {
		timelineName = interchange.DefaultTimelineName(options.SourcePath)
	}

	connection, connectError := service.connector.Connect(executionContext)
	if connectError != nil {
		return resolve.ImportReport{}, connectError
	}

	importRequest := resolve.ImportRequest{
		SourcePath:        options.SourcePath,
		TimelineName:      timelineName,
		SourceDirectory:   interchange.SourceDirectory(options.SourcePath),
		RelinkSourceClips: options.RelinkSourceClips,
	}
	importReport, importError := connection.ImportTimeline(executionContext, importRequest)
	if importError != nil {
		return resolve.ImportReport{}, importError
	}

	if importReport.TrackCount() == 0 || importReport.TotalItems == 0 {
		return resolve.ImportReport{}, resolve.NewEmptyTimelineError(timelineName)
	}

	service.logger.Debug(
		importVerifiedMessageConstant,
		zap.String(logFieldTimelineNameConstant, importReport.Timeline.Name),
		zap.Int(logFieldTrackCountConstant, importReport.TrackCount()),
		zap.Int(logFieldItemCountConstant, importReport.TotalItems),
	)

	return importReport, nil
}

// resolveTimelineIndex locates the 1-indexed position of an exact name match.
func resolveTimelineIndex(requestedName string, timelineRecords []resolve.TimelineRecord) (int, error) {
	matchingIndices := make([]int, 0, 1)
	availableNames := make([]string, 0, len(timelineRecords))
	for recordPosition, timelineRecord := range timelineRecords {
		availableNames = append(availableNames, timelineRecord.Name)
		if timelineRecord.Name == requestedName {
			matchingIndices = append(matchingIndices, recordPosition+1)
		}
	}

	switch len(matchingIndices) {
	case 0:
		return 0, resolve.NewTimelineNotFoundError(requestedName, availableNames)
	case 1:
		return matchingIndices[0], nil
	default:
		return 0, resolve.NewAmbiguousTimelineError(requestedName, len(matchingIndices))
	}
}
