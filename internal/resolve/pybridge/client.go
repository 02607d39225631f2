package pybridge

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/bootstrap"
	"github.com/editkit/resolve-otio/internal/execshell"
	"github.com/editkit/resolve-otio/internal/resolve"
)

//go:embed shim.py
var bridgeShimSource []byte

const (
	stdinScriptArgumentConstant              = "-"
	executorMissingMessageConstant           = "shell executor not configured"
	loggerMissingMessageConstant             = "logger not configured"
	modulesPathMissingDetailTemplateConstant = "scripting modules path does not exist: %s"
	requestEncodingErrorTemplateConstant     = "could not encode bridge request: %w"
	responseDecodingErrorTemplateConstant    = "could not decode bridge response: %w"
	payloadDecodingErrorTemplateConstant     = "could not decode %s payload: %w"
	emptyResponseMessageConstant             = "bridge produced no response"
	interpreterExitDetailTemplateConstant    = "interpreter exited with code %d: %s"
	moduleSearchPathVariableConstant         = "PYTHONPATH"
	bridgeOperationMessageConstant           = "bridge operation requested"
	logFieldOperationConstant                = "operation"
)

// Connector launches the embedded shim to reach the running application.
type Connector struct {
	executor    *execshell.ShellExecutor
	environment bootstrap.BridgeEnvironment
	fileSystem  afero.Fs
	logger      *zap.Logger
}

// NewConnector constructs the production connector around a shell executor.
func NewConnector(executor *execshell.ShellExecutor, environment bootstrap.BridgeEnvironment, fileSystem afero.Fs, logger *zap.Logger) (*Connector, error) {
	if executor == nil {
		return nil, errors.New(executorMissingMessageConstant)
	}
	if logger == nil {
		return nil, errors.New(loggerMissingMessageConstant)
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Connector{executor: executor, environment: environment, fileSystem: fileSystem, logger: logger}, nil
}

// Connect verifies the vendor installation and returns a live connection.
//
// The modules directory is checked eagerly so a missing installation fails
// with a remediation hint before any interpreter is spawned.
func (connector *Connector) Connect(executionContext context.Context) (resolve.Connection, error) {
	modulesPathExists, statError := afero.DirExists(connector.fileSystem, connector.environment.ModulesPath)
	if statError != nil {
		return nil, resolve.NewBridgeImportFailedError(
			fmt.Sprintf(modulesPathMissingDetailTemplateConstant, connector.environment.ModulesPath),
			statError,
		)
	}
	if !modulesPathExists {
		return nil, resolve.NewBridgeImportFailedError(
			fmt.Sprintf(modulesPathMissingDetailTemplateConstant, connector.environment.ModulesPath),
			nil,
		)
	}

	return &bridgeConnection{connector: connector}, nil
}

// bridgeConnection issues one shim invocation per operation.
type bridgeConnection struct {
	connector *Connector
}

// Status implements resolve.Connection.
func (connection *bridgeConnection) Status(executionContext context.Context) (resolve.ProjectStatus, error) {
	payload := statusPayload{}
	request := bridgeRequest{Operation: operationStatusConstant}
	if invokeError := connection.invoke(executionContext, request, &payload); invokeError != nil {
		return resolve.ProjectStatus{}, invokeError
	}

	projectStatus := resolve.ProjectStatus{
		Version:     payload.Version,
		ProjectOpen: payload.ProjectOpen,
		ProjectName: payload.ProjectName,
	}
	if payload.CurrentTimeline != nil {
		currentTimeline := payload.CurrentTimeline.toRecord()
		projectStatus.CurrentTimeline = &currentTimeline
	}
	return projectStatus, nil
}

// ListTimelines implements resolve.Connection.
func (connection *bridgeConnection) ListTimelines(executionContext context.Context) ([]resolve.TimelineRecord, error) {
	payload := listPayload{}
	request := bridgeRequest{Operation: operationListConstant}
	if invokeError := connection.invoke(executionContext, request, &payload); invokeError != nil {
		return nil, invokeError
	}

	timelineRecords := make([]resolve.TimelineRecord, 0, len(payload.Timelines))
	for _, timelineEntry := range payload.Timelines {
		timelineRecords = append(timelineRecords, timelineEntry.toRecord())
	}
	return timelineRecords, nil
}

// ExportTimeline implements resolve.Connection.
func (connection *bridgeConnection) ExportTimeline(executionContext context.Context, exportRequest resolve.ExportRequest) (resolve.ExportResult, error) {
	payload := exportPayload{}
	request := bridgeRequest{
		Operation:       operationExportConstant,
		TimelineIndex:   exportRequest.TimelineIndex,
		TimelineName:    exportRequest.TimelineName,
		DestinationPath: exportRequest.DestinationPath,
	}
	if invokeError := connection.invoke(executionContext, request, &payload); invokeError != nil {
		return resolve.ExportResult{}, invokeError
	}
	return resolve.ExportResult{DestinationPath: payload.DestinationPath}, nil
}

// ImportTimeline implements resolve.Connection.
func (connection *bridgeConnection) ImportTimeline(executionContext context.Context, importRequest resolve.ImportRequest) (resolve.ImportReport, error) {
	payload := importPayload{}
	request := bridgeRequest{
		Operation:         operationImportConstant,
		TimelineName:      importRequest.TimelineName,
		SourcePath:        importRequest.SourcePath,
		SourceDirectory:   importRequest.SourceDirectory,
		RelinkSourceClips: importRequest.RelinkSourceClips,
	}
	if invokeError := connection.invoke(executionContext, request, &payload); invokeError != nil {
		return resolve.ImportReport{}, invokeError
	}

	importReport := resolve.ImportReport{
		Timeline:         payload.Timeline.toRecord(),
		VideoTracks:      payload.VideoTracks,
		AudioTracks:      payload.AudioTracks,
		TotalItems:       payload.TotalItems,
		MediaItems:       payload.MediaItems,
		PreImportedMedia: payload.PreImportedMedia,
		RelinkedClips:    payload.RelinkedClips,
	}
	return importReport, nil
}

func (connection *bridgeConnection) invoke(executionContext context.Context, request bridgeRequest, resultTarget any) error {
	connector := connection.connector

	connector.logger.Debug(
		bridgeOperationMessageConstant,
		zap.String(logFieldOperationConstant, request.Operation),
	)

	encodedRequest, encodingError := json.Marshal(request)
	if encodingError != nil {
		return fmt.Errorf(requestEncodingErrorTemplateConstant, encodingError)
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            []string{stdinScriptArgumentConstant, string(encodedRequest)},
		EnvironmentVariables: connector.environment.EnvironmentVariables(os.Getenv(moduleSearchPathVariableConstant)),
		StandardInput:        bridgeShimSource,
	}

	executionResult, executionError := connector.executor.ExecuteInterpreter(executionContext, connector.environment.PythonInterpreter, commandDetails)
	if executionError != nil {
		return resolve.NewBridgeImportFailedError("", executionError)
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		detail := fmt.Sprintf(interpreterExitDetailTemplateConstant, executionResult.ExitCode, strings.TrimSpace(executionResult.StandardError))
		return resolve.NewBridgeImportFailedError(detail, errors.New(emptyResponseMessageConstant))
	}

	envelope := bridgeEnvelope{}
	if decodeError := json.Unmarshal([]byte(trimmedOutput), &envelope); decodeError != nil {
		return fmt.Errorf(responseDecodingErrorTemplateConstant, decodeError)
	}

	if !envelope.OK {
		if envelope.Error != nil {
			return envelope.Error.toBridgeError()
		}
		return resolve.NewVendorCallFailedError(request.Operation, nil)
	}

	if payloadError := mapstructure.Decode(envelope.Result, resultTarget); payloadError != nil {
		return fmt.Errorf(payloadDecodingErrorTemplateConstant, request.Operation, payloadError)
	}

	return nil
}
