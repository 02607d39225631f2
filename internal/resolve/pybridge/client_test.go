package pybridge_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/bootstrap"
	"github.com/editkit/resolve-otio/internal/execshell"
	"github.com/editkit/resolve-otio/internal/resolve"
	"github.com/editkit/resolve-otio/internal/resolve/pybridge"
)

const (
	statusEnvelopeConstant = `{"ok":true,"result":{"version":"19.1.2","projectOpen":true,"projectName":"Feature Film","currentTimeline":{"name":"Main Timeline","startFrame":1001,"endFrame":2000}}}`
	listEnvelopeConstant   = `{"ok":true,"result":{"timelines":[{"name":"Main Timeline","startFrame":1001,"endFrame":2000},{"name":"Rough Cut","startFrame":1001,"endFrame":1500}]}}`
	exportEnvelopeConstant = `{"ok":true,"result":{"destinationPath":"/exports/cut.otio"}}`
	importEnvelopeConstant = `{"ok":true,"result":{"timeline":{"name":"Restored","startFrame":1001,"endFrame":1100},"videoTracks":2,"audioTracks":1,"totalItems":6,"mediaItems":5,"preImportedMedia":3,"relinkedClips":1}}`
)

type scriptedCommandRunner struct {
	executedCommands []execshell.ShellCommand
	standardOutput   string
	standardError    string
	exitCode         int
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.executedCommands = append(runner.executedCommands, command)
	return execshell.ExecutionResult{
		StandardOutput: runner.standardOutput,
		StandardError:  runner.standardError,
		ExitCode:       runner.exitCode,
	}, nil
}

func newConnectionForTest(testInstance *testing.T, commandRunner *scriptedCommandRunner) (resolve.Connection, bootstrap.BridgeEnvironment) {
	testInstance.Helper()

	bridgeEnvironment, detectError := bootstrap.DetectEnvironment("linux", bootstrap.HostDirectories{}, bootstrap.LayoutOverrides{})
	require.NoError(testInstance, detectError)

	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll(bridgeEnvironment.ModulesPath, 0o755))

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, executorError)

	connector, connectorError := pybridge.NewConnector(shellExecutor, bridgeEnvironment, fileSystem, zap.NewNop())
	require.NoError(testInstance, connectorError)

	connection, connectError := connector.Connect(context.Background())
	require.NoError(testInstance, connectError)

	return connection, bridgeEnvironment
}

func TestConnectFailsWhenModulesPathMissing(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardOutput: statusEnvelopeConstant}
	bridgeEnvironment, detectError := bootstrap.DetectEnvironment("linux", bootstrap.HostDirectories{}, bootstrap.LayoutOverrides{})
	require.NoError(testInstance, detectError)

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(testInstance, executorError)

	connector, connectorError := pybridge.NewConnector(shellExecutor, bridgeEnvironment, afero.NewMemMapFs(), zap.NewNop())
	require.NoError(testInstance, connectorError)

	_, connectError := connector.Connect(context.Background())
	require.Error(testInstance, connectError)

	failureKind, kindKnown := resolve.KindOf(connectError)
	require.True(testInstance, kindKnown)
	require.Equal(testInstance, resolve.FailureKindBridgeImportFailed, failureKind)
	require.Empty(testInstance, commandRunner.executedCommands)
}

func TestStatusDecodesProjectAndTimeline(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardOutput: statusEnvelopeConstant}
	connection, bridgeEnvironment := newConnectionForTest(testInstance, commandRunner)

	projectStatus, statusError := connection.Status(context.Background())
	require.NoError(testInstance, statusError)
	require.Equal(testInstance, "19.1.2", projectStatus.Version)
	require.True(testInstance, projectStatus.ProjectOpen)
	require.Equal(testInstance, "Feature Film", projectStatus.ProjectName)
	require.NotNil(testInstance, projectStatus.CurrentTimeline)
	require.Equal(testInstance, 1000, projectStatus.CurrentTimeline.Duration())

	require.Len(testInstance, commandRunner.executedCommands, 1)
	executedCommand := commandRunner.executedCommands[0]
	require.Equal(testInstance, bridgeEnvironment.PythonInterpreter, executedCommand.Name)
	require.Equal(testInstance, bridgeEnvironment.ScriptAPIPath, executedCommand.Details.EnvironmentVariables["RESOLVE_SCRIPT_API"])
	require.Equal(testInstance, bridgeEnvironment.ScriptLibPath, executedCommand.Details.EnvironmentVariables["RESOLVE_SCRIPT_LIB"])
	require.Contains(testInstance, executedCommand.Details.EnvironmentVariables["PYTHONPATH"], bridgeEnvironment.ModulesPath)
	require.NotEmpty(testInstance, executedCommand.Details.StandardInput)
}

func TestListTimelinesDecodesRecordsInOrder(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardOutput: listEnvelopeConstant}
	connection, _ := newConnectionForTest(testInstance, commandRunner)

	timelineRecords, listError := connection.ListTimelines(context.Background())
	require.NoError(testInstance, listError)
	require.Len(testInstance, timelineRecords, 2)
	require.Equal(testInstance, "Main Timeline", timelineRecords[0].Name)
	require.Equal(testInstance, "Rough Cut", timelineRecords[1].Name)
	require.Equal(testInstance, 500, timelineRecords[1].Duration())
}

func TestExportTimelineEncodesRequestFields(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardOutput: exportEnvelopeConstant}
	connection, _ := newConnectionForTest(testInstance, commandRunner)

	exportRequest := resolve.ExportRequest{
		TimelineIndex:   2,
		TimelineName:    "Rough Cut",
		DestinationPath: "/exports/cut.otio",
	}
	exportResult, exportError := connection.ExportTimeline(context.Background(), exportRequest)
	require.NoError(testInstance, exportError)
	require.Equal(testInstance, "/exports/cut.otio", exportResult.DestinationPath)

	require.Len(testInstance, commandRunner.executedCommands, 1)
	requestArguments := commandRunner.executedCommands[0].Details.Arguments
	require.Len(testInstance, requestArguments, 2)
	require.Equal(testInstance, "-", requestArguments[0])

	decodedRequest := map[string]any{}
	require.NoError(testInstance, json.Unmarshal([]byte(requestArguments[1]), &decodedRequest))
	require.Equal(testInstance, "export", decodedRequest["operation"])
	require.Equal(testInstance, float64(2), decodedRequest["timelineIndex"])
	require.Equal(testInstance, "/exports/cut.otio", decodedRequest["destinationPath"])
}

func TestImportTimelineDecodesReport(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardOutput: importEnvelopeConstant}
	connection, _ := newConnectionForTest(testInstance, commandRunner)

	importRequest := resolve.ImportRequest{
		SourcePath:        "/imports/restored.otio",
		TimelineName:      "Restored",
		SourceDirectory:   "/imports",
		RelinkSourceClips: true,
	}
	importReport, importError := connection.ImportTimeline(context.Background(), importRequest)
	require.NoError(testInstance, importError)
	require.Equal(testInstance, "Restored", importReport.Timeline.Name)
	require.Equal(testInstance, 3, importReport.TrackCount())
	require.Equal(testInstance, 6, importReport.TotalItems)
	require.Equal(testInstance, 3, importReport.PreImportedMedia)

	decodedRequest := map[string]any{}
	require.NoError(testInstance, json.Unmarshal([]byte(commandRunner.executedCommands[0].Details.Arguments[1]), &decodedRequest))
	require.Equal(testInstance, "import", decodedRequest["operation"])
	require.Equal(testInstance, true, decodedRequest["relinkSourceClips"])
	require.Equal(testInstance, "/imports", decodedRequest["sourceDirectory"])
}

func TestShimFailureKindsMapToBridgeErrors(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name         string
		shimEnvelope string
		expectedKind resolve.FailureKind
	}{
		{
			name:         "no_project_open",
			shimEnvelope: `{"ok":false,"error":{"kind":"no_project_open","message":"no project is currently open"}}`,
			expectedKind: resolve.FailureKindNoProjectOpen,
		},
		{
			name:         "connection_failed",
			shimEnvelope: `{"ok":false,"error":{"kind":"connection_failed","message":"the application is not running"}}`,
			expectedKind: resolve.FailureKindConnectionFailed,
		},
		{
			name:         "bridge_import_failed",
			shimEnvelope: `{"ok":false,"error":{"kind":"bridge_import_failed","message":"could not import DaVinciResolveScript"}}`,
			expectedKind: resolve.FailureKindBridgeImportFailed,
		},
		{
			name:         "unknown_kind_defaults_to_vendor_call_failed",
			shimEnvelope: `{"ok":false,"error":{"kind":"mystery","message":"unexpected"}}`,
			expectedKind: resolve.FailureKindVendorCallFailed,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			commandRunner := &scriptedCommandRunner{standardOutput: testCase.shimEnvelope}
			connection, _ := newConnectionForTest(subtestInstance, commandRunner)

			_, statusError := connection.Status(context.Background())
			require.Error(subtestInstance, statusError)

			failureKind, kindKnown := resolve.KindOf(statusError)
			require.True(subtestInstance, kindKnown)
			require.Equal(subtestInstance, testCase.expectedKind, failureKind)
		})
	}
}

func TestEmptyShimOutputReportedAsBridgeFailure(testInstance *testing.T) {
	testInstance.Parallel()

	commandRunner := &scriptedCommandRunner{standardError: "Traceback (most recent call last)", exitCode: 1}
	connection, _ := newConnectionForTest(testInstance, commandRunner)

	_, statusError := connection.Status(context.Background())
	require.Error(testInstance, statusError)

	failureKind, kindKnown := resolve.KindOf(statusError)
	require.True(testInstance, kindKnown)
	require.Equal(testInstance, resolve.FailureKindBridgeImportFailed, failureKind)
	require.Contains(testInstance, statusError.Error(), "exited with code 1")
}
