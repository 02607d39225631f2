package timelines_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/resolve"
	"github.com/editkit/resolve-otio/internal/resolve/resolvetest"
	"github.com/editkit/resolve-otio/internal/timelines"
)

func newCommandBuilderForTest(connection resolve.Connection, configuration timelines.Configuration) *timelines.CommandBuilder {
	return &timelines.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		ConfigurationProvider: func() timelines.Configuration {
			return configuration
		},
		ConnectorResolver: func() (resolve.Connector, error) {
			return &resolvetest.ConnectorStub{Connection: connection}, nil
		},
		FileSystem: afero.NewMemMapFs(),
	}
}

func executeCommandForTest(testInstance *testing.T, command *cobra.Command, arguments []string) (string, error) {
	testInstance.Helper()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestListCommandPrintsProjectOrderAndDurations(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{Timelines: projectTimelineFixtures()}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

	listCommand, buildError := commandBuilder.BuildListCommand()
	require.NoError(testInstance, buildError)

	commandOutput, executionError := executeCommandForTest(testInstance, listCommand, nil)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "2 timelines in the open project")
	require.Contains(testInstance, commandOutput, "1. Main Timeline (frames 1001-2000, duration 1000)")
	require.Contains(testInstance, commandOutput, "2. Rough Cut (frames 1001-1500, duration 500)")
}

func TestListCommandReportsEmptyProjectWithoutError(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

	listCommand, buildError := commandBuilder.BuildListCommand()
	require.NoError(testInstance, buildError)

	commandOutput, executionError := executeCommandForTest(testInstance, listCommand, nil)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "0 timelines in the open project")
}

func TestExportCommandReportsWrittenDestination(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{Timelines: projectTimelineFixtures()}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

	exportCommand, buildError := commandBuilder.BuildExportCommand()
	require.NoError(testInstance, buildError)

	commandOutput, executionError := executeCommandForTest(testInstance, exportCommand, []string{roughCutTimelineNameConstant, "out"})
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "out.otio")
	require.Len(testInstance, connection.ExportRequests, 1)
}

func TestExportCommandSurfacesTimelineNotFoundWithAvailableNames(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{Timelines: projectTimelineFixtures()}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

	exportCommand, buildError := commandBuilder.BuildExportCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommandForTest(testInstance, exportCommand, []string{missingTimelineNameConstant, "out"})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), mainTimelineNameConstant)
	require.Contains(testInstance, executionError.Error(), roughCutTimelineNameConstant)
}

func TestExportCommandAppliesConfiguredDefaultDirectory(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{Timelines: projectTimelineFixtures()}
	configuration := timelines.Configuration{
		Export: timelines.ExportConfiguration{DefaultDirectory: "exports"},
	}
	commandBuilder := newCommandBuilderForTest(connection, configuration)

	exportCommand, buildError := commandBuilder.BuildExportCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommandForTest(testInstance, exportCommand, []string{roughCutTimelineNameConstant, "cut"})
	require.NoError(testInstance, executionError)
	require.Len(testInstance, connection.ExportRequests, 1)
	require.Contains(testInstance, connection.ExportRequests[0].DestinationPath, "exports")
}

func TestImportCommandPrintsReportSummaries(testInstance *testing.T) {
	testInstance.Parallel()

	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(fileSystem, "out.otio", []byte("{}"), 0o644))

	connection := &resolvetest.ConnectionStub{
		ImportReport: resolve.ImportReport{
			Timeline:         resolve.TimelineRecord{Name: "Restored", StartFrame: 1001, EndFrame: 1100},
			VideoTracks:      2,
			AudioTracks:      1,
			TotalItems:       6,
			MediaItems:       5,
			PreImportedMedia: 3,
			RelinkedClips:    1,
		},
	}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{
		Import: timelines.ImportConfiguration{RelinkSourceClips: true},
	})
	commandBuilder.FileSystem = fileSystem

	importCommand, buildError := commandBuilder.BuildImportCommand()
	require.NoError(testInstance, buildError)

	commandOutput, executionError := executeCommandForTest(testInstance, importCommand, []string{"out.otio", "Restored"})
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "Imported out.otio as timeline \"Restored\"")
	require.Contains(testInstance, commandOutput, "Timeline set as current timeline")
	require.Contains(testInstance, commandOutput, "Video tracks: 2, audio tracks: 1")
	require.Contains(testInstance, commandOutput, "Timeline items: 6 total, 5 media-based")
	require.Contains(testInstance, commandOutput, "Pre-imported 3 media files")
	require.Contains(testInstance, commandOutput, "Relinked 1 offline clips")

	require.Len(testInstance, connection.ImportRequests, 1)
	require.True(testInstance, connection.ImportRequests[0].RelinkSourceClips)
}

func TestImportCommandRejectsMissingFile(testInstance *testing.T) {
	testInstance.Parallel()

	connection := &resolvetest.ConnectionStub{}
	commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

	importCommand, buildError := commandBuilder.BuildImportCommand()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommandForTest(testInstance, importCommand, []string{"missing.otio"})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "missing.otio")
	require.Empty(testInstance, connection.ImportRequests)
}

func TestCommandArgumentValidation(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name      string
		buildKind string
		arguments []string
	}{
		{name: "export_missing_destination", buildKind: "export", arguments: []string{"Main Timeline"}},
		{name: "export_extra_arguments", buildKind: "export", arguments: []string{"Main Timeline", "out", "extra"}},
		{name: "import_missing_source", buildKind: "import", arguments: []string{}},
		{name: "import_extra_arguments", buildKind: "import", arguments: []string{"out.otio", "Restored", "extra"}},
		{name: "list_rejects_arguments", buildKind: "list", arguments: []string{"extra"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			subtestInstance.Parallel()

			connection := &resolvetest.ConnectionStub{}
			commandBuilder := newCommandBuilderForTest(connection, timelines.Configuration{})

			var command *cobra.Command
			var buildError error
			switch testCase.buildKind {
			case "export":
				command, buildError = commandBuilder.BuildExportCommand()
			case "import":
				command, buildError = commandBuilder.BuildImportCommand()
			default:
				command, buildError = commandBuilder.BuildListCommand()
			}
			require.NoError(subtestInstance, buildError)

			_, executionError := executeCommandForTest(subtestInstance, command, testCase.arguments)
			require.Error(subtestInstance, executionError)
			require.Empty(subtestInstance, connection.ExportRequests)
			require.Empty(subtestInstance, connection.ImportRequests)
		})
	}
}
