package resolvetest

import (
	"context"

	"github.com/editkit/resolve-otio/internal/resolve"
)

// ConnectorStub hands out a configured connection and records connect attempts.
type ConnectorStub struct {
	Connection   resolve.Connection
	ConnectError error
	ConnectCalls int
}

// Connect returns the configured connection or error.
func (connector *ConnectorStub) Connect(_ context.Context) (resolve.Connection, error) {
	connector.ConnectCalls++
	if connector.ConnectError != nil {
		return nil, connector.ConnectError
	}
	return connector.Connection, nil
}

// ConnectionStub implements resolve.Connection with scripted responses for tests.
type ConnectionStub struct {
	StatusResult resolve.ProjectStatus
	StatusError  error

	Timelines []resolve.TimelineRecord
	ListError error
	ListCalls int

	ExportResult   resolve.ExportResult
	ExportError    error
	ExportRequests []resolve.ExportRequest

	ImportReport   resolve.ImportReport
	ImportError    error
	ImportRequests []resolve.ImportRequest
}

// Status returns the scripted project status.
func (connection *ConnectionStub) Status(_ context.Context) (resolve.ProjectStatus, error) {
	if connection.StatusError != nil {
		return resolve.ProjectStatus{}, connection.StatusError
	}
	return connection.StatusResult, nil
}

// ListTimelines returns the scripted timeline records.
func (connection *ConnectionStub) ListTimelines(_ context.Context) ([]resolve.TimelineRecord, error) {
	connection.ListCalls++
	if connection.ListError != nil {
		return nil, connection.ListError
	}
	return append([]resolve.TimelineRecord{}, connection.Timelines...), nil
}

// ExportTimeline records the request and returns the scripted result.
func (connection *ConnectionStub) ExportTimeline(_ context.Context, request resolve.ExportRequest) (resolve.ExportResult, error) {
	connection.ExportRequests = append(connection.ExportRequests, request)
	if connection.ExportError != nil {
		return resolve.ExportResult{}, connection.ExportError
	}
	if len(connection.ExportResult.DestinationPath) == 0 {
		return resolve.ExportResult{DestinationPath: request.DestinationPath}, nil
	}
	return connection.ExportResult, nil
}

// ImportTimeline records the request and returns the scripted report.
func (connection *ConnectionStub) ImportTimeline(_ context.Context, request resolve.ImportRequest) (resolve.ImportReport, error) {
	connection.ImportRequests = append(connection.ImportRequests, request)
	if connection.ImportError != nil {
		return resolve.ImportReport{}, connection.ImportError
	}
	return connection.ImportReport, nil
}
