package diagnose

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/editkit/resolve-otio/internal/resolve"
)

const (
	connectorMissingMessageConstant = "connector not configured"
	loggerMissingMessageConstant    = "logger not configured"
	statusRetrievedMessageConstant  = "application status retrieved"
	logFieldVersionConstant         = "version"
	logFieldProjectOpenConstant     = "project_open"
)

// Service performs the connection health check against the application.
type Service struct {
	connector resolve.Connector
	logger    *zap.Logger
}

// NewService constructs a diagnostic service around the supplied connector.
func NewService(connector resolve.Connector, logger *zap.Logger) (*Service, error) {
	if connector == nil {
		return nil, errors.New(connectorMissingMessageConstant)
	}
	if logger == nil {
		return nil, errors.New(loggerMissingMessageConstant)
	}
	return &Service{connector: connector, logger: logger}, nil
}

// Run connects to the application and reports version and project status.
//
// A missing project is part of a healthy report, not an error.
func (service *Service) Run(executionContext context.Context) (resolve.ProjectStatus, error) {
	connection, connectError := service.connector.Connect(executionContext)
	if connectError != nil {
		return resolve.ProjectStatus{}, connectError
	}

	projectStatus, statusError := connection.Status(executionContext)
	if statusError != nil {
		return resolve.ProjectStatus{}, statusError
	}

	service.logger.Debug(
		statusRetrievedMessageConstant,
		zap.String(logFieldVersionConstant, projectStatus.Version),
		zap.Bool(logFieldProjectOpenConstant, projectStatus.ProjectOpen),
	)

	return projectStatus, nil
}
