package resolve

import (
	"errors"
	"fmt"
	"strings"
)

const (
	failureMessageTemplateConstant         = "%s: %s"
	failureCauseTemplateConstant           = "%s: %s: %v"
	timelineNotFoundTemplateConstant       = "timeline %q not found; available timelines: %s"
	timelineNotFoundEmptyTemplateConstant  = "timeline %q not found; the project contains no timelines"
	ambiguousTimelineTemplateConstant      = "timeline name %q matches %d timelines; rename one of them before exporting"
	emptyTimelineTemplateConstant          = "imported timeline %q contains no tracks or items"
	availableTimelineNameSeparatorConstant = ", "
	environmentUnsupportedMessageConstant  = "unsupported operating system"
	bridgeImportFailedMessageConstant      = "scripting bridge unavailable"
	connectionFailedMessageConstant        = "could not connect to the application"
	noProjectOpenMessageConstant           = "no project is currently open"
	fileNotFoundMessageConstant            = "file not found"
	vendorCallFailedDefaultMessageConstant = "application call failed"
)

// FailureKind classifies the terminal errors raised while driving the application.
type FailureKind string

// Failure kind enumerations mirroring the terminal error categories.
const (
	FailureKindEnvironmentUnsupported FailureKind = "environment_unsupported"
	FailureKindBridgeImportFailed     FailureKind = "bridge_import_failed"
	FailureKindConnectionFailed       FailureKind = "connection_failed"
	FailureKindNoProjectOpen          FailureKind = "no_project_open"
	FailureKindTimelineNotFound       FailureKind = "timeline_not_found"
	FailureKindAmbiguousTimeline      FailureKind = "ambiguous_timeline"
	FailureKindFileNotFound           FailureKind = "file_not_found"
	FailureKindVendorCallFailed       FailureKind = "vendor_call_failed"
	FailureKindEmptyTimeline          FailureKind = "empty_timeline"
)

// BridgeError is the terminal error type surfaced by connectors and services.
type BridgeError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// Error renders the categorized message with the underlying cause when present.
func (bridgeError *BridgeError) Error() string {
	if bridgeError.Cause != nil {
		return fmt.Sprintf(failureCauseTemplateConstant, bridgeError.Kind, bridgeError.Message, bridgeError.Cause)
	}
	return fmt.Sprintf(failureMessageTemplateConstant, bridgeError.Kind, bridgeError.Message)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (bridgeError *BridgeError) Unwrap() error {
	return bridgeError.Cause
}

// NewEnvironmentUnsupportedError reports an operating system without a known vendor layout.
func NewEnvironmentUnsupportedError(operatingSystem string) *BridgeError {
	return &BridgeError{
		Kind:    FailureKindEnvironmentUnsupported,
		Message: fmt.Sprintf(failureMessageTemplateConstant, environmentUnsupportedMessageConstant, operatingSystem),
	}
}

// NewBridgeImportFailedError reports that the vendor scripting bridge could not be loaded.
func NewBridgeImportFailedError(detail string, cause error) *BridgeError {
	message := bridgeImportFailedMessageConstant
	if len(detail) > 0 {
		message = fmt.Sprintf(failureMessageTemplateConstant, bridgeImportFailedMessageConstant, detail)
	}
	return &BridgeError{Kind: FailureKindBridgeImportFailed, Message: message, Cause: cause}
}

// NewConnectionFailedError reports that the application did not return a usable handle.
func NewConnectionFailedError(cause error) *BridgeError {
	return &BridgeError{Kind: FailureKindConnectionFailed, Message: connectionFailedMessageConstant, Cause: cause}
}

// NewNoProjectOpenError reports that timeline operations were attempted without an open project.
func NewNoProjectOpenError() *BridgeError {
	return &BridgeError{Kind: FailureKindNoProjectOpen, Message: noProjectOpenMessageConstant}
}

// NewFileNotFoundError reports a missing interchange file.
func NewFileNotFoundError(path string) *BridgeError {
	return &BridgeError{
		Kind:    FailureKindFileNotFound,
		Message: fmt.Sprintf(failureMessageTemplateConstant, fileNotFoundMessageConstant, path),
	}
}

// NewVendorCallFailedError reports an opaque failure returned by the application.
func NewVendorCallFailedError(operation string, cause error) *BridgeError {
	message := vendorCallFailedDefaultMessageConstant
	if len(operation) > 0 {
		message = fmt.Sprintf(failureMessageTemplateConstant, operation, vendorCallFailedDefaultMessageConstant)
	}
	return &BridgeError{Kind: FailureKindVendorCallFailed, Message: message, Cause: cause}
}

// NewTimelineNotFoundError reports a name that matched no timeline and enumerates the alternatives.
func NewTimelineNotFoundError(requestedName string, availableNames []string) *BridgeError {
	message := fmt.Sprintf(timelineNotFoundEmptyTemplateConstant, requestedName)
	if len(availableNames) > 0 {
		message = fmt.Sprintf(
			timelineNotFoundTemplateConstant,
			requestedName,
			strings.Join(availableNames, availableTimelineNameSeparatorConstant),
		)
	}
	return &BridgeError{Kind: FailureKindTimelineNotFound, Message: message}
}

// NewAmbiguousTimelineError reports a name shared by multiple timelines.
func NewAmbiguousTimelineError(requestedName string, matchCount int) *BridgeError {
	return &BridgeError{
		Kind:    FailureKindAmbiguousTimeline,
		Message: fmt.Sprintf(ambiguousTimelineTemplateConstant, requestedName, matchCount),
	}
}

// NewEmptyTimelineError reports an import that produced a timeline without content.
func NewEmptyTimelineError(timelineName string) *BridgeError {
	return &BridgeError{
		Kind:    FailureKindEmptyTimeline,
		Message: fmt.Sprintf(emptyTimelineTemplateConstant, timelineName),
	}
}

// KindOf extracts the failure kind from an error chain, returning false for untyped errors.
func KindOf(candidateError error) (FailureKind, bool) {
	bridgeError := &BridgeError{}
	if errors.As(candidateError, &bridgeError) {
		return bridgeError.Kind, true
	}
	return "", false
}
