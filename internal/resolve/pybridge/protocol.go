package pybridge

import "github.com/editkit/resolve-otio/internal/resolve"

const (
	operationStatusConstant = "status"
	operationListConstant   = "list"
	operationExportConstant = "export"
	operationImportConstant = "import"
)

// bridgeRequest is the JSON document handed to the shim on argv.
type bridgeRequest struct {
	Operation         string `json:"operation"`
	TimelineIndex     int    `json:"timelineIndex,omitempty"`
	TimelineName      string `json:"timelineName,omitempty"`
	DestinationPath   string `json:"destinationPath,omitempty"`
	SourcePath        string `json:"sourcePath,omitempty"`
	SourceDirectory   string `json:"sourceDirectory,omitempty"`
	RelinkSourceClips bool   `json:"relinkSourceClips"`
}

// bridgeEnvelope is the JSON document the shim writes to stdout.
type bridgeEnvelope struct {
	OK     bool             `json:"ok"`
	Result map[string]any   `json:"result"`
	Error  *bridgeShimError `json:"error"`
}

// bridgeShimError carries the categorized failure reported by the shim.
type bridgeShimError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// timelinePayload mirrors the shim's timeline record.
type timelinePayload struct {
	Name       string `mapstructure:"name"`
	StartFrame int    `mapstructure:"startFrame"`
	EndFrame   int    `mapstructure:"endFrame"`
}

// statusPayload mirrors the shim's status result.
type statusPayload struct {
	Version         string           `mapstructure:"version"`
	ProjectOpen     bool             `mapstructure:"projectOpen"`
	ProjectName     string           `mapstructure:"projectName"`
	CurrentTimeline *timelinePayload `mapstructure:"currentTimeline"`
}

// listPayload mirrors the shim's list result.
type listPayload struct {
	Timelines []timelinePayload `mapstructure:"timelines"`
}

// exportPayload mirrors the shim's export result.
type exportPayload struct {
	DestinationPath string `mapstructure:"destinationPath"`
}

// importPayload mirrors the shim's import result.
type importPayload struct {
	Timeline         timelinePayload `mapstructure:"timeline"`
	VideoTracks      int             `mapstructure:"videoTracks"`
	AudioTracks      int             `mapstructure:"audioTracks"`
	TotalItems       int             `mapstructure:"totalItems"`
	MediaItems       int             `mapstructure:"mediaItems"`
	PreImportedMedia int             `mapstructure:"preImportedMedia"`
	RelinkedClips    int             `mapstructure:"relinkedClips"`
}

func (payload timelinePayload) toRecord() resolve.TimelineRecord {
	return resolve.TimelineRecord{
		Name:       payload.Name,
		StartFrame: payload.StartFrame,
		EndFrame:   payload.EndFrame,
	}
}

var shimFailureKindMapping = map[string]resolve.FailureKind{
	"environment_unsupported": resolve.FailureKindEnvironmentUnsupported,
	"bridge_import_failed":    resolve.FailureKindBridgeImportFailed,
	"connection_failed":       resolve.FailureKindConnectionFailed,
	"no_project_open":         resolve.FailureKindNoProjectOpen,
	"vendor_call_failed":      resolve.FailureKindVendorCallFailed,
}

func (shimError bridgeShimError) toBridgeError() *resolve.BridgeError {
	failureKind, kindKnown := shimFailureKindMapping[shimError.Kind]
	if !kindKnown {
		failureKind = resolve.FailureKindVendorCallFailed
	}
	return &resolve.BridgeError{Kind: failureKind, Message: shimError.Message}
}
