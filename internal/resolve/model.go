package resolve

import "context"

// TimelineRecord describes one timeline owned by the open project.
type TimelineRecord struct {
	Name       string
	StartFrame int
	EndFrame   int
}

// Duration reports the timeline length in frames, inclusive of both endpoints.
func (record TimelineRecord) Duration() int {
	return record.EndFrame - record.StartFrame + 1
}

// ProjectStatus captures the connection diagnostics reported by the application.
type ProjectStatus struct {
	Version         string
	ProjectOpen     bool
	ProjectName     string
	CurrentTimeline *TimelineRecord
}

// ExportRequest identifies the timeline to capture and the destination file.
type ExportRequest struct {
	TimelineIndex   int
	TimelineName    string
	DestinationPath string
}

// ExportResult reports where the interchange file was written.
type ExportResult struct {
	DestinationPath string
}

// ImportRequest describes an interchange file to load as a new timeline.
type ImportRequest struct {
	SourcePath        string
	TimelineName      string
	SourceDirectory   string
	RelinkSourceClips bool
}

// ImportReport summarizes the timeline produced by an import call.
type ImportReport struct {
	Timeline         TimelineRecord
	VideoTracks      int
	AudioTracks      int
	TotalItems       int
	MediaItems       int
	PreImportedMedia int
	RelinkedClips    int
}

// TrackCount reports the combined number of video and audio tracks.
func (report ImportReport) TrackCount() int {
	return report.VideoTracks + report.AudioTracks
}

// Connector establishes sessions with the running application.
type Connector interface {
	Connect(executionContext context.Context) (Connection, error)
}

// Connection exposes the scripting operations used by the CLI.
type Connection interface {
	Status(executionContext context.Context) (ProjectStatus, error)
	ListTimelines(executionContext context.Context) ([]TimelineRecord, error)
	ExportTimeline(executionContext context.Context, request ExportRequest) (ExportResult, error)
	ImportTimeline(executionContext context.Context, request ImportRequest) (ImportReport, error)
}
