package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/editkit/resolve-otio/internal/resolve"
)

const (
	remediationSeparatorConstant    = " - "
	debugDetailHeaderConstant       = "\ndetail:"
	debugDetailLineTemplateConstant = "\n  %d. %v"
)

var remediationHintMapping = map[resolve.FailureKind]string{
	resolve.FailureKindEnvironmentUnsupported: "this operating system has no known DaVinci Resolve installation layout",
	resolve.FailureKindBridgeImportFailed:     "verify DaVinci Resolve is installed and a 64-bit Python 3 interpreter is on PATH",
	resolve.FailureKindConnectionFailed:       "make sure DaVinci Resolve is running",
	resolve.FailureKindNoProjectOpen:          "open a project in DaVinci Resolve and retry",
	resolve.FailureKindTimelineNotFound:       "check the timeline name against the list command output",
	resolve.FailureKindAmbiguousTimeline:      "rename the duplicate timelines so the name is unique",
	resolve.FailureKindFileNotFound:           "check the file path and retry",
	resolve.FailureKindEmptyTimeline:          "verify the interchange file references media the project can reach",
}

// FormatTerminalError renders a categorized user-facing message for a failed command.
//
// Without debug enabled the message is a single line with a remediation hint;
// with debug enabled the full cause chain is appended.
func FormatTerminalError(terminalError error, debugEnabled bool) string {
	if terminalError == nil {
		return ""
	}

	messageBuilder := strings.Builder{}
	messageBuilder.WriteString(terminalError.Error())

	if failureKind, kindKnown := resolve.KindOf(terminalError); kindKnown {
		if remediationHint, hintExists := remediationHintMapping[failureKind]; hintExists {
			messageBuilder.WriteString(remediationSeparatorConstant)
			messageBuilder.WriteString(remediationHint)
		}
	}

	if debugEnabled {
		messageBuilder.WriteString(debugDetailHeaderConstant)
		chainDepth := 0
		for chainError := terminalError; chainError != nil; chainError = errors.Unwrap(chainError) {
			chainDepth++
			messageBuilder.WriteString(fmt.Sprintf(debugDetailLineTemplateConstant, chainDepth, chainError))
		}
	}

	return messageBuilder.String()
}
