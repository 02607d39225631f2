package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/editkit/resolve-otio/internal/ui"
)

func TestPrinterWritesGlyphLines(testInstance *testing.T) {
	testInstance.Parallel()

	outputBuffer := &bytes.Buffer{}
	printer := ui.NewPrinter(outputBuffer)

	printer.Success("connected to %s", "Resolve")
	printer.Warning("no timeline open")
	printer.Failure("export failed")
	printer.Plain("%d timelines", 2)

	printedOutput := outputBuffer.String()
	require.Contains(testInstance, printedOutput, "connected to Resolve")
	require.Contains(testInstance, printedOutput, "no timeline open")
	require.Contains(testInstance, printedOutput, "export failed")
	require.Contains(testInstance, printedOutput, "2 timelines")
	require.Equal(testInstance, 4, bytes.Count(outputBuffer.Bytes(), []byte("\n")))
}
