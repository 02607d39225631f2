package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	successGlyphConstant      = "✓"
	warningGlyphConstant      = "⚠"
	failureGlyphConstant      = "✗"
	glyphLineTemplateConstant = "%s %s\n"
)

var (
	successGlyphSprinter = color.New(color.FgGreen).Sprint
	warningGlyphSprinter = color.New(color.FgYellow).Sprint
	failureGlyphSprinter = color.New(color.FgRed).Sprint
)

// Printer writes human-readable status lines with colored glyphs.
type Printer struct {
	output io.Writer
}

// NewPrinter constructs a printer targeting the supplied writer.
func NewPrinter(output io.Writer) *Printer {
	return &Printer{output: output}
}

// Success prints a green check line.
func (printer *Printer) Success(messageTemplate string, templateArguments ...any) {
	printer.printGlyphLine(successGlyphSprinter(successGlyphConstant), messageTemplate, templateArguments...)
}

// Warning prints a yellow warning line.
func (printer *Printer) Warning(messageTemplate string, templateArguments ...any) {
	printer.printGlyphLine(warningGlyphSprinter(warningGlyphConstant), messageTemplate, templateArguments...)
}

// Failure prints a red failure line.
func (printer *Printer) Failure(messageTemplate string, templateArguments ...any) {
	printer.printGlyphLine(failureGlyphSprinter(failureGlyphConstant), messageTemplate, templateArguments...)
}

// Plain prints an uninflected line.
func (printer *Printer) Plain(messageTemplate string, templateArguments ...any) {
	fmt.Fprintf(printer.output, messageTemplate+"\n", templateArguments...)
}

func (printer *Printer) printGlyphLine(glyph string, messageTemplate string, templateArguments ...any) {
	fmt.Fprintf(printer.output, glyphLineTemplateConstant, glyph, fmt.Sprintf(messageTemplate, templateArguments...))
}
