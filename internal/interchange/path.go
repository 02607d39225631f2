package interchange

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// DefaultExtension is the interchange format's conventional file extension.
	DefaultExtension = ".otio"

	parentDirectoryPermissionsConstant   = 0o755
	parentDirectoryErrorTemplateConstant = "could not create destination directory %s: %w"
)

// EnsureExtension appends the interchange extension to destinations without one.
//
// Paths carrying any extension, interchange or otherwise, are left untouched.
func EnsureExtension(destinationPath string) string {
	if len(filepath.Ext(destinationPath)) > 0 {
		return destinationPath
	}
	return destinationPath + DefaultExtension
}

// DefaultTimelineName derives a timeline name from the file's base name.
func DefaultTimelineName(sourcePath string) string {
	baseName := filepath.Base(sourcePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// SourceDirectory reports the directory searched for source clips during import.
func SourceDirectory(sourcePath string) string {
	return filepath.Dir(sourcePath)
}

// EnsureParentDirectory creates the destination's parent directories when missing.
func EnsureParentDirectory(fileSystem afero.Fs, destinationPath string) error {
	parentDirectory := filepath.Dir(destinationPath)
	if mkdirError := fileSystem.MkdirAll(parentDirectory, parentDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(parentDirectoryErrorTemplateConstant, parentDirectory, mkdirError)
	}
	return nil
}

// HasInterchangeExtension reports whether the path already carries the interchange extension.
func HasInterchangeExtension(candidatePath string) bool {
	return strings.EqualFold(filepath.Ext(candidatePath), DefaultExtension)
}
