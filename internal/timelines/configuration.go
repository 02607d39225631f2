package timelines

import "strings"

const (
	exportConfigurationKeySuffixConstant = ".export.default_directory"
	importConfigurationKeySuffixConstant = ".import.relink_source_clips"
	defaultRelinkSourceClipsConstant     = true
)

// Configuration aggregates settings for the timeline commands.
type Configuration struct {
	Export ExportConfiguration `mapstructure:"export"`
	Import ImportConfiguration `mapstructure:"import"`
}

// ExportConfiguration stores defaults applied to export destinations.
type ExportConfiguration struct {
	DefaultDirectory string `mapstructure:"default_directory"`
}

// ImportConfiguration stores defaults applied to import requests.
type ImportConfiguration struct {
	RelinkSourceClips bool `mapstructure:"relink_source_clips"`
}

// DefaultConfigurationValues supplies baseline configuration keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + exportConfigurationKeySuffixConstant: "",
		configurationKeyPrefix + importConfigurationKeySuffixConstant: defaultRelinkSourceClipsConstant,
	}
}

// Sanitize trims configured values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Export.DefaultDirectory = strings.TrimSpace(configuration.Export.DefaultDirectory)
	return sanitized
}
