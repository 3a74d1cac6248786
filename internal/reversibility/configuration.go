package reversibility

import (
	"strings"

	"github.com/biosustain/thermocheck/internal/equilibrator"
	pathutils "github.com/biosustain/thermocheck/internal/utils/path"
)

var configurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	configurationCutoffKeySuffixConstant     = ".cutoff"
	configurationServiceURLKeySuffixConstant = ".service_url"
	configurationFormatKeySuffixConstant     = ".format"

	// OutputFormatCSV renders reports as CSV rows.
	OutputFormatCSV = "csv"
	// OutputFormatJSON renders reports as an indented JSON document.
	OutputFormatJSON = "json"
)

// CommandConfiguration captures persistent settings for the reversibility commands.
type CommandConfiguration struct {
	ModelPath      string  `mapstructure:"model"`
	Cutoff         float64 `mapstructure:"cutoff"`
	ServiceBaseURL string  `mapstructure:"service_url"`
	OutputFormat   string  `mapstructure:"format"`
	OutputPath     string  `mapstructure:"output"`
	IncludeAll     bool    `mapstructure:"include_all"`
}

// DefaultCommandConfiguration returns baseline configuration values for the reversibility commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Cutoff:         DefaultCutoff,
		ServiceBaseURL: equilibrator.DefaultServiceBaseURL,
		OutputFormat:   OutputFormatCSV,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaultConfiguration := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + configurationCutoffKeySuffixConstant:     defaultConfiguration.Cutoff,
		configurationKeyPrefix + configurationServiceURLKeySuffixConstant: defaultConfiguration.ServiceBaseURL,
		configurationKeyPrefix + configurationFormatKeySuffixConstant:     defaultConfiguration.OutputFormat,
	}
}

// Sanitize trims configured values and restores defaults for unset entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.ModelPath = configurationHomeDirectoryExpander.Expand(strings.TrimSpace(configuration.ModelPath))
	sanitized.OutputPath = configurationHomeDirectoryExpander.Expand(strings.TrimSpace(configuration.OutputPath))
	sanitized.ServiceBaseURL = strings.TrimSpace(configuration.ServiceBaseURL)
	sanitized.OutputFormat = strings.ToLower(strings.TrimSpace(configuration.OutputFormat))

	if sanitized.Cutoff <= 0 {
		sanitized.Cutoff = DefaultCutoff
	}
	if len(sanitized.ServiceBaseURL) == 0 {
		sanitized.ServiceBaseURL = equilibrator.DefaultServiceBaseURL
	}
	if len(sanitized.OutputFormat) == 0 {
		sanitized.OutputFormat = OutputFormatCSV
	}

	return sanitized
}
