package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeyDotConstant                   = "."
	environmentKeyUnderscoreConstant            = "_"
	configurationReadErrorTemplateConstant      = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant = "failed to parse configuration: %w"
	embeddedConfigurationErrorTemplateConstant  = "failed to merge embedded configuration: %w"
)

// ConfigurationLoader resolves structured configuration from embedded
// defaults, configuration files, and environment variable overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches the provided paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration registers embedded configuration data merged before user-provided files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = append([]byte{}, configurationData...)
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
}

// LoadConfiguration populates targetConfiguration from defaults, embedded data, files, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}

		viperInstance.SetConfigType(embeddedType)
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationErrorTemplateConstant, mergeError)
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeyDotConstant, environmentKeyUnderscoreConstant))
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		if _, fileNotFound := readError.(viper.ConfigFileNotFoundError); !fileNotFound {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
