package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biosustain/thermocheck/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTTHERMOCHECK"
	testLogLevelKeyConstant           = "common.log_level"
	testLogLevelEnvironmentConstant   = "TESTTHERMOCHECK_COMMON_LOG_LEVEL"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigFileNameConstant        = "config.yaml"
	testDefaultLogLevelConstant       = "info"
	testEmbeddedLogLevelConstant      = "debug"
	testFileLogLevelConstant          = "warn"
	testEnvironmentLogLevelConstant   = "error"
	testEmbeddedConfigurationConstant = "common:\n  log_level: debug\n"
	testFileConfigurationConstant     = "common:\n  log_level: warn\n"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

func newTestConfigurationLoader(searchPaths []string) *utils.ConfigurationLoader {
	return utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		searchPaths,
	)
}

func TestConfigurationLoaderAppliesDefaults(testInstance *testing.T) {
	configurationLoader := newTestConfigurationLoader([]string{testInstance.TempDir()})

	var loadedFixture configurationFixture
	_, loadError := configurationLoader.LoadConfiguration(
		"",
		map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant},
		&loadedFixture,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testDefaultLogLevelConstant, loadedFixture.Common.LogLevel)
}

func TestConfigurationLoaderMergesEmbeddedConfiguration(testInstance *testing.T) {
	configurationLoader := newTestConfigurationLoader([]string{testInstance.TempDir()})
	configurationLoader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationConstant), testConfigurationTypeConstant)

	var loadedFixture configurationFixture
	_, loadError := configurationLoader.LoadConfiguration("", nil, &loadedFixture)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEmbeddedLogLevelConstant, loadedFixture.Common.LogLevel)
}

func TestConfigurationLoaderFileOverridesDefaults(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testFileConfigurationConstant), 0o644))

	configurationLoader := newTestConfigurationLoader([]string{configurationDirectory})

	var loadedFixture configurationFixture
	loadedMetadata, loadError := configurationLoader.LoadConfiguration(
		configurationFilePath,
		map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant},
		&loadedFixture,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testFileLogLevelConstant, loadedFixture.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, loadedMetadata.ConfigFileUsed)
}

func TestConfigurationLoaderEnvironmentOverridesFile(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testFileConfigurationConstant), 0o644))

	testInstance.Setenv(testLogLevelEnvironmentConstant, testEnvironmentLogLevelConstant)

	configurationLoader := newTestConfigurationLoader([]string{configurationDirectory})

	var loadedFixture configurationFixture
	_, loadError := configurationLoader.LoadConfiguration(
		configurationFilePath,
		map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant},
		&loadedFixture,
	)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEnvironmentLogLevelConstant, loadedFixture.Common.LogLevel)
}
