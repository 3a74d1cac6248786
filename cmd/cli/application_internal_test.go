package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	checkCommandNameConstant = "check"
	mapCommandNameConstant   = "map"
)

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	testInstance.Parallel()

	application := NewApplication()
	require.NotNil(testInstance, application.rootCommand)
	require.Equal(testInstance, applicationNameConstant, application.rootCommand.Name())

	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	require.True(testInstance, registeredCommandNames[checkCommandNameConstant])
	require.True(testInstance, registeredCommandNames[mapCommandNameConstant])
}

func TestApplicationShowsHelpWithoutArguments(testInstance *testing.T) {
	application := NewApplication()

	var outputBuffer bytes.Buffer
	application.rootCommand.SetOut(&outputBuffer)
	application.rootCommand.SetErr(&outputBuffer)
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, outputBuffer.String(), applicationNameConstant)
	require.Contains(testInstance, outputBuffer.String(), checkCommandNameConstant)
}

func TestApplicationRejectsInvalidLogLevelFlag(testInstance *testing.T) {
	application := NewApplication()

	var outputBuffer bytes.Buffer
	application.rootCommand.SetOut(&outputBuffer)
	application.rootCommand.SetErr(&outputBuffer)
	application.rootCommand.SetArgs([]string{"--log-level", "verbose"})

	executionError := application.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unsupported log level")
}
