package utils_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biosustain/thermocheck/internal/utils"
)

const (
	testLoggerFactorySubtestTemplateConstant = "%d_%s"
	testInvalidLogLevelConstant              = "verbose"
	testInvalidLogFormatConstant             = "xml"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name               string
		requestedLogLevel  utils.LogLevel
		requestedLogFormat utils.LogFormat
		expectError        bool
	}{
		{name: "debug_structured", requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatStructured},
		{name: "info_structured", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatStructured},
		{name: "warn_console", requestedLogLevel: utils.LogLevelWarn, requestedLogFormat: utils.LogFormatConsole},
		{name: "error_console", requestedLogLevel: utils.LogLevelError, requestedLogFormat: utils.LogFormatConsole},
		{
			name:               "unsupported_level",
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	loggerFactory := utils.NewLoggerFactory()

	for testCaseIndex, testCase := range testCases {
		testCase := testCase
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			subTest.Parallel()

			createdLogger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(subTest, creationError)
				require.Nil(subTest, createdLogger)
				return
			}

			require.NoError(subTest, creationError)
			require.NotNil(subTest, createdLogger)
		})
	}
}
