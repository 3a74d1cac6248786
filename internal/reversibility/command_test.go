package reversibility_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/biosustain/thermocheck/internal/cobramodel"
	"github.com/biosustain/thermocheck/internal/reversibility"
)

const (
	fixtureModelPathConstant = "/models/fixture.json"
)

func fixtureModelLoader(testInstance *testing.T, expectedPath string) reversibility.ModelLoader {
	testInstance.Helper()
	return func(modelPath string) (*cobramodel.Model, error) {
		require.Equal(testInstance, expectedPath, modelPath)
		return classificationFixtureModel(), nil
	}
}

func TestCheckCommandWritesJSONReport(testInstance *testing.T) {
	testInstance.Parallel()

	var reportBuffer bytes.Buffer
	commandBuilder := reversibility.CheckCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() reversibility.CommandConfiguration {
			return reversibility.CommandConfiguration{OutputFormat: reversibility.OutputFormatCSV}
		},
		Evaluator:    classificationStubEvaluator(),
		Matcher:      &stubCompoundMatcher{},
		ModelLoader:  fixtureModelLoader(testInstance, fixtureModelPathConstant),
		OutputWriter: &reportBuffer,
	}

	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{
		"--model", fixtureModelPathConstant,
		"--format", "json",
	})
	require.NoError(testInstance, checkCommand.Execute())

	var decodedReport reversibility.Report
	require.NoError(testInstance, json.Unmarshal(reportBuffer.Bytes(), &decodedReport))
	require.Equal(testInstance, 6, decodedReport.TotalChecked)
	require.Equal(testInstance, []string{"RXN_INCORRECT"}, decodedReport.ReactionIDsWithOutcome(reversibility.OutcomeIncorrectReversibility))
}

func TestCheckCommandDefaultsToCSVReport(testInstance *testing.T) {
	testInstance.Parallel()

	var reportBuffer bytes.Buffer
	commandBuilder := reversibility.CheckCommandBuilder{
		ConfigurationProvider: func() reversibility.CommandConfiguration {
			return reversibility.CommandConfiguration{ModelPath: fixtureModelPathConstant}
		},
		Evaluator:    classificationStubEvaluator(),
		ModelLoader:  fixtureModelLoader(testInstance, fixtureModelPathConstant),
		OutputWriter: &reportBuffer,
	}

	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{})
	require.NoError(testInstance, checkCommand.Execute())

	reportLines := strings.Split(strings.TrimSpace(reportBuffer.String()), "\n")
	require.Len(testInstance, reportLines, 7)
	require.True(testInstance, strings.HasPrefix(reportLines[0], "reaction_id,outcome"))
}

func TestCheckCommandWritesReportFile(testInstance *testing.T) {
	testInstance.Parallel()

	reportPath := filepath.Join(testInstance.TempDir(), "report.csv")
	commandBuilder := reversibility.CheckCommandBuilder{
		Evaluator:   classificationStubEvaluator(),
		ModelLoader: fixtureModelLoader(testInstance, fixtureModelPathConstant),
	}

	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{
		"--model", fixtureModelPathConstant,
		"--output", reportPath,
	})
	require.NoError(testInstance, checkCommand.Execute())

	writtenReport, readError := os.ReadFile(reportPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(writtenReport), "RXN_UNBALANCED")
}

func TestCheckCommandRequiresModelPath(testInstance *testing.T) {
	testInstance.Parallel()

	commandBuilder := reversibility.CheckCommandBuilder{
		Evaluator: classificationStubEvaluator(),
	}

	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{})
	executionError := checkCommand.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "model document path")
}

func TestCheckCommandRejectsUnknownFormats(testInstance *testing.T) {
	testInstance.Parallel()

	commandBuilder := reversibility.CheckCommandBuilder{
		Evaluator:   classificationStubEvaluator(),
		ModelLoader: fixtureModelLoader(testInstance, fixtureModelPathConstant),
	}

	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{
		"--model", fixtureModelPathConstant,
		"--format", "xml",
	})
	executionError := checkCommand.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unsupported report format")
}

func TestCheckCommandRejectsPositionalArguments(testInstance *testing.T) {
	testInstance.Parallel()

	commandBuilder := reversibility.CheckCommandBuilder{}
	checkCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	checkCommand.SetContext(context.Background())
	checkCommand.SetArgs([]string{"unexpected"})
	require.Error(testInstance, checkCommand.Execute())
}

func TestMapCommandPrintsMappedFormulas(testInstance *testing.T) {
	testInstance.Parallel()

	var outputBuffer bytes.Buffer
	commandBuilder := reversibility.MapCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		Matcher:        &stubCompoundMatcher{},
		ModelLoader:    fixtureModelLoader(testInstance, fixtureModelPathConstant),
		OutputWriter:   &outputBuffer,
	}

	mapCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	mapCommand.SetContext(context.Background())
	mapCommand.SetArgs([]string{
		"--model", fixtureModelPathConstant,
		"--reaction", "RXN_AGREE",
	})
	require.NoError(testInstance, mapCommand.Execute())

	require.Equal(testInstance, "RXN_AGREE\tC10001 <=> C20001\n", outputBuffer.String())
}

func TestMapCommandRejectsUnknownReactions(testInstance *testing.T) {
	testInstance.Parallel()

	commandBuilder := reversibility.MapCommandBuilder{
		ModelLoader: fixtureModelLoader(testInstance, fixtureModelPathConstant),
	}

	mapCommand, buildError := commandBuilder.Build()
	require.NoError(testInstance, buildError)

	mapCommand.SetContext(context.Background())
	mapCommand.SetArgs([]string{
		"--model", fixtureModelPathConstant,
		"--reaction", "RXN_MISSING",
	})
	executionError := mapCommand.Execute()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "RXN_MISSING")
}
