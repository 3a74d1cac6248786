package reversibility

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biosustain/thermocheck/internal/cobramodel"
	"github.com/biosustain/thermocheck/internal/equilibrator"
	"github.com/biosustain/thermocheck/internal/utils"
	flagutils "github.com/biosustain/thermocheck/internal/utils/flags"
)

const (
	checkCommandUseConstant               = "check"
	checkCommandShortDescriptionConstant  = "Check annotated reversibility against thermodynamics"
	checkCommandLongDescriptionConstant   = "check classifies each purely metabolic reaction by comparing its annotated reversibility with a thermodynamics-based reversibility index."
	mapCommandUseConstant                 = "map"
	mapCommandShortDescriptionConstant    = "Print reactions mapped to the canonical compound space"
	mapCommandLongDescriptionConstant     = "map resolves metabolite identifiers to KEGG compound identifiers and prints the rewritten reaction formulas."
	modelFlagNameConstant                 = "model"
	modelFlagDescriptionConstant          = "Path to the metabolic model document (JSON or YAML)"
	cutoffFlagNameConstant                = "cutoff"
	cutoffFlagDescriptionConstant         = "Reversibility index cutoff"
	serviceFlagNameConstant               = "service"
	serviceFlagDescriptionConstant        = "Base URL of the thermodynamic estimation service"
	formatFlagNameConstant                = "format"
	formatFlagDescriptionConstant         = "Report output format"
	outputFlagNameConstant                = "output"
	outputFlagDescriptionConstant         = "Write the report to this path instead of standard output"
	includeAllFlagNameConstant            = "include-all"
	includeAllFlagDescriptionConstant     = "Check every reaction instead of only purely metabolic ones"
	reactionFlagNameConstant              = "reaction"
	reactionFlagDescriptionConstant       = "Restrict mapping to this reaction identifier (repeatable)"
	unexpectedArgumentsMessageConstant    = "positional arguments are not accepted"
	missingModelPathMessageConstant       = "a model document path must be provided via --model or configuration"
	unsupportedFormatTemplateConstant     = "unsupported report format %q (expected csv or json)"
	unknownReactionTemplateConstant       = "model %q does not contain reaction %q"
	modelLoadErrorTemplateConstant        = "unable to load model: %w"
	reportOutputErrorTemplateConstant     = "unable to write report: %w"
	reportFileErrorTemplateConstant       = "unable to create report file %q: %w"
	checkCompletedMessageConstant         = "reversibility check completed"
	mappedFormulaLineTemplateConstant     = "%s\t%s\n"
	unmappedMetabolitesMessageConstant    = "reaction contains unmapped metabolites"
	logFieldRunConstant                   = "run_id"
	logFieldMetricConstant                = "disagreement_metric"
	logFieldIncorrectConstant             = "incorrect_reversibility"
	logFieldIncompleteConstant            = "incomplete_mapping"
	logFieldProblematicConstant           = "problematic_calculation"
	logFieldUnbalancedConstant            = "unbalanced"
	logFieldSummaryConstant               = "summary"
	logFieldUnmappedMetabolitesConstant   = "unmapped_metabolite_ids"
	reportFilePermissionsConstant         = 0o644
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current reversibility configuration.
type ConfigurationProvider func() CommandConfiguration

// CheckCommandBuilder assembles the reversibility check command.
type CheckCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	HTTPClient            equilibrator.HTTPClient
	Evaluator             ReactionEvaluator
	Matcher               CompoundMatcher
	ModelLoader           ModelLoader
	OutputWriter          io.Writer
	Clock                 Clock
}

// Build constructs the check command.
func (builder *CheckCommandBuilder) Build() (*cobra.Command, error) {
	checkCommand := &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortDescriptionConstant,
		Long:  checkCommandLongDescriptionConstant,
		RunE:  builder.runCheck,
	}

	checkCommand.Flags().String(modelFlagNameConstant, "", modelFlagDescriptionConstant)
	checkCommand.Flags().Float64(cutoffFlagNameConstant, 0, cutoffFlagDescriptionConstant)
	checkCommand.Flags().String(serviceFlagNameConstant, "", serviceFlagDescriptionConstant)
	checkCommand.Flags().String(
		formatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(OutputFormatCSV, []string{OutputFormatCSV, OutputFormatJSON}, formatFlagDescriptionConstant),
	)
	checkCommand.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)
	checkCommand.Flags().Bool(includeAllFlagNameConstant, false, includeAllFlagDescriptionConstant)

	return checkCommand, nil
}

func (builder *CheckCommandBuilder) runCheck(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsMessageConstant)
	}

	resolvedConfiguration, configurationError := builder.resolveCheckConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	if len(resolvedConfiguration.ModelPath) == 0 {
		return errors.New(missingModelPathMessageConstant)
	}
	if resolvedConfiguration.OutputFormat != OutputFormatCSV && resolvedConfiguration.OutputFormat != OutputFormatJSON {
		return fmt.Errorf(unsupportedFormatTemplateConstant, resolvedConfiguration.OutputFormat)
	}

	logger := resolveLogger(builder.LoggerProvider)

	examinedModel, modelLoadError := resolveModelLoader(builder.ModelLoader)(resolvedConfiguration.ModelPath)
	if modelLoadError != nil {
		return fmt.Errorf(modelLoadErrorTemplateConstant, modelLoadError)
	}

	reactionEvaluator, compoundMatcher := builder.resolveEstimator(resolvedConfiguration.ServiceBaseURL, logger)
	classificationService := NewService(NewFormulaMapper(compoundMatcher, logger), reactionEvaluator, logger, builder.Clock)

	classificationReport, checkError := classificationService.CheckModel(command.Context(), examinedModel, CheckOptions{
		Cutoff:     resolvedConfiguration.Cutoff,
		IncludeAll: resolvedConfiguration.IncludeAll,
	})
	if checkError != nil {
		return checkError
	}

	if writeError := builder.writeReport(classificationReport, resolvedConfiguration); writeError != nil {
		return writeError
	}

	outcomeCounts := classificationReport.OutcomeCounts()
	logger.Info(
		checkCompletedMessageConstant,
		zap.String(logFieldRunConstant, classificationReport.RunID),
		zap.Int(logFieldIncorrectConstant, outcomeCounts[OutcomeIncorrectReversibility]),
		zap.Int(logFieldIncompleteConstant, outcomeCounts[OutcomeIncompleteMapping]),
		zap.Int(logFieldProblematicConstant, outcomeCounts[OutcomeProblematicCalculation]),
		zap.Int(logFieldUnbalancedConstant, outcomeCounts[OutcomeUnbalanced]),
		zap.Float64(logFieldMetricConstant, classificationReport.DisagreementMetric()),
		zap.String(logFieldSummaryConstant, classificationReport.SummaryMessage()),
	)

	return nil
}

func (builder *CheckCommandBuilder) resolveCheckConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	resolvedConfiguration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		resolvedConfiguration = builder.ConfigurationProvider()
	}
	resolvedConfiguration = resolvedConfiguration.Sanitize()

	modelFlagValue, modelFlagError := command.Flags().GetString(modelFlagNameConstant)
	if modelFlagError != nil {
		return CommandConfiguration{}, modelFlagError
	}
	resolvedConfiguration.ModelPath = selectStringValue(modelFlagValue, resolvedConfiguration.ModelPath)

	serviceFlagValue, serviceFlagError := command.Flags().GetString(serviceFlagNameConstant)
	if serviceFlagError != nil {
		return CommandConfiguration{}, serviceFlagError
	}
	resolvedConfiguration.ServiceBaseURL = selectStringValue(serviceFlagValue, resolvedConfiguration.ServiceBaseURL)

	formatFlagValue, formatFlagError := command.Flags().GetString(formatFlagNameConstant)
	if formatFlagError != nil {
		return CommandConfiguration{}, formatFlagError
	}
	resolvedConfiguration.OutputFormat = strings.ToLower(selectStringValue(formatFlagValue, resolvedConfiguration.OutputFormat))

	outputFlagValue, outputFlagError := command.Flags().GetString(outputFlagNameConstant)
	if outputFlagError != nil {
		return CommandConfiguration{}, outputFlagError
	}
	resolvedConfiguration.OutputPath = selectStringValue(outputFlagValue, resolvedConfiguration.OutputPath)

	if command.Flags().Changed(cutoffFlagNameConstant) {
		cutoffFlagValue, cutoffFlagError := command.Flags().GetFloat64(cutoffFlagNameConstant)
		if cutoffFlagError != nil {
			return CommandConfiguration{}, cutoffFlagError
		}
		resolvedConfiguration.Cutoff = cutoffFlagValue
	}

	if command.Flags().Changed(includeAllFlagNameConstant) {
		includeAllFlagValue, includeAllFlagError := command.Flags().GetBool(includeAllFlagNameConstant)
		if includeAllFlagError != nil {
			return CommandConfiguration{}, includeAllFlagError
		}
		resolvedConfiguration.IncludeAll = includeAllFlagValue
	}

	return resolvedConfiguration.Sanitize(), nil
}

func (builder *CheckCommandBuilder) resolveEstimator(serviceBaseURL string, logger *zap.Logger) (ReactionEvaluator, CompoundMatcher) {
	reactionEvaluator := builder.Evaluator
	compoundMatcher := builder.Matcher
	if reactionEvaluator == nil || compoundMatcher == nil {
		serviceClient := equilibrator.NewClient(builder.HTTPClient, serviceBaseURL, logger)
		if reactionEvaluator == nil {
			reactionEvaluator = serviceClient
		}
		if compoundMatcher == nil {
			compoundMatcher = serviceClient
		}
	}
	return reactionEvaluator, compoundMatcher
}

func (builder *CheckCommandBuilder) writeReport(classificationReport Report, resolvedConfiguration CommandConfiguration) error {
	reportWriter := builder.OutputWriter
	if len(resolvedConfiguration.OutputPath) > 0 {
		reportFile, createError := os.OpenFile(resolvedConfiguration.OutputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFilePermissionsConstant)
		if createError != nil {
			return fmt.Errorf(reportFileErrorTemplateConstant, resolvedConfiguration.OutputPath, createError)
		}
		defer reportFile.Close()
		reportWriter = reportFile
	}
	if reportWriter == nil {
		reportWriter = utils.NewFlushingWriter(os.Stdout)
	}

	var encodeError error
	switch resolvedConfiguration.OutputFormat {
	case OutputFormatJSON:
		encodeError = classificationReport.WriteJSON(reportWriter)
	default:
		encodeError = classificationReport.WriteCSV(reportWriter)
	}
	if encodeError != nil {
		return fmt.Errorf(reportOutputErrorTemplateConstant, encodeError)
	}

	return nil
}

// MapCommandBuilder assembles the formula mapping command.
type MapCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	HTTPClient            equilibrator.HTTPClient
	Matcher               CompoundMatcher
	ModelLoader           ModelLoader
	OutputWriter          io.Writer
}

// Build constructs the map command.
func (builder *MapCommandBuilder) Build() (*cobra.Command, error) {
	mapCommand := &cobra.Command{
		Use:   mapCommandUseConstant,
		Short: mapCommandShortDescriptionConstant,
		Long:  mapCommandLongDescriptionConstant,
		RunE:  builder.runMap,
	}

	mapCommand.Flags().String(modelFlagNameConstant, "", modelFlagDescriptionConstant)
	mapCommand.Flags().String(serviceFlagNameConstant, "", serviceFlagDescriptionConstant)
	mapCommand.Flags().StringSlice(reactionFlagNameConstant, nil, reactionFlagDescriptionConstant)

	return mapCommand, nil
}

func (builder *MapCommandBuilder) runMap(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsMessageConstant)
	}

	resolvedConfiguration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		resolvedConfiguration = builder.ConfigurationProvider()
	}
	resolvedConfiguration = resolvedConfiguration.Sanitize()

	modelFlagValue, modelFlagError := command.Flags().GetString(modelFlagNameConstant)
	if modelFlagError != nil {
		return modelFlagError
	}
	resolvedConfiguration.ModelPath = selectStringValue(modelFlagValue, resolvedConfiguration.ModelPath)
	if len(resolvedConfiguration.ModelPath) == 0 {
		return errors.New(missingModelPathMessageConstant)
	}

	serviceFlagValue, serviceFlagError := command.Flags().GetString(serviceFlagNameConstant)
	if serviceFlagError != nil {
		return serviceFlagError
	}
	resolvedConfiguration.ServiceBaseURL = selectStringValue(serviceFlagValue, resolvedConfiguration.ServiceBaseURL)

	requestedReactionIDs, reactionFlagError := command.Flags().GetStringSlice(reactionFlagNameConstant)
	if reactionFlagError != nil {
		return reactionFlagError
	}

	logger := resolveLogger(builder.LoggerProvider)

	examinedModel, modelLoadError := resolveModelLoader(builder.ModelLoader)(resolvedConfiguration.ModelPath)
	if modelLoadError != nil {
		return fmt.Errorf(modelLoadErrorTemplateConstant, modelLoadError)
	}

	selectedReactions, selectionError := selectReactions(examinedModel, requestedReactionIDs)
	if selectionError != nil {
		return selectionError
	}

	compoundMatcher := builder.Matcher
	if compoundMatcher == nil {
		compoundMatcher = equilibrator.NewClient(builder.HTTPClient, resolvedConfiguration.ServiceBaseURL, logger)
	}
	formulaMapper := NewFormulaMapper(compoundMatcher, logger)

	outputWriter := builder.OutputWriter
	if outputWriter == nil {
		outputWriter = utils.NewFlushingWriter(os.Stdout)
	}

	for _, selectedReaction := range selectedReactions {
		mappedReaction := formulaMapper.MapReaction(command.Context(), examinedModel, selectedReaction)
		if !mappedReaction.FullyMapped() {
			logger.Warn(
				unmappedMetabolitesMessageConstant,
				zap.String(logFieldReactionConstant, mappedReaction.ReactionID),
				zap.Strings(logFieldUnmappedMetabolitesConstant, mappedReaction.UnmappedMetaboliteIDs),
			)
		}
		fmt.Fprintf(outputWriter, mappedFormulaLineTemplateConstant, mappedReaction.ReactionID, mappedReaction.Formula)
	}

	return nil
}

func selectReactions(examinedModel *cobramodel.Model, requestedReactionIDs []string) ([]*cobramodel.Reaction, error) {
	if len(requestedReactionIDs) == 0 {
		return examinedModel.Reactions, nil
	}

	reactionsByID := make(map[string]*cobramodel.Reaction, len(examinedModel.Reactions))
	for _, declaredReaction := range examinedModel.Reactions {
		reactionsByID[declaredReaction.ID] = declaredReaction
	}

	selectedReactions := make([]*cobramodel.Reaction, 0, len(requestedReactionIDs))
	for _, requestedReactionID := range requestedReactionIDs {
		trimmedReactionID := strings.TrimSpace(requestedReactionID)
		selectedReaction, reactionPresent := reactionsByID[trimmedReactionID]
		if !reactionPresent {
			return nil, fmt.Errorf(unknownReactionTemplateConstant, examinedModel.ID, trimmedReactionID)
		}
		selectedReactions = append(selectedReactions, selectedReaction)
	}

	return selectedReactions, nil
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	if providedLogger := loggerProvider(); providedLogger != nil {
		return providedLogger
	}
	return zap.NewNop()
}

func resolveModelLoader(configuredLoader ModelLoader) ModelLoader {
	if configuredLoader != nil {
		return configuredLoader
	}
	return cobramodel.LoadModel
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
