package reversibility

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/biosustain/thermocheck/internal/cobramodel"
	"github.com/biosustain/thermocheck/internal/equilibrator"
)

const (
	// DefaultCutoff bounds the reversibility index at concentrations spanning
	// three orders of magnitude around 100 µM (pH 7, I = 0.1 M, T = 298 K).
	DefaultCutoff = 3.0

	serviceNotConfiguredMessageConstant = "reaction evaluator not configured"
	evaluationFailedTemplateConstant    = "evaluation of reaction %q failed: %w"
	reactionCheckedMessageConstant      = "reaction classified"
	checkStartedMessageConstant         = "reversibility check started"
	logFieldReactionConstant            = "reaction_id"
	logFieldOutcomeConstant             = "outcome"
	logFieldModelConstant               = "model_id"
	logFieldReactionCountConstant       = "reaction_count"
	logFieldCutoffConstant              = "cutoff"
)

// CheckOptions captures the configurable parameters of one classification run.
type CheckOptions struct {
	// Cutoff is the reversibility index threshold; a reaction is considered
	// thermodynamically reversible when its index is strictly below it.
	Cutoff float64
	// IncludeAll checks every model reaction instead of only purely
	// metabolic ones.
	IncludeAll bool
}

// Service runs the single-pass reversibility classification pipeline.
type Service struct {
	formulaMapper     *FormulaMapper
	reactionEvaluator ReactionEvaluator
	logger            *zap.Logger
	clock             Clock
}

// NewService constructs a Service from its collaborators.
func NewService(formulaMapper *FormulaMapper, reactionEvaluator ReactionEvaluator, logger *zap.Logger, clock Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		formulaMapper:     formulaMapper,
		reactionEvaluator: reactionEvaluator,
		logger:            logger,
		clock:             clock,
	}
}

// CheckModel classifies each candidate reaction into exactly one outcome bucket.
//
// Reactions whose mapped formula the estimation service cannot parse land in
// the incomplete-mapping bucket, chemically or redox imbalanced reactions in
// the unbalanced bucket, reactions with an uncomputable Gibbs energy change
// in the problematic-calculation bucket, and the remainder either agree or
// disagree with their annotated reversibility. Transport failures of the
// estimation service abort the run.
func (service *Service) CheckModel(executionContext context.Context, examinedModel *cobramodel.Model, checkOptions CheckOptions) (Report, error) {
	if service.reactionEvaluator == nil {
		return Report{}, errors.New(serviceNotConfiguredMessageConstant)
	}

	appliedCutoff := checkOptions.Cutoff
	if appliedCutoff == 0 {
		appliedCutoff = DefaultCutoff
	}

	candidateReactions := examinedModel.PureMetabolicReactions()
	if checkOptions.IncludeAll {
		candidateReactions = examinedModel.Reactions
	}

	service.logger.Info(
		checkStartedMessageConstant,
		zap.String(logFieldModelConstant, examinedModel.ID),
		zap.Int(logFieldReactionCountConstant, len(candidateReactions)),
		zap.Float64(logFieldCutoffConstant, appliedCutoff),
	)

	classificationReport := Report{
		RunID:        xid.New().String(),
		GeneratedAt:  service.clock.Now(),
		ModelID:      examinedModel.ID,
		Cutoff:       appliedCutoff,
		TotalChecked: len(candidateReactions),
		Verdicts:     make([]ReactionVerdict, 0, len(candidateReactions)),
	}

	for _, examinedReaction := range candidateReactions {
		reactionVerdict, verdictError := service.classifyReaction(executionContext, examinedModel, examinedReaction, appliedCutoff)
		if verdictError != nil {
			return Report{}, verdictError
		}

		service.logger.Debug(
			reactionCheckedMessageConstant,
			zap.String(logFieldReactionConstant, reactionVerdict.ReactionID),
			zap.String(logFieldOutcomeConstant, string(reactionVerdict.Outcome)),
		)

		classificationReport.Verdicts = append(classificationReport.Verdicts, reactionVerdict)
	}

	return classificationReport, nil
}

func (service *Service) classifyReaction(executionContext context.Context, examinedModel *cobramodel.Model, examinedReaction *cobramodel.Reaction, appliedCutoff float64) (ReactionVerdict, error) {
	mappedReaction := service.formulaMapper.MapReaction(executionContext, examinedModel, examinedReaction)

	reactionVerdict := ReactionVerdict{
		ReactionID:          examinedReaction.ID,
		MappedFormula:       mappedReaction.Formula,
		AnnotatedReversible: examinedReaction.Reversible(),
	}

	reactionEvaluation, evaluationError := service.reactionEvaluator.EvaluateReaction(executionContext, mappedReaction.Formula)
	switch {
	case errors.Is(evaluationError, equilibrator.ErrUnparsableFormula):
		reactionVerdict.Outcome = OutcomeIncompleteMapping
		return reactionVerdict, nil
	case errors.Is(evaluationError, equilibrator.ErrCalculationFailed):
		reactionVerdict.Outcome = OutcomeProblematicCalculation
		return reactionVerdict, nil
	case evaluationError != nil:
		return ReactionVerdict{}, fmt.Errorf(evaluationFailedTemplateConstant, examinedReaction.ID, evaluationError)
	}

	if !reactionEvaluation.Balanced {
		reactionVerdict.Outcome = OutcomeUnbalanced
		return reactionVerdict, nil
	}

	reactionVerdict.ReversibilityIndex = reactionEvaluation.ReversibilityIndex
	reactionVerdict.IndexComputed = true

	thermodynamicallyReversible := reactionEvaluation.ReversibilityIndex < appliedCutoff
	if thermodynamicallyReversible != examinedReaction.Reversible() {
		reactionVerdict.Outcome = OutcomeIncorrectReversibility
		return reactionVerdict, nil
	}

	reactionVerdict.Outcome = OutcomeAgreement
	return reactionVerdict, nil
}
