package reversibility

import (
	"context"

	"go.uber.org/zap"

	"github.com/biosustain/thermocheck/internal/cobramodel"
	"github.com/biosustain/thermocheck/internal/kegg"
)

const (
	estimationReversibleArrowConstant   = "<=>"
	estimationForwardArrowConstant      = "->"
	estimationReverseArrowConstant      = "<-"
	modelReverseArrowConstant           = "<--"
	compoundMatchFailedMessageConstant  = "compound name matching failed"
	metaboliteUnmappedMessageConstant   = "metabolite left unmapped"
	logFieldMetaboliteConstant          = "metabolite_id"
	logFieldMetaboliteNameConstant      = "metabolite_name"
	logFieldMatchedCompoundConstant     = "compound_id"
	logFieldMatchScoreConstant          = "match_score"
	compoundMatchedMessageConstant      = "compound matched by name"
)

// MappedReaction carries a reaction formula rewritten into the canonical compound space.
type MappedReaction struct {
	ReactionID            string
	Formula               string
	UnmappedMetaboliteIDs []string
}

// FullyMapped reports whether every metabolite was resolved to a compound identifier.
func (mappedReaction MappedReaction) FullyMapped() bool {
	return len(mappedReaction.UnmappedMetaboliteIDs) == 0
}

// FormulaMapper rewrites model reaction formulas into the canonical compound identifier space.
//
// Resolution order per metabolite: a single compound annotation wins, a
// candidate list contributes its smallest compound identifier, and remaining
// metabolites fall back to name matching through the external compound
// matcher. Metabolites that resolve nowhere keep their model identifier so
// the estimation service rejects the formula as incompletely mapped.
type FormulaMapper struct {
	compoundMatcher CompoundMatcher
	logger          *zap.Logger
}

// NewFormulaMapper constructs a FormulaMapper using the provided compound matcher.
func NewFormulaMapper(compoundMatcher CompoundMatcher, logger *zap.Logger) *FormulaMapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormulaMapper{
		compoundMatcher: compoundMatcher,
		logger:          logger,
	}
}

// MapReaction renders the reaction formula with metabolites resolved to compound identifiers
// and arrows normalized to the estimation service notation.
func (mapper *FormulaMapper) MapReaction(executionContext context.Context, containingModel *cobramodel.Model, examinedReaction *cobramodel.Reaction) MappedReaction {
	resolvedIdentifiers := make(map[string]string, len(examinedReaction.Metabolites))
	unmappedMetaboliteIDs := make([]string, 0)

	for metaboliteID := range examinedReaction.Metabolites {
		resolvedIdentifier, identifierResolved := mapper.resolveMetabolite(executionContext, containingModel, metaboliteID)
		resolvedIdentifiers[metaboliteID] = resolvedIdentifier
		if !identifierResolved {
			unmappedMetaboliteIDs = append(unmappedMetaboliteIDs, metaboliteID)
		}
	}

	mappedFormula := examinedReaction.FormulaStringWith(func(metaboliteID string) string {
		return resolvedIdentifiers[metaboliteID]
	}, normalizeArrow(examinedReaction.Arrow()))

	return MappedReaction{
		ReactionID:            examinedReaction.ID,
		Formula:               mappedFormula,
		UnmappedMetaboliteIDs: sortedCopy(unmappedMetaboliteIDs),
	}
}

func (mapper *FormulaMapper) resolveMetabolite(executionContext context.Context, containingModel *cobramodel.Model, metaboliteID string) (string, bool) {
	examinedMetabolite, metabolitePresent := containingModel.MetaboliteByID(metaboliteID)
	if !metabolitePresent {
		return metaboliteID, false
	}

	annotatedIdentifiers := examinedMetabolite.Annotation.Identifiers(kegg.CompoundAnnotationKey)
	if len(annotatedIdentifiers) == 1 && kegg.IsCompoundIdentifier(annotatedIdentifiers[0]) {
		return annotatedIdentifiers[0], true
	}
	if len(annotatedIdentifiers) > 1 {
		if smallestIdentifier, identifierFound := kegg.SmallestCompoundIdentifier(annotatedIdentifiers); identifierFound {
			return smallestIdentifier, true
		}
	}

	if len(examinedMetabolite.Name) == 0 || mapper.compoundMatcher == nil {
		mapper.logger.Debug(metaboliteUnmappedMessageConstant, zap.String(logFieldMetaboliteConstant, metaboliteID))
		return metaboliteID, false
	}

	bestMatch, matchError := mapper.compoundMatcher.MatchCompound(executionContext, examinedMetabolite.Name)
	if matchError != nil {
		mapper.logger.Debug(
			compoundMatchFailedMessageConstant,
			zap.String(logFieldMetaboliteConstant, metaboliteID),
			zap.String(logFieldMetaboliteNameConstant, examinedMetabolite.Name),
			zap.Error(matchError),
		)
		return metaboliteID, false
	}

	mapper.logger.Debug(
		compoundMatchedMessageConstant,
		zap.String(logFieldMetaboliteConstant, metaboliteID),
		zap.String(logFieldMatchedCompoundConstant, bestMatch.CompoundID),
		zap.Float64(logFieldMatchScoreConstant, bestMatch.Score),
	)

	return bestMatch.CompoundID, true
}

func normalizeArrow(modelArrow string) string {
	switch modelArrow {
	case estimationReversibleArrowConstant:
		return estimationReversibleArrowConstant
	case modelReverseArrowConstant:
		return estimationReverseArrowConstant
	default:
		return estimationForwardArrowConstant
	}
}
