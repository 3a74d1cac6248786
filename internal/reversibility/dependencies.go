package reversibility

import (
	"context"
	"time"

	"github.com/biosustain/thermocheck/internal/cobramodel"
	"github.com/biosustain/thermocheck/internal/equilibrator"
)

// CompoundMatcher resolves metabolite names to canonical compound identifiers.
type CompoundMatcher interface {
	MatchCompound(executionContext context.Context, compoundName string) (equilibrator.CompoundMatch, error)
}

// ReactionEvaluator submits mapped reaction formulas to the thermodynamic estimation service.
type ReactionEvaluator interface {
	EvaluateReaction(executionContext context.Context, reactionFormula string) (equilibrator.ReactionEvaluation, error)
}

// ModelLoader reads a metabolic model document from disk.
type ModelLoader func(modelPath string) (*cobramodel.Model, error)

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
