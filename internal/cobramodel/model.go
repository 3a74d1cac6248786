package cobramodel

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	reversibleArrowConstant = "<=>"
	forwardArrowConstant    = "-->"
	reverseArrowConstant    = "<--"
	termSeparatorConstant   = " + "
	unitCoefficientConstant = 1.0
)

// Model represents a genome-scale metabolic model in the COBRA document schema.
type Model struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Compartments map[string]string `json:"compartments,omitempty" yaml:"compartments,omitempty"`
	Metabolites  []*Metabolite     `json:"metabolites" yaml:"metabolites"`
	Reactions    []*Reaction       `json:"reactions" yaml:"reactions"`

	metabolitesByID map[string]*Metabolite
}

// Metabolite represents one model species located in a compartment.
type Metabolite struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Compartment string     `json:"compartment,omitempty" yaml:"compartment,omitempty"`
	Formula     string     `json:"formula,omitempty" yaml:"formula,omitempty"`
	Charge      int        `json:"charge,omitempty" yaml:"charge,omitempty"`
	Annotation  Annotation `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Reaction represents one model reaction with stoichiometry and flux bounds.
type Reaction struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name,omitempty" yaml:"name,omitempty"`
	Metabolites      map[string]float64 `json:"metabolites" yaml:"metabolites"`
	LowerBound       float64            `json:"lower_bound" yaml:"lower_bound"`
	UpperBound       float64            `json:"upper_bound" yaml:"upper_bound"`
	GeneReactionRule string             `json:"gene_reaction_rule,omitempty" yaml:"gene_reaction_rule,omitempty"`
	Annotation       Annotation         `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Term pairs a metabolite identifier with its absolute stoichiometric coefficient.
type Term struct {
	MetaboliteID string
	Coefficient  float64
}

// MetaboliteByID resolves a metabolite from the model index.
func (model *Model) MetaboliteByID(metaboliteID string) (*Metabolite, bool) {
	if model.metabolitesByID == nil {
		model.metabolitesByID = make(map[string]*Metabolite, len(model.Metabolites))
		for _, indexedMetabolite := range model.Metabolites {
			model.metabolitesByID[indexedMetabolite.ID] = indexedMetabolite
		}
	}

	resolvedMetabolite, metabolitePresent := model.metabolitesByID[metaboliteID]
	return resolvedMetabolite, metabolitePresent
}

// BaseIdentifier strips the trailing compartment suffix from the metabolite identifier.
func (metabolite *Metabolite) BaseIdentifier() string {
	if len(metabolite.Compartment) == 0 {
		return metabolite.ID
	}

	compartmentSuffix := "_" + metabolite.Compartment
	if strings.HasSuffix(metabolite.ID, compartmentSuffix) {
		return strings.TrimSuffix(metabolite.ID, compartmentSuffix)
	}

	return metabolite.ID
}

// Reversible reports whether the annotated flux bounds allow both directions.
func (reaction *Reaction) Reversible() bool {
	return reaction.LowerBound < 0 && reaction.UpperBound > 0
}

// Arrow returns the document arrow implied by the reaction's flux bounds.
func (reaction *Reaction) Arrow() string {
	switch {
	case reaction.Reversible():
		return reversibleArrowConstant
	case reaction.UpperBound <= 0 && reaction.LowerBound < 0:
		return reverseArrowConstant
	default:
		return forwardArrowConstant
	}
}

// SubstrateTerms returns consumed metabolites sorted by identifier.
func (reaction *Reaction) SubstrateTerms() []Term {
	return reaction.sideTerms(func(coefficient float64) bool { return coefficient < 0 })
}

// ProductTerms returns produced metabolites sorted by identifier.
func (reaction *Reaction) ProductTerms() []Term {
	return reaction.sideTerms(func(coefficient float64) bool { return coefficient > 0 })
}

// FormulaString renders the reaction in the document notation, for example
// "atp_c + h2o_c --> adp_c + h_c + pi_c".
func (reaction *Reaction) FormulaString() string {
	return reaction.FormulaStringWith(func(metaboliteID string) string { return metaboliteID }, reaction.Arrow())
}

// FormulaStringWith renders the reaction using resolved metabolite identifiers
// and an explicit arrow. Substitution happens per stoichiometric term, so a
// metabolite identifier that is a substring of another can never corrupt the
// rendered formula.
func (reaction *Reaction) FormulaStringWith(identifierResolver func(metaboliteID string) string, arrowLiteral string) string {
	var formulaBuilder strings.Builder
	formulaBuilder.WriteString(renderTerms(reaction.SubstrateTerms(), identifierResolver))
	formulaBuilder.WriteString(" ")
	formulaBuilder.WriteString(arrowLiteral)
	formulaBuilder.WriteString(" ")
	formulaBuilder.WriteString(renderTerms(reaction.ProductTerms(), identifierResolver))
	return strings.TrimSpace(formulaBuilder.String())
}

func (reaction *Reaction) sideTerms(coefficientSelector func(coefficient float64) bool) []Term {
	selectedTerms := make([]Term, 0, len(reaction.Metabolites))
	for metaboliteID, stoichiometricCoefficient := range reaction.Metabolites {
		if coefficientSelector(stoichiometricCoefficient) {
			selectedTerms = append(selectedTerms, Term{
				MetaboliteID: metaboliteID,
				Coefficient:  math.Abs(stoichiometricCoefficient),
			})
		}
	}

	sort.Slice(selectedTerms, func(firstIndex int, secondIndex int) bool {
		return selectedTerms[firstIndex].MetaboliteID < selectedTerms[secondIndex].MetaboliteID
	})

	return selectedTerms
}

func renderTerms(sideTerms []Term, identifierResolver func(metaboliteID string) string) string {
	renderedTerms := make([]string, 0, len(sideTerms))
	for _, sideTerm := range sideTerms {
		resolvedIdentifier := identifierResolver(sideTerm.MetaboliteID)
		if sideTerm.Coefficient == unitCoefficientConstant {
			renderedTerms = append(renderedTerms, resolvedIdentifier)
			continue
		}
		renderedTerms = append(renderedTerms, formatCoefficient(sideTerm.Coefficient)+" "+resolvedIdentifier)
	}
	return strings.Join(renderedTerms, termSeparatorConstant)
}

func formatCoefficient(coefficientValue float64) string {
	return strconv.FormatFloat(coefficientValue, 'g', -1, 64)
}
