package cobramodel

import "strings"

const (
	sboAnnotationKeyConstant   = "sbo"
	sboBiomassTermConstant     = "SBO:0000629"
	biomassNameFragmentConstant = "biomass"
)

// IsBoundary reports whether the reaction exchanges a single metabolite with the environment.
func (reaction *Reaction) IsBoundary() bool {
	return len(reaction.Metabolites) == 1
}

// IsBiomass reports whether the reaction represents biomass production.
//
// Biomass reactions are identified by the SBO:0000629 annotation or by the
// "biomass" fragment in the reaction identifier or name.
func (reaction *Reaction) IsBiomass() bool {
	if reaction.Annotation.Contains(sboAnnotationKeyConstant, sboBiomassTermConstant) {
		return true
	}
	if strings.Contains(strings.ToLower(reaction.ID), biomassNameFragmentConstant) {
		return true
	}
	return strings.Contains(strings.ToLower(reaction.Name), biomassNameFragmentConstant)
}

// IsTransport reports whether the reaction moves a compound between compartments.
//
// A reaction is a transport reaction when the same base compound (the
// metabolite identifier with its compartment suffix stripped) participates in
// more than one compartment.
func (model *Model) IsTransport(reaction *Reaction) bool {
	compartmentsByBase := make(map[string]map[string]struct{})

	for metaboliteID := range reaction.Metabolites {
		participatingMetabolite, metabolitePresent := model.MetaboliteByID(metaboliteID)
		if !metabolitePresent {
			continue
		}

		baseIdentifier := participatingMetabolite.BaseIdentifier()
		if compartmentsByBase[baseIdentifier] == nil {
			compartmentsByBase[baseIdentifier] = make(map[string]struct{})
		}
		compartmentsByBase[baseIdentifier][participatingMetabolite.Compartment] = struct{}{}
	}

	for _, participatingCompartments := range compartmentsByBase {
		if len(participatingCompartments) > 1 {
			return true
		}
	}

	return false
}

// PureMetabolicReactions returns reactions that are neither boundary, biomass, nor transport reactions.
//
// The thermodynamic reversibility check is only meaningful for purely
// metabolic conversions; the returned slice preserves model order.
func (model *Model) PureMetabolicReactions() []*Reaction {
	pureMetabolicReactions := make([]*Reaction, 0, len(model.Reactions))
	for _, candidateReaction := range model.Reactions {
		if candidateReaction.IsBoundary() {
			continue
		}
		if candidateReaction.IsBiomass() {
			continue
		}
		if model.IsTransport(candidateReaction) {
			continue
		}
		pureMetabolicReactions = append(pureMetabolicReactions, candidateReaction)
	}
	return pureMetabolicReactions
}
