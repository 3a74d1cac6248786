package kegg

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// CompoundAnnotationKey names the model annotation namespace carrying KEGG compound identifiers.
	CompoundAnnotationKey = "kegg.compound"

	compoundIdentifierPrefixConstant = "C"
	drugIdentifierPrefixConstant     = "D"
	glycanIdentifierPrefixConstant   = "G"
	minimumIdentifierDigitsConstant  = 5
)

// IsCompoundIdentifier reports whether the candidate is a KEGG compound identifier.
//
// KEGG identifiers map to compounds, drugs, and glycans prefixed respectively
// with "C", "D", and "G" followed by at least five digits. Only compound
// identifiers are usable by the thermodynamic estimation service.
func IsCompoundIdentifier(candidateIdentifier string) bool {
	return hasIdentifierShape(candidateIdentifier, compoundIdentifierPrefixConstant)
}

// IsDrugIdentifier reports whether the candidate is a KEGG drug identifier.
func IsDrugIdentifier(candidateIdentifier string) bool {
	return hasIdentifierShape(candidateIdentifier, drugIdentifierPrefixConstant)
}

// IsGlycanIdentifier reports whether the candidate is a KEGG glycan identifier.
func IsGlycanIdentifier(candidateIdentifier string) bool {
	return hasIdentifierShape(candidateIdentifier, glycanIdentifierPrefixConstant)
}

// CompoundIdentifiers filters the candidates to KEGG compound identifiers sorted ascending by numeric suffix.
func CompoundIdentifiers(candidateIdentifiers []string) []string {
	compoundIdentifiers := make([]string, 0, len(candidateIdentifiers))
	for _, candidateIdentifier := range candidateIdentifiers {
		trimmedIdentifier := strings.TrimSpace(candidateIdentifier)
		if IsCompoundIdentifier(trimmedIdentifier) {
			compoundIdentifiers = append(compoundIdentifiers, trimmedIdentifier)
		}
	}

	sort.Slice(compoundIdentifiers, func(firstIndex int, secondIndex int) bool {
		return identifierNumber(compoundIdentifiers[firstIndex]) < identifierNumber(compoundIdentifiers[secondIndex])
	})

	return compoundIdentifiers
}

// SmallestCompoundIdentifier returns the compound identifier with the lowest numeric suffix among the candidates.
func SmallestCompoundIdentifier(candidateIdentifiers []string) (string, bool) {
	compoundIdentifiers := CompoundIdentifiers(candidateIdentifiers)
	if len(compoundIdentifiers) == 0 {
		return "", false
	}
	return compoundIdentifiers[0], true
}

func hasIdentifierShape(candidateIdentifier string, identifierPrefix string) bool {
	trimmedIdentifier := strings.TrimSpace(candidateIdentifier)
	if !strings.HasPrefix(trimmedIdentifier, identifierPrefix) {
		return false
	}

	digitPortion := strings.TrimPrefix(trimmedIdentifier, identifierPrefix)
	if len(digitPortion) < minimumIdentifierDigitsConstant {
		return false
	}

	for _, digitCandidate := range digitPortion {
		if digitCandidate < '0' || digitCandidate > '9' {
			return false
		}
	}

	return true
}

func identifierNumber(compoundIdentifier string) int {
	parsedNumber, parseError := strconv.Atoi(strings.TrimPrefix(compoundIdentifier, compoundIdentifierPrefixConstant))
	if parseError != nil {
		return 0
	}
	return parsedNumber
}
