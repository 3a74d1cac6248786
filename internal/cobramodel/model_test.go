package cobramodel_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biosustain/thermocheck/internal/cobramodel"
)

const (
	modelSubtestNameTemplateConstant = "%d_%s"
	hexokinaseReactionIDConstant     = "HEX1"
)

func hexokinaseReaction(lowerBound float64, upperBound float64) *cobramodel.Reaction {
	return &cobramodel.Reaction{
		ID: hexokinaseReactionIDConstant,
		Metabolites: map[string]float64{
			"glc__D_c": -1,
			"atp_c":    -1,
			"g6p_c":    1,
			"adp_c":    1,
			"h_c":      1,
		},
		LowerBound: lowerBound,
		UpperBound: upperBound,
	}
}

func TestReactionReversibilityFromBounds(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name               string
		lowerBound         float64
		upperBound         float64
		expectedReversible bool
		expectedArrow      string
	}{
		{name: "reversible", lowerBound: -1000, upperBound: 1000, expectedReversible: true, expectedArrow: "<=>"},
		{name: "forward_only", lowerBound: 0, upperBound: 1000, expectedReversible: false, expectedArrow: "-->"},
		{name: "reverse_only", lowerBound: -1000, upperBound: 0, expectedReversible: false, expectedArrow: "<--"},
		{name: "blocked", lowerBound: 0, upperBound: 0, expectedReversible: false, expectedArrow: "-->"},
	}

	for testCaseIndex, testCase := range testCases {
		testCase := testCase
		testInstance.Run(fmt.Sprintf(modelSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			subTest.Parallel()

			examinedReaction := hexokinaseReaction(testCase.lowerBound, testCase.upperBound)
			require.Equal(subTest, testCase.expectedReversible, examinedReaction.Reversible())
			require.Equal(subTest, testCase.expectedArrow, examinedReaction.Arrow())
		})
	}
}

func TestReactionFormulaString(testInstance *testing.T) {
	testInstance.Parallel()

	examinedReaction := hexokinaseReaction(0, 1000)
	require.Equal(
		testInstance,
		"atp_c + glc__D_c --> adp_c + g6p_c + h_c",
		examinedReaction.FormulaString(),
	)
}

func TestReactionFormulaStringRendersCoefficients(testInstance *testing.T) {
	testInstance.Parallel()

	examinedReaction := &cobramodel.Reaction{
		ID: "CAT",
		Metabolites: map[string]float64{
			"h2o2_c": -2,
			"h2o_c":  2,
			"o2_c":   0.5,
		},
		LowerBound: 0,
		UpperBound: 1000,
	}

	require.Equal(testInstance, "2 h2o2_c --> 2 h2o_c + 0.5 o2_c", examinedReaction.FormulaString())
}

func TestReactionFormulaStringWithResolvedIdentifiers(testInstance *testing.T) {
	testInstance.Parallel()

	identifierMapping := map[string]string{
		"atp_c":    "C00002",
		"glc__D_c": "C00031",
		"adp_c":    "C00008",
		"g6p_c":    "C00092",
		"h_c":      "C00080",
	}

	examinedReaction := hexokinaseReaction(0, 1000)
	mappedFormula := examinedReaction.FormulaStringWith(func(metaboliteID string) string {
		return identifierMapping[metaboliteID]
	}, "->")

	require.Equal(testInstance, "C00002 + C00031 -> C00008 + C00092 + C00080", mappedFormula)
}

func TestMetaboliteBaseIdentifier(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name               string
		metabolite         cobramodel.Metabolite
		expectedIdentifier string
	}{
		{
			name:               "compartment_suffix_stripped",
			metabolite:         cobramodel.Metabolite{ID: "glc__D_c", Compartment: "c"},
			expectedIdentifier: "glc__D",
		},
		{
			name:               "suffix_not_matching_compartment",
			metabolite:         cobramodel.Metabolite{ID: "glc__D_c", Compartment: "e"},
			expectedIdentifier: "glc__D_c",
		},
		{
			name:               "missing_compartment",
			metabolite:         cobramodel.Metabolite{ID: "glc__D"},
			expectedIdentifier: "glc__D",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testCase := testCase
		testInstance.Run(fmt.Sprintf(modelSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			subTest.Parallel()

			require.Equal(subTest, testCase.expectedIdentifier, testCase.metabolite.BaseIdentifier())
		})
	}
}
