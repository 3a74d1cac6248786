package reversibility

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	csvHeaderReactionIDConstant          = "reaction_id"
	csvHeaderOutcomeConstant             = "outcome"
	csvHeaderAnnotatedReversibleConstant = "annotated_reversible"
	csvHeaderReversibilityIndexConstant  = "reversibility_index"
	csvHeaderMappedFormulaConstant       = "mapped_formula"
	csvMissingIndexValueConstant         = ""
	jsonIndentConstant                   = "  "
	truncatedListingLimitConstant        = 5
	truncationMarkerConstant             = "..."
	summaryMessageTemplateConstant       = "Out of %d purely metabolic reactions the reversibility of %d does not agree " +
		"with the calculated reversibility index cutoff (%.2f%%), and thus ought to be inverted. " +
		"%d reactions could not be mapped to the compound space completely, " +
		"%d contained problematic metabolites, and %d are chemically or redox imbalanced: %s"
)

// Outcome classifies one checked reaction.
type Outcome string

// Outcome buckets of the reversibility check.
const (
	OutcomeAgreement              Outcome = "agreement"
	OutcomeIncorrectReversibility Outcome = "incorrect_reversibility"
	OutcomeIncompleteMapping      Outcome = "incomplete_mapping"
	OutcomeProblematicCalculation Outcome = "problematic_calculation"
	OutcomeUnbalanced             Outcome = "unbalanced"
)

// ReactionVerdict records the classification of a single reaction.
type ReactionVerdict struct {
	ReactionID          string  `json:"reaction_id"`
	Outcome             Outcome `json:"outcome"`
	MappedFormula       string  `json:"mapped_formula"`
	AnnotatedReversible bool    `json:"annotated_reversible"`
	ReversibilityIndex  float64 `json:"reversibility_index,omitempty"`
	IndexComputed       bool    `json:"index_computed"`
}

// Report aggregates the verdicts of one classification run.
type Report struct {
	RunID        string            `json:"run_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	ModelID      string            `json:"model_id"`
	Cutoff       float64           `json:"cutoff"`
	TotalChecked int               `json:"total_checked"`
	Verdicts     []ReactionVerdict `json:"verdicts"`
}

// CSVRecord returns the verdict formatted for CSV encoding.
func (verdict ReactionVerdict) CSVRecord() []string {
	renderedIndex := csvMissingIndexValueConstant
	if verdict.IndexComputed {
		renderedIndex = strconv.FormatFloat(verdict.ReversibilityIndex, 'g', -1, 64)
	}

	return []string{
		verdict.ReactionID,
		string(verdict.Outcome),
		strconv.FormatBool(verdict.AnnotatedReversible),
		renderedIndex,
		verdict.MappedFormula,
	}
}

// ReactionIDsWithOutcome lists the identifiers of reactions classified into the outcome.
func (report Report) ReactionIDsWithOutcome(soughtOutcome Outcome) []string {
	matchingIdentifiers := make([]string, 0)
	for _, recordedVerdict := range report.Verdicts {
		if recordedVerdict.Outcome == soughtOutcome {
			matchingIdentifiers = append(matchingIdentifiers, recordedVerdict.ReactionID)
		}
	}
	return matchingIdentifiers
}

// OutcomeCounts tallies verdicts per outcome bucket.
func (report Report) OutcomeCounts() map[Outcome]int {
	outcomeCounts := make(map[Outcome]int)
	for _, recordedVerdict := range report.Verdicts {
		outcomeCounts[recordedVerdict.Outcome]++
	}
	return outcomeCounts
}

// DisagreementMetric returns the fraction of checked reactions that landed in
// any of the four non-agreement buckets. An empty report yields zero.
func (report Report) DisagreementMetric() float64 {
	if report.TotalChecked == 0 {
		return 0
	}

	outcomeCounts := report.OutcomeCounts()
	flaggedCount := outcomeCounts[OutcomeIncorrectReversibility] +
		outcomeCounts[OutcomeIncompleteMapping] +
		outcomeCounts[OutcomeProblematicCalculation] +
		outcomeCounts[OutcomeUnbalanced]

	return float64(flaggedCount) / float64(report.TotalChecked)
}

// SummaryMessage renders the human-readable run summary.
func (report Report) SummaryMessage() string {
	outcomeCounts := report.OutcomeCounts()
	incorrectIdentifiers := report.ReactionIDsWithOutcome(OutcomeIncorrectReversibility)

	return fmt.Sprintf(
		summaryMessageTemplateConstant,
		report.TotalChecked,
		outcomeCounts[OutcomeIncorrectReversibility],
		report.DisagreementMetric()*100,
		outcomeCounts[OutcomeIncompleteMapping],
		outcomeCounts[OutcomeProblematicCalculation],
		outcomeCounts[OutcomeUnbalanced],
		truncateListing(incorrectIdentifiers),
	)
}

// WriteCSV encodes the report as CSV rows preceded by a header.
func (report Report) WriteCSV(outputWriter io.Writer) error {
	csvWriter := csv.NewWriter(outputWriter)

	headerRecord := []string{
		csvHeaderReactionIDConstant,
		csvHeaderOutcomeConstant,
		csvHeaderAnnotatedReversibleConstant,
		csvHeaderReversibilityIndexConstant,
		csvHeaderMappedFormulaConstant,
	}
	if writeError := csvWriter.Write(headerRecord); writeError != nil {
		return writeError
	}

	for _, recordedVerdict := range report.Verdicts {
		if writeError := csvWriter.Write(recordedVerdict.CSVRecord()); writeError != nil {
			return writeError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteJSON encodes the report as an indented JSON document.
func (report Report) WriteJSON(outputWriter io.Writer) error {
	jsonEncoder := json.NewEncoder(outputWriter)
	jsonEncoder.SetIndent("", jsonIndentConstant)
	return jsonEncoder.Encode(report)
}

func truncateListing(reactionIdentifiers []string) string {
	if len(reactionIdentifiers) <= truncatedListingLimitConstant {
		return strings.Join(reactionIdentifiers, ", ")
	}

	truncatedIdentifiers := append([]string{}, reactionIdentifiers[:truncatedListingLimitConstant]...)
	truncatedIdentifiers = append(truncatedIdentifiers, truncationMarkerConstant)
	return strings.Join(truncatedIdentifiers, ", ")
}

func sortedCopy(unsortedValues []string) []string {
	duplicatedValues := append([]string{}, unsortedValues...)
	sort.Strings(duplicatedValues)
	return duplicatedValues
}
