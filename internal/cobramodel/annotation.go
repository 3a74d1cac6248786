package cobramodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	annotationScalarDecodeErrorTemplateConstant = "annotation value must be a string or list of strings: %w"
	annotationYAMLKindErrorTemplateConstant     = "annotation value has unsupported YAML kind %d"
)

// IdentifierList carries the identifiers recorded for one annotation namespace.
//
// Model documents serialize annotation values either as a single scalar or as
// a list; both forms decode into an IdentifierList so downstream resolution
// can distinguish unambiguous single mappings from candidate lists by length.
type IdentifierList []string

// Annotation maps annotation namespaces (for example "kegg.compound") to their identifiers.
type Annotation map[string]IdentifierList

// UnmarshalJSON accepts both scalar and list annotation encodings.
func (identifierList *IdentifierList) UnmarshalJSON(encodedValue []byte) error {
	var scalarValue string
	if scalarError := json.Unmarshal(encodedValue, &scalarValue); scalarError == nil {
		*identifierList = IdentifierList{scalarValue}
		return nil
	}

	var listValue []string
	if listError := json.Unmarshal(encodedValue, &listValue); listError != nil {
		return fmt.Errorf(annotationScalarDecodeErrorTemplateConstant, listError)
	}

	*identifierList = IdentifierList(listValue)
	return nil
}

// UnmarshalYAML accepts both scalar and list annotation encodings.
func (identifierList *IdentifierList) UnmarshalYAML(valueNode *yaml.Node) error {
	switch valueNode.Kind {
	case yaml.ScalarNode:
		var scalarValue string
		if scalarError := valueNode.Decode(&scalarValue); scalarError != nil {
			return fmt.Errorf(annotationScalarDecodeErrorTemplateConstant, scalarError)
		}
		*identifierList = IdentifierList{scalarValue}
		return nil
	case yaml.SequenceNode:
		var listValue []string
		if listError := valueNode.Decode(&listValue); listError != nil {
			return fmt.Errorf(annotationScalarDecodeErrorTemplateConstant, listError)
		}
		*identifierList = IdentifierList(listValue)
		return nil
	default:
		return fmt.Errorf(annotationYAMLKindErrorTemplateConstant, valueNode.Kind)
	}
}

// Identifiers returns the identifiers recorded under the namespace with whitespace trimmed.
func (annotation Annotation) Identifiers(namespaceKey string) []string {
	identifierList, namespacePresent := annotation[namespaceKey]
	if !namespacePresent {
		return nil
	}

	trimmedIdentifiers := make([]string, 0, len(identifierList))
	for _, identifierCandidate := range identifierList {
		trimmedIdentifier := strings.TrimSpace(identifierCandidate)
		if len(trimmedIdentifier) == 0 {
			continue
		}
		trimmedIdentifiers = append(trimmedIdentifiers, trimmedIdentifier)
	}

	return trimmedIdentifiers
}

// Contains reports whether the namespace records the exact identifier.
func (annotation Annotation) Contains(namespaceKey string, soughtIdentifier string) bool {
	for _, recordedIdentifier := range annotation.Identifiers(namespaceKey) {
		if recordedIdentifier == soughtIdentifier {
			return true
		}
	}
	return false
}
