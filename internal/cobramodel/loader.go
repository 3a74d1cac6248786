package cobramodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	jsonModelExtensionConstant                = ".json"
	yamlModelExtensionConstant                = ".yaml"
	yamlModelShortExtensionConstant           = ".yml"
	modelReadErrorTemplateConstant            = "unable to read model document %q: %w"
	modelDecodeErrorTemplateConstant          = "unable to decode model document %q: %w"
	unsupportedModelFormatTemplateConstant    = "unsupported model document format %q (expected .json, .yaml, or .yml)"
	modelWithoutReactionsTemplateConstant     = "model document %q declares no reactions"
	unknownMetaboliteReferenceTemplateConstant = "reaction %q references unknown metabolite %q"
)

// LoadModel reads and validates a COBRA model document in JSON or YAML form.
func LoadModel(modelPath string) (*Model, error) {
	documentBytes, readError := os.ReadFile(modelPath)
	if readError != nil {
		return nil, fmt.Errorf(modelReadErrorTemplateConstant, modelPath, readError)
	}

	loadedModel := &Model{}

	switch strings.ToLower(filepath.Ext(modelPath)) {
	case jsonModelExtensionConstant:
		if decodeError := json.Unmarshal(documentBytes, loadedModel); decodeError != nil {
			return nil, fmt.Errorf(modelDecodeErrorTemplateConstant, modelPath, decodeError)
		}
	case yamlModelExtensionConstant, yamlModelShortExtensionConstant:
		if decodeError := yaml.Unmarshal(documentBytes, loadedModel); decodeError != nil {
			return nil, fmt.Errorf(modelDecodeErrorTemplateConstant, modelPath, decodeError)
		}
	default:
		return nil, fmt.Errorf(unsupportedModelFormatTemplateConstant, modelPath)
	}

	if validationError := validateModel(modelPath, loadedModel); validationError != nil {
		return nil, validationError
	}

	return loadedModel, nil
}

func validateModel(modelPath string, candidateModel *Model) error {
	if len(candidateModel.Reactions) == 0 {
		return fmt.Errorf(modelWithoutReactionsTemplateConstant, modelPath)
	}

	for _, declaredReaction := range candidateModel.Reactions {
		for metaboliteID := range declaredReaction.Metabolites {
			if _, metabolitePresent := candidateModel.MetaboliteByID(metaboliteID); !metabolitePresent {
				return fmt.Errorf(unknownMetaboliteReferenceTemplateConstant, declaredReaction.ID, metaboliteID)
			}
		}
	}

	return nil
}
