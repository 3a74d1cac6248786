package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant  = "<"
	choicePlaceholderSuffixConstant  = ">"
	choiceSeparatorLiteralConstant   = "|"
	choiceUsageEmptyTemplateConstant = "`%s`"
	choiceUsageFullTemplateConstant  = "`%s` %s"
)

// FormatChoiceUsage builds a flag usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, availableChoices []string, usageDescription string) string {
	choicePlaceholder := choicePlaceholderPrefixConstant +
		strings.Join(highlightDefaultChoice(defaultChoice, availableChoices), choiceSeparatorLiteralConstant) +
		choicePlaceholderSuffixConstant

	if len(strings.TrimSpace(usageDescription)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, choicePlaceholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, choicePlaceholder, usageDescription)
}

func highlightDefaultChoice(defaultChoice string, availableChoices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlightedChoices := make([]string, 0, len(availableChoices))
	seenChoices := make(map[string]struct{}, len(availableChoices))

	for _, choiceCandidate := range availableChoices {
		trimmedChoice := strings.TrimSpace(choiceCandidate)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadySeen := seenChoices[normalizedChoice]; alreadySeen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			highlightedChoices = append(highlightedChoices, strings.ToUpper(trimmedChoice))
			continue
		}
		highlightedChoices = append(highlightedChoices, trimmedChoice)
	}

	return highlightedChoices
}
