package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateVariableIDs checks that at least one ID was given and none is blank
func ValidateVariableIDs(ids []string) error {
	if len(ids) == 0 {
		return &ValidationError{
			Field:   "variableIDs",
			Message: "at least one variable ID is required",
		}
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{
				Field:   "variableIDs",
				Message: fmt.Sprintf("variable ID at position %d is empty", i),
			}
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "pageID" -> "page ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"variableID":   "variable ID",
		"variableIDs":  "variable IDs",
		"collectionID": "collection ID",
		"pageID":       "page ID",
		"document":     "document path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
