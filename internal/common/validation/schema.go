package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Request body schemas. Constraints mirror the API contract: queries are
// 3-500 characters, usernames 3-30, passwords 6-30.
var (
	querySchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":      "string",
				"minLength": 3,
				"maxLength": 500,
			},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}

	credentialsSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"username": map[string]interface{}{
				"type":      "string",
				"minLength": 3,
				"maxLength": 30,
			},
			"password": map[string]interface{}{
				"type":      "string",
				"minLength": 6,
				"maxLength": 30,
			},
		},
		"required":             []string{"username", "password"},
		"additionalProperties": false,
	}
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateQueryRequest checks a decoded query request body against its schema.
func ValidateQueryRequest(body map[string]interface{}) (*ValidationResult, error) {
	return validate(body, querySchema)
}

// ValidateCredentials checks a decoded register/login body against its schema.
func ValidateCredentials(body map[string]interface{}) (*ValidationResult, error) {
	return validate(body, credentialsSchema)
}

func validate(body map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return vr, nil
}
