// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"loan-advisor-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SchemaValidator checks job variables against the JSON schemas declared in
// the activity registry. Task types without a schema accept anything.
type SchemaValidator struct {
	inputs  map[string]*gojsonschema.Schema
	outputs map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the input and output schema of every activity
// in reg.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{
		inputs:  make(map[string]*gojsonschema.Schema),
		outputs: make(map[string]*gojsonschema.Schema),
	}

	for _, activity := range reg.Activities {
		if err := ValidateActivityNaming(activity.ID); err != nil {
			return nil, fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if err := compileInto(v.inputs, activity.TaskType, activity.InputSchema); err != nil {
			return nil, fmt.Errorf("activity %s input schema: %w", activity.ID, err)
		}
		if err := compileInto(v.outputs, activity.TaskType, activity.OutputSchema); err != nil {
			return nil, fmt.Errorf("activity %s output schema: %w", activity.ID, err)
		}
	}
	return v, nil
}

func compileInto(dst map[string]*gojsonschema.Schema, taskType string, schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return err
	}
	dst[taskType] = compiled
	return nil
}

// ValidateInput satisfies camunda.InputValidator.
func (v *SchemaValidator) ValidateInput(taskType string, variables map[string]interface{}) ([]string, error) {
	result, err := validateWith(v.inputs[taskType], variables)
	if err != nil {
		return nil, err
	}
	return result.GetErrorMessages(), nil
}

// ValidateOutput checks a worker's result variables against the activity's
// declared output schema.
func (v *SchemaValidator) ValidateOutput(taskType string, output interface{}) (*ValidationResult, error) {
	return validateWith(v.outputs[taskType], output)
}

// Validate checks document against an ad hoc schema.
func Validate(schema map[string]interface{}, document interface{}) (*ValidationResult, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return validateWith(compiled, document)
}

func validateWith(schema *gojsonschema.Schema, document interface{}) (*ValidationResult, error) {
	if schema == nil {
		return &ValidationResult{Valid: true}, nil
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	result := &ValidationResult{Valid: res.Valid()}
	for _, e := range res.Errors() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldOf(e),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Field < result.Errors[j].Field
	})
	return result, nil
}

// fieldOf names the offending property; "required" errors are reported
// against the parent, so the missing property is taken from the details.
func fieldOf(e gojsonschema.ResultError) string {
	field := e.Field()
	if prop, ok := e.Details()["property"].(string); ok && e.Type() == "required" {
		if field == "(root)" {
			return prop
		}
		return field + "." + prop
	}
	return field
}

var activityNamePattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

// ValidateActivityNaming validates activity ID follows naming convention
func ValidateActivityNaming(activityId string) error {
	if !activityNamePattern.MatchString(activityId) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., loan.emi.compute)")
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
