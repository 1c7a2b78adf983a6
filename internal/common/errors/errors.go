// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Loan advisory errors
const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidLoanType      ErrorCode = "INVALID_LOAN_TYPE"
	ErrCodeInvalidEMIInput      ErrorCode = "INVALID_EMI_INPUT"
	ErrCodeInputSchemaViolation ErrorCode = "INPUT_SCHEMA_VIOLATION"
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"

	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeNoMatchingOffers   ErrorCode = "NO_MATCHING_OFFERS"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEventPublishFailed     ErrorCode = "EVENT_PUBLISH_FAILED"
)

// Generic errors
const (
	ErrCodeBusinessRuleViolation ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeExternalService       ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout               ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound      ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication        ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewValidationFailedError creates a non-retryable error for a rejected
// application form. fields lists the failing form fields in order.
func NewValidationFailedError(details string, fields []string) *StandardError {
	return newError(ErrCodeValidationFailed, "Loan application failed validation", details, false, nil).
		WithMetadata("fields", fields)
}

// NewInvalidLoanTypeError creates a non-retryable unknown loan type error.
func NewInvalidLoanTypeError(loanType string, cause error) *StandardError {
	return newError(ErrCodeInvalidLoanType, "Please select a valid loan type", loanType, false, cause)
}

// NewInvalidEMIInputError creates a non-retryable EMI input error.
func NewInvalidEMIInputError(details string, cause error) *StandardError {
	return newError(ErrCodeInvalidEMIInput, "Invalid EMI calculation input", details, false, cause)
}

// NewInputSchemaViolationError creates a non-retryable job variable schema error.
func NewInputSchemaViolationError(taskType string, violations []string) *StandardError {
	return newError(ErrCodeInputSchemaViolation,
		fmt.Sprintf("Job variables for %s do not match the input schema", taskType),
		strings.Join(violations, "; "), false, nil)
}

// NewParseError creates a non-retryable job variable decoding error.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false, err)
}

// NewCatalogUnavailableError creates a retryable bank catalog error.
func NewCatalogUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable,
		fmt.Sprintf("Bank offer catalog '%s' unavailable", source), err.Error(), true, err)
}

// NewNoMatchingOffersError creates a non-retryable empty comparison error.
func NewNoMatchingOffersError(loanType string) *StandardError {
	return newError(ErrCodeNoMatchingOffers, "No bank offers match the requested loan", loanType, false, nil)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", err.Error(), true, err)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Failed to record loan assessment", err.Error(), true, err)
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true, err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed,
		fmt.Sprintf("Failed to send %s notification", notificationType), err.Error(), true, err)
}

// NewEventPublishFailedError creates a retryable Kafka publish error.
func NewEventPublishFailedError(topic string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed,
		fmt.Sprintf("Failed to publish event to '%s'", topic), err.Error(), true, err)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRuleViolation, message, details, false, nil)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService,
		fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false, nil)
}

// NewPanicError creates a non-retryable error for a handler that panicked.
// The same job variables would panic again, so retrying is pointless.
func NewPanicError(taskType string, recovered interface{}) *StandardError {
	return newError(ErrCodeInternal, fmt.Sprintf("Worker '%s' panicked", taskType),
		fmt.Sprint(recovered), false, nil)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the loan process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:         "VALIDATION_FAILED",
	ErrCodeInvalidLoanType:          "INVALID_LOAN_TYPE",
	ErrCodeInvalidEMIInput:          "INVALID_EMI_INPUT",
	ErrCodeInputSchemaViolation:     "INPUT_SCHEMA_VIOLATION",
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeCatalogUnavailable:       "CATALOG_UNAVAILABLE",
	ErrCodeNoMatchingOffers:         "NO_MATCHING_OFFERS",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeEventPublishFailed:       "EVENT_PUBLISH_FAILED",
	ErrCodeTimeout:                  "TIMEOUT_ERROR",
	ErrCodeExternalService:          "EXTERNAL_SERVICE_ERROR",
}

// GetRetryCount returns the recommended retry count for code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeCatalogUnavailable,
		ErrCodeNotificationSendFailed,
		ErrCodeEventPublishFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "OFFERS"):
		return "CATALOG"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EVENT"):
		return "MESSAGING"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "BUSINESS_RULE"):
		return "BUSINESS"
	default:
		return "OTHER"
	}
}
