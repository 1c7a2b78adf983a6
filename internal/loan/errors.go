package loan

import (
	"errors"
	"strings"
)

var (
	ErrUnknownLoanType = errors.New("unknown loan type")
	ErrInvalidEMIInput = errors.New("invalid EMI input")
)

// ValidationError reports a form field that failed the validation gate.
// It is shown to the user verbatim and blocks the eligibility calculation.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is the ordered list of failures for one form.
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failing field names in order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, e.Field)
	}
	return fields
}

// AsValidationErrors unwraps err into ValidationErrors. A single
// *ValidationError is returned as a one-element list.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var list ValidationErrors
	if errors.As(err, &list) {
		return list, true
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return ValidationErrors{single}, true
	}
	return nil, false
}
