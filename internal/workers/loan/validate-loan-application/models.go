// internal/workers/loan/validate-loan-application/models.go
package validateloanapplication

import "loan-advisor-workers/internal/loan"

// Input is the submitted form. Values arrive as strings or numbers and are
// coerced the way the web form does it.
type Input map[string]interface{}

type Output struct {
	IsValid             bool                  `json:"isValid"`
	Name                string                `json:"name,omitempty"`
	Email               string                `json:"email,omitempty"`
	Phone               string                `json:"phone,omitempty"`
	Applicant           loan.ApplicantProfile `json:"applicant"`
	CreditScoreProvided bool                  `json:"creditScoreProvided"`
}
