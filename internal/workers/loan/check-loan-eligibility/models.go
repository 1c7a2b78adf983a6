// internal/workers/loan/check-loan-eligibility/models.go
package checkloaneligibility

import (
	"encoding/json"

	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"
)

// Input takes either a coerced applicant profile, as produced by
// validate-loan-application, or the raw form fields at the top level.
type Input struct {
	Applicant *loan.ApplicantProfile
	Fields    map[string]string
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var shape struct {
		Applicant *loan.ApplicantProfile `json:"applicant"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}

	var vars map[string]interface{}
	if err := json.Unmarshal(data, &vars); err != nil {
		return err
	}

	in.Applicant = shape.Applicant
	in.Fields = models.FormFields(vars)
	return nil
}

// hasIdentity reports whether the raw form carries identity fields, in which
// case the full gate, identity checks included, runs before the calculation.
// Otherwise only the age, income and credit score checks apply.
func (in *Input) hasIdentity() bool {
	for _, key := range []string{"phone", "pan", "aadhar"} {
		if in.Fields[key] != "" {
			return true
		}
	}
	return false
}

type Output struct {
	Eligibility                    loan.EligibilityResult `json:"eligibility"`
	Applicant                      loan.ApplicantProfile  `json:"applicant"`
	MaxEligibleAmountFormatted     string                 `json:"maxEligibleAmountFormatted"`
	SuggestedInterestRateFormatted string                 `json:"suggestedInterestRateFormatted"`
}
