package models

import (
	"encoding/json"
	"testing"

	"loan-advisor-workers/internal/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormFields(t *testing.T) {
	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"loanType": "Home",
		"annualIncome": 600000,
		"age": "30",
		"creditScore": 720.5,
		"consent": true,
		"address": {"city": "Pune"},
		"phone": null
	}`), &vars))

	fields := FormFields(vars)

	assert.Equal(t, map[string]string{
		"loanType":     "Home",
		"annualIncome": "600000",
		"age":          "30",
		"creditScore":  "720.5",
		"consent":      "true",
	}, fields)
}

func TestNewAssessment(t *testing.T) {
	profile := loan.ApplicantProfile{LoanType: loan.LoanTypeCar, RequestedLoanAmount: 400000}

	a := NewAssessment(profile, loan.EligibilityResult{Eligible: true, MaxEligibleAmount: 600000})
	assert.Equal(t, AssessmentApproved, a.Status)
	assert.Equal(t, loan.LoanTypeCar, a.LoanType)
	assert.Equal(t, 400000.0, a.RequestedAmount)

	a = NewAssessment(profile, loan.EligibilityResult{Eligible: false})
	assert.Equal(t, AssessmentDeclined, a.Status)
}
