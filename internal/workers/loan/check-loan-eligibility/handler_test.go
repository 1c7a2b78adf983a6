// internal/workers/loan/check-loan-eligibility/handler_test.go
package checkloaneligibility

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"loan-advisor-workers/internal/common/camunda/camundatest"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func decodeInput(t *testing.T, raw string) *Input {
	t.Helper()
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return &in
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	tests := []struct {
		name           string
		variables      string
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "validated applicant profile",
			variables: `{"applicant": {
				"loanType": "Home", "annualIncome": 600000, "age": 30, "creditScore": 720,
				"employmentType": "Salaried", "requestedLoanAmount": 2000000
			}}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.Eligibility.Eligible)
				assert.Equal(t, 3000000.0, output.Eligibility.MaxEligibleAmount)
				assert.Equal(t, 8.5, output.Eligibility.SuggestedInterestRate)
				assert.Equal(t, "8.50%", output.SuggestedInterestRateFormatted)
				assert.Empty(t, output.Eligibility.Reasons)
			},
		},
		{
			name: "two reasons decline a personal loan",
			variables: `{"applicant": {
				"loanType": "personal", "annualIncome": 240000, "age": 28, "creditScore": 650,
				"employmentType": "Salaried", "employmentDurationYears": 0.5
			}}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, loan.LoanTypePersonal, output.Applicant.LoanType)
				assert.False(t, output.Eligibility.Eligible)
				assert.Len(t, output.Eligibility.Reasons, 2)
				assert.Equal(t, 12.5, output.Eligibility.SuggestedInterestRate)
			},
		},
		{
			name:      "raw form fields without identity are coerced",
			variables: `{"loanType": "car", "annualIncome": "5,00,000", "age": "35", "creditScore": "", "existingLoans": "3"}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, loan.DefaultCreditScore, output.Applicant.CreditScore)
				assert.False(t, output.Eligibility.Eligible)
				assert.Equal(t, []string{
					"Credit score below 700 may affect car loan approval",
					"Too many existing loans for car loan approval",
					"Existing loans reduce your repayment capacity",
				}, output.Eligibility.Reasons)
			},
		},
		{
			name: "raw form with identity passes the gate",
			variables: `{"phone": "9876543210", "pan": "ABCDE1234F", "aadhar": "123456789012",
				"loanType": "Education", "monthlyIncome": 50000, "age": 22, "creditScore": 760,
				"employmentType": "self_employed"}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 600000.0, output.Applicant.Income())
				assert.True(t, output.Eligibility.Eligible)
				assert.Equal(t, 1200000.0, output.Eligibility.MaxEligibleAmount)
				assert.Equal(t, 8.0, output.Eligibility.SuggestedInterestRate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), decodeInput(t, tt.variables))
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	tests := []struct {
		name      string
		variables string
		wantCode  errors.ErrorCode
	}{
		{
			name:      "raw fields without identity still pass the range checks",
			variables: `{"loanType": "Personal", "annualIncome": 60000, "age": "200", "creditScore": "5000"}`,
			wantCode:  errors.ErrCodeValidationFailed,
		},
		{
			name:      "applicant profile out of range",
			variables: `{"applicant": {"loanType": "Home", "annualIncome": 0, "age": 30}}`,
			wantCode:  errors.ErrCodeValidationFailed,
		},
		{
			name:      "unknown loan type in applicant",
			variables: `{"applicant": {"loanType": "Gold", "annualIncome": 100000}}`,
			wantCode:  errors.ErrCodeInvalidLoanType,
		},
		{
			name:      "missing loan type in raw form",
			variables: `{"annualIncome": 100000}`,
			wantCode:  errors.ErrCodeInvalidLoanType,
		},
		{
			name:      "identity fields fail the gate",
			variables: `{"phone": "12345", "pan": "ABCDE1234F", "aadhar": "123456789012", "loanType": "Home", "annualIncome": 100000, "age": 30}`,
			wantCode:  errors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), decodeInput(t, tt.variables))
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_RangeChecksListFields(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), decodeInput(t,
		`{"loanType": "Personal", "annualIncome": 60000, "age": "200", "creditScore": "5000"}`))

	assert.Nil(t, output)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"age", "creditScore"}, stdErr.Metadata["fields"])
	assert.False(t, stdErr.Retryable)
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, 31, TaskType, map[string]interface{}{
		"applicant": loan.ApplicantProfile{
			LoanType:     loan.LoanTypeBusiness,
			AnnualIncome: 1000000,
			Age:          40,
			CreditScore:  580,
		},
	}))

	var out Output
	client.CompletedVariables(t, &out)
	assert.False(t, out.Eligibility.Eligible)
	assert.Contains(t, out.Eligibility.Reasons, "Credit score below minimum requirement of 600")
}
