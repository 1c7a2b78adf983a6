// internal/workers/loan/compute-strength-score/handler_test.go
package computestrengthscore

import (
	"context"
	"testing"
	"time"

	"loan-advisor-workers/internal/common/camunda/camundatest"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/validation"
	"loan-advisor-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: time.Second}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	handler := createTestHandler(t)

	tests := []struct {
		name       string
		input      *Input
		wantScore  int
		wantStatus string
	}{
		{
			name: "strong permanent employee",
			input: &Input{
				ScoreType:       "employment",
				ExperienceYears: 6,
				EmploymentType:  "Permanent",
				CompanySize:     "large",
				SalaryMode:      "bank",
			},
			wantScore:  100,
			wantStatus: "Excellent",
		},
		{
			name: "contract worker paid in cash",
			input: &Input{
				ScoreType:       "Employment",
				ExperienceYears: 1.5,
				EmploymentType:  "contract",
				CompanySize:     "small",
				SalaryMode:      "cash",
			},
			wantScore:  50,
			wantStatus: "Fair",
		},
		{
			name:       "no employment details",
			input:      &Input{ScoreType: "employment"},
			wantScore:  0,
			wantStatus: "Needs Improvement",
		},
		{
			name: "salaried income with light EMI burden",
			input: &Input{
				ScoreType:     "income",
				MonthlyIncome: 60000,
				IncomeSource:  "salary",
				ExistingEMI:   6000,
			},
			wantScore:  75,
			wantStatus: "Good",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, output.Score)
			assert.Equal(t, tt.wantStatus, output.Status)
		})
	}
}

func TestHandler_Execute_UnknownScoreType(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), &Input{ScoreType: "credit"})

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInputSchemaViolation, stdErr.Code)
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_OutputMatchesRegistry(t *testing.T) {
	validator, err := validation.NewSchemaValidator(registry.DefaultRegistry())
	require.NoError(t, err)

	client := camundatest.NewJobClient()
	createTestHandler(t).Handle(client, camundatest.NewJob(t, 11, TaskType, map[string]interface{}{
		"scoreType":       "employment",
		"experienceYears": 3,
		"employmentType":  "permanent",
		"companySize":     "medium",
		"salaryMode":      "bank",
	}))

	var out map[string]interface{}
	client.CompletedVariables(t, &out)
	assert.Equal(t, float64(85), out["score"])

	result, err := validator.ValidateOutput(TaskType, out)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.GetErrorMessages())
}
