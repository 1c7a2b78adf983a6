package errors_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"loan-advisor-workers/internal/common/camunda/camundatest"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	stdErr := errors.NewValidationFailedError("Phone number must be exactly 10 digits", []string{"phone"})

	bpmnErr := errors.ConvertToBPMNError(stdErr)

	assert.Equal(t, "VALIDATION_FAILED", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, []string{"phone"}, vars["fields"])
	assert.Equal(t, "VALIDATION_FAILED", vars["originalErrorCode"])
}

func TestRetryPolicy(t *testing.T) {
	tests := []struct {
		err             *errors.StandardError
		expectedRetries int
		expectedCat     string
	}{
		{err: errors.NewDatabaseInsertFailedError(fmt.Errorf("deadlock")), expectedRetries: 3, expectedCat: "DATABASE"},
		{err: errors.NewCatalogUnavailableError("elasticsearch", fmt.Errorf("503")), expectedRetries: 3, expectedCat: "CATALOG"},
		{err: errors.NewEventPublishFailedError("loan.assessment.completed", fmt.Errorf("leader not available")), expectedRetries: 3, expectedCat: "MESSAGING"},
		{err: errors.NewCacheUnavailableError(fmt.Errorf("i/o timeout")), expectedRetries: 2, expectedCat: "DATABASE"},
		{err: errors.NewInvalidEMIInputError("tenure", nil), expectedRetries: 0, expectedCat: "VALIDATION"},
		{err: errors.NewInvalidLoanTypeError("Gold", nil), expectedRetries: 0, expectedCat: "VALIDATION"},
		{err: errors.NewBusinessRuleError("nope", ""), expectedRetries: 0, expectedCat: "BUSINESS"},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.expectedRetries, errors.ConvertToBPMNError(tt.err).Retries)
			assert.Equal(t, tt.expectedRetries > 0, errors.IsRetryableErrorCode(tt.err.Code))
			assert.Equal(t, tt.expectedCat, errors.GetErrorCategory(tt.err.Code))
		})
	}
}

func TestStandardErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection reset by peer")
	wrapped := fmt.Errorf("record assessment: %w", errors.NewDatabaseInsertFailedError(cause))

	assert.True(t, stderrors.Is(wrapped, cause))

	stdErr, ok := errors.AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, stdErr.Code)
}

func TestHandleJobError(t *testing.T) {
	handler := errors.NewErrorHandler(logger.NewTestLogger(t))

	t.Run("retryable error fails the job with one retry fewer", func(t *testing.T) {
		client := camundatest.NewJobClient()
		job := camundatest.NewJob(t, 7, "record-loan-assessment", map[string]interface{}{})

		handler.HandleJobError(context.Background(), client, job, errors.NewDatabaseInsertFailedError(fmt.Errorf("timeout")))

		failed := client.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, int64(7), failed[0].JobKey)
		assert.Equal(t, int32(2), failed[0].Retries)
		assert.Empty(t, client.Thrown())
	})

	t.Run("business error throws a BPMN error", func(t *testing.T) {
		client := camundatest.NewJobClient()
		job := camundatest.NewJob(t, 8, "validate-loan-application", map[string]interface{}{})

		handler.HandleJobError(context.Background(), client, job,
			errors.NewValidationFailedError("PAN must be in the format ABCDE1234F", []string{"pan"}))

		thrown := client.Thrown()
		require.Len(t, thrown, 1)
		assert.Equal(t, "VALIDATION_FAILED", thrown[0].ErrorCode)

		var vars map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(thrown[0].Variables), &vars))
		assert.Equal(t, []interface{}{"pan"}, vars["fields"])
	})

	t.Run("plain errors become INTERNAL_ERROR", func(t *testing.T) {
		client := camundatest.NewJobClient()
		job := camundatest.NewJob(t, 9, "compute-emi", map[string]interface{}{})

		handler.HandleJobError(context.Background(), client, job, stderrors.New("nil pointer"))

		thrown := client.Thrown()
		require.Len(t, thrown, 1)
		assert.Equal(t, "INTERNAL_ERROR", thrown[0].ErrorCode)
	})
}
