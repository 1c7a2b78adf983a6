package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEligibility(t *testing.T) {
	before := testutil.ToFloat64(EligibilityDecisions.WithLabelValues("Car", "true"))

	RecordEligibility("Car", true)
	RecordEligibility("Car", false)

	assert.Equal(t, before+1, testutil.ToFloat64(EligibilityDecisions.WithLabelValues("Car", "true")))
}

func TestRecordValidationFailure(t *testing.T) {
	before := testutil.ToFloat64(ValidationRejections.WithLabelValues("phone"))

	RecordValidationFailure([]string{"phone", "pan"})

	assert.Equal(t, before+1, testutil.ToFloat64(ValidationRejections.WithLabelValues("phone")))
}
