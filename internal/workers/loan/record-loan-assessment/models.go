// internal/workers/loan/record-loan-assessment/models.go
package recordloanassessment

import "loan-advisor-workers/internal/loan"

type Input struct {
	// AssessmentID is optional; jobs without one get an ID derived from the
	// job key so retries record the assessment once.
	AssessmentID  string                 `json:"assessmentId,omitempty"`
	ApplicationID string                 `json:"applicationId,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Applicant     loan.ApplicantProfile  `json:"applicant"`
	Eligibility   loan.EligibilityResult `json:"eligibility"`
}

type Output struct {
	AssessmentID     string `json:"assessmentId"`
	AssessmentStatus string `json:"assessmentStatus"`
	RecordedAt       string `json:"recordedAt"` // ISO 8601
	EventID          string `json:"eventId"`
}
