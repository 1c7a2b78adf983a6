// internal/models/assessment.go
package models

import (
	"time"

	"loan-advisor-workers/internal/loan"
)

type AssessmentStatus string

const (
	AssessmentApproved AssessmentStatus = "eligible"
	AssessmentDeclined AssessmentStatus = "not_eligible"
)

// Assessment is one eligibility decision as it is stored and published.
type Assessment struct {
	ID                    string                `json:"id"`
	ApplicationID         string                `json:"applicationId,omitempty"`
	ApplicantName         string                `json:"applicantName,omitempty"`
	ApplicantEmail        string                `json:"applicantEmail,omitempty"`
	LoanType              loan.LoanType         `json:"loanType"`
	RequestedAmount       float64               `json:"requestedAmount"`
	Status                AssessmentStatus      `json:"status"`
	Eligible              bool                  `json:"eligible"`
	MaxEligibleAmount     float64               `json:"maxEligibleAmount"`
	SuggestedInterestRate float64               `json:"suggestedInterestRate"`
	Reasons               []string              `json:"reasons"`
	Recommendations       []string              `json:"recommendations"`
	Profile               loan.ApplicantProfile `json:"profile"`
	CreatedAt             time.Time             `json:"createdAt"`
}

// NewAssessment copies the decision for profile into a record without an ID.
func NewAssessment(profile loan.ApplicantProfile, result loan.EligibilityResult) Assessment {
	status := AssessmentDeclined
	if result.Eligible {
		status = AssessmentApproved
	}
	return Assessment{
		LoanType:              profile.LoanType,
		RequestedAmount:       profile.RequestedLoanAmount,
		Status:                status,
		Eligible:              result.Eligible,
		MaxEligibleAmount:     result.MaxEligibleAmount,
		SuggestedInterestRate: result.SuggestedInterestRate,
		Reasons:               result.Reasons,
		Recommendations:       result.Recommendations,
		Profile:               profile,
	}
}
