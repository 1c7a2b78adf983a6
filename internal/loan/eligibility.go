package loan

import "strings"

const (
	DefaultCreditScore = 650

	MinInterestRate = 7.0
	MaxInterestRate = 18.0

	minimumCreditScore      = 600
	preferentialCreditScore = 750
	preferentialRateCut     = 0.5

	seniorHomeBorrowerAge  = 45
	seniorHomeAmountFactor = 0.8

	emiReductionPerLoan = 0.15

	exceedsEligibilityMarker = "exceeds your estimated eligibility"
)

// Policy holds the per-loan-type constants of the eligibility rules.
type Policy struct {
	IncomeMultiplier float64
	BaseInterestRate float64
	// Credit scores below PenaltyThreshold add RatePenalty to the rate.
	PenaltyThreshold int
	RatePenalty      float64
	// Credit scores below ReasonThreshold add a rejection reason.
	ReasonThreshold  int
	MaxEMIPercentage float64
}

var policies = map[LoanType]Policy{
	LoanTypeHome: {
		IncomeMultiplier: 5,
		BaseInterestRate: 7.5,
		PenaltyThreshold: 750,
		RatePenalty:      1.0,
		ReasonThreshold:  650,
		MaxEMIPercentage: 50,
	},
	LoanTypeEducation: {
		IncomeMultiplier: 2,
		BaseInterestRate: 8.5,
		PenaltyThreshold: 700,
		RatePenalty:      1.0,
		ReasonThreshold:  700,
		MaxEMIPercentage: 40,
	},
	LoanTypePersonal: {
		IncomeMultiplier: 1.5,
		BaseInterestRate: 10.5,
		PenaltyThreshold: 700,
		RatePenalty:      2.0,
		ReasonThreshold:  700,
		MaxEMIPercentage: 40,
	},
	LoanTypeCar: {
		IncomeMultiplier: 2.5,
		BaseInterestRate: 9.0,
		PenaltyThreshold: 700,
		RatePenalty:      1.5,
		ReasonThreshold:  700,
		MaxEMIPercentage: 45,
	},
	LoanTypeBusiness: {
		IncomeMultiplier: 3,
		BaseInterestRate: 11.0,
		PenaltyThreshold: 700,
		RatePenalty:      1.5,
		ReasonThreshold:  700,
		MaxEMIPercentage: 50,
	},
}

// PolicyFor returns the eligibility constants for t.
func PolicyFor(t LoanType) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return Policy{}, ErrUnknownLoanType
	}
	return p, nil
}

// CheckEligibility applies the loan-type policy to profile.
//
// Checks run in a fixed order and each appends independently, so Reasons and
// Recommendations keep insertion order and may repeat. The decision rule
// counts reasons: at most one reason and a credit score of at least 600 is
// eligible, unless that single reason is the over-limit message.
//
// An unknown loan type yields a zero result with one reason; use
// ParseLoanType to reject it earlier.
func CheckEligibility(profile ApplicantProfile) EligibilityResult {
	policy, err := PolicyFor(profile.LoanType)
	if err != nil {
		return EligibilityResult{
			Reasons:         []string{"Please select a valid loan type"},
			Recommendations: []string{},
		}
	}

	creditScore := profile.CreditScore
	if creditScore == 0 {
		creditScore = DefaultCreditScore
	}

	reasons := []string{}
	recommendations := []string{}

	maxAmount := profile.Income() * policy.IncomeMultiplier
	if profile.LoanType == LoanTypeHome && profile.Age > seniorHomeBorrowerAge {
		maxAmount *= seniorHomeAmountFactor
		recommendations = append(recommendations,
			"Eligible amount is reduced by 20% for applicants above 45; consider adding a younger co-applicant")
	}

	rate := policy.BaseInterestRate
	if creditScore < policy.PenaltyThreshold {
		rate += policy.RatePenalty
	}

	switch profile.LoanType {
	case LoanTypeHome:
		if creditScore < policy.ReasonThreshold {
			reasons = append(reasons, "Credit score below 650 may affect home loan approval")
		}
	case LoanTypeEducation:
		if creditScore < policy.ReasonThreshold {
			reasons = append(reasons, "Credit score below 700 may affect education loan approval")
		}
		if profile.EmploymentType != EmploymentSalaried {
			recommendations = append(recommendations,
				"Adding a salaried co-applicant or guarantor can strengthen your education loan application")
		}
	case LoanTypePersonal:
		if creditScore < policy.ReasonThreshold {
			reasons = append(reasons, "Credit score below 700 may affect personal loan approval")
		}
		if profile.EmploymentDurationYears < 1 {
			reasons = append(reasons, "Minimum 1 year of employment required for personal loans")
		}
	case LoanTypeCar:
		if creditScore < policy.ReasonThreshold {
			reasons = append(reasons, "Credit score below 700 may affect car loan approval")
		}
		if profile.ExistingLoansCount > 2 {
			reasons = append(reasons, "Too many existing loans for car loan approval")
			recommendations = append(recommendations, "Consider closing some existing loans before applying")
		}
	case LoanTypeBusiness:
		if creditScore < policy.ReasonThreshold {
			reasons = append(reasons, "Credit score below 700 may affect business loan approval")
		}
	}

	if profile.RequestedLoanAmount > maxAmount {
		formatted := FormatINR(maxAmount)
		reasons = append(reasons, "Requested amount "+exceedsEligibilityMarker+" of "+formatted)
		recommendations = append(recommendations, "Consider applying for "+formatted+" or less")
	}

	if profile.ExistingLoansCount > 0 {
		allowedEMIPercentage := policy.MaxEMIPercentage * (1 - emiReductionPerLoan*float64(profile.ExistingLoansCount))
		if allowedEMIPercentage < policy.MaxEMIPercentage {
			reasons = append(reasons, "Existing loans reduce your repayment capacity")
		}
	}

	if creditScore < minimumCreditScore {
		reasons = append(reasons, "Credit score below minimum requirement of 600")
	} else if creditScore >= preferentialCreditScore {
		recommendations = append(recommendations, "Your excellent credit score qualifies you for preferential interest rates")
		rate -= preferentialRateCut
	}

	eligible := len(reasons) <= 1 && creditScore >= minimumCreditScore
	if len(reasons) == 1 && strings.Contains(reasons[0], exceedsEligibilityMarker) {
		eligible = false
	}

	return EligibilityResult{
		Eligible:              eligible,
		MaxEligibleAmount:     maxAmount,
		SuggestedInterestRate: clampFloat(rate, MinInterestRate, MaxInterestRate),
		Reasons:               reasons,
		Recommendations:       recommendations,
	}
}

// IsOverLimitReason reports whether reason is the requested-amount message.
func IsOverLimitReason(reason string) bool {
	return strings.Contains(reason, exceedsEligibilityMarker)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
