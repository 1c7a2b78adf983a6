package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestProfile(loanType LoanType, annualIncome float64, creditScore int) ApplicantProfile {
	return ApplicantProfile{
		LoanType:                loanType,
		AnnualIncome:            annualIncome,
		Age:                     30,
		CreditScore:             creditScore,
		EmploymentType:          EmploymentSalaried,
		EmploymentDurationYears: 3,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name             string
		profile          ApplicantProfile
		expectedEligible bool
		expectedMax      float64
		expectedRate     float64
		expectedReasons  []string
		validateResult   func(t *testing.T, result EligibilityResult)
	}{
		{
			name:             "personal loan with excellent credit",
			profile:          createTestProfile(LoanTypePersonal, 60000, 750),
			expectedEligible: true,
			expectedMax:      90000,
			expectedRate:     10.0,
			expectedReasons:  []string{},
			validateResult: func(t *testing.T, result EligibilityResult) {
				assert.Equal(t, []string{"Your excellent credit score qualifies you for preferential interest rates"}, result.Recommendations)
			},
		},
		{
			name: "requested amount over the limit is never eligible",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypePersonal, 60000, 750)
				p.RequestedLoanAmount = 200000
				return p
			}(),
			expectedEligible: false,
			expectedMax:      90000,
			expectedRate:     10.0,
			expectedReasons:  []string{"Requested amount exceeds your estimated eligibility of ₹90,000"},
			validateResult: func(t *testing.T, result EligibilityResult) {
				assert.Contains(t, result.Recommendations, "Consider applying for ₹90,000 or less")
			},
		},
		{
			name:             "single soft reason is still eligible",
			profile:          createTestProfile(LoanTypePersonal, 60000, 650),
			expectedEligible: true,
			expectedMax:      90000,
			expectedRate:     12.5,
			expectedReasons:  []string{"Credit score below 700 may affect personal loan approval"},
		},
		{
			name:             "credit score below minimum is rejected",
			profile:          createTestProfile(LoanTypePersonal, 60000, 550),
			expectedEligible: false,
			expectedMax:      90000,
			expectedRate:     12.5,
			expectedReasons: []string{
				"Credit score below 700 may affect personal loan approval",
				"Credit score below minimum requirement of 600",
			},
		},
		{
			name: "personal loan needs a year of employment",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypePersonal, 60000, 720)
				p.EmploymentDurationYears = 0.5
				return p
			}(),
			expectedEligible: true,
			expectedMax:      90000,
			expectedRate:     10.5,
			expectedReasons:  []string{"Minimum 1 year of employment required for personal loans"},
		},
		{
			name:             "missing credit score defaults to 650",
			profile:          createTestProfile(LoanTypeHome, 1000000, 0),
			expectedEligible: true,
			expectedMax:      5000000,
			expectedRate:     8.5,
			expectedReasons:  []string{},
		},
		{
			name: "home loan above 45 gets a reduced amount",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypeHome, 1000000, 780)
				p.Age = 50
				return p
			}(),
			expectedEligible: true,
			expectedMax:      4000000,
			expectedRate:     7.0,
			expectedReasons:  []string{},
			validateResult: func(t *testing.T, result EligibilityResult) {
				require.Len(t, result.Recommendations, 2)
				assert.Contains(t, result.Recommendations[0], "reduced by 20%")
			},
		},
		{
			name: "education loan for a non salaried applicant",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypeEducation, 400000, 680)
				p.EmploymentType = EmploymentFreelancer
				return p
			}(),
			expectedEligible: true,
			expectedMax:      800000,
			expectedRate:     9.5,
			expectedReasons:  []string{"Credit score below 700 may affect education loan approval"},
			validateResult: func(t *testing.T, result EligibilityResult) {
				require.Len(t, result.Recommendations, 1)
				assert.Contains(t, result.Recommendations[0], "salaried co-applicant")
			},
		},
		{
			name: "car loan with too many existing loans",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypeCar, 800000, 720)
				p.ExistingLoansCount = 3
				return p
			}(),
			expectedEligible: false,
			expectedMax:      2000000,
			expectedRate:     9.0,
			expectedReasons: []string{
				"Too many existing loans for car loan approval",
				"Existing loans reduce your repayment capacity",
			},
			validateResult: func(t *testing.T, result EligibilityResult) {
				assert.Equal(t, []string{"Consider closing some existing loans before applying"}, result.Recommendations)
			},
		},
		{
			name: "one existing loan adds a single reason",
			profile: func() ApplicantProfile {
				p := createTestProfile(LoanTypeCar, 800000, 720)
				p.ExistingLoansCount = 1
				return p
			}(),
			expectedEligible: true,
			expectedMax:      2000000,
			expectedRate:     9.0,
			expectedReasons:  []string{"Existing loans reduce your repayment capacity"},
		},
		{
			name: "monthly income is annualised",
			profile: ApplicantProfile{
				LoanType:                LoanTypeBusiness,
				MonthlyIncome:           50000,
				Age:                     40,
				CreditScore:             710,
				EmploymentType:          EmploymentBusinessOwner,
				EmploymentDurationYears: 6,
			},
			expectedEligible: true,
			expectedMax:      1800000,
			expectedRate:     11.0,
			expectedReasons:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckEligibility(tt.profile)

			assert.Equal(t, tt.expectedEligible, result.Eligible)
			assert.InDelta(t, tt.expectedMax, result.MaxEligibleAmount, 1e-6)
			assert.InDelta(t, tt.expectedRate, result.SuggestedInterestRate, 1e-9)
			assert.Equal(t, tt.expectedReasons, result.Reasons)
			if tt.validateResult != nil {
				tt.validateResult(t, result)
			}
		})
	}
}

func TestCheckEligibility_UnknownLoanType(t *testing.T) {
	result := CheckEligibility(createTestProfile(LoanType("Gold"), 60000, 750))

	assert.False(t, result.Eligible)
	assert.Equal(t, []string{"Please select a valid loan type"}, result.Reasons)
	assert.Zero(t, result.MaxEligibleAmount)
}

func TestCheckEligibility_RateAlwaysClamped(t *testing.T) {
	for _, loanType := range LoanTypes {
		for _, score := range []int{300, 550, 600, 649, 650, 699, 700, 749, 750, 900} {
			result := CheckEligibility(createTestProfile(loanType, 500000, score))

			assert.GreaterOrEqual(t, result.SuggestedInterestRate, MinInterestRate, "%s/%d", loanType, score)
			assert.LessOrEqual(t, result.SuggestedInterestRate, MaxInterestRate, "%s/%d", loanType, score)
		}
	}
}

func TestCheckEligibility_MaxAmountMonotoneInIncome(t *testing.T) {
	for _, loanType := range LoanTypes {
		previous := -1.0
		for _, income := range []float64{0, 10000, 60000, 250000, 1000000, 5000000} {
			result := CheckEligibility(createTestProfile(loanType, income, 720))

			assert.GreaterOrEqual(t, result.MaxEligibleAmount, previous, "%s at %.0f", loanType, income)
			previous = result.MaxEligibleAmount
		}
	}
}

func TestCheckEligibility_Idempotent(t *testing.T) {
	profile := createTestProfile(LoanTypeCar, 700000, 640)
	profile.ExistingLoansCount = 2

	assert.Equal(t, CheckEligibility(profile), CheckEligibility(profile))
}

func TestPolicyFor(t *testing.T) {
	policy, err := PolicyFor(LoanTypeHome)
	require.NoError(t, err)
	assert.Equal(t, 5.0, policy.IncomeMultiplier)
	assert.Equal(t, 750, policy.PenaltyThreshold)
	assert.Equal(t, 650, policy.ReasonThreshold)

	_, err = PolicyFor(LoanType("Gold"))
	assert.ErrorIs(t, err, ErrUnknownLoanType)
}

func TestIsOverLimitReason(t *testing.T) {
	assert.True(t, IsOverLimitReason("Requested amount exceeds your estimated eligibility of ₹90,000"))
	assert.False(t, IsOverLimitReason("Existing loans reduce your repayment capacity"))
}
