// Package loan holds the loan-advisory calculators: EMI, eligibility,
// strength scores and the validation gate that runs in front of them.
//
// Everything in this package is a pure function of its input. Workers and
// the REST API feed it coerced form data and render its output.
package loan

import (
	"fmt"
	"strings"
)

type LoanType string

const (
	LoanTypeHome      LoanType = "Home"
	LoanTypeEducation LoanType = "Education"
	LoanTypePersonal  LoanType = "Personal"
	LoanTypeCar       LoanType = "Car"
	LoanTypeBusiness  LoanType = "Business"
)

// LoanTypes lists every supported loan type in display order.
var LoanTypes = []LoanType{
	LoanTypeHome,
	LoanTypeEducation,
	LoanTypePersonal,
	LoanTypeCar,
	LoanTypeBusiness,
}

// DisplayName returns the label used by the loan forms, e.g. "Home Loan".
func (t LoanType) DisplayName() string {
	return string(t) + " Loan"
}

// ParseLoanType accepts "Home", "home", "Home Loan", "home-loan", "HOME_LOAN".
func ParseLoanType(raw string) (LoanType, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "loan"))

	for _, t := range LoanTypes {
		if strings.ToLower(string(t)) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLoanType, raw)
}

type EmploymentType string

const (
	EmploymentSalaried      EmploymentType = "Salaried"
	EmploymentSelfEmployed  EmploymentType = "Self-Employed"
	EmploymentBusinessOwner EmploymentType = "Business Owner"
	EmploymentFreelancer    EmploymentType = "Freelancer"
	EmploymentUnemployed    EmploymentType = "Unemployed"
)

var employmentAliases = map[string]EmploymentType{
	"salaried":       EmploymentSalaried,
	"employed":       EmploymentSalaried,
	"self employed":  EmploymentSelfEmployed,
	"selfemployed":   EmploymentSelfEmployed,
	"business owner": EmploymentBusinessOwner,
	"business":       EmploymentBusinessOwner,
	"freelancer":     EmploymentFreelancer,
	"unemployed":     EmploymentUnemployed,
}

// ParseEmploymentType maps free-form form values onto the known employment
// types. Unknown values are kept verbatim so the eligibility rules treat
// them as "not salaried".
func ParseEmploymentType(raw string) EmploymentType {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	if t, ok := employmentAliases[normalized]; ok {
		return t
	}
	return EmploymentType(strings.TrimSpace(raw))
}

// ApplicantProfile is the input of CheckEligibility. It lives for one form
// submission.
type ApplicantProfile struct {
	LoanType                LoanType       `json:"loanType"`
	AnnualIncome            float64        `json:"annualIncome"`
	MonthlyIncome           float64        `json:"monthlyIncome"`
	Age                     int            `json:"age"`
	CreditScore             int            `json:"creditScore"`
	EmploymentType          EmploymentType `json:"employmentType"`
	EmploymentDurationYears float64        `json:"employmentDurationYears"`
	ExistingLoansCount      int            `json:"existingLoansCount"`
	RequestedLoanAmount     float64        `json:"requestedLoanAmount"`
}

// Income returns the annual income the eligibility policy multiplies.
// MonthlyIncome is annualised when AnnualIncome is not set.
func (p ApplicantProfile) Income() float64 {
	if p.AnnualIncome > 0 {
		return p.AnnualIncome
	}
	return p.MonthlyIncome * 12
}

type EligibilityResult struct {
	Eligible              bool     `json:"eligible"`
	MaxEligibleAmount     float64  `json:"maxEligibleAmount"`
	SuggestedInterestRate float64  `json:"suggestedInterestRate"`
	Reasons               []string `json:"reasons"`
	Recommendations       []string `json:"recommendations"`
}

type EMIResult struct {
	EMI           float64 `json:"emi"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalInterest float64 `json:"totalInterest"`
}
