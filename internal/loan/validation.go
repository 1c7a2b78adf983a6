package loan

import (
	"regexp"
	"strings"
)

var (
	phoneRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	panRegex    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadharRegex = regexp.MustCompile(`^[0-9]{12}$`)
)

const (
	minAge         = 18
	maxAge         = 75
	minCreditScore = 300
	maxCreditScore = 900
)

// ApplicationForm is the loan-eligibility form as submitted. Identity fields
// are kept as strings; numeric fields are already coerced.
type ApplicationForm struct {
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone"`
	PAN     string           `json:"pan"`
	Aadhar  string           `json:"aadhar"`
	Profile ApplicantProfile `json:"profile"`
	// CreditScoreProvided distinguishes "left blank" from an explicit value.
	CreditScoreProvided bool `json:"creditScoreProvided"`
}

// ValidateApplication runs the validation gate in front of CheckEligibility.
// It returns ValidationErrors listing every failing field in form order, or
// nil. Callers must not compute eligibility when it fails.
func ValidateApplication(form ApplicationForm) error {
	var errs ValidationErrors

	if !phoneRegex.MatchString(strings.TrimSpace(form.Phone)) {
		errs = append(errs, &ValidationError{
			Field:   "phone",
			Code:    "INVALID_FORMAT",
			Message: "Phone number must be exactly 10 digits",
		})
	}

	if !panRegex.MatchString(strings.TrimSpace(form.PAN)) {
		errs = append(errs, &ValidationError{
			Field:   "pan",
			Code:    "INVALID_FORMAT",
			Message: "PAN must be in the format ABCDE1234F",
		})
	}

	if !aadharRegex.MatchString(strings.TrimSpace(form.Aadhar)) {
		errs = append(errs, &ValidationError{
			Field:   "aadhar",
			Code:    "INVALID_FORMAT",
			Message: "Aadhar number must be exactly 12 digits",
		})
	}

	errs = append(errs, validateProfile(form.Profile, form.CreditScoreProvided)...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateProfile runs the numeric half of the validation gate (age, income
// and, when provided, credit score) for callers that hold a profile without
// identity fields. It returns ValidationErrors or nil.
func ValidateProfile(profile ApplicantProfile, creditScoreProvided bool) error {
	if errs := validateProfile(profile, creditScoreProvided); len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfile(profile ApplicantProfile, creditScoreProvided bool) ValidationErrors {
	var errs ValidationErrors

	if profile.Age < minAge || profile.Age > maxAge {
		errs = append(errs, &ValidationError{
			Field:   "age",
			Code:    "OUT_OF_RANGE",
			Message: "Age must be between 18 and 75",
		})
	}

	if profile.Income() <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "income",
			Code:    "INVALID_VALUE",
			Message: "Income must be greater than 0",
		})
	}

	if creditScoreProvided &&
		(profile.CreditScore < minCreditScore || profile.CreditScore > maxCreditScore) {
		errs = append(errs, &ValidationError{
			Field:   "creditScore",
			Code:    "OUT_OF_RANGE",
			Message: "Credit score must be between 300 and 900",
		})
	}

	return errs
}

// Assess runs the validation gate and, only when it passes, the eligibility
// calculation.
func Assess(form ApplicationForm) (EligibilityResult, error) {
	if err := ValidateApplication(form); err != nil {
		return EligibilityResult{}, err
	}
	return CheckEligibility(form.Profile), nil
}
