package loan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseFloatOr reads the leading number of raw. Surrounding space is ignored
// and trailing text after the number is discarded ("5000abc" is 5000), like
// parseFloat in a browser. Unlike parseFloat, comma separators are removed
// first, so "1,50,000" is 150000 rather than 1. Anything without a numeric
// prefix yields def.
func ParseFloatOr(raw string, def float64) float64 {
	m := floatPrefix.FindString(cleanNumber(raw))
	if m == "" {
		return def
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// ParseIntOr is ParseFloatOr for integers; "12.9" is 12.
func ParseIntOr(raw string, def int) int {
	m := intPrefix.FindString(cleanNumber(raw))
	if m == "" {
		return def
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return def
	}
	return v
}

// cleanNumber trims raw and strips every comma, so Indian and Western digit
// grouping both parse as the full amount.
func cleanNumber(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
}

// ProfileFromForm builds an ApplicantProfile from raw form fields. Missing
// or unparsable numbers become 0, except creditScore which defaults to
// DefaultCreditScore. An unknown loan type is left empty and rejected later by
// CheckEligibility.
//
// The returned bool reports whether a credit score was supplied, for
// ApplicationForm.CreditScoreProvided.
func ProfileFromForm(fields map[string]string) (ApplicantProfile, bool) {
	loanType, _ := ParseLoanType(fields["loanType"])

	creditRaw := strings.TrimSpace(fields["creditScore"])

	return ApplicantProfile{
		LoanType:                loanType,
		AnnualIncome:            ParseFloatOr(fields["annualIncome"], 0),
		MonthlyIncome:           ParseFloatOr(fields["monthlyIncome"], 0),
		Age:                     ParseIntOr(fields["age"], 0),
		CreditScore:             ParseIntOr(creditRaw, DefaultCreditScore),
		EmploymentType:          ParseEmploymentType(fields["employmentType"]),
		EmploymentDurationYears: ParseFloatOr(fields["employmentDuration"], 0),
		ExistingLoansCount:      ParseIntOr(fields["existingLoans"], 0),
		RequestedLoanAmount:     ParseFloatOr(fields["loanAmount"], 0),
	}, creditRaw != ""
}

// FormFromFields assembles the full ApplicationForm, identity fields included.
func FormFromFields(fields map[string]string) ApplicationForm {
	profile, provided := ProfileFromForm(fields)
	return ApplicationForm{
		Name:                strings.TrimSpace(fields["name"]),
		Email:               strings.TrimSpace(fields["email"]),
		Phone:               strings.TrimSpace(fields["phone"]),
		PAN:                 strings.ToUpper(strings.TrimSpace(fields["pan"])),
		Aadhar:              strings.TrimSpace(fields["aadhar"]),
		Profile:             profile,
		CreditScoreProvided: provided,
	}
}
