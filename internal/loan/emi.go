package loan

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Upper bounds accepted by ValidateEMIInput. Within them ComputeEMI always
// returns finite values.
const (
	MaxPrincipal         = 1e12
	MaxAnnualRatePercent = 100
	MaxTenureMonths      = 600
)

// ComputeEMI returns the fixed monthly installment for principal borrowed at
// annualRatePercent over tenureMonths, using the standard amortization
// formula. Values are not rounded; use Round2 for display.
//
// Callers validate input with ValidateEMIInput first.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) EMIResult {
	n := float64(tenureMonths)
	r := annualRatePercent / 12 / 100

	if r == 0 {
		return EMIResult{
			EMI:           principal / n,
			TotalAmount:   principal,
			TotalInterest: 0,
		}
	}

	factor := math.Pow(1+r, n)
	emi := principal * r * factor / (factor - 1)
	total := emi * n

	return EMIResult{
		EMI:           emi,
		TotalAmount:   total,
		TotalInterest: total - principal,
	}
}

// IsFinite reports whether every amount in r is a real number.
func (r EMIResult) IsFinite() bool {
	for _, v := range []float64{r.EMI, r.TotalAmount, r.TotalInterest} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateEMIInput rejects values ComputeEMI is not defined for, and values
// large enough to overflow it.
func ValidateEMIInput(principal, annualRatePercent float64, tenureMonths int) error {
	switch {
	case math.IsNaN(principal) || math.IsInf(principal, 0) || principal < 0 || principal > MaxPrincipal:
		return &ValidationError{
			Field:   "principal",
			Code:    "INVALID_VALUE",
			Message: "Please enter a valid loan amount",
		}
	case math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 || annualRatePercent > MaxAnnualRatePercent:
		return &ValidationError{
			Field:   "interestRate",
			Code:    "INVALID_VALUE",
			Message: "Please enter a valid interest rate",
		}
	case tenureMonths < 1:
		return &ValidationError{
			Field:   "tenureMonths",
			Code:    "INVALID_VALUE",
			Message: "Loan tenure must be at least 1 month",
		}
	case tenureMonths > MaxTenureMonths:
		return &ValidationError{
			Field:   "tenureMonths",
			Code:    "INVALID_VALUE",
			Message: fmt.Sprintf("Loan tenure cannot exceed %d months", MaxTenureMonths),
		}
	}
	return nil
}

// Installment is one month of an amortization schedule.
type Installment struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"dueDate"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Payment          decimal.Decimal `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// Schedule splits every installment of the loan into principal and interest.
// The payment is ComputeEMI's EMI rounded to paise; the final period takes
// whatever is left so the balance ends at exactly zero.
func Schedule(principal, annualRatePercent float64, tenureMonths int, start time.Time) ([]Installment, error) {
	if err := ValidateEMIInput(principal, annualRatePercent, tenureMonths); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEMIInput, err)
	}

	payment := decimal.NewFromFloat(ComputeEMI(principal, annualRatePercent, tenureMonths).EMI).Round(2)
	monthlyRate := decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(1200))
	remaining := decimal.NewFromFloat(principal)

	schedule := make([]Installment, 0, tenureMonths)
	for period := 1; period <= tenureMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)
		due := payment

		if period == tenureMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
			due = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		schedule = append(schedule, Installment{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Payment:          due,
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule, nil
}
