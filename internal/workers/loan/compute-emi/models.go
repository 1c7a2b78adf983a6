// internal/workers/loan/compute-emi/models.go
package computeemi

import "loan-advisor-workers/internal/loan"

type Input struct {
	Principal       float64 `json:"principal"`
	AnnualRate      float64 `json:"annualRate"`
	TenureMonths    int     `json:"tenureMonths"`
	IncludeSchedule bool    `json:"includeSchedule"`
	StartDate       string  `json:"startDate,omitempty"` // YYYY-MM-DD
}

type Output struct {
	EMI                    float64            `json:"emi"`
	TotalAmount            float64            `json:"totalAmount"`
	TotalInterest          float64            `json:"totalInterest"`
	EMIFormatted           string             `json:"emiFormatted"`
	TotalAmountFormatted   string             `json:"totalAmountFormatted"`
	TotalInterestFormatted string             `json:"totalInterestFormatted"`
	Schedule               []loan.Installment `json:"schedule,omitempty"`
	Cached                 bool               `json:"cached"`
}

type quote struct {
	EMI           float64 `json:"emi"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalInterest float64 `json:"totalInterest"`
}
