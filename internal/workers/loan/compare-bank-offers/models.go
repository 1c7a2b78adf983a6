// internal/workers/loan/compare-bank-offers/models.go
package comparebankoffers

import "loan-advisor-workers/internal/loan"

type Input struct {
	LoanType     string  `json:"loanType"`
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenureMonths"`
}

type Output struct {
	LoanType  loan.LoanType     `json:"loanType"`
	Offers    []loan.OfferQuote `json:"offers"`
	BestOffer *loan.OfferQuote  `json:"bestOffer,omitempty"`
	Matched   int               `json:"matched"`
}
