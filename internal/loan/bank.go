package loan

import "sort"

// BankOffer is one lender's published terms for a loan type.
type BankOffer struct {
	Bank            string   `json:"bank"`
	LoanType        LoanType `json:"loanType"`
	InterestRate    float64  `json:"interestRate"`
	ProcessingFee   float64  `json:"processingFee"`
	MaxAmount       float64  `json:"maxAmount"`
	MaxTenureMonths int      `json:"maxTenureMonths"`
}

// OfferQuote is a BankOffer priced for a specific amount and tenure.
type OfferQuote struct {
	Bank          string  `json:"bank"`
	InterestRate  float64 `json:"interestRate"`
	EMI           float64 `json:"emi"`
	TotalInterest float64 `json:"totalInterest"`
	ProcessingFee float64 `json:"processingFee"`
	TotalCost     float64 `json:"totalCost"`
}

// CompareOffers prices every offer that covers loanType, amount and
// tenureMonths and returns them cheapest EMI first. A zero MaxAmount or
// MaxTenureMonths means no limit. Offers whose price does not come out finite
// are left out.
func CompareOffers(offers []BankOffer, loanType LoanType, amount float64, tenureMonths int) []OfferQuote {
	quotes := make([]OfferQuote, 0, len(offers))
	for _, o := range offers {
		if o.LoanType != loanType {
			continue
		}
		if o.MaxAmount > 0 && amount > o.MaxAmount {
			continue
		}
		if o.MaxTenureMonths > 0 && tenureMonths > o.MaxTenureMonths {
			continue
		}

		emi := ComputeEMI(amount, o.InterestRate, tenureMonths)
		if !emi.IsFinite() {
			continue
		}
		quotes = append(quotes, OfferQuote{
			Bank:          o.Bank,
			InterestRate:  o.InterestRate,
			EMI:           Round2(emi.EMI),
			TotalInterest: Round2(emi.TotalInterest),
			ProcessingFee: o.ProcessingFee,
			TotalCost:     Round2(emi.TotalAmount + o.ProcessingFee),
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].EMI != quotes[j].EMI {
			return quotes[i].EMI < quotes[j].EMI
		}
		return quotes[i].Bank < quotes[j].Bank
	})
	return quotes
}
