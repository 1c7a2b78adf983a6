// internal/workers/loan/compute-strength-score/models.go
package computestrengthscore

const (
	ScoreTypeEmployment = "employment"
	ScoreTypeIncome     = "income"
)

type Input struct {
	ScoreType string `json:"scoreType"`

	ExperienceYears float64 `json:"experienceYears"`
	EmploymentType  string  `json:"employmentType"`
	CompanySize     string  `json:"companySize"`
	SalaryMode      string  `json:"salaryMode"`

	MonthlyIncome    float64 `json:"monthlyIncome"`
	IncomeSource     string  `json:"incomeSource"`
	AdditionalIncome bool    `json:"additionalIncome"`
	ExistingEMI      float64 `json:"existingEmi"`
}

type Output struct {
	ScoreType string `json:"scoreType"`
	Score     int    `json:"score"`
	Status    string `json:"status"`
}
