package loan

import "strings"

const (
	StatusExcellent        = "Excellent"
	StatusGood             = "Good"
	StatusFair             = "Fair"
	StatusNeedsImprovement = "Needs Improvement"
)

// StrengthScore is a bounded 0-100 rating with its status label.
type StrengthScore struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
}

// EmploymentInput feeds the employment strength score. Categorical values
// are matched case-insensitively.
type EmploymentInput struct {
	ExperienceYears float64 `json:"experienceYears"`
	EmploymentType  string  `json:"employmentType"`
	CompanySize     string  `json:"companySize"`
	SalaryMode      string  `json:"salaryMode"`
}

var (
	employmentTypeWeights = map[string]int{
		"permanent":     25,
		"contract":      15,
		"self-employed": 20,
	}
	companySizeWeights = map[string]int{
		"large":  25,
		"medium": 20,
		"small":  15,
	}
	salaryModeWeights = map[string]int{
		"bank": 15,
		"cash": 5,
	}
	incomeSourceWeights = map[string]int{
		"salary":   25,
		"business": 20,
		"rental":   15,
		"other":    5,
	}
)

// ComputeEmploymentScore adds the weight of each factor and caps the sum
// at 100.
func ComputeEmploymentScore(in EmploymentInput) int {
	score := 0

	switch {
	case in.ExperienceYears >= 5:
		score += 35
	case in.ExperienceYears >= 2:
		score += 25
	case in.ExperienceYears >= 1:
		score += 15
	}

	score += employmentTypeWeights[normalizeCategory(in.EmploymentType)]
	score += companySizeWeights[normalizeCategory(in.CompanySize)]
	score += salaryModeWeights[normalizeCategory(in.SalaryMode)]

	return clampInt(score, 0, 100)
}

// IncomeInput feeds the income strength score.
type IncomeInput struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	IncomeSource     string  `json:"incomeSource"`
	AdditionalIncome bool    `json:"additionalIncome"`
	ExistingEMI      float64 `json:"existingEmi"`
}

// ComputeIncomeScore rates income level, source, extra income and the share
// of income already committed to EMIs.
func ComputeIncomeScore(in IncomeInput) int {
	score := 0

	switch {
	case in.MonthlyIncome >= 100000:
		score += 40
	case in.MonthlyIncome >= 50000:
		score += 30
	case in.MonthlyIncome >= 25000:
		score += 20
	case in.MonthlyIncome >= 10000:
		score += 10
	}

	score += incomeSourceWeights[normalizeCategory(in.IncomeSource)]

	if in.AdditionalIncome {
		score += 15
	}

	if in.MonthlyIncome > 0 {
		burden := in.ExistingEMI / in.MonthlyIncome * 100
		switch {
		case burden <= 20:
			score += 20
		case burden <= 40:
			score += 10
		}
	}

	return clampInt(score, 0, 100)
}

// StatusFor labels a strength score.
func StatusFor(score int) string {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	default:
		return StatusNeedsImprovement
	}
}

// NewStrengthScore pairs a score with its label.
func NewStrengthScore(score int) StrengthScore {
	return StrengthScore{Score: score, Status: StatusFor(score)}
}

func normalizeCategory(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.NewReplacer("_", "-", " ", "-").Replace(v)
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
