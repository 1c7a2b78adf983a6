// pkg/registry/defaults.go
package registry

type schema = map[string]interface{}

func object(required []string, properties schema) schema {
	s := schema{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Form fields arrive either as typed JSON or as the raw strings of a web form.
var (
	formValue = schema{"type": []string{"number", "string"}}
	text      = schema{"type": "string"}
	number    = schema{"type": "number"}
	flag      = schema{"type": "boolean"}
)

var loanTypeEnum = schema{
	"type": "string",
	"enum": []string{"Home", "Education", "Personal", "Car", "Business"},
}

var applicantSchema = object([]string{"loanType"}, schema{
	"loanType":                loanTypeEnum,
	"annualIncome":            number,
	"monthlyIncome":           number,
	"age":                     schema{"type": "integer"},
	"creditScore":             schema{"type": "integer"},
	"employmentType":          text,
	"employmentDurationYears": number,
	"existingLoansCount":      schema{"type": "integer", "minimum": 0},
	"requestedLoanAmount":     number,
})

var eligibilitySchema = object([]string{"eligible", "maxEligibleAmount", "suggestedInterestRate"}, schema{
	"eligible":              flag,
	"maxEligibleAmount":     number,
	"suggestedInterestRate": number,
	"reasons":               schema{"type": "array", "items": text},
	"recommendations":       schema{"type": "array", "items": text},
})

// DefaultRegistry describes the loan-advisory workers shipped with this
// module. It is used when no registry file is configured.
func DefaultRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-10-01T00:00:00Z",
		Activities: []Activity{
			{
				ID:          "loan.application.validate",
				DisplayName: "Validate Loan Application",
				Description: "Runs the application validation gate and coerces the form into an applicant profile",
				Category:    "application",
				TaskType:    "validate-loan-application",
				InputSchema: object([]string{"loanType"}, schema{
					"name":               text,
					"email":              text,
					"phone":              formValue,
					"pan":                text,
					"aadhar":             formValue,
					"loanType":           text,
					"annualIncome":       formValue,
					"monthlyIncome":      formValue,
					"age":                formValue,
					"creditScore":        formValue,
					"employmentType":     text,
					"employmentDuration": formValue,
					"existingLoans":      formValue,
					"loanAmount":         formValue,
				}),
				OutputSchema: object([]string{"isValid", "applicant"}, schema{
					"isValid":             flag,
					"applicant":           applicantSchema,
					"creditScoreProvided": flag,
				}),
				ErrorCodes: []string{"VALIDATION_FAILED", "INVALID_LOAN_TYPE", "INPUT_SCHEMA_VIOLATION"},
				Timeout:    "10s",
				Retries:    0,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"validation", "loan"},
			},
			{
				ID:           "loan.eligibility.check",
				DisplayName:  "Check Loan Eligibility",
				Description:  "Applies the per-loan-type eligibility policy to an applicant profile or raw form fields",
				Category:     "eligibility",
				TaskType:     "check-loan-eligibility",
				InputSchema:  object(nil, schema{"applicant": applicantSchema, "loanType": text}),
				OutputSchema: object([]string{"eligibility"}, schema{"eligibility": eligibilitySchema}),
				ErrorCodes:   []string{"VALIDATION_FAILED", "INVALID_LOAN_TYPE", "INPUT_SCHEMA_VIOLATION"},
				Timeout:      "10s",
				Retries:      0,
				Workflows:    []string{"loan-advisory"},
				Tags:         []string{"eligibility", "loan"},
			},
			{
				ID:          "loan.emi.compute",
				DisplayName: "Compute EMI",
				Description: "Computes the equated monthly instalment and optionally the amortisation schedule",
				Category:    "calculator",
				TaskType:    "compute-emi",
				InputSchema: object([]string{"principal", "annualRate", "tenureMonths"}, schema{
					"principal":       schema{"type": "number", "minimum": 0, "maximum": 1e12},
					"annualRate":      schema{"type": "number", "minimum": 0, "maximum": 100},
					"tenureMonths":    schema{"type": "integer", "minimum": 1, "maximum": 600},
					"includeSchedule": flag,
					"startDate":       schema{"type": "string", "format": "date"},
				}),
				OutputSchema: object([]string{"emi", "totalAmount", "totalInterest"}, schema{
					"emi":           number,
					"totalAmount":   number,
					"totalInterest": number,
					"schedule":      schema{"type": "array"},
				}),
				ErrorCodes: []string{"INVALID_EMI_INPUT", "INPUT_SCHEMA_VIOLATION"},
				Timeout:    "10s",
				Retries:    2,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"emi", "calculator"},
			},
			{
				ID:          "loan.score.compute",
				DisplayName: "Compute Strength Score",
				Description: "Scores employment or income strength on a 0 to 100 scale",
				Category:    "calculator",
				TaskType:    "compute-strength-score",
				InputSchema: object([]string{"scoreType"}, schema{
					"scoreType":        schema{"type": "string", "enum": []string{"employment", "income"}},
					"experienceYears":  number,
					"employmentType":   text,
					"companySize":      text,
					"salaryMode":       text,
					"monthlyIncome":    number,
					"incomeSource":     text,
					"additionalIncome": flag,
					"existingEmi":      number,
				}),
				OutputSchema: object([]string{"score", "status"}, schema{
					"score":  schema{"type": "integer", "minimum": 0, "maximum": 100},
					"status": text,
				}),
				ErrorCodes: []string{"INPUT_SCHEMA_VIOLATION"},
				Timeout:    "10s",
				Retries:    0,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"score", "calculator"},
			},
			{
				ID:          "loan.offers.compare",
				DisplayName: "Compare Bank Offers",
				Description: "Quotes every catalogued bank offer for the loan type and ranks them by EMI",
				Category:    "catalog",
				TaskType:    "compare-bank-offers",
				InputSchema: object([]string{"loanType", "amount", "tenureMonths"}, schema{
					"loanType":     text,
					"amount":       schema{"type": "number", "minimum": 1},
					"tenureMonths": schema{"type": "integer", "minimum": 1, "maximum": 600},
				}),
				OutputSchema: object([]string{"offers"}, schema{
					"offers":    schema{"type": "array"},
					"bestOffer": schema{"type": "object"},
				}),
				ErrorCodes: []string{"INVALID_LOAN_TYPE", "CATALOG_UNAVAILABLE", "NO_MATCHING_OFFERS", "INPUT_SCHEMA_VIOLATION"},
				Timeout:    "15s",
				Retries:    3,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"catalog", "offers"},
			},
			{
				ID:          "loan.assessment.record",
				DisplayName: "Record Loan Assessment",
				Description: "Persists the assessment in PostgreSQL and publishes an assessment event",
				Category:    "persistence",
				TaskType:    "record-loan-assessment",
				InputSchema: object([]string{"applicant", "eligibility"}, schema{
					"assessmentId":  text,
					"applicationId": text,
					"name":          text,
					"email":         text,
					"applicant":     applicantSchema,
					"eligibility":   eligibilitySchema,
				}),
				OutputSchema: object([]string{"assessmentId", "recordedAt"}, schema{
					"assessmentId":     text,
					"assessmentStatus": schema{"type": "string", "enum": []string{"eligible", "not_eligible"}},
					"recordedAt":       text,
					"eventId":          text,
				}),
				ErrorCodes: []string{"DATABASE_CONNECTION_FAILED", "DATABASE_INSERT_FAILED", "EVENT_PUBLISH_FAILED", "INPUT_SCHEMA_VIOLATION"},
				Timeout:    "15s",
				Retries:    3,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"database", "events"},
			},
			{
				ID:          "loan.result.notify",
				DisplayName: "Notify Eligibility Result",
				Description: "Emails and texts the applicant a summary of their eligibility",
				Category:    "communication",
				TaskType:    "notify-eligibility-result",
				InputSchema: object([]string{"eligibility"}, schema{
					"name":          text,
					"email":         text,
					"phone":         formValue,
					"loanType":      text,
					"applicationId": text,
					"eligibility":   eligibilitySchema,
				}),
				OutputSchema: object([]string{"status", "channels"}, schema{
					"notificationId": text,
					"status":         schema{"type": "string", "enum": []string{"sent", "disabled"}},
					"channels":       schema{"type": "array", "items": object([]string{"channel", "status"}, schema{"channel": text, "status": text})},
					"sentAt":         text,
				}),
				ErrorCodes: []string{"NOTIFICATION_SEND_FAILED", "INPUT_SCHEMA_VIOLATION"},
				Timeout:    "20s",
				Retries:    3,
				Workflows:  []string{"loan-advisory"},
				Tags:       []string{"notification", "email", "sms"},
			},
		},
	}
}
