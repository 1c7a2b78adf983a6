// internal/workers/loan/notify-eligibility-result/templates.go
package notifyeligibilityresult

import (
	"fmt"
	"strings"

	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"
)

var templates = map[bool]models.NotificationTemplate{
	true: {
		Subject: "Your {{loanType}} loan eligibility",
		Body: "Hello {{name}},\n\n" +
			"Good news: you are eligible for a {{loanType}} loan of up to {{maxEligibleAmount}} " +
			"at an indicative rate of {{suggestedInterestRate}}.\n\n{{recommendations}}",
		SMS: "Eligible for a {{loanType}} loan up to {{maxEligibleAmount}} at {{suggestedInterestRate}}. Ref {{applicationId}}",
	},
	false: {
		Subject: "Your {{loanType}} loan eligibility",
		Body: "Hello {{name}},\n\n" +
			"We could not confirm eligibility for a {{loanType}} loan right now.\n\n" +
			"{{reasons}}\n\n{{recommendations}}",
		SMS: "Not eligible for a {{loanType}} loan yet. Check your email for details. Ref {{applicationId}}",
	},
}

func templateData(input *Input) map[string]interface{} {
	loanType := input.LoanType
	if t, err := loan.ParseLoanType(loanType); err == nil {
		loanType = string(t)
	}
	name := input.Name
	if name == "" {
		name = "there"
	}

	return map[string]interface{}{
		"name":                  name,
		"loanType":              loanType,
		"applicationId":         input.ApplicationID,
		"maxEligibleAmount":     loan.FormatINR(input.Eligibility.MaxEligibleAmount),
		"suggestedInterestRate": loan.FormatPercent(input.Eligibility.SuggestedInterestRate),
		"reasons":               bulletList("Reasons:", input.Eligibility.Reasons),
		"recommendations":       bulletList("Recommendations:", input.Eligibility.Recommendations),
	}
}

func bulletList(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title)
	for _, item := range items {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
	return b.String()
}

// renderTemplate substitutes {{key}} placeholders and drops any left without
// a value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}

	return strings.TrimSpace(result)
}
