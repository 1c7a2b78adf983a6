// internal/workers/loan/notify-eligibility-result/models.go
package notifyeligibilityresult

import (
	"bytes"
	"encoding/json"
	"strings"

	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"
)

type Input struct {
	ApplicationID string                 `json:"applicationId,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Phone         Phone                  `json:"phone,omitempty"`
	LoanType      string                 `json:"loanType,omitempty"`
	Eligibility   loan.EligibilityResult `json:"eligibility"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	Status         string                `json:"status"` // "sent", "disabled"
	Channels       []models.Notification `json:"channels"`
	SentAt         string                `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

// Phone accepts the number either as a JSON string or as the bare number a
// form serializer produces.
type Phone string

func (p *Phone) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Phone(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Phone(n.String())
	return nil
}
