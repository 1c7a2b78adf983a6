// internal/models/notification.go
package models

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

type Notification struct {
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Status    string              `json:"status"` // "sent", "failed", "disabled", "skipped"
	MessageID string              `json:"messageId,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type NotificationTemplate struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
	SMS      string `json:"sms"`
}
