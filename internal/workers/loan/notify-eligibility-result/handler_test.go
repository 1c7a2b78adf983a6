package notifyeligibilityresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"loan-advisor-workers/internal/common/aws"
	"loan-advisor-workers/internal/common/camunda/camundatest"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeEmail struct {
	sent []aws.Email
	err  error
}

func (f *fakeEmail) Send(_ context.Context, msg aws.Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "ses-1", nil
}

type sms struct {
	phone   string
	message string
}

type fakeSMS struct {
	sent []sms
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sms{phone: phone, message: message})
	return "sns-1", nil
}

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		Timeout:      5 * time.Second,
	}
}

func createTestInput() *Input {
	return &Input{
		ApplicationID: "app-001",
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		LoanType:      "personal",
		Eligibility: loan.EligibilityResult{
			Eligible:              true,
			MaxEligibleAmount:     90000,
			SuggestedInterestRate: 10.5,
			Reasons:               []string{},
			Recommendations:       []string{"Keep your credit utilisation below 30%"},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Eligible(t *testing.T) {
	email, text := &fakeEmail{}, &fakeSMS{}
	handler := NewHandler(createTestConfig(), email, text, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	require.Len(t, output.Channels, 2)
	assert.Equal(t, models.Notification{Channel: models.ChannelEmail, Recipient: "asha@example.com", Status: StatusSent, MessageID: "ses-1"}, output.Channels[0])
	assert.Equal(t, models.Notification{Channel: models.ChannelSMS, Recipient: "9876543210", Status: StatusSent, MessageID: "sns-1"}, output.Channels[1])

	require.Len(t, email.sent, 1)
	assert.Equal(t, "Your Personal loan eligibility", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].TextBody, "Hello Asha Rao")
	assert.Contains(t, email.sent[0].TextBody, "up to ₹90,000 at an indicative rate of 10.50%")
	assert.Contains(t, email.sent[0].TextBody, "- Keep your credit utilisation below 30%")
	assert.NotContains(t, email.sent[0].TextBody, "{{")

	require.Len(t, text.sent, 1)
	assert.Equal(t, "Eligible for a Personal loan up to ₹90,000 at 10.50%. Ref app-001", text.sent[0].message)
}

func TestHandler_Execute_NotEligibleListsReasons(t *testing.T) {
	email := &fakeEmail{}
	handler := NewHandler(createTestConfig(), email, &fakeSMS{}, logger.NewTestLogger(t))

	input := createTestInput()
	input.Name = ""
	input.Eligibility = loan.EligibilityResult{
		Eligible: false,
		Reasons:  []string{"Credit score below minimum requirement", "Age outside eligible range"},
	}

	_, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	body := email.sent[0].TextBody
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "Reasons:\n- Credit score below minimum requirement\n- Age outside eligible range")
	assert.NotContains(t, body, "Recommendations:")
}

func TestHandler_Execute_ChannelSelection(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		input    func(*Input)
		status   string
		channels []string
	}{
		{
			name:     "both channels disabled",
			config:   &Config{Timeout: time.Second},
			input:    func(*Input) {},
			status:   StatusDisabled,
			channels: []string{StatusDisabled, StatusDisabled},
		},
		{
			name:     "no phone skips sms",
			config:   createTestConfig(),
			input:    func(in *Input) { in.Phone = "" },
			status:   StatusSent,
			channels: []string{StatusSent, StatusSkipped},
		},
		{
			name:     "no contact details",
			config:   createTestConfig(),
			input:    func(in *Input) { in.Email, in.Phone = "", "" },
			status:   StatusDisabled,
			channels: []string{StatusSkipped, StatusSkipped},
		},
		{
			name:     "email only",
			config:   &Config{EmailEnabled: true, Timeout: time.Second},
			input:    func(*Input) {},
			status:   StatusSent,
			channels: []string{StatusSent, StatusDisabled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(tt.config, &fakeEmail{}, &fakeSMS{}, logger.NewTestLogger(t))
			input := createTestInput()
			tt.input(input)

			output, err := handler.Execute(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, tt.status, output.Status)
			require.Len(t, output.Channels, len(tt.channels))
			for i, want := range tt.channels {
				assert.Equal(t, want, output.Channels[i].Status, "channel %s", output.Channels[i].Channel)
			}
		})
	}
}

func TestHandler_Execute_NilSendersDisableChannels(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_PartialFailureCompletes(t *testing.T) {
	handler := NewHandler(createTestConfig(), &fakeEmail{}, &fakeSMS{err: stderrors.New("sns throttled")}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, StatusFailed, output.Channels[1].Status)
	assert.Equal(t, "sns throttled", output.Channels[1].Error)
}

func TestHandler_Execute_AllChannelsFail(t *testing.T) {
	handler := NewHandler(createTestConfig(),
		&fakeEmail{err: stderrors.New("ses rejected")},
		&fakeSMS{err: stderrors.New("sns throttled")},
		logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput())

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "ses rejected")
	assert.Contains(t, stdErr.Details, "sns throttled")
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_NumericPhone(t *testing.T) {
	text := &fakeSMS{}
	handler := NewHandler(createTestConfig(), &fakeEmail{}, text, logger.NewTestLogger(t))
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, 11, TaskType, `{
		"email": "asha@example.com",
		"phone": 9876543210,
		"loanType": "Home",
		"eligibility": {"eligible": true, "maxEligibleAmount": 3000000, "suggestedInterestRate": 8.5}
	}`))

	var output Output
	client.CompletedVariables(t, &output)
	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, text.sent, 1)
	assert.Equal(t, "9876543210", text.sent[0].phone)
}

func TestHandler_Handle_AllChannelsFailRetries(t *testing.T) {
	handler := NewHandler(createTestConfig(),
		&fakeEmail{err: stderrors.New("ses rejected")},
		&fakeSMS{err: stderrors.New("sns throttled")},
		logger.NewTestLogger(t))
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, 12, TaskType, createTestInput()))

	require.Len(t, client.Failed(), 1)
	assert.Equal(t, int32(2), client.Failed()[0].Retries)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(client.Failed()[0].Variables), &vars))
	assert.Equal(t, "NOTIFICATION_SEND_FAILED", vars["errorCode"])
}

func TestPhone_UnmarshalJSON(t *testing.T) {
	var in struct {
		Phone Phone `json:"phone"`
	}
	for raw, want := range map[string]string{
		`{"phone": " 9876543210 "}`: "9876543210",
		`{"phone": 9876543210}`:     "9876543210",
		`{"phone": null}`:           "",
	} {
		in.Phone = "x"
		require.NoError(t, json.Unmarshal([]byte(raw), &in), raw)
		assert.Equal(t, Phone(want), in.Phone, raw)
	}
}
