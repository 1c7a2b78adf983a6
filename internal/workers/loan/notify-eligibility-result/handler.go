// internal/workers/loan/notify-eligibility-result/handler.go
package notifyeligibilityresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"loan-advisor-workers/internal/common/aws"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-eligibility-result"
)

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	Send(ctx context.Context, msg aws.Email) (string, error)
}

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	errors *errors.ErrorHandler
	logger logger.Logger
}

// NewHandler builds the handler. A nil sender disables its channel.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
		errors: errors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// execute sends on every enabled channel that has a recipient. The job fails
// only when all attempted channels fail, so a retry never repeats a message
// that was delivered.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl := templates[input.Eligibility.Eligible]
	data := templateData(input)

	channels := []models.Notification{
		h.sendEmail(ctx, input.Email, tmpl, data),
		h.sendSMS(ctx, string(input.Phone), tmpl, data),
	}

	attempted, sent := 0, 0
	var errs []error
	for _, n := range channels {
		switch n.Status {
		case StatusSent:
			attempted++
			sent++
		case StatusFailed:
			attempted++
			errs = append(errs, fmt.Errorf("%s: %s", n.Channel, n.Error))
		}
		metrics.NotificationsSent.WithLabelValues(string(n.Channel), n.Status).Inc()
	}

	if attempted > 0 && sent == 0 {
		return nil, errors.NewNotificationSendFailedError("eligibility", stderrors.Join(errs...))
	}

	status := StatusDisabled
	if sent > 0 {
		status = StatusSent
	}

	h.logger.Info("eligibility result notified", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"eligible":      input.Eligibility.Eligible,
		"status":        status,
		"sent":          sent,
	})

	return &Output{
		NotificationID: uuid.New().String(),
		Status:         status,
		Channels:       channels,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, tmpl models.NotificationTemplate, data map[string]interface{}) models.Notification {
	n := models.Notification{Channel: models.ChannelEmail, Recipient: to}
	switch {
	case !h.config.EmailEnabled || h.email == nil:
		n.Status = StatusDisabled
		return n
	case to == "":
		n.Status = StatusSkipped
		return n
	}

	id, err := h.email.Send(ctx, aws.Email{
		To:       to,
		Subject:  renderTemplate(tmpl.Subject, data),
		TextBody: renderTemplate(tmpl.Body, data),
	})
	if err != nil {
		h.logger.Error("email send failed", map[string]interface{}{
			"error": err,
			"email": to,
		})
		n.Status, n.Error = StatusFailed, err.Error()
		return n
	}
	n.Status, n.MessageID = StatusSent, id
	return n
}

func (h *Handler) sendSMS(ctx context.Context, phone string, tmpl models.NotificationTemplate, data map[string]interface{}) models.Notification {
	n := models.Notification{Channel: models.ChannelSMS, Recipient: phone}
	switch {
	case !h.config.SMSEnabled || h.sms == nil:
		n.Status = StatusDisabled
		return n
	case phone == "":
		n.Status = StatusSkipped
		return n
	}

	id, err := h.sms.SendSMS(ctx, phone, renderTemplate(tmpl.SMS, data))
	if err != nil {
		h.logger.Error("SMS send failed", map[string]interface{}{
			"error": err,
			"phone": phone,
		})
		n.Status, n.Error = StatusFailed, err.Error()
		return n
	}
	n.Status, n.MessageID = StatusSent, id
	return n
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
