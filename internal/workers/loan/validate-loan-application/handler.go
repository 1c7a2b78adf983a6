// internal/workers/loan/validate-loan-application/handler.go
package validateloanapplication

import (
	"context"
	"encoding/json"

	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-loan-application"
)

type Handler struct {
	config *Config
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// execute runs the validation gate. A rejected form becomes a
// VALIDATION_FAILED error carrying every failing field in form order.
func (h *Handler) execute(_ context.Context, input Input) (*Output, error) {
	fields := models.FormFields(input)
	form := loan.FormFromFields(fields)

	if err := loan.ValidateApplication(form); err != nil {
		verrs, _ := loan.AsValidationErrors(err)
		metrics.RecordValidationFailure(verrs.Fields())

		h.logger.Info("application rejected by validation", map[string]interface{}{
			"fields": verrs.Fields(),
		})
		return nil, errors.NewValidationFailedError(verrs.Error(), verrs.Fields()).
			WithMetadata("validationErrors", verrs)
	}

	if form.Profile.LoanType == "" {
		_, err := loan.ParseLoanType(fields["loanType"])
		return nil, errors.NewInvalidLoanTypeError(fields["loanType"], err)
	}

	h.logger.Info("application validated", map[string]interface{}{
		"loanType":            form.Profile.LoanType,
		"creditScoreProvided": form.CreditScoreProvided,
	})

	return &Output{
		IsValid:             true,
		Name:                form.Name,
		Email:               form.Email,
		Phone:               form.Phone,
		Applicant:           form.Profile,
		CreditScoreProvided: form.CreditScoreProvided,
	}, nil
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

func (h *Handler) Execute(ctx context.Context, input Input) (*Output, error) {
	return h.execute(ctx, input)
}
