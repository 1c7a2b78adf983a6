// internal/workers/loan/check-loan-eligibility/handler.go
package checkloaneligibility

import (
	"context"
	"encoding/json"

	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/loan"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-loan-eligibility"
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var (
		profile loan.ApplicantProfile
		result  loan.EligibilityResult
	)

	switch {
	case input.Applicant != nil:
		profile = *input.Applicant
		loanType, err := loan.ParseLoanType(string(profile.LoanType))
		if err != nil {
			return nil, errors.NewInvalidLoanTypeError(string(profile.LoanType), err)
		}
		profile.LoanType = loanType
		// A zero credit score in a profile means it was never entered.
		if err := loan.ValidateProfile(profile, profile.CreditScore != 0); err != nil {
			return nil, validationFailed(err)
		}
		result = loan.CheckEligibility(profile)

	case input.hasIdentity():
		form := loan.FormFromFields(input.Fields)
		if form.Profile.LoanType == "" {
			_, err := loan.ParseLoanType(input.Fields["loanType"])
			return nil, errors.NewInvalidLoanTypeError(input.Fields["loanType"], err)
		}
		assessed, err := loan.Assess(form)
		if err != nil {
			return nil, validationFailed(err)
		}
		profile, result = form.Profile, assessed

	default:
		var provided bool
		profile, provided = loan.ProfileFromForm(input.Fields)
		if profile.LoanType == "" {
			_, err := loan.ParseLoanType(input.Fields["loanType"])
			return nil, errors.NewInvalidLoanTypeError(input.Fields["loanType"], err)
		}
		if err := loan.ValidateProfile(profile, provided); err != nil {
			return nil, validationFailed(err)
		}
		result = loan.CheckEligibility(profile)
	}

	metrics.RecordEligibility(string(profile.LoanType), result.Eligible)

	h.logger.Info("eligibility checked", map[string]interface{}{
		"loanType":          profile.LoanType,
		"eligible":          result.Eligible,
		"maxEligibleAmount": result.MaxEligibleAmount,
		"reasons":           len(result.Reasons),
	})

	return &Output{
		Eligibility:                    result,
		Applicant:                      profile,
		MaxEligibleAmountFormatted:     loan.FormatINR(result.MaxEligibleAmount),
		SuggestedInterestRateFormatted: loan.FormatPercent(result.SuggestedInterestRate),
	}, nil
}

// validationFailed counts the failing fields and wraps them in a
// VALIDATION_FAILED error.
func validationFailed(err error) error {
	verrs, _ := loan.AsValidationErrors(err)
	metrics.RecordValidationFailure(verrs.Fields())
	return errors.NewValidationFailedError(verrs.Error(), verrs.Fields()).
		WithMetadata("validationErrors", verrs)
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
