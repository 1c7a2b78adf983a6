// internal/workers/loan/compute-strength-score/handler.go
package computestrengthscore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/loan"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compute-strength-score"
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
	var score int
	scoreType := strings.ToLower(strings.TrimSpace(input.ScoreType))

	switch scoreType {
	case ScoreTypeEmployment:
		score = loan.ComputeEmploymentScore(loan.EmploymentInput{
			ExperienceYears: input.ExperienceYears,
			EmploymentType:  input.EmploymentType,
			CompanySize:     input.CompanySize,
			SalaryMode:      input.SalaryMode,
		})
	case ScoreTypeIncome:
		score = loan.ComputeIncomeScore(loan.IncomeInput{
			MonthlyIncome:    input.MonthlyIncome,
			IncomeSource:     input.IncomeSource,
			AdditionalIncome: input.AdditionalIncome,
			ExistingEMI:      input.ExistingEMI,
		})
	default:
		return nil, errors.NewInputSchemaViolationError(TaskType, []string{
			fmt.Sprintf("scoreType: %q is not one of employment, income", input.ScoreType),
		})
	}

	result := loan.NewStrengthScore(score)

	h.logger.Info("strength score computed", map[string]interface{}{
		"scoreType": scoreType,
		"score":     result.Score,
		"status":    result.Status,
	})

	return &Output{
		ScoreType: scoreType,
		Score:     result.Score,
		Status:    result.Status,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
