// internal/workers/loan/record-loan-assessment/handler.go
package recordloanassessment

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/events"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/models"
	"loan-advisor-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-loan-assessment"
)

var jobNamespace = uuid.MustParse("8c1d7f2e-4b8a-4c5e-9f41-2a6d3b9e0c77")

type Handler struct {
	config    *Config
	store     *store.AssessmentStore
	publisher events.Publisher
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, assessments *store.AssessmentStore, publisher events.Publisher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     assessments,
		publisher: publisher,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
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
	if input.AssessmentID == "" {
		input.AssessmentID = uuid.NewSHA1(jobNamespace, []byte(strconv.FormatInt(job.Key, 10))).String()
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assessment := models.NewAssessment(input.Applicant, input.Eligibility)
	assessment.ID = input.AssessmentID
	assessment.ApplicationID = input.ApplicationID
	assessment.ApplicantName = input.Name
	assessment.ApplicantEmail = input.Email

	if err := h.store.Create(ctx, &assessment); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	event := events.NewEvent(events.TypeAssessmentCompleted, TaskType, assessment)
	if err := h.publisher.Publish(ctx, h.config.Topic, assessment.ID, event); err != nil {
		return nil, errors.NewEventPublishFailedError(h.config.Topic, err)
	}

	h.logger.Info("assessment recorded", map[string]interface{}{
		"assessmentId":  assessment.ID,
		"applicationId": assessment.ApplicationID,
		"loanType":      assessment.LoanType,
		"eligible":      assessment.Eligible,
		"eventId":       event.ID,
	})

	return &Output{
		AssessmentID:     assessment.ID,
		AssessmentStatus: string(assessment.Status),
		RecordedAt:       assessment.CreatedAt.Format(time.RFC3339),
		EventID:          event.ID,
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
