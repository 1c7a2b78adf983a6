// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InputValidator checks decoded job variables before a handler sees them and
// returns the violations, if any.
type InputValidator interface {
	ValidateInput(taskType string, variables map[string]interface{}) ([]string, error)
}

// JobErrorHandler is satisfied by errors.ErrorHandler.
type JobErrorHandler interface {
	HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. The handler is wrapped with
// input validation, panic recovery and job metrics.
func NewWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	validator InputValidator,
	errHandler JobErrorHandler,
	obs *observability.Observability,
	logger *zap.Logger,
) *CamundaWorker {
	wrapped := Instrument(taskType, obs,
		WithRecovery(taskType, errHandler, logger,
			WithInputValidation(taskType, validator, errHandler, handler)))

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(wrapped).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Duration("timeout", config.GetDuration(wcfg.Timeout)),
	)

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}

// WithInputValidation rejects jobs whose variables violate the activity's
// input schema with an INPUT_SCHEMA_VIOLATION BPMN error. A nil validator
// passes every job through.
func WithInputValidation(taskType string, validator InputValidator, errHandler JobErrorHandler, next worker.JobHandler) worker.JobHandler {
	if validator == nil {
		return next
	}

	return func(client worker.JobClient, job entities.Job) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(job.Variables), &vars); err != nil {
			errHandler.HandleJobError(ctx, client, job, errors.NewParseError(err))
			return
		}

		violations, err := validator.ValidateInput(taskType, vars)
		if err != nil {
			errHandler.HandleJobError(ctx, client, job, errors.NewInputSchemaViolationError(taskType, []string{err.Error()}))
			return
		}
		if len(violations) > 0 {
			errHandler.HandleJobError(ctx, client, job, errors.NewInputSchemaViolationError(taskType, violations))
			return
		}

		next(client, job)
	}
}

// WithRecovery turns a panic in next into an INTERNAL_ERROR BPMN error on the
// job instead of letting it unwind the worker goroutine.
func WithRecovery(taskType string, errHandler JobErrorHandler, logger *zap.Logger, next worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			logger.Error("job handler panicked",
				zap.String("taskType", taskType),
				zap.Int64("jobKey", job.Key),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			)
			metrics.WorkerJobsFailed.WithLabelValues(taskType, string(errors.ErrCodeInternal)).Inc()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			errHandler.HandleJobError(ctx, client, job, errors.NewPanicError(taskType, recovered))
		}()

		next(client, job)
	}
}

// Instrument records job counts and handling time for taskType in Prometheus
// and OpenTelemetry, inside a span per job.
func Instrument(taskType string, obs *observability.Observability, next worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		start := time.Now()
		metrics.JobsActivated.WithLabelValues(taskType).Inc()
		defer func() {
			elapsed := time.Since(start)
			metrics.JobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobDuration(ctx, taskType, elapsed)
			obs.RecordJobProcessed(ctx, taskType, "handled")
		}()

		next(client, job)
	}
}
