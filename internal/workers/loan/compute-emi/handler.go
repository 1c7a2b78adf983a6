// internal/workers/loan/compute-emi/handler.go
package computeemi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-advisor-workers/internal/common/database"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/loan"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compute-emi"
)

type quoteCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Handler struct {
	config *Config
	cache  quoteCache
	errors *errors.ErrorHandler
	logger logger.Logger
	now    func() time.Time
}

// NewHandler builds the EMI worker. A nil redis client disables the quote
// cache.
func NewHandler(config *Config, redis *database.RedisClient, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config: config,
		errors: errors.NewErrorHandler(log),
		logger: log,
		now:    time.Now,
	}
	if redis != nil {
		h.cache = redis
	}
	return h
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := loan.ValidateEMIInput(input.Principal, input.AnnualRate, input.TenureMonths); err != nil {
		return nil, errors.NewInvalidEMIInputError(err.Error(), err)
	}

	q, cached := h.lookup(ctx, input)
	if !cached {
		emi := loan.ComputeEMI(input.Principal, input.AnnualRate, input.TenureMonths)
		if !emi.IsFinite() {
			return nil, errors.NewInvalidEMIInputError("installment is not a finite amount", loan.ErrInvalidEMIInput)
		}
		q = quote{
			EMI:           loan.Round2(emi.EMI),
			TotalAmount:   loan.Round2(emi.TotalAmount),
			TotalInterest: loan.Round2(emi.TotalInterest),
		}
		h.store(ctx, input, q)
	}

	output := &Output{
		EMI:                    q.EMI,
		TotalAmount:            q.TotalAmount,
		TotalInterest:          q.TotalInterest,
		EMIFormatted:           loan.FormatINR(q.EMI),
		TotalAmountFormatted:   loan.FormatINR(q.TotalAmount),
		TotalInterestFormatted: loan.FormatINR(q.TotalInterest),
		Cached:                 cached,
	}

	if input.IncludeSchedule {
		start := h.now()
		if input.StartDate != "" {
			parsed, err := time.Parse("2006-01-02", input.StartDate)
			if err != nil {
				return nil, errors.NewInvalidEMIInputError(fmt.Sprintf("startDate: %v", err), err)
			}
			start = parsed
		}
		schedule, err := loan.Schedule(input.Principal, input.AnnualRate, input.TenureMonths, start)
		if err != nil {
			return nil, errors.NewInvalidEMIInputError(err.Error(), err)
		}
		output.Schedule = schedule
	}

	h.logger.Info("emi computed", map[string]interface{}{
		"principal":    input.Principal,
		"annualRate":   input.AnnualRate,
		"tenureMonths": input.TenureMonths,
		"emi":          q.EMI,
		"cached":       cached,
	})

	return output, nil
}

func cacheKey(input *Input) string {
	return fmt.Sprintf("emi:%.2f:%.4f:%d", input.Principal, input.AnnualRate, input.TenureMonths)
}

func (h *Handler) lookup(ctx context.Context, input *Input) (quote, bool) {
	var q quote
	if h.cache == nil {
		return q, false
	}

	found, err := h.cache.GetJSON(ctx, cacheKey(input), &q)
	if err != nil {
		metrics.EMIQuoteCache.WithLabelValues("error").Inc()
		h.logger.Warn("quote cache read failed", map[string]interface{}{"error": err})
		return q, false
	}
	if !found {
		metrics.EMIQuoteCache.WithLabelValues("miss").Inc()
		return q, false
	}
	metrics.EMIQuoteCache.WithLabelValues("hit").Inc()
	return q, true
}

func (h *Handler) store(ctx context.Context, input *Input, q quote) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetJSON(ctx, cacheKey(input), q, h.config.QuoteTTL); err != nil {
		h.logger.Warn("quote cache write failed", map[string]interface{}{"error": err})
	}
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
