// internal/workers/loan/compare-bank-offers/handler.go
package comparebankoffers

import (
	"context"
	"encoding/json"

	"loan-advisor-workers/internal/catalog"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/loan"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compare-bank-offers"
)

type Handler struct {
	config  *Config
	catalog catalog.Source
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, source catalog.Source, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		catalog: source,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	loanType, err := loan.ParseLoanType(input.LoanType)
	if err != nil {
		return nil, errors.NewInvalidLoanTypeError(input.LoanType, err)
	}
	if err := loan.ValidateEMIInput(input.Amount, 0, input.TenureMonths); err != nil {
		return nil, errors.NewInvalidEMIInputError(err.Error(), err)
	}

	offers, err := h.catalog.Offers(ctx, loanType)
	if err != nil {
		return nil, errors.NewCatalogUnavailableError("bank_offers", err)
	}

	quotes := loan.CompareOffers(offers, loanType, input.Amount, input.TenureMonths)
	if len(quotes) == 0 {
		return nil, errors.NewNoMatchingOffersError(string(loanType))
	}

	matched := len(quotes)
	if h.config.MaxOffers > 0 && len(quotes) > h.config.MaxOffers {
		quotes = quotes[:h.config.MaxOffers]
	}
	best := quotes[0]

	h.logger.Info("bank offers compared", map[string]interface{}{
		"loanType":  loanType,
		"matched":   matched,
		"bestBank":  best.Bank,
		"bestEmi":   best.EMI,
		"available": len(offers),
	})

	return &Output{
		LoanType:  loanType,
		Offers:    quotes,
		BestOffer: &best,
		Matched:   matched,
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
