// cmd/worker-manager/workers.go
package main

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"loan-advisor-workers/internal/catalog"
	"loan-advisor-workers/internal/common/aws"
	"loan-advisor-workers/internal/common/camunda"
	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/database"
	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/common/events"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/observability"
	"loan-advisor-workers/internal/store"

	cbo "loan-advisor-workers/internal/workers/loan/compare-bank-offers"
	cle "loan-advisor-workers/internal/workers/loan/check-loan-eligibility"
	cemi "loan-advisor-workers/internal/workers/loan/compute-emi"
	css "loan-advisor-workers/internal/workers/loan/compute-strength-score"
	ner "loan-advisor-workers/internal/workers/loan/notify-eligibility-result"
	rla "loan-advisor-workers/internal/workers/loan/record-loan-assessment"
	vla "loan-advisor-workers/internal/workers/loan/validate-loan-application"
)

type deps struct {
	offers      catalog.Source
	redis       *database.RedisClient
	assessments *store.AssessmentStore
	publisher   events.Publisher
	email       *aws.SESClient
	sms         *aws.SNSClient
}

type handlers struct {
	validate    *vla.Handler
	eligibility *cle.Handler
	emi         *cemi.Handler
	scores      *css.Handler
	offers      *cbo.Handler
	record      *rla.Handler
	notify      *ner.Handler
}

func timeoutFor(cfg *config.Config, taskType string) int {
	return config.GetWorkerConfig(cfg, taskType).Timeout
}

// newHandlers builds every loan handler. The REST API shares the calculator
// handlers with the job workers.
func newHandlers(cfg *config.Config, d deps, log logger.Logger) *handlers {
	emiCfg := cemi.LoadConfig()
	emiCfg.Timeout = config.GetDuration(timeoutFor(cfg, cemi.TaskType))
	emiCfg.QuoteTTL = config.GetDuration(cfg.Cache.QuoteTTL * 1000)

	offersCfg := cbo.LoadConfig()
	offersCfg.Timeout = config.GetDuration(timeoutFor(cfg, cbo.TaskType))

	recordCfg := rla.LoadConfig()
	recordCfg.Timeout = config.GetDuration(timeoutFor(cfg, rla.TaskType))
	recordCfg.Topic = cfg.Kafka.AssessmentTopic

	// Typed nil pointers must not reach the sender interfaces.
	var email ner.EmailSender
	if d.email != nil {
		email = d.email
	}
	var sms ner.SMSSender
	if d.sms != nil {
		sms = d.sms
	}

	return &handlers{
		validate: vla.NewHandler(
			&vla.Config{Timeout: config.GetDuration(timeoutFor(cfg, vla.TaskType))}, log),
		eligibility: cle.NewHandler(
			&cle.Config{Timeout: config.GetDuration(timeoutFor(cfg, cle.TaskType))}, log),
		emi: cemi.NewHandler(emiCfg, d.redis, log),
		scores: css.NewHandler(
			&css.Config{Timeout: config.GetDuration(timeoutFor(cfg, css.TaskType))}, log),
		offers: cbo.NewHandler(offersCfg, d.offers, log),
		record: rla.NewHandler(recordCfg, d.assessments, d.publisher, log),
		notify: ner.NewHandler(&ner.Config{
			EmailEnabled: cfg.Notifications.Email.Enabled,
			SMSEnabled:   cfg.Notifications.SMS.Enabled,
			Timeout:      config.GetDuration(timeoutFor(cfg, ner.TaskType)),
		}, email, sms, log),
	}
}

// startWorkers opens a job worker for every enabled loan task type.
func startWorkers(
	zeebe *camunda.Client,
	cfg *config.Config,
	h *handlers,
	validator camunda.InputValidator,
	obs *observability.Observability,
	log logger.Logger,
	zapLog *zap.Logger,
) []*camunda.CamundaWorker {
	jobHandlers := []struct {
		taskType string
		handle   worker.JobHandler
	}{
		{vla.TaskType, h.validate.Handle},
		{cle.TaskType, h.eligibility.Handle},
		{cemi.TaskType, h.emi.Handle},
		{css.TaskType, h.scores.Handle},
		{cbo.TaskType, h.offers.Handle},
		{rla.TaskType, h.record.Handle},
		{ner.TaskType, h.notify.Handle},
	}

	errHandler := errors.NewErrorHandler(log)
	workers := make([]*camunda.CamundaWorker, 0, len(jobHandlers))
	for _, jh := range jobHandlers {
		wcfg := config.GetWorkerConfig(cfg, jh.taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", jh.taskType))
			continue
		}
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(), jh.taskType, wcfg, jh.handle, validator, errHandler, obs, zapLog,
		))
	}
	return workers
}
