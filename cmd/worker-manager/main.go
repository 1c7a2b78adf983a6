// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-advisor-workers/internal/api"
	"loan-advisor-workers/internal/catalog"
	"loan-advisor-workers/internal/common/aws"
	"loan-advisor-workers/internal/common/camunda"
	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/database"
	"loan-advisor-workers/internal/common/events"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/observability"
	"loan-advisor-workers/internal/common/validation"
	"loan-advisor-workers/internal/store"
	"loan-advisor-workers/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name, cfg.Tracing)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Activity registry ---
	reg := registry.DefaultRegistry()
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("activity registry load failed", zap.Error(err))
		}
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	validator, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("activity schemas invalid", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (only for the elasticsearch catalog) ---
	var esClient *database.ElasticsearchClient
	if cfg.Catalog.Source == config.CatalogSourceElasticsearch {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	offers, err := catalog.NewSource(cfg.Catalog, esClient, redis, log)
	if err != nil {
		zapLog.Fatal("bank offer catalog init failed", zap.Error(err))
	}

	// --- Init Kafka publisher ---
	publisher := events.NewPublisher(cfg.Kafka, log)
	defer publisher.Close()

	// --- Init notification clients ---
	var email *aws.SESClient
	if cfg.Notifications.Email.Enabled {
		email, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}
	var sms *aws.SNSClient
	if cfg.Notifications.SMS.Enabled {
		sms, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Register loan workers ---
	assessments := store.NewAssessmentStore(pg)
	handlers := newHandlers(cfg, deps{
		offers:      offers,
		redis:       redis,
		assessments: assessments,
		publisher:   publisher,
		email:       email,
		sms:         sms,
	}, log)

	workers := startWorkers(zeebe, cfg, handlers, validator, obs, log, zapLog)
	zapLog.Info("Loan workers registered", zap.Int("count", len(workers)))

	// --- REST API, health and metrics ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Services{
		EMI:         handlers.emi,
		Eligibility: handlers.eligibility,
		Scores:      handlers.scores,
		Offers:      handlers.offers,
		Catalog:     offers,
		Assessments: assessments,
		Processes:   zeebe,
		ProcessID:   cfg.Camunda.ProcessID,
		Checks: map[string]api.ReadinessCheck{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    redis.Ping,
		},
	}, log)

	server := api.NewServer(cfg.HTTP, router)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}

	for _, w := range workers {
		w.Stop()
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
