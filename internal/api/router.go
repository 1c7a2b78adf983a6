// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"loan-advisor-workers/internal/catalog"
	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"
	"loan-advisor-workers/internal/models"
	comparebankoffers "loan-advisor-workers/internal/workers/loan/compare-bank-offers"
	checkloaneligibility "loan-advisor-workers/internal/workers/loan/check-loan-eligibility"
	computeemi "loan-advisor-workers/internal/workers/loan/compute-emi"
	computestrengthscore "loan-advisor-workers/internal/workers/loan/compute-strength-score"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type assessmentReader interface {
	Get(ctx context.Context, id string) (*models.Assessment, error)
}

type processStarter interface {
	StartProcess(ctx context.Context, bpmnProcessID string, variables interface{}) (int64, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Services are the calculators and stores behind the REST API. The same
// worker handlers serve BPMN jobs, so both surfaces apply one policy.
// Catalog, Assessments and Processes are optional; their routes answer 503
// when unset.
type Services struct {
	EMI         *computeemi.Handler
	Eligibility *checkloaneligibility.Handler
	Scores      *computestrengthscore.Handler
	Offers      *comparebankoffers.Handler

	Catalog     catalog.Source
	Assessments assessmentReader
	Processes   processStarter
	ProcessID   string

	Checks map[string]ReadinessCheck
}

type API struct {
	services Services
	logger   logger.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(services Services, log logger.Logger) *gin.Engine {
	a := &API{
		services: services,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}

	router := gin.New()
	router.Use(gin.Recovery(), a.requestLogger(), requestMetrics())

	router.GET("/health", a.health)
	router.GET("/ready", a.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/emi", a.computeEMI)
		v1.POST("/eligibility", a.checkEligibility)
		v1.POST("/scores/:scoreType", a.computeScore)
		v1.POST("/banks/compare", a.compareOffers)
		v1.GET("/banks/:loanType", a.listOffers)
		v1.GET("/assessments/:id", a.getAssessment)
		v1.POST("/assessments", a.startAssessment)
	}

	return router
}

// NewServer wraps handler in an http.Server with the configured timeouts.
func NewServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
	}
}

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			a.logger.Error("request failed", fields)
			return
		}
		a.logger.Debug("request served", fields)
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
