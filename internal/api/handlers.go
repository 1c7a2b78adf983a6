// internal/api/handlers.go
package api

import (
	stderrors "errors"
	"net/http"
	"sort"

	"loan-advisor-workers/internal/common/errors"
	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/store"
	comparebankoffers "loan-advisor-workers/internal/workers/loan/compare-bank-offers"
	checkloaneligibility "loan-advisor-workers/internal/workers/loan/check-loan-eligibility"
	computeemi "loan-advisor-workers/internal/workers/loan/compute-emi"
	computestrengthscore "loan-advisor-workers/internal/workers/loan/compute-strength-score"

	"github.com/gin-gonic/gin"
)

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) ready(c *gin.Context) {
	checks := make(map[string]string, len(a.services.Checks))
	status := http.StatusOK
	for name, check := range a.services.Checks {
		if err := check(c.Request.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

func (a *API) computeEMI(c *gin.Context) {
	var input computeemi.Input
	if !a.bind(c, &input) {
		return
	}
	output, err := a.services.EMI.Execute(c.Request.Context(), &input)
	a.respond(c, output, err)
}

func (a *API) checkEligibility(c *gin.Context) {
	var input checkloaneligibility.Input
	if !a.bind(c, &input) {
		return
	}
	output, err := a.services.Eligibility.Execute(c.Request.Context(), &input)
	a.respond(c, output, err)
}

func (a *API) computeScore(c *gin.Context) {
	var input computestrengthscore.Input
	if !a.bind(c, &input) {
		return
	}
	input.ScoreType = c.Param("scoreType")
	output, err := a.services.Scores.Execute(c.Request.Context(), &input)
	a.respond(c, output, err)
}

func (a *API) compareOffers(c *gin.Context) {
	var input comparebankoffers.Input
	if !a.bind(c, &input) {
		return
	}
	output, err := a.services.Offers.Execute(c.Request.Context(), &input)
	a.respond(c, output, err)
}

func (a *API) listOffers(c *gin.Context) {
	if a.services.Catalog == nil {
		a.unavailable(c, "bank offer catalog")
		return
	}

	raw := c.Param("loanType")
	loanType, err := loan.ParseLoanType(raw)
	if err != nil {
		a.writeError(c, errors.NewInvalidLoanTypeError(raw, err))
		return
	}

	offers, err := a.services.Catalog.Offers(c.Request.Context(), loanType)
	if err != nil {
		a.writeError(c, errors.NewCatalogUnavailableError("bank_offers", err))
		return
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].InterestRate < offers[j].InterestRate
	})

	c.JSON(http.StatusOK, gin.H{"loanType": loanType, "offers": offers})
}

func (a *API) getAssessment(c *gin.Context) {
	if a.services.Assessments == nil {
		a.unavailable(c, "assessment store")
		return
	}

	id := c.Param("id")
	assessment, err := a.services.Assessments.Get(c.Request.Context(), id)
	switch {
	case stderrors.Is(err, store.ErrAssessmentNotFound):
		a.writeError(c, errors.NewResourceNotFoundError("loan_assessments", id))
		return
	case err != nil:
		a.writeError(c, errors.NewDatabaseConnectionFailedError(err))
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// startAssessment starts the loan advisory process with the request body as
// its variables.
func (a *API) startAssessment(c *gin.Context) {
	if a.services.Processes == nil || a.services.ProcessID == "" {
		a.unavailable(c, "process engine")
		return
	}

	var variables map[string]interface{}
	if !a.bind(c, &variables) {
		return
	}

	key, err := a.services.Processes.StartProcess(c.Request.Context(), a.services.ProcessID, variables)
	if err != nil {
		a.writeError(c, errors.NewExternalServiceError("zeebe", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"processId":          a.services.ProcessID,
		"processInstanceKey": key,
	})
}
