// internal/api/errors.go
package api

import (
	"net/http"

	"loan-advisor-workers/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

var statusByCode = map[errors.ErrorCode]int{
	errors.ErrCodeValidationFailed:         http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidLoanType:          http.StatusBadRequest,
	errors.ErrCodeInvalidEMIInput:          http.StatusBadRequest,
	errors.ErrCodeInputSchemaViolation:     http.StatusBadRequest,
	errors.ErrCodeParseError:               http.StatusBadRequest,
	errors.ErrCodeNoMatchingOffers:         http.StatusNotFound,
	errors.ErrCodeResourceNotFound:         http.StatusNotFound,
	errors.ErrCodeCatalogUnavailable:       http.StatusServiceUnavailable,
	errors.ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	errors.ErrCodeDatabaseInsertFailed:     http.StatusServiceUnavailable,
	errors.ErrCodeCacheUnavailable:         http.StatusServiceUnavailable,
	errors.ErrCodeExternalService:          http.StatusBadGateway,
	errors.ErrCodeTimeout:                  http.StatusGatewayTimeout,
}

// StatusFor maps an error code to the HTTP status the API answers with.
func StatusFor(code errors.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (a *API) bind(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		a.writeError(c, errors.NewParseError(err))
		return false
	}
	return true
}

func (a *API) respond(c *gin.Context, output interface{}, err error) {
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (a *API) unavailable(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
		Code:    "SERVICE_UNAVAILABLE",
		Message: what + " is not configured",
	})
}

func (a *API) writeError(c *gin.Context, err error) {
	stdErr, ok := errors.AsStandardError(err)
	if !ok {
		a.logger.Error("unexpected error", map[string]interface{}{"error": err})
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "Unexpected error",
		})
		return
	}

	resp := ErrorResponse{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	}
	if verrs, ok := stdErr.Metadata["validationErrors"]; ok {
		resp.Errors = verrs
	}
	c.AbortWithStatusJSON(StatusFor(stdErr.Code), resp)
}
