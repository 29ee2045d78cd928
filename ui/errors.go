package ui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cellxplore/domain/core"
)

// respondError maps domain errors onto HTTP statuses. Contract breaches are
// the caller's fault; an unavailable dataset is a retryable condition.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsDataUnavailable(err):
		status = http.StatusServiceUnavailable
	case core.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrNameCollision):
		status = http.StatusConflict
	case core.IsContractViolation(err):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
