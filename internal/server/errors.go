package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paybridgelabs/paybridge/internal/processor"
	"github.com/paybridgelabs/paybridge/internal/registry"
	"github.com/paybridgelabs/paybridge/internal/session"
)

// AbortWithError maps a domain error onto the facade's response envelope.
// Local validation failures never reached the processor and return 400;
// upstream absence returns 404; everything else is a processor-side 500.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "invalid request",
			"error":   err.Error(),
		})
	case errors.Is(err, processor.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"message": "resource not found",
			"error":   err.Error(),
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "internal server error",
			"error":   err.Error(),
		})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, session.ErrInvalidAmount) ||
		errors.Is(err, session.ErrInvalidCustomer) ||
		errors.Is(err, registry.ErrMissingCustomerID) ||
		errors.Is(err, registry.ErrMissingPaymentMethodID) ||
		errors.Is(err, processor.ErrInvalidParams)
}

func invalidRequestError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"message": "invalid request body",
	})
}
