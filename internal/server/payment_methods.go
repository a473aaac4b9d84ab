package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePaymentMethod relays processor-defined payment-method fields upstream.
// POST /create-paymentMethod
func (s *Server) CreatePaymentMethod(c *gin.Context) {
	var params map[string]string
	if err := c.ShouldBindJSON(&params); err != nil {
		invalidRequestError(c)
		return
	}

	pm, err := s.registry.CreatePaymentMethod(c.Request.Context(), params)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment method created",
		"info":    pm,
	})
}

type attachPaymentMethodRequest struct {
	IDPaymentMethod string `json:"idPaymentMethod"`
	IDCustomer      string `json:"idCustomer"`
}

// AddPaymentMethodUser attaches a payment method to a customer.
// POST /add-paymentMethod-user
func (s *Server) AddPaymentMethodUser(c *gin.Context) {
	var req attachPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	pm, err := s.registry.AttachPaymentMethod(c.Request.Context(), req.IDPaymentMethod, req.IDCustomer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment method attached",
		"info":    pm,
	})
}

type detachPaymentMethodRequest struct {
	IDPaymentMethod string `json:"idPaymentMethod"`
}

// DeletePaymentMethod detaches a payment method from its customer.
// POST /delete-paymentMethod
func (s *Server) DeletePaymentMethod(c *gin.Context) {
	var req detachPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	pm, err := s.registry.DetachPaymentMethod(c.Request.Context(), req.IDPaymentMethod)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment method detached",
		"info":    pm,
	})
}
