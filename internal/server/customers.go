package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCustomer relays processor-defined customer fields upstream.
// POST /create-customer
func (s *Server) CreateCustomer(c *gin.Context) {
	var params map[string]string
	if err := c.ShouldBindJSON(&params); err != nil {
		invalidRequestError(c)
		return
	}

	customer, err := s.registry.CreateCustomer(c.Request.Context(), params)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "customer created",
		"info":    customer,
	})
}

type customerIDRequest struct {
	IDCustomer string `json:"idCustomer"`
}

// RetrieveCustomer
// POST /retrieve-customer
func (s *Server) RetrieveCustomer(c *gin.Context) {
	var req customerIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	customer, err := s.registry.GetCustomer(c.Request.Context(), req.IDCustomer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "customer retrieved",
		"info":    customer,
	})
}

type updateCustomerRequest struct {
	IDCustomer string            `json:"idCustomer"`
	Data       map[string]string `json:"data"`
}

// UpdateCustomer
// POST /update-customer
func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	customer, err := s.registry.UpdateCustomer(c.Request.Context(), req.IDCustomer, req.Data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "customer updated",
		"info":    customer,
	})
}

// DeleteCustomer removes the customer upstream. Irreversible.
// POST /delete-customer
func (s *Server) DeleteCustomer(c *gin.Context) {
	var req customerIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	customer, err := s.registry.DeleteCustomer(c.Request.Context(), req.IDCustomer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "customer deleted",
		"info":    customer,
	})
}

// ListPaymentMethodsUser lists the customer's card payment methods.
// POST /list-paymentMethods-user
func (s *Server) ListPaymentMethodsUser(c *gin.Context) {
	var req customerIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	list, err := s.registry.ListCardPaymentMethods(c.Request.Context(), req.IDCustomer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment methods retrieved",
		"info":    list,
	})
}
