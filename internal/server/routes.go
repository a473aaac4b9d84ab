package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	// Session bootstrap
	router.POST("/buy", s.Buy)
	router.POST("/payment-sheet", s.PaymentSheet)

	// Processor notifications (raw body, see StripeWebhook)
	router.POST("/stripe", s.StripeWebhook)

	// Customer lifecycle
	router.POST("/create-customer", s.CreateCustomer)
	router.POST("/retrieve-customer", s.RetrieveCustomer)
	router.POST("/update-customer", s.UpdateCustomer)
	router.POST("/delete-customer", s.DeleteCustomer)
	router.POST("/list-paymentMethods-user", s.ListPaymentMethodsUser)

	// Payment-method lifecycle
	router.POST("/create-paymentMethod", s.CreatePaymentMethod)
	router.POST("/add-paymentMethod-user", s.AddPaymentMethodUser)
	router.POST("/delete-paymentMethod", s.DeletePaymentMethod)

	// Operational
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", s.metrics.Handler())
}
