package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paybridgelabs/paybridge/internal/webhook"
	"go.uber.org/zap"
)

// StripeWebhook verifies and dispatches a processor notification.
//
// Verification failures return 400 so the processor does not treat a rejected
// signature as a transient server problem; dispatch failures return 500 so it
// redelivers. Duplicates and unknown types ack with 200.
// POST /stripe
func (s *Server) StripeWebhook(c *gin.Context) {
	// The signature covers the exact bytes on the wire; read them untouched.
	rawBody, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "unreadable body"})
		return
	}

	event, err := s.verifier.Verify(c.Request.Context(), rawBody, c.GetHeader("Stripe-Signature"))
	if err != nil {
		s.log.Warn("webhook verification failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	outcome, err := s.dispatcher.Dispatch(c.Request.Context(), event)
	if err != nil {
		s.log.Error("webhook dispatch failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "event processing failed"})
		return
	}

	if outcome != webhook.OutcomeProcessed {
		s.log.Debug("webhook acknowledged without processing",
			zap.String("event_id", event.ID),
			zap.String("outcome", string(outcome)))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
