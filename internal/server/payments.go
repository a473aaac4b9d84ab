package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type buyRequest struct {
	Amount   json.Number `json:"amount"`
	IDStripe string      `json:"idStripe"`
}

// Buy bootstraps a purchase session: ephemeral key plus payment intent.
// POST /buy
func (s *Server) Buy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	amount, err := req.Amount.Int64()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "amount must be a positive integer in minor units",
		})
		return
	}

	bundle, err := s.sessions.BeginPurchase(c.Request.Context(), req.IDStripe, amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

type paymentSheetRequest struct {
	IDCustomer string `json:"idCustomer"`
}

// PaymentSheet bootstraps a card-save session: existence check, ephemeral
// key, setup intent.
// POST /payment-sheet
func (s *Server) PaymentSheet(c *gin.Context) {
	var req paymentSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	bundle, err := s.sessions.BeginCardSetup(c.Request.Context(), req.IDCustomer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}
