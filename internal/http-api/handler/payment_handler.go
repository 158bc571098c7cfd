package handler

import (
	"errors"
	"io"
	"net/http"

	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes wires the provider-facing webhook endpoint. It takes
// no auth middleware; the signature header is the authentication.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.Webhook)
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	err = h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	case errors.Is(err, service.ErrNotFound):
		// The referenced user no longer exists; a retry will not help.
		c.JSON(http.StatusOK, gin.H{"received": true})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
