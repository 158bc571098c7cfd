package handler

import (
	"errors"
	"net/http"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CoinHandler struct {
	coins    service.CoinService
	payments service.PaymentService
}

func NewCoinHandler(coins service.CoinService, payments service.PaymentService) *CoinHandler {
	return &CoinHandler{coins: coins, payments: payments}
}

// RegisterRoutes wires the coin economy endpoints. All of them act on
// the authenticated caller's own balance.
func (h *CoinHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/balance", authMW, h.Balance)
	rg.GET("/history", authMW, h.History)
	rg.POST("/checkout", authMW, h.Checkout)
	rg.POST("/tip", authMW, h.Tip)
}

func (h *CoinHandler) Balance(c *gin.Context) {
	userID := c.GetString("user_id")

	coins, err := h.coins.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{UserID: userID, Coins: coins})
}

func (h *CoinHandler) History(c *gin.Context) {
	offset, limit := parsePagination(c)

	transactions, total, err := h.coins.History(c.Request.Context(), c.GetString("user_id"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": transactions,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

func (h *CoinHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.payments.CreateCheckoutSession(c.Request.Context(), c.GetString("user_id"), req.CoinAmount)
	if err != nil {
		if errors.Is(err, service.ErrMinimumPurchase) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CoinHandler) Tip(c *gin.Context) {
	var req dto.TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coins.Tip(c.Request.Context(), c.GetString("user_id"), req.MangaID, req.Amount)
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins"})
	case errors.Is(err, service.ErrSelfTip), errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "tip sent"})
	}
}
