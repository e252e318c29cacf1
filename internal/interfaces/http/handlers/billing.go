package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/middleware"
)

type BillingHandler struct {
	payments  services.PaymentService
	dashboard services.DashboardService
	baseURL   string
}

func NewBillingHandler(payments services.PaymentService, dashboard services.DashboardService, baseURL string) *BillingHandler {
	return &BillingHandler{payments: payments, dashboard: dashboard, baseURL: baseURL}
}

type planCheckoutRequest struct {
	Plan models.UserPlan `json:"plan" binding:"required"`
}

func (h *BillingHandler) PlanCheckout(c *gin.Context) {
	var req planCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, sessionID, err := h.payments.CreatePlanCheckout(c.Request.Context(), middleware.UserID(c),
		req.Plan, h.baseURL+"/success", h.baseURL+"/cancel")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url, "session_id": sessionID})
}

type tokenCheckoutRequest struct {
	Tokens int64 `json:"tokens" binding:"required,gt=0"`
}

func (h *BillingHandler) TokenCheckout(c *gin.Context) {
	var req tokenCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, sessionID, err := h.payments.CreateTokenCheckout(c.Request.Context(), middleware.UserID(c),
		req.Tokens, h.baseURL+"/success", h.baseURL+"/cancel")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url, "session_id": sessionID})
}

// Success confirms a completed checkout session and applies its outcome
// through the ledger.
func (h *BillingHandler) Success(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if err := h.payments.CompleteCheckout(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to process payment completion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Payment completed successfully",
		"session_id": sessionID,
	})
}

func (h *BillingHandler) Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "cancelled",
		"message": "Payment was cancelled",
	})
}
