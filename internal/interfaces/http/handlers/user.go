package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/repositories"
	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/middleware"
)

type UserHandler struct {
	userRepo  repositories.UserRepository
	ledger    services.LedgerService
	dashboard services.DashboardService
}

func NewUserHandler(userRepo repositories.UserRepository, ledger services.LedgerService, dashboard services.DashboardService) *UserHandler {
	return &UserHandler{userRepo: userRepo, ledger: ledger, dashboard: dashboard}
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userRepo.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Tokens(c *gin.Context) {
	user, err := h.userRepo.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": user.Tokens, "plan": user.Plan})
}

func (h *UserHandler) TokenHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	history, err := h.ledger.History(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch token history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

type upgradePlanRequest struct {
	Plan models.UserPlan `json:"plan" binding:"required"`
}

// UpgradePlan resets the balance to the new plan's allotment. Unspent
// tokens are not carried over.
func (h *UserHandler) UpgradePlan(c *gin.Context) {
	var req upgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Plan.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
		return
	}

	userID := middleware.UserID(c)
	if err := h.ledger.SetPlan(c.Request.Context(), userID, req.Plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade plan"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": req.Plan, "tokens": req.Plan.TokenAllotment()})
}

type purchaseTokensRequest struct {
	Tokens int64  `json:"tokens" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

func (h *UserHandler) PurchaseTokens(c *gin.Context) {
	var req purchaseTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "Token purchase"
	}

	userID := middleware.UserID(c)
	if err := h.ledger.Credit(c.Request.Context(), userID, req.Tokens, reason); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add tokens"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) Usage(c *gin.Context) {
	usage, err := h.dashboard.Usage(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}
