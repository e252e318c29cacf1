package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/middleware"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Activity(c *gin.Context) {
	activity, err := h.dashboard.RecentActivity(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}
