package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/middleware"
)

type AssistantHandler struct {
	assistants services.AssistantService
	dashboard  services.DashboardService
}

func NewAssistantHandler(assistants services.AssistantService, dashboard services.DashboardService) *AssistantHandler {
	return &AssistantHandler{assistants: assistants, dashboard: dashboard}
}

func (h *AssistantHandler) Create(c *gin.Context) {
	var req services.CreateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	assistant, err := h.assistants.Create(c.Request.Context(), userID, &req)
	if errors.Is(err, services.ErrInsufficientTokens) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create assistant"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, gin.H{"assistant": assistant})
}

func (h *AssistantHandler) List(c *gin.Context) {
	assistants, err := h.assistants.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assistants"})
		return
	}
	c.JSON(http.StatusOK, assistants)
}

func (h *AssistantHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	assistant, err := h.assistants.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant not found"})
		return
	}
	c.JSON(http.StatusOK, assistant)
}

type updateStatusRequest struct {
	Status models.AssistantStatus `json:"status" binding:"required"`
}

func (h *AssistantHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if err := h.assistants.UpdateStatus(c.Request.Context(), userID, id, req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant not found"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssistantHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	userID := middleware.UserID(c)
	if err := h.assistants.Delete(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant not found"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssistantHandler) Duplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	userID := middleware.UserID(c)
	copy, err := h.assistants.Duplicate(c.Request.Context(), userID, id)
	if errors.Is(err, services.ErrInsufficientTokens) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to duplicate assistant"})
		return
	}

	h.dashboard.InvalidateStats(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, gin.H{"assistant": copy})
}

// GetPublic serves the embeddable widget; only presentation fields leave
// the service.
func (h *AssistantHandler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	assistant, err := h.assistants.GetPublic(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              assistant.ID,
		"name":            assistant.Name,
		"type":            assistant.Type,
		"welcome_message": assistant.WelcomeMessage,
		"status":          assistant.Status,
	})
}
