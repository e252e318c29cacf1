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

type ConversationHandler struct {
	chat      services.ChatService
	dashboard services.DashboardService
}

func NewConversationHandler(chat services.ChatService, dashboard services.DashboardService) *ConversationHandler {
	return &ConversationHandler{chat: chat, dashboard: dashboard}
}

type startConversationRequest struct {
	UserEmail *string `json:"user_email"`
}

// Start is a public widget endpoint; visitors are identified by email only.
func (h *ConversationHandler) Start(c *gin.Context) {
	assistantID, err := uuid.Parse(c.Param("assistantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assistant id"})
		return
	}

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.chat.StartConversation(c.Request.Context(), assistantID, req.UserEmail)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assistant not found"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"conversation_id": detail.Conversation.ID,
		"messages":        detail.Messages,
	})
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage runs one chat turn. An exhausted balance is a handled outcome:
// the apology message is returned with the failure flag, never the answer.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message content is required"})
		return
	}

	result, err := h.chat.SendMessage(c.Request.Context(), conversationID, req.Message)
	if errors.Is(err, services.ErrAIProvider) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate AI response. Please try again."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	if result.InsufficientTokens {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Insufficient tokens",
			"message": result.Message,
		})
		return
	}

	// The turn moved the owner's balance and counters.
	h.dashboard.InvalidateStats(c.Request.Context(), result.OwnerID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     result.Message,
		"tokens_used": result.TokensUsed,
	})
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	detail, err := h.chat.GetConversation(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type conversationStatusRequest struct {
	Status models.ConversationStatus `json:"status" binding:"required"`
}

func (h *ConversationHandler) UpdateStatus(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	var req conversationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.chat.UpdateStatus(c.Request.Context(), middleware.UserID(c), conversationID, req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ConversationHandler) Responses(c *gin.Context) {
	responses, err := h.dashboard.Responses(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch responses"})
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ConversationHandler) ResponseStats(c *gin.Context) {
	stats, err := h.dashboard.ResponseStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch response stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
