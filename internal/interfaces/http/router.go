package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/handlers"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/middleware"
)

type RouterDeps struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Assistant    *handlers.AssistantHandler
	Conversation *handlers.ConversationHandler
	Dashboard    *handlers.DashboardHandler
	Billing      *handlers.BillingHandler
	JWT          services.JWTService
}

func NewRouter(deps RouterDeps, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "sales-assistant-app",
			"time":    time.Now(),
		})
	})

	// Auth
	router.POST("/api/auth/register", deps.Auth.Register)
	router.POST("/api/auth/login", deps.Auth.Login)

	// Public widget surface: assistant card, conversation start, chat turns.
	widget := router.Group("/widget")
	{
		widget.GET("/assistants/:id", deps.Assistant.GetPublic)
		widget.POST("/chat/:assistantId", deps.Conversation.Start)
		widget.POST("/conversations/:id/message", deps.Conversation.SendMessage)
		widget.GET("/conversations/:id", deps.Conversation.Get)
	}

	// Billing redirect targets hit by Stripe, no auth.
	router.GET("/success", deps.Billing.Success)
	router.GET("/cancel", deps.Billing.Cancel)

	api := router.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(deps.JWT))
	{
		api.GET("/user", deps.User.Profile)
		api.GET("/user/tokens", deps.User.Tokens)
		api.POST("/user/tokens", deps.User.PurchaseTokens)
		api.GET("/user/token-history", deps.User.TokenHistory)
		api.PUT("/user/plan", deps.User.UpgradePlan)
		api.GET("/user/usage", deps.User.Usage)

		api.GET("/user/dashboard/stats", deps.Dashboard.Stats)
		api.GET("/user/dashboard/activity", deps.Dashboard.Activity)

		api.POST("/assistants", deps.Assistant.Create)
		api.GET("/assistants", deps.Assistant.List)
		api.GET("/assistants/:id", deps.Assistant.Get)
		api.PUT("/assistants/:id/status", deps.Assistant.UpdateStatus)
		api.DELETE("/assistants/:id", deps.Assistant.Delete)
		api.POST("/assistants/:id/duplicate", deps.Assistant.Duplicate)

		api.GET("/conversations/:id", deps.Conversation.Get)
		api.PUT("/conversations/:id/status", deps.Conversation.UpdateStatus)
		api.GET("/conversations/responses", deps.Conversation.Responses)
		api.GET("/conversations/responses/stats", deps.Conversation.ResponseStats)

		api.POST("/billing/checkout/plan", deps.Billing.PlanCheckout)
		api.POST("/billing/checkout/tokens", deps.Billing.TokenCheckout)
	}

	return router
}
