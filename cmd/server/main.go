package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"

	"github.com/meet-tola/sales-assistant-app/internal/config"
	"github.com/meet-tola/sales-assistant-app/internal/domain/models"
	"github.com/meet-tola/sales-assistant-app/internal/domain/services"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/ai"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/cache"
	"github.com/meet-tola/sales-assistant-app/internal/infrastructure/database"
	httpiface "github.com/meet-tola/sales-assistant-app/internal/interfaces/http"
	"github.com/meet-tola/sales-assistant-app/internal/interfaces/http/handlers"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	stripe.Key = cfg.Billing.StripeSecret

	userRepo := database.NewUserRepository(db)
	assistantRepo := database.NewAssistantRepository(db)
	conversationRepo := database.NewConversationRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)

	jwtService := services.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.Expiration)*time.Second)
	authService := services.NewAuthService(userRepo, jwtService)
	ledgerService := services.NewLedgerService(ledgerRepo, logger)
	assistantService := services.NewAssistantService(assistantRepo, ledgerService, logger)

	provider := ai.NewGeminiClient(cfg.AI.GeminiKey, cfg.AI.GeminiModel)
	chatService := services.NewChatService(conversationRepo, assistantRepo, ledgerService, provider, logger)

	dashboardService := services.NewDashboardService(userRepo, assistantRepo, conversationRepo, ledgerRepo, redisClient, logger)

	prices := map[models.UserPlan]string{
		models.PlanPro:        cfg.Billing.ProPriceID,
		models.PlanEnterprise: cfg.Billing.EnterprisePriceID,
	}
	paymentService := services.NewStripeService(userRepo, ledgerService, prices, logger)

	router := httpiface.NewRouter(httpiface.RouterDeps{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userRepo, ledgerService, dashboardService),
		Assistant:    handlers.NewAssistantHandler(assistantService, dashboardService),
		Conversation: handlers.NewConversationHandler(chatService, dashboardService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Billing:      handlers.NewBillingHandler(paymentService, dashboardService, cfg.Billing.CheckoutBaseURL),
		JWT:          jwtService,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
