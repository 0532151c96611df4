// Package server assembles the application: config, datastores, services,
// handlers and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/router"
	"github.com/platewise/backend/internal/service"
)

// Server is the assembled HTTP application.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New builds all services and handlers from the config and returns a
// ready-to-start server.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	emailService := service.NewEmailService(cfg)

	llmService, err := service.NewLLMService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel, redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	usdaService := service.NewUSDAService(cfg.USDAAPIKey, cfg.USDAAPIURL)
	ingredientService := service.NewIngredientService(db, usdaService)
	planService := service.NewMealPlanService(db, llmService)
	prepService := service.NewPrepSessionService(db, llmService)
	groceryService := service.NewGroceryService(db)
	diaryService := service.NewDiaryService(db)
	chatService := service.NewChatService(llmService, redisClient)
	subscriptionService := service.NewSubscriptionService(db, redisClient, cfg.PurchaseWebhookSecret, cfg.FreePlanGenerations)

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		// Share cards are optional in local development.
		log.Printf("[Server] S3 unavailable, share cards disabled: %v", err)
	}
	shareService := service.NewShareService(s3Config)

	handlers := router.Handlers{
		Health:       api.NewHealthHandler(db),
		Auth:         api.NewAuthHandler(authService, emailService, db),
		Ingredients:  api.NewIngredientHandler(ingredientService),
		Plans:        api.NewMealPlanHandler(planService, shareService),
		PrepSessions: api.NewPrepSessionHandler(prepService),
		Grocery:      api.NewGroceryHandler(groceryService),
		Diary:        api.NewDiaryHandler(diaryService),
		Chat:         api.NewChatHandler(chatService),
		Subscription: api.NewSubscriptionHandler(subscriptionService),
	}

	engine := router.Setup(handlers, authService, subscriptionService, middleware.RequireOnboarding(db), redisClient)

	return &Server{
		engine: engine,
		db:     db,
		redis:  redisClient,
		http: &http.Server{
			Addr:         ":" + cfg.ServerPort,
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 150 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the listener and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	go func() {
		log.Printf("[Server] listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Server] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Stop(ctx)
}

// Stop gracefully stops the HTTP server and closes datastore connections.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("[Server] redis close: %v", err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}
