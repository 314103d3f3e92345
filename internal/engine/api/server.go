package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questforge/questforge-backend/internal/engine/api/middleware"
	"github.com/questforge/questforge-backend/internal/engine/completion"
	"github.com/questforge/questforge-backend/internal/engine/config"
	"github.com/questforge/questforge-backend/internal/engine/handlers"
	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/pkg/database"
	"github.com/questforge/questforge-backend/pkg/logging"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
	apiKeyAuth *middleware.ApiKeyAuth
	handler    *handlers.Handler
}

func NewServer(orchestrator *completion.Orchestrator, users repository.UserRepository, db *database.Connection, logger logging.Logger) *Server {
	if !config.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With, X-Api-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s := &Server{
		router:     router,
		logger:     logger,
		apiKeyAuth: middleware.NewApiKeyAuth(users, logger),
		handler:    handlers.NewHandler(orchestrator, db, logger),
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handler.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.Use(s.apiKeyAuth.GinMiddleware())

	api.POST("/quests/:quest_id/tasks/:task_id/complete", s.handler.CompleteTask)
	api.POST("/quests/:quest_id/complete", s.handler.CompleteQuest)
	api.POST("/completions/:completion_id/claim", s.handler.ClaimReward)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/completions/:completion_id/review", s.handler.ReviewCompletion)
}

func (s *Server) Start(port string) error {
	s.logger.Infof("Starting server on port %s", port)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
