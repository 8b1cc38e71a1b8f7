// Package server wires repositories, services, and handlers into the
// HTTP API and owns the server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/config"
	"github.com/justCallMeJeg/eboto/internal/handlers"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/media"
	"github.com/justCallMeJeg/eboto/internal/middleware/events"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/services"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
	hub        *realtime.Hub
	mediaStore *media.Store
}

// New creates a new server instance. The media store may be nil when no
// object store is configured.
func New(cfg *config.Config, db *gorm.DB, hub *realtime.Hub, mediaStore *media.Store) *Server {
	return &Server{
		config:     cfg,
		db:         db,
		hub:        hub,
		mediaStore: mediaStore,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(events.CreateEvent())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Repositories
	electionRepo := postgres.NewElectionRepository(s.db)
	organizerRepo := postgres.NewOrganizerRepository(s.db)
	voterRepo := postgres.NewVoterRepository(s.db)
	groupRepo := postgres.NewGroupRepository(s.db)
	positionRepo := postgres.NewPositionRepository(s.db)
	candidateRepo := postgres.NewCandidateRepository(s.db)
	ballotRepo := postgres.NewBallotRepository(s.db)

	// Auth plumbing
	tokens := auth.NewTokenIssuer(s.config.Auth.JWTSecret, s.config.Auth.MagicLinkTTL, s.config.Auth.SessionTTL)
	mailer := auth.NewMailer(s.config)

	// Services
	electionService := services.NewElectionService(electionRepo)
	voterService := services.NewVoterService(electionRepo, voterRepo, groupRepo)
	rosterService := services.NewRosterService(electionRepo, groupRepo, positionRepo, candidateRepo, s.mediaStore)
	ballotService := services.NewBallotService(electionRepo, voterRepo, positionRepo, candidateRepo, ballotRepo, s.hub)
	tallyService := services.NewTallyService(electionRepo, positionRepo, candidateRepo, ballotRepo)
	accountService := services.NewAccountService(organizerRepo, voterRepo, tokens, mailer, s.config.Auth.PublicBaseURL)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService)
	electionHandler := handlers.NewElectionHandler(electionService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	voterHandler := handlers.NewVoterHandler(voterService)
	ballotHandler := handlers.NewBallotHandler(accountService, ballotService)
	resultsHandler := handlers.NewResultsHandler(electionService, tallyService, s.hub, tokens)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "eBOTO API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, tokens, authHandler, electionHandler, rosterHandler, voterHandler, ballotHandler, resultsHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	tokens *auth.TokenIssuer,
	authHandler *handlers.AuthHandler,
	electionHandler *handlers.ElectionHandler,
	rosterHandler *handlers.RosterHandler,
	voterHandler *handlers.VoterHandler,
	ballotHandler *handlers.BallotHandler,
	resultsHandler *handlers.ResultsHandler,
) {
	api := router.Group("/api")

	// Organizer account routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/recovery", authHandler.RequestRecovery)
		authRoutes.POST("/recovery/reset", authHandler.ResetPassword)
		authRoutes.POST("/password", auth.RequireOrganizer(tokens), authHandler.UpdatePassword)
	}

	// Organizer dashboard routes
	elections := api.Group("/elections", auth.RequireOrganizer(tokens))
	{
		elections.POST("", electionHandler.Create)
		elections.GET("", electionHandler.List)
		elections.GET("/:electionID", electionHandler.Get)
		elections.POST("/:electionID/start", electionHandler.Start)
		elections.DELETE("/:electionID", electionHandler.Delete)

		elections.POST("/:electionID/groups", rosterHandler.CreateGroup)
		elections.GET("/:electionID/groups", rosterHandler.ListGroups)
		elections.PUT("/:electionID/groups/:groupID", rosterHandler.UpdateGroup)
		elections.DELETE("/:electionID/groups/:groupID", rosterHandler.DeleteGroup)

		elections.POST("/:electionID/positions", rosterHandler.CreatePosition)
		elections.GET("/:electionID/positions", rosterHandler.ListPositions)
		elections.PUT("/:electionID/positions/:positionID", rosterHandler.UpdatePosition)
		elections.DELETE("/:electionID/positions/:positionID", rosterHandler.DeletePosition)

		elections.POST("/:electionID/candidates", rosterHandler.CreateCandidate)
		elections.GET("/:electionID/candidates", rosterHandler.ListCandidates)
		elections.PUT("/:electionID/candidates/:candidateID", rosterHandler.UpdateCandidate)
		elections.DELETE("/:electionID/candidates/:candidateID", rosterHandler.DeleteCandidate)
		elections.POST("/:electionID/candidates/:candidateID/portrait", rosterHandler.UploadPortrait)

		elections.POST("/:electionID/voters", voterHandler.Register)
		elections.GET("/:electionID/voters", voterHandler.List)
		elections.PUT("/:electionID/voters/:voterID", voterHandler.Update)
		elections.DELETE("/:electionID/voters/:voterID", voterHandler.Delete)

		elections.GET("/:electionID/results", resultsHandler.Results)
		elections.GET("/:electionID/analytics", resultsHandler.Analytics)
	}

	// The stream authenticates inside the handler so EventSource clients
	// can pass the token as a query parameter.
	api.GET("/elections/:electionID/results/stream", resultsHandler.Stream)

	// Voter-facing routes
	ballot := api.Group("/ballot")
	{
		ballot.POST("/:electionID/login", ballotHandler.RequestLogin)
		ballot.POST("/:electionID/session", ballotHandler.ExchangeSession)
		ballot.GET("/:electionID", auth.RequireVoter(tokens), ballotHandler.Get)
		ballot.POST("/:electionID/submit", auth.RequireVoter(tokens), ballotHandler.Submit)
	}
}
