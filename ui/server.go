package ui

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cellxplore/app"
	"cellxplore/internal/config"
)

// Server represents the web server for the explorer API
type Server struct {
	router   *gin.Engine
	explorer *app.ExplorerService
	config   *config.Config
}

// NewServer creates the HTTP surface over the explorer service. The dashboard
// frontend is served from a different origin, so CORS is part of the surface.
func NewServer(cfg *config.Config, explorer *app.ExplorerService) *Server {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router:   router,
		explorer: explorer,
		config:   cfg,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.GET("/data-table", s.handleDataTable)
	r.POST("/filter-table", s.handleFilterTable)
	r.GET("/columns", s.handleColumns)
	r.GET("/columns/:name/values", s.handleColumnValues)
	r.POST("/refresh", s.handleRefresh)

	r.GET("/selections", s.handleListSelections)
	r.GET("/selections/union", s.handleSelectionUnion)
	r.PUT("/selections/:name", s.handleSaveSelection)
	r.DELETE("/selections/:name", s.handleDeleteSelection)
	r.POST("/selections/:name/rename", s.handleRenameSelection)

	r.GET("/aggregates/frequency", s.handleFrequency)
	r.GET("/aggregates/proportions", s.handleProportions)
	r.GET("/aggregates/chord", s.handleChord)
	r.GET("/aggregates/bubble", s.handleBubble)
	r.GET("/summary", s.handleSummary)

	r.GET("/events", s.handleEvents)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on the configured port.
func (s *Server) Run() error {
	return s.router.Run(":" + s.config.Server.Port)
}
