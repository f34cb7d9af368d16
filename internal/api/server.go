// Package api exposes the keyword library over HTTP. Keyword execution is
// funneled through a single queue because every keyword touches the same
// browser page.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/keyword"
	"github.com/formrobot/formrobot/internal/runner"
)

// Server represents the API server
type Server struct {
	engine    *gin.Engine
	server    *http.Server
	queue     *RequestQueue
	processor *KeywordProcessor
	handlers  *APIHandlers
}

// ServerConfig contains configuration for the API server
type ServerConfig struct {
	Port    string
	Debug   bool
	Version string
	Runner  *runner.Manager
	Library *keyword.Library
	Page    Screenshotter
}

// NewServer creates a new API server instance
func NewServer(config *ServerConfig) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	processor := NewKeywordProcessor(config.Runner, config.Debug)
	queue := NewRequestQueue(processor)
	handlers := NewAPIHandlers(queue, config.Library, config.Page, config.Debug)

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	s := &Server{
		engine:    engine,
		queue:     queue,
		processor: processor,
		handlers:  handlers,
	}

	s.setupRoutes(config.Version)

	s.server = &http.Server{
		Addr:    ":" + config.Port,
		Handler: engine,
	}

	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes(version string) {
	v1 := s.engine.Group("/v1")
	{
		v1.GET("/keywords", s.handlers.ListKeywords)
		v1.POST("/keywords/run", s.handlers.RunKeyword)
		v1.GET("/screenshot", s.handlers.TakeScreenshot)
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Form Robot Keyword Server",
			"version": version,
			"endpoints": []string{
				"GET /v1/keywords",
				"POST /v1/keywords/run",
				"GET /v1/screenshot",
			},
		})
	})
}

// Start starts the API server
func (s *Server) Start() error {
	if err := s.queue.Start(); err != nil {
		return fmt.Errorf("failed to start request queue: %v", err)
	}

	log.Debugf("Starting API server on %s", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %v", err)
	}

	return nil
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	log.Debug("Stopping API server...")

	if err := s.queue.Stop(); err != nil {
		log.Debugf("Error stopping request queue: %v", err)
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}

	log.Debug("API server stopped")
	return nil
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
