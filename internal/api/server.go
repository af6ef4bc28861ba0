package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"severkey-server/internal/apikeys"
	"severkey-server/internal/entity"
	"severkey-server/internal/events"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimiter provides simple in-memory rate limiting per endpoint
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // max requests
	window   time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	// Filter out old requests
	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	registry    *entity.Registry
	apiKeys     *apikeys.Service
	eventBus    *events.EventBus
	hub         *WSHub
	config      ServerConfig
	rateLimiter *RateLimiter
	logger      zerolog.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ProductionMode bool
	AllowedOrigins string // comma separated, "*" for any
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewServer creates a new API server
func NewServer(
	config ServerConfig,
	registry *entity.Registry,
	apiKeys *apikeys.Service,
	eventBus *events.EventBus,
	logger zerolog.Logger,
) *Server {
	// Set Gin mode
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	if config.AllowedOrigins == "" || config.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:      router,
		registry:    registry,
		apiKeys:     apiKeys,
		eventBus:    eventBus,
		hub:         NewWSHub(logger),
		config:      config,
		rateLimiter: NewRateLimiter(240, time.Minute), // 240 mutations per minute per endpoint
		logger:      logger.With().Str("component", "api").Logger(),
	}

	server.router.Use(server.requestLogger())
	server.setupRoutes()

	// Every entity change is fanned out to connected admin UIs.
	eventBus.SubscribeAll(func(ev events.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			server.logger.Error().Err(err).Msg("failed to encode event for broadcast")
			return
		}
		server.hub.Broadcast(payload)
	})
	go server.hub.Run()

	return server
}

// requestLogger logs each request through zerolog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// rateLimitMiddleware limits mutating requests per endpoint
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if !s.rateLimiter.Allow(path) {
			c.JSON(http.StatusTooManyRequests, envelope{
				Success: false,
				Error:   "rate limit exceeded, slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// WebSocket change feed
	s.router.GET("/ws", s.handleWebSocket)

	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())

	api.GET("/test", func(c *gin.Context) {
		ok(c, gin.H{"name": "SeverKey Admin"})
	})

	// Users
	api.GET("/users", s.handleListUsers)
	api.POST("/users", s.handleCreateUser)
	api.DELETE("/users/:id", s.handleDeleteUser)
	api.POST("/users/deleteMany", s.handleDeleteManyUsers)

	// Chats and messages
	api.GET("/chats", s.handleListChats)
	api.POST("/chats", s.handleCreateChat)
	api.DELETE("/chats/:id", s.handleDeleteChat)
	api.POST("/chats/deleteMany", s.handleDeleteManyChats)
	api.GET("/chats/:id/messages", s.handleListMessages)
	api.POST("/chats/:id/messages", s.handleSendMessage)

	// Products
	api.GET("/products", s.handleListProducts)
	api.POST("/products", s.handleCreateProduct)
	api.DELETE("/products/:id", s.handleDeleteProduct)
	api.POST("/products/deleteMany", s.handleDeleteManyProducts)

	// Licenses
	api.GET("/licenses", s.handleListLicenses)
	api.POST("/licenses", s.handleCreateLicense)
	api.POST("/licenses/:id/revoke", s.handleRevokeLicense)
	api.DELETE("/licenses/:id", s.handleDeleteLicense)
	api.POST("/licenses/deleteMany", s.handleDeleteManyLicenses)

	// API keys
	api.GET("/api-keys", s.handleListAPIKeys)
	api.POST("/api-keys", s.handleCreateAPIKey)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "severkey-server",
	})
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info().Str("addr", addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// seedIfEnabled runs the collection's idempotent seed before a read. A seed
// failure is logged and the read proceeds against whatever is present.
func (s *Server) seedIfEnabled(collection string, ensure func() (int, error)) {
	if !s.registry.SeedEnabled() {
		return
	}
	n, err := ensure()
	if err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Msg("seed failed")
		return
	}
	if n > 0 {
		s.eventBus.PublishCollectionSeeded(collection, n)
	}
}

// listQuery extracts the cursor and limit query parameters. A missing or
// unparsable limit is passed through as 0 so the store applies its default.
func listQuery(c *gin.Context) (cursor string, limit int) {
	cursor = c.Query("cursor")
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return cursor, limit
}

// deleteManyRequest is the shared bulk-delete body.
type deleteManyRequest struct {
	IDs []string `json:"ids"`
}

// validIDs filters the request down to non-empty string ids.
func (r deleteManyRequest) validIDs() []string {
	out := make([]string, 0, len(r.IDs))
	for _, id := range r.IDs {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
