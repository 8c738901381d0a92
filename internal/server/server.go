package server

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/supplyline/internal/manufacturer"
)

// Store holds the latest engine snapshot for the HTTP surface. The
// engine publishes immutable copies; readers never see live state.
type Store struct {
	latest atomic.Pointer[manufacturer.Snapshot]
}

// Publish replaces the stored snapshot.
func (st *Store) Publish(s manufacturer.Snapshot) {
	st.latest.Store(&s)
}

// Latest returns the most recent snapshot, if any has been published.
func (st *Store) Latest() (manufacturer.Snapshot, bool) {
	p := st.latest.Load()
	if p == nil {
		return manufacturer.Snapshot{}, false
	}
	return *p, true
}

type Server struct {
	router *gin.Engine
	store  *Store
}

// NewServer creates a new server instance
func NewServer(store *Store) *Server {
	router := gin.Default()

	server := &Server{
		router: router,
		store:  store,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/status", s.status)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "supplyline",
		"version": "0.1.0",
	})
}

// status returns the latest published simulation snapshot
func (s *Server) status(c *gin.Context) {
	snap, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "no snapshot published yet",
		})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
