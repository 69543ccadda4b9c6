// Package api exposes the dashboard's HTTP surface: contract listing,
// aggregate statistics, the chatbot endpoint, and a health check.
package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/database"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// ContractReader is the data surface the handlers consume.
type ContractReader interface {
	ListContracts(ctx context.Context) ([]models.ContractRecord, error)
	GetContract(ctx context.Context, code string) (models.ContractRecord, error)
	AggregateStats(ctx context.Context) (models.ContractStats, error)
}

// ContextBuilder assembles the LLM context for a chat request.
type ContextBuilder interface {
	Build(ctx context.Context, selectedCode string) (models.ChatContext, error)
}

// Answerer produces the chat answer for a question plus context.
type Answerer interface {
	Answer(ctx context.Context, question string, chatCtx models.ChatContext) (string, error)
}

// Server wires the handlers, middleware and routes.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	contracts    ContractReader
	builder      ContextBuilder
	chat         Answerer // nil when chat is not configured
	dbClient     *database.Client
	dashboardDir string
}

// NewServer builds the gin engine with the middleware stack and all routes.
// chat may be nil (no LLM credentials); the chatbot endpoint then reports
// the assistant as unavailable while the data endpoints keep working.
func NewServer(contracts ContractReader, builder ContextBuilder, chat Answerer, dbClient *database.Client) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(Recovery())
	engine.Use(RequestLogger())
	engine.Use(CORS())

	s := &Server{
		engine:    engine,
		contracts: contracts,
		builder:   builder,
		chat:      chat,
		dbClient:  dbClient,
	}
	s.registerRoutes()
	return s
}

// SetDashboardDir enables serving the static dashboard from dir. Must be
// called before Start. Empty dir is a no-op (API-only mode).
func (s *Server) SetDashboardDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(filepath.Join(dir, "contratos_dashboard.html")); err != nil {
		return
	}
	s.dashboardDir = dir
	s.engine.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(s.dashboardDir, "contratos_dashboard.html"))
	})
	s.engine.Static("/static", s.dashboardDir)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.healthHandler)

	api := s.engine.Group("/api")
	{
		api.GET("/contratos", s.listContractsHandler)
		api.GET("/contratos/:codigo", s.getContractHandler)
		api.GET("/stats", s.statsHandler)
		api.POST("/chatbot", s.chatbotHandler)
	}
}

// Start runs the HTTP server on addr; blocks until shutdown or failure.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
