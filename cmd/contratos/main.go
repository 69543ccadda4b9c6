// Contratos dashboard server: serves the extracted contracts table and a
// chatbot that answers questions about it.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/api"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/config"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/connection"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/database"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/llm"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/services"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/version"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting contratos dashboard",
		"version", version.Full(),
		"http_port", cfg.HTTPPort,
		"chat_enabled", cfg.ChatEnabled())

	ctx := context.Background()

	// 1. Resolve database connection: orchestrator definition first,
	// environment fallback. Fatal if neither source is usable.
	var store connection.MetadataStore
	if cfg.OrchestratorBaseURL != "" {
		store = connection.NewAirflowClient(
			cfg.OrchestratorBaseURL, cfg.OrchestratorUser, cfg.OrchestratorPassword)
	}
	connCfg, err := connection.NewResolver(store, cfg.ConnectionName).Resolve(ctx)
	if err != nil {
		slog.Error("Failed to resolve database connection", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connection resolved",
		"source", connCfg.Source, "addr", connCfg.Addr(), "database", connCfg.Database)

	// 2. Open the connection pool.
	dbClient, err := database.NewClient(ctx, database.PoolConfigFromEnv(connCfg))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()

	// 3. Domain services.
	contractService := services.NewContractService(dbClient.DB(), cfg.DBTimeout)
	contextBuilder := services.NewContextBuilder(contractService)

	var chatService *services.ChatService
	if cfg.ChatEnabled() {
		llmClient := llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		})
		chatService = services.NewChatService(llmClient, cfg.LLMTimeout)
		slog.Info("LLM client initialized", "model", cfg.LLMModel)
	} else {
		slog.Warn("LLM_API_KEY not set, chatbot endpoint disabled")
	}

	// 4. HTTP server. chatService is passed as a nil interface when chat is
	// disabled so the handler can report it cleanly.
	var answerer api.Answerer
	if chatService != nil {
		answerer = chatService
	}
	httpServer := api.NewServer(contractService, contextBuilder, answerer, dbClient)
	httpServer.SetDashboardDir(cfg.DashboardDir)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.HTTPPort
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 5. Wait for shutdown signal or server error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("HTTP server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
