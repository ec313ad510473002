package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"techdocs/internal/auth"
	"techdocs/internal/config"
	"techdocs/internal/handler"
	"techdocs/internal/intent"
	"techdocs/internal/llm"
	"techdocs/internal/middleware"
	"techdocs/internal/repository/postgres"
	"techdocs/internal/service"
)

func main() {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("starting techdocs server",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	repoCfg := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	assetRepo := postgres.NewAssetRepository(repoCfg)
	storyRepo := postgres.NewUserStoryRepository(repoCfg)

	embedder := llm.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	chatClient := llm.NewChatClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)

	classifier, err := intent.NewClassifier()
	if err != nil {
		logger.Error("failed to load intent configuration", "error", err)
		os.Exit(1)
	}

	assetService := service.NewAssetService(assetRepo, embedder, logger)
	storyService := service.NewUserStoryService(storyRepo, logger)
	chatService := service.NewChatService(assetRepo, embedder, chatClient, classifier, logger)
	artifactService := service.NewArtifactService(chatClient, logger)

	assetHandler := handler.NewAssetHandler(assetService, logger)
	storyHandler := handler.NewUserStoryHandler(storyService, logger)
	chatHandler := handler.NewChatHandler(chatService, assetService, logger)
	artifactHandler := handler.NewArtifactHandler(artifactService, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("GET /api/assets", assetHandler.ListAssets)
	mux.HandleFunc("POST /api/assets", assetHandler.CreateAsset)
	mux.HandleFunc("POST /api/assets/markdown", assetHandler.CreateAssetFromMarkdown)
	mux.HandleFunc("GET /api/assets/search", assetHandler.SearchAssets)
	mux.HandleFunc("POST /api/assets/search", assetHandler.SearchAssets)
	mux.HandleFunc("POST /api/assets/update-embeddings", assetHandler.UpdateEmbeddings)
	mux.HandleFunc("GET /api/assets/{id}", assetHandler.GetAsset)
	mux.HandleFunc("PUT /api/assets/{id}", assetHandler.UpdateAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", assetHandler.DeleteAsset)

	mux.HandleFunc("GET /api/userstory", storyHandler.ListUserStories)
	mux.HandleFunc("POST /api/userstory", storyHandler.CreateUserStory)
	mux.HandleFunc("GET /api/userstory/{id}", storyHandler.GetUserStory)
	mux.HandleFunc("PUT /api/userstory/{id}", storyHandler.UpdateUserStory)
	mux.HandleFunc("DELETE /api/userstory/{id}", storyHandler.DeleteUserStory)

	mux.HandleFunc("POST /api/chat/query", chatHandler.Chat)
	mux.HandleFunc("POST /api/chat/initialize", chatHandler.InitializeChat)

	mux.HandleFunc("POST /api/artifact/generate", artifactHandler.GenerateArtifact)

	// Bearer auth is optional; without a JWKS endpoint all requests pass
	// through anonymously.
	var verifier auth.JWTVerifier
	if cfg.AuthJWKSURL != "" {
		v, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			logger.Error("failed to initialize JWT verifier", "error", err)
			os.Exit(1)
		}
		verifier = v
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var root http.Handler = mux
	root = middleware.Auth(verifier, logger)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestLogger(logger)(root)
	root = corsMiddleware.Handler(root)

	// Write timeout is generous because chat and artifact responses wait on
	// LLM completions.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
