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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	geminiadapter "github.com/meridianhq/meridian/internal/adapter/driven/gemini"
	githubadapter "github.com/meridianhq/meridian/internal/adapter/driven/github"
	sqliteadapter "github.com/meridianhq/meridian/internal/adapter/driven/sqlite"
	httphandler "github.com/meridianhq/meridian/internal/adapter/driving/http"
	"github.com/meridianhq/meridian/internal/application"
	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"oauth_configured", cfg.HasOAuthCredentials(),
		"gemini_configured", cfg.GeminiAPIKey != "",
		"mcp_origin", cfg.MCPOrigin,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire stores.
	userStore := sqliteadapter.NewUserRepo(db)
	projectStore := sqliteadapter.NewProjectRepo(db)
	pathStore := sqliteadapter.NewLearningPathRepo(db)
	assessmentStore := sqliteadapter.NewAssessmentRepo(db)
	analysisStore := sqliteadapter.NewAnalysisRepo(db)

	// 6. GitHub client factory. Clients are per-token: each authenticated user
	// gets one built around their own access token.
	factory := driven.GitHubClientFactory(func(token string) driven.GitHubClient {
		return githubadapter.NewClient(token)
	})

	// 6b. OAuth exchanger (nil when the client ID/secret pair is absent; the
	// GitHub login endpoint then answers 503).
	var oauth driven.OAuthProvider
	if cfg.HasOAuthCredentials() {
		oauth = githubadapter.NewOAuthExchanger(cfg.GitHubClientID, cfg.GitHubClientSecret)
		slog.Info("github oauth enabled")
	} else {
		slog.Info("github oauth disabled, no client credentials configured")
	}

	// 6c. Insight engine (nil without an API key; analyses then serve the
	// fixed fallback).
	var engine driven.InsightEngine
	if cfg.GeminiAPIKey != "" {
		geminiEngine, err := geminiadapter.NewEngine(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := geminiEngine.Close(); closeErr != nil {
				slog.Error("error closing gemini client", "error", closeErr)
			}
		}()
		engine = geminiEngine
		slog.Info("gemini insight engine enabled")
	} else {
		slog.Info("gemini disabled, insight analyses will serve the fallback")
	}

	// 7. Wire services.
	authSvc := application.NewAuthService(userStore, oauth, factory)
	dashboardSvc := application.NewDashboardService(factory, cfg.GitHubToken)
	insightSvc := application.NewInsightService(engine, analysisStore)
	pathSvc := application.NewLearningPathService(pathStore, analysisStore)
	assessmentSvc := application.NewAssessmentService(assessmentStore)

	// 7b. MCP proxy (nil origin leaves the route unregistered).
	var proxy *httphandler.MCPProxy
	if cfg.MCPOrigin != "" {
		proxy = httphandler.NewMCPProxy(cfg.MCPOrigin, slog.Default())
	}

	// 7c. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(authSvc, dashboardSvc, insightSvc, pathSvc, assessmentSvc, projectStore, userStore, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, proxy, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("meridian started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with configured drain timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
