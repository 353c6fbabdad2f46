package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"treehouse/internal/auth"
	"treehouse/internal/config"
	"treehouse/internal/email"
	"treehouse/internal/handler"
	"treehouse/internal/middleware"
	"treehouse/internal/repository/postgres"
	"treehouse/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Session tokens and outbound mail
	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, logger)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}
	mailer := email.NewService(cfg.SMTP, logger)

	// Create services
	userService := service.NewUserService(userRepo, mailer, logger)
	workspaceService := service.NewWorkspaceService(userRepo, workspaceRepo, folderRepo, fileRepo, txManager, logger)
	treeService := service.NewTreeService(workspaceRepo, folderRepo, logger)
	ownerGate := service.NewOwnerGate(workspaceRepo, folderRepo)

	// Create handlers
	secureCookies := cfg.Environment == "prod"
	userHandler := handler.NewUserHandler(userService, tokenManager, secureCookies, logger)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, treeService, ownerGate, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	authed := middleware.Auth(tokenManager, logger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Account routes (no session required)
	mux.HandleFunc("POST /api/user/register", userHandler.Register)
	mux.HandleFunc("POST /api/user/login", userHandler.Login)
	mux.HandleFunc("POST /api/user/logout", userHandler.Logout)
	mux.HandleFunc("POST /api/user/verify", userHandler.VerifyEmail)
	mux.HandleFunc("POST /api/user/forget-password", userHandler.ForgetPassword)
	mux.HandleFunc("POST /api/user/reset-forgotten-password", userHandler.ResetForgottenPassword)

	// Account routes (session required)
	mux.Handle("POST /api/user/change-password", authed(http.HandlerFunc(userHandler.ChangePassword)))
	mux.Handle("GET /api/user/user-details", authed(http.HandlerFunc(userHandler.UserDetails)))

	// Workspace hierarchy routes (session required)
	mux.Handle("POST /api/workspace/create-workspace", authed(http.HandlerFunc(workspaceHandler.CreateWorkspace)))
	mux.Handle("POST /api/workspace/create-folder", authed(http.HandlerFunc(workspaceHandler.CreateFolder)))
	mux.Handle("POST /api/workspace/create-file", authed(http.HandlerFunc(workspaceHandler.CreateFile)))
	mux.Handle("GET /api/workspace/workspace-details", authed(http.HandlerFunc(workspaceHandler.WorkspaceDetails)))
	mux.Handle("GET /api/workspace/folder-details", authed(http.HandlerFunc(workspaceHandler.FolderDetails)))
	mux.Handle("GET /api/workspace/file-details", authed(http.HandlerFunc(workspaceHandler.FileDetails)))
	mux.Handle("DELETE /api/workspace/workspace", authed(http.HandlerFunc(workspaceHandler.DeleteWorkspace)))
	mux.Handle("DELETE /api/workspace/folder", authed(http.HandlerFunc(workspaceHandler.DeleteFolder)))
	mux.Handle("DELETE /api/workspace/file", authed(http.HandlerFunc(workspaceHandler.DeleteFile)))

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Routes
	root = middleware.RequestLogger(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
