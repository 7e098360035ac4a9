package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasremigio/flickshub/internal/catalog"
	"github.com/lucasremigio/flickshub/internal/config"
	"github.com/lucasremigio/flickshub/internal/database"
	"github.com/lucasremigio/flickshub/internal/handlers"
	"github.com/lucasremigio/flickshub/internal/middleware"
	"github.com/lucasremigio/flickshub/internal/services"
	"github.com/lucasremigio/flickshub/internal/storage"
)

func main() {
	// Check for migrate command
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrations()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[flickshub] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting FlicksHub server in %s mode", cfg.Server.Env)

	// Initialize database connection
	db, err := database.New(database.Config{
		URL: cfg.Database.URL,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize session store and catalog cache
	sessionStore := database.NewSessionStore(redisClient, 7*24*time.Hour)
	catalogCache := database.NewCatalogCache(redisClient, 6*time.Hour)

	// Initialize catalog client
	catalogClient := catalog.NewClient(catalog.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Cache:        catalogCache,
	}, logger)

	// Initialize services
	userService := services.NewUserService(db.Pool)
	playlistService := services.NewPlaylistService(db.Pool)

	// Initialize avatar storage
	avatarStore, err := storage.NewAvatarStore(cfg.Storage.AvatarDir, cfg.Storage.AvatarBaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionStore, userService, "session", cfg.IsProduction())

	// Rate limiter (100 req/min in production, disabled in local/dev)
	maxRequests := 1000
	if cfg.IsProduction() {
		maxRequests = 100
	}
	rateLimiter := middleware.NewRateLimiter(redisClient.Client, maxRequests, time.Minute, cfg.IsProduction())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(
		userService,
		sessionStore,
		authMiddleware,
		handlers.AuthConfig{
			GoogleClientID:     cfg.OAuth.GoogleClientID,
			GoogleClientSecret: cfg.OAuth.GoogleClientSecret,
			GitHubClientID:     cfg.OAuth.GitHubClientID,
			GitHubClientSecret: cfg.OAuth.GitHubClientSecret,
			CallbackHost:       cfg.OAuth.CallbackHost,
		},
		logger,
	)
	catalogHandler := handlers.NewCatalogHandler(catalogClient, logger)
	playlistHandler := handlers.NewPlaylistHandler(playlistService, catalogClient, logger)
	profileHandler := handlers.NewProfileHandler(userService, avatarStore, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("/auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("/auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("/auth/github/login", authHandler.GitHubLogin)
	mux.HandleFunc("/auth/github/callback", authHandler.GitHubCallback)
	mux.HandleFunc("/auth/logout", authHandler.Logout)

	// Auth runs first so the rate limiter can key on the user.
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(rateLimiter.Limit(h))
	}

	// Catalog routes
	mux.Handle("GET /api/movies/browse", protected(catalogHandler.Browse))
	mux.Handle("GET /api/movies/search", protected(catalogHandler.Search))
	mux.Handle("GET /api/movies/search/more", protected(catalogHandler.SearchMore))
	mux.Handle("DELETE /api/movies/search", protected(catalogHandler.EndSession))
	mux.Handle("GET /api/movies/{id}", protected(catalogHandler.GetMovie))
	mux.Handle("GET /api/genres", protected(catalogHandler.Genres))

	// Playlist routes
	mux.Handle("GET /api/playlists", protected(playlistHandler.List))
	mux.Handle("POST /api/playlists", protected(playlistHandler.Create))
	mux.Handle("GET /api/playlists/{id}", protected(playlistHandler.Get))
	mux.Handle("PATCH /api/playlists/{id}", protected(playlistHandler.Rename))
	mux.Handle("DELETE /api/playlists/{id}", protected(playlistHandler.Delete))
	mux.Handle("GET /api/playlists/{id}/movies", protected(playlistHandler.Movies))
	mux.Handle("POST /api/playlists/{id}/movies", protected(playlistHandler.AddMovie))
	mux.Handle("DELETE /api/playlists/{id}/movies/{movieId}", protected(playlistHandler.RemoveMovie))

	// Profile routes
	mux.Handle("GET /api/profile", protected(profileHandler.Get))
	mux.Handle("PATCH /api/profile", protected(profileHandler.Update))
	mux.Handle("POST /api/profile/avatar", protected(profileHandler.UploadAvatar))

	// Serve uploaded avatars
	avatarFS := http.FileServer(http.Dir(avatarStore.Dir()))
	mux.Handle(cfg.Storage.AvatarBaseURL+"/", http.StripPrefix(cfg.Storage.AvatarBaseURL+"/", avatarFS))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		dbErr := db.Health(r.Context())
		redisErr := redisClient.Health(r.Context())

		if dbErr != nil || redisErr != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			dbStatus := "up"
			if dbErr != nil {
				dbStatus = "down"
			}
			redisStatus := "up"
			if redisErr != nil {
				redisStatus = "down"
			}
			fmt.Fprintf(w, `{"status":"unhealthy","database":"%s","redis":"%s"}`, dbStatus, redisStatus)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","database":"up","redis":"up"}`)
	})

	// Wrap with logging middleware
	handler := middleware.Logger(logger)(mux)

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}

// runMigrations runs database migrations
func runMigrations() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(database.Config{
		URL: cfg.Database.URL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Pool)

	ctx := context.Background()
	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
