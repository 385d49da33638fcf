package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"seva-backend/internal/access"
	"seva-backend/internal/auth"
	"seva-backend/internal/cache"
	"seva-backend/internal/handlers"
	"seva-backend/internal/invite"
	"seva-backend/internal/middleware"
	"seva-backend/internal/notify"
	"seva-backend/internal/storage"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Database connection (with retries)
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", buildDSN())
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// NATS connection
	natsClient, err := notify.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	// Redis cache
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Storage
	store := storage.NewStorage(db)

	// Access gate and invitations
	gate := access.NewGate(store)
	publisher := notify.NewPublisher(natsClient.JS())
	invites := invite.NewManager(store, publisher, getEnv("BASE_URL", "http://localhost:8080"))

	// Start mail consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := notify.NewMailer(natsClient.JS(), notify.NewWebhookSender())
	if err := mailer.Start(ctx); err != nil {
		log.Fatalf("Failed to start mailer: %v", err)
	}

	// HTTP handlers
	h := handlers.New(store, gate, invites)
	authHandler := auth.NewHandler(store)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Post("/v1/auth/register", authHandler.Register)
	r.Post("/v1/auth/login", authHandler.Login)
	r.With(auth.Middleware).Get("/v1/auth/me", authHandler.Me)

	// Public transparency pages, rate limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitPublic(redisClient))
		h.RegisterPublicRoutes(r)
	})

	// Redemption gets both an IP and a per-token limit on top of auth.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Use(middleware.RateLimitRedeemIP(redisClient))
		r.Use(middleware.RateLimitRedeemToken(redisClient))
		r.Post("/v1/invitations/accept", h.AcceptInvitation)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		h.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = mailer.Stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Println("Server starting on :8080")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "seva_user") +
		" password=" + getEnv("DB_PASSWORD", "seva_pass") +
		" dbname=" + getEnv("DB_NAME", "seva") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
