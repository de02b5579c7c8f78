package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthhub-app/healthhub/backend/internal/auth"
	"github.com/healthhub-app/healthhub/backend/internal/config"
	"github.com/healthhub-app/healthhub/backend/internal/health"
	"github.com/healthhub-app/healthhub/backend/internal/middleware"
	"github.com/healthhub-app/healthhub/backend/internal/notify"
	"github.com/healthhub-app/healthhub/backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using environment")
	}
	cfg := config.Load()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	if err := store.Migrate(ctx, cfg.PostgresDSN); err != nil {
		logger.Error("postgres migrate", "err", err)
		os.Exit(1)
	}
	userStore := store.NewPostgresStore(pgPool)
	healthStore := store.NewHealthStore(pgPool)

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("mongo connect", "err", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)
	adviceStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("redis connect", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Error("minio connect", "err", err)
		os.Exit(1)
	}

	// ── External collaborators ───────────────────────────────
	adviceClient := health.NewAdviceClient(cfg.AdviceServiceURL)
	sender := notify.NewEmailSender(cfg, logger)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(userStore, sessions, sender)
	healthHandler := health.NewHandler(healthStore, adviceStore, minioStore, adviceClient)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/reset/request", authHandler.RequestReset)
		r.Post("/reset/confirm", authHandler.ConfirmReset)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	// Health tracking routes (protected)
	r.Route("/api/health", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/records", healthHandler.CreateRecord)
		r.Get("/records", healthHandler.ListRecords)
		r.Get("/dashboard", healthHandler.Dashboard)
		r.Get("/export", healthHandler.Export)
		r.Get("/export/{stamp}", healthHandler.DownloadExport)
		r.Post("/advice", healthHandler.Advice)
		r.Get("/advice", healthHandler.AdviceHistory)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		logger.Info("backend listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
