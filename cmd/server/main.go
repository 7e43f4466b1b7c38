package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mealcheckin/internal/db"
	"mealcheckin/internal/handlers"
	"mealcheckin/internal/insights"
	"mealcheckin/internal/kvstore"
	mw "mealcheckin/internal/middleware"
	"mealcheckin/internal/notify"
	"mealcheckin/internal/services"
	"mealcheckin/internal/users"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func newLogger() *zap.Logger {
	if os.Getenv("ENVIRONMENT") == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}

// newEncryption reads the two base64 32-byte keys. Both absent means the
// deployment runs without field encryption; only one set is a config error.
func newEncryption(logger *zap.Logger) *services.EncryptionService {
	encKeyB64 := os.Getenv("ENCRYPTION_KEY")
	idxKeyB64 := os.Getenv("BLIND_INDEX_KEY")
	if encKeyB64 == "" && idxKeyB64 == "" {
		logger.Warn("field encryption disabled; set ENCRYPTION_KEY and BLIND_INDEX_KEY to enable")
		return nil
	}
	encKey, err := base64.StdEncoding.DecodeString(encKeyB64)
	if err != nil {
		logger.Fatal("invalid ENCRYPTION_KEY", zap.Error(err))
	}
	idxKey, err := base64.StdEncoding.DecodeString(idxKeyB64)
	if err != nil {
		logger.Fatal("invalid BLIND_INDEX_KEY", zap.Error(err))
	}
	encSvc, err := services.NewEncryptionService(encKey, idxKey)
	if err != nil {
		logger.Fatal("could not set up encryption", zap.Error(err))
	}
	return encSvc
}

// newStorage picks the kv backend: Postgres when DATABASE_URL is set,
// otherwise JSON files under DATA_DIR.
func newStorage(logger *zap.Logger) kvstore.Store {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dbConn, err := sqlx.Open("pgx", databaseURL)
		if err != nil {
			logger.Fatal("failed to open db", zap.Error(err))
		}
		dbConn.SetMaxOpenConns(10)
		dbConn.SetConnMaxLifetime(2 * time.Hour)
		if err = dbConn.Ping(); err != nil {
			logger.Fatal("failed to ping db", zap.Error(err))
		}
		if err := db.RunMigrations(dbConn); err != nil {
			logger.Fatal("failed migrations", zap.Error(err))
		}
		return kvstore.NewPostgres(dbConn)
	}

	dataDir := mustGetenv("DATA_DIR", "./data")
	store, err := kvstore.NewFile(dataDir)
	if err != nil {
		logger.Fatal("failed to open data dir", zap.Error(err))
	}
	logger.Info("using file storage", zap.String("dir", dataDir))
	return store
}

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	defer logger.Sync()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	port := mustGetenv("PORT", "8080")

	store := newStorage(logger)
	encSvc := newEncryption(logger)
	reminders := notify.LogScheduler{Log: logger}
	userStore := users.NewStore(store, encSvc)

	chat := insights.NewClient(
		mustGetenv("OPENAI_BASE_URL", "https://api.openai.com"),
		os.Getenv("OPENAI_API_KEY"),
		mustGetenv("OPENAI_MODEL", "gpt-4o-mini"),
		nil,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.StructuredLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(userStore, []byte(jwtSecret))
	userHandler := handlers.NewUserHandler(userStore)
	entriesHandler := handlers.NewEntriesHandler(store, reminders, encSvc)
	goalsHandler := handlers.NewGoalsHandler(store, encSvc)
	insightsHandler := handlers.NewInsightsHandler(store, reminders, encSvc, chat)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/me", userHandler.Me)

			pr.Post("/entries", entriesHandler.Create)
			pr.Get("/entries/pending", entriesHandler.ListPending)
			pr.Get("/entries/completed", entriesHandler.ListCompleted)
			pr.Patch("/entries/{id}", entriesHandler.Update)
			pr.Post("/entries/{id}/complete", entriesHandler.Complete)
			pr.Delete("/entries/{id}", entriesHandler.Delete)

			pr.Get("/goals", goalsHandler.Get)
			pr.Post("/goals/toggle", goalsHandler.Toggle)
			pr.Post("/goals/custom", goalsHandler.AddCustom)
			pr.Delete("/goals/custom/{index}", goalsHandler.RemoveCustom)
			pr.Put("/goals/order", goalsHandler.Reorder)

			pr.Get("/insights/summary", insightsHandler.Summary)
			pr.Post("/insights/chat", insightsHandler.Chat)
			pr.Post("/insights/generate", insightsHandler.Generate)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
