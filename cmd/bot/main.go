package main

import (
	"context"
	"crypto/sha256"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sid743/TG-cloud-storage/internal/access"
	"github.com/sid743/TG-cloud-storage/internal/bot"
	"github.com/sid743/TG-cloud-storage/internal/config"
	"github.com/sid743/TG-cloud-storage/internal/db"
	"github.com/sid743/TG-cloud-storage/internal/file"
	"github.com/sid743/TG-cloud-storage/internal/gateway"
	"github.com/sid743/TG-cloud-storage/internal/topic"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	gw, err := gateway.NewTelegram(cfg.BotToken, cfg.GroupID)
	if err != nil {
		log.Fatalf("telegram gateway init failed: %v", err)
	}

	// Wire dependencies: repository → service → bot
	fileRepo := file.NewRepository(pool)
	fileSvc := file.NewService(fileRepo)

	topicRepo := topic.NewRepository(pool)
	topics := topic.NewRouter(topicRepo, gw)

	flow := access.NewWorkflow(fileSvc, gw, callbackSecret(cfg))

	b := bot.New(gw, fileSvc, topics, flow)

	// Health surface for probes
	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("health endpoint on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("health server error: %v", err)
		}
	}()

	go func() {
		log.Println("bot is running...")
		b.Run(ctx, gw.Updates())
	}()

	<-quit
	log.Println("shutting down gracefully...")

	cancel()
	gw.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("bot stopped")
}

// callbackSecret is the key signing inline-button payloads. Falls back to a
// digest of the bot token so deployments work without extra configuration.
func callbackSecret(cfg *config.Config) []byte {
	if cfg.CallbackSecret != "" {
		return []byte(cfg.CallbackSecret)
	}
	sum := sha256.Sum256([]byte("callback:" + cfg.BotToken))
	return sum[:]
}
