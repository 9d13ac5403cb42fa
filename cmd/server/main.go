package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/mailer"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	dispatcher := mailer.NewDispatcher(mailer.Config{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Password:   cfg.SMTPPassword,
		AdminEmail: cfg.AdminEmail,
	})
	defer dispatcher.Close()

	contactRepo := repository.NewPgContactRepository(pool)
	contactService := service.NewContactService(contactRepo, dispatcher)

	h := handler.New(pool, cfg.Env)
	contactHandler := handler.NewContactHandler(contactService, cfg.Env)

	// General window covers every API route; the submission route gets
	// a stricter window on top of it. The two reset independently.
	generalRL := handler.NewRateLimiter(100, 15*time.Minute)
	contactRL := handler.NewRateLimiter(cfg.ContactRateLimit, time.Hour)

	api := func(hf http.HandlerFunc) http.Handler {
		return generalRL.Middleware(hf)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/health", api(h.Health))
	mux.Handle("POST /api/contact", generalRL.Middleware(contactRL.Middleware(http.HandlerFunc(contactHandler.Submit))))
	mux.Handle("GET /api/contact", api(contactHandler.List))
	mux.Handle("GET /api/contact/stats", api(contactHandler.Stats))
	mux.Handle("GET /api/contact/{id}", api(contactHandler.Get))
	mux.Handle("PUT /api/contact/{id}/status", api(contactHandler.UpdateStatus))
	mux.Handle("DELETE /api/contact/{id}", api(contactHandler.Delete))
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("/", h.NotFound)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler.SecurityHeaders(h.CORS(handler.RequestLogger(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env,
			"notifications", cfg.SMTPUser != "")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
