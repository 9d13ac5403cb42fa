// Package handler is the HTTP boundary: routing targets, the uniform
// JSON envelope, and the middleware stack (CORS, security headers,
// request logging, rate limiting).
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/validation"
)

// envProduction suppresses internal error detail in responses.
const envProduction = "production"

// envelope is the uniform JSON wrapper returned by every endpoint.
type envelope struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	Data       any                     `json:"data,omitempty"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
	Pagination *model.Pagination       `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Handler serves the endpoints that need no service behind them:
// health, the API index, and the catch-all 404.
type Handler struct {
	db  *pgxpool.Pool
	env string
}

func New(db *pgxpool.Pool, env string) *Handler {
	return &Handler{db: db, env: env}
}

// Root handles GET / with an API index, useful as a smoke check.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Portfolio API",
		Data: map[string]any{
			"version": "1.0.0",
			"endpoints": map[string]string{
				"health":  "/api/health",
				"contact": "/api/contact",
			},
		},
	})
}

// NotFound is the catch-all for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{
		Success: false,
		Message: "Route not found: " + r.URL.Path,
	})
}

// CORS allows all origins with credentials: the contact form is a
// public surface, not a restricted internal API. The request origin is
// echoed because "*" cannot be combined with credentials.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
