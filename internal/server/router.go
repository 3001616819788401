// Package server assembles the HTTP router. Kept separate from main so
// integration tests can mount the same routes against httptest.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	mW "github.com/dedovbet/backend/internal/middleware"
	"github.com/dedovbet/backend/internal/services"
)

// NewRouter mounts the betting API.
func NewRouter(auth *services.AuthService, wallet *services.WalletService) chi.Router {
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)

		r.Get("/getBalance", wallet.GetBalance)
		r.Post("/deposit", wallet.Deposit)
		r.Post("/withdraw", wallet.Withdraw)
		r.Get("/transactions", wallet.Transactions)
		r.Post("/saveTransaction", wallet.SaveTransaction)
		r.Post("/updateBalance", wallet.UpdateBalance)

		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)
			r.Get("/account", auth.GetAccount)
		})
	})

	return r
}
