package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/deck-vault/internal/api/handlers"
	"github.com/ramonehamilton/deck-vault/internal/api/response"
	"github.com/ramonehamilton/deck-vault/internal/auth"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning, no auth)
	s.router.Get("/health", s.healthCheck)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(s.store))

		// Opening-hand simulator routes
		openingHandHandler := handlers.NewOpeningHandHandler(s.openingHand)
		r.Route("/opening-hand", func(r chi.Router) {
			r.Post("/shuffle", openingHandHandler.Shuffle)
			r.Post("/draw", openingHandHandler.Draw)
		})

		// Deck picker routes
		deckHandler := handlers.NewDeckHandler(s.store)
		r.Get("/decks", deckHandler.ListDecks)
	})
}

// healthCheck reports server liveness.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
