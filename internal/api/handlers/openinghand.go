package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/deck-vault/internal/api/response"
	"github.com/ramonehamilton/deck-vault/internal/auth"
	"github.com/ramonehamilton/deck-vault/internal/openinghand"
)

// OpeningHandService is the draw-simulator surface consumed by the handler.
type OpeningHandService interface {
	Shuffle(ctx context.Context, req openinghand.ShuffleRequest, userID int64) (*openinghand.ShuffleResult, error)
	Draw(ctx context.Context, token string, userID int64) (*openinghand.DrawResult, error)
}

// OpeningHandHandler handles opening-hand simulator requests.
type OpeningHandHandler struct {
	service OpeningHandService
}

// NewOpeningHandHandler creates a new OpeningHandHandler.
func NewOpeningHandHandler(service OpeningHandService) *OpeningHandHandler {
	return &OpeningHandHandler{service: service}
}

// ShuffleRequest represents a request to shuffle a deck.
type ShuffleRequest struct {
	DeckID        string `json:"deck_id"`
	DeckList      string `json:"deck_list"`
	CommanderName string `json:"commander_name"`
}

// shuffleResponse is the success body of the shuffle endpoint.
type shuffleResponse struct {
	OK         bool                     `json:"ok"`
	Hand       []openinghand.ClientCard `json:"hand"`
	State      string                   `json:"state"`
	Remaining  int                      `json:"remaining"`
	DeckName   string                   `json:"deck_name"`
	Warnings   []string                 `json:"warnings"`
	DeckSize   int                      `json:"deck_size"`
	Commanders []openinghand.ClientCard `json:"commanders"`
}

// errorResponse is the failure body of both simulator endpoints.
type errorResponse struct {
	OK       bool     `json:"ok"`
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

// Shuffle resolves a deck, shuffles it, and deals the opening hand.
func (h *OpeningHandHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, auth.ErrUnauthenticated)
		return
	}

	var req ShuffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, errorResponse{Error: "Select a deck or paste a deck list first."})
		return
	}

	result, err := h.service.Shuffle(r.Context(), openinghand.ShuffleRequest{
		DeckID:        req.DeckID,
		DeckList:      req.DeckList,
		CommanderName: req.CommanderName,
	}, user.ID)
	if err != nil {
		var tooSmall *openinghand.DeckTooSmallError
		switch {
		case errors.Is(err, openinghand.ErrInvalidDeckRef):
			response.JSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid deck selection."})
		case errors.Is(err, openinghand.ErrNoDeckSelected):
			response.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, openinghand.ErrDeckNotFound):
			response.JSON(w, http.StatusNotFound, errorResponse{Error: "Deck not found."})
		case errors.Is(err, auth.ErrForbidden):
			response.Forbidden(w, err)
		case errors.As(err, &tooSmall):
			response.JSON(w, http.StatusBadRequest, errorResponse{Error: tooSmall.Error(), Warnings: tooSmall.Warnings})
		default:
			response.InternalError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, shuffleResponse{
		OK:         true,
		Hand:       result.Hand,
		State:      result.State,
		Remaining:  result.Remaining,
		DeckName:   result.DeckName,
		Warnings:   result.Warnings,
		DeckSize:   result.DeckSize,
		Commanders: result.Commanders,
	})
}

// DrawRequest represents a request to draw the next card.
type DrawRequest struct {
	State string `json:"state"`
}

// drawResponse is the success body of the draw endpoint.
type drawResponse struct {
	OK        bool                    `json:"ok"`
	Card      *openinghand.ClientCard `json:"card"`
	State     string                  `json:"state"`
	Remaining int                     `json:"remaining"`
	DeckName  string                  `json:"deck_name"`
}

// deckExhaustedResponse signals end-of-deck without treating it as an
// error; the input token is echoed back unchanged.
type deckExhaustedResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Remaining int    `json:"remaining"`
	DeckName  string `json:"deck_name"`
	State     string `json:"state"`
}

// Draw validates a state token and draws the next card.
func (h *OpeningHandHandler) Draw(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, auth.ErrUnauthenticated)
		return
	}

	var req DrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid or expired hand state."})
		return
	}

	result, err := h.service.Draw(r.Context(), req.State, user.ID)
	if err != nil {
		if errors.Is(err, openinghand.ErrInvalidState) {
			response.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		response.InternalError(w, err)
		return
	}

	if result.Done {
		response.JSON(w, http.StatusOK, deckExhaustedResponse{
			OK:        false,
			Error:     "No more cards to draw.",
			Remaining: 0,
			DeckName:  result.DeckName,
			State:     result.State,
		})
		return
	}

	response.JSON(w, http.StatusOK, drawResponse{
		OK:        true,
		Card:      result.Card,
		State:     result.State,
		Remaining: result.Remaining,
		DeckName:  result.DeckName,
	})
}
