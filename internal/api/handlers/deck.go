package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/deck-vault/internal/api/response"
	"github.com/ramonehamilton/deck-vault/internal/auth"
	"github.com/ramonehamilton/deck-vault/internal/storage"
)

// DeckStore lists the deck folders visible to a user.
type DeckStore interface {
	ListDeckFoldersForUser(ctx context.Context, userID int64) ([]*storage.Folder, error)
}

// DeckHandler handles deck listing for the simulator's deck picker.
type DeckHandler struct {
	store DeckStore
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(store DeckStore) *DeckHandler {
	return &DeckHandler{store: store}
}

// DeckOption is one selectable deck in the picker.
type DeckOption struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CommanderName string `json:"commander_name,omitempty"`
}

// ListDecks returns the deck folders the caller owns or has been granted
// access to.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, auth.ErrUnauthenticated)
		return
	}

	folders, err := h.store.ListDeckFoldersForUser(r.Context(), user.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	options := make([]DeckOption, 0, len(folders))
	for _, folder := range folders {
		option := DeckOption{ID: folder.ID, Name: folder.Name}
		if folder.CommanderName != nil {
			option.CommanderName = *folder.CommanderName
		}
		options = append(options, option)
	}

	response.Success(w, options)
}
