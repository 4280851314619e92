// Package auth provides API-key authentication and folder access checks.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ramonehamilton/deck-vault/internal/api/response"
	"github.com/ramonehamilton/deck-vault/internal/storage"
)

var (
	// ErrUnauthenticated indicates no valid credentials were presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the authenticated user may not access the resource.
	ErrForbidden = errors.New("access denied")
)

type contextKey struct{}

var userContextKey contextKey

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *storage.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*storage.User, bool) {
	user, ok := ctx.Value(userContextKey).(*storage.User)
	return user, ok && user != nil
}

// UserStore resolves API keys to users.
type UserStore interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*storage.User, error)
}

// Middleware authenticates requests via "Authorization: Bearer <api key>"
// and stores the resolved user in the request context. Requests without a
// valid key are rejected with 401.
func Middleware(store UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			apiKey := ""
			if strings.HasPrefix(header, "Bearer ") {
				apiKey = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
			if apiKey == "" {
				response.Error(w, http.StatusUnauthorized, ErrUnauthenticated)
				return
			}

			user, err := store.GetUserByAPIKey(r.Context(), apiKey)
			if err != nil {
				response.InternalError(w, err)
				return
			}
			if user == nil {
				response.Error(w, http.StatusUnauthorized, ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// ShareStore answers folder share lookups.
type ShareStore interface {
	IsFolderSharedWith(ctx context.Context, folderID, userID int64) (bool, error)
}

// Access performs folder access checks against share records.
type Access struct {
	shares ShareStore
}

// NewAccess creates an access checker over the given share store.
func NewAccess(shares ShareStore) *Access {
	return &Access{shares: shares}
}

// EnsureFolderAccess verifies that the user may access the folder. Owners
// have full access; users the folder was shared with get read access only.
func (a *Access) EnsureFolderAccess(ctx context.Context, folder *storage.Folder, userID int64, write bool) error {
	if folder == nil {
		return ErrForbidden
	}
	if folder.OwnerUserID == userID {
		return nil
	}
	if write {
		return ErrForbidden
	}

	shared, err := a.shares.IsFolderSharedWith(ctx, folder.ID, userID)
	if err != nil {
		return err
	}
	if !shared {
		return ErrForbidden
	}
	return nil
}
