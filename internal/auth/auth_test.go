package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ramonehamilton/deck-vault/internal/storage"
)

type mockUserStore struct {
	users map[string]*storage.User
	err   error
}

func (m *mockUserStore) GetUserByAPIKey(_ context.Context, apiKey string) (*storage.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[apiKey], nil
}

func TestMiddleware(t *testing.T) {
	store := &mockUserStore{
		users: map[string]*storage.User{
			"valid-key": {ID: 7, Username: "alice"},
		},
	}

	var gotUser *storage.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(store)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID int64
	}{
		{name: "valid key", header: "Bearer valid-key", wantStatus: http.StatusOK, wantUserID: 7},
		{name: "unknown key", header: "Bearer wrong-key", wantStatus: http.StatusUnauthorized},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUserID != 0 {
				if gotUser == nil || gotUser.ID != tt.wantUserID {
					t.Errorf("context user = %+v, want id %d", gotUser, tt.wantUserID)
				}
			}
		})
	}
}

func TestMiddlewareStoreError(t *testing.T) {
	handler := Middleware(&mockUserStore{err: errors.New("db down")})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler called despite store error")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

type mockShareStore struct {
	shared map[int64]map[int64]bool
	err    error
}

func (m *mockShareStore) IsFolderSharedWith(_ context.Context, folderID, userID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.shared[folderID][userID], nil
}

func TestEnsureFolderAccess(t *testing.T) {
	shares := &mockShareStore{
		shared: map[int64]map[int64]bool{
			1: {9: true},
		},
	}
	access := NewAccess(shares)
	folder := &storage.Folder{ID: 1, OwnerUserID: 5}
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		write   bool
		wantErr error
	}{
		{name: "owner read", userID: 5, write: false},
		{name: "owner write", userID: 5, write: true},
		{name: "shared read", userID: 9, write: false},
		{name: "shared write", userID: 9, write: true, wantErr: ErrForbidden},
		{name: "stranger read", userID: 3, write: false, wantErr: ErrForbidden},
		{name: "stranger write", userID: 3, write: true, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.EnsureFolderAccess(ctx, folder, tt.userID, tt.write)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureFolderAccessNilFolder(t *testing.T) {
	access := NewAccess(&mockShareStore{})
	if err := access.EnsureFolderAccess(context.Background(), nil, 1, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUserFromContextMissing(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("UserFromContext reported a user on an empty context")
	}
}
