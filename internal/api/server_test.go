package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramonehamilton/deck-vault/internal/auth"
	"github.com/ramonehamilton/deck-vault/internal/openinghand"
	"github.com/ramonehamilton/deck-vault/internal/scryfall"
	"github.com/ramonehamilton/deck-vault/internal/storage"
)

const testAPIKey = "test-api-key"

// newTestServer wires a full stack: sqlite storage on a temp file, a stub
// catalog API, and the opening-hand service. It returns the server's router
// wrapped in an httptest server, plus the storage service for seeding.
func newTestServer(t *testing.T) (*httptest.Server, *storage.Service) {
	t.Helper()

	dbConfig := storage.DefaultConfig(filepath.Join(t.TempDir(), "api-test.db"))
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := storage.NewService(db)

	catalogAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(catalogAPI.Close)
	catalog := scryfall.NewCatalog(scryfall.NewClient(catalogAPI.URL, "test-agent"))

	codec, err := openinghand.NewStateCodec("api-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("create codec: %v", err)
	}

	resolver := openinghand.NewResolver(store, catalog, auth.NewAccess(store))
	service := openinghand.NewService(resolver, codec, "/static/img/card-placeholder.svg")

	server := NewServer(&Config{Port: 0}, service, store)
	ts := httptest.NewServer(server.router)
	t.Cleanup(ts.Close)

	return ts, store
}

// seedFortyCardDeck creates a user with the test API key and a 40-card deck
// folder owned by them.
func seedFortyCardDeck(t *testing.T, store *storage.Service) int64 {
	t.Helper()
	ctx := context.Background()

	user := &storage.User{Username: "tester", Email: "tester@example.com", APIKey: testAPIKey}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	folder := &storage.Folder{Name: "Forty", Category: storage.CategoryDeck, OwnerUserID: user.ID}
	if err := store.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	for i := 0; i < 10; i++ {
		card := &storage.FolderCard{
			FolderID: folder.ID,
			Name:     fmt.Sprintf("Card %d", i),
			Quantity: 4,
		}
		if err := store.AddFolderCard(context.Background(), card); err != nil {
			t.Fatalf("add card: %v", err)
		}
	}

	return folder.ID
}

func postJSON(t *testing.T, ts *httptest.Server, path, apiKey string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestShuffleRequiresAuth(t *testing.T) {
	ts, store := newTestServer(t)
	folderID := seedFortyCardDeck(t, store)

	resp := postJSON(t, ts, "/api/v1/opening-hand/shuffle", "",
		map[string]string{"deck_id": fmt.Sprintf("%d", folderID)})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestShuffleRejectsWrongContentType(t *testing.T) {
	ts, store := newTestServer(t)
	seedFortyCardDeck(t, store)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/opening-hand/shuffle",
		bytes.NewReader([]byte(`{"deck_id":"1"}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+testAPIKey)

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
}

func TestShuffleAndDrawFlow(t *testing.T) {
	ts, store := newTestServer(t)
	folderID := seedFortyCardDeck(t, store)

	resp := postJSON(t, ts, "/api/v1/opening-hand/shuffle", testAPIKey,
		map[string]string{"deck_id": fmt.Sprintf("%d", folderID)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shuffle status = %d", resp.StatusCode)
	}

	var shuffle struct {
		OK        bool              `json:"ok"`
		Hand      []json.RawMessage `json:"hand"`
		State     string            `json:"state"`
		Remaining int               `json:"remaining"`
		DeckName  string            `json:"deck_name"`
		DeckSize  int               `json:"deck_size"`
	}
	decodeBody(t, resp, &shuffle)

	if !shuffle.OK || len(shuffle.Hand) != 7 {
		t.Fatalf("shuffle = %+v", shuffle)
	}
	if shuffle.DeckSize != 40 || shuffle.Remaining != 33 {
		t.Errorf("deck size / remaining = %d / %d, want 40 / 33", shuffle.DeckSize, shuffle.Remaining)
	}
	if shuffle.DeckName != "Forty" {
		t.Errorf("deck name = %q", shuffle.DeckName)
	}

	// Draw through the freshly minted token.
	resp = postJSON(t, ts, "/api/v1/opening-hand/draw", testAPIKey,
		map[string]string{"state": shuffle.State})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("draw status = %d", resp.StatusCode)
	}

	var draw struct {
		OK        bool            `json:"ok"`
		Card      json.RawMessage `json:"card"`
		State     string          `json:"state"`
		Remaining int             `json:"remaining"`
	}
	decodeBody(t, resp, &draw)

	if !draw.OK || draw.Remaining != 32 {
		t.Fatalf("draw = %+v", draw)
	}
	if draw.State == shuffle.State {
		t.Error("draw did not mint a successor token")
	}
	if len(draw.Card) == 0 || string(draw.Card) == "null" {
		t.Error("draw returned no card")
	}

	// A tampered token is rejected.
	resp = postJSON(t, ts, "/api/v1/opening-hand/draw", testAPIKey,
		map[string]string{"state": shuffle.State + "x"})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("tampered draw status = %d, want 400", resp.StatusCode)
	}
}

func TestShuffleUnknownDeck(t *testing.T) {
	ts, store := newTestServer(t)
	seedFortyCardDeck(t, store)

	resp := postJSON(t, ts, "/api/v1/opening-hand/shuffle", testAPIKey,
		map[string]string{"deck_id": "9999"})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestShuffleOtherUsersDeck(t *testing.T) {
	ts, store := newTestServer(t)
	folderID := seedFortyCardDeck(t, store)
	ctx := context.Background()

	stranger := &storage.User{Username: "stranger", Email: "stranger@example.com", APIKey: "stranger-key"}
	if err := store.CreateUser(ctx, stranger); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp := postJSON(t, ts, "/api/v1/opening-hand/shuffle", "stranger-key",
		map[string]string{"deck_id": fmt.Sprintf("%d", folderID)})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	// Once the folder is shared, the same request succeeds: shares grant
	// read access, and shuffling only reads.
	if err := store.ShareFolder(ctx, folderID, stranger.ID); err != nil {
		t.Fatalf("share folder: %v", err)
	}

	resp = postJSON(t, ts, "/api/v1/opening-hand/shuffle", "stranger-key",
		map[string]string{"deck_id": fmt.Sprintf("%d", folderID)})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after share = %d, want 200", resp.StatusCode)
	}
}

func TestListDecksEndpoint(t *testing.T) {
	ts, store := newTestServer(t)
	seedFortyCardDeck(t, store)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/decks", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}

	var body struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)

	if len(body.Data) != 1 || body.Data[0].Name != "Forty" {
		t.Fatalf("decks = %+v", body.Data)
	}
}
