package openinghand

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"golang.org/x/crypto/hkdf"
)

const (
	// StateSalt scopes the signing key to this feature, so opening-hand
	// tokens cannot be replayed against another signed-token feature of the
	// application and vice versa.
	StateSalt = "opening-hand-state-v1"

	// DefaultStateMaxAge is the default token lifetime.
	DefaultStateMaxAge = 6 * time.Hour

	signingKeyLen = 32
)

// HandState is the entire mutable game state of one draw session. It is
// carried by the client inside a signed token; the server keeps nothing.
type HandState struct {
	Deck     []ExpandedUnit
	Index    int
	DeckName string
	UserID   *int64
}

// Remaining returns the number of undrawn cards.
func (s *HandState) Remaining() int {
	return len(s.Deck) - s.Index
}

// stateClaims is the wire shape of a state token. Deck entries stay raw
// until the payload shape has been validated.
type stateClaims struct {
	Deck     []json.RawMessage `json:"deck"`
	Index    int               `json:"index"`
	DeckName string            `json:"deck_name"`
	UserID   *int64            `json:"user_id"`
	IssuedAt int64             `json:"iat"`
}

// Valid implements jwt.Claims. Age is enforced by the codec against its
// configured maximum, not here.
func (c *stateClaims) Valid() error {
	return nil
}

// StateCodec signs and verifies hand-state tokens. The signing key is
// derived from the application secret and the feature salt; the token's
// issue timestamp is covered by the signature.
type StateCodec struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewStateCodec creates a codec for the given application secret. A
// non-positive maxAge falls back to DefaultStateMaxAge.
func NewStateCodec(secret string, maxAge time.Duration) (*StateCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret is required")
	}
	if maxAge <= 0 {
		maxAge = DefaultStateMaxAge
	}

	key := make([]byte, signingKeyLen)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(StateSalt), []byte("hand-state signing"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}

	return &StateCodec{
		key:    key,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// MaxAge returns the configured token lifetime.
func (c *StateCodec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode serializes and signs a hand state into a token.
func (c *StateCodec) Encode(state *HandState) (string, error) {
	claims := &stateClaims{
		Deck:     make([]json.RawMessage, 0, len(state.Deck)),
		Index:    state.Index,
		DeckName: state.DeckName,
		UserID:   state.UserID,
		IssuedAt: c.now().Unix(),
	}
	for i := range state.Deck {
		raw, err := json.Marshal(&state.Deck[i])
		if err != nil {
			return "", fmt.Errorf("marshal deck entry: %w", err)
		}
		claims.Deck = append(claims.Deck, raw)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}
	return token, nil
}

// Decode verifies a token's signature and age, re-validates the payload
// shape, and binds it to the calling user. Any failure (bad signature,
// expiry, malformed payload, out-of-range cursor, user mismatch) returns
// nil; callers cannot distinguish the causes.
func (c *StateCodec) Decode(token string, callerID int64) *HandState {
	if token == "" {
		return nil
	}

	claims := &stateClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	if claims.IssuedAt <= 0 {
		return nil
	}
	if c.now().Sub(time.Unix(claims.IssuedAt, 0)) > c.maxAge {
		return nil
	}

	if claims.Index < 0 || claims.Index > len(claims.Deck) {
		return nil
	}

	// A correctly signed but structurally invalid payload should not occur;
	// reject it the same way as a forgery rather than crash later.
	deck := make([]ExpandedUnit, 0, len(claims.Deck))
	for _, raw := range claims.Deck {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil
		}
		var unit ExpandedUnit
		if err := json.Unmarshal(trimmed, &unit); err != nil {
			return nil
		}
		deck = append(deck, unit)
	}

	if claims.UserID == nil || *claims.UserID != callerID {
		return nil
	}

	deckName := claims.DeckName
	if deckName == "" {
		deckName = "Deck"
	}

	return &HandState{
		Deck:     deck,
		Index:    claims.Index,
		DeckName: deckName,
		UserID:   claims.UserID,
	}
}
