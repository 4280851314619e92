package openinghand

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Shuffle/draw request errors surfaced to the HTTP layer.
var (
	// ErrNoDeckSelected indicates the request named no deck and pasted no list.
	ErrNoDeckSelected = errors.New("Select a deck or paste a deck list first.")

	// ErrInvalidState indicates an unusable state token. Bad signature,
	// expiry, tampering, and user mismatch all collapse into this one error.
	ErrInvalidState = errors.New("Invalid or expired hand state.")
)

// DeckTooSmallError indicates the resolved pool cannot fill an opening hand.
type DeckTooSmallError struct {
	Warnings []string
}

func (e *DeckTooSmallError) Error() string {
	return fmt.Sprintf("Deck needs at least %d drawable cards.", HandSize)
}

// ShuffleRequest selects a deck source. DeckID and DeckList are mutually
// exclusive; DeckID wins when both are set.
type ShuffleRequest struct {
	DeckID        string
	DeckList      string
	CommanderName string
}

// ShuffleResult is the outcome of minting a fresh hand.
type ShuffleResult struct {
	Hand       []ClientCard
	State      string
	Remaining  int
	DeckName   string
	Warnings   []string
	DeckSize   int
	Commanders []ClientCard
}

// DrawResult is the outcome of one draw attempt. When Done is set the deck
// is exhausted: Card is nil and State echoes the input token unchanged.
type DrawResult struct {
	Card      *ClientCard
	State     string
	Remaining int
	DeckName  string
	Done      bool
}

// Service wires the resolver, expander, shuffler, codec, and payload
// builder into the two operations the HTTP layer exposes.
type Service struct {
	resolver       *Resolver
	codec          *StateCodec
	placeholderURL string
}

// NewService creates an opening-hand service.
func NewService(resolver *Resolver, codec *StateCodec, placeholderURL string) *Service {
	return &Service{
		resolver:       resolver,
		codec:          codec,
		placeholderURL: placeholderURL,
	}
}

// Shuffle resolves the requested deck, expands and shuffles it, deals the
// opening hand, and mints the initial state token bound to the caller.
func (s *Service) Shuffle(ctx context.Context, req ShuffleRequest, userID int64) (*ShuffleResult, error) {
	var (
		deck *ResolvedDeck
		err  error
	)

	ref, hasRef, refErr := ParseDeckRef(req.DeckID)
	if refErr != nil {
		return nil, refErr
	}

	switch {
	case hasRef && ref.Kind == RefBuild:
		deck, err = s.resolver.ResolveBuildSession(ctx, ref.ID, userID)
	case hasRef:
		deck, err = s.resolver.ResolveFolder(ctx, ref.ID, userID)
	case strings.TrimSpace(req.DeckList) != "":
		deck = s.resolver.ResolveList(ctx, req.DeckList, req.CommanderName)
	default:
		return nil, ErrNoDeckSelected
	}
	if err != nil {
		return nil, err
	}

	pool := Expand(deck.Entries)
	deckSize := len(pool)
	if deckSize < HandSize {
		return nil, &DeckTooSmallError{Warnings: deck.Warnings}
	}

	Shuffle(pool)

	state := &HandState{
		Deck:     pool,
		Index:    HandSize,
		DeckName: deck.Name,
		UserID:   &userID,
	}
	token, err := s.codec.Encode(state)
	if err != nil {
		return nil, fmt.Errorf("encode hand state: %w", err)
	}

	hand := make([]ClientCard, 0, HandSize)
	for _, unit := range pool[:HandSize] {
		hand = append(hand, ToClientPayload(unit, s.placeholderURL))
	}

	commanders := make([]ClientCard, 0, len(deck.Commanders))
	for _, commander := range deck.Commanders {
		commanders = append(commanders, CommanderToClientPayload(commander, s.placeholderURL))
	}

	warnings := deck.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &ShuffleResult{
		Hand:       hand,
		State:      token,
		Remaining:  state.Remaining(),
		DeckName:   deck.Name,
		Warnings:   warnings,
		DeckSize:   deckSize,
		Commanders: commanders,
	}, nil
}

// Draw validates a state token and draws the next card, minting a successor
// token with the cursor advanced. An exhausted deck is not an error: the
// result carries Done=true, remaining 0, and the input token unchanged.
func (s *Service) Draw(ctx context.Context, token string, userID int64) (*DrawResult, error) {
	state := s.codec.Decode(token, userID)
	if state == nil {
		return nil, ErrInvalidState
	}

	if state.Index >= len(state.Deck) {
		return &DrawResult{
			State:     token,
			Remaining: 0,
			DeckName:  state.DeckName,
			Done:      true,
		}, nil
	}

	unit := state.Deck[state.Index]
	state.Index++

	newToken, err := s.codec.Encode(state)
	if err != nil {
		return nil, fmt.Errorf("encode hand state: %w", err)
	}

	card := ToClientPayload(unit, s.placeholderURL)
	return &DrawResult{
		Card:      &card,
		State:     newToken,
		Remaining: state.Remaining(),
		DeckName:  state.DeckName,
	}, nil
}
