package openinghand

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/deck-vault/internal/scryfall"
	"github.com/ramonehamilton/deck-vault/internal/storage"
)

// ErrDeckNotFound indicates the referenced folder or build session does not
// exist (or is not visible to the caller).
var ErrDeckNotFound = errors.New("deck not found")

// Catalog is the read-only card catalog consumed by the resolver. Lookup
// failures are treated as "no data for this card" and never abort a
// resolution.
type Catalog interface {
	FindPrintBySetAndCollector(ctx context.Context, setCode, collectorNumber, name string) (*scryfall.Print, error)
	PrintsForOracle(ctx context.Context, oracleID string) ([]*scryfall.Print, error)
	UniqueOracleIDByName(ctx context.Context, name string) (string, error)
}

// DeckStore loads deck sources from persistence.
type DeckStore interface {
	GetFolder(ctx context.Context, id int64) (*storage.Folder, error)
	ListFolderCards(ctx context.Context, folderID int64) ([]*storage.FolderCard, error)
	GetActiveBuildSession(ctx context.Context, sessionID, ownerID int64) (*storage.BuildSession, error)
	ListBuildSessionCards(ctx context.Context, sessionID int64) ([]*storage.BuildSessionCard, error)
}

// AccessChecker verifies folder visibility for a user.
type AccessChecker interface {
	EnsureFolderAccess(ctx context.Context, folder *storage.Folder, userID int64, write bool) error
}

// ResolvedDeck is the output of deck resolution: drawable entries plus the
// commanders excluded from them.
type ResolvedDeck struct {
	Name       string
	Entries    []DeckPoolEntry
	Warnings   []string
	Commanders []CommanderEntry
}

// Resolver turns deck references into drawable card pools.
type Resolver struct {
	store   DeckStore
	catalog Catalog
	access  AccessChecker
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(store DeckStore, catalog Catalog, access AccessChecker) *Resolver {
	return &Resolver{store: store, catalog: catalog, access: access}
}

// ResolveFolder resolves an owned (or shared) folder into a drawable pool.
func (r *Resolver) ResolveFolder(ctx context.Context, folderID, userID int64) (*ResolvedDeck, error) {
	folder, err := r.store.GetFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("load folder: %w", err)
	}
	if folder == nil {
		return nil, ErrDeckNotFound
	}
	if err := r.access.EnsureFolderAccess(ctx, folder, userID, false); err != nil {
		return nil, err
	}

	commanderOracleIDs, commanderNames := commanderFilters(
		stringValue(folder.CommanderName), stringValue(folder.CommanderOracleID))

	rows, err := r.store.ListFolderCards(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("load folder cards: %w", err)
	}

	deck := &ResolvedDeck{Name: folder.Name}
	if deck.Name == "" {
		deck.Name = "Deck"
	}

	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}

		lowerName := strings.ToLower(strings.TrimSpace(row.Name))
		oracleID := stringValue(row.OracleID)
		if oracleID != "" {
			if _, excluded := commanderOracleIDs[oracleID]; excluded {
				continue
			}
		}
		if lowerName != "" {
			if _, excluded := commanderNames[lowerName]; excluded {
				continue
			}
		}

		setCode := stringValue(row.SetCode)
		collectorNumber := stringValue(row.CollectorNumber)
		print := r.lookupPrint(ctx, setCode, collectorNumber, row.Name, oracleID)

		imgs := print.FrontImages()
		back := print.BackImages()

		typeLine := stringValue(row.TypeLine)
		if typeLine == "" {
			typeLine = print.ResolvedTypeLine()
		}

		cardID := row.ID
		deck.Entries = append(deck.Entries, DeckPoolEntry{
			Name:        row.Name,
			Quantity:    row.Quantity,
			CardID:      &cardID,
			OracleID:    oracleID,
			Small:       imgs.Small,
			Normal:      imgs.Normal,
			Large:       imgs.Large,
			BackSmall:   back.Small,
			BackNormal:  back.Normal,
			BackLarge:   back.Large,
			DetailURL:   fmt.Sprintf("/cards/%d", row.ID),
			ExternalURL: externalURL(print, setCode, collectorNumber),
			TypeLine:    typeLine,
		})
	}

	if len(deck.Entries) == 0 {
		deck.Warnings = append(deck.Warnings, "No drawable cards found in this deck.")
	}

	deck.Commanders = r.commanderPayloads(ctx,
		stringValue(folder.CommanderName), stringValue(folder.CommanderOracleID))

	return deck, nil
}

// ResolveBuildSession resolves an active build session owned by the user.
func (r *Resolver) ResolveBuildSession(ctx context.Context, sessionID, userID int64) (*ResolvedDeck, error) {
	session, err := r.store.GetActiveBuildSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("load build session: %w", err)
	}
	if session == nil {
		return nil, ErrDeckNotFound
	}

	commanderOracleIDs, commanderNames := commanderFilters(
		stringValue(session.CommanderName), stringValue(session.CommanderOracleID))

	rows, err := r.store.ListBuildSessionCards(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load build session cards: %w", err)
	}

	deck := &ResolvedDeck{Name: buildSessionLabel(session)}

	for _, row := range rows {
		oracleID := strings.TrimSpace(row.CardOracleID)
		if oracleID == "" || row.Quantity <= 0 {
			continue
		}
		if _, excluded := commanderOracleIDs[oracleID]; excluded {
			continue
		}

		print := r.preferredPrintForOracle(ctx, oracleID)
		cardName := "Card"
		if print != nil && print.Name != "" {
			cardName = print.Name
		}
		if len(commanderNames) > 0 {
			if _, excluded := commanderNames[strings.ToLower(strings.TrimSpace(cardName))]; excluded {
				continue
			}
		}

		imgs := print.FrontImages()
		back := print.BackImages()

		deck.Entries = append(deck.Entries, DeckPoolEntry{
			Name:        cardName,
			Quantity:    row.Quantity,
			OracleID:    oracleID,
			Small:       imgs.Small,
			Normal:      imgs.Normal,
			Large:       imgs.Large,
			BackSmall:   back.Small,
			BackNormal:  back.Normal,
			BackLarge:   back.Large,
			ExternalURL: externalURL(print, "", ""),
			TypeLine:    print.ResolvedTypeLine(),
		})
	}

	if len(deck.Entries) == 0 {
		deck.Warnings = append(deck.Warnings, "No drawable cards found in this build.")
	}

	deck.Commanders = r.commanderPayloads(ctx,
		stringValue(session.CommanderName), stringValue(session.CommanderOracleID))

	return deck, nil
}

// ResolveList resolves a pasted decklist. Names that cannot be matched to an
// oracle ID become warnings, never errors.
func (r *Resolver) ResolveList(ctx context.Context, rawList, commanderHint string) *ResolvedDeck {
	deck := &ResolvedDeck{Name: "Custom List"}

	commanderNames := make(map[string]struct{})
	commanderHint = strings.TrimSpace(commanderHint)
	if commanderHint != "" {
		commanderNames = splitCommanderNameFragments(commanderHint)
	}

	for _, line := range ParsePastedDecklist(rawList) {
		oracleID, err := r.catalog.UniqueOracleIDByName(ctx, line.Name)
		if err != nil || oracleID == "" {
			deck.Warnings = append(deck.Warnings, fmt.Sprintf("Unable to resolve %q.", line.Name))
			continue
		}

		print := r.preferredPrintForOracle(ctx, oracleID)
		resolvedName := line.Name
		if print != nil && print.Name != "" {
			resolvedName = print.Name
		}
		if len(commanderNames) > 0 {
			if _, excluded := commanderNames[strings.ToLower(strings.TrimSpace(resolvedName))]; excluded {
				continue
			}
		}

		imgs := print.FrontImages()
		back := print.BackImages()

		deck.Entries = append(deck.Entries, DeckPoolEntry{
			Name:        resolvedName,
			Quantity:    line.Quantity,
			OracleID:    oracleID,
			Small:       imgs.Small,
			Normal:      imgs.Normal,
			Large:       imgs.Large,
			BackSmall:   back.Small,
			BackNormal:  back.Normal,
			BackLarge:   back.Large,
			ExternalURL: externalURL(print, "", ""),
			TypeLine:    print.ResolvedTypeLine(),
		})
	}

	if len(deck.Entries) == 0 {
		deck.Warnings = append(deck.Warnings, "No drawable cards were resolved from the pasted deck list.")
	}

	deck.Commanders = r.commanderPayloads(ctx, commanderHint, "")

	return deck
}

// lookupPrint resolves a printing for a folder card through a three-step
// fallback chain: exact set/collector/name match, then first printing for
// the oracle ID, then a loose set/collector match ignoring the name. Each
// step's failure just advances to the next.
func (r *Resolver) lookupPrint(ctx context.Context, setCode, collectorNumber, name, oracleID string) *scryfall.Print {
	if print, err := r.catalog.FindPrintBySetAndCollector(ctx, setCode, collectorNumber, name); err == nil && print != nil {
		return print
	}

	if oracleID != "" {
		if prints, err := r.catalog.PrintsForOracle(ctx, oracleID); err == nil && len(prints) > 0 {
			return prints[0]
		}
	}

	if print, err := r.catalog.FindPrintBySetAndCollector(ctx, setCode, collectorNumber, ""); err == nil && print != nil {
		return print
	}

	return nil
}

// preferredPrintForOracle returns the first non-digital printing for an
// oracle ID, or the first printing if all are digital.
func (r *Resolver) preferredPrintForOracle(ctx context.Context, oracleID string) *scryfall.Print {
	prints, err := r.catalog.PrintsForOracle(ctx, oracleID)
	if err != nil || len(prints) == 0 {
		return nil
	}
	for _, print := range prints {
		if print != nil && !print.Digital {
			return print
		}
	}
	return prints[0]
}

// commanderFilters derives the exclusion sets from a deck's commander blobs:
// exact oracle IDs plus case-folded name fragments.
func commanderFilters(nameBlob, oracleBlob string) (oracleIDs map[string]struct{}, names map[string]struct{}) {
	oracleIDs = make(map[string]struct{})
	for _, id := range SplitCommanderOracleIDs(oracleBlob) {
		oracleIDs[id] = struct{}{}
	}
	names = splitCommanderNameFragments(nameBlob)
	return oracleIDs, names
}

// commanderPayloads resolves display entries for a deck's commanders.
// Names and oracle IDs are paired positionally, reusing the first value of
// the shorter list.
func (r *Resolver) commanderPayloads(ctx context.Context, nameBlob, oracleBlob string) []CommanderEntry {
	names := SplitCommanderNames(nameBlob)
	oracles := SplitCommanderOracleIDs(oracleBlob)
	if len(names) == 0 && len(oracles) == 0 {
		return nil
	}

	maxLen := len(names)
	if len(oracles) > maxLen {
		maxLen = len(oracles)
	}

	var payloads []CommanderEntry
	for i := 0; i < maxLen; i++ {
		var name, oracleID string
		if i < len(names) {
			name = names[i]
		} else if len(names) > 0 {
			name = names[0]
		}
		if i < len(oracles) {
			oracleID = oracles[i]
		} else if len(oracles) > 0 {
			oracleID = oracles[0]
		}

		if entry, ok := r.commanderPayload(ctx, name, oracleID); ok {
			payloads = append(payloads, entry)
		}
	}
	return payloads
}

// commanderPayload resolves one commander to a display entry. The oracle ID
// wins when present; otherwise the name is looked up in the catalog.
func (r *Resolver) commanderPayload(ctx context.Context, name, oracleID string) (CommanderEntry, bool) {
	name = strings.TrimSpace(name)
	oracleID = strings.TrimSpace(oracleID)
	if name == "" && oracleID == "" {
		return CommanderEntry{}, false
	}

	var print *scryfall.Print
	if oracleID != "" {
		print = r.preferredPrintForOracle(ctx, oracleID)
	}
	if print == nil && name != "" {
		if resolved, err := r.catalog.UniqueOracleIDByName(ctx, name); err == nil && resolved != "" {
			oracleID = resolved
			print = r.preferredPrintForOracle(ctx, oracleID)
		}
	}

	entry := CommanderEntry{
		Name:     name,
		OracleID: oracleID,
	}
	if print != nil {
		if entry.Name == "" {
			entry.Name = print.Name
		}
		if entry.OracleID == "" {
			entry.OracleID = print.OracleID
		}
		imgs := print.FrontImages()
		entry.Small = imgs.Small
		entry.Normal = imgs.Normal
		entry.Large = imgs.Large
		entry.TypeLine = print.ResolvedTypeLine()
		entry.ExternalURL = print.ScryfallURI
	}
	if entry.Name == "" {
		entry.Name = "Commander"
	}

	return entry, true
}

// buildSessionLabel renders the opening-hand display name for a build.
func buildSessionLabel(session *storage.BuildSession) string {
	base := stringValue(session.BuildName)
	if base == "" {
		base = stringValue(session.CommanderName)
	}
	if base == "" {
		base = fmt.Sprintf("Build %d", session.ID)
	}
	return "Proxy Build - " + base
}

// externalURL prefers the print's catalog page, falling back to a URL
// constructed from set and collector number.
func externalURL(print *scryfall.Print, setCode, collectorNumber string) string {
	if print != nil && print.ScryfallURI != "" {
		return print.ScryfallURI
	}
	if setCode != "" && collectorNumber != "" {
		return fmt.Sprintf("https://scryfall.com/card/%s/%s", strings.ToLower(setCode), collectorNumber)
	}
	return ""
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
