package openinghand

import "strings"

// Zone hints group cards by where they usually end up on the battlefield.
const (
	ZoneLands      = "lands"
	ZoneCreatures  = "creatures"
	ZoneGraveyard  = "graveyard"
	ZonePermanents = "permanents"
)

// DeckPoolEntry is one distinct printing in a deck before expansion.
type DeckPoolEntry struct {
	Name        string
	Quantity    int
	CardID      *int64
	OracleID    string
	Small       string
	Normal      string
	Large       string
	BackSmall   string
	BackNormal  string
	BackLarge   string
	DetailURL   string
	ExternalURL string
	TypeLine    string
}

// ExpandedUnit is one physical drawable instance of a deck entry. Units are
// serialized into state tokens, so fields stay compact and omit when empty.
type ExpandedUnit struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	CardID      *int64 `json:"card_id,omitempty"`
	OracleID    string `json:"oracle_id,omitempty"`
	Small       string `json:"small,omitempty"`
	Normal      string `json:"normal,omitempty"`
	Large       string `json:"large,omitempty"`
	BackSmall   string `json:"back_small,omitempty"`
	BackNormal  string `json:"back_normal,omitempty"`
	BackLarge   string `json:"back_large,omitempty"`
	DetailURL   string `json:"detail_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	TypeLine    string `json:"type_line,omitempty"`
}

// CommanderEntry is a display-only payload for a deck's commander; it never
// enters the drawable pool.
type CommanderEntry struct {
	Name        string
	OracleID    string
	Small       string
	Normal      string
	Large       string
	TypeLine    string
	ExternalURL string
}

// TypeFlags classifies a card by its type line.
type TypeFlags struct {
	IsCreature  bool
	IsLand      bool
	IsInstant   bool
	IsSorcery   bool
	IsPermanent bool
	ZoneHint    string
}

// CardTypeFlags derives type flags and a zone hint from a type line.
// Precedence: land > creature > instant/sorcery > other permanent, with
// "permanents" as the fallback for anything unrecognized.
func CardTypeFlags(typeLine string) TypeFlags {
	lowered := strings.ToLower(typeLine)

	flags := TypeFlags{
		IsLand:     strings.Contains(lowered, "land"),
		IsCreature: strings.Contains(lowered, "creature"),
		IsInstant:  strings.Contains(lowered, "instant"),
		IsSorcery:  strings.Contains(lowered, "sorcery"),
	}
	for _, token := range []string{"artifact", "enchantment", "planeswalker", "battle", "land", "creature"} {
		if strings.Contains(lowered, token) {
			flags.IsPermanent = true
			break
		}
	}

	switch {
	case flags.IsLand:
		flags.ZoneHint = ZoneLands
	case flags.IsCreature:
		flags.ZoneHint = ZoneCreatures
	case flags.IsInstant || flags.IsSorcery:
		flags.ZoneHint = ZoneGraveyard
	default:
		flags.ZoneHint = ZonePermanents
	}

	return flags
}
