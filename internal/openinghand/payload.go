package openinghand

// ClientCard is the minimal display payload sent to the client for one card.
// Back-face fields are present only when the card has a back face.
type ClientCard struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Small       string `json:"small"`
	Hover       string `json:"hover"`
	DetailURL   string `json:"detail_url,omitempty"`
	TypeLine    string `json:"type_line"`
	IsCreature  bool   `json:"is_creature"`
	IsLand      bool   `json:"is_land"`
	IsInstant   bool   `json:"is_instant"`
	IsSorcery   bool   `json:"is_sorcery"`
	IsPermanent bool   `json:"is_permanent"`
	ZoneHint    string `json:"zone_hint"`
	BackImage   string `json:"back_image,omitempty"`
	BackHover   string `json:"back_hover,omitempty"`
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildClientCard is the pure payload builder: image fields resolve through
// the large-first chain (small resolves small-first), back-face fields only
// when a back image exists, and type flags derive from the type line alone.
func buildClientCard(name, typeLine, small, normal, large, backSmall, backNormal, backLarge, detailURL, externalURL, placeholder string) ClientCard {
	if name == "" {
		name = "Card"
	}

	flags := CardTypeFlags(typeLine)

	card := ClientCard{
		Name:        name,
		Image:       firstNonEmpty(large, normal, small, placeholder),
		Small:       firstNonEmpty(small, normal, large, placeholder),
		Hover:       firstNonEmpty(large, normal, small, placeholder),
		DetailURL:   firstNonEmpty(detailURL, externalURL),
		TypeLine:    typeLine,
		IsCreature:  flags.IsCreature,
		IsLand:      flags.IsLand,
		IsInstant:   flags.IsInstant,
		IsSorcery:   flags.IsSorcery,
		IsPermanent: flags.IsPermanent,
		ZoneHint:    flags.ZoneHint,
	}

	back := firstNonEmpty(backLarge, backNormal, backSmall)
	if back != "" {
		card.BackImage = back
		card.BackHover = back
	}

	return card
}

// ToClientPayload maps a drawable unit to its display payload.
func ToClientPayload(unit ExpandedUnit, placeholderURL string) ClientCard {
	return buildClientCard(
		unit.Name, unit.TypeLine,
		unit.Small, unit.Normal, unit.Large,
		unit.BackSmall, unit.BackNormal, unit.BackLarge,
		unit.DetailURL, unit.ExternalURL,
		placeholderURL,
	)
}

// CommanderToClientPayload maps a commander entry to its display payload.
func CommanderToClientPayload(entry CommanderEntry, placeholderURL string) ClientCard {
	return buildClientCard(
		entry.Name, entry.TypeLine,
		entry.Small, entry.Normal, entry.Large,
		"", "", "",
		"", entry.ExternalURL,
		placeholderURL,
	)
}
