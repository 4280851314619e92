package openinghand

import (
	"fmt"
	"math/rand/v2"
)

// HandSize is the number of cards in an opening hand.
const HandSize = 7

// Expand flattens quantity-bearing entries into single drawable units, in
// entry order. Quantities are clamped to at least 1. Each unit gets a uid of
// the form "<identity seed>-<counter>"; the counter alone guarantees
// uniqueness within one pool.
func Expand(entries []DeckPoolEntry) []ExpandedUnit {
	var expanded []ExpandedUnit
	counter := 0
	for _, entry := range entries {
		qty := entry.Quantity
		if qty < 1 {
			qty = 1
		}

		seed := entry.Name
		if entry.OracleID != "" {
			seed = entry.OracleID
		}
		if entry.CardID != nil {
			seed = fmt.Sprintf("%d", *entry.CardID)
		}

		for i := 0; i < qty; i++ {
			expanded = append(expanded, ExpandedUnit{
				UID:         fmt.Sprintf("%s-%d", seed, counter),
				Name:        entry.Name,
				CardID:      entry.CardID,
				OracleID:    entry.OracleID,
				Small:       entry.Small,
				Normal:      entry.Normal,
				Large:       entry.Large,
				BackSmall:   entry.BackSmall,
				BackNormal:  entry.BackNormal,
				BackLarge:   entry.BackLarge,
				DetailURL:   entry.DetailURL,
				ExternalURL: entry.ExternalURL,
				TypeLine:    entry.TypeLine,
			})
			counter++
		}
	}
	return expanded
}

// Shuffle applies a uniform random permutation in place.
func Shuffle(units []ExpandedUnit) {
	rand.Shuffle(len(units), func(i, j int) {
		units[i], units[j] = units[j], units[i]
	})
}
