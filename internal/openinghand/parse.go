package openinghand

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Deck reference kinds.
const (
	RefFolder = "folder"
	RefBuild  = "build"
)

// ErrInvalidDeckRef indicates a deck reference that could not be parsed.
var ErrInvalidDeckRef = errors.New("invalid deck reference")

// DeckRef identifies a drawable deck source: a persisted folder or an
// in-progress build session.
type DeckRef struct {
	Kind string
	ID   int64
}

// ParseDeckRef parses a raw deck reference. Folders are referenced by a bare
// positive integer, build sessions by a "build:<id>" prefix. An empty value
// parses to a zero DeckRef with ok=false.
func ParseDeckRef(raw string) (ref DeckRef, ok bool, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return DeckRef{}, false, nil
	}

	kind := RefFolder
	if rest, found := strings.CutPrefix(text, "build:"); found {
		kind = RefBuild
		text = strings.TrimSpace(rest)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return DeckRef{}, false, ErrInvalidDeckRef
	}

	return DeckRef{Kind: kind, ID: id}, true, nil
}

// ParsedLine is one (name, quantity) pair from a pasted decklist.
type ParsedLine struct {
	Name     string
	Quantity int
}

var (
	qtyFirstPattern = regexp.MustCompile(`^\s*(\d+)\s*[xX]?\s+(.+)$`)
	qtyLastPattern  = regexp.MustCompile(`^\s*(.+?)\s*[xX]\s*(\d+)\s*$`)
)

// ParsePastedDecklist parses a pasted decklist line by line. Supported line
// shapes are "<qty>[x] <name>" and "<name> x<qty>"; a bare name means
// quantity 1. Blank lines and #-comments are skipped. Never fails: lines
// that match no pattern are treated as bare names.
func ParsePastedDecklist(raw string) []ParsedLine {
	var want []ParsedLine
	for _, line := range strings.Split(raw, "\n") {
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		qty := 1
		name := text
		if m := qtyFirstPattern.FindStringSubmatch(text); m != nil {
			qty, _ = strconv.Atoi(m[1])
			name = m[2]
		} else if m := qtyLastPattern.FindStringSubmatch(text); m != nil {
			name = m[1]
			qty, _ = strconv.Atoi(m[2])
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if qty < 1 {
			qty = 1
		}
		want = append(want, ParsedLine{Name: name, Quantity: qty})
	}
	return want
}

var commanderNameSeparators = regexp.MustCompile(`[\/,&]+`)

// splitCommanderNameFragments splits a commander name blob on the
// multi-commander separators (slash, comma, ampersand) and case-folds the
// fragments for matching.
func splitCommanderNameFragments(raw string) map[string]struct{} {
	fragments := make(map[string]struct{})
	for _, part := range commanderNameSeparators.Split(raw, -1) {
		val := strings.ToLower(strings.TrimSpace(part))
		if val != "" {
			fragments[val] = struct{}{}
		}
	}
	return fragments
}

// SplitCommanderNames splits a stored commander name blob into display
// names. Partner commanders are stored joined with "//".
func SplitCommanderNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var parts []string
	for _, piece := range strings.Split(raw, "//") {
		if p := strings.TrimSpace(piece); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	return parts
}

// SplitCommanderOracleIDs splits a stored comma-separated oracle-id blob.
func SplitCommanderOracleIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []string
	for _, piece := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(piece); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
