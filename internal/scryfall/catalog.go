package scryfall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Catalog caches catalog lookups in memory. Misses are cached as well, so a
// card the API doesn't know is not re-fetched on every request.
//
// All methods treat API failures as cache misses on the next call; cached
// entries never expire for the life of the process.
type Catalog struct {
	client *Client

	mu           sync.RWMutex
	bySetCN      map[string]*Print
	byOracle     map[string][]*Print
	oracleByName map[string]string
}

// NewCatalog creates a catalog cache over the given client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{
		client:       client,
		bySetCN:      make(map[string]*Print),
		byOracle:     make(map[string][]*Print),
		oracleByName: make(map[string]string),
	}
}

func setCNKey(setCode, collectorNumber string) string {
	return fmt.Sprintf("%s|%s", strings.ToLower(strings.TrimSpace(setCode)), strings.TrimSpace(collectorNumber))
}

// FindPrintBySetAndCollector resolves a printing by set code and collector
// number, verifying the name when one is given. Returns nil when the catalog
// has no matching printing.
func (c *Catalog) FindPrintBySetAndCollector(ctx context.Context, setCode, collectorNumber, name string) (*Print, error) {
	if strings.TrimSpace(setCode) == "" || strings.TrimSpace(collectorNumber) == "" {
		return nil, nil
	}

	key := setCNKey(setCode, collectorNumber)
	c.mu.RLock()
	cached, ok := c.bySetCN[key]
	c.mu.RUnlock()
	if !ok {
		print, err := c.client.GetCardBySetAndNumber(ctx, strings.ToLower(strings.TrimSpace(setCode)), strings.TrimSpace(collectorNumber))
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			print = nil
		} else if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.bySetCN[key] = print
		c.mu.Unlock()
		cached = print
	}

	if cached == nil {
		return nil, nil
	}
	if name != "" && !strings.EqualFold(strings.TrimSpace(name), cached.Name) {
		return nil, nil
	}
	return cached, nil
}

// PrintsForOracle returns all cached printings for an oracle ID. Returns an
// empty slice when none are known.
func (c *Catalog) PrintsForOracle(ctx context.Context, oracleID string) ([]*Print, error) {
	oracleID = strings.TrimSpace(oracleID)
	if oracleID == "" {
		return nil, nil
	}

	c.mu.RLock()
	cached, ok := c.byOracle[oracleID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prints, err := c.client.SearchPrintsByOracleID(ctx, oracleID)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		prints = nil
	} else if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byOracle[oracleID] = prints
	c.mu.Unlock()

	return prints, nil
}

// UniqueOracleIDByName resolves a card name to its oracle ID. Returns ""
// when the name is unknown to the catalog.
func (c *Catalog) UniqueOracleIDByName(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", nil
	}

	c.mu.RLock()
	cached, ok := c.oracleByName[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	print, err := c.client.GetCardByName(ctx, strings.TrimSpace(name))
	var notFound *NotFoundError
	oracleID := ""
	if errors.As(err, &notFound) {
		oracleID = ""
	} else if err != nil {
		return "", err
	} else if print != nil {
		oracleID = print.OracleID
		if oracleID != "" {
			// Seed the oracle cache with the canonical printing so an
			// immediate PrintsForOracle call avoids a second round trip.
			c.mu.Lock()
			if _, exists := c.byOracle[oracleID]; !exists {
				c.byOracle[oracleID] = []*Print{print}
			}
			c.mu.Unlock()
		}
	}

	c.mu.Lock()
	c.oracleByName[key] = oracleID
	c.mu.Unlock()

	return oracleID, nil
}
