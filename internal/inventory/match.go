// Package inventory resolves free-text cart line names to stock rows.
package inventory

import (
	"strings"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

type MatchKind string

const (
	MatchNone     MatchKind = ""
	MatchExact    MatchKind = "exact"
	MatchContains MatchKind = "contains"
	MatchReverse  MatchKind = "reverse"
)

// Match finds the stock row for a cart line name. Passes run in order:
// case-insensitive equality, stock name containing the cart name, cart name
// containing the stock name. Within a pass the first row in slice order wins,
// so callers pass rows sorted by id.
func Match(items []models.InventoryItem, name string) (*models.InventoryItem, MatchKind) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, MatchNone
	}

	for i := range items {
		if strings.ToLower(strings.TrimSpace(items[i].Name)) == needle {
			return &items[i], MatchExact
		}
	}
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), needle) {
			return &items[i], MatchContains
		}
	}
	for i := range items {
		hay := strings.ToLower(strings.TrimSpace(items[i].Name))
		if hay != "" && strings.Contains(needle, hay) {
			return &items[i], MatchReverse
		}
	}
	return nil, MatchNone
}

// Remaining is the stock left after a purchase, floored at zero.
func Remaining(current, purchased int) int {
	if purchased >= current {
		return 0
	}
	return current - purchased
}
