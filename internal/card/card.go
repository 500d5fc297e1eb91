package card

import "strings"

// Suit names as they appear in the catalog
const (
	SuitMajor     = "Major Arcana"
	SuitWands     = "Wands"
	SuitCups      = "Cups"
	SuitSwords    = "Swords"
	SuitPentacles = "Pentacles"
)

// Card represents a tarot card
type Card struct {
	ID          string   `json:"id" yaml:"id"`                   // Canonical ID (e.g., major_arcana.00, minor_arcana.wands.ace)
	Name        string   `json:"name" yaml:"name"`               // Unique display name
	Suit        string   `json:"suit,omitempty" yaml:"suit"`     // Major Arcana, Wands, Cups, Swords or Pentacles
	Number      int      `json:"number" yaml:"number"`           // 0-21 for major arcana, 1-14 for minor arcana
	IsReversed  bool     `json:"isReversed" yaml:"reversed"`     // Set per draw, never on catalog entries
	Description string   `json:"description" yaml:"description"` // Short upright meaning
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// IsMajor reports whether the card belongs to the major arcana
func (c Card) IsMajor() bool {
	return c.Suit == SuitMajor
}

// Orientation returns "Upright" or "Reversed"
func (c Card) Orientation() string {
	if c.IsReversed {
		return "Reversed"
	}
	return "Upright"
}

// Emoji returns the symbol used for the card's suit
func (c Card) Emoji() string {
	switch c.Suit {
	case SuitWands:
		return "🔥"
	case SuitCups:
		return "💧"
	case SuitSwords:
		return "⚔️"
	case SuitPentacles:
		return "💰"
	default:
		return "🎴"
	}
}

// Clone returns a copy that shares no slices with c
func (c Card) Clone() Card {
	out := c
	out.Keywords = append([]string(nil), c.Keywords...)
	return out
}

// SuitSlug returns the lower case suit used in canonical IDs
func SuitSlug(suit string) string {
	return strings.ToLower(suit)
}
