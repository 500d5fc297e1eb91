// Package knowledge holds card meanings, spreads, elemental and numerological
// correspondences, and composes plain interpretations from them.
package knowledge

import (
	"fmt"
	"strings"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
)

var suitElements = map[string]string{
	card.SuitWands:     Fire,
	card.SuitCups:      Water,
	card.SuitSwords:    Air,
	card.SuitPentacles: Earth,
}

// GetMeaning returns the meaning of the named card. Cards without a
// detailed entry get one built from the catalog, with the suit's element.
func GetMeaning(name string) (Meaning, bool) {
	if m, ok := detailed[name]; ok {
		return m, true
	}
	c, err := deck.Lookup(name)
	if err != nil {
		return Meaning{}, false
	}
	if m, ok := detailed[c.Name]; ok {
		return m, true
	}

	m := Meaning{
		Name: c.Name,
		Upright: Aspect{
			Keywords:    c.Keywords,
			Description: c.Description,
		},
		Reversed: Aspect{
			Keywords:    c.Keywords,
			Description: fmt.Sprintf("%s reversed points to blocked or inverted energy: %s", c.Name, strings.ToLower(c.Description)),
		},
		Element: suitElements[c.Suit],
	}
	if !c.IsMajor() {
		m.Suit = card.SuitSlug(c.Suit)
	}
	return m, true
}

// Element returns the meaning of an element
func Element(name string) (ElementMeaning, bool) {
	e, ok := elements[name]
	return e, ok
}

// Numerology returns the meaning of a pip number (1-10)
func Numerology(n int) (string, bool) {
	s, ok := numerology[n]
	return s, ok
}

// InterpretInContext picks the facet of the meaning that matches the
// question's topic, falling back to the general description.
func InterpretInContext(m Meaning, reversed bool, position, question string) string {
	a := m.Aspect(reversed)
	q := strings.ToLower(question)
	pick := func(s string) string {
		if s == "" {
			return a.Description
		}
		return s
	}

	switch {
	case strings.Contains(q, "love") || strings.Contains(q, "relationship"):
		return pick(a.Love)
	case strings.Contains(q, "career") || strings.Contains(q, "job") || strings.Contains(q, "work"):
		return pick(a.Career)
	case strings.Contains(q, "health"):
		return pick(a.Health)
	case strings.Contains(q, "spiritual"):
		return pick(a.Spirituality)
	}
	return a.Description
}

// DominantElement returns the element most represented among cards. Ties
// go to the later element in fire, water, air, earth order.
func DominantElement(cards []string) string {
	counts := map[string]int{}
	for _, name := range cards {
		if m, ok := GetMeaning(name); ok && m.Element != "" {
			counts[m.Element]++
		}
	}
	best := elementOrder[0]
	for _, e := range elementOrder[1:] {
		if counts[e] >= counts[best] {
			best = e
		}
	}
	return best
}

// ElementalInfluence describes the dominant element among cards
func ElementalInfluence(cards []string) string {
	return elements[DominantElement(cards)].Description
}
