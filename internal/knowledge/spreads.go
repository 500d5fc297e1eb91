package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// Position is one slot of a spread
type Position struct {
	Position  int    `json:"position" yaml:"position"`
	Meaning   string `json:"meaning" yaml:"meaning"`
	TimeFrame string `json:"timeFrame,omitempty" yaml:"time_frame,omitempty"`
}

// Spread is a named layout of positions
type Spread struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Positions   []Position `json:"positions" yaml:"positions"`
	TotalCards  int        `json:"totalCards" yaml:"total_cards"`
}

// Label returns the short label for position i (0-based)
func (s Spread) Label(i int) string {
	if i < 0 || i >= len(s.Positions) {
		return fmt.Sprintf("Card %d", i+1)
	}
	p := s.Positions[i]
	if p.TimeFrame != "" {
		return p.TimeFrame
	}
	if head, _, ok := strings.Cut(p.Meaning, " - "); ok {
		return head
	}
	return fmt.Sprintf("Card %d", p.Position)
}

var spreads = map[string]Spread{
	"Past-Present-Future": {
		Name:        "Past-Present-Future",
		Description: "A simple three-card spread showing the progression of your situation",
		Positions: []Position{
			{Position: 1, Meaning: "Past influences affecting your situation", TimeFrame: "Past"},
			{Position: 2, Meaning: "Current circumstances and energy", TimeFrame: "Present"},
			{Position: 3, Meaning: "Potential future outcomes", TimeFrame: "Future"},
		},
		TotalCards: 3,
	},
	"Celtic Cross": {
		Name:        "Celtic Cross",
		Description: "A comprehensive ten-card spread for detailed readings",
		Positions: []Position{
			{Position: 1, Meaning: "Present situation - what's happening now"},
			{Position: 2, Meaning: "Challenge - what's blocking you"},
			{Position: 3, Meaning: "Past foundation - what led to this"},
			{Position: 4, Meaning: "Recent past - what's just happened"},
			{Position: 5, Meaning: "Possible future - what could happen"},
			{Position: 6, Meaning: "Near future - what's coming soon"},
			{Position: 7, Meaning: "Your approach - how you're handling it"},
			{Position: 8, Meaning: "External influences - what others are doing"},
			{Position: 9, Meaning: "Hopes and fears - your inner thoughts"},
			{Position: 10, Meaning: "Final outcome - the resolution"},
		},
		TotalCards: 10,
	},
	"Relationship Spread": {
		Name:        "Relationship Spread",
		Description: "A seven-card spread specifically for relationship questions",
		Positions: []Position{
			{Position: 1, Meaning: "You in the relationship"},
			{Position: 2, Meaning: "Your partner in the relationship"},
			{Position: 3, Meaning: "What brings you together"},
			{Position: 4, Meaning: "What challenges you face"},
			{Position: 5, Meaning: "What you need to work on"},
			{Position: 6, Meaning: "What your partner needs to work on"},
			{Position: 7, Meaning: "The future of your relationship"},
		},
		TotalCards: 7,
	},
}

// GetSpread returns the spread called name, ignoring case
func GetSpread(name string) (Spread, bool) {
	if s, ok := spreads[name]; ok {
		return s, true
	}
	for key, s := range spreads {
		if strings.EqualFold(key, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Spread{}, false
}

// Spreads returns all spreads ordered by card count
func Spreads() []Spread {
	out := make([]Spread, 0, len(spreads))
	for _, s := range spreads {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalCards < out[j].TotalCards
	})
	return out
}
