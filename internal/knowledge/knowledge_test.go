package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEveryCatalogCardHasAMeaning(t *testing.T) {
	for _, c := range deck.Catalog() {
		m, ok := GetMeaning(c.Name)
		require.True(t, ok, c.Name)
		assert.Equal(t, c.Name, m.Name)
		assert.NotEmpty(t, m.Upright.Description, c.Name)
		if !c.IsMajor() {
			assert.NotEmpty(t, m.Element, c.Name)
		}
	}
	_, ok := GetMeaning("The Jester")
	assert.False(t, ok)
}

func TestDetailedMeaningWins(t *testing.T) {
	m, ok := GetMeaning("the fool")
	require.True(t, ok)
	assert.Equal(t, "Uranus", m.Planet)
	assert.Equal(t, Air, m.Element)
}

func TestInterpretInContext(t *testing.T) {
	fool, _ := GetMeaning("The Fool")
	tests := []struct {
		question string
		reversed bool
		want     string
	}{
		{"Will I find love?", false, fool.Upright.Love},
		{"How is my relationship?", true, fool.Reversed.Love},
		{"Should I change jobs?", false, fool.Upright.Career},
		{"What about my health?", false, fool.Upright.Health},
		{"Where is my spiritual path?", true, fool.Reversed.Spirituality},
		{"What should I know?", false, fool.Upright.Description},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretInContext(fool, tt.reversed, "Past", tt.question), tt.question)
	}

	sparse, _ := GetMeaning("Three of Wands")
	assert.Equal(t, sparse.Upright.Description, InterpretInContext(sparse, false, "", "love?"))
}

func TestElementalInfluence(t *testing.T) {
	assert.Equal(t, Water, DominantElement([]string{"Ace of Cups", "Two of Cups", "The Fool"}))
	assert.Equal(t, Fire, DominantElement([]string{"Ace of Wands", "Two of Wands"}))
	// ties go to the later element
	assert.Equal(t, Air, DominantElement([]string{"Ace of Wands", "Ace of Swords"}))
	assert.Equal(t, Earth, DominantElement(nil))

	e, ok := Element(Water)
	require.True(t, ok)
	assert.Equal(t, e.Description, ElementalInfluence([]string{"Ace of Cups"}))
}

func TestSpreads(t *testing.T) {
	all := Spreads()
	require.Len(t, all, 3)
	assert.Equal(t, []int{3, 7, 10}, []int{all[0].TotalCards, all[1].TotalCards, all[2].TotalCards})
	for _, s := range all {
		assert.Len(t, s.Positions, s.TotalCards, s.Name)
	}

	cc, ok := GetSpread("celtic cross")
	require.True(t, ok)
	assert.Equal(t, "Challenge", cc.Label(1))
	assert.Equal(t, "Card 11", cc.Label(10))

	ppf, _ := GetSpread("Past-Present-Future")
	assert.Equal(t, "Future", ppf.Label(2))

	rel, _ := GetSpread("Relationship Spread")
	assert.Equal(t, "Card 1", rel.Label(0))

	_, ok = GetSpread("Horseshoe")
	assert.False(t, ok)
}

func TestNumerology(t *testing.T) {
	s, ok := Numerology(7)
	require.True(t, ok)
	assert.Contains(t, s, "Spirituality")
	_, ok = Numerology(11)
	assert.False(t, ok)
}

func TestCompose(t *testing.T) {
	fool, _ := deck.Lookup("The Fool")
	seven, _ := deck.Lookup("Seven of Cups")
	seven.IsReversed = true
	star, _ := deck.Lookup("The Star")

	md := Compose("Should I change jobs?", "Past-Present-Future", []card.Card{fool, seven, star})
	assert.True(t, strings.HasPrefix(md, "# Should I change jobs?"))
	assert.Contains(t, md, "## 1. Past: 🎴 The Fool (Upright)")
	assert.Contains(t, md, "## 2. Present: 💧 Seven of Cups (Reversed)")
	assert.Contains(t, md, "New job opportunities")
	assert.Contains(t, md, "**Numerology (7):**")
	assert.Contains(t, md, "## Elemental influence:")

	unknown := Compose("", "Nope", []card.Card{fool})
	assert.Contains(t, unknown, "# Your reading")
	assert.Contains(t, unknown, "## 1. Card 1: ")
}
