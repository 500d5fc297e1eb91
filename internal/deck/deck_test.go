package deck

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arcanaland/seer/internal/card"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubSource always picks index 0 and returns a fixed float
type stubSource struct {
	float float64
}

func (s stubSource) Intn(int) int      { return 0 }
func (s stubSource) Float64() float64 { return s.float }

func names(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func TestCatalogShape(t *testing.T) {
	cards := Catalog()
	require.Len(t, cards, Size)

	bySuit := map[string]int{}
	seenNames := map[string]bool{}
	seenIDs := map[string]bool{}
	for _, c := range cards {
		bySuit[c.Suit]++
		assert.False(t, seenNames[c.Name], "duplicate name %s", c.Name)
		assert.False(t, seenIDs[c.ID], "duplicate id %s", c.ID)
		assert.False(t, c.IsReversed)
		assert.NotEmpty(t, c.Keywords)
		seenNames[c.Name] = true
		seenIDs[c.ID] = true
	}

	assert.Equal(t, 22, bySuit[card.SuitMajor])
	for _, suit := range []string{card.SuitWands, card.SuitCups, card.SuitSwords, card.SuitPentacles} {
		assert.Equal(t, 14, bySuit[suit], suit)
	}

	assert.Equal(t, "major_arcana.00", cards[0].ID)
	assert.Equal(t, "minor_arcana.pentacles.king", cards[Size-1].ID)
}

func TestDrawCardsReturnsDistinctCards(t *testing.T) {
	e := NewSeededEngine(42)
	for n := 1; n <= Size; n++ {
		drawn, err := e.DrawCards(n)
		require.NoError(t, err)
		require.Len(t, drawn, n)

		seen := make(map[string]bool, n)
		for _, c := range drawn {
			require.False(t, seen[c.Name], "n=%d drew %s twice", n, c.Name)
			seen[c.Name] = true
		}
	}
}

func TestDrawCardsRejectsOutOfRange(t *testing.T) {
	e := NewSeededEngine(1)
	for _, n := range []int{-1, 0, Size + 1, 255} {
		_, err := e.DrawCards(n)
		assert.ErrorIs(t, err, ErrInvalidCount, "n=%d", n)
	}
}

func TestReversalRateConverges(t *testing.T) {
	e := NewSeededEngine(7)
	const trials = 2000

	reversed, total := 0, 0
	for i := 0; i < trials; i++ {
		drawn, err := e.DrawCards(Size)
		require.NoError(t, err)
		for _, c := range drawn {
			total++
			if c.IsReversed {
				reversed++
			}
		}
	}

	rate := float64(reversed) / float64(total)
	assert.InDelta(t, ReversalChance, rate, 0.01)
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	e := NewSeededEngine(99)
	shuffled := names(e.ShuffleDeck())
	want := names(Catalog())

	require.Len(t, shuffled, Size)
	sort.Strings(shuffled)
	sort.Strings(want)
	if diff := cmp.Diff(want, shuffled); diff != "" {
		t.Errorf("shuffle is not a permutation of the catalog (-want +got):\n%s", diff)
	}
}

func TestSeededDrawIsReproducible(t *testing.T) {
	first, err := NewSeededEngine(2024).DrawCards(3)
	require.NoError(t, err)
	second, err := NewSeededEngine(2024).DrawCards(3)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different hands (-first +second):\n%s", diff)
	}
}

func TestDrawWithStubSource(t *testing.T) {
	// Always swapping with index 0 rotates the catalog left by one.
	drawn, err := NewEngine(stubSource{float: 0.5}).DrawCards(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Magician", "The High Priestess", "The Empress"}, names(drawn))
	for _, c := range drawn {
		assert.False(t, c.IsReversed)
	}

	drawn, err = NewEngine(stubSource{float: 0.1}).DrawCards(2)
	require.NoError(t, err)
	for _, c := range drawn {
		assert.True(t, c.IsReversed)
	}
}

func TestDrawDoesNotMutateCatalog(t *testing.T) {
	e := NewEngine(stubSource{float: 0})
	drawn, err := e.DrawCards(Size)
	require.NoError(t, err)
	drawn[0].Keywords[0] = "changed"

	for _, c := range Catalog() {
		assert.False(t, c.IsReversed, c.Name)
		assert.NotContains(t, c.Keywords, "changed")
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("the fool")
	require.NoError(t, err)
	assert.Equal(t, "major_arcana.00", c.ID)

	c, err = Lookup("minor_arcana.cups.queen")
	require.NoError(t, err)
	assert.Equal(t, "Queen of Cups", c.Name)
	assert.Equal(t, "💧", c.Emoji())

	_, err = Lookup("The Jester")
	assert.ErrorIs(t, err, ErrCardNotFound)
}
