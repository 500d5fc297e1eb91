package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/arcanaland/seer/internal/card"
)

// ReversalChance is the probability that a drawn card comes up reversed
const ReversalChance = 0.3

var (
	// ErrInvalidCount is returned when a draw asks for fewer than 1 or more than 78 cards
	ErrInvalidCount = errors.New("card count out of range")
	// ErrCardNotFound is returned by Lookup for unknown names and IDs
	ErrCardNotFound = errors.New("card not found")
)

// RandomSource is the randomness a draw consumes. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Engine shuffles and draws from the static catalog
type Engine struct {
	rng RandomSource
}

// NewEngine creates an engine drawing from src
func NewEngine(src RandomSource) *Engine {
	return &Engine{rng: src}
}

// NewSeededEngine creates an engine with a reproducible math/rand source
func NewSeededEngine(seed int64) *Engine {
	return NewEngine(rand.New(rand.NewSource(seed)))
}

// NewDefaultEngine creates an engine seeded from the clock
func NewDefaultEngine() *Engine {
	return NewSeededEngine(time.Now().UnixNano())
}

// ShuffleDeck returns all catalog entries in a uniformly random order
func (e *Engine) ShuffleDeck() []card.Card {
	shuffled := Catalog()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DrawCards shuffles the full deck and returns the first n cards, each
// independently reversed with probability ReversalChance.
func (e *Engine) DrawCards(n int) ([]card.Card, error) {
	if err := ValidateCount(n); err != nil {
		return nil, err
	}

	drawn := e.ShuffleDeck()[:n]
	for i := range drawn {
		drawn[i].IsReversed = e.rng.Float64() < ReversalChance
	}
	return drawn, nil
}

// ValidateCount checks that n cards can be drawn from one deck
func ValidateCount(n int) error {
	if n < 1 || n > Size {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidCount, n, Size)
	}
	return nil
}
