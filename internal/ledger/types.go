package ledger

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SessionID is the ledger-assigned bytes32 key of a reading session
type SessionID [32]byte

// String renders the id as 0x-prefixed hex
func (id SessionID) String() string {
	return hexutil.Encode(id[:])
}

// IsZero reports whether id is the zero value
func (id SessionID) IsZero() bool {
	return id == SessionID{}
}

// MarshalText implements encoding.TextMarshaler
func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *SessionID) UnmarshalText(text []byte) error {
	parsed, err := ParseSessionID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseSessionID parses a 0x-prefixed 32-byte hex string
func ParseSessionID(s string) (SessionID, error) {
	var id SessionID
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return id, fmt.Errorf("invalid session id %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid session id %q: want %d bytes, got %d", s, len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// DrawnCard is a card name and orientation as returned by the ledger
type DrawnCard struct {
	Name       string `json:"name" yaml:"name"`
	IsReversed bool   `json:"isReversed" yaml:"reversed"`
}

// State is the lifecycle position of a reading session
type State int

const (
	StateNotStarted State = iota
	StateStarted
	StateDrawn
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarted:
		return "started"
	case StateDrawn:
		return "drawn"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ReadingSession is one question-to-interpretation reading as stored on the ledger
type ReadingSession struct {
	SessionID      SessionID `json:"sessionId" yaml:"session_id"`
	Question       string    `json:"question" yaml:"question"`
	Cards          []string  `json:"cards" yaml:"cards"`
	Reversals      []bool    `json:"reversals" yaml:"reversals"`
	Interpretation string    `json:"interpretation" yaml:"interpretation"`
	Timestamp      int64     `json:"timestamp" yaml:"timestamp"`
	IsCompleted    bool      `json:"isCompleted" yaml:"completed"`
}

// State derives the lifecycle position from the stored fields
func (s ReadingSession) State() State {
	switch {
	case s.IsCompleted:
		return StateCompleted
	case len(s.Cards) > 0:
		return StateDrawn
	default:
		return StateStarted
	}
}

// DrawnCards pairs each card with its reversal flag
func (s ReadingSession) DrawnCards() []DrawnCard {
	return zipCards(s.Cards, s.Reversals)
}

// UserProfile is the per-address projection kept by the ledger
type UserProfile struct {
	FavoriteSpread       string   `json:"favoriteSpread" yaml:"favorite_spread"`
	TotalReadings        uint64   `json:"totalReadings" yaml:"total_readings"`
	LastReadingTimestamp int64    `json:"lastReadingTimestamp" yaml:"last_reading_timestamp"`
	HasSubscribed        bool     `json:"hasSubscribed" yaml:"has_subscribed"`
	ReadingHistory       []string `json:"readingHistory" yaml:"reading_history"`
}

// ProfileTuple mirrors the ABI tuple returned by getUserProfile. Field names
// and types must match what go-ethereum unpacks so values convert directly.
type ProfileTuple struct {
	FavoriteSpread       string
	TotalReadings        *big.Int
	LastReadingTimestamp *big.Int
	HasSubscribed        bool
	ReadingHistory       []string
}

// SessionTuple mirrors the ABI tuple returned by getReadingSession
type SessionTuple struct {
	Question       string
	Cards          []string
	Reversals      []bool
	Interpretation string
	Timestamp      *big.Int
	IsCompleted    bool
}

func zipCards(names []string, reversals []bool) []DrawnCard {
	cards := make([]DrawnCard, len(names))
	for i, name := range names {
		cards[i] = DrawnCard{Name: name, IsReversed: i < len(reversals) && reversals[i]}
	}
	return cards
}

func bigToInt64(v *big.Int) int64 {
	if v == nil || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

func bigToUint64(v *big.Int) uint64 {
	if v == nil || !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}
