// Package memledger is an in-process TarotReader contract. It backs offline
// mode and tests, answering the same methods with the same result shapes as
// the deployed contract.
package memledger

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/ledger"
)

// DailyCards is the size of a daily reading
const DailyCards = 3

type session struct {
	owner          common.Address
	question       string
	cards          []string
	reversals      []bool
	interpretation string
	timestamp      int64
	completed      bool
}

type profile struct {
	favoriteSpread string
	totalReadings  uint64
	lastReading    int64
	subscribed     bool
	history        []string
}

// Ledger holds all contract state
type Ledger struct {
	mu       sync.Mutex
	engine   *deck.Engine
	rng      deck.RandomSource
	now      func() time.Time
	sessions map[[32]byte]*session
	profiles map[common.Address]*profile
	salts    map[common.Address]uuid.UUID
}

// Option configures a Ledger
type Option func(*Ledger)

// WithRandom sets the ledger's own randomness source
func WithRandom(src deck.RandomSource) Option {
	return func(l *Ledger) {
		l.rng = src
	}
}

// WithClock overrides the block timestamp source
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates an empty ledger
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:      time.Now,
		sessions: make(map[[32]byte]*session),
		profiles: make(map[common.Address]*profile),
		salts:    make(map[common.Address]uuid.UUID),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	l.engine = deck.NewEngine(l.rng)
	return l
}

// As returns a Contract sending from addr
func (l *Ledger) As(addr common.Address) *Account {
	return &Account{ledger: l, from: addr, connected: true}
}

// ReadOnly returns a Contract with no wallet
func (l *Ledger) ReadOnly() *Account {
	return &Account{ledger: l}
}

// Account is a view of the ledger from one sender. It implements ledger.Contract.
type Account struct {
	ledger    *Ledger
	from      common.Address
	connected bool
}

// Sender implements ledger.Contract
func (a *Account) Sender() (common.Address, bool) {
	return a.from, a.connected
}

// Call implements ledger.Contract. State-changing methods are simulated:
// they are validated and return their outputs without modifying state.
func (a *Account) Call(ctx context.Context, method string, params ...any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := a.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	switch method {
	case ledger.MethodGetRandomNumber:
		return []any{uint64(l.rng.Intn(100) + 1)}, nil

	case ledger.MethodDrawTarotCard:
		drawn, err := l.engine.DrawCards(1)
		if err != nil {
			return nil, err
		}
		return []any{drawn[0].Name, drawn[0].IsReversed}, nil

	case ledger.MethodDrawMultipleCards:
		var n uint8
		if err := bind(params, &n); err != nil {
			return nil, err
		}
		names, reversals, err := l.draw(int(n))
		if err != nil {
			return nil, err
		}
		return []any{names, reversals}, nil

	case ledger.MethodStartReading:
		var question string
		if err := bind(params, &question); err != nil {
			return nil, err
		}
		if !a.connected {
			return nil, revert("sender required")
		}
		return []any{l.nextSessionID(a.from, question)}, nil

	case ledger.MethodGetDailyReading:
		names, reversals, err := l.daily(a.from)
		if err != nil {
			return nil, err
		}
		return []any{names, reversals}, nil

	case ledger.MethodGetUserProfile:
		var addr common.Address
		if err := bind(params, &addr); err != nil {
			return nil, err
		}
		return []any{l.profileTuple(addr)}, nil

	case ledger.MethodGetReadingSession:
		var id [32]byte
		if err := bind(params, &id); err != nil {
			return nil, err
		}
		return []any{l.sessionTuple(id)}, nil

	case ledger.MethodPerformReading, ledger.MethodCompleteReading,
		ledger.MethodSubscribeToDailyReadings, ledger.MethodSetFavoriteSpread:
		return []any{}, nil
	}

	return nil, fmt.Errorf("method %q not found in ABI", method)
}

// Transact implements ledger.Contract
func (a *Account) Transact(ctx context.Context, method string, params ...any) error {
	_, err := a.TransactOutputs(ctx, method, params...)
	return err
}

// TransactOutputs implements ledger.OutputTransactor. The write and its
// outputs come from the same locked step, so a started session's id is the
// one actually created.
func (a *Account) TransactOutputs(ctx context.Context, method string, params ...any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.connected {
		return nil, ledger.ErrNotConnected
	}
	l := a.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	switch method {
	case ledger.MethodStartReading:
		var question string
		if err := bind(params, &question); err != nil {
			return nil, err
		}
		id := l.nextSessionID(a.from, question)
		l.sessions[id] = &session{
			owner:     a.from,
			question:  question,
			timestamp: l.now().Unix(),
		}
		l.salts[a.from] = uuid.New()
		return []any{id}, nil

	case ledger.MethodPerformReading:
		var id [32]byte
		var n uint8
		if err := bind(params, &id, &n); err != nil {
			return nil, err
		}
		s, err := l.owned(id, a.from)
		if err != nil {
			return nil, err
		}
		if s.completed {
			return nil, revert("session already completed")
		}
		if len(s.cards) > 0 {
			return nil, revert("cards already drawn")
		}
		names, reversals, err := l.draw(int(n))
		if err != nil {
			return nil, err
		}
		s.cards, s.reversals = names, reversals
		return []any{}, nil

	case ledger.MethodCompleteReading:
		var id [32]byte
		var interpretation string
		if err := bind(params, &id, &interpretation); err != nil {
			return nil, err
		}
		s, err := l.owned(id, a.from)
		if err != nil {
			return nil, err
		}
		if s.completed {
			return nil, revert("session already completed")
		}
		if len(s.cards) == 0 {
			return nil, revert("cards not drawn")
		}
		s.interpretation = interpretation
		s.completed = true

		p := l.profile(a.from)
		p.totalReadings++
		p.lastReading = l.now().Unix()
		p.history = append(p.history, common.Hash(id).Hex())
		return []any{}, nil

	case ledger.MethodSubscribeToDailyReadings:
		if err := bind(params); err != nil {
			return nil, err
		}
		l.profile(a.from).subscribed = true
		return []any{}, nil

	case ledger.MethodSetFavoriteSpread:
		var spread string
		if err := bind(params, &spread); err != nil {
			return nil, err
		}
		l.profile(a.from).favoriteSpread = spread
		return []any{}, nil

	case ledger.MethodGetRandomNumber, ledger.MethodDrawTarotCard, ledger.MethodDrawMultipleCards,
		ledger.MethodGetDailyReading, ledger.MethodGetUserProfile, ledger.MethodGetReadingSession:
		// view functions cost gas but change nothing
		return []any{}, nil
	}

	return nil, fmt.Errorf("method %q not found in ABI", method)
}

func (l *Ledger) draw(n int) ([]string, []bool, error) {
	if n < 1 || n > deck.Size {
		return nil, nil, revert("invalid number of cards")
	}
	drawn, err := l.engine.DrawCards(n)
	if err != nil {
		return nil, nil, revert(err.Error())
	}
	names := make([]string, len(drawn))
	reversals := make([]bool, len(drawn))
	for i, c := range drawn {
		names[i] = c.Name
		reversals[i] = c.IsReversed
	}
	return names, reversals, nil
}

// daily draws the day's cards for addr from a seed fixed by address and day
func (l *Ledger) daily(addr common.Address) ([]string, []bool, error) {
	p, ok := l.profiles[addr]
	if !ok || !p.subscribed {
		return nil, nil, revert("not subscribed to daily readings")
	}

	day := uint64(l.now().UTC().Unix() / 86400)
	var dayBytes [8]byte
	binary.BigEndian.PutUint64(dayBytes[:], day)
	seed := crypto.Keccak256Hash(addr.Bytes(), dayBytes[:])

	drawn, err := deck.NewSeededEngine(new(big.Int).SetBytes(seed[:8]).Int64()).DrawCards(DailyCards)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(drawn))
	reversals := make([]bool, len(drawn))
	for i, c := range drawn {
		names[i] = c.Name
		reversals[i] = c.IsReversed
	}
	return names, reversals, nil
}

// nextSessionID is the id the next startReading from addr will receive
func (l *Ledger) nextSessionID(addr common.Address, question string) [32]byte {
	salt, ok := l.salts[addr]
	if !ok {
		salt = uuid.New()
		l.salts[addr] = salt
	}
	return crypto.Keccak256Hash(addr.Bytes(), salt[:], []byte(question))
}

func (l *Ledger) owned(id [32]byte, from common.Address) (*session, error) {
	s, ok := l.sessions[id]
	if !ok {
		return nil, revert("session does not exist")
	}
	if s.owner != from {
		return nil, revert("not session owner")
	}
	return s, nil
}

func (l *Ledger) profile(addr common.Address) *profile {
	p, ok := l.profiles[addr]
	if !ok {
		p = &profile{}
		l.profiles[addr] = p
	}
	return p
}

func (l *Ledger) profileTuple(addr common.Address) ledger.ProfileTuple {
	p, ok := l.profiles[addr]
	if !ok {
		return ledger.ProfileTuple{TotalReadings: new(big.Int), LastReadingTimestamp: new(big.Int), ReadingHistory: []string{}}
	}
	return ledger.ProfileTuple{
		FavoriteSpread:       p.favoriteSpread,
		TotalReadings:        new(big.Int).SetUint64(p.totalReadings),
		LastReadingTimestamp: big.NewInt(p.lastReading),
		HasSubscribed:        p.subscribed,
		ReadingHistory:       append([]string{}, p.history...),
	}
}

func (l *Ledger) sessionTuple(id [32]byte) ledger.SessionTuple {
	s, ok := l.sessions[id]
	if !ok {
		return ledger.SessionTuple{Cards: []string{}, Reversals: []bool{}, Timestamp: new(big.Int)}
	}
	return ledger.SessionTuple{
		Question:       s.question,
		Cards:          append([]string{}, s.cards...),
		Reversals:      append([]bool{}, s.reversals...),
		Interpretation: s.interpretation,
		Timestamp:      big.NewInt(s.timestamp),
		IsCompleted:    s.completed,
	}
}

func revert(reason string) error {
	return &ledger.RevertError{Reason: reason}
}

// bind copies params into targets, failing like ABI packing would on a
// count or type mismatch.
func bind(params []any, targets ...any) error {
	if len(params) != len(targets) {
		return fmt.Errorf("argument count mismatch: got %d for %d", len(params), len(targets))
	}
	for i, p := range params {
		var ok bool
		switch t := targets[i].(type) {
		case *string:
			*t, ok = p.(string)
		case *uint8:
			*t, ok = p.(uint8)
		case *[32]byte:
			*t, ok = p.([32]byte)
		case *common.Address:
			*t, ok = p.(common.Address)
		}
		if !ok {
			return fmt.Errorf("cannot use %T as argument %d", p, i)
		}
	}
	return nil
}
