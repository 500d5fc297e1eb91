// Package ledger is the client for the TarotReader contract: random draws,
// reading session lifecycle and user profiles.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/deck"
)

// Contract is the transport the client delegates to. Call performs a
// read-only call and returns the unpacked outputs; Transact submits a state
// changing call and returns once it has been accepted.
type Contract interface {
	Call(ctx context.Context, method string, params ...any) ([]any, error)
	Transact(ctx context.Context, method string, params ...any) error
	// Sender returns the wallet address writes are sent from, false when no
	// wallet is connected.
	Sender() (common.Address, bool)
}

// OutputTransactor is implemented by contracts that apply a write and return
// its outputs in one step.
type OutputTransactor interface {
	TransactOutputs(ctx context.Context, method string, params ...any) ([]any, error)
}

// Recorder receives per-call outcomes, typically a metrics collector
type Recorder interface {
	RecordLedgerCall(method, outcome string, d time.Duration)
}

// Client wraps a Contract with typed operations and uniform error handling
type Client struct {
	contract Contract
	logger   *zap.Logger
	recorder Recorder

	// startMu serialises simulated-then-sent starts from this client
	startMu sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger used to report failed calls
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the recorder for call outcomes
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient creates a client over contract
func NewClient(contract Contract, opts ...Option) *Client {
	c := &Client{
		contract: contract,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sender returns the connected wallet address, if any
func (c *Client) Sender() (common.Address, bool) {
	return c.contract.Sender()
}

// GetRandomNumber returns the contract's random value (1-100)
func (c *Client) GetRandomNumber(ctx context.Context) (uint64, error) {
	const op = "getRandomNumber"
	out, err := c.call(ctx, op, MethodGetRandomNumber)
	if err != nil {
		return 0, err
	}
	n, ok := firstAs[uint64](out)
	if !ok {
		return 0, c.badResult(op, out)
	}
	return n, nil
}

// DrawTarotCard draws a single card using the ledger's randomness
func (c *Client) DrawTarotCard(ctx context.Context) (DrawnCard, error) {
	const op = "drawTarotCard"
	out, err := c.call(ctx, op, MethodDrawTarotCard)
	if err != nil {
		return DrawnCard{}, err
	}
	if len(out) != 2 {
		return DrawnCard{}, c.badResult(op, out)
	}
	name, ok1 := out[0].(string)
	reversed, ok2 := out[1].(bool)
	if !ok1 || !ok2 {
		return DrawnCard{}, c.badResult(op, out)
	}
	return DrawnCard{Name: name, IsReversed: reversed}, nil
}

// DrawMultipleCards draws n cards using the ledger's randomness
func (c *Client) DrawMultipleCards(ctx context.Context, n int) ([]DrawnCard, error) {
	const op = "drawMultipleCards"
	if err := deck.ValidateCount(n); err != nil {
		return nil, c.fail(op, KindInvalidArgument, err)
	}
	out, err := c.call(ctx, op, MethodDrawMultipleCards, uint8(n))
	if err != nil {
		return nil, err
	}
	return c.cardPair(op, out)
}

// StartReading opens a session for question and returns its ledger-assigned id
func (c *Client) StartReading(ctx context.Context, question string) (SessionID, error) {
	const op = "startReading"
	if err := c.requireWallet(op); err != nil {
		return SessionID{}, err
	}

	if ot, ok := c.contract.(OutputTransactor); ok {
		out, err := c.transactOutputs(ctx, op, ot, MethodStartReading, question)
		if err != nil {
			return SessionID{}, err
		}
		raw, ok := firstAs[[32]byte](out)
		if !ok {
			return SessionID{}, c.badResult(op, out)
		}
		id := SessionID(raw)
		c.logger.Debug("reading started", zap.Stringer("session", id))
		return id, nil
	}

	// The id is a return value of a state-changing call, so it is read from a
	// call simulated from the sender before the transaction is sent, then
	// read back once mined.
	c.startMu.Lock()
	defer c.startMu.Unlock()

	out, err := c.call(ctx, op, MethodStartReading, question)
	if err != nil {
		return SessionID{}, err
	}
	raw, ok := firstAs[[32]byte](out)
	if !ok {
		return SessionID{}, c.badResult(op, out)
	}

	if err := c.transact(ctx, op, MethodStartReading, question); err != nil {
		return SessionID{}, err
	}

	id := SessionID(raw)
	if _, err := c.GetReadingSession(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return SessionID{}, c.fail(op, KindRejected,
				fmt.Errorf("session %s was not created, another start from the sender landed first", id))
		}
		return SessionID{}, err
	}
	c.logger.Debug("reading started", zap.Stringer("session", id))
	return id, nil
}

// PerformReading asks the ledger to draw numCards cards for a started session
func (c *Client) PerformReading(ctx context.Context, id SessionID, numCards int) error {
	const op = "performReading"
	if id.IsZero() {
		return c.fail(op, KindNotFound, errors.New("empty session id"))
	}
	if err := deck.ValidateCount(numCards); err != nil {
		return c.fail(op, KindInvalidArgument, err)
	}
	return c.transact(ctx, op, MethodPerformReading, [32]byte(id), uint8(numCards))
}

// CompleteReading attaches the interpretation and marks the session completed
func (c *Client) CompleteReading(ctx context.Context, id SessionID, interpretation string) error {
	const op = "completeReading"
	if id.IsZero() {
		return c.fail(op, KindNotFound, errors.New("empty session id"))
	}
	return c.transact(ctx, op, MethodCompleteReading, [32]byte(id), interpretation)
}

// SubscribeToDailyReadings subscribes the connected wallet to daily readings
func (c *Client) SubscribeToDailyReadings(ctx context.Context) error {
	return c.transact(ctx, "subscribeToDailyReadings", MethodSubscribeToDailyReadings)
}

// GetDailyReading returns today's cards for the connected wallet
func (c *Client) GetDailyReading(ctx context.Context) ([]DrawnCard, error) {
	const op = "getDailyReading"
	out, err := c.call(ctx, op, MethodGetDailyReading)
	if err != nil {
		return nil, err
	}
	return c.cardPair(op, out)
}

// SetFavoriteSpread stores the connected wallet's preferred spread
func (c *Client) SetFavoriteSpread(ctx context.Context, spread string) error {
	const op = "setFavoriteSpread"
	if spread == "" {
		return c.fail(op, KindInvalidArgument, errors.New("empty spread"))
	}
	return c.transact(ctx, op, MethodSetFavoriteSpread, spread)
}

// GetUserProfile reads the profile kept for address
func (c *Client) GetUserProfile(ctx context.Context, address common.Address) (UserProfile, error) {
	const op = "getUserProfile"
	out, err := c.call(ctx, op, MethodGetUserProfile, address)
	if err != nil {
		return UserProfile{}, err
	}
	if len(out) != 1 {
		return UserProfile{}, c.badResult(op, out)
	}
	tuple, ok := convert[ProfileTuple](out[0])
	if !ok {
		return UserProfile{}, c.badResult(op, out)
	}
	return UserProfile{
		FavoriteSpread:       tuple.FavoriteSpread,
		TotalReadings:        bigToUint64(tuple.TotalReadings),
		LastReadingTimestamp: bigToInt64(tuple.LastReadingTimestamp),
		HasSubscribed:        tuple.HasSubscribed,
		ReadingHistory:       tuple.ReadingHistory,
	}, nil
}

// GetReadingSession reads a session. A session the ledger has never seen
// comes back zero-valued and is reported as NotFound.
func (c *Client) GetReadingSession(ctx context.Context, id SessionID) (ReadingSession, error) {
	const op = "getReadingSession"
	out, err := c.call(ctx, op, MethodGetReadingSession, [32]byte(id))
	if err != nil {
		return ReadingSession{}, err
	}
	if len(out) != 1 {
		return ReadingSession{}, c.badResult(op, out)
	}
	tuple, ok := convert[SessionTuple](out[0])
	if !ok {
		return ReadingSession{}, c.badResult(op, out)
	}
	if tuple.Timestamp == nil || tuple.Timestamp.Sign() == 0 {
		return ReadingSession{}, c.fail(op, KindNotFound, fmt.Errorf("session %s", id))
	}
	if len(tuple.Cards) != len(tuple.Reversals) {
		return ReadingSession{}, c.badResult(op, out)
	}
	return ReadingSession{
		SessionID:      id,
		Question:       tuple.Question,
		Cards:          tuple.Cards,
		Reversals:      tuple.Reversals,
		Interpretation: tuple.Interpretation,
		Timestamp:      bigToInt64(tuple.Timestamp),
		IsCompleted:    tuple.IsCompleted,
	}, nil
}

// SessionState reports where a session is in its lifecycle
func (c *Client) SessionState(ctx context.Context, id SessionID) (State, error) {
	session, err := c.GetReadingSession(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return StateNotStarted, nil
	}
	if err != nil {
		return StateNotStarted, err
	}
	return session.State(), nil
}

func (c *Client) requireWallet(op string) error {
	if _, ok := c.contract.Sender(); !ok {
		return c.fail(op, KindNotConnected, ErrNotConnected)
	}
	return nil
}

func (c *Client) call(ctx context.Context, op, method string, params ...any) ([]any, error) {
	start := time.Now()
	out, err := c.contract.Call(ctx, method, params...)
	c.observe(method, err, start)
	if err != nil {
		return nil, c.fail(op, classify(err), err)
	}
	return out, nil
}

func (c *Client) transact(ctx context.Context, op, method string, params ...any) error {
	if err := c.requireWallet(op); err != nil {
		return err
	}
	start := time.Now()
	err := c.contract.Transact(ctx, method, params...)
	c.observe(method, err, start)
	if err != nil {
		return c.fail(op, classify(err), err)
	}
	return nil
}

func (c *Client) transactOutputs(ctx context.Context, op string, ot OutputTransactor, method string, params ...any) ([]any, error) {
	start := time.Now()
	out, err := ot.TransactOutputs(ctx, method, params...)
	c.observe(method, err, start)
	if err != nil {
		return nil, c.fail(op, classify(err), err)
	}
	return out, nil
}

func (c *Client) observe(method string, err error, start time.Time) {
	if c.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = classify(err).String()
	}
	c.recorder.RecordLedgerCall(method, outcome, time.Since(start))
}

func (c *Client) fail(op string, kind Kind, err error) error {
	c.logger.Error("ledger operation failed",
		zap.String("op", op),
		zap.Stringer("kind", kind),
		zap.Error(err))
	return &OperationFailed{Op: op, Kind: kind, Err: err}
}

func (c *Client) badResult(op string, out []any) error {
	return c.fail(op, KindTransportFailure, fmt.Errorf("unexpected result %#v", out))
}

func (c *Client) cardPair(op string, out []any) ([]DrawnCard, error) {
	if len(out) != 2 {
		return nil, c.badResult(op, out)
	}
	names, ok1 := out[0].([]string)
	reversals, ok2 := out[1].([]bool)
	if !ok1 || !ok2 || len(names) != len(reversals) {
		return nil, c.badResult(op, out)
	}
	return zipCards(names, reversals), nil
}

func firstAs[T any](out []any) (T, bool) {
	var zero T
	if len(out) != 1 {
		return zero, false
	}
	v, ok := out[0].(T)
	return v, ok
}

// convert turns an unpacked ABI tuple (an anonymous struct) into T
func convert[T any](v any) (result T, ok bool) {
	if direct, isT := v.(T); isT {
		return direct, true
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	converted, isT := abi.ConvertType(v, new(T)).(*T)
	if !isT {
		return result, false
	}
	return *converted, true
}

// SeedFromChain derives a deck seed from several ledger random numbers so
// local draws can use the contract's randomness.
func SeedFromChain(ctx context.Context, c *Client) (int64, error) {
	seed := new(big.Int)
	for i := 0; i < 8; i++ {
		n, err := c.GetRandomNumber(ctx)
		if err != nil {
			return 0, err
		}
		seed.Mul(seed, big.NewInt(101))
		seed.Add(seed, new(big.Int).SetUint64(n))
	}
	seed.Add(seed, big.NewInt(time.Now().UnixNano()))
	return seed.Int64(), nil
}
