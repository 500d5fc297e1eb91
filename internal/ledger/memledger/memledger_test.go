package memledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/ledger"
)

var owner = common.HexToAddress("0x1111111111111111111111111111111111111111")

func TestSimulatedStartMatchesTransaction(t *testing.T) {
	ctx := context.Background()
	l := New(WithRandom(rand.New(rand.NewSource(7))))
	acct := l.As(owner)

	out, err := acct.Call(ctx, ledger.MethodStartReading, "what now")
	require.NoError(t, err)
	predicted := out[0].([32]byte)

	require.NoError(t, acct.Transact(ctx, ledger.MethodStartReading, "what now"))
	_, ok := l.sessions[predicted]
	assert.True(t, ok)

	// the same question again gets a fresh id
	out, err = acct.Call(ctx, ledger.MethodStartReading, "what now")
	require.NoError(t, err)
	assert.NotEqual(t, predicted, out[0].([32]byte))
}

func TestDrawReturnsCatalogNames(t *testing.T) {
	ctx := context.Background()
	acct := New().ReadOnly()

	out, err := acct.Call(ctx, ledger.MethodDrawMultipleCards, uint8(deck.Size))
	require.NoError(t, err)
	names := out[0].([]string)
	require.Len(t, names, deck.Size)
	for _, name := range names {
		_, err := deck.Lookup(name)
		assert.NoError(t, err, name)
	}

	_, err = acct.Call(ctx, ledger.MethodDrawMultipleCards, uint8(0))
	var revert *ledger.RevertError
	assert.ErrorAs(t, err, &revert)
}

func TestArgumentChecks(t *testing.T) {
	ctx := context.Background()
	acct := New().As(owner)

	_, err := acct.Call(ctx, ledger.MethodDrawMultipleCards, 3)
	assert.Error(t, err)
	assert.Error(t, acct.Transact(ctx, ledger.MethodSetFavoriteSpread))
	_, err = acct.Call(ctx, "burn")
	assert.Error(t, err)
}

func TestDailyChangesWithDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return now }))
	acct := l.As(owner)
	require.NoError(t, acct.Transact(ctx, ledger.MethodSubscribeToDailyReadings))

	first, err := acct.Call(ctx, ledger.MethodGetDailyReading)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	same, err := acct.Call(ctx, ledger.MethodGetDailyReading)
	require.NoError(t, err)
	assert.Equal(t, first, same)

	now = now.Add(24 * time.Hour)
	next, err := acct.Call(ctx, ledger.MethodGetDailyReading)
	require.NoError(t, err)
	assert.Len(t, next[0].([]string), DailyCards)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	acct := New().As(owner)

	_, err := acct.Call(ctx, ledger.MethodGetRandomNumber)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, acct.Transact(ctx, ledger.MethodStartReading, "q"), context.Canceled)
}
