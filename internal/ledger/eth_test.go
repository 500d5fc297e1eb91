package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/ledger/memledger"
)

var testChainID = big.NewInt(1337)

// abiBackend serves contract traffic by decoding calldata with the
// TarotReader ABI, applying it to an in-process ledger and packing the
// results back, the way a node would.
type abiBackend struct {
	ledger.Backend

	abi    abi.ABI
	ledger *memledger.Ledger

	mu       sync.Mutex
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt

	// beforeSend runs ahead of each transaction being applied
	beforeSend func(method string)
}

func newABIBackend(t *testing.T, l *memledger.Ledger) *abiBackend {
	t.Helper()
	parsed, err := ledger.ABI()
	require.NoError(t, err)
	return &abiBackend{
		abi:      parsed,
		ledger:   l,
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (b *abiBackend) decode(data []byte) (*abi.Method, []any, error) {
	if len(data) < 4 {
		return nil, nil, errors.New("short calldata")
	}
	m, err := b.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := m.Inputs.Unpack(data[4:])
	return m, args, err
}

func (b *abiBackend) CallContract(ctx context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	m, args, err := b.decode(call.Data)
	if err != nil {
		return nil, err
	}
	out, err := b.ledger.As(call.From).Call(ctx, m.Name, args...)
	if err != nil {
		return nil, err
	}
	return m.Outputs.Pack(out...)
}

func (b *abiBackend) PendingNonceAt(_ context.Context, addr common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[addr], nil
}

func (b *abiBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	if err != nil {
		return err
	}
	m, args, err := b.decode(tx.Data())
	if err != nil {
		return err
	}
	if b.beforeSend != nil {
		b.beforeSend(m.Name)
	}

	status := types.ReceiptStatusSuccessful
	if err := b.ledger.As(from).Transact(ctx, m.Name, args...); err != nil {
		status = types.ReceiptStatusFailed
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nonces[from]++
	b.receipts[tx.Hash()] = &types.Receipt{Status: status, TxHash: tx.Hash()}
	return nil
}

func (b *abiBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func testSigner(t *testing.T) *bind.TransactOpts {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	opts, err := bind.NewKeyedTransactorWithChainID(key, testChainID)
	require.NoError(t, err)
	opts.GasPrice = big.NewInt(1)
	opts.GasLimit = 1_000_000
	return opts
}

var contractAddress = common.HexToAddress("0x00000000000000000000000000000000007a7070")

func TestEthContractSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)
	backend := newABIBackend(t, newLedger())
	contract, err := ledger.NewEthContract(backend, contractAddress, signer)
	require.NoError(t, err)
	client := ledger.NewClient(contract)

	id, err := client.StartReading(ctx, "Where is this going?")
	require.NoError(t, err)

	state, err := client.SessionState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ledger.StateStarted, state)

	require.NoError(t, client.PerformReading(ctx, id, 3))
	require.NoError(t, client.CompleteReading(ctx, id, "Forward."))

	session, err := client.GetReadingSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Where is this going?", session.Question)
	assert.Len(t, session.Cards, 3)
	assert.Len(t, session.Reversals, 3)
	assert.Equal(t, "Forward.", session.Interpretation)
	assert.Equal(t, int64(1700000000), session.Timestamp)
	assert.True(t, session.IsCompleted)

	profile, err := client.GetUserProfile(ctx, signer.From)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.TotalReadings)
	assert.Equal(t, int64(1700000000), profile.LastReadingTimestamp)
	assert.Equal(t, []string{common.Hash(id).Hex()}, profile.ReadingHistory)

	cards, err := client.DrawMultipleCards(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, cards, 5)

	n, err := client.GetRandomNumber(ctx)
	require.NoError(t, err)
	assert.True(t, n >= 1 && n <= 100)
}

func TestEthContractFailedReceiptIsRejected(t *testing.T) {
	ctx := context.Background()
	contract, err := ledger.NewEthContract(newABIBackend(t, newLedger()), contractAddress, testSigner(t))
	require.NoError(t, err)
	client := ledger.NewClient(contract)

	id, err := client.StartReading(ctx, "q")
	require.NoError(t, err)
	require.NoError(t, client.PerformReading(ctx, id, 1))

	err = client.PerformReading(ctx, id, 1)
	assert.ErrorIs(t, err, ledger.ErrRejected)
}

func TestEthContractWithoutSigner(t *testing.T) {
	ctx := context.Background()
	contract, err := ledger.NewEthContract(newABIBackend(t, newLedger()), contractAddress, nil)
	require.NoError(t, err)
	client := ledger.NewClient(contract)

	_, err = client.StartReading(ctx, "q")
	assert.ErrorIs(t, err, ledger.ErrNotConnected)

	profile, err := client.GetUserProfile(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, profile.TotalReadings)
	assert.Empty(t, profile.ReadingHistory)
}

func TestInterleavedStartIsNotReportedAsCreated(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	signer := testSigner(t)
	backend := newABIBackend(t, l)
	contract, err := ledger.NewEthContract(backend, contractAddress, signer)
	require.NoError(t, err)
	client := ledger.NewClient(contract)

	// another client of the same sender lands a start between the simulated
	// call and the transaction
	var other ledger.SessionID
	backend.beforeSend = func(method string) {
		if method != ledger.MethodStartReading || !other.IsZero() {
			return
		}
		other, err = ledger.NewClient(l.As(signer.From)).StartReading(ctx, "elsewhere")
		require.NoError(t, err)
	}

	_, err = client.StartReading(ctx, "here")
	assert.ErrorIs(t, err, ledger.ErrRejected)

	session, err := client.GetReadingSession(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", session.Question)

	// without interference the next start succeeds and exists
	id, err := client.StartReading(ctx, "again")
	require.NoError(t, err)
	require.NoError(t, client.PerformReading(ctx, id, 1))
}
