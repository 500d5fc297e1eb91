// Package wallet holds the signing key reading sessions are written from
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/arcanaland/seer/internal/ledger"
)

// BalanceReader is the part of a chain client needed to read balances.
// *ethclient.Client satisfies it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Wallet is a connectable signing identity. The zero value is disconnected.
type Wallet struct {
	mu  sync.RWMutex
	key *ecdsa.PrivateKey
}

// New returns a disconnected wallet
func New() *Wallet {
	return &Wallet{}
}

// ConnectHex connects using a hex encoded secp256k1 private key
func (w *Wallet) ConnectHex(hexKey string) error {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	w.connect(key)
	return nil
}

// ConnectKeystore connects using an encrypted keystore file
func (w *Wallet) ConnectKeystore(path, passphrase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return fmt.Errorf("failed to decrypt keystore %s: %w", path, err)
	}
	w.connect(key.PrivateKey)
	return nil
}

func (w *Wallet) connect(key *ecdsa.PrivateKey) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = key
}

// Disconnect forgets the key
func (w *Wallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = nil
}

// IsConnected reports whether a key is loaded
func (w *Wallet) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.key != nil
}

// Address returns the wallet address, false when disconnected
func (w *Wallet) Address() (common.Address, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.key == nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(w.key.PublicKey), true
}

// TransactOpts returns a signer for chainID
func (w *Wallet) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.key == nil {
		return nil, ledger.ErrNotConnected
	}
	return bind.NewKeyedTransactorWithChainID(w.key, chainID)
}

// Balance reads the wallet's native balance at the latest block
func (w *Wallet) Balance(ctx context.Context, reader BalanceReader) (*big.Int, error) {
	addr, ok := w.Address()
	if !ok {
		return nil, ledger.ErrNotConnected
	}
	balance, err := reader.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance of %s: %w", addr.Hex(), err)
	}
	return balance, nil
}
