package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Backend is what EthContract needs from a chain connection. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// EthContract is the JSON-RPC Contract implementation
type EthContract struct {
	address common.Address
	bound   *bind.BoundContract
	backend Backend
	signer  *bind.TransactOpts
}

// NewEthContract binds the TarotReader ABI at address. signer may be nil for
// a read-only contract.
func NewEthContract(backend Backend, address common.Address, signer *bind.TransactOpts) (*EthContract, error) {
	parsed, err := ABI()
	if err != nil {
		return nil, err
	}
	return &EthContract{
		address: address,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		signer:  signer,
	}, nil
}

// DialEth connects to rpcURL and binds the contract at address
func DialEth(ctx context.Context, rpcURL string, address common.Address, signer *bind.TransactOpts) (*EthContract, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	contract, err := NewEthContract(client, address, signer)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return contract, client, nil
}

// Address returns the bound contract address
func (e *EthContract) Address() common.Address {
	return e.address
}

// Sender implements Contract
func (e *EthContract) Sender() (common.Address, bool) {
	if e.signer == nil {
		return common.Address{}, false
	}
	return e.signer.From, true
}

// Call implements Contract with an eth_call from the signer when present
func (e *EthContract) Call(ctx context.Context, method string, params ...any) ([]any, error) {
	opts := &bind.CallOpts{Context: ctx}
	if e.signer != nil {
		opts.From = e.signer.From
	}

	var out []any
	if err := e.bound.Call(opts, &out, method, params...); err != nil {
		return nil, revertFrom(err)
	}
	return out, nil
}

// Transact implements Contract: it signs, sends and waits for the receipt
func (e *EthContract) Transact(ctx context.Context, method string, params ...any) error {
	if e.signer == nil {
		return ErrNotConnected
	}

	opts := *e.signer
	opts.Context = ctx
	tx, err := e.bound.Transact(&opts, method, params...)
	if err != nil {
		return revertFrom(err)
	}

	receipt, err := bind.WaitMined(ctx, e.backend, tx)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return &RevertError{Reason: fmt.Sprintf("%s transaction %s failed", method, tx.Hash().Hex())}
	}
	return nil
}

// revertFrom extracts a revert reason from an RPC error when one is present
func revertFrom(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(hexData); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return &RevertError{Reason: reason}
				}
			}
		}
	}

	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx:], "execution reverted")
		return &RevertError{Reason: strings.TrimSpace(strings.TrimPrefix(reason, ":"))}
	}
	return err
}
