package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/archive"
	"github.com/arcanaland/seer/internal/config"
	"github.com/arcanaland/seer/internal/ipfs"
	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/ledger/memledger"
	"github.com/arcanaland/seer/internal/metrics"
	"github.com/arcanaland/seer/internal/settings"
	"github.com/arcanaland/seer/internal/store"
	"github.com/arcanaland/seer/internal/userdata"
	"github.com/arcanaland/seer/internal/wallet"
)

// environment holds what commands share. Services are opened on first use
// so that commands like `cards` never touch the network or the database.
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	offline  bool
	registry *prometheus.Registry
	metrics  *metrics.Collector
	wallet   *wallet.Wallet
	applier  *settings.TerminalApplier

	store    *store.Store
	eth      *ethclient.Client
	ledger   *ledger.Client
	settings *settings.Manager
}

func newEnvironment(cfg *config.Config, logger *zap.Logger, offline bool, privateKey string) (*environment, error) {
	registry := prometheus.NewRegistry()
	e := &environment{
		cfg:      cfg,
		logger:   logger,
		offline:  offline,
		registry: registry,
		metrics:  metrics.NewCollector(registry),
		wallet:   wallet.New(),
		applier:  &settings.TerminalApplier{},
	}

	switch {
	case privateKey != "":
		if err := e.wallet.ConnectHex(privateKey); err != nil {
			return nil, err
		}
	case cfg.Keystore != "":
		if err := e.wallet.ConnectKeystore(cfg.Keystore, cfg.Passphrase); err != nil {
			return nil, err
		}
	}
	if addr, ok := e.wallet.Address(); ok {
		logger.Debug("wallet connected", zap.String("address", addr.Hex()))
	}
	return e, nil
}

// Store opens the local database
func (e *environment) Store() (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	s, err := store.Open(e.cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("error opening store: %w", err)
	}
	e.logger.Debug("store opened", zap.String("path", s.Path()))
	e.store = s
	return s, nil
}

// Ledger connects the reading ledger. Offline mode uses an in-process
// ledger that lives as long as the command; without a wallet it signs with
// a throwaway key.
func (e *environment) Ledger(ctx context.Context) (*ledger.Client, error) {
	if e.ledger != nil {
		return e.ledger, nil
	}

	opts := []ledger.Option{ledger.WithLogger(e.logger), ledger.WithRecorder(e.metrics)}

	if e.offline {
		if !e.wallet.IsConnected() {
			key, err := crypto.GenerateKey()
			if err != nil {
				return nil, err
			}
			if err := e.wallet.ConnectHex(hex.EncodeToString(crypto.FromECDSA(key))); err != nil {
				return nil, err
			}
		}
		addr, _ := e.wallet.Address()
		e.logger.Debug("using offline ledger", zap.String("address", addr.Hex()))
		e.ledger = ledger.NewClient(memledger.New().As(addr), opts...)
		return e.ledger, nil
	}

	if !common.IsHexAddress(e.cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract_address %q", e.cfg.ContractAddress)
	}
	signer, err := e.wallet.TransactOpts(big.NewInt(e.cfg.ChainID))
	if err != nil && !errors.Is(err, ledger.ErrNotConnected) {
		return nil, err
	}

	contract, client, err := ledger.DialEth(ctx, e.cfg.RPCURL, common.HexToAddress(e.cfg.ContractAddress), signer)
	if err != nil {
		return nil, &ledger.OperationFailed{Op: "dial", Kind: ledger.KindTransportFailure, Err: err}
	}
	e.logger.Debug("connected to ledger",
		zap.String("rpc_url", e.cfg.RPCURL),
		zap.String("contract", contract.Address().Hex()),
		zap.Bool("read_only", signer == nil),
	)
	e.eth = client
	e.ledger = ledger.NewClient(contract, opts...)
	return e.ledger, nil
}

// Settings loads the settings document and applies its theme
func (e *environment) Settings(ctx context.Context) (*settings.Manager, error) {
	if e.settings != nil {
		return e.settings, nil
	}
	s, err := e.Store()
	if err != nil {
		return nil, err
	}
	m := settings.NewManager(s,
		settings.WithIPFS(ipfs.NewClient(ipfs.DefaultGateway, ipfs.WithAPI(e.cfg.IPFSAPIURL))),
		settings.WithApplier(e.applier),
		settings.WithLogger(e.logger),
	)
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	e.settings = m
	return m, nil
}

// Palette returns the styles of the current theme, loading settings if
// possible and falling back to the default theme otherwise.
func (e *environment) Palette(ctx context.Context) settings.Palette {
	if _, err := e.Settings(ctx); err != nil {
		e.logger.Debug("settings unavailable, using default theme", zap.Error(err))
		defaults := settings.Default()
		theme, _ := defaults.Theme(defaults.CurrentTheme)
		e.applier.ApplyTheme(theme)
	}
	return e.applier.Palette()
}

// Archive opens the content-addressed reading archive
func (e *environment) Archive() (*archive.Archive, error) {
	s, err := e.Store()
	if err != nil {
		return nil, err
	}
	return archive.New(s, e.logger), nil
}

// UserData builds the user data service over the ledger and store
func (e *environment) UserData(ctx context.Context) (*userdata.Service, error) {
	client, err := e.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	s, err := e.Store()
	if err != nil {
		return nil, err
	}
	return userdata.NewService(client, s, e.logger), nil
}

func (e *environment) Close() {
	if e.eth != nil {
		e.eth.Close()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("error closing store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}
