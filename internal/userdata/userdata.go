// Package userdata saves readings and preferences for the connected wallet.
// Readings and the favourite spread go to the ledger; the remaining
// preferences live in the local store.
package userdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/store"
)

// Default preference values
const (
	DefaultSpread = "Past-Present-Future"
	DefaultTheme  = "mystical-purple"
)

// Reading is a completed reading to be recorded
type Reading struct {
	Question       string   `json:"question" yaml:"question"`
	Cards          []string `json:"cards" yaml:"cards"`
	Reversals      []bool   `json:"reversals" yaml:"reversals"`
	Interpretation string   `json:"interpretation" yaml:"interpretation"`
	Timestamp      int64    `json:"timestamp" yaml:"timestamp"`
	SessionID      string   `json:"sessionId,omitempty" yaml:"session_id,omitempty"`
}

// Preferences are the user's display and reading preferences
type Preferences struct {
	FavoriteSpread string `json:"favoriteSpread" yaml:"favorite_spread"`
	Theme          string `json:"theme" yaml:"theme"`
	Notifications  bool   `json:"notifications" yaml:"notifications"`
	AutoSave       bool   `json:"autoSave" yaml:"auto_save"`
}

// DefaultPreferences returns the preferences used before any are saved
func DefaultPreferences() Preferences {
	return Preferences{
		FavoriteSpread: DefaultSpread,
		Theme:          DefaultTheme,
		Notifications:  true,
		AutoSave:       true,
	}
}

// KV is the local storage the service needs. *store.Store satisfies it.
type KV interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
}

// Service records user data for the client's sender
type Service struct {
	client *ledger.Client
	kv     KV
	logger *zap.Logger
}

// NewService creates a service writing through client and kv
func NewService(client *ledger.Client, kv KV, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, kv: kv, logger: logger}
}

// Address returns the connected wallet address
func (s *Service) Address() (common.Address, bool) {
	return s.client.Sender()
}

func (s *Service) requireAddress(op string) (common.Address, error) {
	addr, ok := s.client.Sender()
	if !ok {
		s.logger.Warn("wallet not connected", zap.String("op", op))
		return common.Address{}, &ledger.OperationFailed{Op: op, Kind: ledger.KindNotConnected, Err: ledger.ErrNotConnected}
	}
	return addr, nil
}

// SaveReading records reading as a full session: start, draw as many cards
// as the reading holds, then complete with its interpretation. It returns the
// new session id and the refreshed profile.
func (s *Service) SaveReading(ctx context.Context, reading Reading) (ledger.SessionID, ledger.UserProfile, error) {
	addr, err := s.requireAddress("saveReading")
	if err != nil {
		return ledger.SessionID{}, ledger.UserProfile{}, err
	}

	id, err := s.client.StartReading(ctx, reading.Question)
	if err != nil {
		return ledger.SessionID{}, ledger.UserProfile{}, err
	}
	if err := s.client.PerformReading(ctx, id, len(reading.Cards)); err != nil {
		return id, ledger.UserProfile{}, err
	}
	if err := s.client.CompleteReading(ctx, id, reading.Interpretation); err != nil {
		return id, ledger.UserProfile{}, err
	}

	s.logger.Info("reading saved", zap.Stringer("session", id), zap.Stringer("address", addr))
	profile, err := s.client.GetUserProfile(ctx, addr)
	return id, profile, err
}

// SavePreferences stores the favourite spread on the ledger and the full
// preferences locally, then returns the refreshed profile.
func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) (ledger.UserProfile, error) {
	addr, err := s.requireAddress("savePreferences")
	if err != nil {
		return ledger.UserProfile{}, err
	}

	if err := s.client.SetFavoriteSpread(ctx, prefs.FavoriteSpread); err != nil {
		return ledger.UserProfile{}, err
	}
	if err := s.kv.SetJSON(ctx, preferencesKey(addr), prefs); err != nil {
		return ledger.UserProfile{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return s.client.GetUserProfile(ctx, addr)
}

// LoadPreferences returns stored preferences, or the defaults when none
// were saved yet.
func (s *Service) LoadPreferences(ctx context.Context) (Preferences, error) {
	addr, err := s.requireAddress("loadPreferences")
	if err != nil {
		return Preferences{}, err
	}

	var prefs Preferences
	err = s.kv.GetJSON(ctx, preferencesKey(addr), &prefs)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// UserProfile reads the connected wallet's profile
func (s *Service) UserProfile(ctx context.Context) (ledger.UserProfile, error) {
	addr, err := s.requireAddress("getUserProfile")
	if err != nil {
		return ledger.UserProfile{}, err
	}
	return s.client.GetUserProfile(ctx, addr)
}

// SaveValue stores an arbitrary JSON value for the connected wallet
func (s *Service) SaveValue(ctx context.Context, key string, v any) error {
	addr, err := s.requireAddress("saveValue")
	if err != nil {
		return err
	}
	return s.kv.SetJSON(ctx, valueKey(key, addr), v)
}

// LoadValue reads a value stored with SaveValue into v. It returns
// store.ErrNotFound when nothing was saved under key.
func (s *Service) LoadValue(ctx context.Context, key string, v any) error {
	addr, err := s.requireAddress("loadValue")
	if err != nil {
		return err
	}
	return s.kv.GetJSON(ctx, valueKey(key, addr), v)
}

func preferencesKey(addr common.Address) string {
	return "user-preferences-" + addr.Hex()
}

func valueKey(key string, addr common.Address) string {
	return fmt.Sprintf("user-%s-%s", key, addr.Hex())
}
