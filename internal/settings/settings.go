// Package settings manages the user-facing configuration: RPC endpoints,
// colour themes, the ENS domain and the IPFS gateway. Settings are kept in
// the local store and can be exchanged through IPFS.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/ipfs"
	"github.com/arcanaland/seer/internal/store"
)

var (
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrUnknownChain   = errors.New("unknown chain")
	ErrENSUnsupported = errors.New("ENS resolution is not supported")
)

// RPCEndpoints are the per-chain endpoint URLs
type RPCEndpoints struct {
	Flow     string `json:"flow" yaml:"flow"`
	Filecoin string `json:"filecoin" yaml:"filecoin"`
	IPFS     string `json:"ipfs" yaml:"ipfs"`
}

// Colors of a theme. Background may be a CSS gradient.
type Colors struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Accent     string `json:"accent" yaml:"accent"`
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
}

type Animations struct {
	CardFlip string `json:"cardFlip" yaml:"card_flip"`
	CardDraw string `json:"cardDraw" yaml:"card_draw"`
	Glow     string `json:"glow" yaml:"glow"`
}

// Theme is a named colour scheme
type Theme struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Description   string      `json:"description" yaml:"description"`
	Colors        Colors      `json:"colors" yaml:"colors"`
	CardBackImage string      `json:"cardBackImage,omitempty" yaml:"card_back_image,omitempty"`
	FontFamily    string      `json:"fontFamily,omitempty" yaml:"font_family,omitempty"`
	Animations    *Animations `json:"animations,omitempty" yaml:"animations,omitempty"`
}

// Config is the persisted settings document
type Config struct {
	RPCEndpoints RPCEndpoints `json:"rpcEndpoints" yaml:"rpc_endpoints"`
	Themes       []Theme      `json:"tarotThemes" yaml:"themes"`
	CurrentTheme string       `json:"currentTheme" yaml:"current_theme"`
	ENSDomain    string       `json:"ensDomain,omitempty" yaml:"ens_domain,omitempty"`
	IPFSGateway  string       `json:"ipfsGateway" yaml:"ipfs_gateway"`
}

// Theme returns the theme with id
func (c Config) Theme(id string) (Theme, bool) {
	for _, t := range c.Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// KV is the storage the manager persists to. *store.Store satisfies it.
type KV interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
}

// ThemeApplier receives the active theme whenever it changes
type ThemeApplier interface {
	ApplyTheme(Theme)
}

// Manager owns the settings document. It is not safe for concurrent use and
// does not coordinate with other processes sharing the store.
type Manager struct {
	kv      KV
	ipfs    *ipfs.Client
	applier ThemeApplier
	logger  *zap.Logger
	cfg     Config
}

// Option configures a Manager
type Option func(*Manager)

// WithIPFS sets the client used for LoadFromIPFS and SaveToIPFS. Its
// gateway is replaced by the configured one on each call.
func WithIPFS(c *ipfs.Client) Option {
	return func(m *Manager) {
		m.ipfs = c
	}
}

// WithApplier sets the theme applier
func WithApplier(a ThemeApplier) Option {
	return func(m *Manager) {
		m.applier = a
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Merge overlays a stored settings document on the defaults. Each top-level
// key present in data replaces the default value whole, so stored themes
// never inherit fields from the default themes.
func Merge(data []byte) (Config, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if _, ok := present["tarotThemes"]; ok {
		cfg.Themes = nil
	}
	if _, ok := present["rpcEndpoints"]; ok {
		cfg.RPCEndpoints = RPCEndpoints{}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewManager creates a manager holding the default settings. Call Load to
// read the stored document.
func NewManager(kv KV, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		logger: zap.NewNop(),
		cfg:    Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ipfs == nil {
		m.ipfs = ipfs.NewClient(m.cfg.IPFSGateway)
	}
	return m
}

// Load reads stored settings over the defaults and applies the current
// theme. A corrupt document is logged and the defaults are used.
func (m *Manager) Load(ctx context.Context) error {
	var raw json.RawMessage
	err := m.kv.GetJSON(ctx, StorageKey, &raw)
	if err == nil {
		var cfg Config
		if cfg, err = Merge(raw); err == nil {
			m.cfg = cfg
		}
	}
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		m.cfg = Default()
	default:
		m.logger.Warn("stored settings unreadable, using defaults", zap.Error(err))
		m.cfg = Default()
	}
	m.Apply()
	return nil
}

// Save persists the settings
func (m *Manager) Save(ctx context.Context) error {
	if err := m.kv.SetJSON(ctx, StorageKey, m.cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Config returns a copy of the current settings
func (m *Manager) Config() Config {
	cfg := m.cfg
	cfg.Themes = append([]Theme(nil), m.cfg.Themes...)
	return cfg
}

// UpdateRPCEndpoint sets the endpoint for chain and saves
func (m *Manager) UpdateRPCEndpoint(ctx context.Context, chain, endpoint string) error {
	switch chain {
	case ChainFlow:
		m.cfg.RPCEndpoints.Flow = endpoint
	case ChainFilecoin:
		m.cfg.RPCEndpoints.Filecoin = endpoint
	case ChainIPFS:
		m.cfg.RPCEndpoints.IPFS = endpoint
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChain, chain)
	}
	return m.Save(ctx)
}

// SetTheme switches to theme id, saves and applies it
func (m *Manager) SetTheme(ctx context.Context, id string) error {
	theme, ok := m.cfg.Theme(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	m.cfg.CurrentTheme = id
	if err := m.Save(ctx); err != nil {
		return err
	}
	m.apply(theme)
	return nil
}

// CurrentTheme returns the selected theme, or the first one if the
// selection no longer exists.
func (m *Manager) CurrentTheme() Theme {
	if theme, ok := m.cfg.Theme(m.cfg.CurrentTheme); ok {
		return theme
	}
	if len(m.cfg.Themes) > 0 {
		return m.cfg.Themes[0]
	}
	theme, _ := Default().Theme(firstTheme)
	return theme
}

// Apply hands the current theme to the applier
func (m *Manager) Apply() {
	m.apply(m.CurrentTheme())
}

func (m *Manager) apply(theme Theme) {
	if m.applier != nil {
		m.applier.ApplyTheme(theme)
	}
	m.logger.Debug("theme applied", zap.String("theme", theme.ID))
}

// SetENSDomain records the ENS domain and saves
func (m *Manager) SetENSDomain(ctx context.Context, domain string) error {
	m.cfg.ENSDomain = domain
	return m.Save(ctx)
}

// SetIPFSGateway records the gateway and saves
func (m *Manager) SetIPFSGateway(ctx context.Context, gateway string) error {
	m.cfg.IPFSGateway = gateway
	return m.Save(ctx)
}

// LoadFromIPFS replaces the settings with the document at cid, merged over
// the defaults, then saves and applies it.
func (m *Manager) LoadFromIPFS(ctx context.Context, cid string) error {
	var raw json.RawMessage
	if err := m.ipfs.WithGateway(m.cfg.IPFSGateway).Get(ctx, cid, &raw); err != nil {
		m.logger.Error("failed to load settings from IPFS", zap.String("cid", cid), zap.Error(err))
		return err
	}
	cfg, err := Merge(raw)
	if err != nil {
		m.logger.Error("settings from IPFS unreadable", zap.String("cid", cid), zap.Error(err))
		return fmt.Errorf("failed to decode settings %s: %w", cid, err)
	}
	m.cfg = cfg
	if err := m.Save(ctx); err != nil {
		return err
	}
	m.Apply()
	return nil
}

// SaveToIPFS publishes the settings and returns the CID
func (m *Manager) SaveToIPFS(ctx context.Context) (string, error) {
	cid, err := m.ipfs.WithGateway(m.cfg.IPFSGateway).Add(ctx, m.cfg)
	if err != nil {
		m.logger.Error("failed to save settings to IPFS", zap.Error(err))
		return "", err
	}
	return cid, nil
}

// LoadFromENS would resolve domain's content hash and load it from IPFS.
// Resolution is not implemented.
func (m *Manager) LoadFromENS(ctx context.Context, domain string) error {
	m.logger.Info("loading settings from ENS", zap.String("domain", domain))
	return fmt.Errorf("%w: %s", ErrENSUnsupported, domain)
}
