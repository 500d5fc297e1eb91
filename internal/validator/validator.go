// Package validator checks the program configuration, the settings document
// and the card art directory, collecting errors and warnings.
package validator

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap/zapcore"

	"github.com/arcanaland/seer/internal/art"
	"github.com/arcanaland/seer/internal/config"
	"github.com/arcanaland/seer/internal/settings"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	Config   *config.Config
	Settings settings.Config
	Results  ValidationResults
}

func NewValidator(cfg *config.Config, s settings.Config) *Validator {
	return &Validator{
		Config:   cfg,
		Settings: s,
		Results:  ValidationResults{},
	}
}

func (v *Validator) Validate() ValidationResults {
	if v.Config != nil {
		v.validateConfig()
		v.validateCardArt()
	}
	v.validateThemes()
	v.validateEndpoints()
	v.validateENSDomain()

	return v.Results
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateConfig checks the TOML configuration
func (v *Validator) validateConfig() {
	c := v.Config

	if err := checkURL(c.RPCURL, "http", "https", "ws", "wss"); err != nil {
		v.errorf("rpc_url: %v", err)
	}
	if c.IPFSAPIURL != "" {
		if err := checkURL(c.IPFSAPIURL, "http", "https"); err != nil {
			v.errorf("ipfs_api_url: %v", err)
		}
	}
	if c.ChainID <= 0 {
		v.errorf("chain_id must be positive, got %d", c.ChainID)
	}
	if !common.IsHexAddress(c.ContractAddress) {
		v.errorf("contract_address is not a hex address: %q", c.ContractAddress)
	}
	if c.DataDir == "" {
		v.errorf("data_dir is required")
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		v.errorf("listen_addr: %v", err)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			v.warnf("log_level %q is not a known level, warn is used", c.LogLevel)
		}
	}
	if c.Keystore != "" {
		if _, err := os.Stat(c.Keystore); os.IsNotExist(err) {
			v.errorf("keystore file not found: %s", c.Keystore)
		}
	}
}

var hexColor = regexp.MustCompile(`#[0-9A-Fa-f]{3,8}\b`)

// validateThemes checks theme ids and colours
func (v *Validator) validateThemes() {
	s := v.Settings
	if len(s.Themes) == 0 {
		v.errorf("no themes defined")
		return
	}

	seen := map[string]bool{}
	for i, t := range s.Themes {
		if t.ID == "" {
			v.errorf("theme %d has no id", i+1)
			continue
		}
		if seen[t.ID] {
			v.errorf("duplicate theme id: %s", t.ID)
		}
		seen[t.ID] = true

		if t.Name == "" {
			v.warnf("theme %s has no name", t.ID)
		}

		for field, value := range map[string]string{
			"primary":   t.Colors.Primary,
			"secondary": t.Colors.Secondary,
			"accent":    t.Colors.Accent,
			"text":      t.Colors.Text,
		} {
			if _, err := colorful.Hex(value); err != nil {
				v.errorf("theme %s: %s colour %q is not a hex colour", t.ID, field, value)
			}
		}

		// backgrounds may be gradients; check each colour stop
		for _, stop := range hexColor.FindAllString(t.Colors.Background, -1) {
			if _, err := colorful.Hex(stop); err != nil {
				v.errorf("theme %s: background colour %q is not a hex colour", t.ID, stop)
			}
		}
	}

	if !seen[s.CurrentTheme] {
		v.errorf("current theme %q is not defined", s.CurrentTheme)
	}
}

func (v *Validator) validateEndpoints() {
	s := v.Settings
	for chain, endpoint := range map[string]string{
		settings.ChainFlow:     s.RPCEndpoints.Flow,
		settings.ChainFilecoin: s.RPCEndpoints.Filecoin,
		settings.ChainIPFS:     s.RPCEndpoints.IPFS,
	} {
		if err := checkURL(endpoint, "http", "https"); err != nil {
			v.errorf("rpc endpoint %s: %v", chain, err)
		}
	}
	if err := checkURL(s.IPFSGateway, "http", "https"); err != nil {
		v.errorf("ipfs gateway: %v", err)
	}
}

func (v *Validator) validateENSDomain() {
	d := v.Settings.ENSDomain
	if d == "" {
		return
	}
	if !strings.HasSuffix(d, ".eth") || len(d) <= len(".eth") {
		v.errorf("ens domain %q must end in .eth", d)
	}
}

// validateCardArt checks the card art directory covers the whole deck.
// Art is optional, so gaps are warnings.
func (v *Validator) validateCardArt() {
	dir := v.Config.CardArtDir
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		v.warnf("card_art_dir not found: %s", dir)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		v.errorf("error reading card_art_dir: %v", err)
		return
	}

	found := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		var ext []string
		switch {
		case strings.HasPrefix(name, "ansi"):
			ext = []string{".ansi"}
		case name == "scalable" || isRasterDir(name):
			ext = []string{".png", ".jpg", ".jpeg", ".gif"}
		default:
			continue
		}
		found = true
		v.validateArtDirectory(filepath.Join(dir, name), name, ext)
	}

	if !found {
		v.warnf("no art directories found in %s (expecting ansi32/, ansi256/, scalable/ or h*/)", dir)
	}
}

func isRasterDir(name string) bool {
	var h int
	_, err := fmt.Sscanf(name, "h%d", &h)
	return err == nil
}

var (
	suits     = []string{"wands", "cups", "swords", "pentacles"}
	cardRanks = []string{
		"ace", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
		"page", "knight", "queen", "king",
	}
)

func (v *Validator) validateArtDirectory(base, dirName string, exts []string) {
	exists := func(parts ...string) bool {
		for _, ext := range exts {
			path, err := art.CardPath(base, parts, ext)
			if err != nil {
				return false
			}
			if _, err := os.Stat(path); err == nil {
				return true
			}
		}
		return false
	}

	var missing []string
	for i := 0; i <= 21; i++ {
		if n := fmt.Sprintf("%02d", i); !exists("major_arcana", n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		v.warnf("missing major arcana art in %s: %s", dirName, strings.Join(missing, ", "))
	}

	for _, suit := range suits {
		missing = missing[:0]
		for _, rank := range cardRanks {
			if !exists("minor_arcana", suit, rank) {
				missing = append(missing, rank)
			}
		}
		if len(missing) > 0 {
			v.warnf("missing %s art in %s: %s", suit, dirName, strings.Join(missing, ", "))
		}
	}
}

func checkURL(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	scheme := strings.ToLower(u.Scheme)
	ok := false
	for _, s := range schemes {
		if scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %s", raw)
	}
	return nil
}
