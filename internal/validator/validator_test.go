package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/seer/internal/config"
	"github.com/arcanaland/seer/internal/settings"
)

func validConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.CardArtDir = ""
	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	results := NewValidator(validConfig(t), settings.Default()).Validate()
	assert.True(t, results.Valid(), results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestConfigErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.RPCURL = "ftp://node"
	cfg.ChainID = 0
	cfg.ContractAddress = "0x123"
	cfg.ListenAddr = "nope"
	cfg.LogLevel = "loud"
	cfg.Keystore = filepath.Join(t.TempDir(), "missing.json")

	results := NewValidator(cfg, settings.Default()).Validate()
	assert.Len(t, results.Errors, 5)
	assert.Len(t, results.Warnings, 1)
}

func TestIPFSAPIURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.IPFSAPIURL = "http://127.0.0.1:5001"
	assert.True(t, NewValidator(cfg, settings.Default()).Validate().Valid())

	cfg.IPFSAPIURL = "unix:///run/ipfs.sock"
	results := NewValidator(cfg, settings.Default()).Validate()
	require.Len(t, results.Errors, 1)
	assert.Contains(t, results.Errors[0], "ipfs_api_url")
}

func TestThemeErrors(t *testing.T) {
	s := settings.Default()
	s.Themes[1].ID = s.Themes[0].ID
	s.Themes[2].Colors.Primary = "purple"
	s.Themes[3].Colors.Background = "linear-gradient(#12345, #000000)"
	s.CurrentTheme = "neon"

	results := NewValidator(nil, s).Validate()
	joined := strings.Join(results.Errors, "\n")
	assert.Contains(t, joined, "duplicate theme id: mystical-purple")
	assert.Contains(t, joined, `primary colour "purple"`)
	assert.Contains(t, joined, `background colour "#12345"`)
	assert.Contains(t, joined, `current theme "neon" is not defined`)
}

func TestNoThemes(t *testing.T) {
	s := settings.Default()
	s.Themes = nil
	results := NewValidator(nil, s).Validate()
	assert.Contains(t, results.Errors, "no themes defined")
}

func TestEndpointsAndENS(t *testing.T) {
	s := settings.Default()
	s.RPCEndpoints.Filecoin = "api.filecoin.io"
	s.IPFSGateway = ""
	s.ENSDomain = "tarot.com"

	results := NewValidator(nil, s).Validate()
	assert.Len(t, results.Errors, 3)

	s = settings.Default()
	s.ENSDomain = "tarot.eth"
	assert.True(t, NewValidator(nil, s).Validate().Valid())
}

func TestCardArt(t *testing.T) {
	cfg := validConfig(t)
	cfg.CardArtDir = filepath.Join(t.TempDir(), "absent")
	results := NewValidator(cfg, settings.Default()).Validate()
	assert.True(t, results.Valid())
	assert.Len(t, results.Warnings, 1)

	dir := t.TempDir()
	cfg.CardArtDir = dir
	major := filepath.Join(dir, "ansi32", "major_arcana")
	require.NoError(t, os.MkdirAll(major, 0755))
	for _, n := range []string{"00", "01"} {
		require.NoError(t, os.WriteFile(filepath.Join(major, n+".ansi"), []byte("x"), 0644))
	}

	results = NewValidator(cfg, settings.Default()).Validate()
	assert.True(t, results.Valid())
	// one warning for the major arcana, one per suit
	require.Len(t, results.Warnings, 5)
	assert.NotContains(t, results.Warnings[0], "00,")
	assert.Contains(t, results.Warnings[0], "02, 03")
}
