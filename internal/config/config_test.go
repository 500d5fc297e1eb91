package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "seer", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.EqualValues(t, DefaultChainID, cfg.ChainID)
	assert.Equal(t, DefaultContractAddress, cfg.ContractAddress)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")
}

func TestLoadConfigReadsFileAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("rpc_url = \"http://localhost:8545\"\nchain_id = 31337\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.EqualValues(t, 31337, cfg.ChainID)
	assert.Equal(t, DefaultContractAddress, cfg.ContractAddress)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveConfig(path, Default()))

	t.Setenv("SEER_RPC_URL", "http://rpc.example")
	t.Setenv("SEER_CHAIN_ID", "747")
	t.Setenv("SEER_PRIVATE_KEY", "deadbeef")
	t.Setenv("SEER_IPFS_API_URL", "http://127.0.0.1:5001")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rpc.example", cfg.RPCURL)
	assert.EqualValues(t, 747, cfg.ChainID)
	assert.Equal(t, "deadbeef", cfg.PrivateKey)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.IPFSAPIURL)
}

func TestSaveConfigOmitsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.PrivateKey = "secret-key"
	cfg.Passphrase = "secret-pass"
	require.NoError(t, SaveConfig(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestLoadConfigRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("rpc_url = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
