package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Flow EVM testnet defaults used by the original deployment
const (
	DefaultRPCURL          = "https://testnet.evm.nodes.onflow.org"
	DefaultChainID         = 545
	DefaultContractAddress = "0xE1F84B3468c6169b3237Be01ff90023d50E26C95"
	DefaultListenAddr      = "127.0.0.1:8545"
)

// Config represents the application configuration
type Config struct {
	RPCURL          string `toml:"rpc_url" env:"SEER_RPC_URL"`
	ChainID         int64  `toml:"chain_id" env:"SEER_CHAIN_ID"`
	ContractAddress string `toml:"contract_address" env:"SEER_CONTRACT_ADDRESS"`
	Keystore        string `toml:"keystore" env:"SEER_KEYSTORE"`
	PrivateKey      string `toml:"-" env:"SEER_PRIVATE_KEY"`
	Passphrase      string `toml:"-" env:"SEER_KEYSTORE_PASSPHRASE"`
	DataDir         string `toml:"data_dir" env:"SEER_DATA_DIR"`
	ListenAddr      string `toml:"listen_addr" env:"SEER_LISTEN_ADDR"`
	LogLevel        string `toml:"log_level" env:"SEER_LOG_LEVEL"`
	CardArtDir      string `toml:"card_art_dir" env:"SEER_CARD_ART_DIR"`
	IPFSAPIURL      string `toml:"ipfs_api_url,omitempty" env:"SEER_IPFS_API_URL"`
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "seer", "config.toml")
}

// GetCacheDir returns the directory for generated artifacts such as ANSI art
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), "seer")
}

// Default returns the configuration written on first run
func Default() *Config {
	dataDir := filepath.Join(GetXDGDataHome(), "seer")
	return &Config{
		RPCURL:          DefaultRPCURL,
		ChainID:         DefaultChainID,
		ContractAddress: DefaultContractAddress,
		DataDir:         dataDir,
		ListenAddr:      DefaultListenAddr,
		LogLevel:        "warn",
		CardArtDir:      filepath.Join(dataDir, "cards"),
	}
}

// StorePath returns the path of the local key-value database
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "seer.db")
}

// LoadConfig loads the config file at path, creating it with defaults if it
// does not exist, then applies SEER_* environment overrides. An empty path
// selects the XDG location.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	var config *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		config, err = createDefaultConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		config = Default()
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) (*Config, error) {
	config := Default()
	if err := SaveConfig(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config to path as TOML
func SaveConfig(path string, config *Config) error {
	if path == "" {
		path = GetConfigFilePath()
	}

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}
