// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the TOML configuration file and provides the
// protocol configuration registry: roles, the global pause flag,
// per-collection feature flags and the wrapper asset address.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bitfsorg/coveredcall-go/address"
)

// ConfigFileName is the name of the configuration file inside DataDir.
const ConfigFileName = "config.toml"

// Default market settings, in seconds and basis points.
const (
	DefaultMinOptionDuration   int64  = 24 * 60 * 60
	DefaultAuctionWindow       int64  = 24 * 60 * 60
	DefaultMinBidIncrementBips uint64 = 10

	// MaxBidIncrementBips caps the minimum increment at 20%.
	MaxBidIncrementBips uint64 = 2000
)

// Config is the on-disk configuration.
type Config struct {
	DataDir  string         `toml:"data_dir"`
	LogLevel string         `toml:"log_level"`
	LogFile  string         `toml:"log_file"`
	Market   MarketConfig   `toml:"market"`
	Protocol ProtocolConfig `toml:"protocol"`
}

// MarketConfig holds the initial option-ledger settings.
type MarketConfig struct {
	// MinOptionDuration is the lead time an expiration must exceed at mint.
	MinOptionDuration int64 `toml:"min_option_duration"`
	// AuctionWindow is how long before expiration bidding opens.
	AuctionWindow int64 `toml:"auction_window"`
	// MinBidIncrementBips is the minimum raise over the current bid.
	MinBidIncrementBips uint64 `toml:"min_bid_increment_bips"`
}

// ProtocolConfig seeds the configuration registry.
type ProtocolConfig struct {
	Paused       bool                         `toml:"paused"`
	WrapperAsset address.Address              `toml:"wrapper_asset"`
	Roles        map[string][]address.Address `toml:"roles"`
	// Collections maps a collection address (hex) to its feature flags.
	Collections map[string]map[string]bool `toml:"collections"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:  filepath.Join(home, ".coveredcall"),
		LogLevel: "info",
		Market: MarketConfig{
			MinOptionDuration:   DefaultMinOptionDuration,
			AuctionWindow:       DefaultAuctionWindow,
			MinBidIncrementBips: DefaultMinBidIncrementBips,
		},
	}
}

// ConfigPath returns the configuration file path for dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// LoadConfig reads path on top of DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: encode: %w", err)
	}
	return f.Close()
}
