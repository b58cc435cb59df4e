// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if err := ValidateMarket(cfg.Market); err != nil {
		return err
	}

	for name := range cfg.Protocol.Roles {
		if !knownRoles[Role(name)] {
			return fmt.Errorf("%w: %q", ErrUnknownRole, name)
		}
	}
	return nil
}

// ValidateMarket checks the option-ledger settings against each other.
func ValidateMarket(m MarketConfig) error {
	if m.MinOptionDuration <= 0 {
		return ErrInvalidMinDuration
	}
	if m.AuctionWindow <= 0 || m.AuctionWindow > m.MinOptionDuration {
		return fmt.Errorf("%w: window=%d min_duration=%d", ErrInvalidAuctionWindow, m.AuctionWindow, m.MinOptionDuration)
	}
	if m.MinBidIncrementBips > MaxBidIncrementBips {
		return fmt.Errorf("%w: got %d", ErrInvalidBidIncrement, m.MinBidIncrementBips)
	}
	return nil
}
