// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigFile indicates the configuration file is not valid TOML.
	ErrInvalidConfigFile = errors.New("config: invalid configuration file")

	// ErrInvalidMinDuration indicates the minimum option duration is not positive.
	ErrInvalidMinDuration = errors.New("config: minimum option duration must be positive")

	// ErrInvalidAuctionWindow indicates the settlement auction window is not
	// positive or exceeds the minimum option duration.
	ErrInvalidAuctionWindow = errors.New("config: settlement auction window must be positive and not exceed the minimum option duration")

	// ErrInvalidBidIncrement indicates the minimum bid increment is out of range.
	ErrInvalidBidIncrement = errors.New("config: minimum bid increment must not exceed 2000 bips")

	// ErrUnknownRole indicates a role name in the file is not recognized.
	ErrUnknownRole = errors.New("config: unknown role")

	// ErrProtocolPaused indicates the whole protocol is paused.
	ErrProtocolPaused = errors.New("config: protocol is paused")
)
