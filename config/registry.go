// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bitfsorg/coveredcall-go/address"
)

// Role is a capability flag granted to identities.
type Role string

const (
	// RoleMarketConf may change market settings and pause the market.
	RoleMarketConf Role = "market_conf"
	// RoleTransferAgent may move rights tokens on behalf of their holders.
	RoleTransferAgent Role = "transfer_agent"
	// RolePauser may pause and unpause the whole protocol.
	RolePauser Role = "pauser"
)

var knownRoles = map[Role]bool{
	RoleMarketConf:    true,
	RoleTransferAgent: true,
	RolePauser:        true,
}

// Collection feature flag keys.
const (
	// KeyAirdropsAllowed lets vaults of a collection accept assets that did
	// not arrive as deposits.
	KeyAirdropsAllowed = "vault.airdrops"
	// KeyFlashLoansEnabled lets beneficial owners flash-loan vaulted assets.
	KeyFlashLoansEnabled = "vault.flashloans"
	// KeyOptionsAllowed allowlists a collection for option minting.
	KeyOptionsAllowed = "market.options"
)

// Registry is the protocol-wide configuration consulted by every component.
type Registry interface {
	HasRole(role Role, who address.Address) bool
	ThrowWhenPaused() error
	CollectionConfig(collection address.Address, key string) bool
	WrapperAsset() address.Address
}

// Static is an in-process Registry seeded from ProtocolConfig. It is safe
// for concurrent use.
type Static struct {
	mu          sync.RWMutex
	paused      bool
	wrapper     address.Address
	roles       map[Role]map[address.Address]bool
	collections map[address.Address]map[string]bool
}

// Compile-time interface check.
var _ Registry = (*Static)(nil)

// NewStatic builds a registry from p.
func NewStatic(p ProtocolConfig) (*Static, error) {
	s := &Static{
		paused:      p.Paused,
		wrapper:     p.WrapperAsset,
		roles:       make(map[Role]map[address.Address]bool),
		collections: make(map[address.Address]map[string]bool),
	}
	for name, members := range p.Roles {
		role := Role(name)
		if !knownRoles[role] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
		}
		for _, m := range members {
			s.grant(role, m)
		}
	}
	for hexAddr, flags := range p.Collections {
		coll, err := address.FromHex(hexAddr)
		if err != nil {
			return nil, fmt.Errorf("config: collection %q: %w", hexAddr, err)
		}
		for key, v := range flags {
			s.set(coll, strings.ToLower(key), v)
		}
	}
	return s, nil
}

// HasRole reports whether who holds role.
func (s *Static) HasRole(role Role, who address.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[role][who]
}

// ThrowWhenPaused returns ErrProtocolPaused while the protocol is paused.
func (s *Static) ThrowWhenPaused() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paused {
		return ErrProtocolPaused
	}
	return nil
}

// CollectionConfig returns the flag key for collection; unset flags are false.
func (s *Static) CollectionConfig(collection address.Address, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[collection][key]
}

// WrapperAsset returns the address of the fungible wrapper used for
// payment fallback.
func (s *Static) WrapperAsset() address.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wrapper
}

// SetPaused pauses or unpauses the protocol. Only RolePauser may do it.
func (s *Static) SetPaused(by address.Address, paused bool) error {
	if !s.HasRole(RolePauser, by) {
		return fmt.Errorf("config: %s lacks role %q", by, RolePauser)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	return nil
}

// GrantRole gives who the role.
func (s *Static) GrantRole(role Role, who address.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grant(role, who)
}

// SetCollectionConfig sets a collection flag.
func (s *Static) SetCollectionConfig(collection address.Address, key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(collection, key, v)
}

// SetWrapperAsset sets the wrapper asset address.
func (s *Static) SetWrapperAsset(a address.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrapper = a
}

func (s *Static) grant(role Role, who address.Address) {
	if s.roles[role] == nil {
		s.roles[role] = make(map[address.Address]bool)
	}
	s.roles[role][who] = true
}

func (s *Static) set(collection address.Address, key string, v bool) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]bool)
	}
	s.collections[collection][key] = v
}
