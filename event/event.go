// Package event defines the notifications emitted by committed operations
// and the sinks that consume them.
package event

import (
	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/address"
)

// Event is a committed notification. Every event can log itself.
type Event interface {
	zerolog.LogObjectMarshaler
	Kind() string
}

// Sink receives events after the operation that produced them commits.
type Sink interface {
	Emit(ev Event)
}

// Event kinds.
const (
	KindOptionCreated      = "option_created"
	KindBid                = "bid"
	KindSettled            = "settled"
	KindReclaimed          = "reclaimed"
	KindExpiredBurned      = "expiry_burned"
	KindProceedsClaimed    = "proceeds_claimed"
	KindEntitlementImposed = "entitlement_imposed"
	KindEntitlementCleared = "entitlement_cleared"
	KindBeneficialOwnerSet = "beneficial_owner_set"
	KindAssetReceived      = "asset_received"
	KindAssetWithdrawn     = "asset_withdrawn"
	KindAssetFlashLoaned   = "asset_flash_loaned"
	KindOperatorApproved   = "operator_approved"
	KindSettingsChanged    = "settings_changed"
	KindPaymentWrapped     = "payment_wrapped"
)

// OptionCreated is emitted when a rights token is minted.
type OptionCreated struct {
	Writer     address.Address
	Vault      address.Address
	AssetID    uint64
	OptionID   uint64
	Strike     uint64
	Expiration int64
}

func (OptionCreated) Kind() string { return KindOptionCreated }

func (e OptionCreated) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("writer", e.Writer).Stringer("vault", e.Vault).
		Uint64("asset_id", e.AssetID).Uint64("option_id", e.OptionID).
		Uint64("strike", e.Strike).Int64("expiration", e.Expiration)
}

// Bid is emitted for every accepted bid. Amount is the recorded bid,
// which includes the strike for a writer bid.
type Bid struct {
	OptionID uint64
	Amount   uint64
	Bidder   address.Address
}

func (Bid) Kind() string { return KindBid }

func (e Bid) MarshalZerologObject(z *zerolog.Event) {
	z.Uint64("option_id", e.OptionID).Uint64("amount", e.Amount).Stringer("bidder", e.Bidder)
}

// Settled is emitted when an option settles. Claimable is the spread left
// for the rights holder to claim, zero if it was paid directly.
type Settled struct {
	OptionID  uint64
	Claimable uint64
}

func (Settled) Kind() string { return KindSettled }

func (e Settled) MarshalZerologObject(z *zerolog.Event) {
	z.Uint64("option_id", e.OptionID).Uint64("claimable", e.Claimable)
}

// Reclaimed is emitted when the writer reclaims before expiration.
type Reclaimed struct {
	OptionID uint64
}

func (Reclaimed) Kind() string { return KindReclaimed }

func (e Reclaimed) MarshalZerologObject(z *zerolog.Event) {
	z.Uint64("option_id", e.OptionID)
}

// ExpiredBurned is emitted when an unexercised option is cleaned up.
type ExpiredBurned struct {
	OptionID uint64
}

func (ExpiredBurned) Kind() string { return KindExpiredBurned }

func (e ExpiredBurned) MarshalZerologObject(z *zerolog.Event) {
	z.Uint64("option_id", e.OptionID)
}

// ProceedsClaimed is emitted when a rights holder claims a settled spread.
type ProceedsClaimed struct {
	OptionID uint64
	Claimant address.Address
	Amount   uint64
}

func (ProceedsClaimed) Kind() string { return KindProceedsClaimed }

func (e ProceedsClaimed) MarshalZerologObject(z *zerolog.Event) {
	z.Uint64("option_id", e.OptionID).Stringer("claimant", e.Claimant).Uint64("amount", e.Amount)
}
