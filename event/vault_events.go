package event

import (
	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/address"
)

// EntitlementImposed is emitted when an entitlement registers on a slot.
type EntitlementImposed struct {
	Vault           address.Address
	AssetID         uint64
	Operator        address.Address
	BeneficialOwner address.Address
	Expiry          int64
}

func (EntitlementImposed) Kind() string { return KindEntitlementImposed }

func (e EntitlementImposed) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID).
		Stringer("operator", e.Operator).Stringer("beneficial_owner", e.BeneficialOwner).
		Int64("expiry", e.Expiry)
}

// EntitlementCleared is emitted when the operator clears its entitlement.
type EntitlementCleared struct {
	Vault   address.Address
	AssetID uint64
}

func (EntitlementCleared) Kind() string { return KindEntitlementCleared }

func (e EntitlementCleared) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID)
}

// BeneficialOwnerSet is emitted whenever a slot's beneficial owner changes.
type BeneficialOwnerSet struct {
	Vault   address.Address
	AssetID uint64
	Owner   address.Address
	SetBy   address.Address
}

func (BeneficialOwnerSet) Kind() string { return KindBeneficialOwnerSet }

func (e BeneficialOwnerSet) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID).
		Stringer("owner", e.Owner).Stringer("set_by", e.SetBy)
}

// AssetReceived is emitted when a vault accepts an asset. Airdrop is set
// for assets that did not arrive as a deposit.
type AssetReceived struct {
	Vault      address.Address
	Collection address.Address
	AssetID    uint64
	From       address.Address
	Airdrop    bool
}

func (AssetReceived) Kind() string { return KindAssetReceived }

func (e AssetReceived) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Stringer("collection", e.Collection).
		Uint64("asset_id", e.AssetID).Stringer("from", e.From).Bool("airdrop", e.Airdrop)
}

// AssetWithdrawn is emitted when an asset leaves custody.
type AssetWithdrawn struct {
	Vault   address.Address
	AssetID uint64
	To      address.Address
}

func (AssetWithdrawn) Kind() string { return KindAssetWithdrawn }

func (e AssetWithdrawn) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID).Stringer("to", e.To)
}

// AssetFlashLoaned is emitted after a flash loan completes.
type AssetFlashLoaned struct {
	Vault    address.Address
	AssetID  uint64
	Receiver address.Address
}

func (AssetFlashLoaned) Kind() string { return KindAssetFlashLoaned }

func (e AssetFlashLoaned) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID).Stringer("receiver", e.Receiver)
}

// OperatorApproved is emitted when a beneficial owner pre-approves an
// operator for a slot.
type OperatorApproved struct {
	Vault    address.Address
	AssetID  uint64
	Operator address.Address
}

func (OperatorApproved) Kind() string { return KindOperatorApproved }

func (e OperatorApproved) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("vault", e.Vault).Uint64("asset_id", e.AssetID).Stringer("operator", e.Operator)
}

// SettingsChanged is emitted when a market setting is updated.
type SettingsChanged struct {
	Setting string
	Value   int64
}

func (SettingsChanged) Kind() string { return KindSettingsChanged }

func (e SettingsChanged) MarshalZerologObject(z *zerolog.Event) {
	z.Str("setting", e.Setting).Int64("value", e.Value)
}

// PaymentWrapped is emitted when a direct payment failed and the amount was
// delivered as wrapper balance instead.
type PaymentWrapped struct {
	To     address.Address
	Amount uint64
}

func (PaymentWrapped) Kind() string { return KindPaymentWrapped }

func (e PaymentWrapped) MarshalZerologObject(z *zerolog.Event) {
	z.Stringer("to", e.To).Uint64("amount", e.Amount)
}
