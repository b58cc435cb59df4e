// Package vault holds assets on behalf of beneficial owners and lets an
// owner delegate one time-limited entitlement per asset to an operator.
package vault

import (
	"bytes"
	"fmt"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/sigauth"
	"github.com/bitfsorg/coveredcall-go/state"
)

// Compile-time interface check.
var _ asset.Receiver = (*Vault)(nil)

// FlashLoanReceiver runs while it holds a flash-loaned asset. It must
// approve the vault to take the asset back and report success.
type FlashLoanReceiver interface {
	ExecuteOperation(c *host.Call, collection address.Address, assetID uint64, beneficialOwner, vault address.Address, params []byte) bool
}

// Vault custodies assets of one collection. A multi vault holds any asset
// of the collection; a solo vault holds exactly one asset id.
type Vault struct {
	addr       address.Address
	collection asset.Collection
	registry   config.Registry
	slots      *state.Table[state.AddrID, Slot]
	solo       bool
	soloID     uint64
	loanGuard  host.Guard
}

// Address returns the vault identity.
func (v *Vault) Address() address.Address { return v.addr }

// Collection returns the address of the custodied collection.
func (v *Vault) Collection() address.Address { return v.collection.Address() }

// IsSolo reports whether the vault holds a single asset id.
func (v *Vault) IsSolo() bool { return v.solo }

// Slot returns the custody record for assetID.
func (v *Vault) Slot(assetID uint64) Slot {
	return v.slots.GetOrZero(v.key(assetID))
}

// BeneficialOwner returns the beneficial owner of assetID.
func (v *Vault) BeneficialOwner(assetID uint64) address.Address {
	return v.Slot(assetID).BeneficialOwner
}

// ApprovedOperator returns the pre-approved operator of assetID.
func (v *Vault) ApprovedOperator(assetID uint64) address.Address {
	return v.Slot(assetID).ApprovedOperator
}

// HasActiveEntitlement reports whether assetID has an active entitlement at now.
func (v *Vault) HasActiveEntitlement(assetID uint64, now int64) bool {
	return v.Slot(assetID).ActiveAt(now)
}

// EntitlementExpiration returns the stored expiry of assetID's entitlement.
func (v *Vault) EntitlementExpiration(assetID uint64) int64 {
	return v.Slot(assetID).Expiry
}

// CurrentEntitlement returns the entitlement active at now, if any.
func (v *Vault) CurrentEntitlement(assetID uint64, now int64) (Entitlement, bool) {
	s := v.Slot(assetID)
	if !s.ActiveAt(now) {
		return Entitlement{}, false
	}
	return Entitlement{
		BeneficialOwner: s.BeneficialOwner,
		Operator:        s.Operator,
		Vault:           v.addr,
		AssetID:         assetID,
		Expiry:          s.Expiry,
	}, true
}

// InCustody reports whether the collection records the vault as owner.
func (v *Vault) InCustody(assetID uint64) bool {
	owner, err := v.collection.OwnerOf(assetID)
	return err == nil && owner == v.addr
}

// OnAssetReceived is the deposit hook run by the collection's safe
// transfer. Expected assets become slots; anything else is an airdrop.
func (v *Vault) OnAssetReceived(c *host.Call, operator, from address.Address, assetID uint64, data []byte) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	if c.Caller() != v.collection.Address() || (v.solo && assetID != v.soloID) {
		if !v.registry.CollectionConfig(v.collection.Address(), config.KeyAirdropsAllowed) {
			return fmt.Errorf("%w: %s #%d", ErrAirdropsDisabled, c.Caller(), assetID)
		}
		c.Emit(event.AssetReceived{Vault: v.addr, Collection: c.Caller(), AssetID: assetID, From: from, Airdrop: true})
		return nil
	}
	if !v.InCustody(assetID) {
		return fmt.Errorf("%w: deposit of #%d did not land", ErrNotInCustody, assetID)
	}
	if !v.Slot(assetID).BeneficialOwner.IsZero() {
		return fmt.Errorf("%w: #%d", ErrAlreadyRecorded, assetID)
	}

	payload, err := DecodeDepositPayload(data)
	if err != nil {
		return err
	}

	owner := from
	if payload.Entitlement != nil {
		owner = payload.Entitlement.BeneficialOwner
	}
	if owner.IsZero() {
		return ErrZeroOwner
	}

	slot := Slot{BeneficialOwner: owner, ApprovedOperator: payload.ApprovedOperator}
	v.slots.Set(v.key(assetID), slot)
	c.Emit(event.AssetReceived{Vault: v.addr, Collection: c.Caller(), AssetID: assetID, From: from})
	c.Emit(event.BeneficialOwnerSet{Vault: v.addr, AssetID: assetID, Owner: owner, SetBy: from})
	if !payload.ApprovedOperator.IsZero() {
		c.Emit(event.OperatorApproved{Vault: v.addr, AssetID: assetID, Operator: payload.ApprovedOperator})
	}

	if payload.Entitlement != nil {
		e := *payload.Entitlement
		if e.Vault != v.addr || e.AssetID != assetID {
			return fmt.Errorf("%w: got vault %s asset %d", ErrEntitlementMismatch, e.Vault, e.AssetID)
		}
		return v.register(c, assetID, e.Operator, e.Expiry)
	}
	return nil
}

// ImposeEntitlement registers an entitlement authorized off-line: sig must
// recover to the current beneficial owner over the canonical statement.
func (v *Vault) ImposeEntitlement(c *host.Call, operator address.Address, expiry int64, assetID uint64, sig []byte) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	if err := v.checkAsset(assetID); err != nil {
		return err
	}
	slot := v.Slot(assetID)
	if slot.BeneficialOwner.IsZero() {
		return fmt.Errorf("%w: #%d", ErrNoBeneficialOwner, assetID)
	}
	e := Entitlement{
		BeneficialOwner: slot.BeneficialOwner,
		Operator:        operator,
		Vault:           v.addr,
		AssetID:         assetID,
		Expiry:          expiry,
	}
	if err := sigauth.VerifyStatement(e.Statement(), sig); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return v.register(c, assetID, operator, expiry)
}

// GrantEntitlement registers e directly. The caller must be the beneficial
// owner or the slot's pre-approved operator.
func (v *Vault) GrantEntitlement(c *host.Call, e Entitlement) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	if err := v.checkAsset(e.AssetID); err != nil {
		return err
	}
	if e.Vault != v.addr {
		return fmt.Errorf("%w: vault %s", ErrEntitlementMismatch, e.Vault)
	}
	slot := v.Slot(e.AssetID)
	if slot.BeneficialOwner.IsZero() {
		return fmt.Errorf("%w: #%d", ErrNoBeneficialOwner, e.AssetID)
	}
	if e.BeneficialOwner != slot.BeneficialOwner {
		return ErrOwnerMismatch
	}
	caller := c.Caller()
	if caller != slot.BeneficialOwner && (slot.ApprovedOperator.IsZero() || caller != slot.ApprovedOperator) {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, caller)
	}
	return v.register(c, e.AssetID, e.Operator, e.Expiry)
}

// ApproveOperator pre-approves to to grant entitlements on assetID. The
// zero address revokes the approval.
func (v *Vault) ApproveOperator(c *host.Call, to address.Address, assetID uint64) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	slot := v.Slot(assetID)
	if c.Caller() != slot.BeneficialOwner || slot.BeneficialOwner.IsZero() {
		return ErrNotBeneficialOwner
	}
	slot.ApprovedOperator = to
	v.slots.Set(v.key(assetID), slot)
	c.Emit(event.OperatorApproved{Vault: v.addr, AssetID: assetID, Operator: to})
	return nil
}

// SetBeneficialOwner reassigns assetID. While an entitlement is active only
// its operator may do so; otherwise only the current beneficial owner.
func (v *Vault) SetBeneficialOwner(c *host.Call, assetID uint64, newOwner address.Address) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrZeroOwner
	}
	slot := v.Slot(assetID)
	if slot.ActiveAt(c.Now()) {
		if c.Caller() != slot.Operator {
			return fmt.Errorf("%w: %s", ErrNotOperator, c.Caller())
		}
	} else if slot.BeneficialOwner.IsZero() || c.Caller() != slot.BeneficialOwner {
		return fmt.Errorf("%w: %s", ErrNotBeneficialOwner, c.Caller())
	}
	v.setOwner(c, assetID, slot, newOwner)
	return nil
}

// ClearEntitlement removes the entitlement of assetID. Only the operator of
// record may clear it, including after its expiry has passed.
func (v *Vault) ClearEntitlement(c *host.Call, assetID uint64) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	slot := v.Slot(assetID)
	if slot.Operator.IsZero() {
		return fmt.Errorf("%w: #%d", ErrNoEntitlement, assetID)
	}
	if c.Caller() != slot.Operator {
		return fmt.Errorf("%w: %s", ErrNotOperator, c.Caller())
	}
	v.clear(c, assetID, slot)
	return nil
}

// ClearEntitlementAndDistribute clears the entitlement and releases the
// asset to receiver, who must be the beneficial owner.
func (v *Vault) ClearEntitlementAndDistribute(c *host.Call, assetID uint64, receiver address.Address) error {
	if slot := v.Slot(assetID); receiver.IsZero() || receiver != slot.BeneficialOwner {
		return fmt.Errorf("%w: %s", ErrReceiverNotOwner, receiver)
	}
	if err := v.ClearEntitlement(c, assetID); err != nil {
		return err
	}
	return v.release(c, assetID, receiver)
}

// WithdrawalAsset returns assetID to its beneficial owner. It fails while an
// entitlement is active.
func (v *Vault) WithdrawalAsset(c *host.Call, assetID uint64) error {
	if err := v.registry.ThrowWhenPaused(); err != nil {
		return err
	}
	slot := v.Slot(assetID)
	if slot.ActiveAt(c.Now()) {
		return fmt.Errorf("%w: #%d until %d", ErrEntitlementActive, assetID, slot.Expiry)
	}
	if slot.BeneficialOwner.IsZero() || c.Caller() != slot.BeneficialOwner {
		return fmt.Errorf("%w: %s", ErrNotBeneficialOwner, c.Caller())
	}
	return v.release(c, assetID, slot.BeneficialOwner)
}

// FlashLoan lends assetID to receiver for the duration of one callback.
// The callback runs as receiver, never as the vault. The asset must come
// back and the slot must be byte-identical afterwards.
func (v *Vault) FlashLoan(c *host.Call, assetID uint64, receiver address.Address, params []byte) error {
	return v.loanGuard.Run(func() error {
		if err := v.registry.ThrowWhenPaused(); err != nil {
			return err
		}
		if !v.registry.CollectionConfig(v.collection.Address(), config.KeyFlashLoansEnabled) {
			return ErrFlashLoansDisabled
		}
		slot := v.Slot(assetID)
		if slot.BeneficialOwner.IsZero() || c.Caller() != slot.BeneficialOwner {
			return fmt.Errorf("%w: %s", ErrNotBeneficialOwner, c.Caller())
		}
		r, ok := host.Lookup[FlashLoanReceiver](c.Env(), receiver)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFlashLoanReceiver, receiver)
		}
		if !v.InCustody(assetID) {
			return fmt.Errorf("%w: #%d", ErrNotInCustody, assetID)
		}

		before, err := state.EncodeValue(slot)
		if err != nil {
			return err
		}

		self := c.As(v.addr)
		if err := v.collection.TransferFrom(self, v.addr, receiver, assetID); err != nil {
			return err
		}
		if !r.ExecuteOperation(c.As(receiver), v.collection.Address(), assetID, slot.BeneficialOwner, v.addr, params) {
			return ErrFlashLoanFailed
		}
		if err := v.collection.TransferFrom(self, receiver, v.addr, assetID); err != nil {
			return fmt.Errorf("%w: %w", ErrFlashLoanNotReturned, err)
		}
		if !v.InCustody(assetID) {
			return fmt.Errorf("%w: #%d", ErrNotInCustody, assetID)
		}

		after, err := state.EncodeValue(v.Slot(assetID))
		if err != nil {
			return err
		}
		if !bytes.Equal(before, after) {
			return ErrFlashLoanStateChanged
		}
		c.Emit(event.AssetFlashLoaned{Vault: v.addr, AssetID: assetID, Receiver: receiver})
		return nil
	})
}

// register stores a new entitlement on assetID. At most one may be active.
func (v *Vault) register(c *host.Call, assetID uint64, operator address.Address, expiry int64) error {
	if operator.IsZero() {
		return ErrZeroOperator
	}
	if expiry <= c.Now() {
		return fmt.Errorf("%w: expiry %d, now %d", ErrExpiryNotFuture, expiry, c.Now())
	}
	slot := v.Slot(assetID)
	if slot.ActiveAt(c.Now()) {
		return fmt.Errorf("%w: #%d held by %s", ErrEntitlementActive, assetID, slot.Operator)
	}
	slot.Operator = operator
	slot.Expiry = expiry
	v.slots.Set(v.key(assetID), slot)
	c.Emit(event.EntitlementImposed{
		Vault:           v.addr,
		AssetID:         assetID,
		Operator:        operator,
		BeneficialOwner: slot.BeneficialOwner,
		Expiry:          expiry,
	})
	return nil
}

func (v *Vault) clear(c *host.Call, assetID uint64, slot Slot) {
	slot.Operator = address.Zero
	slot.Expiry = 0
	v.slots.Set(v.key(assetID), slot)
	c.Emit(event.EntitlementCleared{Vault: v.addr, AssetID: assetID})
}

func (v *Vault) setOwner(c *host.Call, assetID uint64, slot Slot, owner address.Address) {
	slot.BeneficialOwner = owner
	slot.ApprovedOperator = address.Zero
	v.slots.Set(v.key(assetID), slot)
	c.Emit(event.BeneficialOwnerSet{Vault: v.addr, AssetID: assetID, Owner: owner, SetBy: c.Caller()})
}

// release sends the asset out of custody and resets the slot.
func (v *Vault) release(c *host.Call, assetID uint64, to address.Address) error {
	if !v.InCustody(assetID) {
		return fmt.Errorf("%w: #%d", ErrNotInCustody, assetID)
	}
	v.slots.Set(v.key(assetID), Slot{})
	if err := v.collection.SafeTransferFrom(c.As(v.addr), v.addr, to, assetID, nil); err != nil {
		return err
	}
	c.Emit(event.AssetWithdrawn{Vault: v.addr, AssetID: assetID, To: to})
	return nil
}

func (v *Vault) checkAsset(assetID uint64) error {
	if v.solo && assetID != v.soloID {
		return fmt.Errorf("%w: holds #%d, got #%d", ErrWrongAsset, v.soloID, assetID)
	}
	return nil
}

func (v *Vault) key(assetID uint64) state.AddrID {
	return state.AddrID{Addr: v.addr, ID: assetID}
}
